package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Aryan-git-byte/XolveTech-Website-sub001/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or secret")
	ErrTokenInvalid       = errors.New("recovery token is malformed")
	ErrTokenExpired       = errors.New("recovery token is expired or already used")
	ErrWeakSecret         = errors.New("new secret is too short")
)

const minSecretLength = 8

// Mailer delivers the password recovery email.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type Service struct {
	accounts     AccountRepository
	sessions     SessionStore
	resetTokens  ResetTokenStore
	mailer       Mailer
	resetBaseURL string
}

func NewService(accounts AccountRepository, sessions SessionStore, resetTokens ResetTokenStore, mailer Mailer, resetBaseURL string) *Service {
	return &Service{
		accounts:     accounts,
		sessions:     sessions,
		resetTokens:  resetTokens,
		mailer:       mailer,
		resetBaseURL: resetBaseURL,
	}
}

// SignIn verifies the secret against the stored hash and issues a
// session token. Unknown email and wrong secret are indistinguishable
// to the caller.
func (s *Service) SignIn(ctx context.Context, email, secret string) (*domain.Session, error) {
	account, err := s.accounts.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(account.SecretHash, []byte(secret)); err != nil {
		return nil, ErrInvalidCredentials
	}

	session := &domain.Session{
		Token:      uuid.NewString(),
		CustomerID: account.ID,
		Name:       account.Name,
		Email:      account.Email,
		Role:       account.Role,
		CreatedAt:  time.Now(),
	}

	if err := s.sessions.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return session, nil
}

func (s *Service) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Delete(ctx, token)
}

// Current resolves the session behind a token. An invalidated or
// expired session is gone on the very next check, there is no cached
// role to go stale.
func (s *Service) Current(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, ErrNoSession
	}
	return s.sessions.Get(ctx, token)
}

// RequestReset issues a time-boxed, single-use recovery token and mails
// a reset link. An unknown email succeeds silently so the endpoint
// cannot be used to probe for accounts.
func (s *Service) RequestReset(ctx context.Context, email string) error {
	account, err := s.accounts.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			log.Printf("reset requested for unknown email, ignoring")
			return nil
		}
		return fmt.Errorf("load account: %w", err)
	}

	token := uuid.NewString()
	if err := s.resetTokens.Put(ctx, token, account.Email); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	body := fmt.Sprintf(
		"Hi %s,\n\nUse the link below to choose a new password. The link is valid for 30 minutes and works once.\n\n%s?token=%s\n\nIf you did not ask for this, you can ignore this email.",
		account.Name, s.resetBaseURL, token,
	)
	if err := s.mailer.Send(ctx, account.Email, "Reset your XolveTech password", body); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}
	return nil
}

// CompleteReset consumes a recovery token and installs a new secret.
// A malformed token and an expired/used token are distinct failures, so
// the UI can offer "request a new link" instead of a blind retry.
func (s *Service) CompleteReset(ctx context.Context, token, newSecret string) error {
	if _, err := uuid.Parse(token); err != nil {
		return ErrTokenInvalid
	}
	if len(newSecret) < minSecretLength {
		return ErrWeakSecret
	}

	email, err := s.resetTokens.Take(ctx, token)
	if err != nil {
		if errors.Is(err, ErrNoToken) {
			return ErrTokenExpired
		}
		return fmt.Errorf("take reset token: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newSecret), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash new secret: %w", err)
	}

	if err := s.accounts.UpdateSecret(ctx, email, hash); err != nil {
		return fmt.Errorf("update secret: %w", err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
