package auth

import (
	"context"
	"errors"

	"github.com/Aryan-git-byte/XolveTech-Website-sub001/internal/domain"
)

var ErrAccountNotFound = errors.New("account not found")

// Account is a stored credential. Role lives here, server-side: partner
// and admin rows are seeded by operators, never set from a request.
type Account struct {
	ID         string
	Email      string
	Name       string
	SecretHash []byte
	Role       domain.Role
}

type AccountRepository interface {
	GetByEmail(ctx context.Context, email string) (*Account, error)
	UpdateSecret(ctx context.Context, email string, secretHash []byte) error
}
