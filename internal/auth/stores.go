package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Aryan-git-byte/XolveTech-Website-sub001/internal/domain"
	"github.com/redis/go-redis/v9"
)

var (
	ErrNoSession = errors.New("no active session")
	ErrNoToken   = errors.New("reset token missing or expired")
)

type SessionStore interface {
	Put(ctx context.Context, session *domain.Session) error
	Get(ctx context.Context, token string) (*domain.Session, error)
	Delete(ctx context.Context, token string) error
}

// ResetTokenStore holds single-use recovery tokens. Take consumes the
// token: a second Take for the same token always fails.
type ResetTokenStore interface {
	Put(ctx context.Context, token, email string) error
	Take(ctx context.Context, token string) (string, error)
}

const (
	sessionTTL    = 24 * time.Hour
	resetTokenTTL = 30 * time.Minute
)

type RedisSessionStore struct {
	client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func (r *RedisSessionStore) Put(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session failed: %w", err)
	}
	if ret := r.client.Set(ctx, sessionKey(session.Token), data, sessionTTL); ret.Err() != nil {
		return fmt.Errorf("redis set failed: %w", ret.Err())
	}
	return nil
}

func (r *RedisSessionStore) Get(ctx context.Context, token string) (*domain.Session, error) {
	data, err := r.client.Get(ctx, sessionKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var session domain.Session
	if err2 := json.Unmarshal(data, &session); err2 != nil {
		return nil, fmt.Errorf("unmarshal session failed: %w", err2)
	}
	return &session, nil
}

func (r *RedisSessionStore) Delete(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func sessionKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}

type RedisResetTokenStore struct {
	client *redis.Client
}

func NewRedisResetTokenStore(client *redis.Client) *RedisResetTokenStore {
	return &RedisResetTokenStore{client: client}
}

func (r *RedisResetTokenStore) Put(ctx context.Context, token, email string) error {
	if ret := r.client.Set(ctx, resetKey(token), email, resetTokenTTL); ret.Err() != nil {
		return fmt.Errorf("redis set failed: %w", ret.Err())
	}
	return nil
}

func (r *RedisResetTokenStore) Take(ctx context.Context, token string) (string, error) {
	email, err := r.client.GetDel(ctx, resetKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("redis getdel failed: %w", err)
	}
	return email, nil
}

func resetKey(token string) string {
	return fmt.Sprintf("reset:%s", token)
}
