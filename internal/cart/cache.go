package cart

import (
	"context"
	"errors"

	"github.com/Aryan-git-byte/XolveTech-Website-sub001/internal/domain"
)

type Cache interface {
	Get(ctx context.Context, customerID string) (*domain.Cart, error)
	Set(ctx context.Context, customerID string, cart *domain.Cart) error
	Delete(ctx context.Context, customerID string) error
}

var ErrCacheMiss = errors.New("cache miss")
