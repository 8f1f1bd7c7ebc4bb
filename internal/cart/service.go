package cart

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/Aryan-git-byte/XolveTech-Website-sub001/internal/domain"
	"golang.org/x/sync/singleflight"
)

type Service struct {
	repo  Repository
	cache Cache
	sfg   singleflight.Group // Prevents cache stampede
}

func NewService(repo Repository, cache Cache) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
	}
}

func (s *Service) GetCart(ctx context.Context, customerID string) (*domain.Cart, error) {
	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(customerID, func() (interface{}, error) {

		cart, err := s.cache.Get(ctx, customerID)
		if err == nil {
			return cart, nil // cart is in cache
		}

		if !errors.Is(err, ErrCacheMiss) {
			log.Printf("cache get error: %v \n", err) // log cache error but continue
		}

		cart, errGet := s.repo.GetCart(ctx, customerID)
		if errGet != nil && errors.Is(errGet, ErrCartNotFound) { // no cart yet, return an empty one
			return &domain.Cart{
				CustomerID: customerID,
				Lines:      nil,
				CreatedAt:  time.Now(),
				UpdatedAt:  time.Now(),
			}, nil
		}
		if errGet != nil {
			return nil, errGet
		}

		// set cache
		go func() {
			errSet := s.cache.Set(context.Background(), customerID, cart)
			if errSet != nil {
				log.Printf("cache set error: %v \n", errSet)
			}
		}()

		return cart, nil // cart was not in cache, return it from repo
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.Cart), nil
}

func (s *Service) AddLine(ctx context.Context, customerID, productRef, title string, unitPrice float64, qty int) (*domain.Cart, error) {
	return s.mutate(ctx, customerID, func(c *domain.Cart) {
		c.Add(productRef, title, unitPrice, qty)
	})
}

func (s *Service) SetQuantity(ctx context.Context, customerID, productRef string, qty int) (*domain.Cart, error) {
	return s.mutate(ctx, customerID, func(c *domain.Cart) {
		c.SetQuantity(productRef, qty)
	})
}

func (s *Service) RemoveLine(ctx context.Context, customerID, productRef string) (*domain.Cart, error) {
	return s.mutate(ctx, customerID, func(c *domain.Cart) {
		c.Remove(productRef)
	})
}

func (s *Service) ClearCart(ctx context.Context, customerID string) error {
	errDelete := s.repo.DeleteCart(ctx, customerID)
	if errDelete != nil && !errors.Is(errDelete, ErrCartNotFound) {
		log.Printf("repo delete cart error: %v \n", errDelete)
		return errDelete
	}

	s.invalidateCache(customerID)
	return nil
}

// mutate loads the current cart, applies fn to it and writes it back.
func (s *Service) mutate(ctx context.Context, customerID string, fn func(*domain.Cart)) (*domain.Cart, error) {
	cart, err := s.repo.GetCart(ctx, customerID)
	if errors.Is(err, ErrCartNotFound) {
		cart = &domain.Cart{CustomerID: customerID}
	} else if err != nil {
		log.Printf("repo get cart error: %v \n", err)
		return nil, err
	}

	fn(cart)

	if errUpsert := s.repo.UpsertCart(ctx, cart); errUpsert != nil {
		log.Printf("repo upsert cart error: %v \n", errUpsert)
		return nil, errUpsert
	}

	s.invalidateCache(customerID)
	return cart, nil
}

func (s *Service) invalidateCache(customerID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	errInvalidate := s.cache.Delete(ctx, customerID)
	if errInvalidate != nil {
		log.Printf("cache invalidate error: %v \n", errInvalidate)
	}
}
