// Package wishlist is a thin proxy over the remote wishlist endpoints.
package wishlist

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/limestore/limectl/internal/errs"
	"github.com/limestore/limectl/internal/model"
)

// API is the slice of the HTTP client the wishlist needs.
type API interface {
	Wishlist(ctx context.Context) ([]model.WishlistItem, error)
	AddToWishlist(ctx context.Context, productID string) error
	RemoveFromWishlist(ctx context.Context, productID string) error
}

// Service validates input and delegates to the remote wishlist.
type Service struct {
	api API
	log *zap.Logger
}

// NewService constructs the wishlist proxy.
func NewService(api API, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{api: api, log: log}
}

// Items fetches the wishlist.
func (s *Service) Items(ctx context.Context) ([]model.WishlistItem, error) {
	return s.api.Wishlist(ctx)
}

// Add saves a product on the wishlist.
func (s *Service) Add(ctx context.Context, productID string) error {
	if productID == "" {
		return fmt.Errorf("wishlist: empty product id: %w", errs.ErrValidation)
	}
	return s.api.AddToWishlist(ctx, productID)
}

// Remove deletes a product from the wishlist.
func (s *Service) Remove(ctx context.Context, productID string) error {
	if productID == "" {
		return fmt.Errorf("wishlist: empty product id: %w", errs.ErrValidation)
	}
	return s.api.RemoveFromWishlist(ctx, productID)
}

// Toggle adds the product when absent and removes it when present.
// Reports whether the product is on the wishlist afterwards.
func (s *Service) Toggle(ctx context.Context, productID string) (bool, error) {
	if productID == "" {
		return false, fmt.Errorf("wishlist: empty product id: %w", errs.ErrValidation)
	}
	items, err := s.api.Wishlist(ctx)
	if err != nil {
		return false, err
	}
	for _, it := range items {
		if it.ProductID == productID {
			return false, s.api.RemoveFromWishlist(ctx, productID)
		}
	}
	return true, s.api.AddToWishlist(ctx, productID)
}
