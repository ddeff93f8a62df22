package service

import (
	"context"
	"fmt"

	"github.com/Adi-Narayan/Hashira/models"
	"github.com/Adi-Narayan/Hashira/store"
)

// CartService edits the cart stored on the user document. Every call reads
// the whole cart, changes it and writes it back; concurrent writers for the
// same user race and the last write wins.
type CartService struct {
	users store.UserRepository
}

func NewCartService(users store.UserRepository) *CartService {
	return &CartService{users: users}
}

func (s *CartService) load(ctx context.Context, userID string) (models.CartData, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.CartData == nil {
		return models.CartData{}, nil
	}
	return user.CartData.Normalize(), nil
}

func (s *CartService) Add(ctx context.Context, userID, itemID, size string) error {
	if itemID == "" || size == "" {
		return ErrInvalidCartItem
	}
	cart, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	cart.Add(itemID, size)
	if err := s.users.SetCart(ctx, userID, cart); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// Update sets the quantity for (itemID, size). A quantity <= 0 removes it.
func (s *CartService) Update(ctx context.Context, userID, itemID, size string, quantity int) error {
	if itemID == "" || size == "" {
		return ErrInvalidCartItem
	}
	cart, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	cart.Set(itemID, size, quantity)
	if err := s.users.SetCart(ctx, userID, cart); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func (s *CartService) Get(ctx context.Context, userID string) (models.CartData, error) {
	return s.load(ctx, userID)
}
