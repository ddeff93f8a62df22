// Package store defines the persistence contracts shared by every backend.
package store

import (
	"context"
	"errors"

	"github.com/Adi-Narayan/Hashira/models"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrProductNotFound = errors.New("product not found")
	ErrDuplicateEmail  = errors.New("user already exists")
	ErrDuplicateTxn    = errors.New("order already exists for transaction")
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Update replaces the profile fields and password hash. The cart is left alone.
	Update(ctx context.Context, user *models.User) error
	// SetCart overwrites the whole cart. Concurrent writers race and the last one wins.
	SetCart(ctx context.Context, userID string, cart models.CartData) error
}

// OrderFilter narrows an order listing. An empty UserID lists every order.
type OrderFilter struct {
	UserID string
}

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	GetByTxnID(ctx context.Context, txnID string) (*models.Order, error)
	// List returns orders newest first.
	List(ctx context.Context, filter OrderFilter) ([]models.Order, error)
	MarkPaid(ctx context.Context, id, paymentID string) error
	UpdateStatus(ctx context.Context, id, status string) error
}

type ProductRepository interface {
	List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Upsert(ctx context.Context, product *models.Product) error
}

// Store owns the backend connection for the lifetime of the application.
type Store interface {
	Users() UserRepository
	Orders() OrderRepository
	Products() ProductRepository
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
