// Package service holds the storefront use cases. Handlers translate HTTP to
// these calls and the errors below back to status codes.
package service

import (
	"context"
	"errors"

	"github.com/Adi-Narayan/Hashira/models"
)

var (
	ErrInvalidCartItem    = errors.New("itemId and size are required")
	ErrInvalidOrder       = errors.New("order must contain items and a positive amount")
	ErrInvalidEmail       = errors.New("Please enter a valid email")
	ErrWeakPassword       = errors.New("Please enter a strong password")
	ErrMissingName        = errors.New("name is required")
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrInvalidStatus      = errors.New("status is required")
	ErrInvalidResetToken  = errors.New("reset link is invalid or has expired")
	ErrPaymentUnavailable = errors.New("online payment is not available")
)

const minPasswordLength = 8

// Notifier sends best-effort transactional email. Implementations never
// report failure to the caller.
type Notifier interface {
	Welcome(ctx context.Context, user *models.User)
	OrderPlaced(ctx context.Context, to string, order *models.Order)
	OrderStatusChanged(ctx context.Context, to string, order *models.Order)
	PasswordReset(ctx context.Context, to, token string)
}

// Broadcaster publishes order events to live admin dashboards.
type Broadcaster interface {
	Publish(eventType string, order *models.Order)
}

type nopBroadcaster struct{}

func (nopBroadcaster) Publish(string, *models.Order) {}
