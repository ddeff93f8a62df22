package notify

import (
	"context"
	"time"

	"github.com/Adi-Narayan/Hashira/models"
	"go.uber.org/zap"
)

// enqueueTimeout bounds how long a request waits on the queue backend.
const enqueueTimeout = 2 * time.Second

type Enqueuer interface {
	Enqueue(ctx context.Context, msg Message) error
}

// Notifier turns domain events into queued emails. Enqueue failures are
// logged and never reach the caller.
type Notifier struct {
	outbox      Enqueuer
	frontendURL string
}

func NewNotifier(outbox Enqueuer, frontendURL string) *Notifier {
	return &Notifier{outbox: outbox, frontendURL: frontendURL}
}

func (n *Notifier) Welcome(ctx context.Context, user *models.User) {
	n.enqueue(ctx, WelcomeMessage(user.Email, user.Name, n.frontendURL))
}

func (n *Notifier) OrderPlaced(ctx context.Context, to string, order *models.Order) {
	n.enqueue(ctx, OrderConfirmationMessage(to, order))
}

func (n *Notifier) OrderStatusChanged(ctx context.Context, to string, order *models.Order) {
	n.enqueue(ctx, OrderStatusMessage(to, order))
}

func (n *Notifier) PasswordReset(ctx context.Context, to, token string) {
	n.enqueue(ctx, PasswordResetMessage(to, token, n.frontendURL))
}

func (n *Notifier) enqueue(ctx context.Context, msg Message) {
	if msg.To == "" {
		zap.L().Warn("email skipped, no recipient",
			zap.String("namespace", "notify"),
			zap.String("kind", string(msg.Kind)))
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), enqueueTimeout)
	defer cancel()
	if err := n.outbox.Enqueue(ctx, msg); err != nil {
		zap.L().Error("failed to enqueue email",
			zap.String("namespace", "notify"),
			zap.String("kind", string(msg.Kind)),
			zap.String("to", msg.To),
			zap.Error(err))
	}
}
