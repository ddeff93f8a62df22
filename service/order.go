package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Adi-Narayan/Hashira/models"
	"github.com/Adi-Narayan/Hashira/payu"
	"github.com/Adi-Narayan/Hashira/realtime"
	"github.com/Adi-Narayan/Hashira/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PlaceOrderInput is the checkout payload. Items and amount are snapshots
// taken by the client and stored as sent.
type PlaceOrderInput struct {
	Items   []models.OrderItem
	Amount  float64
	Address models.Address
}

func (in PlaceOrderInput) validate() error {
	if len(in.Items) == 0 || in.Amount <= 0 {
		return ErrInvalidOrder
	}
	for _, item := range in.Items {
		if item.ProductID == "" || item.Quantity <= 0 {
			return ErrInvalidOrder
		}
	}
	return nil
}

type OrderService struct {
	users       store.UserRepository
	orders      store.OrderRepository
	gateway     *payu.Gateway
	notifier    Notifier
	broadcaster Broadcaster
	now         func() time.Time
}

func NewOrderService(users store.UserRepository, orders store.OrderRepository, gateway *payu.Gateway, notifier Notifier, broadcaster Broadcaster) *OrderService {
	if broadcaster == nil {
		broadcaster = nopBroadcaster{}
	}
	if gateway == nil {
		gateway = &payu.Gateway{}
	}
	return &OrderService{
		users:       users,
		orders:      orders,
		gateway:     gateway,
		notifier:    notifier,
		broadcaster: broadcaster,
		now:         time.Now,
	}
}

func (s *OrderService) newOrder(userID, method string, in PlaceOrderInput) *models.Order {
	return &models.Order{
		ID:            uuid.NewString(),
		UserID:        userID,
		Items:         append([]models.OrderItem(nil), in.Items...),
		Address:       in.Address,
		Amount:        in.Amount,
		PaymentMethod: method,
		Payment:       false,
		Status:        models.OrderStatusPlaced,
		Date:          s.now().UTC(),
	}
}

// PlaceCOD stores a cash-on-delivery order and empties the cart.
func (s *OrderService) PlaceCOD(ctx context.Context, userID string, in PlaceOrderInput) (*models.Order, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	order := s.newOrder(userID, models.PaymentMethodCOD, in)
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}
	s.clearCart(ctx, userID)

	s.notifier.OrderPlaced(ctx, recipient(user, order), order)
	s.broadcaster.Publish(realtime.EventOrderCreated, order)

	zap.L().Info("order placed",
		zap.String("namespace", "order"),
		zap.String("order_id", order.ID),
		zap.String("user_id", userID),
		zap.String("method", order.PaymentMethod),
		zap.Float64("amount", order.Amount))
	return order, nil
}

// PlacePayU stores an unpaid order under a fresh transaction id and returns
// the parameters the client posts to the gateway. The cart is kept until the
// payment is confirmed.
func (s *OrderService) PlacePayU(ctx context.Context, userID string, in PlaceOrderInput) (*models.Order, *payu.PaymentRequest, error) {
	if !s.gateway.Enabled() {
		return nil, nil, ErrPaymentUnavailable
	}
	if err := in.validate(); err != nil {
		return nil, nil, err
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, nil, err
	}

	order := s.newOrder(userID, models.PaymentMethodPayU, in)
	order.TxnID = payu.NewTxnID()

	req, err := s.gateway.BuildRequest(order)
	if err != nil {
		return nil, nil, err
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, nil, fmt.Errorf("failed to place order: %w", err)
	}
	s.broadcaster.Publish(realtime.EventOrderCreated, order)

	zap.L().Info("payu order created",
		zap.String("namespace", "order"),
		zap.String("order_id", order.ID),
		zap.String("txnid", order.TxnID),
		zap.String("user_id", userID),
		zap.Float64("amount", order.Amount))
	return order, req, nil
}

// ConfirmPayU applies a gateway callback and returns the frontend page the
// customer should land on. Only a correctly signed success callback for a
// known transaction with a matching amount marks the order paid; a repeated
// callback for a paid order is a no-op.
func (s *OrderService) ConfirmPayU(ctx context.Context, cb payu.Callback) (string, error) {
	log := zap.L().With(zap.String("namespace", "payu"), zap.String("txnid", cb.TxnID))

	if err := s.gateway.Verify(cb); err != nil {
		log.Warn("rejected payu callback", zap.Error(err))
		return s.gateway.FailureURL(cb.TxnID), err
	}

	order, err := s.orders.GetByTxnID(ctx, cb.TxnID)
	if err != nil {
		log.Warn("payu callback for unknown transaction", zap.Error(err))
		return s.gateway.FailureURL(cb.TxnID), err
	}
	if !cb.Succeeded() {
		log.Info("payu payment not successful", zap.String("status", cb.Status))
		return s.gateway.FailureURL(cb.TxnID), nil
	}
	if err := payu.CheckAmount(cb, order.Amount); err != nil {
		log.Error("payu amount mismatch", zap.String("order_id", order.ID), zap.Error(err))
		return s.gateway.FailureURL(cb.TxnID), err
	}
	if order.Payment {
		log.Info("payu callback replayed for paid order", zap.String("order_id", order.ID))
		return s.gateway.SuccessURL(cb.TxnID), nil
	}

	if err := s.orders.MarkPaid(ctx, order.ID, cb.MihPayID); err != nil {
		log.Error("failed to mark order paid", zap.String("order_id", order.ID), zap.Error(err))
		return s.gateway.FailureURL(cb.TxnID), err
	}
	order.Payment = true
	order.PaymentID = cb.MihPayID
	s.clearCart(ctx, order.UserID)

	user, _ := s.users.GetByID(ctx, order.UserID)
	s.notifier.OrderPlaced(ctx, recipient(user, order), order)
	s.broadcaster.Publish(realtime.EventOrderPaid, order)

	log.Info("payu payment confirmed", zap.String("order_id", order.ID), zap.String("mihpayid", cb.MihPayID))
	return s.gateway.SuccessURL(cb.TxnID), nil
}

// FailureURL is where a callback that could not even be parsed lands.
func (s *OrderService) FailureURL(txnID string) string {
	return s.gateway.FailureURL(txnID)
}

// List returns every order, or only userID's orders when it is set.
func (s *OrderService) List(ctx context.Context, userID string) ([]models.Order, error) {
	return s.orders.List(ctx, store.OrderFilter{UserID: userID})
}

func (s *OrderService) UserOrders(ctx context.Context, userID string) ([]models.Order, error) {
	if userID == "" {
		return nil, store.ErrUserNotFound
	}
	return s.orders.List(ctx, store.OrderFilter{UserID: userID})
}

// UpdateStatus sets a free-text fulfilment status. Transitions are not checked.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, status string) (*models.Order, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, ErrInvalidStatus
	}
	if err := s.orders.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, err
	}
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	user, _ := s.users.GetByID(ctx, order.UserID)
	s.notifier.OrderStatusChanged(ctx, recipient(user, order), order)
	s.broadcaster.Publish(realtime.EventOrderStatus, order)

	zap.L().Info("order status updated",
		zap.String("namespace", "order"),
		zap.String("order_id", orderID),
		zap.String("status", status))
	return order, nil
}

func (s *OrderService) clearCart(ctx context.Context, userID string) {
	if err := s.users.SetCart(ctx, userID, models.CartData{}); err != nil {
		// The order is already stored; a stale cart is not worth failing it.
		zap.L().Error("failed to clear cart",
			zap.String("namespace", "order"),
			zap.String("user_id", userID),
			zap.Error(err))
	}
}

func recipient(user *models.User, order *models.Order) string {
	if user != nil && user.Email != "" {
		return user.Email
	}
	return order.Address.Email
}

// IsNotFound reports whether err means a user or order does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, store.ErrUserNotFound) ||
		errors.Is(err, store.ErrOrderNotFound) ||
		errors.Is(err, store.ErrProductNotFound)
}
