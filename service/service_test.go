package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Adi-Narayan/Hashira/auth"
	"github.com/Adi-Narayan/Hashira/models"
	"github.com/Adi-Narayan/Hashira/payu"
	"github.com/Adi-Narayan/Hashira/store/memstore"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	kind  string
	to    string
	order *models.Order
	token string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMail
}

func (n *fakeNotifier) record(m sentMail) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, m)
}

func (n *fakeNotifier) Welcome(_ context.Context, user *models.User) {
	n.record(sentMail{kind: "welcome", to: user.Email})
}

func (n *fakeNotifier) OrderPlaced(_ context.Context, to string, order *models.Order) {
	n.record(sentMail{kind: "order", to: to, order: order})
}

func (n *fakeNotifier) OrderStatusChanged(_ context.Context, to string, order *models.Order) {
	n.record(sentMail{kind: "status", to: to, order: order})
}

func (n *fakeNotifier) PasswordReset(_ context.Context, to, token string) {
	n.record(sentMail{kind: "reset", to: to, token: token})
}

func (n *fakeNotifier) Kinds() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	kinds := make([]string, 0, len(n.sent))
	for _, m := range n.sent {
		kinds = append(kinds, m.kind)
	}
	return kinds
}

func (n *fakeNotifier) Last() sentMail {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.sent[len(n.sent)-1]
}

type fakeBroadcaster struct {
	mu     sync.Mutex
	events []string
}

func (b *fakeBroadcaster) Publish(eventType string, _ *models.Order) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, eventType)
}

type fixture struct {
	store    *memstore.Store
	issuer   *auth.Issuer
	gateway  *payu.Gateway
	notifier *fakeNotifier
	events   *fakeBroadcaster
	accounts *AccountService
	carts    *CartService
	orders   *OrderService
	catalog  *CatalogService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:  memstore.New(),
		issuer: auth.NewIssuer("test-secret", time.Hour, time.Hour),
		gateway: &payu.Gateway{
			Key:         "KEY",
			Salt:        "SALT",
			BackendURL:  "https://api.example.com",
			FrontendURL: "https://shop.example.com",
		},
		notifier: &fakeNotifier{},
		events:   &fakeBroadcaster{},
	}
	f.accounts = NewAccountService(f.store.Users(), f.issuer, f.notifier, AdminCredentials{Email: "admin@x.com", Password: "admin-pass"})
	f.carts = NewCartService(f.store.Users())
	f.orders = NewOrderService(f.store.Users(), f.store.Orders(), f.gateway, f.notifier, f.events)
	f.catalog = NewCatalogService(f.store.Products())
	return f
}

// register creates a user and returns its id.
func (f *fixture) register(t *testing.T, email string) string {
	t.Helper()
	token, err := f.accounts.Register(context.Background(), "Test", email, "password1")
	require.NoError(t, err)
	claims, err := f.issuer.ParseRole(token, auth.RoleUser)
	require.NoError(t, err)
	return claims.Subject
}

func sampleInput() PlaceOrderInput {
	return PlaceOrderInput{
		Items: []models.OrderItem{
			{ProductID: "P1", Name: "Tee", Price: 499, Quantity: 2, Size: "M"},
		},
		Amount:  1098,
		Address: models.Address{FirstName: "Ada", Email: "ship@x.com", City: "Pune"},
	}
}
