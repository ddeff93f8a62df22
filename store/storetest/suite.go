// Package storetest holds the behaviour every store backend must share.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/Adi-Narayan/Hashira/models"
	"github.com/Adi-Narayan/Hashira/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises s against the store contract. Each subtest uses fresh ids so
// a single backend instance can be shared.
func Run(t *testing.T, s store.Store) {
	t.Run("UserCreateAndGet", func(t *testing.T) { testUserCreateAndGet(t, s) })
	t.Run("UserDuplicateEmail", func(t *testing.T) { testUserDuplicateEmail(t, s) })
	t.Run("UserUpdateKeepsCart", func(t *testing.T) { testUserUpdateKeepsCart(t, s) })
	t.Run("UserSetCart", func(t *testing.T) { testUserSetCart(t, s) })
	t.Run("UserNotFound", func(t *testing.T) { testUserNotFound(t, s) })
	t.Run("OrderLifecycle", func(t *testing.T) { testOrderLifecycle(t, s) })
	t.Run("OrderDuplicateTxn", func(t *testing.T) { testOrderDuplicateTxn(t, s) })
	t.Run("OrderListFilter", func(t *testing.T) { testOrderListFilter(t, s) })
	t.Run("OrderNotFound", func(t *testing.T) { testOrderNotFound(t, s) })
	t.Run("Products", func(t *testing.T) { testProducts(t, s) })
}

func NewUser(email string) *models.User {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &models.User{
		ID:        uuid.NewString(),
		Name:      "Test User",
		Email:     email,
		Password:  "hash",
		CartData:  models.CartData{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func NewOrder(userID, txnID string, date time.Time) *models.Order {
	method := models.PaymentMethodCOD
	if txnID != "" {
		method = models.PaymentMethodPayU
	}
	return &models.Order{
		ID:     uuid.NewString(),
		UserID: userID,
		Items: []models.OrderItem{
			{ProductID: "P1", Name: "Tee", Price: 499, Quantity: 2, Size: "M"},
		},
		Address:       models.Address{FirstName: "Ada", Email: "ada@example.com", City: "Pune"},
		Amount:        1098,
		PaymentMethod: method,
		TxnID:         txnID,
		Status:        models.OrderStatusPlaced,
		Date:          date.UTC().Truncate(time.Millisecond),
	}
}

func uniqueEmail() string {
	return uuid.NewString()[:8] + "@example.com"
}

func testUserCreateAndGet(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := NewUser(uniqueEmail())
	u.Phone = "9999999999"
	require.NoError(t, s.Users().Create(ctx, u))

	got, err := s.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)
	assert.Equal(t, u.Phone, got.Phone)
	assert.Equal(t, "hash", got.Password)
	assert.Empty(t, got.CartData)

	byEmail, err := s.Users().GetByEmail(ctx, u.Email)
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)
}

func testUserDuplicateEmail(t *testing.T, s store.Store) {
	ctx := context.Background()
	email := uniqueEmail()
	require.NoError(t, s.Users().Create(ctx, NewUser(email)))

	err := s.Users().Create(ctx, NewUser(email))
	assert.ErrorIs(t, err, store.ErrDuplicateEmail)
}

func testUserUpdateKeepsCart(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := NewUser(uniqueEmail())
	require.NoError(t, s.Users().Create(ctx, u))
	require.NoError(t, s.Users().SetCart(ctx, u.ID, models.CartData{"P1": {"M": 1}}))

	u.Name = "Renamed"
	u.Phone = "123"
	u.CartData = nil
	require.NoError(t, s.Users().Update(ctx, u))

	got, err := s.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, "123", got.Phone)
	assert.Equal(t, models.CartData{"P1": {"M": 1}}, got.CartData)

	other := NewUser(uniqueEmail())
	require.NoError(t, s.Users().Create(ctx, other))
	other.Email = u.Email
	assert.ErrorIs(t, s.Users().Update(ctx, other), store.ErrDuplicateEmail)
}

func testUserSetCart(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := NewUser(uniqueEmail())
	require.NoError(t, s.Users().Create(ctx, u))

	cart := models.CartData{"P1": {"M": 2, "L": 1}, "P2": {"S": 3}}
	require.NoError(t, s.Users().SetCart(ctx, u.ID, cart))

	got, err := s.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, cart, got.CartData)

	require.NoError(t, s.Users().SetCart(ctx, u.ID, models.CartData{}))
	got, err = s.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, got.CartData)
}

func testUserNotFound(t *testing.T, s store.Store) {
	ctx := context.Background()
	_, err := s.Users().GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, store.ErrUserNotFound)

	_, err = s.Users().GetByEmail(ctx, uniqueEmail())
	assert.ErrorIs(t, err, store.ErrUserNotFound)

	err = s.Users().SetCart(ctx, uuid.NewString(), models.CartData{})
	assert.ErrorIs(t, err, store.ErrUserNotFound)

	err = s.Users().Update(ctx, NewUser(uniqueEmail()))
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func testOrderLifecycle(t *testing.T, s store.Store) {
	ctx := context.Background()
	txn := "TXN_" + uuid.NewString()
	o := NewOrder(uuid.NewString(), txn, time.Now())
	require.NoError(t, s.Orders().Create(ctx, o))

	got, err := s.Orders().GetByTxnID(ctx, txn)
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)
	assert.False(t, got.Payment)
	assert.Equal(t, o.Items, got.Items)
	assert.Equal(t, o.Address, got.Address)
	assert.Equal(t, o.Amount, got.Amount)

	require.NoError(t, s.Orders().MarkPaid(ctx, o.ID, "mihpay-1"))
	require.NoError(t, s.Orders().UpdateStatus(ctx, o.ID, models.OrderStatusShipped))

	got, err = s.Orders().GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, got.Payment)
	assert.Equal(t, "mihpay-1", got.PaymentID)
	assert.Equal(t, models.OrderStatusShipped, got.Status)
	assert.Equal(t, o.Amount, got.Amount)
}

func testOrderDuplicateTxn(t *testing.T, s store.Store) {
	ctx := context.Background()
	txn := "TXN_" + uuid.NewString()
	require.NoError(t, s.Orders().Create(ctx, NewOrder("u1", txn, time.Now())))

	err := s.Orders().Create(ctx, NewOrder("u2", txn, time.Now()))
	assert.ErrorIs(t, err, store.ErrDuplicateTxn)

	// COD orders carry no transaction id and never collide.
	require.NoError(t, s.Orders().Create(ctx, NewOrder("u1", "", time.Now())))
	require.NoError(t, s.Orders().Create(ctx, NewOrder("u1", "", time.Now())))
}

func testOrderListFilter(t *testing.T, s store.Store) {
	ctx := context.Background()
	userID := uuid.NewString()
	base := time.Now()
	older := NewOrder(userID, "", base.Add(-time.Hour))
	newer := NewOrder(userID, "", base)
	require.NoError(t, s.Orders().Create(ctx, older))
	require.NoError(t, s.Orders().Create(ctx, newer))
	require.NoError(t, s.Orders().Create(ctx, NewOrder(uuid.NewString(), "", base)))

	mine, err := s.Orders().List(ctx, store.OrderFilter{UserID: userID})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, newer.ID, mine[0].ID)
	assert.Equal(t, older.ID, mine[1].ID)

	all, err := s.Orders().List(ctx, store.OrderFilter{})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(all), 3)
}

func testOrderNotFound(t *testing.T, s store.Store) {
	ctx := context.Background()
	_, err := s.Orders().GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, store.ErrOrderNotFound)

	_, err = s.Orders().GetByTxnID(ctx, "TXN_missing")
	assert.ErrorIs(t, err, store.ErrOrderNotFound)

	_, err = s.Orders().GetByTxnID(ctx, "")
	assert.ErrorIs(t, err, store.ErrOrderNotFound)

	assert.ErrorIs(t, s.Orders().MarkPaid(ctx, uuid.NewString(), "x"), store.ErrOrderNotFound)
	assert.ErrorIs(t, s.Orders().UpdateStatus(ctx, uuid.NewString(), "x"), store.ErrOrderNotFound)
}

func testProducts(t *testing.T, s store.Store) {
	ctx := context.Background()
	category := "cat-" + uuid.NewString()[:8]
	tee := &models.Product{
		ID: uuid.NewString(), Name: "Cotton Tee", Price: 499, Category: category,
		Sizes: []string{"S", "M"}, Images: []string{"a.png"}, Bestseller: true,
		Date: time.Now().UTC().Truncate(time.Millisecond),
	}
	hoodie := &models.Product{
		ID: uuid.NewString(), Name: "Hoodie", Price: 1299, Category: category,
		Sizes: []string{"L"}, Date: time.Now().Add(-time.Hour).UTC().Truncate(time.Millisecond),
	}
	require.NoError(t, s.Products().Upsert(ctx, tee))
	require.NoError(t, s.Products().Upsert(ctx, hoodie))

	list, err := s.Products().List(ctx, models.ProductFilter{Category: category})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, tee.ID, list[0].ID)

	best, err := s.Products().List(ctx, models.ProductFilter{Category: category, Bestseller: true})
	require.NoError(t, err)
	require.Len(t, best, 1)
	assert.Equal(t, []string{"S", "M"}, best[0].Sizes)

	search, err := s.Products().List(ctx, models.ProductFilter{Category: category, Search: "hood"})
	require.NoError(t, err)
	require.Len(t, search, 1)
	assert.Equal(t, hoodie.ID, search[0].ID)

	hoodie.Price = 999
	require.NoError(t, s.Products().Upsert(ctx, hoodie))
	got, err := s.Products().GetByID(ctx, hoodie.ID)
	require.NoError(t, err)
	assert.Equal(t, 999.0, got.Price)

	_, err = s.Products().GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, store.ErrProductNotFound)
}
