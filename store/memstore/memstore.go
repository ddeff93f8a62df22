// Package memstore keeps every document in process memory. It backs
// DB_DRIVER=memory for local runs and the service tests.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/Adi-Narayan/Hashira/models"
	"github.com/Adi-Narayan/Hashira/store"
)

type Store struct {
	mu       sync.RWMutex
	users    map[string]models.User
	orders   map[string]models.Order
	products map[string]models.Product
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		users:    make(map[string]models.User),
		orders:   make(map[string]models.Order),
		products: make(map[string]models.Product),
	}
}

func (s *Store) Users() store.UserRepository       { return userRepo{s} }
func (s *Store) Orders() store.OrderRepository     { return orderRepo{s} }
func (s *Store) Products() store.ProductRepository { return productRepo{s} }
func (s *Store) Ping(context.Context) error        { return nil }
func (s *Store) Close(context.Context) error       { return nil }

type userRepo struct{ s *Store }

func copyUser(u models.User) *models.User {
	u.CartData = u.CartData.Clone()
	return &u
}

func (r userRepo) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return store.ErrDuplicateEmail
		}
	}
	r.s.users[user.ID] = *copyUser(*user)
	return nil
}

func (r userRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return copyUser(u), nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return copyUser(u), nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (r userRepo) Update(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.users[user.ID]
	if !ok {
		return store.ErrUserNotFound
	}
	for id, u := range r.s.users {
		if id != user.ID && strings.EqualFold(u.Email, user.Email) {
			return store.ErrDuplicateEmail
		}
	}
	existing.Name = user.Name
	existing.Email = user.Email
	existing.Phone = user.Phone
	existing.Password = user.Password
	existing.UpdatedAt = user.UpdatedAt
	r.s.users[user.ID] = existing
	return nil
}

func (r userRepo) SetCart(_ context.Context, userID string, cart models.CartData) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return store.ErrUserNotFound
	}
	u.CartData = cart.Clone()
	r.s.users[userID] = u
	return nil
}

type orderRepo struct{ s *Store }

func copyOrder(o models.Order) models.Order {
	o.Items = append([]models.OrderItem(nil), o.Items...)
	return o
}

func (r orderRepo) Create(_ context.Context, order *models.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if order.TxnID != "" {
		for _, o := range r.s.orders {
			if o.TxnID == order.TxnID {
				return store.ErrDuplicateTxn
			}
		}
	}
	r.s.orders[order.ID] = copyOrder(*order)
	return nil
}

func (r orderRepo) GetByID(_ context.Context, id string) (*models.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, store.ErrOrderNotFound
	}
	o = copyOrder(o)
	return &o, nil
}

func (r orderRepo) GetByTxnID(_ context.Context, txnID string) (*models.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if txnID == "" {
		return nil, store.ErrOrderNotFound
	}
	for _, o := range r.s.orders {
		if o.TxnID == txnID {
			o = copyOrder(o)
			return &o, nil
		}
	}
	return nil, store.ErrOrderNotFound
}

func (r orderRepo) List(_ context.Context, filter store.OrderFilter) ([]models.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	orders := make([]models.Order, 0, len(r.s.orders))
	for _, o := range r.s.orders {
		if filter.UserID != "" && o.UserID != filter.UserID {
			continue
		}
		orders = append(orders, copyOrder(o))
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].Date.After(orders[j].Date)
	})
	return orders, nil
}

func (r orderRepo) MarkPaid(_ context.Context, id, paymentID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return store.ErrOrderNotFound
	}
	o.Payment = true
	o.PaymentID = paymentID
	r.s.orders[id] = o
	return nil
}

func (r orderRepo) UpdateStatus(_ context.Context, id, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return store.ErrOrderNotFound
	}
	o.Status = status
	r.s.orders[id] = o
	return nil
}

type productRepo struct{ s *Store }

func (r productRepo) List(_ context.Context, filter models.ProductFilter) ([]models.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	products := make([]models.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		if filter.Matches(p) {
			products = append(products, p)
		}
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].Date.After(products[j].Date)
	})
	return products, nil
}

func (r productRepo) GetByID(_ context.Context, id string) (*models.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, store.ErrProductNotFound
	}
	return &p, nil
}

func (r productRepo) Upsert(_ context.Context, product *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.products[product.ID] = *product
	return nil
}
