// Package sqlstore persists users, orders and products in PostgreSQL through gorm.
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Adi-Narayan/Hashira/models"
	"github.com/Adi-Narayan/Hashira/store"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

type Store struct {
	db *gorm.DB
}

var _ store.Store = (*Store)(nil)

// Open connects to dsn and migrates the schema.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect DB: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	s := &Store{db: db}
	if err := s.Migrate(); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(
		&models.User{},
		&models.Order{},
		&models.Product{},
	); err != nil {
		return fmt.Errorf("AutoMigrate failed: %w", err)
	}
	return nil
}

func (s *Store) Users() store.UserRepository       { return userRepo{s.db} }
func (s *Store) Orders() store.OrderRepository     { return orderRepo{s.db} }
func (s *Store) Products() store.ProductRepository { return productRepo{s.db} }

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type userRepo struct {
	db *gorm.DB
}

func (r userRepo) Create(ctx context.Context, user *models.User) error {
	if user.CartData == nil {
		user.CartData = models.CartData{}
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return store.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r userRepo) first(ctx context.Context, query string, arg any) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where(query, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user.CartData == nil {
		user.CartData = models.CartData{}
	}
	return &user, nil
}

func (r userRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r userRepo) Update(ctx context.Context, user *models.User) error {
	result := r.db.WithContext(ctx).
		Model(&models.User{ID: user.ID}).
		Select("name", "email", "phone", "password", "updated_at").
		Updates(user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return store.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return store.ErrUserNotFound
	}
	return nil
}

func (r userRepo) SetCart(ctx context.Context, userID string, cart models.CartData) error {
	if cart == nil {
		cart = models.CartData{}
	}
	result := r.db.WithContext(ctx).
		Model(&models.User{ID: userID}).
		Select("cart_data", "updated_at").
		Updates(&models.User{CartData: cart, UpdatedAt: time.Now().UTC()})
	if result.Error != nil {
		return fmt.Errorf("failed to update cart: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return store.ErrUserNotFound
	}
	return nil
}

type orderRepo struct {
	db *gorm.DB
}

func (r orderRepo) Create(ctx context.Context, order *models.Order) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return store.ErrDuplicateTxn
		}
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r orderRepo) first(ctx context.Context, query string, arg any) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Where(query, arg).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &order, nil
}

func (r orderRepo) GetByID(ctx context.Context, id string) (*models.Order, error) {
	return r.first(ctx, "id = ?", id)
}

func (r orderRepo) GetByTxnID(ctx context.Context, txnID string) (*models.Order, error) {
	if txnID == "" {
		return nil, store.ErrOrderNotFound
	}
	return r.first(ctx, "txnid = ?", txnID)
}

func (r orderRepo) List(ctx context.Context, filter store.OrderFilter) ([]models.Order, error) {
	query := r.db.WithContext(ctx).Order("date desc")
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	orders := []models.Order{}
	if err := query.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (r orderRepo) update(ctx context.Context, id string, values map[string]any) error {
	result := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		return fmt.Errorf("failed to update order: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return store.ErrOrderNotFound
	}
	return nil
}

func (r orderRepo) MarkPaid(ctx context.Context, id, paymentID string) error {
	return r.update(ctx, id, map[string]any{"payment": true, "payment_id": paymentID})
}

func (r orderRepo) UpdateStatus(ctx context.Context, id, status string) error {
	return r.update(ctx, id, map[string]any{"status": status})
}

type productRepo struct {
	db *gorm.DB
}

func (r productRepo) List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Order("date desc")
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.SubCategory != "" {
		query = query.Where("sub_category = ?", filter.SubCategory)
	}
	if filter.Bestseller {
		query = query.Where("bestseller = ?", true)
	}
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+escapeLike(filter.Search)+"%")
	}
	products := []models.Product{}
	if err := query.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r productRepo) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &product, nil
}

func (r productRepo) Upsert(ctx context.Context, product *models.Product) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(product).Error
	if err != nil {
		return fmt.Errorf("failed to upsert product: %w", err)
	}
	return nil
}
