package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Adi-Narayan/Hashira/models"
	"github.com/Adi-Narayan/Hashira/store"
	"golang.org/x/sync/singleflight"
)

// listTimeout bounds a shared listing query, which outlives any single caller.
const listTimeout = 10 * time.Second

// CatalogService serves the read-only product catalog. Identical listings
// requested at the same time share one store query.
type CatalogService struct {
	products store.ProductRepository
	sfg      singleflight.Group
}

func NewCatalogService(products store.ProductRepository) *CatalogService {
	return &CatalogService{products: products}
}

func (s *CatalogService) List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	key := fmt.Sprintf("%s|%s|%t|%s", filter.Category, filter.SubCategory, filter.Bestseller, filter.Search)
	v, err, _ := s.sfg.Do(key, func() (interface{}, error) {
		// One caller disconnecting must not fail the others waiting on it.
		queryCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), listTimeout)
		defer cancel()
		return s.products.List(queryCtx, filter)
	})
	if err != nil {
		return nil, err
	}
	// Callers sharing a result must not see each other's edits.
	shared := v.([]models.Product)
	return append([]models.Product(nil), shared...), nil
}

func (s *CatalogService) Get(ctx context.Context, id string) (*models.Product, error) {
	return s.products.GetByID(ctx, id)
}

// Seed upserts products, used to load a catalog file at startup.
func (s *CatalogService) Seed(ctx context.Context, products []models.Product) (int, error) {
	for i := range products {
		if err := s.products.Upsert(ctx, &products[i]); err != nil {
			return i, fmt.Errorf("failed to seed product %s: %w", products[i].ID, err)
		}
	}
	return len(products), nil
}
