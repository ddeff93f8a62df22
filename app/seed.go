package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/Adi-Narayan/Hashira/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LoadProducts reads a JSON array of products. Entries without an id get one,
// entries without a date are stamped with now.
func LoadProducts(path string) ([]models.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}

	now := time.Now().UTC()
	for i := range products {
		if products[i].ID == "" {
			products[i].ID = uuid.NewString()
		}
		if products[i].Date.IsZero() {
			products[i].Date = now
		}
	}
	return products, nil
}

func (a *Application) seedProducts(ctx context.Context, path string) error {
	products, err := LoadProducts(path)
	if err != nil {
		return err
	}
	n, err := a.catalog.Seed(ctx, products)
	if err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}
	zap.L().Info("products seeded", zap.String("namespace", "app"), zap.Int("count", n))
	return nil
}
