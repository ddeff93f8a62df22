package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Adi-Narayan/Hashira/models"
	"github.com/Adi-Narayan/Hashira/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slowProducts struct {
	store.ProductRepository
	calls   atomic.Int32
	release chan struct{}
}

func (s *slowProducts) List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	s.calls.Add(1)
	<-s.release
	return s.ProductRepository.List(ctx, filter)
}

func TestCatalog_SeedListGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	n, err := f.catalog.Seed(ctx, []models.Product{
		{ID: "P1", Name: "Tee", Price: 499, Category: "Men", Date: time.Now()},
		{ID: "P2", Name: "Dress", Price: 999, Category: "Women", Bestseller: true, Date: time.Now()},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	all, err := f.catalog.List(ctx, models.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	best, err := f.catalog.List(ctx, models.ProductFilter{Bestseller: true})
	require.NoError(t, err)
	require.Len(t, best, 1)
	assert.Equal(t, "P2", best[0].ID)

	p, err := f.catalog.Get(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, "Tee", p.Name)

	_, err = f.catalog.Get(ctx, "nope")
	assert.ErrorIs(t, err, store.ErrProductNotFound)
}

func TestCatalog_CoalescesConcurrentListings(t *testing.T) {
	f := newFixture(t)
	slow := &slowProducts{ProductRepository: f.store.Products(), release: make(chan struct{})}
	catalog := NewCatalogService(slow)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := catalog.List(context.Background(), models.ProductFilter{Category: "Men"})
			assert.NoError(t, err)
		}()
	}

	require.Eventually(t, func() bool { return slow.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(slow.release)
	wg.Wait()

	assert.LessOrEqual(t, slow.calls.Load(), int32(5))
	assert.GreaterOrEqual(t, slow.calls.Load(), int32(1))
}

type ctxAwareProducts struct {
	slowProducts
}

func (s *ctxAwareProducts) List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	s.calls.Add(1)
	<-s.release
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.ProductRepository.List(ctx, filter)
}

func TestCatalog_SharedListingSurvivesLeaderCancel(t *testing.T) {
	f := newFixture(t)
	repo := &ctxAwareProducts{slowProducts{ProductRepository: f.store.Products(), release: make(chan struct{})}}
	catalog := NewCatalogService(repo)

	leaderCtx, cancelLeader := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := catalog.List(leaderCtx, models.ProductFilter{})
		leaderErr <- err
	}()
	require.Eventually(t, func() bool { return repo.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	followerErr := make(chan error, 1)
	go func() {
		_, err := catalog.List(context.Background(), models.ProductFilter{})
		followerErr <- err
	}()
	time.Sleep(20 * time.Millisecond)

	cancelLeader()
	close(repo.release)

	assert.NoError(t, <-followerErr)
	assert.NoError(t, <-leaderErr)
}
