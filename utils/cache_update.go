package utils

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"storefront/models"
)

// ProductLister is the store read the refresh job performs
type ProductLister interface {
	List(ctx context.Context) ([]models.Product, error)
}

// ListCache receives the refreshed list. Detail entries are only written on
// read, so a delete racing the refresh cannot resurrect one.
type ListCache interface {
	SetList(ctx context.Context, products []models.Product)
}

// CacheRefreshJob periodically reloads the product list cache from the store
type CacheRefreshJob struct {
	store   ProductLister
	cache   ListCache
	sched   *cron.Cron
	timeout time.Duration
}

func NewCacheRefreshJob(store ProductLister, cache ListCache) *CacheRefreshJob {
	return &CacheRefreshJob{
		store:   store,
		cache:   cache,
		sched:   cron.New(),
		timeout: 30 * time.Second,
	}
}

// Start schedules the refresh with a cron spec such as "@every 1m"
func (j *CacheRefreshJob) Start(spec string) error {
	if _, err := j.sched.AddFunc(spec, j.Run); err != nil {
		return err
	}
	j.sched.Start()
	return nil
}

// Stop waits for a running refresh to finish
func (j *CacheRefreshJob) Stop() {
	<-j.sched.Stop().Done()
}

// Run performs one refresh
func (j *CacheRefreshJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	products, err := j.store.List(ctx)
	if err != nil {
		zap.S().Warnf("Error fetching products for cache update: %v", err)
		return
	}

	j.cache.SetList(ctx, products)
	zap.S().Debugf("Refreshed cache for %d products", len(products))
}
