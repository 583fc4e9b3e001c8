package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"storefront/config"
	"storefront/models"
)

const (
	// Cache key patterns
	ProductListKey       = "products:all"
	ProductListPattern   = "products:*"
	ProductDetailPattern = "product:%s"

	ListTTL   = 5 * time.Minute
	DetailTTL = 30 * time.Minute
)

// NewClient connects to redis and checks the connection
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "ping redis")
	}
	return client, nil
}

// ProductCache is a read-through cache for catalog reads. A nil client
// disables it: reads miss and writes are dropped.
type ProductCache struct {
	client *redis.Client
}

func NewProductCache(client *redis.Client) *ProductCache {
	return &ProductCache{client: client}
}

func (c *ProductCache) enabled() bool {
	return c != nil && c.client != nil
}

// GetList returns the cached newest-first product list
func (c *ProductCache) GetList(ctx context.Context) ([]models.Product, bool) {
	var products []models.Product
	if !c.get(ctx, ProductListKey, &products) {
		return nil, false
	}
	return products, true
}

func (c *ProductCache) SetList(ctx context.Context, products []models.Product) {
	c.set(ctx, ProductListKey, products, ListTTL)
}

// GetProduct returns a cached product by id
func (c *ProductCache) GetProduct(ctx context.Context, id string) (*models.Product, bool) {
	var product models.Product
	if !c.get(ctx, fmt.Sprintf(ProductDetailPattern, id), &product) {
		return nil, false
	}
	return &product, true
}

func (c *ProductCache) SetProduct(ctx context.Context, product *models.Product) {
	c.set(ctx, fmt.Sprintf(ProductDetailPattern, product.ID.Hex()), product, DetailTTL)
}

// Invalidate drops the product detail entry and every list entry
func (c *ProductCache) Invalidate(ctx context.Context, id string) {
	if !c.enabled() {
		return
	}
	if err := c.client.Del(ctx, fmt.Sprintf(ProductDetailPattern, id)).Err(); err != nil {
		zap.S().Warnf("Failed to invalidate product detail cache: %v", err)
	}
	if err := c.deleteByPattern(ctx, ProductListPattern); err != nil {
		zap.S().Warnf("Failed to invalidate product list cache: %v", err)
	}
}

func (c *ProductCache) get(ctx context.Context, key string, dest interface{}) bool {
	if !c.enabled() {
		return false
	}
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			zap.S().Warnf("Cache read %s failed: %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal(val, dest); err != nil {
		zap.S().Warnf("Cache entry %s is corrupt: %v", key, err)
		return false
	}
	return true
}

func (c *ProductCache) set(ctx context.Context, key string, data interface{}, expiration time.Duration) {
	if !c.enabled() {
		return
	}
	dataJSON, err := json.Marshal(data)
	if err != nil {
		zap.S().Warnf("Cache encode %s failed: %v", key, err)
		return
	}
	if err := c.client.Set(ctx, key, dataJSON, expiration).Err(); err != nil {
		zap.S().Warnf("Cache write %s failed: %v", key, err)
	}
}

// deleteByPattern deletes all keys matching a pattern
func (c *ProductCache) deleteByPattern(ctx context.Context, pattern string) error {
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
