package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"product_tracker/internal/domain"
)

const (
	productKeyFormat = "product:%d"
	catalogKey       = "products:catalog"

	notFoundMarker = "notfound"
)

// CachedProductRepository is a cache-aside decorator over the real product
// repository. Redis failures are logged and degrade to plain DB reads; the
// cache must never make a request fail.
type CachedProductRepository struct {
	realRepo domain.ProductRepository
	redis    *redis.Client
	ttl      time.Duration
	log      *logrus.Logger
}

func NewCachedProductRepository(realRepo domain.ProductRepository, redisClient *redis.Client, logger *logrus.Logger) *CachedProductRepository {
	return &CachedProductRepository{
		realRepo: realRepo,
		redis:    redisClient,
		ttl:      5 * time.Minute,
		log:      logger,
	}
}

func (c *CachedProductRepository) GetProductByID(ctx context.Context, id int) (*domain.Product, error) {
	key := fmt.Sprintf(productKeyFormat, id)

	data, err := c.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if string(data) == notFoundMarker {
			return nil, fmt.Errorf("product with id %d not found", id)
		}
		var product domain.Product
		if err := json.Unmarshal(data, &product); err != nil {
			c.log.Warnf("Cache: Failed to unmarshal cached product %d (continuing with DB): %v", id, err)
			break
		}
		return &product, nil
	case errors.Is(err, redis.Nil):
		// miss
	default:
		c.log.Warnf("Cache: Redis error (continuing with DB): %v", err)
	}

	product, err := c.realRepo.GetProductByID(ctx, id)
	if err != nil {
		if setErr := c.redis.Set(ctx, key, notFoundMarker, time.Minute).Err(); setErr != nil {
			c.log.Warnf("Cache: Failed to cache notfound marker for product %d: %v", id, setErr)
		}
		return nil, err
	}

	jsonData, err := json.Marshal(product)
	if err != nil {
		c.log.Warnf("Cache: Failed to marshal product %d: %v", id, err)
		return product, nil
	}
	if err := c.redis.Set(ctx, key, jsonData, c.ttl).Err(); err != nil {
		c.log.Warnf("Cache: Failed to cache product %d: %v", id, err)
	}
	return product, nil
}

// catalogEntry remembers the limit a cached page was fetched with, so a short
// page is never served to a caller that asked for more.
type catalogEntry struct {
	Limit    int              `json:"limit"`
	Products []domain.Product `json:"products"`
}

// normalizeCatalogLimit mirrors the repository's limit clamping so the cached
// limit and the effective query limit compare like for like.
func normalizeCatalogLimit(limit int) int {
	if limit <= 0 {
		return 100
	}
	if limit > 500 {
		return 500
	}
	return limit
}

// ListProducts caches only the unfiltered catalog page; filtered queries go
// straight to the database. A cached entry is served only when its limit
// covers the request, or when it holds the entire catalog (fewer rows than
// its own limit); otherwise the request falls through and refreshes the
// entry with the larger page.
func (c *CachedProductRepository) ListProducts(ctx context.Context, filter domain.ProductFilter, limit, offset int) ([]domain.Product, error) {
	want := normalizeCatalogLimit(limit)
	cacheable := filter == (domain.ProductFilter{}) && offset == 0

	if cacheable {
		data, err := c.redis.Get(ctx, catalogKey).Bytes()
		switch {
		case err == nil:
			var entry catalogEntry
			if err := json.Unmarshal(data, &entry); err == nil {
				covers := entry.Limit >= want || len(entry.Products) < entry.Limit
				if covers {
					products := entry.Products
					if want < len(products) {
						products = products[:want]
					}
					return products, nil
				}
			} else {
				c.log.Warnf("Cache: Failed to unmarshal cached catalog (continuing with DB): %v", err)
			}
		case errors.Is(err, redis.Nil):
		default:
			c.log.Warnf("Cache: Redis error (continuing with DB): %v", err)
		}
	}

	products, err := c.realRepo.ListProducts(ctx, filter, limit, offset)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if jsonData, err := json.Marshal(catalogEntry{Limit: want, Products: products}); err == nil {
			if err := c.redis.Set(ctx, catalogKey, jsonData, c.ttl).Err(); err != nil {
				c.log.Warnf("Cache: Failed to cache catalog: %v", err)
			}
		}
	}
	return products, nil
}

// InvalidateProducts drops the cached entries for the given products together
// with the catalog. Write paths that change stock through other repositories
// (sales, stock movements, purchase order receives) call this after commit.
func (c *CachedProductRepository) InvalidateProducts(ctx context.Context, productIDs ...int) {
	keys := make([]string, 0, len(productIDs)+1)
	keys = append(keys, catalogKey)
	for _, id := range productIDs {
		if id != 0 {
			keys = append(keys, fmt.Sprintf(productKeyFormat, id))
		}
	}
	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		c.log.Warnf("Cache: Failed to invalidate keys %v: %v", keys, err)
	}
}

func (c *CachedProductRepository) invalidate(ctx context.Context, productID int) {
	c.InvalidateProducts(ctx, productID)
}

func (c *CachedProductRepository) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	created, err := c.realRepo.CreateProduct(ctx, product)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, created.ID)
	return created, nil
}

func (c *CachedProductRepository) GetProductBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	return c.realRepo.GetProductBySKU(ctx, sku)
}

func (c *CachedProductRepository) UpdateProduct(ctx context.Context, id int, updates map[string]interface{}) (*domain.Product, error) {
	updated, err := c.realRepo.UpdateProduct(ctx, id, updates)
	if err != nil {
		c.invalidate(ctx, id)
		return nil, err
	}
	c.invalidate(ctx, id)
	return updated, nil
}

func (c *CachedProductRepository) ToggleArchived(ctx context.Context, id int) (*domain.Product, error) {
	product, err := c.realRepo.ToggleArchived(ctx, id)
	c.invalidate(ctx, id)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (c *CachedProductRepository) DeleteProduct(ctx context.Context, id int) error {
	err := c.realRepo.DeleteProduct(ctx, id)
	c.invalidate(ctx, id)
	return err
}

var (
	_ domain.ProductRepository       = (*CachedProductRepository)(nil)
	_ domain.ProductCacheInvalidator = (*CachedProductRepository)(nil)
)
