package cache

import (
	"context"
	"ecommerce-backend/models"
	"encoding/json"
	"errors"
	"github.com/redis/go-redis/v9"
	"log"
	"strconv"
	"time"
)

const (
	productsKey   = "products"
	generationKey = "products:generation"
)

var errStaleFill = errors.New("product cache invalidated since read")

// ProductCache keeps serialized products in a redis sorted set scored by product id.
// A nil *ProductCache is valid and caches nothing.
type ProductCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewProductCache(rdb *redis.Client, ttl time.Duration) *ProductCache {
	return &ProductCache{rdb: rdb, ttl: ttl}
}

// Products returns every cached product. ok is false when the set is empty or redis fails.
func (c *ProductCache) Products(ctx context.Context) ([]models.Product, bool) {
	if c == nil {
		return nil, false
	}

	members, err := c.rdb.ZRange(ctx, productsKey, 0, -1).Result()
	if err != nil {
		log.Printf("reading product cache: %v", err)
		return nil, false
	}
	if len(members) == 0 {
		return nil, false
	}

	products := make([]models.Product, 0, len(members))
	for _, member := range members {
		var product models.Product
		if err := json.Unmarshal([]byte(member), &product); err != nil {
			log.Printf("decoding cached product: %v", err)
			return nil, false
		}
		products = append(products, product)
	}
	return products, true
}

// Product returns the cached product with the given id.
func (c *ProductCache) Product(ctx context.Context, id uint) (*models.Product, bool) {
	if c == nil {
		return nil, false
	}

	score := strconv.FormatUint(uint64(id), 10)
	members, err := c.rdb.ZRangeByScore(ctx, productsKey, &redis.ZRangeBy{Min: score, Max: score}).Result()
	if err != nil {
		log.Printf("reading product cache: %v", err)
		return nil, false
	}
	if len(members) == 0 {
		return nil, false
	}

	var product models.Product
	if err := json.Unmarshal([]byte(members[0]), &product); err != nil {
		log.Printf("decoding cached product: %v", err)
		return nil, false
	}
	return &product, true
}

// Generation returns the invalidation counter. Take it before reading the database and
// hand it to Fill, so a list read concurrently with a write never repopulates stale data.
// It returns -1 when redis cannot be read, which makes Fill a no-op.
func (c *ProductCache) Generation(ctx context.Context) int64 {
	if c == nil {
		return -1
	}

	generation, err := c.rdb.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0
	}
	if err != nil {
		log.Printf("reading product cache generation: %v", err)
		return -1
	}
	return generation
}

// Fill replaces the cached set with products, unless Invalidate ran after generation was taken.
func (c *ProductCache) Fill(ctx context.Context, generation int64, products []models.Product) {
	if c == nil || generation < 0 || len(products) == 0 {
		return
	}

	members := make([]redis.Z, 0, len(products))
	for _, product := range products {
		productJSON, err := json.Marshal(product)
		if err != nil {
			log.Printf("encoding product for cache: %v", err)
			return
		}
		members = append(members, redis.Z{Score: float64(product.ID), Member: productJSON})
	}

	// WATCH makes the write fail if Invalidate bumps the generation before EXEC.
	err := c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, generationKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != generation {
			return errStaleFill
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, productsKey)
			pipe.ZAdd(ctx, productsKey, members...)
			if c.ttl > 0 {
				pipe.Expire(ctx, productsKey, c.ttl)
			}
			return nil
		})
		return err
	}, generationKey)
	switch {
	case err == nil, errors.Is(err, errStaleFill), errors.Is(err, redis.TxFailedErr):
	default:
		log.Printf("writing product cache: %v", err)
	}
}

// Invalidate drops the cached set. Called after any write that can change a product's JSON.
func (c *ProductCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}

	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey)
		pipe.Del(ctx, productsKey)
		return nil
	})
	if err != nil {
		log.Printf("invalidating product cache: %v", err)
	}
}
