package store

import (
	"context"
	"ecommerce-backend/models"
	"github.com/shopspring/decimal"
)

// Store is the persistence surface the handlers depend on.
// Lookups of a missing row return (nil, nil); deletes of a missing row return 0.
type Store interface {
	Ping(ctx context.Context) error

	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
	CreateProduct(ctx context.Context, in NewProduct) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uint, in ProductChanges) (*TagSyncResult, error)
	DeleteProduct(ctx context.Context, id uint) (int64, error)

	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id uint) (*models.Category, error)
	CreateCategory(ctx context.Context, name string) (*models.Category, error)
	UpdateCategory(ctx context.Context, id uint, name string) (int64, error)
	DeleteCategory(ctx context.Context, id uint) (int64, error)

	ListTags(ctx context.Context) ([]models.Tag, error)
	GetTag(ctx context.Context, id uint) (*models.Tag, error)
	CreateTag(ctx context.Context, name string) (*models.Tag, error)
	UpdateTag(ctx context.Context, id uint, name string) (int64, error)
	DeleteTag(ctx context.Context, id uint) (int64, error)
}

type NewProduct struct {
	ProductName string
	Price       decimal.Decimal
	Stock       int
	CategoryID  *uint
	TagIDs      []uint
}

// ProductChanges holds a partial product update. Nil fields are left as they are;
// a nil TagIDs leaves the tag associations untouched, an empty one removes them all.
// ClearCategory detaches the product from its category when CategoryID is nil.
type ProductChanges struct {
	ProductName   *string
	Price         *decimal.Decimal
	Stock         *int
	CategoryID    *uint
	ClearCategory bool
	TagIDs        []uint
}

// TagSyncResult reports what reconciling a product's tags did.
type TagSyncResult struct {
	Deleted  int64
	Inserted []models.ProductTag
}
