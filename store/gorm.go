package store

import (
	"context"
	"ecommerce-backend/apperr"
	"ecommerce-backend/models"
	"ecommerce-backend/reconcile"
	"errors"
	"fmt"
	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// GormStore implements Store on top of a gorm connection.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore registers the product_tags join model and migrates the schema.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.SetupJoinTable(&models.Product{}, "Tags", &models.ProductTag{}); err != nil {
		return nil, fmt.Errorf("setting up product tags join table: %w", err)
	}
	if err := db.SetupJoinTable(&models.Tag{}, "Products", &models.ProductTag{}); err != nil {
		return nil, fmt.Errorf("setting up tag products join table: %w", err)
	}

	err := db.AutoMigrate(
		&models.Category{},
		&models.Tag{},
		&models.Product{},
		&models.ProductTag{},
	)
	if err != nil {
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	return &GormStore{db: db}, nil
}

// DB exposes the underlying connection for seeding and shutdown.
func (s *GormStore) DB() *gorm.DB {
	return s.db
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Column allowlists for nested entities.
func categoryColumns(db *gorm.DB) *gorm.DB {
	return db.Select("id", "category_name")
}

func tagColumns(db *gorm.DB) *gorm.DB {
	return db.Select("tags.id", "tags.tag_name").Order("tags.id")
}

func productColumns(db *gorm.DB) *gorm.DB {
	return db.Select("products.id", "products.product_name", "products.price", "products.stock", "products.category_id").
		Order("products.id")
}

func (s *GormStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	products := make([]models.Product, 0)
	err := s.db.WithContext(ctx).
		Preload("Category", categoryColumns).
		Preload("Tags", tagColumns).
		Order("id").
		Find(&products).
		Error
	if err != nil {
		return nil, apperr.Internal(err, "could not list products")
	}
	for i := range products {
		loadedTags(&products[i])
	}
	return products, nil
}

func (s *GormStore) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).
		Preload("Category", categoryColumns).
		Preload("Tags", tagColumns).
		First(&product, id).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Internal(err, "could not load product")
	}
	loadedTags(&product)
	return &product, nil
}

// CreateProduct inserts the product and one join row per distinct tag id in a single
// transaction, then reads the product back with its category and tags.
func (s *GormStore) CreateProduct(ctx context.Context, in NewProduct) (*models.Product, error) {
	tagIDs := reconcile.Diff(nil, in.TagIDs).Insert

	var productID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkCategory(tx, in.CategoryID); err != nil {
			return err
		}

		product := models.Product{
			ProductName: in.ProductName,
			Price:       in.Price,
			Stock:       in.Stock,
			CategoryID:  in.CategoryID,
		}
		if err := tx.Create(&product).Error; err != nil {
			return writeError(err, "could not create product")
		}
		productID = product.ID

		if len(tagIDs) == 0 {
			return nil
		}
		_, err := insertProductTags(tx, product.ID, tagIDs)
		return err
	})
	if err != nil {
		return nil, err
	}

	return s.GetProduct(ctx, productID)
}

// UpdateProduct applies the field changes and, when TagIDs is set, reconciles the
// product's join rows against it. Everything happens in one transaction.
func (s *GormStore) UpdateProduct(ctx context.Context, id uint, in ProductChanges) (*TagSyncResult, error) {
	result := &TagSyncResult{Inserted: []models.ProductTag{}}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		err := tx.Select("id").First(&product, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("product %d not found", id)
		}
		if err != nil {
			return apperr.Internal(err, "could not load product")
		}

		if err := checkCategory(tx, in.CategoryID); err != nil {
			return err
		}

		if fields := in.fields(); len(fields) > 0 {
			if err := tx.Model(&product).Updates(fields).Error; err != nil {
				return writeError(err, "could not update product")
			}
		}

		if in.TagIDs == nil {
			return nil
		}

		var current []models.ProductTag
		if err := tx.Where("product_id = ?", id).Order("id").Find(&current).Error; err != nil {
			return apperr.Internal(err, "could not load product tags")
		}

		associations := make([]reconcile.Association, 0, len(current))
		for _, pt := range current {
			associations = append(associations, reconcile.Association{ID: pt.ID, TagID: pt.TagID})
		}
		plan := reconcile.Diff(associations, in.TagIDs)

		if len(plan.Delete) > 0 {
			res := tx.Where("id IN ?", plan.Delete).Delete(&models.ProductTag{})
			if res.Error != nil {
				return apperr.Internal(res.Error, "could not remove product tags")
			}
			result.Deleted = res.RowsAffected
		}

		if len(plan.Insert) > 0 {
			rows, err := insertProductTags(tx, id, plan.Insert)
			if err != nil {
				return err
			}
			result.Inserted = rows
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (in ProductChanges) fields() map[string]any {
	fields := map[string]any{}
	if in.ProductName != nil {
		fields["product_name"] = *in.ProductName
	}
	if in.Price != nil {
		fields["price"] = *in.Price
	}
	if in.Stock != nil {
		fields["stock"] = *in.Stock
	}
	if in.CategoryID != nil {
		fields["category_id"] = *in.CategoryID
	} else if in.ClearCategory {
		fields["category_id"] = nil
	}
	return fields
}

// A loaded product always carries a tags array, even when it has none.
func loadedTags(product *models.Product) {
	if product.Tags == nil {
		product.Tags = []models.Tag{}
	}
}

func loadedProducts(products []models.Product) []models.Product {
	if products == nil {
		return []models.Product{}
	}
	return products
}

func (s *GormStore) DeleteProduct(ctx context.Context, id uint) (int64, error) {
	var deleted int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductTag{}).Error; err != nil {
			return apperr.Internal(err, "could not remove product tags")
		}

		res := tx.Delete(&models.Product{}, id)
		if res.Error != nil {
			return writeError(res.Error, "could not delete product")
		}
		deleted = res.RowsAffected
		return nil
	})
	return deleted, err
}

func (s *GormStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories := make([]models.Category, 0)
	err := s.db.WithContext(ctx).
		Preload("Products", productColumns).
		Order("id").
		Find(&categories).
		Error
	if err != nil {
		return nil, apperr.Internal(err, "could not list categories")
	}
	for i := range categories {
		categories[i].Products = loadedProducts(categories[i].Products)
	}
	return categories, nil
}

func (s *GormStore) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	err := s.db.WithContext(ctx).Preload("Products", productColumns).First(&category, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Internal(err, "could not load category")
	}
	category.Products = loadedProducts(category.Products)
	return &category, nil
}

func (s *GormStore) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	category := models.Category{CategoryName: name}
	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, writeError(err, "could not create category")
	}
	return &category, nil
}

func (s *GormStore) UpdateCategory(ctx context.Context, id uint, name string) (int64, error) {
	res := s.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("id = ?", id).
		Update("category_name", name)
	if res.Error != nil {
		return 0, writeError(res.Error, "could not update category")
	}
	return res.RowsAffected, nil
}

// DeleteCategory detaches the category's products before removing it.
func (s *GormStore) DeleteCategory(ctx context.Context, id uint) (int64, error) {
	var deleted int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Product{}).
			Where("category_id = ?", id).
			Update("category_id", nil).
			Error
		if err != nil {
			return apperr.Internal(err, "could not detach products from category")
		}

		res := tx.Delete(&models.Category{}, id)
		if res.Error != nil {
			return writeError(res.Error, "could not delete category")
		}
		deleted = res.RowsAffected
		return nil
	})
	return deleted, err
}

func (s *GormStore) ListTags(ctx context.Context) ([]models.Tag, error) {
	tags := make([]models.Tag, 0)
	err := s.db.WithContext(ctx).
		Preload("Products", productColumns).
		Order("id").
		Find(&tags).
		Error
	if err != nil {
		return nil, apperr.Internal(err, "could not list tags")
	}
	for i := range tags {
		tags[i].Products = loadedProducts(tags[i].Products)
	}
	return tags, nil
}

func (s *GormStore) GetTag(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	err := s.db.WithContext(ctx).Preload("Products", productColumns).First(&tag, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Internal(err, "could not load tag")
	}
	tag.Products = loadedProducts(tag.Products)
	return &tag, nil
}

func (s *GormStore) CreateTag(ctx context.Context, name string) (*models.Tag, error) {
	tag := models.Tag{TagName: name}
	if err := s.db.WithContext(ctx).Create(&tag).Error; err != nil {
		return nil, writeError(err, "could not create tag")
	}
	return &tag, nil
}

func (s *GormStore) UpdateTag(ctx context.Context, id uint, name string) (int64, error) {
	res := s.db.WithContext(ctx).
		Model(&models.Tag{}).
		Where("id = ?", id).
		Update("tag_name", name)
	if res.Error != nil {
		return 0, writeError(res.Error, "could not update tag")
	}
	return res.RowsAffected, nil
}

// DeleteTag removes the tag and every association pointing at it.
func (s *GormStore) DeleteTag(ctx context.Context, id uint) (int64, error) {
	var deleted int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tag_id = ?", id).Delete(&models.ProductTag{}).Error; err != nil {
			return apperr.Internal(err, "could not remove tag associations")
		}

		res := tx.Delete(&models.Tag{}, id)
		if res.Error != nil {
			return writeError(res.Error, "could not delete tag")
		}
		deleted = res.RowsAffected
		return nil
	})
	return deleted, err
}

func insertProductTags(tx *gorm.DB, productID uint, tagIDs []uint) ([]models.ProductTag, error) {
	if err := checkTags(tx, tagIDs); err != nil {
		return nil, err
	}

	rows := make([]models.ProductTag, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		rows = append(rows, models.ProductTag{ProductID: productID, TagID: tagID})
	}
	if err := tx.Create(&rows).Error; err != nil {
		return nil, writeError(err, "could not add product tags")
	}
	return rows, nil
}

func checkTags(tx *gorm.DB, tagIDs []uint) error {
	var found []uint
	if err := tx.Model(&models.Tag{}).Where("id IN ?", tagIDs).Pluck("id", &found).Error; err != nil {
		return apperr.Internal(err, "could not look up tags")
	}

	known := make(map[uint]bool, len(found))
	for _, id := range found {
		known[id] = true
	}
	for _, id := range tagIDs {
		if !known[id] {
			return apperr.Invalid("tag %d does not exist", id)
		}
	}
	return nil
}

func checkCategory(tx *gorm.DB, categoryID *uint) error {
	if categoryID == nil {
		return nil
	}

	var count int64
	if err := tx.Model(&models.Category{}).Where("id = ?", *categoryID).Count(&count).Error; err != nil {
		return apperr.Internal(err, "could not look up category")
	}
	if count == 0 {
		return apperr.Invalid("category %d does not exist", *categoryID)
	}
	return nil
}

// MySQL errors that strict mode raises for values the column cannot hold.
const (
	mysqlOutOfRange  = 1264
	mysqlDataTooLong = 1406
)

// writeError classifies a failed write. Constraint violations are the caller's fault.
func writeError(err error, message string) error {
	var mysqlErr *mysql.MySQLError
	switch {
	case errors.As(err, &mysqlErr) && (mysqlErr.Number == mysqlOutOfRange || mysqlErr.Number == mysqlDataTooLong):
		return &apperr.Error{Kind: apperr.KindInvalid, Message: message + ": value out of range", Err: err}
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return &apperr.Error{Kind: apperr.KindInvalid, Message: message + ": referenced row does not exist", Err: err}
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &apperr.Error{Kind: apperr.KindInvalid, Message: message + ": duplicate value", Err: err}
	default:
		return apperr.Internal(err, message)
	}
}
