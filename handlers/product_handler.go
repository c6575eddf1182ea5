package handlers

import (
	"ecommerce-backend/apperr"
	"ecommerce-backend/cache"
	"ecommerce-backend/store"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"net/http"
)

const defaultStock = 10

// Prices are stored as decimal(10,2).
var maxPrice = decimal.New(1, 8)

type createProductReq struct {
	ProductName string           `json:"product_name" binding:"required"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
	Stock       *int             `json:"stock" binding:"omitempty,min=0"`
	CategoryID  *uint            `json:"category_id"`
	TagIDs      []uint           `json:"tagIds"`
}

type updateProductReq struct {
	ProductName *string          `json:"product_name" binding:"omitempty,min=1"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock" binding:"omitempty,min=0"`
	CategoryID  nullableID       `json:"category_id"`
	TagIDs      []uint           `json:"tagIds"`
}

// Check a price fits the price column
func checkPrice(price decimal.Decimal) error {
	switch {
	case price.IsNegative():
		return apperr.Invalid("price must not be negative")
	case !price.Equal(price.Truncate(2)):
		return apperr.Invalid("price must have at most 2 decimal places")
	case !price.LessThan(maxPrice):
		return apperr.Invalid("price must be less than %s", maxPrice)
	}
	return nil
}

// List every product with its category and tags
func GetProductListHandler(c *gin.Context, s store.Store, pc *cache.ProductCache) {
	ctx := c.Request.Context()

	if products, ok := pc.Products(ctx); ok {
		c.JSON(http.StatusOK, products)
		return
	}

	generation := pc.Generation(ctx)
	products, err := s.ListProducts(ctx)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	pc.Fill(ctx, generation, products)
	c.JSON(http.StatusOK, products)
}

// Look up one product; null when it does not exist
func GetProductDataHandler(c *gin.Context, s store.Store, pc *cache.ProductCache) {
	id, err := parseID(c)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	ctx := c.Request.Context()

	if product, ok := pc.Product(ctx, id); ok {
		c.JSON(http.StatusOK, product)
		return
	}

	product, err := s.GetProduct(ctx, id)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// Create a product and its tag associations
func CreateProductHandler(c *gin.Context, s store.Store, pc *cache.ProductCache) {
	var req createProductReq
	if err := bindJSON(c, &req); err != nil {
		apperr.Respond(c, err)
		return
	}
	if err := checkPrice(*req.Price); err != nil {
		apperr.Respond(c, err)
		return
	}

	stock := defaultStock
	if req.Stock != nil {
		stock = *req.Stock
	}

	product, err := s.CreateProduct(c.Request.Context(), store.NewProduct{
		ProductName: req.ProductName,
		Price:       *req.Price,
		Stock:       stock,
		CategoryID:  req.CategoryID,
		TagIDs:      req.TagIDs,
	})
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	pc.Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, product)
}

// Update a product; responds with [deleted association count, inserted associations]
func UpdateProductHandler(c *gin.Context, s store.Store, pc *cache.ProductCache) {
	id, err := parseID(c)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	var req updateProductReq
	if err := bindJSON(c, &req); err != nil {
		apperr.Respond(c, err)
		return
	}
	if req.Price != nil {
		if err := checkPrice(*req.Price); err != nil {
			apperr.Respond(c, err)
			return
		}
	}

	result, err := s.UpdateProduct(c.Request.Context(), id, store.ProductChanges{
		ProductName:   req.ProductName,
		Price:         req.Price,
		Stock:         req.Stock,
		CategoryID:    req.CategoryID.Value,
		ClearCategory: req.CategoryID.Set && req.CategoryID.Value == nil,
		TagIDs:        req.TagIDs,
	})
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	pc.Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, []any{result.Deleted, result.Inserted})
}

// Delete a product; responds with the number of deleted rows
func DeleteProductHandler(c *gin.Context, s store.Store, pc *cache.ProductCache) {
	id, err := parseID(c)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	deleted, err := s.DeleteProduct(c.Request.Context(), id)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	if deleted > 0 {
		pc.Invalidate(c.Request.Context())
	}
	c.JSON(http.StatusOK, deleted)
}
