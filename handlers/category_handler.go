package handlers

import (
	"ecommerce-backend/apperr"
	"ecommerce-backend/cache"
	"ecommerce-backend/store"
	"github.com/gin-gonic/gin"
	"net/http"
)

type categoryReq struct {
	CategoryName string `json:"category_name" binding:"required"`
}

// List categories with their products
func GetCategoryListHandler(c *gin.Context, s store.Store) {
	categories, err := s.ListCategories(c.Request.Context())
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, categories)
}

// Look up one category; null when it does not exist
func GetCategoryDataHandler(c *gin.Context, s store.Store) {
	id, err := parseID(c)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	category, err := s.GetCategory(c.Request.Context(), id)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, category)
}

// Create a category
func CreateCategoryHandler(c *gin.Context, s store.Store) {
	var req categoryReq
	if err := bindJSON(c, &req); err != nil {
		apperr.Respond(c, err)
		return
	}

	category, err := s.CreateCategory(c.Request.Context(), req.CategoryName)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, category)
}

// Rename a category; products embed the name, so the product cache is dropped.
func UpdateCategoryHandler(c *gin.Context, s store.Store, pc *cache.ProductCache) {
	id, err := parseID(c)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	var req categoryReq
	if err := bindJSON(c, &req); err != nil {
		apperr.Respond(c, err)
		return
	}

	updated, err := s.UpdateCategory(c.Request.Context(), id, req.CategoryName)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	pc.Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, updated)
}

// Delete a category; its products are kept without one
func DeleteCategoryHandler(c *gin.Context, s store.Store, pc *cache.ProductCache) {
	id, err := parseID(c)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	deleted, err := s.DeleteCategory(c.Request.Context(), id)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	if deleted > 0 {
		pc.Invalidate(c.Request.Context())
	}
	c.JSON(http.StatusOK, deleted)
}
