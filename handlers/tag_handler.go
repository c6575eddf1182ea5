package handlers

import (
	"ecommerce-backend/apperr"
	"ecommerce-backend/cache"
	"ecommerce-backend/store"
	"github.com/gin-gonic/gin"
	"net/http"
)

type tagReq struct {
	TagName string `json:"tag_name" binding:"required"`
}

// List tags with their products
func GetTagListHandler(c *gin.Context, s store.Store) {
	tags, err := s.ListTags(c.Request.Context())
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, tags)
}

// Look up one tag; null when it does not exist
func GetTagDataHandler(c *gin.Context, s store.Store) {
	id, err := parseID(c)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	tag, err := s.GetTag(c.Request.Context(), id)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, tag)
}

// Create a tag
func CreateTagHandler(c *gin.Context, s store.Store) {
	var req tagReq
	if err := bindJSON(c, &req); err != nil {
		apperr.Respond(c, err)
		return
	}

	tag, err := s.CreateTag(c.Request.Context(), req.TagName)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, tag)
}

// Rename a tag; products embed tag names, so the product cache is dropped.
func UpdateTagHandler(c *gin.Context, s store.Store, pc *cache.ProductCache) {
	id, err := parseID(c)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	var req tagReq
	if err := bindJSON(c, &req); err != nil {
		apperr.Respond(c, err)
		return
	}

	updated, err := s.UpdateTag(c.Request.Context(), id, req.TagName)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	pc.Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, updated)
}

// Delete a tag and its product associations
func DeleteTagHandler(c *gin.Context, s store.Store, pc *cache.ProductCache) {
	id, err := parseID(c)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	deleted, err := s.DeleteTag(c.Request.Context(), id)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	if deleted > 0 {
		pc.Invalidate(c.Request.Context())
	}
	c.JSON(http.StatusOK, deleted)
}
