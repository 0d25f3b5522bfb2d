package handlers

import (
	"net/http"

	"storesync/internal/logger"
	"storesync/internal/storefront"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	catalog *storefront.Catalog
	logger  *logger.Logger
}

func NewCategoryHandler(catalog *storefront.Catalog, logger *logger.Logger) *CategoryHandler {
	return &CategoryHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// List returns the category forest.
func (h *CategoryHandler) List(c *gin.Context) {
	roots, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list categories: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": roots})
}
