package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"storesync/internal/logger"
	"storesync/internal/storefront"

	"github.com/gin-gonic/gin"
)

// ProductHandler serves the storefront product read path.
type ProductHandler struct {
	catalog *storefront.Catalog
	logger  *logger.Logger
}

func NewProductHandler(catalog *storefront.Catalog, logger *logger.Logger) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		logger:  logger,
	}
}

func (h *ProductHandler) List(c *gin.Context) {
	// Pagination
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	query := storefront.ProductQuery{Page: page, PageSize: limit}

	// Filters
	if raw := c.Query("category"); raw != "" {
		categoryID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "category must be a numeric id"})
			return
		}
		query.CategoryRemoteID = &categoryID
	}

	list, err := h.catalog.ListProducts(c.Request.Context(), query)
	if err != nil {
		h.logger.Error("Failed to list products: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": list.Products,
		"pagination": gin.H{
			"page":  list.Page,
			"limit": list.PageSize,
			"total": list.Total,
		},
	})
}

func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.catalog.GetProduct(c.Request.Context(), c.Param("remoteId"))
	if err != nil {
		if errors.Is(err, storefront.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		h.logger.Error("Failed to get product: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": product})
}
