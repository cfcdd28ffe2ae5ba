package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/ecotoken_store/internal/service"
	"github.com/GTDGit/ecotoken_store/internal/utils"
)

// CatalogHandler handles catalog browsing endpoints.
type CatalogHandler struct {
	catalogService *service.CatalogService
}

// NewCatalogHandler constructs a CatalogHandler.
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// GetProducts returns one page of the filtered, searched and sorted catalog.
func (h *CatalogHandler) GetProducts(c *gin.Context) {
	params := service.CatalogParams{
		Category: c.Query("category"), // "all" or a category name
		Search:   c.Query("search"),
		Sort:     c.Query("sort"), // popular, price_low, price_high
	}
	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			params.Page = n
		}
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			params.PageSize = n
		}
	}
	if v := c.Query("clamp"); v != "" {
		params.ClampPage, _ = strconv.ParseBool(v)
	}

	view := h.catalogService.Query(params)
	utils.SuccessWithPagination(c, 200, "Products retrieved successfully", view, view.Page, view.PageSize, view.TotalMatching)
}

// GetCategories returns the category vocabulary, "all" first.
func (h *CatalogHandler) GetCategories(c *gin.Context) {
	utils.Success(c, 200, "Categories retrieved successfully", gin.H{
		"categories": h.catalogService.Categories(),
	})
}

// GetProduct returns a single product by id.
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	p, ok := h.catalogService.GetProduct(c.Param("id"))
	if !ok {
		utils.ErrorFrom(c, 404, utils.ErrProductNotFound, "Product not found")
		return
	}
	utils.Success(c, 200, "Product retrieved successfully", p)
}
