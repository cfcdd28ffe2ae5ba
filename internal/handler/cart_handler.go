package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/ecotoken_store/internal/middleware"
	"github.com/GTDGit/ecotoken_store/internal/service"
	"github.com/GTDGit/ecotoken_store/internal/utils"
)

// CartHandler exposes session cart endpoints.
type CartHandler struct {
	cartService *service.CartService
}

// NewCartHandler constructs a CartHandler.
func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// AddItemRequest is the body of POST /v1/cart/items.
type AddItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

// UpdateQuantityRequest is the body of PUT /v1/cart/items/:productId.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// GetCart returns the session cart with both totals.
func (h *CartHandler) GetCart(c *gin.Context) {
	view, err := h.cartService.GetCart(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	utils.Success(c, 200, "Cart retrieved successfully", view)
}

// AddItem adds one unit of a product.
func (h *CartHandler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "productId is required")
		return
	}
	view, err := h.cartService.AddItem(c.Request.Context(), middleware.GetSessionID(c), req.ProductID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	utils.Success(c, 200, "Item added to cart", view)
}

// UpdateQuantity sets the absolute quantity of a line; 0 or less removes it.
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
		utils.ErrorFrom(c, 400, utils.ErrInvalidQuantity, "quantity is required")
		return
	}
	view, err := h.cartService.UpdateQuantity(c.Request.Context(), middleware.GetSessionID(c), c.Param("productId"), *req.Quantity)
	if err != nil {
		h.handleError(c, err)
		return
	}
	utils.Success(c, 200, "Cart updated", view)
}

// RemoveItem deletes a line from the cart.
func (h *CartHandler) RemoveItem(c *gin.Context) {
	view, err := h.cartService.RemoveItem(c.Request.Context(), middleware.GetSessionID(c), c.Param("productId"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	utils.Success(c, 200, "Item removed from cart", view)
}

// ClearCart empties the session cart.
func (h *CartHandler) ClearCart(c *gin.Context) {
	if err := h.cartService.Clear(c.Request.Context(), middleware.GetSessionID(c)); err != nil {
		h.handleError(c, err)
		return
	}
	utils.Success(c, 200, "Cart cleared", nil)
}

func (h *CartHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, utils.ErrProductNotFound):
		utils.ErrorFrom(c, 404, utils.ErrProductNotFound, "Product not found")
	case errors.Is(err, utils.ErrProductSoldOut):
		utils.ErrorFrom(c, 409, utils.ErrProductSoldOut, "Product is sold out")
	case errors.Is(err, utils.ErrInvalidSession):
		utils.ErrorFrom(c, 400, utils.ErrInvalidSession, "Invalid session")
	default:
		log.Error().Err(err).Str("session_id", middleware.GetSessionID(c)).Msg("Cart operation failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to process cart")
	}
}
