package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/ecotoken_store/internal/middleware"
	"github.com/GTDGit/ecotoken_store/internal/service"
	"github.com/GTDGit/ecotoken_store/internal/utils"
)

// CheckoutHandler exposes the checkout price preview.
type CheckoutHandler struct {
	checkoutService *service.CheckoutService
}

// NewCheckoutHandler constructs a CheckoutHandler.
func NewCheckoutHandler(checkoutService *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// GetCheckout returns tokens applied and the final fiat total for the session cart.
func (h *CheckoutHandler) GetCheckout(c *gin.Context) {
	view, err := h.checkoutService.Preview(c.Request.Context(), middleware.GetSessionID(c), middleware.GetUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrWalletUnavailable):
			utils.ErrorFrom(c, 503, utils.ErrWalletUnavailable, "Token balance is temporarily unavailable")
		case errors.Is(err, utils.ErrInvalidSession):
			utils.ErrorFrom(c, 400, utils.ErrInvalidSession, "Invalid session")
		default:
			log.Error().Err(err).Msg("Checkout preview failed")
			utils.Error(c, 500, "INTERNAL_ERROR", "Failed to price checkout")
		}
		return
	}
	utils.Success(c, 200, "Checkout priced", view)
}
