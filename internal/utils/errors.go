package utils

import "errors"

// Common application errors used across services.
var (
	ErrInvalidToken      = errors.New("INVALID_TOKEN")
	ErrProductNotFound   = errors.New("PRODUCT_NOT_FOUND")
	ErrProductSoldOut    = errors.New("PRODUCT_SOLD_OUT")
	ErrInvalidQuantity   = errors.New("INVALID_QUANTITY")
	ErrInvalidSession    = errors.New("INVALID_SESSION")
	ErrSourceFetch       = errors.New("SOURCE_FETCH_FAILED")
	ErrWalletUnavailable = errors.New("WALLET_UNAVAILABLE")
)
