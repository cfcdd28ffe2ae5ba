package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/ecotoken_store/internal/cart"
	"github.com/GTDGit/ecotoken_store/internal/pricing"
	"github.com/GTDGit/ecotoken_store/internal/utils"
)

// WalletSource returns a user's EcoToken balance.
type WalletSource interface {
	GetTokenBalance(ctx context.Context, userID string) (int64, error)
}

// CheckoutView is the priced checkout summary for a session.
type CheckoutView struct {
	Cart            cart.View `json:"cart"`
	TokenBalance    int64     `json:"tokenBalance"`
	TokenToFiatRate float64   `json:"tokenToFiatRate"`
	TokensApplied   float64   `json:"tokensApplied"`
	FinalTotal      float64   `json:"finalTotal"`
}

// CheckoutService combines a session cart with the shopper's wallet balance.
type CheckoutService struct {
	carts    *CartService
	wallet   WalletSource
	resolver pricing.Resolver
}

// NewCheckoutService constructs a CheckoutService.
func NewCheckoutService(carts *CartService, wallet WalletSource, resolver pricing.Resolver) *CheckoutService {
	return &CheckoutService{carts: carts, wallet: wallet, resolver: resolver}
}

// Preview prices the session's cart. An empty userID is an anonymous shopper
// with a zero balance.
func (s *CheckoutService) Preview(ctx context.Context, sessionID, userID string) (*CheckoutView, error) {
	view, err := s.carts.GetCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	balance, err := s.balance(ctx, userID)
	if err != nil {
		return nil, err
	}

	resolved := s.resolver.Resolve(view.CartTotal, view.TokenTotal, float64(balance))
	return &CheckoutView{
		Cart:            view,
		TokenBalance:    balance,
		TokenToFiatRate: s.resolver.Rate,
		TokensApplied:   resolved.TokensApplied,
		FinalTotal:      resolved.FinalTotal,
	}, nil
}

func (s *CheckoutService) balance(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, nil
	}
	balance, err := s.wallet.GetTokenBalance(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to get token balance")
		return 0, fmt.Errorf("%w: %v", utils.ErrWalletUnavailable, err)
	}
	return balance, nil
}
