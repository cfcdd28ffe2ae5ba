package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/ecotoken_store/internal/pricing"
	"github.com/GTDGit/ecotoken_store/internal/utils"
)

func newCheckoutFixture(t *testing.T, wallet *fakeWallet, floor bool) (*CheckoutService, *CartService) {
	t.Helper()
	carts, _, _, _ := newCartFixture(t)
	return NewCheckoutService(carts, wallet, pricing.NewResolver(pricing.DefaultTokenToFiatRate, floor)), carts
}

func TestCheckoutService_CapsTokensByBalance(t *testing.T) {
	wallet := &fakeWallet{balances: map[string]int64{"low": 50, "rich": 200}}
	svc, carts := newCheckoutFixture(t, wallet, false)
	ctx := context.Background()

	// clock x2 = 600 fiat / 120 tokens
	_, err := carts.AddItem(ctx, "s1", "clock")
	require.NoError(t, err)
	_, err = carts.AddItem(ctx, "s1", "clock")
	require.NoError(t, err)

	view, err := svc.Preview(ctx, "s1", "low")
	require.NoError(t, err)
	assert.Equal(t, int64(50), view.TokenBalance)
	assert.Equal(t, 50.0, view.TokensApplied)
	assert.Equal(t, 350.0, view.FinalTotal)
	assert.Equal(t, 120.0, view.Cart.TokenTotal)

	view, err = svc.Preview(ctx, "s1", "rich")
	require.NoError(t, err)
	assert.Equal(t, 120.0, view.TokensApplied)
	assert.Equal(t, 0.0, view.FinalTotal)
	assert.Equal(t, 5.0, view.TokenToFiatRate)
}

func TestCheckoutService_AnonymousAppliesNoTokens(t *testing.T) {
	wallet := &fakeWallet{err: errors.New("must not be called")}
	svc, carts := newCheckoutFixture(t, wallet, false)
	ctx := context.Background()

	_, err := carts.AddItem(ctx, "s1", "tote")
	require.NoError(t, err)

	view, err := svc.Preview(ctx, "s1", "")
	require.NoError(t, err)
	assert.Zero(t, view.TokenBalance)
	assert.Zero(t, view.TokensApplied)
	assert.Equal(t, 100.0, view.FinalTotal)
}

func TestCheckoutService_WalletFailure(t *testing.T) {
	svc, _ := newCheckoutFixture(t, &fakeWallet{err: errors.New("timeout")}, false)

	_, err := svc.Preview(context.Background(), "s1", "u1")
	assert.ErrorIs(t, err, utils.ErrWalletUnavailable)
}

func TestCheckoutService_FloorPolicy(t *testing.T) {
	ctx := context.Background()

	// cork x2 is 100 fiat / 20 tokens; at rate 15 the raw total is 100 - 300.
	for _, tc := range []struct {
		floor bool
		want  float64
	}{
		{floor: false, want: -200},
		{floor: true, want: 0},
	} {
		svc, carts := newCheckoutFixture(t, &fakeWallet{balances: map[string]int64{"u": 1000}}, tc.floor)
		_, err := carts.AddItem(ctx, "s1", "cork")
		require.NoError(t, err)
		_, err = carts.UpdateQuantity(ctx, "s1", "cork", 2)
		require.NoError(t, err)
		svc.resolver.Rate = 15

		view, err := svc.Preview(ctx, "s1", "u")
		require.NoError(t, err)
		assert.Equal(t, 20.0, view.TokensApplied)
		assert.Equal(t, tc.want, view.FinalTotal, "floor=%v", tc.floor)
	}
}
