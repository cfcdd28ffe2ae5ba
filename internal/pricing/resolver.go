// Package pricing resolves how many EcoTokens a checkout applies and what
// remains payable in fiat.
package pricing

import "math"

// DefaultTokenToFiatRate is the fiat value of one EcoToken.
const DefaultTokenToFiatRate = 5

// Checkout is the resolved payable breakdown.
type Checkout struct {
	TokensApplied float64 `json:"tokensApplied"`
	FinalTotal    float64 `json:"finalTotal"`
}

// Resolver applies a fixed token rate. FloorAtZero clamps a negative final
// total to zero; without it the raw subtraction is returned.
type Resolver struct {
	Rate        float64
	FloorAtZero bool
}

// NewResolver builds a Resolver, using DefaultTokenToFiatRate when rate <= 0.
func NewResolver(rate float64, floorAtZero bool) Resolver {
	if rate <= 0 {
		rate = DefaultTokenToFiatRate
	}
	return Resolver{Rate: rate, FloorAtZero: floorAtZero}
}

// Resolve caps tokens at min(tokenTotal, balance) and deducts their fiat value.
// A negative balance applies no tokens.
func (r Resolver) Resolve(cartTotal, tokenTotal, balance float64) Checkout {
	applied := math.Min(tokenTotal, math.Max(balance, 0))
	if applied < 0 {
		applied = 0
	}
	final := cartTotal - applied*r.Rate
	if r.FloorAtZero && final < 0 {
		final = 0
	}
	return Checkout{TokensApplied: applied, FinalTotal: final}
}
