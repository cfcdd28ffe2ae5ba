package models

import (
	"encoding/json"
	"strconv"
)

// ProductStatus enumerates the availability states of a catalog product.
type ProductStatus string

const (
	ProductStatusAvailable ProductStatus = "available"
	ProductStatusSoldOut   ProductStatus = "sold_out"
)

const (
	// CategoryUncategorized is assigned to products without a category.
	CategoryUncategorized = "uncategorized"
	// CategoryAll is the pass-through category filter.
	CategoryAll = "all"
	// DefaultSustainabilityScore is used when the source omits a score.
	DefaultSustainabilityScore = 85
	// PlaceholderImageURL is used when the source has no usable image.
	PlaceholderImageURL = "/static/img/product-placeholder.png"
)

// Product is the canonical, normalized catalog product.
// Values are treated as read-only once a catalog snapshot is built.
type Product struct {
	ID                  string        `json:"id"`
	Name                string        `json:"name"`
	Description         string        `json:"description,omitempty"`
	FiatPrice           float64       `json:"fiatPrice"`
	TokenPrice          float64       `json:"tokenPrice"`
	Category            string        `json:"category"`
	ImageURL            string        `json:"imageUrl"`
	SustainabilityScore float64       `json:"sustainabilityScore"`
	Status              ProductStatus `json:"status"`
}

// IsSoldOut reports whether the product can no longer be added to a cart.
func (p Product) IsSoldOut() bool {
	return p.Status == ProductStatusSoldOut
}

// RawPrice is the nested pricing block of a source record. Amounts are kept
// loosely typed so malformed values degrade to defaults during normalization.
type RawPrice struct {
	FiatAmount  any `json:"fiatAmount,omitempty"`
	TokenAmount any `json:"tokenAmount,omitempty"`
}

// RawProduct is a product record as delivered by a product source.
// Decoding is lenient: a wrong-typed field is left at its zero value so the
// normalizer can default it, and one bad record never fails a whole feed.
type RawProduct struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Description         *string   `json:"description,omitempty"`
	Price               *RawPrice `json:"price,omitempty"`
	Category            *string   `json:"category,omitempty"`
	Images              any       `json:"images,omitempty"`
	SustainabilityScore any       `json:"sustainabilityScore,omitempty"`
	Status              any       `json:"status,omitempty"`
}

// UnmarshalJSON decodes a source record, dropping fields of the wrong type.
// Numeric ids are stringified. A record that is not a JSON object decodes
// to an empty RawProduct.
func (r *RawProduct) UnmarshalJSON(data []byte) error {
	var loose struct {
		ID                  any `json:"id"`
		Name                any `json:"name"`
		Description         any `json:"description"`
		Price               any `json:"price"`
		Category            any `json:"category"`
		Images              any `json:"images"`
		SustainabilityScore any `json:"sustainabilityScore"`
		Status              any `json:"status"`
	}
	*r = RawProduct{}
	if err := json.Unmarshal(data, &loose); err != nil {
		return nil
	}

	switch id := loose.ID.(type) {
	case string:
		r.ID = id
	case float64:
		r.ID = strconv.FormatFloat(id, 'f', -1, 64)
	}
	r.Name, _ = loose.Name.(string)
	if s, ok := loose.Description.(string); ok {
		r.Description = &s
	}
	if s, ok := loose.Category.(string); ok {
		r.Category = &s
	}
	if price, ok := loose.Price.(map[string]any); ok {
		r.Price = &RawPrice{
			FiatAmount:  price["fiatAmount"],
			TokenAmount: price["tokenAmount"],
		}
	}
	r.Images = loose.Images
	r.SustainabilityScore = loose.SustainabilityScore
	r.Status = loose.Status
	return nil
}
