// Package catalog turns raw product records into the canonical catalog and
// answers filtered, sorted and paginated views over it.
package catalog

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/GTDGit/ecotoken_store/internal/models"
)

// Normalize maps a raw source record to a Product. It never fails: every
// missing or malformed field resolves to its default.
func Normalize(raw models.RawProduct) models.Product {
	p := models.Product{
		ID:                  strings.TrimSpace(raw.ID),
		Name:                raw.Name,
		Category:            models.CategoryUncategorized,
		ImageURL:            models.PlaceholderImageURL,
		SustainabilityScore: models.DefaultSustainabilityScore,
		Status:              normalizeStatus(raw.Status),
	}
	if raw.Description != nil {
		p.Description = *raw.Description
	}
	if raw.Price != nil {
		p.FiatPrice = nonNegative(raw.Price.FiatAmount)
		p.TokenPrice = nonNegative(raw.Price.TokenAmount)
	}
	if raw.Category != nil && strings.TrimSpace(*raw.Category) != "" {
		p.Category = *raw.Category
	}
	if img := firstImage(raw.Images); img != "" {
		p.ImageURL = img
	}
	if score, ok := toNumber(raw.SustainabilityScore); ok {
		p.SustainabilityScore = score
	}
	return p
}

// NormalizeAll normalizes a batch of records, preserving source order.
func NormalizeAll(raws []models.RawProduct) []models.Product {
	out := make([]models.Product, 0, len(raws))
	for _, r := range raws {
		out = append(out, Normalize(r))
	}
	return out
}

func normalizeStatus(v any) models.ProductStatus {
	s, ok := v.(string)
	if ok && strings.EqualFold(strings.TrimSpace(s), string(models.ProductStatusSoldOut)) {
		return models.ProductStatusSoldOut
	}
	return models.ProductStatusAvailable
}

// nonNegative converts a loosely typed amount to a price, 0 when unusable.
func nonNegative(v any) float64 {
	n, ok := toNumber(v)
	if !ok || n < 0 {
		return 0
	}
	return n
}

// toNumber accepts JSON numbers, Go numeric types and numeric strings.
func toNumber(v any) (float64, bool) {
	var n float64
	switch t := v.(type) {
	case float64:
		n = t
	case float32:
		n = float64(t)
	case int:
		n = float64(t)
	case int32:
		n = float64(t)
	case int64:
		n = float64(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		n = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		n = f
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func firstImage(v any) string {
	switch t := v.(type) {
	case []string:
		for _, s := range t {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}
