package catalog

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/ecotoken_store/internal/models"
)

func strPtr(s string) *string { return &s }

func TestNormalize_FullRecord(t *testing.T) {
	raw := models.RawProduct{
		ID:                  "p-1",
		Name:                "Bamboo Wall Clock",
		Description:         strPtr("Hand made"),
		Price:               &models.RawPrice{FiatAmount: 120.5, TokenAmount: 24.0},
		Category:            strPtr("home"),
		Images:              []string{"https://cdn/clock.png", "https://cdn/clock-2.png"},
		SustainabilityScore: 92.0,
		Status:              "sold_out",
	}

	p := Normalize(raw)

	assert.Equal(t, models.Product{
		ID:                  "p-1",
		Name:                "Bamboo Wall Clock",
		Description:         "Hand made",
		FiatPrice:           120.5,
		TokenPrice:          24,
		Category:            "home",
		ImageURL:            "https://cdn/clock.png",
		SustainabilityScore: 92,
		Status:              models.ProductStatusSoldOut,
	}, p)
}

func TestNormalize_Defaults(t *testing.T) {
	p := Normalize(models.RawProduct{ID: "p-2", Name: "Tote"})

	assert.Equal(t, "", p.Description)
	assert.Zero(t, p.FiatPrice)
	assert.Zero(t, p.TokenPrice)
	assert.Equal(t, models.CategoryUncategorized, p.Category)
	assert.Equal(t, models.PlaceholderImageURL, p.ImageURL)
	assert.Equal(t, float64(models.DefaultSustainabilityScore), p.SustainabilityScore)
	assert.Equal(t, models.ProductStatusAvailable, p.Status)
}

func TestNormalize_MalformedFieldsDegrade(t *testing.T) {
	raw := models.RawProduct{
		ID:                  "p-3",
		Price:               &models.RawPrice{FiatAmount: "not a number", TokenAmount: map[string]any{"x": 1}},
		Category:            strPtr("   "),
		Images:              "https://cdn/not-a-list.png",
		SustainabilityScore: "high",
		Status:              42,
	}

	p := Normalize(raw)

	assert.Zero(t, p.FiatPrice)
	assert.Zero(t, p.TokenPrice)
	assert.Equal(t, models.CategoryUncategorized, p.Category)
	assert.Equal(t, models.PlaceholderImageURL, p.ImageURL)
	assert.Equal(t, float64(models.DefaultSustainabilityScore), p.SustainabilityScore)
	assert.Equal(t, models.ProductStatusAvailable, p.Status)
}

func TestNormalize_PriceCoercion(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"float", 19.99, 19.99},
		{"int", 7, 7},
		{"numeric string", " 12.5 ", 12.5},
		{"json number", json.Number("300"), 300},
		{"negative", -4.0, 0},
		{"nan", math.NaN(), 0},
		{"inf", math.Inf(1), 0},
		{"nil", nil, 0},
		{"bool", true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Normalize(models.RawProduct{ID: "x", Price: &models.RawPrice{FiatAmount: tt.in, TokenAmount: tt.in}})
			assert.Equal(t, tt.want, p.FiatPrice)
			assert.Equal(t, tt.want, p.TokenPrice)
		})
	}
}

func TestNormalize_StatusVariants(t *testing.T) {
	assert.Equal(t, models.ProductStatusSoldOut, Normalize(models.RawProduct{Status: " SOLD_OUT "}).Status)
	assert.Equal(t, models.ProductStatusAvailable, Normalize(models.RawProduct{Status: "available"}).Status)
	assert.Equal(t, models.ProductStatusAvailable, Normalize(models.RawProduct{Status: "discontinued"}).Status)
}

func TestNormalize_ImagesFromDecodedJSON(t *testing.T) {
	var raw models.RawProduct
	payload := `{"id":"p-9","name":"Jar","images":["", 5, "https://cdn/jar.png"],"price":{"fiatAmount":"15","tokenAmount":3}}`
	require.NoError(t, json.Unmarshal([]byte(payload), &raw))

	p := Normalize(raw)

	assert.Equal(t, "https://cdn/jar.png", p.ImageURL)
	assert.Equal(t, 15.0, p.FiatPrice)
	assert.Equal(t, 3.0, p.TokenPrice)
}

func TestNormalizeAll_PreservesOrder(t *testing.T) {
	out := NormalizeAll([]models.RawProduct{{ID: "b"}, {ID: "a"}, {ID: "c"}})
	require.Len(t, out, 3)
	assert.Equal(t, []string{"b", "a", "c"}, []string{out[0].ID, out[1].ID, out[2].ID})
}

func TestNormalize_WrongTypedStringFieldsFromJSON(t *testing.T) {
	var raw models.RawProduct
	require.NoError(t, json.Unmarshal([]byte(`{"id":9,"name":true,"description":false,"category":7,"price":"free"}`), &raw))

	p := Normalize(raw)
	assert.Equal(t, "9", p.ID)
	assert.Empty(t, p.Name)
	assert.Empty(t, p.Description)
	assert.Equal(t, models.CategoryUncategorized, p.Category)
	assert.Zero(t, p.FiatPrice)
	assert.Zero(t, p.TokenPrice)
}
