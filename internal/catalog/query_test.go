package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/ecotoken_store/internal/models"
)

func fixture() []models.Product {
	return []models.Product{
		{ID: "1", Name: "Bamboo Wall Clock", Category: "home", FiatPrice: 300},
		{ID: "2", Name: "Cotton Tote", Description: "Organic bamboo fibre blend", Category: "bags", FiatPrice: 100},
		{ID: "3", Name: "Steel Bottle", Category: "kitchen", FiatPrice: 100},
		{ID: "4", Name: "Cork Coasters", Category: "home", FiatPrice: 50},
		{ID: "5", Name: "Jute Backpack", Category: "bags", FiatPrice: 450},
		{ID: "6", Name: "Bamboo Cutlery", Category: "kitchen", FiatPrice: 100},
	}
}

func ids(products []models.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func allQuery() Query {
	return Query{Category: models.CategoryAll, SortBy: SortPopular, Page: 1, PageSize: 100}
}

func TestRun_AllPassThroughKeepsCatalogOrder(t *testing.T) {
	res := Run(fixture(), allQuery())
	assert.Equal(t, 6, res.TotalMatching)
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6"}, ids(res.PageItems))
}

func TestRun_CategoryFilter(t *testing.T) {
	for _, category := range []string{"home", "bags", "kitchen", "garden"} {
		t.Run(category, func(t *testing.T) {
			q := allQuery()
			q.Category = category
			q.PageSize = 1
			res := Run(fixture(), q)

			want := 0
			for _, p := range fixture() {
				if p.Category == category {
					want++
				}
			}
			assert.Equal(t, want, res.TotalMatching)
			for _, p := range res.PageItems {
				assert.Equal(t, category, p.Category)
			}
		})
	}
}

func TestRun_SearchIsCaseInsensitiveOverNameAndDescription(t *testing.T) {
	q := allQuery()
	q.SearchTerm = "bamboo"
	res := Run(fixture(), q)
	assert.Equal(t, []string{"1", "2", "6"}, ids(res.PageItems))

	q.SearchTerm = "BAMBOO WALL"
	res = Run(fixture(), q)
	assert.Equal(t, []string{"1"}, ids(res.PageItems))
}

func TestRun_CategoryAppliedBeforeSearch(t *testing.T) {
	q := allQuery()
	q.Category = "kitchen"
	q.SearchTerm = "bamboo"
	res := Run(fixture(), q)
	assert.Equal(t, 1, res.TotalMatching)
	assert.Equal(t, []string{"6"}, ids(res.PageItems))
}

func TestRun_SortIsStable(t *testing.T) {
	q := allQuery()

	q.SortBy = SortPriceLow
	assert.Equal(t, []string{"4", "2", "3", "6", "1", "5"}, ids(Run(fixture(), q).PageItems))

	q.SortBy = SortPriceHigh
	assert.Equal(t, []string{"5", "1", "2", "3", "6", "4"}, ids(Run(fixture(), q).PageItems))
}

func TestRun_DoesNotMutateInput(t *testing.T) {
	products := fixture()
	q := allQuery()
	q.SortBy = SortPriceHigh
	Run(products, q)
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6"}, ids(products))
}

func TestRun_Pagination(t *testing.T) {
	q := allQuery()
	q.PageSize = 4

	q.Page = 1
	res := Run(fixture(), q)
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(res.PageItems))

	q.Page = 2
	res = Run(fixture(), q)
	assert.Equal(t, []string{"5", "6"}, ids(res.PageItems))
	assert.Equal(t, 6, res.TotalMatching)

	for _, page := range []int{3, 100, 0, -1} {
		q.Page = page
		res = Run(fixture(), q)
		require.NotNil(t, res.PageItems)
		assert.Empty(t, res.PageItems, "page %d", page)
		assert.Equal(t, 6, res.TotalMatching, "page %d", page)
	}
}

func TestRun_PageItemsNeverExceedPageSize(t *testing.T) {
	for size := 1; size <= 7; size++ {
		for page := 1; page <= 8; page++ {
			q := allQuery()
			q.Page, q.PageSize = page, size
			assert.LessOrEqual(t, len(Run(fixture(), q).PageItems), size)
		}
	}
}

func TestRun_EmptyCatalog(t *testing.T) {
	res := Run(nil, allQuery())
	assert.Zero(t, res.TotalMatching)
	assert.Empty(t, res.PageItems)
}

func TestParseSortPolicy(t *testing.T) {
	assert.Equal(t, SortPriceLow, ParseSortPolicy("price_low"))
	assert.Equal(t, SortPriceHigh, ParseSortPolicy(" PRICE_HIGH "))
	assert.Equal(t, SortPopular, ParseSortPolicy(""))
	assert.Equal(t, SortPopular, ParseSortPolicy("newest"))
}

func TestCategories(t *testing.T) {
	assert.Equal(t, []string{"all", "home", "bags", "kitchen"}, Categories(fixture()))
	assert.Equal(t, []string{"all"}, Categories(nil))
}

func TestTotalPagesAndClampPage(t *testing.T) {
	assert.Equal(t, 2, TotalPages(6, 4))
	assert.Equal(t, 0, TotalPages(0, 4))
	assert.Equal(t, 0, TotalPages(6, 0))

	assert.Equal(t, 2, ClampPage(9, 6, 4))
	assert.Equal(t, 1, ClampPage(0, 6, 4))
	assert.Equal(t, 1, ClampPage(3, 0, 4))
	assert.Equal(t, 2, ClampPage(2, 6, 4))
}
