package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/ecotoken_store/internal/catalog"
	"github.com/GTDGit/ecotoken_store/internal/models"
	"github.com/GTDGit/ecotoken_store/internal/sse"
	"github.com/GTDGit/ecotoken_store/internal/utils"
)

// ProductSource delivers the raw product list. Implementations return either
// the full list or an error, never a partial list.
type ProductSource interface {
	FetchAll(ctx context.Context) ([]models.RawProduct, error)
}

// Snapshot is an immutable normalized catalog as of one refresh.
type Snapshot struct {
	Products    []models.Product
	Categories  []string
	RefreshedAt time.Time
	byID        map[string]int
}

func newSnapshot(products []models.Product, at time.Time) *Snapshot {
	byID := make(map[string]int, len(products))
	for i, p := range products {
		byID[p.ID] = i
	}
	return &Snapshot{
		Products:    products,
		Categories:  catalog.Categories(products),
		RefreshedAt: at,
		byID:        byID,
	}
}

// CatalogParams is a catalog view request as received from transport.
type CatalogParams struct {
	Category string
	Search   string
	Sort     string
	Page     int
	PageSize int
	// ClampPage moves out-of-range pages to the nearest valid page.
	ClampPage bool
}

// CatalogView is the outward-facing catalog page.
type CatalogView struct {
	TotalMatching       int              `json:"totalMatching"`
	PageItems           []models.Product `json:"pageItems"`
	AvailableCategories []string         `json:"availableCategories"`
	Page                int              `json:"page"`
	PageSize            int              `json:"pageSize"`
	TotalPages          int              `json:"totalPages"`
}

// CatalogStatus summarizes the catalog for health checks.
type CatalogStatus struct {
	ProductCount int        `json:"productCount"`
	RefreshedAt  *time.Time `json:"refreshedAt,omitempty"`
	LastError    string     `json:"lastError,omitempty"`
}

// CatalogService owns the current catalog snapshot and answers view queries.
type CatalogService struct {
	source      ProductSource
	notifier    sse.CatalogNotifier
	pageSize    int
	maxPageSize int

	mu       sync.RWMutex
	snapshot *Snapshot
	lastErr  error
}

// NewCatalogService constructs a CatalogService with an empty snapshot.
func NewCatalogService(source ProductSource, notifier sse.CatalogNotifier, pageSize, maxPageSize int) *CatalogService {
	if notifier == nil {
		notifier = &sse.NopNotifier{}
	}
	if pageSize <= 0 {
		pageSize = 12
	}
	if maxPageSize < pageSize {
		maxPageSize = pageSize
	}
	return &CatalogService{
		source:      source,
		notifier:    notifier,
		pageSize:    pageSize,
		maxPageSize: maxPageSize,
		snapshot:    newSnapshot(nil, time.Time{}),
	}
}

// Refresh fetches and normalizes the catalog. On failure the previous
// snapshot stays in place and the error is returned wrapped in ErrSourceFetch.
func (s *CatalogService) Refresh(ctx context.Context) error {
	raws, err := s.source.FetchAll(ctx)
	if err != nil {
		err = fmt.Errorf("%w: %v", utils.ErrSourceFetch, err)
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		s.notifier.NotifyCatalogRefreshFailed(err)
		return err
	}

	products := dedupeByID(catalog.NormalizeAll(raws))
	snap := newSnapshot(products, time.Now())

	s.mu.Lock()
	s.snapshot = snap
	s.lastErr = nil
	s.mu.Unlock()

	log.Info().
		Int("raw_count", len(raws)).
		Int("product_count", len(products)).
		Int("category_count", len(snap.Categories)-1).
		Msg("Catalog snapshot refreshed")

	s.notifier.NotifyCatalogRefreshed(len(products), snap.Categories)
	return nil
}

// Snapshot returns the current snapshot. Callers must not mutate it.
func (s *CatalogService) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Query runs the catalog pipeline against the current snapshot.
func (s *CatalogService) Query(params CatalogParams) CatalogView {
	snap := s.Snapshot()

	category := strings.TrimSpace(params.Category)
	if category == "" {
		category = models.CategoryAll
	}
	pageSize := params.PageSize
	if pageSize <= 0 {
		pageSize = s.pageSize
	}
	if pageSize > s.maxPageSize {
		pageSize = s.maxPageSize
	}
	page := params.Page
	if page <= 0 {
		page = 1
	}

	q := catalog.Query{
		Category:   category,
		SearchTerm: strings.TrimSpace(params.Search),
		SortBy:     catalog.ParseSortPolicy(params.Sort),
		Page:       page,
		PageSize:   pageSize,
	}
	res := catalog.Run(snap.Products, q)
	if params.ClampPage {
		if clamped := catalog.ClampPage(page, res.TotalMatching, pageSize); clamped != page {
			q.Page = clamped
			res = catalog.Run(snap.Products, q)
		}
	}

	return CatalogView{
		TotalMatching:       res.TotalMatching,
		PageItems:           res.PageItems,
		AvailableCategories: snap.Categories,
		Page:                q.Page,
		PageSize:            pageSize,
		TotalPages:          catalog.TotalPages(res.TotalMatching, pageSize),
	}
}

// Categories returns the category vocabulary of the current snapshot.
func (s *CatalogService) Categories() []string {
	return s.Snapshot().Categories
}

// GetProduct looks a product up by id in the current snapshot.
func (s *CatalogService) GetProduct(id string) (models.Product, bool) {
	snap := s.Snapshot()
	i, ok := snap.byID[id]
	if !ok {
		return models.Product{}, false
	}
	return snap.Products[i], true
}

// Status reports snapshot size, age and the last refresh error, if any.
func (s *CatalogService) Status() CatalogStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := CatalogStatus{ProductCount: len(s.snapshot.Products)}
	if !s.snapshot.RefreshedAt.IsZero() {
		at := s.snapshot.RefreshedAt
		st.RefreshedAt = &at
	}
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	return st
}

// dedupeByID keeps the first product for each id and drops records without one.
func dedupeByID(products []models.Product) []models.Product {
	seen := make(map[string]struct{}, len(products))
	out := products[:0]
	for _, p := range products {
		if p.ID == "" {
			log.Warn().Str("name", p.Name).Msg("Dropping product without id")
			continue
		}
		if _, dup := seen[p.ID]; dup {
			log.Warn().Str("product_id", p.ID).Msg("Dropping duplicate product id")
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}
