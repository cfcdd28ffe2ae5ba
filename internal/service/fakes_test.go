package service

import (
	"context"
	"sync"

	"github.com/GTDGit/ecotoken_store/internal/models"
)

type fakeSource struct {
	mu    sync.Mutex
	raws  []models.RawProduct
	err   error
	calls int
}

func (f *fakeSource) FetchAll(ctx context.Context) ([]models.RawProduct, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.raws, nil
}

func (f *fakeSource) set(raws []models.RawProduct, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.raws, f.err = raws, err
}

type memCartStore struct {
	mu      sync.Mutex
	carts   map[string]models.StoredCart
	loadErr error
}

func newMemCartStore() *memCartStore {
	return &memCartStore{carts: make(map[string]models.StoredCart)}
}

func (m *memCartStore) Load(ctx context.Context, sessionID string) (*models.StoredCart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	c, ok := m.carts[sessionID]
	if !ok {
		return &models.StoredCart{SessionID: sessionID}, nil
	}
	lines := append([]models.StoredCartLine(nil), c.Lines...)
	return &models.StoredCart{SessionID: sessionID, Lines: lines}, nil
}

func (m *memCartStore) Save(ctx context.Context, stored *models.StoredCart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(stored.Lines) == 0 {
		delete(m.carts, stored.SessionID)
		return nil
	}
	m.carts[stored.SessionID] = *stored
	return nil
}

func (m *memCartStore) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, sessionID)
	return nil
}

type fakeWallet struct {
	balances map[string]int64
	err      error
}

func (f *fakeWallet) GetTokenBalance(ctx context.Context, userID string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.balances[userID], nil
}

type recordingNotifier struct {
	refreshed []int
	failed    []error
}

func (r *recordingNotifier) NotifyCatalogRefreshed(productCount int, categories []string) {
	r.refreshed = append(r.refreshed, productCount)
}

func (r *recordingNotifier) NotifyCatalogRefreshFailed(err error) {
	r.failed = append(r.failed, err)
}

func sp(s string) *string { return &s }

func rawFixture() []models.RawProduct {
	return []models.RawProduct{
		{ID: "clock", Name: "Bamboo Wall Clock", Category: sp("home"), Price: &models.RawPrice{FiatAmount: 300.0, TokenAmount: 60.0}},
		{ID: "tote", Name: "Cotton Tote", Category: sp("bags"), Price: &models.RawPrice{FiatAmount: 100.0, TokenAmount: 20.0}},
		{ID: "bottle", Name: "Steel Bottle", Category: sp("kitchen"), Price: &models.RawPrice{FiatAmount: 250.0, TokenAmount: 50.0}, Status: "sold_out"},
		{ID: "cork", Name: "Cork Coasters", Category: sp("home"), Price: &models.RawPrice{FiatAmount: 50.0, TokenAmount: 10.0}},
	}
}
