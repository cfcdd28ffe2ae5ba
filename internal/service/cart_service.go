package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/ecotoken_store/internal/cart"
	"github.com/GTDGit/ecotoken_store/internal/models"
	"github.com/GTDGit/ecotoken_store/internal/utils"
)

// CartStore persists session carts between requests.
type CartStore interface {
	Load(ctx context.Context, sessionID string) (*models.StoredCart, error)
	Save(ctx context.Context, stored *models.StoredCart) error
	Delete(ctx context.Context, sessionID string) error
}

// ProductLookup resolves product ids against the current catalog.
type ProductLookup interface {
	GetProduct(id string) (models.Product, bool)
}

// CartService loads a session's cart, applies one operation and saves it back.
// Operations on the same session are serialized.
type CartService struct {
	store   CartStore
	catalog ProductLookup
	locks   *sessionLocks
}

// NewCartService constructs a CartService.
func NewCartService(store CartStore, catalog ProductLookup) *CartService {
	return &CartService{
		store:   store,
		catalog: catalog,
		locks:   newSessionLocks(),
	}
}

// GetCart returns the session's cart priced against the current catalog.
func (s *CartService) GetCart(ctx context.Context, sessionID string) (cart.View, error) {
	c, err := s.withCart(ctx, sessionID, false, func(*cart.Cart) error { return nil })
	if err != nil {
		return cart.View{}, err
	}
	return c.View(), nil
}

// AddItem adds one unit of productID. Unknown and sold-out products are rejected.
func (s *CartService) AddItem(ctx context.Context, sessionID, productID string) (cart.View, error) {
	p, ok := s.catalog.GetProduct(productID)
	if !ok {
		return cart.View{}, utils.ErrProductNotFound
	}
	if p.IsSoldOut() {
		return cart.View{}, utils.ErrProductSoldOut
	}

	c, err := s.withCart(ctx, sessionID, true, func(c *cart.Cart) error {
		c.Add(p)
		return nil
	})
	if err != nil {
		return cart.View{}, err
	}
	log.Debug().Str("session_id", sessionID).Str("product_id", productID).Msg("Cart item added")
	return c.View(), nil
}

// UpdateQuantity sets an absolute quantity; quantity <= 0 removes the line.
func (s *CartService) UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) (cart.View, error) {
	c, err := s.withCart(ctx, sessionID, true, func(c *cart.Cart) error {
		c.UpdateQuantity(productID, quantity)
		return nil
	})
	if err != nil {
		return cart.View{}, err
	}
	return c.View(), nil
}

// RemoveItem deletes the line for productID if present.
func (s *CartService) RemoveItem(ctx context.Context, sessionID, productID string) (cart.View, error) {
	c, err := s.withCart(ctx, sessionID, true, func(c *cart.Cart) error {
		c.Remove(productID)
		return nil
	})
	if err != nil {
		return cart.View{}, err
	}
	return c.View(), nil
}

// Clear empties the session's cart.
func (s *CartService) Clear(ctx context.Context, sessionID string) error {
	if err := validateSession(sessionID); err != nil {
		return err
	}
	unlock := s.locks.lock(sessionID)
	defer unlock()
	return s.store.Delete(ctx, sessionID)
}

// withCart loads the cart under the session lock, applies fn and, when
// save is set, writes the result back.
func (s *CartService) withCart(ctx context.Context, sessionID string, save bool, fn func(*cart.Cart) error) (*cart.Cart, error) {
	if err := validateSession(sessionID); err != nil {
		return nil, err
	}
	unlock := s.locks.lock(sessionID)
	defer unlock()

	stored, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	c := s.rebuild(stored)
	if err := fn(c); err != nil {
		return nil, err
	}
	if save {
		if err := s.store.Save(ctx, toStored(sessionID, c)); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// rebuild re-prices stored lines from the catalog, dropping products that
// no longer exist.
func (s *CartService) rebuild(stored *models.StoredCart) *cart.Cart {
	c := cart.New()
	for _, line := range stored.Lines {
		if line.Quantity <= 0 {
			continue
		}
		p, ok := s.catalog.GetProduct(line.ProductID)
		if !ok {
			log.Warn().Str("session_id", stored.SessionID).Str("product_id", line.ProductID).Msg("Dropping cart line for missing product")
			continue
		}
		if _, exists := c.Line(p.ID); exists {
			continue
		}
		c.Add(p)
		c.UpdateQuantity(p.ID, line.Quantity)
	}
	return c
}

func toStored(sessionID string, c *cart.Cart) *models.StoredCart {
	lines := c.Lines()
	stored := &models.StoredCart{
		SessionID: sessionID,
		Lines:     make([]models.StoredCartLine, 0, len(lines)),
	}
	for _, l := range lines {
		stored.Lines = append(stored.Lines, models.StoredCartLine{ProductID: l.Product.ID, Quantity: l.Quantity})
	}
	return stored
}

func validateSession(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("%w: empty session id", utils.ErrInvalidSession)
	}
	return nil
}

// sessionLocks hands out one mutex per session id, freed when unused.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[string]*sessionLock)}
}

func (l *sessionLocks) lock(id string) func() {
	l.mu.Lock()
	sl, ok := l.locks[id]
	if !ok {
		sl = &sessionLock{}
		l.locks[id] = sl
	}
	sl.refs++
	l.mu.Unlock()

	sl.mu.Lock()
	return func() {
		sl.mu.Unlock()
		l.mu.Lock()
		sl.refs--
		if sl.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
