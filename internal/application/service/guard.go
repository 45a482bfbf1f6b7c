package service

import "sync"

// CatalogGuard serialises every read-validate-write of the catalog.
// All services that mutate products or append bills share one guard.
type CatalogGuard struct {
	mu sync.Mutex
}

// NewCatalogGuard creates a guard
func NewCatalogGuard() *CatalogGuard {
	return &CatalogGuard{}
}

// Do runs fn while holding the guard.
func (g *CatalogGuard) Do(fn func() error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return fn()
}
