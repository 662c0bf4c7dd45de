// Package history records comparison runs so past prices can be
// recalled through the price_history tool.
package history

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ofirzvishaboo/mcp-server/internal/pkg/scrape"
)

// Run is one recorded comparison: the product searched for and the
// quotes collected at that time.
type Run struct {
	ID        uuid.UUID      `json:"id"`
	Product   string         `json:"product"`
	Quotes    []scrape.Quote `json:"quotes"`
	CreatedAt time.Time      `json:"created_at"`
}

// productKey folds a product name for case-insensitive lookup. Both
// store implementations match on this key so they agree on non-ASCII
// names as well.
func productKey(product string) string {
	return strings.ToLower(product)
}

// Store persists comparison runs. Implementations must be safe for
// concurrent use.
type Store interface {
	Record(ctx context.Context, product string, quotes []scrape.Quote) (Run, error)
	Recent(ctx context.Context, product string, limit int) ([]Run, error)
	Close() error
}

// MemoryStore keeps runs in memory. It backs tests and servers that
// run without a database file.
type MemoryStore struct {
	mu   sync.RWMutex
	runs []Run
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Record appends a run.
func (s *MemoryStore) Record(_ context.Context, product string, quotes []scrape.Quote) (Run, error) {
	run := Run{
		ID:        uuid.New(),
		Product:   product,
		Quotes:    quotes,
		CreatedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, run)
	return run, nil
}

// Recent returns up to limit runs for the product, newest first.
func (s *MemoryStore) Recent(_ context.Context, product string, limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key := productKey(product)
	matches := make([]Run, 0, limit)
	for _, run := range s.runs {
		if productKey(run.Product) == key {
			matches = append(matches, run)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// Close is a no-op for the memory store.
func (s *MemoryStore) Close() error {
	return nil
}
