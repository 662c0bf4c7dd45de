package history

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ofirzvishaboo/mcp-server/internal/pkg/scrape"
)

func testQuotes(prices ...string) []scrape.Quote {
	quotes := make([]scrape.Quote, 0, len(prices))
	for i, p := range prices {
		quotes = append(quotes, scrape.Quote{
			Retailer: []string{"amazon", "bestbuy", "newegg"}[i%3],
			Product:  "Acme GPU",
			Price:    decimal.RequireFromString(p),
			URL:      "https://example.test/q",
		})
	}
	return quotes
}

func TestStores(t *testing.T) {
	stores := map[string]func(t *testing.T) Store{
		"memory": func(*testing.T) Store {
			return NewMemoryStore()
		},
		"sqlite": func(t *testing.T) Store {
			s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
			require.NoError(t, err)
			return s
		},
	}
	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			defer func() {
				require.NoError(t, store.Close())
			}()
			ctx := context.Background()

			run, err := store.Record(ctx, "acme gpu", testQuotes("1299.00", "1199.99"))
			require.NoError(t, err)
			require.NotEqual(t, run.ID.String(), "00000000-0000-0000-0000-000000000000")
			_, err = store.Record(ctx, "acme gpu", testQuotes("1249.00"))
			require.NoError(t, err)
			_, err = store.Record(ctx, "other widget", testQuotes("9.99"))
			require.NoError(t, err)

			runs, err := store.Recent(ctx, "acme gpu", 10)
			require.NoError(t, err)
			require.Len(t, runs, 2)
			for _, r := range runs {
				require.Equal(t, "acme gpu", r.Product)
				require.NotEmpty(t, r.Quotes)
			}
			// Newest first.
			require.Len(t, runs[0].Quotes, 1)
			require.Equal(t, "1249", runs[0].Quotes[0].Price.String())
			require.Len(t, runs[1].Quotes, 2)

			// Case-insensitive product match.
			runs, err = store.Recent(ctx, "ACME GPU", 10)
			require.NoError(t, err)
			require.Len(t, runs, 2)

			// The fold covers non-ASCII letters too, in both stores.
			_, err = store.Record(ctx, "Überwidget PRÜF", testQuotes("42.00"))
			require.NoError(t, err)
			runs, err = store.Recent(ctx, "überwidget prüf", 10)
			require.NoError(t, err)
			require.Len(t, runs, 1)
			require.Equal(t, "Überwidget PRÜF", runs[0].Product)

			// Limit applies after ordering.
			runs, err = store.Recent(ctx, "acme gpu", 1)
			require.NoError(t, err)
			require.Len(t, runs, 1)
			require.Len(t, runs[0].Quotes, 1)

			runs, err = store.Recent(ctx, "unknown", 10)
			require.NoError(t, err)
			require.Empty(t, runs)
		})
	}
}
