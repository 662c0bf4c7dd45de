package client

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ofirzvishaboo/mcp-server/internal/pkg/comparator"
	"github.com/ofirzvishaboo/mcp-server/internal/pkg/history"
	"github.com/ofirzvishaboo/mcp-server/internal/pkg/retailer"
	"github.com/ofirzvishaboo/mcp-server/internal/pkg/scrape"
	"github.com/ofirzvishaboo/mcp-server/internal/pkg/server"
)

// fixedFetcher serves canned prices per retailer.
type fixedFetcher struct {
	prices map[string]string
}

func (f *fixedFetcher) Fetch(_ context.Context, r retailer.Retailer, product string) (scrape.Quote, error) {
	p, ok := f.prices[r.Key]
	if !ok {
		return scrape.Quote{}, errors.Errorf("out of stock at %s", r.Key)
	}
	return scrape.Quote{
		Retailer: r.Key,
		Product:  product,
		Price:    decimal.RequireFromString(p),
		URL:      r.SearchFor(product),
	}, nil
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	comp, err := comparator.NewComparator(comparator.WithFetcher(&fixedFetcher{prices: map[string]string{
		"amazon": "999.99",
		"newegg": "949.00",
	}}))
	require.NoError(t, err)
	srv, err := server.NewServer(
		server.WithComparator(comp),
		server.WithHistoryStore(history.NewMemoryStore()),
	)
	require.NoError(t, err)
	c, err := NewClient(WithInProcessServer(srv.MCP()))
	require.NoError(t, err)
	require.NoError(t, c.Connect(context.Background()))
	t.Cleanup(func() {
		require.NoError(t, c.Close())
	})
	return c
}

func TestConnectListsTools(t *testing.T) {
	c := newTestClient(t)
	names := make(map[string]bool)
	for _, tool := range c.Tools() {
		names[tool.Name] = true
	}
	require.True(t, names["compare_prices"])
	require.True(t, names["get_available_websites"])
	require.True(t, names["price_history"])
}

func TestComparePrices(t *testing.T) {
	c := newTestClient(t)
	out, err := c.ComparePrices(context.Background(), "acme gpu")
	require.NoError(t, err)
	require.Contains(t, out, "Price Comparison for: acme gpu")
	require.Contains(t, out, "Best Deal: Newegg at $949.00")
	require.Contains(t, out, "Number of stores compared: 2")
}

func TestAvailableWebsites(t *testing.T) {
	c := newTestClient(t)
	out, err := c.AvailableWebsites(context.Background())
	require.NoError(t, err)
	require.Contains(t, out, "Available websites for price comparison:")
	require.Contains(t, out, "- amazon")
	require.Contains(t, out, "- bestbuy")
	require.Contains(t, out, "- newegg")
}

func TestPriceHistory(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	out, err := c.PriceHistory(ctx, "acme gpu", 5)
	require.NoError(t, err)
	require.Contains(t, out, "No recorded comparisons for acme gpu")

	_, err = c.ComparePrices(ctx, "acme gpu")
	require.NoError(t, err)

	out, err = c.PriceHistory(ctx, "acme gpu", 5)
	require.NoError(t, err)
	require.Contains(t, out, "Recent comparisons for: acme gpu")
	require.Contains(t, out, "Best: newegg at $949.00")
	require.Contains(t, out, "Stores compared: 2")
}

func TestComparePricesToolError(t *testing.T) {
	c := newTestClient(t)
	_, err := c.ComparePrices(context.Background(), "")
	require.ErrorIs(t, err, ErrToolFailed)
}

func TestNewClientRequiresTarget(t *testing.T) {
	_, err := NewClient()
	require.Error(t, err)
}
