package server

import (
	"context"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ofirzvishaboo/mcp-server/internal/pkg/comparator"
	"github.com/ofirzvishaboo/mcp-server/internal/pkg/history"
	"github.com/ofirzvishaboo/mcp-server/internal/pkg/retailer"
	"github.com/ofirzvishaboo/mcp-server/internal/pkg/scrape"
)

type stubFetcher struct {
	prices map[string]string
}

func (f *stubFetcher) Fetch(_ context.Context, r retailer.Retailer, product string) (scrape.Quote, error) {
	p, ok := f.prices[r.Key]
	if !ok {
		return scrape.Quote{}, errors.Errorf("no result at %s", r.Key)
	}
	return scrape.Quote{
		Retailer:  r.Key,
		Product:   product,
		Price:     decimal.RequireFromString(p),
		URL:       r.SearchFor(product),
		Timestamp: time.Now().UTC(),
	}, nil
}

func newTestServer(t *testing.T, prices map[string]string) (*Server, history.Store) {
	t.Helper()
	comp, err := comparator.NewComparator(comparator.WithFetcher(&stubFetcher{prices: prices}))
	require.NoError(t, err)
	store := history.NewMemoryStore()
	srv, err := NewServer(WithComparator(comp), WithHistoryStore(store))
	require.NoError(t, err)
	return srv, store
}

func callReq(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestHandleComparePricesRecordsHistory(t *testing.T) {
	srv, store := newTestServer(t, map[string]string{"amazon": "100.00", "bestbuy": "90.00"})
	res, err := srv.handleComparePrices(context.Background(), callReq("compare_prices", map[string]any{
		"product_name": "widget",
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	out := resultText(t, res)
	require.Contains(t, out, "Best Deal: Bestbuy at $90.00")

	runs, err := store.Recent(context.Background(), "widget", 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Len(t, runs[0].Quotes, 2)
}

func TestHandleComparePricesNoResults(t *testing.T) {
	srv, store := newTestServer(t, nil)
	res, err := srv.handleComparePrices(context.Background(), callReq("compare_prices", map[string]any{
		"product_name": "vaporware",
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Equal(t, "No prices found for vaporware", resultText(t, res))

	// Empty comparisons are not recorded.
	runs, err := store.Recent(context.Background(), "vaporware", 10)
	require.NoError(t, err)
	require.Empty(t, runs)
}

func TestHandleComparePricesMissingArgument(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	res, err := srv.handleComparePrices(context.Background(), callReq("compare_prices", nil))
	require.NoError(t, err)
	require.True(t, res.IsError)
}

func TestHandleAvailableWebsites(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	res, err := srv.handleAvailableWebsites(context.Background(), callReq("get_available_websites", nil))
	require.NoError(t, err)
	require.Equal(t, "Available websites for price comparison:\n- amazon\n- bestbuy\n- newegg", resultText(t, res))
}

func TestHandlePriceHistoryLimit(t *testing.T) {
	srv, store := newTestServer(t, nil)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := store.Record(ctx, "widget", []scrape.Quote{{
			Retailer: "newegg",
			Product:  "widget",
			Price:    decimal.RequireFromString("10.00"),
		}})
		require.NoError(t, err)
	}

	res, err := srv.handlePriceHistory(ctx, callReq("price_history", map[string]any{
		"product_name": "widget",
		"limit":        2,
	}))
	require.NoError(t, err)
	out := resultText(t, res)
	require.Contains(t, out, "Recent comparisons for: widget")
	require.Contains(t, out, "2. ")
	require.NotContains(t, out, "3. ")

	res, err = srv.handlePriceHistory(ctx, callReq("price_history", map[string]any{
		"product_name": "widget",
		"limit":        0,
	}))
	require.NoError(t, err)
	require.True(t, res.IsError)
}

func TestHandlePriceHistorySkipsQuotelessRuns(t *testing.T) {
	srv, store := newTestServer(t, nil)
	ctx := context.Background()

	// A hand-edited database can hold runs with no quotes; the handler
	// must not choke on them.
	_, err := store.Record(ctx, "widget", nil)
	require.NoError(t, err)

	res, err := srv.handlePriceHistory(ctx, callReq("price_history", map[string]any{
		"product_name": "widget",
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Equal(t, "No recorded comparisons for widget", resultText(t, res))

	_, err = store.Record(ctx, "widget", []scrape.Quote{{
		Retailer: "amazon",
		Product:  "widget",
		Price:    decimal.RequireFromString("25.00"),
	}})
	require.NoError(t, err)

	res, err = srv.handlePriceHistory(ctx, callReq("price_history", map[string]any{
		"product_name": "widget",
	}))
	require.NoError(t, err)
	out := resultText(t, res)
	require.Contains(t, out, "1. ")
	require.Contains(t, out, "Best: amazon at $25.00")
	require.NotContains(t, out, "2. ")
}
