package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ofirzvishaboo/mcp-server/internal/pkg/comparator"
	"github.com/ofirzvishaboo/mcp-server/internal/pkg/history"
)

var logger logrus.FieldLogger = logrus.StandardLogger()

// Name and Version identify the MCP server to clients.
const (
	Name    = "Tech Price Comparator"
	Version = "1.0.0"
)

// Server exposes the price comparator as MCP tools.
type Server struct {
	comparator *comparator.Comparator
	store      history.Store
}

// Cfg configures a Server.
type Cfg func(*Server) error

// WithComparator sets the comparator behind the tools.
func WithComparator(c *comparator.Comparator) Cfg {
	return func(s *Server) error {
		s.comparator = c
		return nil
	}
}

// WithHistoryStore sets the comparison history store.
func WithHistoryStore(store history.Store) Cfg {
	return func(s *Server) error {
		s.store = store
		return nil
	}
}

// NewServer creates a new Server with the given configuration.
func NewServer(cfgs ...Cfg) (*Server, error) {
	server := &Server{}
	for _, cfg := range cfgs {
		if err := cfg(server); err != nil {
			return nil, errors.Wrap(err, "apply Server cfg failed")
		}
	}
	if server.comparator == nil {
		return nil, errors.New("a comparator is required")
	}
	if server.store == nil {
		server.store = history.NewMemoryStore()
	}
	return server, nil
}

// MCP builds the MCP server with all tools registered.
func (s *Server) MCP() *mcpserver.MCPServer {
	srv := mcpserver.NewMCPServer(Name, Version,
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithRecovery(),
	)
	srv.AddTool(mcp.NewTool("compare_prices",
		mcp.WithDescription("Compare prices of a tech product across different websites."),
		mcp.WithString("product_name",
			mcp.Required(),
			mcp.Description("Name of the product to search for."),
		),
	), s.handleComparePrices)
	srv.AddTool(mcp.NewTool("get_available_websites",
		mcp.WithDescription("Get list of available websites for price comparison."),
	), s.handleAvailableWebsites)
	srv.AddTool(mcp.NewTool("price_history",
		mcp.WithDescription("Show recent recorded price comparisons for a product."),
		mcp.WithString("product_name",
			mcp.Required(),
			mcp.Description("Name of the product to look up."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of comparison runs to return."),
			mcp.DefaultNumber(10),
		),
	), s.handlePriceHistory)
	return srv
}

// ServeSSE serves the MCP server over SSE on addr until the context is
// cancelled. The port in addr must be free; a bind failure is returned
// to the caller. The message endpoint is advertised relative to the
// SSE stream, so clients behind port mappings still resolve it.
func (s *Server) ServeSSE(ctx context.Context, addr string) error {
	sse := mcpserver.NewSSEServer(s.MCP())
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			if err := sse.Shutdown(context.Background()); err != nil {
				logger.WithError(err).Warning("shutdown SSE server failed")
			}
		case <-done:
		}
	}()
	logger.WithField("addr", addr).Info("serving MCP over SSE")
	if err := sse.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrapf(err, "serve SSE on %s failed", addr)
	}
	return nil
}

func (s *Server) handleComparePrices(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	product, err := req.RequireString("product_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	report, err := s.comparator.Compare(ctx, product)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error comparing prices: %s", err)), nil
	}
	if !report.Empty() {
		// Best effort: a history failure must not fail the comparison.
		if _, err := s.store.Record(ctx, product, report.Quotes); err != nil {
			logger.WithError(err).WithField("product", product).Warning("record comparison failed")
		}
	}
	return mcp.NewToolResultText(report.String()), nil
}

func (s *Server) handleAvailableWebsites(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	lines := make([]string, 0, s.comparator.Registry().Len())
	for _, key := range s.comparator.Registry().Keys() {
		lines = append(lines, "- "+key)
	}
	return mcp.NewToolResultText("Available websites for price comparison:\n" + strings.Join(lines, "\n")), nil
}

func (s *Server) handlePriceHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	product, err := req.RequireString("product_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	limit := req.GetInt("limit", 10)
	if limit < 1 {
		return mcp.NewToolResultError("limit must be positive"), nil
	}
	runs, err := s.store.Recent(ctx, product, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error reading history: %s", err)), nil
	}
	return mcp.NewToolResultText(formatRuns(product, runs)), nil
}

func formatRuns(product string, runs []history.Run) string {
	if len(runs) == 0 {
		return fmt.Sprintf("No recorded comparisons for %s", product)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Recent comparisons for: %s\n", product)
	n := 0
	for _, run := range runs {
		if len(run.Quotes) == 0 {
			// Runs recorded through the server always carry quotes, but
			// an externally written database row may not.
			continue
		}
		best := run.Quotes[0]
		for _, q := range run.Quotes[1:] {
			if q.Price.LessThan(best.Price) {
				best = q
			}
		}
		n++
		fmt.Fprintf(&b, "\n%d. %s\n", n, run.CreatedAt.Format("2006-01-02 15:04:05 MST"))
		fmt.Fprintf(&b, "   Best: %s at $%s\n", best.Retailer, best.Price.StringFixed(2))
		fmt.Fprintf(&b, "   Stores compared: %d\n", len(run.Quotes))
	}
	if n == 0 {
		return fmt.Sprintf("No recorded comparisons for %s", product)
	}
	return b.String()
}
