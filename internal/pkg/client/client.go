package client

import (
	"context"
	"strings"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var logger logrus.FieldLogger = logrus.StandardLogger()

const (
	clientName    = "tech-price-comparator-client"
	clientVersion = "1.0.0"
)

// Client wraps an MCP session with typed helpers for the comparator's
// tools.
type Client struct {
	serverURL string
	base      *mcpclient.Client
	tools     []mcp.Tool
}

// Cfg configures a Client.
type Cfg func(*Client) error

// WithServerURL sets the base URL of the server to connect to over
// SSE, e.g. http://localhost:8050.
func WithServerURL(u string) Cfg {
	return func(c *Client) error {
		c.serverURL = strings.TrimRight(u, "/")
		return nil
	}
}

// WithInProcessServer connects the client directly to an in-process
// MCP server, bypassing the network. Used by tests.
func WithInProcessServer(srv *mcpserver.MCPServer) Cfg {
	return func(c *Client) error {
		base, err := mcpclient.NewInProcessClient(srv)
		if err != nil {
			return errors.Wrap(err, "create in-process client failed")
		}
		c.base = base
		return nil
	}
}

// NewClient creates a new Client with the given configuration.
func NewClient(cfgs ...Cfg) (*Client, error) {
	client := &Client{}
	for _, cfg := range cfgs {
		if err := cfg(client); err != nil {
			return nil, errors.Wrap(err, "apply Client cfg failed")
		}
	}
	if client.base == nil && client.serverURL == "" {
		return nil, errors.New("a server URL is required")
	}
	return client, nil
}

// Connect establishes the MCP session: it starts the transport,
// performs the initialize handshake and lists the server's tools.
func (c *Client) Connect(ctx context.Context) error {
	if c.base == nil {
		base, err := mcpclient.NewSSEMCPClient(c.serverURL + "/sse")
		if err != nil {
			return errors.Wrapf(err, "create SSE client for %s failed", c.serverURL)
		}
		c.base = base
	}
	if err := c.base.Start(ctx); err != nil {
		return errors.Wrap(err, "start transport failed")
	}

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{
		Name:    clientName,
		Version: clientVersion,
	}
	initResult, err := c.base.Initialize(ctx, initReq)
	if err != nil {
		return errors.Wrap(err, "initialize session failed")
	}
	logger.WithFields(logrus.Fields{
		"server":  initResult.ServerInfo.Name,
		"version": initResult.ServerInfo.Version,
	}).Info("connected to server")

	toolsResult, err := c.base.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return errors.Wrap(err, "list tools failed")
	}
	c.tools = toolsResult.Tools
	for _, tool := range c.tools {
		logger.WithFields(logrus.Fields{
			"tool":        tool.Name,
			"description": tool.Description,
		}).Info("server tool available")
	}
	return nil
}

// Tools returns the tools advertised by the server at connect time.
func (c *Client) Tools() []mcp.Tool {
	return c.tools
}

// ComparePrices runs the compare_prices tool for the product.
func (c *Client) ComparePrices(ctx context.Context, product string) (string, error) {
	return c.callText(ctx, "compare_prices", map[string]any{"product_name": product})
}

// AvailableWebsites runs the get_available_websites tool.
func (c *Client) AvailableWebsites(ctx context.Context) (string, error) {
	return c.callText(ctx, "get_available_websites", nil)
}

// PriceHistory runs the price_history tool for the product.
func (c *Client) PriceHistory(ctx context.Context, product string, limit int) (string, error) {
	return c.callText(ctx, "price_history", map[string]any{
		"product_name": product,
		"limit":        limit,
	})
}

// Close tears down the MCP session.
func (c *Client) Close() error {
	if c.base == nil {
		return nil
	}
	return errors.Wrap(c.base.Close(), "close client failed")
}

// callText calls the named tool and returns the text of the first
// text content block in the result.
func (c *Client) callText(ctx context.Context, name string, args map[string]any) (string, error) {
	if c.base == nil {
		return "", ErrNotConnected
	}
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	result, err := c.base.CallTool(ctx, req)
	if err != nil {
		return "", errors.Wrapf(err, "call %s failed", name)
	}
	text, ok := firstText(result.Content)
	if !ok {
		return "", errors.Wrapf(ErrNoTextContent, "tool %s", name)
	}
	if result.IsError {
		return "", errors.Wrapf(ErrToolFailed, "tool %s: %s", name, text)
	}
	return text, nil
}

func firstText(contents []mcp.Content) (string, bool) {
	for _, content := range contents {
		switch t := content.(type) {
		case mcp.TextContent:
			return t.Text, true
		case *mcp.TextContent:
			return t.Text, true
		}
	}
	return "", false
}
