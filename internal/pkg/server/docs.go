// Package server exposes the price comparator over the Model Context
// Protocol.
//
// The server performs the following steps:
//  1. Builds an MCP server advertising three tools: compare_prices,
//     get_available_websites and price_history.
//  2. Serves the MCP protocol over SSE, with the event stream on /sse
//     and the client-to-server post endpoint on /message.
//  3. On compare_prices, fans out one fetch per registered retailer,
//     drops failed fetches, sorts the surviving quotes by ascending
//     price and renders a text report.
//  4. Records each non-empty comparison in the history store, so
//     price_history can replay past runs for a product.
//  5. On get_available_websites, lists the keys of the retailer
//     registry.
//
// The history store is pluggable. The SQLite implementation persists
// runs across restarts; the in-memory implementation backs tests and
// throwaway servers.
package server
