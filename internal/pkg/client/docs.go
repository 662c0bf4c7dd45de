// Package client implements the MCP client side of the price
// comparator.
//
// The client performs the following steps:
//  1. Connects to the server's SSE endpoint (or an in-process server
//     when testing).
//  2. Performs the MCP initialize handshake, identifying itself and
//     the protocol version it speaks.
//  3. Lists the tools advertised by the server and logs each one.
//  4. Exposes typed helpers over the raw tool-call API: ComparePrices,
//     AvailableWebsites and PriceHistory each return the text of the
//     first text content block in the result.
//
// Tool-level failures (IsError results) surface as ErrToolFailed so
// callers can distinguish them from transport errors.
package client
