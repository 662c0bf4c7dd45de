package client

import "github.com/pkg/errors"

// ErrNotConnected indicates a tool was called before Connect.
var ErrNotConnected = errors.New("not connected")

// ErrToolFailed indicates the server reported a tool-level error.
var ErrToolFailed = errors.New("tool call failed")

// ErrNoTextContent indicates the tool result carried no text content.
var ErrNoTextContent = errors.New("no text content in tool result")
