package assistant

import "github.com/pkg/errors"

// ErrNotConfigured indicates no API key is available, so analysis is
// disabled.
var ErrNotConfigured = errors.New("assistant not configured")
