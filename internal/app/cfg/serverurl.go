package cfg

import (
	"github.com/ofirzvishaboo/mcp-server/internal"
	"github.com/ofirzvishaboo/mcp-server/internal/app/apps"
)

// ServerURLCfg is configuration for the client's server address.
type ServerURLCfg struct {
	url string
}

// NewServerURLCfg creates a new ServerURLCfg from the given config.
func NewServerURLCfg(url string) *ServerURLCfg {
	return &ServerURLCfg{
		url: url,
	}
}

// ServerURLFromEnv creates a new ServerURLCfg from the current environment.
func ServerURLFromEnv() *ServerURLCfg {
	return &ServerURLCfg{
		url: internal.ServerURL,
	}
}

// ApplyClientApp applies the ServerURLCfg to a ClientApp.
func (cfg ServerURLCfg) ApplyClientApp(app *apps.ClientApp) error {
	app.ServerURL = cfg.url
	return nil
}
