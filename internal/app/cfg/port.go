// Package cfg implements functionaltiy to configure an app.
//
// The configuration objects defined here need only be implemented once,
// but can be applied to multiple types.
//
// In order to add support for a new type, the configuration
// need only implement an ApplyX method.
package cfg

import (
	"github.com/ofirzvishaboo/mcp-server/internal"
	"github.com/ofirzvishaboo/mcp-server/internal/app/apps"
)

// PortCfg is configuration for the server listen port.
type PortCfg struct {
	port uint16
}

// NewPortCfg creates a new PortCfg from the given config.
func NewPortCfg(port uint16) *PortCfg {
	return &PortCfg{
		port: port,
	}
}

// PortFromEnv creates a new PortCfg from the current environment.
func PortFromEnv() *PortCfg {
	return &PortCfg{
		port: uint16(internal.Port),
	}
}

// ApplyServerApp applies the PortCfg to a ServerApp.
func (cfg PortCfg) ApplyServerApp(app *apps.ServerApp) error {
	app.Port = cfg.port
	return nil
}

// HostCfg is configuration for the server bind interface.
type HostCfg struct {
	host string
}

// NewHostCfg creates a new HostCfg from the given config.
func NewHostCfg(host string) *HostCfg {
	return &HostCfg{
		host: host,
	}
}

// HostFromEnv creates a new HostCfg from the current environment.
func HostFromEnv() *HostCfg {
	return &HostCfg{
		host: internal.Host,
	}
}

// ApplyServerApp applies the HostCfg to a ServerApp.
func (cfg HostCfg) ApplyServerApp(app *apps.ServerApp) error {
	app.Host = cfg.host
	return nil
}
