// Package internal holds process-wide configuration shared by the
// client and server commands. Every flag is backed by an environment
// variable so the container can be configured without changing the
// start command.
package internal

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// Flag describes a CLI flag with an environment variable fallback.
// The flag value wins over the environment, which wins over Default.
type Flag struct {
	Name    string
	Env     string
	Default string
	Usage   string
	Target  *string
}

// Raw flag targets. ValidateEnv parses these into the typed
// package variables below.
var (
	logLevelRaw      string
	hostRaw          string
	portRaw          string
	retailersFileRaw string
	historyPathRaw   string
	fetchTimeoutRaw  string
	fetchDelayMinRaw string
	fetchDelayMaxRaw string
	serverURLRaw     string
)

// Flag definitions shared by all commands.
var (
	LogLevelFlag = Flag{
		Name:    "log-level",
		Env:     "LOG_LEVEL",
		Default: "info",
		Usage:   "log level (trace, debug, info, warn, error)",
		Target:  &logLevelRaw,
	}
	HostFlag = Flag{
		Name:    "host",
		Env:     "HOST",
		Default: "0.0.0.0",
		Usage:   "interface the server binds to",
		Target:  &hostRaw,
	}
	PortFlag = Flag{
		Name:    "port",
		Env:     "PORT",
		Default: "8050",
		Usage:   "TCP port the server listens on",
		Target:  &portRaw,
	}
)

// Server-only flag definitions.
var (
	RetailersFileFlag = Flag{
		Name:    "retailers",
		Env:     "RETAILERS_FILE",
		Default: "",
		Usage:   "optional YAML file overriding the built-in retailer registry",
		Target:  &retailersFileRaw,
	}
	HistoryPathFlag = Flag{
		Name:    "history",
		Env:     "HISTORY_PATH",
		Default: "comparisons.db",
		Usage:   "path to the SQLite comparison history database",
		Target:  &historyPathRaw,
	}
	FetchTimeoutMSFlag = Flag{
		Name:    "fetch-timeout-ms",
		Env:     "FETCH_TIMEOUT_MS",
		Default: "10000",
		Usage:   "per-retailer request timeout in milliseconds",
		Target:  &fetchTimeoutRaw,
	}
	FetchDelayMinMSFlag = Flag{
		Name:    "fetch-delay-min-ms",
		Env:     "FETCH_DELAY_MIN_MS",
		Default: "1000",
		Usage:   "lower bound of the random pre-request delay in milliseconds",
		Target:  &fetchDelayMinRaw,
	}
	FetchDelayMaxMSFlag = Flag{
		Name:    "fetch-delay-max-ms",
		Env:     "FETCH_DELAY_MAX_MS",
		Default: "3000",
		Usage:   "upper bound of the random pre-request delay in milliseconds",
		Target:  &fetchDelayMaxRaw,
	}
)

// Client-only flag definitions.
var (
	ServerURLFlag = Flag{
		Name:    "server-url",
		Env:     "SERVER_URL",
		Default: "http://localhost:8050",
		Usage:   "base URL of the price comparator server",
		Target:  &serverURLRaw,
	}
)

// RegisterCommandFlags registers the given flags on the command,
// seeding each default from its environment variable when set.
func RegisterCommandFlags(cmd *cobra.Command, flags []*Flag) error {
	for _, f := range flags {
		if f.Target == nil {
			return errors.Errorf("flag %s has no target", f.Name)
		}
		def := f.Default
		if v, ok := os.LookupEnv(f.Env); ok {
			def = v
		}
		cmd.PersistentFlags().StringVar(f.Target, f.Name, def, f.Usage)
	}
	return nil
}
