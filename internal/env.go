package internal

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Typed configuration values, populated by ValidateEnv.
var (
	LogLevel      string
	Host          string
	Port          int
	RetailersFile string
	HistoryPath   string

	FetchTimeoutMS  int
	FetchDelayMinMS int
	FetchDelayMaxMS int

	ServerURL string
)

// ValidateEnv parses the raw flag values into their typed counterparts
// and checks them. It must be called after flag parsing and before any
// app is constructed.
func ValidateEnv() error {
	LogLevel = strings.ToLower(logLevelRaw)
	Host = hostRaw
	RetailersFile = retailersFileRaw
	HistoryPath = historyPathRaw
	ServerURL = strings.TrimRight(serverURLRaw, "/")

	var err error
	Port, err = parseBounded("port", portRaw, 1, 65535)
	if err != nil {
		return err
	}
	FetchTimeoutMS, err = parseBounded("fetch timeout", fetchTimeoutRaw, 1, 10*60*1000)
	if err != nil {
		return err
	}
	FetchDelayMinMS, err = parseBounded("fetch delay min", fetchDelayMinRaw, 0, 60*1000)
	if err != nil {
		return err
	}
	FetchDelayMaxMS, err = parseBounded("fetch delay max", fetchDelayMaxRaw, 0, 60*1000)
	if err != nil {
		return err
	}
	if FetchDelayMaxMS < FetchDelayMinMS {
		return errors.New("fetch delay max must not be less than fetch delay min")
	}
	return nil
}

func parseBounded(name, raw string, min, max int) (int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Wrapf(err, "parse %s failed", name)
	}
	if v < min || v > max {
		return 0, errors.Errorf("%s must be in range [%d, %d], got %d", name, min, max, v)
	}
	return v, nil
}
