package apps

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ofirzvishaboo/mcp-server/internal"
	"github.com/ofirzvishaboo/mcp-server/internal/pkg/comparator"
	"github.com/ofirzvishaboo/mcp-server/internal/pkg/history"
	"github.com/ofirzvishaboo/mcp-server/internal/pkg/retailer"
	"github.com/ofirzvishaboo/mcp-server/internal/pkg/scrape"
	"github.com/ofirzvishaboo/mcp-server/internal/pkg/server"
	"github.com/ofirzvishaboo/mcp-server/internal/pkg/validate"
)

var logger logrus.FieldLogger = logrus.StandardLogger()

// ServerAppCfg configures a ServerApp.
type ServerAppCfg interface {
	ApplyServerApp(*ServerApp) error
}

// ServerApp is the price comparator server application.
type ServerApp struct {
	Host string `validate:"required"`
	Port uint16 `validate:"required"`

	RetailersFile string
	HistoryPath   string

	FetchTimeout time.Duration `validate:"required"`
	DelayMin     time.Duration
	DelayMax     time.Duration
}

// NewServerApp creates a new ServerApp.
func NewServerApp(cfgs ...ServerAppCfg) (*ServerApp, error) {
	app := &ServerApp{}
	for _, cfg := range cfgs {
		if err := cfg.ApplyServerApp(app); err != nil {
			return nil, errors.Wrap(err, "apply ServerApp cfg failed")
		}
	}
	if app.Host == "" {
		app.Host = internal.Host
	}
	if app.Port == 0 {
		app.Port = uint16(internal.Port)
	}
	if app.FetchTimeout == 0 {
		app.FetchTimeout = scrape.DefaultFetchTimeout
	}
	if err := validate.Validate().Struct(app); err != nil {
		return nil, errors.Wrap(err, "validate ServerApp failed")
	}
	return app, nil
}

// Run serves MCP over SSE until the context is cancelled or the
// listener fails. The bound port is held for the whole process
// lifetime; a failure to bind is fatal.
func (app *ServerApp) Run(ctx context.Context, _ []string) error {
	registry, err := retailer.LoadFile(app.RetailersFile)
	if err != nil {
		return errors.Wrap(err, "load retailer registry failed")
	}

	scraper, err := scrape.NewScraper(
		scrape.WithTimeout(app.FetchTimeout),
		scrape.WithDelay(app.DelayMin, app.DelayMax),
	)
	if err != nil {
		return errors.Wrap(err, "create scraper failed")
	}

	comp, err := comparator.NewComparator(
		comparator.WithRegistry(registry),
		comparator.WithFetcher(scraper),
	)
	if err != nil {
		return errors.Wrap(err, "create comparator failed")
	}

	var store history.Store
	if app.HistoryPath == "" {
		store = history.NewMemoryStore()
	} else {
		store, err = history.NewSQLiteStore(app.HistoryPath)
		if err != nil {
			return errors.Wrap(err, "open history store failed")
		}
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.WithError(err).Warning("close history store failed")
		}
	}()

	srv, err := server.NewServer(
		server.WithComparator(comp),
		server.WithHistoryStore(store),
	)
	if err != nil {
		return errors.Wrap(err, "create server failed")
	}

	logger.WithFields(logrus.Fields{
		"retailers": registry.Keys(),
		"port":      app.Port,
	}).Info("running Tech Price Comparator server with SSE transport")
	addr := fmt.Sprintf("%s:%d", app.Host, app.Port)
	return errors.Wrap(srv.ServeSSE(ctx, addr), "serve failed")
}
