package cfg

import (
	"time"

	"github.com/ofirzvishaboo/mcp-server/internal"
	"github.com/ofirzvishaboo/mcp-server/internal/app/apps"
)

// ScrapeCfg is configuration for the server's scraping behaviour and
// storage paths.
type ScrapeCfg struct {
	retailersFile string
	historyPath   string
	fetchTimeout  time.Duration
	delayMin      time.Duration
	delayMax      time.Duration
}

// ScrapeFromEnv creates a new ScrapeCfg from the current environment.
func ScrapeFromEnv() *ScrapeCfg {
	return &ScrapeCfg{
		retailersFile: internal.RetailersFile,
		historyPath:   internal.HistoryPath,
		fetchTimeout:  time.Duration(internal.FetchTimeoutMS) * time.Millisecond,
		delayMin:      time.Duration(internal.FetchDelayMinMS) * time.Millisecond,
		delayMax:      time.Duration(internal.FetchDelayMaxMS) * time.Millisecond,
	}
}

// ApplyServerApp applies the ScrapeCfg to a ServerApp.
func (cfg ScrapeCfg) ApplyServerApp(app *apps.ServerApp) error {
	app.RetailersFile = cfg.retailersFile
	app.HistoryPath = cfg.historyPath
	app.FetchTimeout = cfg.fetchTimeout
	app.DelayMin = cfg.delayMin
	app.DelayMax = cfg.delayMax
	return nil
}
