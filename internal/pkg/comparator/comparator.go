package comparator

import (
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ofirzvishaboo/mcp-server/internal/pkg/retailer"
	"github.com/ofirzvishaboo/mcp-server/internal/pkg/scrape"
)

var logger logrus.FieldLogger = logrus.StandardLogger()

// Fetcher fetches one quote from one retailer.
type Fetcher interface {
	Fetch(ctx context.Context, r retailer.Retailer, product string) (scrape.Quote, error)
}

// Comparator collects quotes for a product across all registered
// retailers.
type Comparator struct {
	registry *retailer.Registry
	fetcher  Fetcher
}

// Cfg configures a Comparator.
type Cfg func(*Comparator) error

// WithRegistry sets the retailer registry.
func WithRegistry(reg *retailer.Registry) Cfg {
	return func(c *Comparator) error {
		c.registry = reg
		return nil
	}
}

// WithFetcher sets the quote fetcher.
func WithFetcher(f Fetcher) Cfg {
	return func(c *Comparator) error {
		c.fetcher = f
		return nil
	}
}

// NewComparator creates a new Comparator with the given configuration.
func NewComparator(cfgs ...Cfg) (*Comparator, error) {
	c := &Comparator{}
	for _, cfg := range cfgs {
		if err := cfg(c); err != nil {
			return nil, errors.Wrap(err, "apply Comparator cfg failed")
		}
	}
	if c.registry == nil {
		c.registry = retailer.Builtin()
	}
	if c.fetcher == nil {
		return nil, errors.New("a fetcher is required")
	}
	return c, nil
}

// Registry returns the comparator's retailer registry.
func (c *Comparator) Registry() *retailer.Registry {
	return c.registry
}

// Compare fetches quotes from every retailer concurrently and returns
// a report sorted by ascending price. Individual retailer failures are
// logged and dropped; an empty report is not an error.
func (c *Comparator) Compare(ctx context.Context, product string) (Report, error) {
	if product == "" {
		return Report{}, errors.New("product name is required")
	}

	all := c.registry.All()
	out := make(chan scrape.Quote, len(all))
	var wg sync.WaitGroup
	wg.Add(len(all))
	for _, r := range all {
		go func(r retailer.Retailer) {
			defer wg.Done()
			q, err := c.fetcher.Fetch(ctx, r, product)
			if err != nil {
				logger.WithError(err).WithFields(logrus.Fields{
					"retailer": r.Key,
					"product":  product,
				}).Warning("fetch quote failed")
				return
			}
			out <- q
		}(r)
	}
	wg.Wait()
	close(out)

	quotes := make([]scrape.Quote, 0, len(all))
	for q := range out {
		quotes = append(quotes, q)
	}
	sort.Slice(quotes, func(i, j int) bool {
		return quotes[i].Price.LessThan(quotes[j].Price)
	})
	return Report{Product: product, Quotes: quotes}, nil
}
