package scrape

import (
	"context"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/ofirzvishaboo/mcp-server/internal/pkg/retailer"
)

var logger logrus.FieldLogger = logrus.StandardLogger()

// Quote is one price observation for a product at a retailer.
// JSON field names match the report snapshots stored in history.
type Quote struct {
	Retailer  string          `json:"website"`
	Product   string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	URL       string          `json:"url"`
	Timestamp time.Time       `json:"timestamp"`
}

// DefaultFetchTimeout bounds a single retailer request.
const DefaultFetchTimeout = 10 * time.Second

// Scraper fetches product quotes from retailer search pages.
type Scraper struct {
	client   *http.Client
	timeout  time.Duration
	delayMin time.Duration
	delayMax time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// Cfg configures a Scraper.
type Cfg func(*Scraper) error

// WithHTTPClient sets the HTTP client used for fetches.
func WithHTTPClient(c *http.Client) Cfg {
	return func(s *Scraper) error {
		s.client = c
		return nil
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Cfg {
	return func(s *Scraper) error {
		s.timeout = d
		return nil
	}
}

// WithDelay sets the random pre-request delay range. A zero max
// disables the delay entirely.
func WithDelay(min, max time.Duration) Cfg {
	return func(s *Scraper) error {
		if min < 0 || max < min {
			return errors.New("invalid delay range")
		}
		s.delayMin = min
		s.delayMax = max
		return nil
	}
}

// NewScraper creates a new Scraper with the given configuration.
func NewScraper(cfgs ...Cfg) (*Scraper, error) {
	s := &Scraper{
		timeout:  DefaultFetchTimeout,
		delayMin: time.Second,
		delayMax: 3 * time.Second,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())), // nolint: gosec // jitter, not crypto
	}
	for _, cfg := range cfgs {
		if err := cfg(s); err != nil {
			return nil, errors.Wrap(err, "apply Scraper cfg failed")
		}
	}
	if s.client == nil {
		s.client = NewHTTPClient(DefaultClientConfig())
	}
	return s, nil
}

// Fetch retrieves the first matching quote for the product from the
// retailer's search results page.
func (s *Scraper) Fetch(ctx context.Context, r retailer.Retailer, product string) (Quote, error) {
	if err := s.sleep(ctx); err != nil {
		return Quote{}, errors.Wrap(err, "pre-request delay interrupted")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	url := r.SearchFor(product)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Quote{}, errors.Wrapf(err, "build request for %s failed", r.Key)
	}
	for k, v := range r.Headers {
		// The transport negotiates and decodes gzip itself; forcing the
		// original browser value would leave the body compressed.
		if http.CanonicalHeaderKey(k) == "Accept-Encoding" {
			continue
		}
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return Quote{}, errors.Wrapf(err, "fetch %s failed", r.Key)
	}
	defer resp.Body.Close() // nolint: errcheck

	if resp.StatusCode != http.StatusOK {
		return Quote{}, errors.Wrapf(ErrBadStatus, "%s returned %d", r.Key, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return Quote{}, errors.Wrapf(err, "parse %s page failed", r.Key)
	}

	priceSel := doc.Find(r.PriceSelector.Query()).First()
	nameSel := doc.Find(r.NameSelector.Query()).First()
	if priceSel.Length() == 0 || nameSel.Length() == 0 {
		return Quote{}, errors.Wrapf(ErrElementNotFound, "retailer %s", r.Key)
	}

	price, err := ParsePrice(priceSel.Text())
	if err != nil {
		return Quote{}, errors.Wrapf(err, "parse %s price failed", r.Key)
	}

	quote := Quote{
		Retailer:  r.Key,
		Product:   strings.TrimSpace(nameSel.Text()),
		Price:     price,
		URL:       url,
		Timestamp: time.Now().UTC(),
	}
	logger.WithFields(QuoteToFields(quote)).Debug("fetched quote")
	return quote, nil
}

// sleep waits for a random duration in the configured delay range,
// or until the context is cancelled.
func (s *Scraper) sleep(ctx context.Context) error {
	if s.delayMax == 0 {
		return nil
	}
	d := s.delayMin
	if span := s.delayMax - s.delayMin; span > 0 {
		s.mu.Lock()
		d += time.Duration(s.rng.Int63n(int64(span)))
		s.mu.Unlock()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// QuoteToFields renders a quote as logrus fields.
func QuoteToFields(q Quote) logrus.Fields {
	return logrus.Fields{
		"retailer": q.Retailer,
		"product":  q.Product,
		"price":    q.Price.StringFixed(2),
		"url":      q.URL,
	}
}
