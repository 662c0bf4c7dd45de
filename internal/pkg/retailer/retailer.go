// Package retailer defines the catalogue of shopping sites the
// comparator can scrape, and how to locate a product name and price
// in each site's search results page.
package retailer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Selector locates an element on a results page. Either CSS holds a
// full CSS selector, or the structured fields (Tag, Class, ID, Attrs)
// are compiled into one.
type Selector struct {
	CSS   string            `yaml:"css,omitempty"`
	Tag   string            `yaml:"tag,omitempty"`
	Class string            `yaml:"class,omitempty"`
	ID    string            `yaml:"id,omitempty"`
	Attrs map[string]string `yaml:"attrs,omitempty"`
}

// Query returns the goquery selector string for this Selector.
func (s Selector) Query() string {
	if s.CSS != "" {
		return s.CSS
	}
	var b strings.Builder
	b.WriteString(s.Tag)
	for _, class := range strings.Fields(s.Class) {
		b.WriteString("." + class)
	}
	if s.ID != "" {
		b.WriteString("#" + s.ID)
	}
	// Attr keys are sorted so the query is deterministic.
	keys := make([]string, 0, len(s.Attrs))
	for k := range s.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if k == "class" {
			for _, class := range strings.Fields(s.Attrs[k]) {
				b.WriteString("." + class)
			}
			continue
		}
		fmt.Fprintf(&b, "[%s=%q]", k, s.Attrs[k])
	}
	return b.String()
}

func (s Selector) empty() bool {
	return s.CSS == "" && s.Tag == "" && s.Class == "" && s.ID == "" && len(s.Attrs) == 0
}

// Retailer describes one shopping site.
type Retailer struct {
	Key           string            `yaml:"key"`
	SearchURL     string            `yaml:"search_url"`
	PriceSelector Selector          `yaml:"price_selector"`
	NameSelector  Selector          `yaml:"name_selector"`
	Headers       map[string]string `yaml:"headers,omitempty"`
}

// SearchFor substitutes the product query into the search URL
// template. Spaces become plus signs, matching what the sites expect
// in their search query strings.
func (r Retailer) SearchFor(product string) string {
	q := strings.ReplaceAll(strings.TrimSpace(product), " ", "+")
	return strings.Replace(r.SearchURL, "{}", q, 1)
}

func (r Retailer) validate() error {
	if r.Key == "" {
		return errors.New("retailer key is required")
	}
	if !strings.Contains(r.SearchURL, "{}") {
		return errors.Errorf("retailer %s search_url must contain a {} placeholder", r.Key)
	}
	if r.PriceSelector.empty() {
		return errors.Errorf("retailer %s has no price selector", r.Key)
	}
	if r.NameSelector.empty() {
		return errors.Errorf("retailer %s has no name selector", r.Key)
	}
	return nil
}

// Registry is an immutable set of retailers keyed by name.
type Registry struct {
	retailers map[string]Retailer
}

// NewRegistry builds a Registry from the given retailers.
func NewRegistry(retailers ...Retailer) (*Registry, error) {
	reg := &Registry{retailers: make(map[string]Retailer, len(retailers))}
	for _, r := range retailers {
		if err := r.validate(); err != nil {
			return nil, errors.Wrap(err, "validate retailer failed")
		}
		if _, ok := reg.retailers[r.Key]; ok {
			return nil, errors.Errorf("duplicate retailer key %s", r.Key)
		}
		if r.Headers == nil {
			r.Headers = defaultHeaders
		}
		reg.retailers[r.Key] = r
	}
	return reg, nil
}

// Get returns the retailer with the given key.
func (reg *Registry) Get(key string) (Retailer, bool) {
	r, ok := reg.retailers[key]
	return r, ok
}

// Keys returns the retailer keys in sorted order.
func (reg *Registry) Keys() []string {
	keys := make([]string, 0, len(reg.retailers))
	for k := range reg.retailers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// All returns the retailers sorted by key.
func (reg *Registry) All() []Retailer {
	all := make([]Retailer, 0, len(reg.retailers))
	for _, k := range reg.Keys() {
		all = append(all, reg.retailers[k])
	}
	return all
}

// Len returns the number of retailers in the registry.
func (reg *Registry) Len() int {
	return len(reg.retailers)
}
