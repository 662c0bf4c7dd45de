package comparator

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ofirzvishaboo/mcp-server/internal/pkg/scrape"
)

// Report is the outcome of one comparison run. Quotes are sorted by
// ascending price.
type Report struct {
	Product string         `json:"product"`
	Quotes  []scrape.Quote `json:"quotes"`
}

// Empty reports whether no retailer produced a quote.
func (r Report) Empty() bool {
	return len(r.Quotes) == 0
}

// Best returns the cheapest quote. Callers must check Empty first.
func (r Report) Best() scrape.Quote {
	return r.Quotes[0]
}

// String renders the report in the comparator's text format.
func (r Report) String() string {
	if r.Empty() {
		return fmt.Sprintf("No prices found for %s", r.Product)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Price Comparison for: %s\n\n", r.Product)
	b.WriteString("Best Prices:\n")
	for i, q := range r.Quotes {
		fmt.Fprintf(&b, "\n%d. %s:\n", i+1, title(q.Retailer))
		fmt.Fprintf(&b, "   Product: %s\n", q.Product)
		fmt.Fprintf(&b, "   Price: $%s\n", q.Price.StringFixed(2))
		fmt.Fprintf(&b, "   URL: %s\n", q.URL)
	}

	best := r.Best()
	worst := r.Quotes[len(r.Quotes)-1]
	fmt.Fprintf(&b, "\nBest Deal: %s at $%s\n", title(best.Retailer), best.Price.StringFixed(2))
	fmt.Fprintf(&b, "Price Range: $%s - $%s\n", best.Price.StringFixed(2), worst.Price.StringFixed(2))
	fmt.Fprintf(&b, "Number of stores compared: %d\n", len(r.Quotes))
	return b.String()
}

// title upper-cases the first letter of each word.
func title(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
