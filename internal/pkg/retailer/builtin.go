package retailer

// defaultHeaders imitate a desktop browser; the sites return stripped
// or blocked pages to clients that do not look like one.
var defaultHeaders = map[string]string{
	"User-Agent":                "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8",
	"Accept-Language":           "en-US,en;q=0.9",
	"Accept-Encoding":           "gzip, deflate, br",
	"Connection":                "keep-alive",
	"Upgrade-Insecure-Requests": "1",
	"Sec-Fetch-Dest":            "document",
	"Sec-Fetch-Mode":            "navigate",
	"Sec-Fetch-Site":            "none",
	"Sec-Fetch-User":            "?1",
	"Cache-Control":             "max-age=0",
}

// Builtin returns the registry of retailers supported out of the box.
func Builtin() *Registry {
	reg, err := NewRegistry(
		Retailer{
			Key:           "amazon",
			SearchURL:     "https://www.amazon.com/s?k={}",
			PriceSelector: Selector{Class: "a-price-whole"},
			NameSelector:  Selector{Class: "a-size-medium"},
		},
		Retailer{
			Key:           "bestbuy",
			SearchURL:     "https://www.bestbuy.com/site/searchpage.jsp?st={}",
			PriceSelector: Selector{Class: "priceView-customer-price"},
			NameSelector:  Selector{Tag: "h4", Attrs: map[string]string{"class": "sku-title"}},
		},
		Retailer{
			Key:           "newegg",
			SearchURL:     "https://www.newegg.com/p/pl?d={}",
			PriceSelector: Selector{Class: "price-current"},
			NameSelector:  Selector{Tag: "a", Attrs: map[string]string{"class": "item-title"}},
		},
	)
	if err != nil {
		// The builtin set is static; a validation failure here is a bug.
		panic(err)
	}
	return reg
}
