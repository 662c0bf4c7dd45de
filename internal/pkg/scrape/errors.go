package scrape

import "github.com/pkg/errors"

// ErrBadStatus indicates the retailer answered with a non-200 status.
var ErrBadStatus = errors.New("unexpected response status")

// ErrElementNotFound indicates a selector matched nothing on the page.
var ErrElementNotFound = errors.New("selector matched no element")

// ErrPriceUnparsable indicates the price text could not be read as a number.
var ErrPriceUnparsable = errors.New("price text not parsable")
