package search

import (
	"math"
	"runtime"
)

// DefaultRows is the page size used when a request does not set one.
const DefaultRows = 1000

// Config tunes how an Engine evaluates requests.
type Config struct {
	// Workers bounds the number of goroutines matching records. Values below
	// two match sequentially.
	Workers int
	// CacheSize is the number of parsed queries kept for reuse. Zero disables
	// the cache.
	CacheSize int
}

func DefaultConfig() Config {
	return Config{
		Workers:   runtime.NumCPU(),
		CacheSize: 128,
	}
}

// Request describes a single search.
type Request struct {
	// Collection is "node", "role" or the name of a data bag.
	Collection string
	// Query is a query string; empty matches every record.
	Query string
	// Sort is accepted for compatibility. Any non-nil value, the empty
	// string included, is rejected.
	Sort  *string
	Start int
	Rows  int
}

// NewRequest returns a request for the first DefaultRows matches.
func NewRequest(collection, query string) Request {
	return Request{Collection: collection, Query: query, Rows: DefaultRows}
}

// end returns the exclusive index of the last requested match, or -1 when
// start+rows overflows.
func (r Request) end() int {
	if r.Rows > math.MaxInt-r.Start {
		return -1
	}
	return r.Start + r.Rows
}
