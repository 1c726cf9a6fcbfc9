// Package source loads the records a search runs over: nodes, roles and the
// items of named data bags.
package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/Paintersrp/solosearch/internal/record"
)

// ErrNotImplemented is returned for collections a source cannot serve.
var ErrNotImplemented = errors.New("not implemented")

// ErrInvalidName is returned for bag or item names that could escape the
// data bag directory.
var ErrInvalidName = errors.New("invalid name")

// Source supplies records for a search. Implementations return records in a
// stable order; search results preserve it.
type Source interface {
	Nodes(ctx context.Context) ([]record.Value, error)
	Roles(ctx context.Context) ([]record.Value, error)
	// DataBags lists the available data bag names.
	DataBags(ctx context.Context) ([]string, error)
	// DataBag lists the item ids stored in bag.
	DataBag(ctx context.Context, bag string) ([]string, error)
	DataBagItem(ctx context.Context, bag, id string) (record.Value, error)
}

// Error describes a failure to enumerate or load records.
type Error struct {
	Collection string
	Item       string
	Err        error
}

func (e *Error) Error() string {
	if e.Item == "" {
		return fmt.Sprintf("source: %s: %v", e.Collection, e.Err)
	}
	return fmt.Sprintf("source: %s/%s: %v", e.Collection, e.Item, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
