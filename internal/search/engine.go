// Package search evaluates query strings against the records of a source.
package search

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Paintersrp/solosearch/internal/cache"
	"github.com/Paintersrp/solosearch/internal/query"
	"github.com/Paintersrp/solosearch/internal/record"
	"github.com/Paintersrp/solosearch/internal/source"
)

// Collection names with special meaning. Any other name is a data bag. Role
// search is always rejected.
const (
	NodeCollection = source.NodeBag
	RoleCollection = "role"
)

// Engine runs searches. It is safe for concurrent use.
type Engine struct {
	src    source.Source
	cfg    Config
	preds  *cache.LRUCache[string, query.Predicate]
	logger *zap.Logger
}

// NewEngine returns an engine reading records from src. A nil logger
// disables logging.
func NewEngine(src source.Source, cfg Config, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		src:    src,
		cfg:    cfg,
		preds:  cache.NewLRUCache[string, query.Predicate](cfg.CacheSize),
		logger: logger.Named("search"),
	}
}

// Search returns the matches of req in source order, limited to the window
// [Start, Start+Rows). A window past the last match is empty.
func (e *Engine) Search(ctx context.Context, req Request) ([]record.Value, error) {
	results := []record.Value{}
	err := e.Each(ctx, req, func(v record.Value) error {
		results = append(results, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Each calls fn for every match in the window Search would return. An error
// from fn stops iteration and is returned.
func (e *Engine) Each(ctx context.Context, req Request, fn func(record.Value) error) error {
	if req.Sort != nil {
		return &UnsupportedError{Op: "sorting search results"}
	}
	if req.Collection == RoleCollection {
		return &UnsupportedError{Op: "role search", Err: source.ErrNotImplemented}
	}
	if err := validate(req); err != nil {
		return err
	}
	if fn == nil {
		return fmt.Errorf("%w: nil callback", ErrInvalidRequest)
	}

	pred, err := e.Parse(req.Query)
	if err != nil {
		e.logger.Debug("invalid query", zap.String("query", req.Query), zap.Error(err))
		return err
	}

	records, err := e.load(ctx, req.Collection)
	if err != nil {
		return err
	}
	e.logger.Debug("loaded records",
		zap.String("collection", req.Collection),
		zap.Int("count", len(records)))

	hits, err := e.match(ctx, pred, records, req.end())
	if err != nil {
		return err
	}
	window := page(hits, req.Start, req.end())
	e.logger.Debug("matched records",
		zap.String("query", pred.String()),
		zap.Int("matches", len(hits)),
		zap.Int("returned", len(window)))

	for _, v := range window {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(v); err != nil {
			return err
		}
	}
	return nil
}

// Parse parses q, reusing the predicate of an earlier identical query.
// Failed parses are not cached.
func (e *Engine) Parse(q string) (query.Predicate, error) {
	if p, ok := e.preds.Get(q); ok {
		return p, nil
	}
	p, err := query.Parse(q)
	if err != nil {
		return nil, err
	}
	e.preds.Put(q, p)
	return p, nil
}

func validate(req Request) error {
	switch {
	case req.Collection == "":
		return fmt.Errorf("%w: collection is required", ErrInvalidRequest)
	case req.Start < 0:
		return fmt.Errorf("%w: start must not be negative, got %d", ErrInvalidRequest, req.Start)
	case req.Rows < 0:
		return fmt.Errorf("%w: rows must not be negative, got %d", ErrInvalidRequest, req.Rows)
	}
	return nil
}

func (e *Engine) load(ctx context.Context, collection string) ([]record.Value, error) {
	if collection == NodeCollection {
		records, err := e.src.Nodes(ctx)
		if err != nil {
			e.logger.Error("loading nodes", zap.Error(err))
		}
		return records, err
	}

	ids, err := e.src.DataBag(ctx, collection)
	if err != nil {
		e.logger.Error("listing data bag", zap.String("bag", collection), zap.Error(err))
		return nil, err
	}
	records := make([]record.Value, 0, len(ids))
	for _, id := range ids {
		v, err := e.src.DataBagItem(ctx, collection, id)
		if err != nil {
			e.logger.Error("loading data bag item",
				zap.String("bag", collection),
				zap.String("id", id),
				zap.Error(err))
			return nil, err
		}
		records = append(records, v)
	}
	return records, nil
}

// match returns the records satisfying pred in input order. When scanning
// sequentially it stops after limit matches; a negative limit means no limit.
func (e *Engine) match(ctx context.Context, pred query.Predicate, records []record.Value, limit int) ([]record.Value, error) {
	if e.cfg.Workers < 2 || len(records) < 2 {
		var hits []record.Value
		for _, v := range records {
			if limit >= 0 && len(hits) >= limit {
				break
			}
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if query.Match(pred, v) {
				hits = append(hits, v)
			}
		}
		return hits, nil
	}

	matched := make([]bool, len(records))
	chunk := chunkSize(len(records), e.cfg.Workers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)
	for lo := 0; lo < len(records); lo += chunk {
		lo, hi := lo, min(lo+chunk, len(records))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				matched[i] = query.Match(pred, records[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var hits []record.Value
	for i, ok := range matched {
		if ok {
			hits = append(hits, records[i])
		}
	}
	return hits, nil
}

// chunkSize splits n records into a few chunks per worker.
func chunkSize(n, workers int) int {
	size := n / (workers * 4)
	if size < 1 {
		return 1
	}
	return size
}

func page(hits []record.Value, start, end int) []record.Value {
	if start >= len(hits) {
		return nil
	}
	if end < 0 || end > len(hits) {
		end = len(hits)
	}
	return hits[start:end]
}
