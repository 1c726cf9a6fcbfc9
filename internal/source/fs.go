package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/Paintersrp/solosearch/internal/record"
)

// NodeBag is the directory under the data bag root that holds node records.
const NodeBag = "node"

// Item file extensions in lookup order.
var itemExtensions = []string{".json", ".yaml", ".yml"}

// FS reads records from a data bag tree:
//
//	<root>/<bag>/<id>.json
//	<root>/node/<name>.json
//
// YAML items (.yaml, .yml) are accepted next to JSON ones.
type FS struct {
	fs     afero.Fs
	root   string
	logger *zap.Logger
}

// NewFS returns a source rooted at root on fsys. A nil logger disables
// logging.
func NewFS(fsys afero.Fs, root string, logger *zap.Logger) *FS {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FS{
		fs:     fsys,
		root:   filepath.Clean(root),
		logger: logger.Named("source"),
	}
}

// Root returns the data bag directory.
func (s *FS) Root() string { return s.root }

// Nodes loads every node record. A missing node directory yields no nodes.
func (s *FS) Nodes(ctx context.Context) ([]record.Value, error) {
	ids, err := s.DataBag(ctx, NodeBag)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("no node directory", zap.String("root", s.root))
			return nil, nil
		}
		return nil, err
	}
	return s.loadAll(ctx, NodeBag, ids)
}

// Roles is not supported by the data bag layout.
func (s *FS) Roles(context.Context) ([]record.Value, error) {
	return nil, &Error{Collection: "role", Err: ErrNotImplemented}
}

func (s *FS) DataBags(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := afero.ReadDir(s.fs, s.root)
	if err != nil {
		return nil, &Error{Collection: s.root, Err: err}
	}

	var bags []string
	for _, e := range entries {
		if !e.IsDir() || e.Name() == NodeBag || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		bags = append(bags, e.Name())
	}
	return bags, nil
}

func (s *FS) DataBag(ctx context.Context, bag string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validName(bag); err != nil {
		return nil, &Error{Collection: bag, Err: err}
	}

	entries, err := afero.ReadDir(s.fs, filepath.Join(s.root, bag))
	if err != nil {
		return nil, &Error{Collection: bag, Err: err}
	}

	seen := make(map[string]struct{}, len(entries))
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := path.Ext(e.Name())
		if !isItemExtension(ext) {
			continue
		}
		id := strings.TrimSuffix(e.Name(), ext)
		if _, dup := seen[id]; dup || id == "" {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *FS) DataBagItem(ctx context.Context, bag, id string) (record.Value, error) {
	if err := ctx.Err(); err != nil {
		return record.Value{}, err
	}
	if err := validName(bag); err != nil {
		return record.Value{}, &Error{Collection: bag, Item: id, Err: err}
	}
	if err := validName(id); err != nil {
		return record.Value{}, &Error{Collection: bag, Item: id, Err: err}
	}

	for _, ext := range itemExtensions {
		p := filepath.Join(s.root, bag, id+ext)
		data, err := afero.ReadFile(s.fs, p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return record.Value{}, &Error{Collection: bag, Item: id, Err: err}
		}

		v, err := decode(ext, data)
		if err != nil {
			return record.Value{}, &Error{Collection: bag, Item: id, Err: fmt.Errorf("parse %s: %w", p, err)}
		}
		return v, nil
	}
	return record.Value{}, &Error{Collection: bag, Item: id, Err: fs.ErrNotExist}
}

func (s *FS) loadAll(ctx context.Context, bag string, ids []string) ([]record.Value, error) {
	out := make([]record.Value, 0, len(ids))
	for _, id := range ids {
		v, err := s.DataBagItem(ctx, bag, id)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func decode(ext string, data []byte) (record.Value, error) {
	if ext == ".json" {
		return record.DecodeJSON(data)
	}
	return record.DecodeYAML(data)
}

func isItemExtension(ext string) bool {
	for _, e := range itemExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

func validName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return fmt.Errorf("%w %q", ErrInvalidName, name)
	}
	return nil
}
