package source

import (
	"context"
	"io/fs"
	"sort"
	"sync"

	"github.com/Paintersrp/solosearch/internal/record"
)

// Memory is a Source backed by records held in memory. Nodes keep the order
// they were added in; data bag items are ordered by id.
type Memory struct {
	mu    sync.RWMutex
	nodes []record.Value
	bags  map[string]map[string]record.Value
}

func NewMemory() *Memory {
	return &Memory{bags: make(map[string]map[string]record.Value)}
}

func (m *Memory) AddNode(v record.Value) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nodes = append(m.nodes, v)
	return m
}

// AddItem stores v as item id of bag, creating the bag if needed.
func (m *Memory) AddItem(bag, id string, v record.Value) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	items, ok := m.bags[bag]
	if !ok {
		items = make(map[string]record.Value)
		m.bags[bag] = items
	}
	items[id] = v
	return m
}

func (m *Memory) Nodes(ctx context.Context) ([]record.Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]record.Value(nil), m.nodes...), nil
}

func (m *Memory) Roles(context.Context) ([]record.Value, error) {
	return nil, &Error{Collection: "role", Err: ErrNotImplemented}
}

func (m *Memory) DataBags(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.bags))
	for name := range m.bags {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (m *Memory) DataBag(ctx context.Context, bag string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	items, ok := m.bags[bag]
	if !ok {
		return nil, &Error{Collection: bag, Err: fs.ErrNotExist}
	}
	ids := make([]string, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *Memory) DataBagItem(ctx context.Context, bag, id string) (record.Value, error) {
	if err := ctx.Err(); err != nil {
		return record.Value{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.bags[bag][id]
	if !ok {
		return record.Value{}, &Error{Collection: bag, Item: id, Err: fs.ErrNotExist}
	}
	return v, nil
}
