package source

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Paintersrp/solosearch/internal/record"
)

func writeItem(t testing.TB, fsys afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, fsys.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0o644))
}

func newFixture(t *testing.T) *FS {
	t.Helper()
	fsys := afero.NewMemMapFs()
	root := "/chef/data_bags"

	writeItem(t, fsys, filepath.Join(root, "node", "web1.json"), `{"name":"web1","role":"web"}`)
	writeItem(t, fsys, filepath.Join(root, "node", "db1.json"), `{"name":"db1","role":"db"}`)
	writeItem(t, fsys, filepath.Join(root, "node", "README.md"), `ignored`)
	writeItem(t, fsys, filepath.Join(root, "users", "bob.json"), `{"id":"bob","uid":1001}`)
	writeItem(t, fsys, filepath.Join(root, "users", "alice.yml"), "id: alice\nuid: 1000\ngroups: [admin, dev]\n")
	writeItem(t, fsys, filepath.Join(root, "users", "alice.json"), `{"id":"alice-json"}`)
	writeItem(t, fsys, filepath.Join(root, "broken", "bad.json"), `{"id":`)
	require.NoError(t, fsys.MkdirAll(filepath.Join(root, "empty"), 0o755))
	require.NoError(t, fsys.MkdirAll(filepath.Join(root, ".git"), 0o755))

	return NewFS(fsys, root, nil)
}

func TestFSDataBags(t *testing.T) {
	src := newFixture(t)

	bags, err := src.DataBags(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"broken", "empty", "users"}, bags)
}

func TestFSDataBagListsSortedUniqueIDs(t *testing.T) {
	src := newFixture(t)

	ids, err := src.DataBag(context.Background(), "users")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, ids)

	ids, err = src.DataBag(context.Background(), "empty")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestFSDataBagItemPrefersJSON(t *testing.T) {
	src := newFixture(t)

	v, err := src.DataBagItem(context.Background(), "users", "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice-json", v.GetString("id"))

	v, err = src.DataBagItem(context.Background(), "users", "bob")
	require.NoError(t, err)
	uid, ok := v.Field("uid")
	require.True(t, ok)
	assert.Equal(t, record.Number, uid.Kind())
}

func TestFSNodesInIDOrder(t *testing.T) {
	src := newFixture(t)

	nodes, err := src.Nodes(context.Background())
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, "db1", nodes[0].GetString("name"))
	assert.Equal(t, "web1", nodes[1].GetString("name"))
}

func TestFSNodesMissingDirectoryIsEmpty(t *testing.T) {
	src := NewFS(afero.NewMemMapFs(), "/nowhere", nil)

	nodes, err := src.Nodes(context.Background())
	require.NoError(t, err)
	assert.Empty(t, nodes)
}

func TestFSErrors(t *testing.T) {
	src := newFixture(t)
	ctx := context.Background()

	_, err := src.DataBag(ctx, "missing")
	var serr *Error
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, "missing", serr.Collection)
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	_, err = src.DataBagItem(ctx, "users", "carol")
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	_, err = src.DataBagItem(ctx, "broken", "bad")
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, "broken", serr.Collection)
	assert.Equal(t, "bad", serr.Item)
	assert.Contains(t, err.Error(), "broken/bad")

	for _, name := range []string{"", "..", "../etc", `a\b`} {
		_, err = src.DataBag(ctx, name)
		assert.True(t, errors.Is(err, ErrInvalidName), "bag %q", name)
	}
	_, err = src.DataBagItem(ctx, "users", "../node/web1")
	assert.True(t, errors.Is(err, ErrInvalidName))

	_, err = src.Roles(ctx)
	assert.True(t, errors.Is(err, ErrNotImplemented))
}

func TestFSHonoursCancelledContext(t *testing.T) {
	src := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.Nodes(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemorySource(t *testing.T) {
	m := NewMemory().
		AddNode(record.MustFromAny(map[string]any{"name": "b"})).
		AddNode(record.MustFromAny(map[string]any{"name": "a"})).
		AddItem("users", "zed", record.MustFromAny(map[string]any{"id": "zed"})).
		AddItem("users", "amy", record.MustFromAny(map[string]any{"id": "amy"}))
	ctx := context.Background()

	nodes, err := m.Nodes(ctx)
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, "b", nodes[0].GetString("name"))

	bags, err := m.DataBags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"users"}, bags)

	ids, err := m.DataBag(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, []string{"amy", "zed"}, ids)

	_, err = m.DataBag(ctx, "nope")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = m.DataBagItem(ctx, "users", "nope")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = m.Roles(ctx)
	assert.ErrorIs(t, err, ErrNotImplemented)
}
