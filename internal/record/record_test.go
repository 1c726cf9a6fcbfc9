package record

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func collect(t *testing.T, v Value, path string) []string {
	t.Helper()
	var out []string
	v.Lookup(ParsePath(path), func(c Value) bool {
		out = append(out, c.String())
		return false
	})
	return out
}

func TestDecodeJSONKeepsNumberText(t *testing.T) {
	v, err := DecodeJSON([]byte(`{"port": 80, "ratio": 1.50, "big": 12345678901234567890}`))
	require.NoError(t, err)

	port, ok := v.Field("port")
	require.True(t, ok)
	assert.Equal(t, Number, port.Kind())
	assert.Equal(t, "80", port.String())

	ratio, _ := v.Field("ratio")
	assert.Equal(t, "1.50", ratio.String())

	big, _ := v.Field("big")
	assert.Equal(t, "12345678901234567890", big.String())
}

func TestDecodeJSONRejectsTrailingData(t *testing.T) {
	_, err := DecodeJSON([]byte(`{"a": 1} {"b": 2}`))
	require.Error(t, err)

	_, err = DecodeJSON([]byte(`{"a": `))
	require.Error(t, err)
}

func TestDecodeYAMLScalarsAndAliases(t *testing.T) {
	src := `
base: &base
  env: prod
  tier: 2
name: web1
enabled: true
missing: ~
server:
  <<: *base
  tier: 3
tags: [a, b]
`
	v, err := DecodeYAML([]byte(src))
	require.NoError(t, err)

	enabled, _ := v.Field("enabled")
	assert.Equal(t, Bool, enabled.Kind())
	assert.Equal(t, "true", enabled.String())

	missing, _ := v.Field("missing")
	assert.Equal(t, Null, missing.Kind())

	assert.Equal(t, []string{"prod"}, collect(t, v, "server.env"))
	assert.Equal(t, []string{"3"}, collect(t, v, "server.tier"))
	assert.Equal(t, []string{"a", "b"}, collect(t, v, "tags"))
}

func TestDecodeYAMLMergesSequenceOfAliases(t *testing.T) {
	src := `
base: &base
  env: prod
  tier: 2
extra: &extra
  env: staging
  zone: eu
node:
  <<: [*base, *extra]
  name: web1
  tier: 3
`
	v, err := DecodeYAML([]byte(src))
	require.NoError(t, err)

	n, ok := v.Field("node")
	require.True(t, ok)
	assert.Equal(t, []string{"env", "name", "tier", "zone"}, n.Keys())
	assert.Equal(t, []string{"prod"}, collect(t, v, "node.env"))
	assert.Equal(t, []string{"3"}, collect(t, v, "node.tier"))
	assert.Equal(t, []string{"eu"}, collect(t, v, "node.zone"))
}

func TestDecodeYAMLEmptyDocumentIsNull(t *testing.T) {
	v, err := DecodeYAML([]byte(""))
	require.NoError(t, err)
	assert.Equal(t, Null, v.Kind())
}

func TestLookupFansOutThroughSequences(t *testing.T) {
	v := MustFromAny(map[string]any{
		"interfaces": []any{
			map[string]any{"name": "eth0", "addrs": []any{"10.0.0.1", "10.0.0.2"}},
			map[string]any{"name": "lo", "addrs": []any{"127.0.0.1"}},
			"not-an-object",
		},
		"nested": []any{[]any{"x", "y"}, "z"},
	})

	assert.Equal(t, []string{"eth0", "lo"}, collect(t, v, "interfaces.name"))
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2", "127.0.0.1"}, collect(t, v, "interfaces.addrs"))
	assert.Equal(t, []string{"x", "y", "z"}, collect(t, v, "nested"))
	assert.Empty(t, collect(t, v, "interfaces.name.first"))
	assert.Empty(t, collect(t, v, "absent"))
}

func TestLookupStopsAtFirstHit(t *testing.T) {
	v := MustFromAny(map[string]any{"roles": []any{"a", "b", "c"}})
	calls := 0
	hit := v.Lookup(ParsePath("roles"), func(c Value) bool {
		calls++
		s, _ := c.Text()
		return s == "b"
	})
	assert.True(t, hit)
	assert.Equal(t, 2, calls)
}

func TestScalarsSkipsNulls(t *testing.T) {
	v := MustFromAny(map[string]any{
		"a": nil,
		"b": []any{nil, map[string]any{"c": "deep"}},
	})

	var seen []string
	v.Scalars(func(c Value) bool {
		seen = append(seen, c.String())
		return false
	})
	assert.Equal(t, []string{"deep"}, seen)

	assert.False(t, Obj(nil).Scalars(func(Value) bool { return true }))
}

func TestMarshalRoundTripsNumbers(t *testing.T) {
	v, err := DecodeJSON([]byte(`{"id":"web1","port":8080,"weights":[1.0,2],"ok":false,"none":null}`))
	require.NoError(t, err)

	data, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"web1","port":8080,"weights":[1.0,2],"ok":false,"none":null}`, string(data))

	out, err := yaml.Marshal(v)
	require.NoError(t, err)
	back, err := DecodeYAML(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"8080"}, collect(t, back, "port"))
	assert.Equal(t, []string{"1.0", "2"}, collect(t, back, "weights"))
	assert.Equal(t, "web1", back.GetString("id"))
}

func TestFromAnyRejectsUnknownTypes(t *testing.T) {
	_, err := FromAny(map[string]any{"ch": make(chan int)})
	require.Error(t, err)
}
