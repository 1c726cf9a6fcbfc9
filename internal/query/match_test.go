package query

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Paintersrp/solosearch/internal/record"
)

func node(fields map[string]any) record.Value {
	return record.MustFromAny(fields)
}

var fleet = []record.Value{
	node(map[string]any{"name": "web1", "role": "web"}),
	node(map[string]any{"name": "db1", "role": "db"}),
	node(map[string]any{"name": "web2", "role": "web"}),
}

func names(p Predicate, records []record.Value) []string {
	var out []string
	for _, r := range records {
		if Match(p, r) {
			out = append(out, r.GetString("name"))
		}
	}
	return out
}

func TestMatchRoleScenario(t *testing.T) {
	assert.Equal(t, []string{"web1", "web2"}, names(MustParse("role:web"), fleet))
}

func TestMatchLexicographicRange(t *testing.T) {
	records := []record.Value{
		node(map[string]any{"name": "a", "role": "web"}),
		node(map[string]any{"name": "b", "role": "db"}),
		node(map[string]any{"name": "c", "role": "app"}),
	}
	assert.Equal(t, []string{"b", "c"}, names(MustParse("role:[a TO m]"), records))
}

func TestMatchEmptyQueryMatchesEverything(t *testing.T) {
	p := MustParse("")
	for _, r := range append(fleet, record.Obj(nil), record.NullValue()) {
		assert.True(t, Match(p, r))
	}
}

func TestMatchStarStarNeedsAField(t *testing.T) {
	p := MustParse("*:*")
	assert.True(t, Match(p, fleet[0]))
	assert.True(t, Match(p, node(map[string]any{"empty": ""})))
	assert.True(t, Match(p, node(map[string]any{"gone": nil})))
	assert.True(t, Match(p, node(map[string]any{"tags": []any{}})))
	assert.True(t, Match(p, node(map[string]any{"attrs": map[string]any{}})))

	assert.False(t, Match(p, record.Obj(nil)))
	assert.False(t, Match(p, record.NullValue()))
	assert.False(t, Match(p, record.Seq()))
}

func TestMatchAnyField(t *testing.T) {
	r := node(map[string]any{
		"name": "web1",
		"automatic": map[string]any{
			"ipaddress": "10.0.0.5",
			"roles":     []any{"base", "web"},
		},
	})
	assert.True(t, Match(MustParse("10.0.0.5"), r))
	assert.True(t, Match(MustParse("base"), r))
	assert.True(t, Match(MustParse("*:web"), r))
	assert.False(t, Match(MustParse("automatic"), r), "keys are not values")
	assert.False(t, Match(MustParse("db"), r))
}

func TestMatchMultiValuedFields(t *testing.T) {
	r := node(map[string]any{
		"run_list": []any{"recipe[apache2]", "role[web]"},
		"network": map[string]any{
			"interfaces": []any{
				map[string]any{"name": "eth0", "mtu": 1500},
				map[string]any{"name": "eth1", "mtu": 9000},
			},
		},
	})

	assert.True(t, Match(MustParse(`run_list:role\[web\]`), r))
	assert.True(t, Match(MustParse(`run_list:recipe\[apache*`), r))
	assert.False(t, Match(MustParse(`run_list:role\[db\]`), r))
	assert.True(t, Match(MustParse("network.interfaces.name:eth1"), r))
	assert.True(t, Match(MustParse("network.interfaces.mtu:[5000 TO 10000]"), r))
	assert.False(t, Match(MustParse("network.interfaces.mtu:[1 TO 100]"), r))
}

func TestMatchMissingAndNullFieldsDoNotMatch(t *testing.T) {
	r := node(map[string]any{"name": "web1", "owner": nil, "tags": []any{}})

	for _, q := range []string{"missing:x", "owner:*", "owner:null", "tags:*", "name.first:web1", "name:*x*"} {
		assert.False(t, Match(MustParse(q), r), q)
	}
	assert.True(t, Match(MustParse("NOT missing:x"), r))
}

func TestMatchObjectTargetsDoNotMatch(t *testing.T) {
	r := node(map[string]any{"attrs": map[string]any{"a": "1"}})
	assert.False(t, Match(MustParse("attrs:*"), r))
	assert.True(t, Match(MustParse("attrs.a:1"), r))
}

func TestMatchExactIsCaseSensitive(t *testing.T) {
	r := node(map[string]any{"role": "Web", "port": 80, "enabled": true})
	assert.False(t, Match(MustParse("role:web"), r))
	assert.True(t, Match(MustParse("role:Web"), r))
	assert.True(t, Match(MustParse("port:80"), r))
	assert.True(t, Match(MustParse("enabled:true"), r))
}

func TestWildcardSemantics(t *testing.T) {
	tests := []struct {
		pattern string
		value   string
		want    bool
	}{
		{"web*", "web", true},
		{"web*", "web-01", true},
		{"web*", "xweb", false},
		{"*web", "xweb", true},
		{"*web*", "a-web-b", true},
		{"w?b", "web", true},
		{"w?b", "wb", false},
		{"w?b", "weeb", false},
		{"web", "web", true},
		{"web", "webs", false},
		{"a.c*", "abc", false},
		{"a.c*", "a.cd", true},
		{`a\*b*`, "a*bc", true},
		{`a\*b*`, "axbc", false},
		{"*", "", true},
		{"ü?*", "üñx", true},
		{"multi*", "multi\nline", true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s~%s", tt.pattern, tt.value), func(t *testing.T) {
			assert.Equal(t, tt.want, MustWildcard(tt.pattern).MatchText(tt.value))
		})
	}
}

func TestWildcardPrefixProperty(t *testing.T) {
	prefixes := []string{"", "a", "web", "10.0", "node_", "ümlaut"}
	suffixes := []string{"", "1", "-prod", " spaced", "xyz.example.com"}
	others := []string{"b", "xweb", "9", "ode_1"}

	for _, s := range prefixes {
		w := MustWildcard(s + "*")
		for _, rest := range suffixes {
			assert.True(t, w.MatchText(s+rest), "%q should match %q", w, s+rest)
		}
		for _, o := range others {
			if len(o) >= len(s) && o[:len(s)] == s {
				continue
			}
			assert.False(t, w.MatchText(o), "%q should not match %q", w, o)
		}
	}
}

func TestRangeNumericProperty(t *testing.T) {
	bounds := [][2]float64{{0, 0}, {-10, 10}, {2, 100}, {1.5, 2.5}}
	for _, b := range bounds {
		r := Between(fmt.Sprint(b[0]), fmt.Sprint(b[1]))
		for v := b[0] - 3; v <= b[1]+3; v += 0.5 {
			want := v >= b[0] && v <= b[1]
			assert.Equal(t, want, r.MatchText(fmt.Sprint(v)), "%s against %v", r, v)
		}
	}
}

func TestRangeNumericVersusString(t *testing.T) {
	r := Between("2", "10")
	assert.True(t, r.MatchText("5"), "numeric comparison")
	assert.True(t, r.MatchText("10.0"))
	assert.False(t, r.MatchText("11"))
	// "5x" is not a number, so it is compared as a string: "5x" > "2" and
	// "5x" > "10".
	assert.False(t, r.MatchText("5x"))

	// A non-numeric bound forces string comparison even for numbers.
	assert.True(t, Between("1", "z").MatchText("5"))
	assert.False(t, Between("a", "m").MatchText("5"))

	exclusive := Range{Lo: Bound{Value: "1"}, Hi: Bound{Value: "3"}}
	assert.False(t, exclusive.MatchText("1"))
	assert.True(t, exclusive.MatchText("2"))
	assert.False(t, exclusive.MatchText("3"))

	open := Range{Lo: Bound{Open: true}, Hi: Bound{Value: "m", Inclusive: true}}
	assert.True(t, open.MatchText("app"))
	assert.True(t, open.MatchText("m"))
	assert.False(t, open.MatchText("web"))
}

func TestBooleanAlgebra(t *testing.T) {
	records := append([]record.Value{
		node(map[string]any{"name": "app1", "role": "app", "env": "prod"}),
		node(map[string]any{"name": "db2", "role": "db", "env": "dev"}),
		record.Obj(nil),
	}, fleet...)

	atoms := []string{"role:web", "name:*2", "env:prod", "missing:x", "role:[a TO m]"}
	for _, a := range atoms {
		for _, b := range atoms {
			p, q := MustParse(a), MustParse(b)
			for _, r := range records {
				assert.Equal(t, Match(p, r), Match(Not{Inner: Not{Inner: p}}, r))
				assert.Equal(t,
					Match(Not{Inner: And{Left: p, Right: q}}, r),
					Match(Or{Left: Not{Inner: p}, Right: Not{Inner: q}}, r),
				)
				assert.Equal(t,
					Match(Not{Inner: Or{Left: p, Right: q}}, r),
					Match(And{Left: Not{Inner: p}, Right: Not{Inner: q}}, r),
				)
				assert.Equal(t, Match(p, r), Match(Group{Inner: p}, r))
			}
		}
	}
}

func TestMatchPrecedence(t *testing.T) {
	assert.Equal(t, []string{"web1", "db1"}, names(MustParse("name:web1 OR role:db AND name:db*"), fleet))
	assert.Equal(t, []string{"db1"}, names(MustParse("(name:web1 OR role:db) AND name:db*"), fleet))
	assert.Equal(t, []string{"db1"}, names(MustParse("-role:web"), fleet))
	assert.Equal(t, []string{"web2"}, names(MustParse("role:web NOT name:web1"), fleet))
	assert.Equal(t, []string{"web1", "db1"}, names(MustParse("name:(web1 OR db1)"), fleet))
}

func TestMatchIsDeterministicAndConcurrent(t *testing.T) {
	p := MustParse("role:(web OR db) AND name:*1")
	want := names(p, fleet)
	require.Equal(t, []string{"web1", "db1"}, want)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.Equal(t, want, names(p, fleet))
			}
		}()
	}
	wg.Wait()
}
