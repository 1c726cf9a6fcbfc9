package query

import (
	"math"
	"regexp"
	"strings"
	"unicode"

	"github.com/spf13/cast"
)

// Matcher decides whether one stringified scalar satisfies a term.
type Matcher interface {
	MatchText(s string) bool
	String() string
}

// Exact matches values equal to Value, case-sensitively.
type Exact struct {
	Value string
}

func (e Exact) MatchText(s string) bool { return s == e.Value }

func (e Exact) String() string {
	if e.Value == "" || strings.IndexFunc(e.Value, unicode.IsSpace) >= 0 {
		return quotePhrase(e.Value)
	}
	return escapeTerm(e.Value, "")
}

// Wildcard matches values against a glob where '*' is any run of characters
// and '?' is exactly one. The pattern is anchored to the whole value.
type Wildcard struct {
	pattern string
	re      *regexp.Regexp
}

// NewWildcard compiles pattern. A backslash makes the next character literal.
func NewWildcard(pattern string) (Wildcard, error) {
	var b strings.Builder
	b.WriteString(`^(?s:`)
	escaped := false
	for _, r := range pattern {
		switch {
		case escaped:
			b.WriteString(regexp.QuoteMeta(string(r)))
			escaped = false
		case r == '\\':
			escaped = true
		case r == '*':
			b.WriteString(`.*`)
		case r == '?':
			b.WriteString(`.`)
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	if escaped {
		return Wildcard{}, newError(pattern, len(pattern)-1, `\`, "trailing escape character")
	}
	b.WriteString(`)$`)

	re, err := regexp.Compile(b.String())
	if err != nil {
		return Wildcard{}, newError(pattern, 0, pattern, "invalid wildcard: "+err.Error())
	}
	return Wildcard{pattern: pattern, re: re}, nil
}

// MustWildcard is NewWildcard for patterns known to be valid.
func MustWildcard(pattern string) Wildcard {
	w, err := NewWildcard(pattern)
	if err != nil {
		panic(err)
	}
	return w
}

// Pattern returns the pattern as written, escapes included.
func (w Wildcard) Pattern() string { return w.pattern }

func (w Wildcard) MatchText(s string) bool {
	return w.re != nil && w.re.MatchString(s)
}

func (w Wildcard) String() string { return w.pattern }

// Bound is one end of a Range. An Open bound ("*") does not limit the range.
type Bound struct {
	Value     string
	Inclusive bool
	Open      bool
}

// Range matches values between Lo and Hi. Bounds are compared numerically
// when the candidate and every closed bound parse as numbers, and as strings
// otherwise.
type Range struct {
	Lo, Hi Bound
}

// Between returns the inclusive range [lo TO hi].
func Between(lo, hi string) Range {
	return Range{
		Lo: Bound{Value: lo, Inclusive: true},
		Hi: Bound{Value: hi, Inclusive: true},
	}
}

func (r Range) MatchText(s string) bool {
	if lo, hi, v, ok := r.numeric(s); ok {
		return r.within(compareFloat(v, lo), compareFloat(v, hi))
	}
	return r.within(strings.Compare(s, r.Lo.Value), strings.Compare(s, r.Hi.Value))
}

// within takes the candidate's ordering against each bound.
func (r Range) within(cmpLo, cmpHi int) bool {
	if !r.Lo.Open {
		if cmpLo < 0 || (cmpLo == 0 && !r.Lo.Inclusive) {
			return false
		}
	}
	if !r.Hi.Open {
		if cmpHi > 0 || (cmpHi == 0 && !r.Hi.Inclusive) {
			return false
		}
	}
	return true
}

func (r Range) numeric(s string) (lo, hi, v float64, ok bool) {
	if v, ok = parseNumber(s); !ok {
		return 0, 0, 0, false
	}
	if !r.Lo.Open {
		if lo, ok = parseNumber(r.Lo.Value); !ok {
			return 0, 0, 0, false
		}
	}
	if !r.Hi.Open {
		if hi, ok = parseNumber(r.Hi.Value); !ok {
			return 0, 0, 0, false
		}
	}
	return lo, hi, v, true
}

func (r Range) String() string {
	open, closing := "{", "}"
	if r.Lo.Inclusive {
		open = "["
	}
	if r.Hi.Inclusive {
		closing = "]"
	}
	return open + r.Lo.render() + " TO " + r.Hi.render() + closing
}

func (b Bound) render() string {
	if b.Open {
		return "*"
	}
	return Exact{Value: b.Value}.String()
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := cast.ToFloat64E(s)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
