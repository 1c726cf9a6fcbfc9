package query

import (
	"strings"
	"unicode"

	"github.com/Paintersrp/solosearch/internal/record"
)

// Predicate is a parsed query. Implementations are immutable values and are
// safe to evaluate concurrently against any number of records.
type Predicate interface {
	// String renders the predicate back into query syntax. Parsing the
	// result yields a structurally identical predicate. MatchAll renders as
	// the empty string.
	String() string
	isPredicate()
}

// MatchAll matches every record. It is what the empty query parses to.
type MatchAll struct{}

// HasField matches records holding at least one field, whatever its value.
// It is what *:* parses to.
type HasField struct{}

// Term tests the values found at Field. A nil Field means any field.
type Term struct {
	Field record.Path
	Value Matcher
}

type And struct{ Left, Right Predicate }

type Or struct{ Left, Right Predicate }

type Not struct{ Inner Predicate }

// Group is an explicitly parenthesized predicate. It evaluates exactly like
// Inner.
type Group struct{ Inner Predicate }

func (MatchAll) isPredicate() {}
func (HasField) isPredicate() {}
func (Term) isPredicate()     {}
func (And) isPredicate()      {}
func (Or) isPredicate()       {}
func (Not) isPredicate()      {}
func (Group) isPredicate()    {}

func (MatchAll) String() string { return "" }
func (HasField) String() string { return "*:*" }

// AnyField reports whether t searches every scalar in the record.
func (t Term) AnyField() bool { return len(t.Field) == 0 }

func (t Term) String() string {
	if t.AnyField() {
		return t.Value.String()
	}
	parts := make([]string, len(t.Field))
	for i, key := range t.Field {
		parts[i] = escapeTerm(key, ".")
	}
	return strings.Join(parts, ".") + ":" + t.Value.String()
}

func (a And) String() string   { return a.Left.String() + " AND " + a.Right.String() }
func (o Or) String() string    { return o.Left.String() + " OR " + o.Right.String() }
func (n Not) String() string   { return "NOT " + n.Inner.String() }
func (g Group) String() string { return "(" + g.Inner.String() + ")" }

// Characters escaped when rendering a bare term. '.' is only escaped in
// field names.
const termSpecials = `\():"[]{}*?~^`

func escapeTerm(s, extra string) string {
	var b strings.Builder
	for i, r := range s {
		special := strings.ContainsRune(termSpecials, r) || strings.ContainsRune(extra, r) || unicode.IsSpace(r)
		if i == 0 && (r == '-' || r == '+' || r == '!') {
			special = true
		}
		if special {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	out := b.String()
	switch out {
	case "AND", "OR", "NOT", "TO", "&&", "||":
		return `\` + out
	}
	return out
}

func quotePhrase(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		if r == '"' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}
