package query

import "github.com/Paintersrp/solosearch/internal/record"

// Match evaluates p against one record. It never modifies p or v, so a
// single predicate may be matched against many records concurrently.
func Match(p Predicate, v record.Value) bool {
	switch p := p.(type) {
	case MatchAll:
		return true
	case HasField:
		return hasField(v)
	case Term:
		return matchTerm(p, v)
	case And:
		return Match(p.Left, v) && Match(p.Right, v)
	case Or:
		return Match(p.Left, v) || Match(p.Right, v)
	case Not:
		return !Match(p.Inner, v)
	case Group:
		return Match(p.Inner, v)
	default:
		return false
	}
}

func matchTerm(t Term, v record.Value) bool {
	if t.Value == nil {
		return false
	}
	test := func(candidate record.Value) bool {
		s, ok := candidate.Text()
		return ok && t.Value.MatchText(s)
	}
	if t.AnyField() {
		return v.Scalars(test)
	}
	return v.Lookup(t.Field, test)
}

// hasField reports whether v is an object with at least one member, or any
// other value that is not null or empty.
func hasField(v record.Value) bool {
	switch v.Kind() {
	case record.Null:
		return false
	case record.Object, record.Sequence:
		return v.Len() > 0
	default:
		return true
	}
}
