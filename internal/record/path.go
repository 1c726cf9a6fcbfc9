package record

import "strings"

// Path is a dotted sequence of object keys, e.g. "network.interfaces.eth0".
type Path []string

// ParsePath splits a dotted field name into a Path.
func ParsePath(s string) Path {
	if s == "" {
		return nil
	}
	return Path(strings.Split(s, "."))
}

func (p Path) String() string {
	return strings.Join(p, ".")
}

// Lookup resolves p against v and calls fn with every value the path
// reaches, stopping at the first call that returns true.
//
// Sequences met along the way, including at the end of the path, fan out to
// each of their elements, so a path matches when any element satisfies fn.
// Missing keys and paths that run into a scalar reach nothing.
func (v Value) Lookup(p Path, fn func(Value) bool) bool {
	switch v.kind {
	case Sequence:
		for _, item := range v.seq {
			if item.Lookup(p, fn) {
				return true
			}
		}
		return false
	case Object:
		if len(p) == 0 {
			return fn(v)
		}
		child, ok := v.obj[p[0]]
		if !ok {
			return false
		}
		return child.Lookup(p[1:], fn)
	default:
		if len(p) != 0 {
			return false
		}
		return fn(v)
	}
}

// Scalars calls fn with every non-null scalar reachable from v, depth first,
// stopping at the first call that returns true.
func (v Value) Scalars(fn func(Value) bool) bool {
	switch v.kind {
	case Null:
		return false
	case Object:
		for _, child := range v.obj {
			if child.Scalars(fn) {
				return true
			}
		}
		return false
	case Sequence:
		for _, item := range v.seq {
			if item.Scalars(fn) {
				return true
			}
		}
		return false
	default:
		return fn(v)
	}
}
