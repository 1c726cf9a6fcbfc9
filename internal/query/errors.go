package query

import "fmt"

// Error reports a query that is malformed or uses an unsupported feature.
type Error struct {
	Query string
	// Offset is the byte offset of Fragment within Query.
	Offset   int
	Fragment string
	Msg      string
}

func newError(query string, offset int, fragment, msg string) *Error {
	return &Error{Query: query, Offset: offset, Fragment: fragment, Msg: msg}
}

func (e *Error) Error() string {
	if e.Fragment == "" {
		return fmt.Sprintf("query %q: %s at offset %d", e.Query, e.Msg, e.Offset)
	}
	return fmt.Sprintf("query %q: %s at offset %d near %q", e.Query, e.Msg, e.Offset, e.Fragment)
}
