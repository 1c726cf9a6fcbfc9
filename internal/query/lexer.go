package query

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokWord
	tokPhrase
	tokColon
	tokLParen
	tokRParen
	tokLRange
	tokRRange
	tokAnd
	tokOr
	tokNot
	tokPlus
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of query"
	case tokWord:
		return "term"
	case tokPhrase:
		return "phrase"
	case tokColon:
		return "':'"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	case tokLRange:
		return "range start"
	case tokRRange:
		return "range end"
	case tokAnd:
		return "AND"
	case tokOr:
		return "OR"
	case tokNot:
		return "NOT"
	case tokPlus:
		return "'+'"
	default:
		return "token"
	}
}

type token struct {
	kind tokenKind
	// raw is the source text of the token, escapes included.
	raw string
	// text is the unescaped value of a word or phrase.
	text string
	// wild is set on words holding an unescaped '*' or '?'.
	wild bool
	pos  int
}

// Characters that end a bare word unless escaped.
const wordBreaks = `():"[]{}`

func isWordBreak(r rune) bool {
	return unicode.IsSpace(r) || strings.ContainsRune(wordBreaks, r)
}

type lexer struct {
	query string
	pos   int
	toks  []token
	// inRange is set between '[' or '{' and the matching close.
	inRange bool
}

func tokenize(q string) ([]token, error) {
	l := &lexer{query: q}
	if err := l.run(); err != nil {
		return nil, err
	}
	return l.toks, nil
}

func (l *lexer) emit(kind tokenKind, start int) {
	raw := l.query[start:l.pos]
	l.toks = append(l.toks, token{kind: kind, raw: raw, text: raw, pos: start})
}

func (l *lexer) prevKind() tokenKind {
	if len(l.toks) == 0 {
		return tokEOF
	}
	return l.toks[len(l.toks)-1].kind
}

// prefixAllowed reports whether a '-', '+' or '!' at the current position
// acts as an operator rather than as part of a word.
func (l *lexer) prefixAllowed() bool {
	if l.inRange || l.prevKind() == tokColon {
		return false
	}
	next := l.pos + 1
	if next >= len(l.query) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(l.query[next:])
	return !unicode.IsSpace(r) && r != ')'
}

func (l *lexer) run() error {
	for l.pos < len(l.query) {
		r, size := utf8.DecodeRuneInString(l.query[l.pos:])
		start := l.pos

		switch {
		case unicode.IsSpace(r):
			l.pos += size
		case r == '(':
			l.pos += size
			l.emit(tokLParen, start)
		case r == ')':
			l.pos += size
			l.emit(tokRParen, start)
		case r == ':':
			l.pos += size
			l.emit(tokColon, start)
		case r == '[' || r == '{':
			l.pos += size
			l.emit(tokLRange, start)
			l.inRange = true
		case r == ']' || r == '}':
			l.pos += size
			l.emit(tokRRange, start)
			l.inRange = false
		case r == '"':
			if err := l.phrase(); err != nil {
				return err
			}
		case (r == '-' || r == '!') && l.prefixAllowed():
			l.pos += size
			l.emit(tokNot, start)
		case r == '+' && l.prefixAllowed():
			l.pos += size
			l.emit(tokPlus, start)
		default:
			if err := l.word(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (l *lexer) phrase() error {
	start := l.pos
	l.pos++ // opening quote

	var b strings.Builder
	for l.pos < len(l.query) {
		c := l.query[l.pos]
		switch c {
		case '\\':
			if l.pos+1 >= len(l.query) {
				return newError(l.query, start, l.query[start:], "unterminated phrase")
			}
			r, size := utf8.DecodeRuneInString(l.query[l.pos+1:])
			b.WriteRune(r)
			l.pos += 1 + size
		case '"':
			l.pos++
			l.toks = append(l.toks, token{
				kind: tokPhrase,
				raw:  l.query[start:l.pos],
				text: b.String(),
				pos:  start,
			})
			return nil
		default:
			b.WriteByte(c)
			l.pos++
		}
	}
	return newError(l.query, start, l.query[start:], "unterminated phrase")
}

func (l *lexer) word() error {
	start := l.pos
	var (
		b    strings.Builder
		wild bool
	)
	for l.pos < len(l.query) {
		r, size := utf8.DecodeRuneInString(l.query[l.pos:])
		if isWordBreak(r) {
			break
		}
		switch r {
		case '\\':
			if l.pos+size >= len(l.query) {
				return newError(l.query, l.pos, l.query[l.pos:], "trailing escape character")
			}
			escaped, esize := utf8.DecodeRuneInString(l.query[l.pos+size:])
			b.WriteRune(escaped)
			l.pos += size + esize
			continue
		case '~', '^':
			return newError(l.query, l.pos, l.query[start:l.pos+size], "fuzzy, proximity and boost operators are not supported")
		case '*', '?':
			wild = true
		}
		b.WriteRune(r)
		l.pos += size
	}

	raw := l.query[start:l.pos]
	tok := token{kind: tokWord, raw: raw, text: b.String(), wild: wild, pos: start}
	switch raw {
	case "AND", "&&":
		tok.kind = tokAnd
	case "OR", "||":
		tok.kind = tokOr
	case "NOT":
		tok.kind = tokNot
	}
	l.toks = append(l.toks, tok)
	return nil
}
