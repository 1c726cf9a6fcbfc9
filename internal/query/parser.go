package query

import (
	"strings"

	"github.com/Paintersrp/solosearch/internal/record"
)

// Parse turns a Lucene-style query into a Predicate.
//
// Supported syntax:
//   - field:value, field:"a phrase", field:val*, field:[lo TO hi], field:{lo TO hi}
//   - bare values, which match any field; "*" as a field also means any field
//   - AND, OR, NOT (uppercase), &&, ||, !, and -/+ prefixes
//   - implicit AND between adjacent terms
//   - grouping with parentheses, including field:(a OR b)
//
// An empty query parses to MatchAll. Anything else that is not valid
// returns an *Error.
func Parse(q string) (Predicate, error) {
	if strings.TrimSpace(q) == "" {
		return MatchAll{}, nil
	}

	toks, err := tokenize(q)
	if err != nil {
		return nil, err
	}

	p := &parser{query: q, toks: toks}
	pred, err := p.parseOr(nil)
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		if tok.kind == tokRParen {
			return nil, p.errorAt(tok, "unbalanced parenthesis")
		}
		return nil, p.errorAt(tok, "unexpected "+tok.kind.String())
	}
	return pred, nil
}

// MustParse is Parse for queries known to be valid.
func MustParse(q string) Predicate {
	pred, err := Parse(q)
	if err != nil {
		panic(err)
	}
	return pred
}

type parser struct {
	query string
	toks  []token
	pos   int
}

func (p *parser) peek() token {
	return p.peekAt(0)
}

func (p *parser) peekAt(n int) token {
	if p.pos+n < len(p.toks) {
		return p.toks[p.pos+n]
	}
	return token{kind: tokEOF, pos: len(p.query)}
}

func (p *parser) next() token {
	tok := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return tok
}

func (p *parser) errorAt(tok token, msg string) *Error {
	return newError(p.query, tok.pos, tok.raw, msg)
}

// startsClause reports whether tok can begin an operand, which is what makes
// two adjacent clauses an implicit AND.
func startsClause(tok token) bool {
	switch tok.kind {
	case tokWord, tokPhrase, tokLParen, tokLRange, tokNot, tokPlus:
		return true
	default:
		return false
	}
}

// field is the default field inherited from an enclosing field:( ... )
// group; nil means any field.
func (p *parser) parseOr(field record.Path) (Predicate, error) {
	left, err := p.parseAnd(field)
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokOr {
		op := p.next()
		if !startsClause(p.peek()) {
			return nil, p.errorAt(op, "OR is missing its right-hand operand")
		}
		right, err := p.parseAnd(field)
		if err != nil {
			return nil, err
		}
		left = Or{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd(field record.Path) (Predicate, error) {
	left, err := p.parseNot(field)
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		switch {
		case tok.kind == tokAnd:
			p.next()
			if !startsClause(p.peek()) {
				return nil, p.errorAt(tok, "AND is missing its right-hand operand")
			}
		case startsClause(tok):
		default:
			return left, nil
		}
		right, err := p.parseNot(field)
		if err != nil {
			return nil, err
		}
		left = And{Left: left, Right: right}
	}
}

func (p *parser) parseNot(field record.Path) (Predicate, error) {
	switch tok := p.peek(); tok.kind {
	case tokNot:
		p.next()
		if !startsClause(p.peek()) {
			return nil, p.errorAt(tok, "NOT is missing its operand")
		}
		inner, err := p.parseNot(field)
		if err != nil {
			return nil, err
		}
		return Not{Inner: inner}, nil
	case tokPlus:
		p.next()
		if !startsClause(p.peek()) {
			return nil, p.errorAt(tok, "'+' is missing its operand")
		}
		return p.parseNot(field)
	default:
		return p.parseAtom(field)
	}
}

func (p *parser) parseAtom(field record.Path) (Predicate, error) {
	tok := p.peek()
	switch tok.kind {
	case tokLParen:
		return p.parseGroup(field)
	case tokWord:
		if p.peekAt(1).kind == tokColon {
			return p.parseFieldTerm()
		}
		p.next()
		return p.wordTerm(field, tok)
	case tokPhrase:
		p.next()
		return Term{Field: field, Value: Exact{Value: tok.text}}, nil
	case tokLRange:
		rng, err := p.parseRange()
		if err != nil {
			return nil, err
		}
		return Term{Field: field, Value: rng}, nil
	case tokColon:
		return nil, p.errorAt(tok, "missing field name before ':'")
	case tokEOF:
		return nil, p.errorAt(tok, "expected a term")
	case tokRParen:
		return nil, p.errorAt(tok, "unbalanced parenthesis")
	default:
		return nil, p.errorAt(tok, "unexpected "+tok.kind.String())
	}
}

func (p *parser) parseGroup(field record.Path) (Predicate, error) {
	open := p.next()
	if p.peek().kind == tokRParen {
		return nil, p.errorAt(p.peek(), "empty group")
	}
	inner, err := p.parseOr(field)
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokRParen {
		return nil, newError(p.query, open.pos, p.query[open.pos:], "unbalanced parenthesis")
	}
	p.next()
	return Group{Inner: inner}, nil
}

func (p *parser) parseFieldTerm() (Predicate, error) {
	name := p.next()
	p.next() // ':'

	field, err := p.fieldPath(name)
	if err != nil {
		return nil, err
	}

	tok := p.peek()
	switch tok.kind {
	case tokWord:
		p.next()
		if field == nil && tok.raw == "*" {
			return HasField{}, nil
		}
		return p.wordTerm(field, tok)
	case tokPhrase:
		p.next()
		return Term{Field: field, Value: Exact{Value: tok.text}}, nil
	case tokLRange:
		rng, err := p.parseRange()
		if err != nil {
			return nil, err
		}
		return Term{Field: field, Value: rng}, nil
	case tokLParen:
		return p.parseGroup(field)
	default:
		return nil, p.errorAt(name, "missing value for field "+name.text)
	}
}

func (p *parser) wordTerm(field record.Path, tok token) (Predicate, error) {
	if !tok.wild {
		return Term{Field: field, Value: Exact{Value: tok.text}}, nil
	}
	w, err := NewWildcard(tok.raw)
	if err != nil {
		return nil, p.errorAt(tok, "invalid wildcard")
	}
	return Term{Field: field, Value: w}, nil
}

// fieldPath splits a field token on unescaped dots. The field "*" selects
// any field.
func (p *parser) fieldPath(tok token) (record.Path, error) {
	if tok.raw == "*" {
		return nil, nil
	}
	if tok.wild {
		return nil, p.errorAt(tok, "wildcards in field names are not supported")
	}

	var (
		path    record.Path
		b       strings.Builder
		escaped bool
	)
	for _, r := range tok.raw {
		switch {
		case escaped:
			b.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == '.':
			path = append(path, b.String())
			b.Reset()
		default:
			b.WriteRune(r)
		}
	}
	path = append(path, b.String())

	for _, key := range path {
		if key == "" {
			return nil, p.errorAt(tok, "empty segment in field name")
		}
	}
	return path, nil
}

func (p *parser) parseRange() (Range, error) {
	open := p.next()

	lo, err := p.parseBound(open)
	if err != nil {
		return Range{}, err
	}
	if to := p.peek(); to.kind != tokWord || to.raw != "TO" {
		return Range{}, p.errorAt(to, "range is missing TO")
	}
	p.next()
	hi, err := p.parseBound(open)
	if err != nil {
		return Range{}, err
	}

	closing := p.peek()
	if closing.kind != tokRRange {
		return Range{}, newError(p.query, open.pos, p.query[open.pos:], "unterminated range")
	}
	p.next()

	lo.Inclusive = open.raw == "["
	hi.Inclusive = closing.raw == "]"
	return Range{Lo: lo, Hi: hi}, nil
}

func (p *parser) parseBound(open token) (Bound, error) {
	tok := p.peek()
	switch {
	case tok.kind == tokWord && tok.raw == "TO":
		return Bound{}, p.errorAt(tok, "range bound is missing")
	case tok.kind == tokWord && tok.raw == "*":
		p.next()
		return Bound{Open: true}, nil
	case tok.kind == tokWord && tok.wild:
		return Bound{}, p.errorAt(tok, "wildcards are not allowed in range bounds")
	case tok.kind == tokWord, tok.kind == tokPhrase:
		p.next()
		return Bound{Value: tok.text}, nil
	case tok.kind == tokEOF:
		return Bound{}, newError(p.query, open.pos, p.query[open.pos:], "unterminated range")
	default:
		return Bound{}, p.errorAt(tok, "invalid range bound")
	}
}
