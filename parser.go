// parser.go — recursive descent over the token stream.
//
// Grammar:
//
//	expr := NUMBER | SYMBOL | '(' expr* ')'
//
// A Literal that parses as a 64-bit float becomes Number; any other Literal
// becomes Symbol. Parse returns the first complete expression found at index
// 0 and silently discards trailing tokens: a program is exactly one root
// expression, typically one all-enclosing list. That single-root contract is
// deliberate and load-bearing, not an oversight.
//
// Failure categories are fixed and distinct:
//   - BadParse "Unclosed delimiter"        — input ended inside an open list
//   - BadParse "Unexpected ) encountered." — ')' where an expression must start
//   - ErrEOF                               — no token at the requested position
package mlisp

import (
	"fmt"
	"strconv"
)

// ParseErrKind discriminates the parse failure categories.
type ParseErrKind int

const (
	BadParse ParseErrKind = iota
	ErrEOF
)

// ParseError reports a parse failure with the position of the token (or end
// of input) that triggered it. Msg is the bare category message; Error()
// returns it unchanged so pipeline labels read "Parse error: Unclosed
// delimiter".
type ParseError struct {
	Kind ParseErrKind
	Line int
	Col  int
	Msg  string
}

func (e *ParseError) Error() string { return e.Msg }

type parser struct {
	toks []Token
}

func (p *parser) at(i int) (Token, bool) {
	if i < 0 || i >= len(p.toks) {
		return Token{}, false
	}
	return p.toks[i], true
}

// eofError positions the failure just past the last token, or at 1:0 for an
// empty stream.
func (p *parser) eofError(kind ParseErrKind, msg string) *ParseError {
	line, col := 1, 0
	if n := len(p.toks); n > 0 {
		last := p.toks[n-1]
		line, col = last.Line, last.Col+len(last.Text)
	}
	return &ParseError{Kind: kind, Line: line, Col: col, Msg: msg}
}

// Parse consumes the token stream and returns the first complete expression
// found at index 0. Trailing tokens beyond that expression are discarded
// without error.
func Parse(tokens []Token) (*Expr, error) {
	p := &parser{toks: tokens}
	_, expr, err := p.parseAt(0)
	if err != nil {
		return nil, err
	}
	return expr, nil
}

// parseAt parses one expression starting at index i and returns the index of
// the first unconsumed token alongside the parsed node.
func (p *parser) parseAt(i int) (int, *Expr, *ParseError) {
	tok, ok := p.at(i)
	if !ok {
		return i, nil, p.eofError(ErrEOF, "EOF")
	}
	switch tok.Type {
	case LeftParen:
		i++
		var elems []*Expr
		for {
			next, ok := p.at(i)
			if !ok {
				return i, nil, p.eofError(BadParse, "Unclosed delimiter")
			}
			if next.Type == RightParen {
				return i + 1, NewList(elems...), nil
			}
			ni, sub, err := p.parseAt(i)
			if err != nil {
				return i, nil, err
			}
			elems = append(elems, sub)
			i = ni
		}
	case RightParen:
		return i, nil, &ParseError{
			Kind: BadParse,
			Line: tok.Line,
			Col:  tok.Col,
			Msg:  "Unexpected ) encountered.",
		}
	case Literal:
		if n, err := strconv.ParseFloat(tok.Text, 64); err == nil {
			return i + 1, Number(n), nil
		}
		return i + 1, Symbol(tok.Text), nil
	}
	return i, nil, &ParseError{
		Kind: BadParse,
		Line: tok.Line,
		Col:  tok.Col,
		Msg:  fmt.Sprintf("Unknown token: %s", tok.Type),
	}
}
