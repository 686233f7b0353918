// lexer.go: raw source text -> ordered token stream.
//
// The token alphabet is tiny: '(' and ')' are each their own token, and every
// maximal run of non-whitespace, non-parenthesis bytes is a Literal. Literals
// may sit directly against a parenthesis with no separating whitespace, so
// "(+ 1(f))" lexes the same as "( + 1 ( f ) )". Deciding whether a Literal is
// a number or a symbol is the parser's job, not the lexer's.
//
// Lexing is a separate, earlier failure stage from parsing: a *LexError
// aborts before any token reaches the parser.
package mlisp

import "fmt"

// TokenType represents the kind of token.
type TokenType int

const (
	LeftParen  TokenType = iota // "("
	RightParen                  // ")"
	Literal                     // any other non-whitespace run
)

func (tt TokenType) String() string {
	switch tt {
	case LeftParen:
		return "LeftParen"
	case RightParen:
		return "RightParen"
	case Literal:
		return "Literal"
	}
	return "Unknown"
}

// Token is one lexical token with its 1-based line and 0-based column.
type Token struct {
	Type TokenType
	Text string // raw text; "(" / ")" for parens
	Line int
	Col  int
}

// LexError reports malformed input at a source position.
type LexError struct {
	Line int
	Col  int
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("LEXICAL ERROR at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// Lexer scans a source string into tokens.
type Lexer struct {
	src    string
	cur    int // current index
	start  int // start index of current literal
	line   int // 1-based
	col    int // 0-based column within line
	tokens []Token

	// position at which the current literal began
	tokStartLine int
	tokStartCol  int
}

// NewLexer creates a new lexer for the given source.
func NewLexer(src string) *Lexer {
	return &Lexer{
		src:  src,
		line: 1,
		col:  0,
	}
}

// Tokenize scans src in one call.
func Tokenize(src string) ([]Token, error) {
	return NewLexer(src).Scan()
}

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	return l.src[l.cur], true
}

func (l *Lexer) advance() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	ch := l.src[l.cur]
	l.cur++
	if ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return ch, true
}

func (l *Lexer) err(msg string) error {
	return &LexError{Line: l.line, Col: l.col, Msg: msg}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func isParen(b byte) bool { return b == '(' || b == ')' }

// isLiteralByte reports whether b may appear inside a Literal token.
// Control bytes other than whitespace are malformed input.
func isLiteralByte(b byte) bool {
	return !isSpace(b) && !isParen(b) && b >= 0x20 && b != 0x7f
}

func (l *Lexer) addParen(tt TokenType, text string) {
	l.tokens = append(l.tokens, Token{Type: tt, Text: text, Line: l.line, Col: l.col})
}

func (l *Lexer) addLiteral() {
	l.tokens = append(l.tokens, Token{
		Type: Literal,
		Text: l.src[l.start:l.cur],
		Line: l.tokStartLine,
		Col:  l.tokStartCol,
	})
}

// scanLiteral consumes the maximal run of literal bytes starting at l.cur.
func (l *Lexer) scanLiteral() error {
	l.start = l.cur
	l.tokStartLine = l.line
	l.tokStartCol = l.col
	for {
		ch, ok := l.peek()
		if !ok || isSpace(ch) || isParen(ch) {
			break
		}
		if !isLiteralByte(ch) {
			return l.err(fmt.Sprintf("illegal character %q", ch))
		}
		l.advance()
	}
	l.addLiteral()
	return nil
}

// Scan tokenizes the whole source, returning the token stream or the first
// *LexError encountered.
func (l *Lexer) Scan() ([]Token, error) {
	for !l.isAtEnd() {
		ch, _ := l.peek()
		switch {
		case isSpace(ch):
			l.advance()
		case ch == '(':
			l.addParen(LeftParen, "(")
			l.advance()
		case ch == ')':
			l.addParen(RightParen, ")")
			l.advance()
		default:
			if err := l.scanLiteral(); err != nil {
				return nil, err
			}
		}
	}
	return l.tokens, nil
}
