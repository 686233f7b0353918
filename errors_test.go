package mlisp

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_WrapError_LexError_RendersCaret(t *testing.T) {
	src := "(let x 5)\n(+ 1 \x002)\n(print x)"
	lexErr := &LexError{Line: 2, Col: 5, Msg: `illegal character '\x00'`}

	wrapped := WrapErrorWithName(lexErr, "prog.mlisp", src)
	msg := wrapped.Error()

	require.True(t, strings.HasPrefix(msg, "LEXICAL ERROR in prog.mlisp at 2:6: "), "got %q", msg)
	require.Contains(t, msg, "   1 | (let x 5)")
	require.Contains(t, msg, "   2 | (+ 1 \x002)")
	require.Contains(t, msg, "   3 | (print x)")
	// Caret sits under the 1-based column on its own gutter line.
	require.Contains(t, msg, "     |      ^")
}

func Test_WrapError_ParseError_RendersCaret(t *testing.T) {
	src := "(print\n  hello"
	perr := &ParseError{Kind: BadParse, Line: 2, Col: 7, Msg: "Unclosed delimiter"}

	msg := WrapErrorWithSource(perr, src).Error()
	require.True(t, strings.HasPrefix(msg, "PARSE ERROR at 2:8: Unclosed delimiter"), "got %q", msg)
	require.Contains(t, msg, "   2 |   hello")
}

func Test_WrapError_ClampsOutOfRangePositions(t *testing.T) {
	perr := &ParseError{Kind: ErrEOF, Line: 99, Col: 99, Msg: "EOF"}
	msg := WrapErrorWithSource(perr, "(x)").Error()
	require.Contains(t, msg, "   1 | (x)")
}

func Test_WrapError_OtherErrors_PassThrough(t *testing.T) {
	err := errors.New("boom")
	require.Same(t, err, WrapErrorWithSource(err, "(x)"))
}
