// errors.go: user-facing error wrapping and caret-snippet rendering.
//
// Turns lexer/parser diagnostics into readable snippets with a caret pointing
// at the offending column:
//
//	PARSE ERROR in prog.mlisp at 2:9: Unclosed delimiter
//
//	   1 | (print
//	   2 |   (+ 1 2
//	       |        ^
//
// Line/column are clamped to the source bounds so rendering never fails.
// Errors that are not a *LexError or *ParseError pass through unchanged.
// This utility is independent of the evaluator; the CLI uses it to surface
// pre-evaluation failures with context.
package mlisp

import (
	"fmt"
	"strings"
)

// WrapErrorWithSource returns an error augmented with a caret-annotated
// snippet of the provided source. It recognizes lexer/parser errors and
// leaves other errors untouched.
func WrapErrorWithSource(err error, src string) error {
	return WrapErrorWithName(err, "", src)
}

// WrapErrorWithName is WrapErrorWithSource with a source name ("in <name>")
// in the header.
func WrapErrorWithName(err error, srcName string, src string) error {
	switch e := err.(type) {
	case *LexError:
		// Col is 0-based; render as 1-based.
		return fmt.Errorf("%s", caretSnippet(src, "LEXICAL ERROR", srcName, e.Line, e.Col+1, e.Msg))
	case *ParseError:
		return fmt.Errorf("%s", caretSnippet(src, "PARSE ERROR", srcName, e.Line, e.Col+1, e.Msg))
	default:
		return err
	}
}

// caretSnippet builds the snippet: a header, up to one line of context either
// side, and a caret under the 1-based column. Coordinates are clamped.
func caretSnippet(src, header, name string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	if line > len(lines) {
		line = len(lines)
	}

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s in %s at %d:%d: %s\n\n", header, name, line, col, msg)
	} else {
		fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lines[line-1])
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
