// printer.go — the environment-aware renderer behind the print builtin.
package mlisp

import (
	"strconv"
	"strings"
)

// Render produces the textual form of e for print output. Symbols resolve
// through env: an unbound symbol prints as itself, a bound variable prints as
// its (recursively rendered) value, and a bound function prints as
// "<func-object: name>". Numbers use the shortest decimal form and lists
// render parenthesized with single-space separators.
func Render(e *Expr, env *Environment) string {
	switch e.Tag {
	case TagSymbol:
		binding, ok := env.Lookup(e.Sym)
		if !ok {
			return e.Sym
		}
		if binding.IsFunction() {
			return "<func-object: " + e.Sym + ">"
		}
		return Render(binding.Body, env)
	case TagNumber:
		return strconv.FormatFloat(e.Num, 'f', -1, 64)
	case TagList:
		parts := make([]string, len(e.List))
		for i, el := range e.List {
			parts[i] = Render(el, env)
		}
		return "(" + strings.Join(parts, " ") + ")"
	}
	return ""
}
