// expr.go: the Expr sum type shared by the parser, evaluator and printer.
//
// Expr is a closed tagged variant: Number | Symbol | List. Nodes are immutable
// after construction and sub-trees are shared by pointer, never copied — a
// function body bound in the environment is the same *Expr handle on every
// call. Because nothing mutates a node, sharing is safe.
package mlisp

import "strconv"

// ExprTag discriminates the Expr variants.
type ExprTag int

const (
	TagNumber ExprTag = iota
	TagSymbol
	TagList
)

// Expr is one node of the expression tree. Exactly one of the payload fields
// is meaningful, selected by Tag. Treat values as read-only once constructed.
type Expr struct {
	Tag  ExprTag
	Num  float64 // TagNumber
	Sym  string  // TagSymbol
	List []*Expr // TagList
}

// Number builds a numeric literal node.
func Number(n float64) *Expr { return &Expr{Tag: TagNumber, Num: n} }

// Symbol builds a symbol node.
func Symbol(name string) *Expr { return &Expr{Tag: TagSymbol, Sym: name} }

// NewList builds a list node over the given (shared) children.
func NewList(elems ...*Expr) *Expr { return &Expr{Tag: TagList, List: elems} }

// EmptyList builds a fresh zero-element list node.
func EmptyList() *Expr { return &Expr{Tag: TagList, List: nil} }

// Equal reports deep, order-sensitive structural equality of two trees.
// A nil handle is only equal to another nil handle.
func Equal(a, b *Expr) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case TagNumber:
		return a.Num == b.Num
	case TagSymbol:
		return a.Sym == b.Sym
	case TagList:
		if len(a.List) != len(b.List) {
			return false
		}
		for i := range a.List {
			if !Equal(a.List[i], b.List[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// IsSymbol reports whether e is the symbol named name.
func (e *Expr) IsSymbol(name string) bool {
	return e != nil && e.Tag == TagSymbol && e.Sym == name
}

// String renders the node without consulting any environment. Numbers use the
// shortest decimal form ("1", not "1.000000"); lists render parenthesized.
// The environment-aware rendering used by print lives in printer.go.
func (e *Expr) String() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Tag {
	case TagNumber:
		return strconv.FormatFloat(e.Num, 'f', -1, 64)
	case TagSymbol:
		return e.Sym
	case TagList:
		s := "("
		for i, el := range e.List {
			if i > 0 {
				s += " "
			}
			s += el.String()
		}
		return s + ")"
	}
	return "<invalid>"
}
