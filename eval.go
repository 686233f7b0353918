// eval.go — the tree-walking evaluator and its special forms.
//
// Eval dispatches on the parsed tree against an Environment and produces an
// EvalResult: a Value, Unit (side-effecting forms like print/let/fn), or an
// Error. Evaluation is fail-fast: the first error inside a form aborts the
// remaining arguments and propagates immediately, with no partial results.
//
// Several behaviors are preserved from the reference semantics on purpose and
// are not bugs to fix here:
//   - `if` evaluates the condition, runs the selected branch for its side
//     effects, then always evaluates and returns the then-branch;
//   - `and` and `or` compare the raw, unevaluated argument expressions;
//   - `not` on a list returns the structural-equality verdict `=` would
//     compute over that list's own elements.
package mlisp

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// EvalResultTag discriminates the EvalResult variants.
type EvalResultTag int

const (
	ResultValue EvalResultTag = iota
	ResultUnit
	ResultError
)

// EvalResult is the outcome of evaluating one expression. Unit marks a
// side-effecting form with no usable value; passing Unit where a value is
// required is always an error.
type EvalResult struct {
	Tag  EvalResultTag
	Expr *Expr  // ResultValue
	Msg  string // ResultError
}

// UnitResult is the single Unit outcome.
var UnitResult = EvalResult{Tag: ResultUnit}

// ValueOf wraps an expression as a Value result.
func ValueOf(e *Expr) EvalResult { return EvalResult{Tag: ResultValue, Expr: e} }

// Errorf builds an Error result.
func Errorf(format string, args ...any) EvalResult {
	return EvalResult{Tag: ResultError, Msg: fmt.Sprintf(format, args...)}
}

func (r EvalResult) IsValue() bool { return r.Tag == ResultValue }
func (r EvalResult) IsUnit() bool  { return r.Tag == ResultUnit }
func (r EvalResult) IsError() bool { return r.Tag == ResultError }

func (r EvalResult) String() string {
	switch r.Tag {
	case ResultValue:
		return r.Expr.String()
	case ResultUnit:
		return "<unit>"
	default:
		return "Error: " + r.Msg
	}
}

// Evaluator walks expression trees. Out receives the output of print forms;
// it defaults to os.Stdout.
type Evaluator struct {
	Out io.Writer
}

// NewEvaluator returns an evaluator printing to out, or to os.Stdout when out
// is nil.
func NewEvaluator(out io.Writer) *Evaluator {
	if out == nil {
		out = os.Stdout
	}
	return &Evaluator{Out: out}
}

// Eval evaluates e against env.
func (ev *Evaluator) Eval(e *Expr, env *Environment) EvalResult {
	switch e.Tag {
	case TagNumber:
		return ValueOf(e)
	case TagSymbol:
		return ev.evalSymbol(e, e.Sym, nil, env)
	case TagList:
		if len(e.List) == 0 {
			return ValueOf(e)
		}
		head := e.List[0]
		rest := e.List[1:]
		if head.Tag == TagSymbol {
			switch head.Sym {
			case "+":
				return ev.evalSum(rest, env)
			case "-":
				return ev.evalDifference(rest, env)
			case "*":
				return ev.evalProduct(rest, env)
			case "/":
				return ev.evalQuotient(rest, env)
			case "=":
				return ev.evalEquality(rest, env)
			case "!=":
				return ev.evalInequality(rest, env)
			case "not":
				return ev.evalNot(rest, env)
			case "and":
				return ev.evalAnd(rest, env)
			case "or":
				return ev.evalOr(rest, env)
			case "let":
				return ev.evalLet(rest, env)
			case "fn":
				return ev.evalFn(rest, env)
			case "print":
				return ev.evalPrint(rest, env)
			case "if":
				return ev.evalIf(rest, env)
			}
			if env.ContainsKey(head.Sym) {
				return ev.evalSymbol(e, head.Sym, rest, env)
			}
		}
		return ev.evalListElements(e.List, env)
	}
	return Errorf("cannot evaluate malformed expression")
}

// evalSymbol resolves sym. Unbound symbols evaluate to themselves. A bound
// variable evaluates its expression in the current environment. A bound
// function checks arity, evaluates the arguments in the caller's environment,
// then runs the body under exactly one pushed frame holding the parameters —
// the caller's frames stay visible underneath (dynamic scoping).
func (ev *Evaluator) evalSymbol(e *Expr, sym string, args []*Expr, env *Environment) EvalResult {
	binding, ok := env.Lookup(sym)
	if !ok {
		return ValueOf(e)
	}
	if !binding.IsFunction() {
		return ev.Eval(binding.Body, env)
	}
	if len(args) != len(binding.Params) {
		return Errorf("provided %d arguments but expected %d", len(args), len(binding.Params))
	}
	evaluated := make([]*Expr, len(args))
	for i, arg := range args {
		switch r := ev.Eval(arg, env); r.Tag {
		case ResultValue:
			evaluated[i] = r.Expr
		case ResultError:
			return r
		default:
			return Errorf("Cannot pass Unit as an argument to a function.")
		}
	}
	env.PushContext()
	defer env.PopContext()
	for i, name := range binding.Params {
		_ = env.AddVar(name, evaluated[i])
	}
	return ev.Eval(binding.Body, env)
}

// evalListElements evaluates every element of a non-applicable list, drops
// Unit results, and returns a new list of the remaining values in order.
// The first error aborts the whole list.
func (ev *Evaluator) evalListElements(vals []*Expr, env *Environment) EvalResult {
	out := make([]*Expr, 0, len(vals))
	for _, v := range vals {
		switch r := ev.Eval(v, env); r.Tag {
		case ResultValue:
			out = append(out, r.Expr)
		case ResultError:
			return r
		case ResultUnit:
			// dropped
		}
	}
	return ValueOf(NewList(out...))
}

// evalNumbers is the fallible fold shared by the arithmetic forms: evaluate
// every argument, require each to be a number, stop on the first failure.
func (ev *Evaluator) evalNumbers(verb string, args []*Expr, env *Environment) ([]float64, EvalResult) {
	nums := make([]float64, len(args))
	for i, arg := range args {
		r := ev.Eval(arg, env)
		if r.IsError() {
			return nil, r
		}
		if !r.IsValue() {
			return nil, Errorf("Failed to eval expr: %s", arg)
		}
		if r.Expr.Tag != TagNumber {
			return nil, Errorf("Can only %s numbers, got %s", verb, r.Expr)
		}
		nums[i] = r.Expr.Num
	}
	return nums, UnitResult
}

func (ev *Evaluator) evalSum(args []*Expr, env *Environment) EvalResult {
	if len(args) == 0 {
		return Errorf("Must perform addition on at least one number")
	}
	nums, errRes := ev.evalNumbers("sum", args, env)
	if errRes.IsError() {
		return errRes
	}
	total := 0.0
	for _, n := range nums {
		total += n
	}
	return ValueOf(Number(total))
}

func (ev *Evaluator) evalDifference(args []*Expr, env *Environment) EvalResult {
	if len(args) == 0 {
		return Errorf("Must perform subtraction on at least one number")
	}
	nums, errRes := ev.evalNumbers("subtract", args, env)
	if errRes.IsError() {
		return errRes
	}
	total := nums[0]
	for _, n := range nums[1:] {
		total -= n
	}
	return ValueOf(Number(total))
}

func (ev *Evaluator) evalProduct(args []*Expr, env *Environment) EvalResult {
	if len(args) == 0 {
		return Errorf("Must perform multiplication on at least one number")
	}
	nums, errRes := ev.evalNumbers("multiply", args, env)
	if errRes.IsError() {
		return errRes
	}
	total := 1.0
	for _, n := range nums {
		total *= n
	}
	return ValueOf(Number(total))
}

func (ev *Evaluator) evalQuotient(args []*Expr, env *Environment) EvalResult {
	if len(args) == 0 {
		return Errorf("Must perform division on at least one number")
	}
	nums, errRes := ev.evalNumbers("divide", args, env)
	if errRes.IsError() {
		return errRes
	}
	total := nums[0]
	for _, n := range nums[1:] {
		total /= n
	}
	return ValueOf(Number(total))
}

// allEqualVerdict compares every element of vals against the first and
// returns "True" when none differ, "False" otherwise. An empty or
// single-element slice has nothing that differs.
func allEqualVerdict(vals []*Expr) string {
	if len(vals) == 0 {
		return "True"
	}
	for _, v := range vals[1:] {
		if !Equal(vals[0], v) {
			return "False"
		}
	}
	return "True"
}

// evalAll evaluates every argument to a value, failing on errors and on Unit.
func (ev *Evaluator) evalAll(args []*Expr, env *Environment) ([]*Expr, EvalResult) {
	out := make([]*Expr, len(args))
	for i, arg := range args {
		r := ev.Eval(arg, env)
		if r.IsError() {
			return nil, r
		}
		if !r.IsValue() {
			return nil, Errorf("Failed to eval, got Unit")
		}
		out[i] = r.Expr
	}
	return out, UnitResult
}

func (ev *Evaluator) evalEquality(args []*Expr, env *Environment) EvalResult {
	if len(args) == 0 {
		return Errorf("'=' with no arguments")
	}
	vals, errRes := ev.evalAll(args, env)
	if errRes.IsError() {
		return errRes
	}
	return ValueOf(Symbol(allEqualVerdict(vals)))
}

func (ev *Evaluator) evalInequality(args []*Expr, env *Environment) EvalResult {
	if len(args) == 0 {
		return Errorf("'!=' with no arguments")
	}
	vals, errRes := ev.evalAll(args, env)
	if errRes.IsError() {
		return errRes
	}
	if allEqualVerdict(vals) == "True" {
		return ValueOf(Symbol("False"))
	}
	return ValueOf(Symbol("True"))
}

// evalNot evaluates its argument for effects and errors, then inspects the
// raw argument: the symbols True/False flip, and a list yields the same
// verdict `=` would compute over that list's own elements.
func (ev *Evaluator) evalNot(args []*Expr, env *Environment) EvalResult {
	if len(args) != 1 {
		return Errorf("'not' expects exactly one argument")
	}
	arg := args[0]
	if r := ev.Eval(arg, env); r.IsError() {
		return Errorf("Failed to eval expr: %s", r.Msg)
	}
	switch arg.Tag {
	case TagSymbol:
		switch arg.Sym {
		case "True":
			return ValueOf(Symbol("False"))
		case "False":
			return ValueOf(Symbol("True"))
		}
		return Errorf("Invalid input for not operator")
	case TagList:
		return ValueOf(Symbol(allEqualVerdict(arg.List)))
	}
	return Errorf("Invalid input for not operator")
}

// evalAnd compares the raw, unevaluated argument expressions structurally
// against the first argument. Arguments are not evaluated.
func (ev *Evaluator) evalAnd(args []*Expr, env *Environment) EvalResult {
	if len(args) == 0 {
		return Errorf("'and' with no arguments")
	}
	for _, arg := range args {
		if !Equal(args[0], arg) {
			return ValueOf(Symbol("False"))
		}
	}
	return ValueOf(Symbol("True"))
}

// evalOr is true iff at least one raw, unevaluated argument is the literal
// symbol True.
func (ev *Evaluator) evalOr(args []*Expr, env *Environment) EvalResult {
	if len(args) == 0 {
		return Errorf("'or' with no arguments")
	}
	for _, arg := range args {
		if arg.IsSymbol("True") {
			return ValueOf(Symbol("True"))
		}
	}
	return ValueOf(Symbol("False"))
}

func (ev *Evaluator) evalLet(args []*Expr, env *Environment) EvalResult {
	if len(args) != 2 {
		return Errorf("Invalid variable definition. Should look like (let someVar someExpr)")
	}
	name := args[0]
	if name.Tag != TagSymbol {
		return Errorf("Second element of variable def must be a symbol and third must be expression.")
	}
	switch r := ev.Eval(args[1], env); r.Tag {
	case ResultValue:
		if err := env.AddVar(name.Sym, r.Expr); err != nil {
			return Errorf("%s", err)
		}
		return UnitResult
	case ResultUnit:
		return Errorf("cannot assign Unit to a variable.")
	default:
		return r
	}
}

const fnPatternMsg = "Function definitions must follow the pattern (fn fn-name (arg1 arg2 arg3 .. argn) <Expr>)"

func (ev *Evaluator) evalFn(args []*Expr, env *Environment) EvalResult {
	if len(args) != 3 {
		return Errorf(fnPatternMsg)
	}
	name, params, body := args[0], args[1], args[2]
	if name.Tag != TagSymbol || params.Tag != TagList {
		return Errorf(fnPatternMsg)
	}
	paramNames := make([]string, len(params.List))
	for i, p := range params.List {
		if p.Tag != TagSymbol {
			return Errorf("Function parameters must be symbols.")
		}
		paramNames[i] = p.Sym
	}
	if err := env.AddFn(name.Sym, paramNames, body); err != nil {
		return Errorf("%s", err)
	}
	return UnitResult
}

func (ev *Evaluator) evalPrint(args []*Expr, env *Environment) EvalResult {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = Render(arg, env)
	}
	fmt.Fprintln(ev.Out, strings.Join(parts, " "))
	return UnitResult
}

// evalIf evaluates the condition, runs the branch the condition selects for
// its side effects (empty list selects the else branch), then evaluates and
// returns the then-branch unconditionally. Preserved reference behavior, not
// a ternary.
func (ev *Evaluator) evalIf(args []*Expr, env *Environment) EvalResult {
	if len(args) != 3 {
		return Errorf("Must have format: if (<argument>) (<then block>) (<else block>)")
	}
	cond := ev.Eval(args[0], env)
	switch cond.Tag {
	case ResultError:
		return cond
	case ResultUnit:
		return Errorf("If expression predicate must return an expression.")
	}
	if cond.Expr.Tag == TagList && len(cond.Expr.List) == 0 {
		ev.Eval(args[2], env)
	} else {
		ev.Eval(args[1], env)
	}
	return ev.Eval(args[1], env)
}
