package mlisp

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// --- helpers ---------------------------------------------------------------

// evalSrc lexes, parses, and evaluates src against a fresh default
// environment, returning the result and anything print wrote.
func evalSrc(t *testing.T, src string) (EvalResult, string) {
	t.Helper()
	tokens, err := Tokenize(src)
	require.NoError(t, err, "Tokenize(%q)", src)
	root, err := Parse(tokens)
	require.NoError(t, err, "Parse(%q)", src)
	var out bytes.Buffer
	ev := NewEvaluator(&out)
	return ev.Eval(root, DefaultEnvironment()), out.String()
}

func wantNumber(t *testing.T, r EvalResult, n float64) {
	t.Helper()
	require.Equal(t, ResultValue, r.Tag, "want number %g, got %s", n, r)
	require.Equal(t, TagNumber, r.Expr.Tag, "want number %g, got %s", n, r.Expr)
	require.Equal(t, n, r.Expr.Num)
}

func wantSymbol(t *testing.T, r EvalResult, name string) {
	t.Helper()
	require.Equal(t, ResultValue, r.Tag, "want symbol %s, got %s", name, r)
	require.True(t, r.Expr.IsSymbol(name), "want symbol %s, got %s", name, r.Expr)
}

func wantError(t *testing.T, r EvalResult, contains string) {
	t.Helper()
	require.Equal(t, ResultError, r.Tag, "want error containing %q, got %s", contains, r)
	require.Contains(t, r.Msg, contains)
}

// --- arithmetic ------------------------------------------------------------

func Test_Eval_Addition(t *testing.T) {
	r, _ := evalSrc(t, "(+ 1 2 3)")
	wantNumber(t, r, 6)
}

func Test_Eval_Addition_NoArguments_IsError(t *testing.T) {
	r, _ := evalSrc(t, "(+)")
	wantError(t, r, "Must perform addition on at least one number")
}

func Test_Eval_Subtraction_LeftFold(t *testing.T) {
	r, _ := evalSrc(t, "(- 5 2 1)")
	wantNumber(t, r, 2)
}

func Test_Eval_Subtraction_SingleArgument_Unchanged(t *testing.T) {
	r, _ := evalSrc(t, "(- 5)")
	wantNumber(t, r, 5)
}

func Test_Eval_Multiplication(t *testing.T) {
	r, _ := evalSrc(t, "(* 2 3 4)")
	wantNumber(t, r, 24)
}

func Test_Eval_Multiplication_NoArguments_IsError(t *testing.T) {
	r, _ := evalSrc(t, "(*)")
	wantError(t, r, "Must perform multiplication on at least one number")
}

func Test_Eval_Division_LeftFold(t *testing.T) {
	r, _ := evalSrc(t, "(/ 8 2 2)")
	wantNumber(t, r, 2)
}

func Test_Eval_Division_SingleArgument_Unchanged(t *testing.T) {
	r, _ := evalSrc(t, "(/ 5)")
	wantNumber(t, r, 5)
}

func Test_Eval_Arithmetic_NonNumericOperand_IsError(t *testing.T) {
	r, _ := evalSrc(t, "(+ 1 banana)")
	wantError(t, r, "Can only sum numbers")
}

// --- equality and inequality -----------------------------------------------

func Test_Eval_Equality_AllEqual(t *testing.T) {
	r, _ := evalSrc(t, "(= 1 1 1)")
	wantSymbol(t, r, "True")
}

func Test_Eval_Equality_Differs(t *testing.T) {
	r, _ := evalSrc(t, "(= 1 2)")
	wantSymbol(t, r, "False")
}

func Test_Eval_Equality_Structural_OverLists(t *testing.T) {
	r, _ := evalSrc(t, "(= (1 2) (1 2))")
	wantSymbol(t, r, "True")
}

func Test_Eval_Equality_SingleArgument(t *testing.T) {
	r, _ := evalSrc(t, "(= 7)")
	wantSymbol(t, r, "True")
}

func Test_Eval_Equality_NoArguments_IsError(t *testing.T) {
	r, _ := evalSrc(t, "(=)")
	wantError(t, r, "'=' with no arguments")
}

func Test_Eval_Inequality(t *testing.T) {
	r, _ := evalSrc(t, "(!= 1 2)")
	wantSymbol(t, r, "True")

	r, _ = evalSrc(t, "(!= 1 1)")
	wantSymbol(t, r, "False")
}

// --- boolean combinators (raw-argument quirks preserved) -------------------

func Test_Eval_Not_FlipsBooleanSymbols(t *testing.T) {
	r, _ := evalSrc(t, "(not True)")
	wantSymbol(t, r, "False")

	r, _ = evalSrc(t, "(not False)")
	wantSymbol(t, r, "True")
}

func Test_Eval_Not_OnNumber_IsError(t *testing.T) {
	r, _ := evalSrc(t, "(not 5)")
	wantError(t, r, "Invalid input for not operator")
}

// not on a list yields the verdict = would compute over that list's own
// elements, not a truthiness toggle.
func Test_Eval_Not_OnList_ReusesListEquality(t *testing.T) {
	r, _ := evalSrc(t, "(not (1 1 1))")
	wantSymbol(t, r, "True")

	r, _ = evalSrc(t, "(not (1 2))")
	wantSymbol(t, r, "False")
}

// and compares the raw, unevaluated argument expressions against the first.
func Test_Eval_And_ComparesRawExpressions(t *testing.T) {
	r, _ := evalSrc(t, "(and 1 1 1)")
	wantSymbol(t, r, "True")

	r, _ = evalSrc(t, "(and 1 2)")
	wantSymbol(t, r, "False")

	// Unbound symbols compare structurally without evaluation.
	r, _ = evalSrc(t, "(and banana banana)")
	wantSymbol(t, r, "True")
}

// or is true iff some raw argument is literally the symbol True.
func Test_Eval_Or_RequiresLiteralTrueSymbol(t *testing.T) {
	r, _ := evalSrc(t, "(or False True)")
	wantSymbol(t, r, "True")

	r, _ = evalSrc(t, "(or False False)")
	wantSymbol(t, r, "False")

	// (= 1 1) evaluates to True, but or never evaluates its arguments.
	r, _ = evalSrc(t, "(or (= 1 1))")
	wantSymbol(t, r, "False")
}

// --- let and fn ------------------------------------------------------------

func Test_Eval_Let_BindsInInnermostFrame(t *testing.T) {
	tokens, err := Tokenize("(let x 5)")
	require.NoError(t, err)
	root, err := Parse(tokens)
	require.NoError(t, err)

	env := DefaultEnvironment()
	r := NewEvaluator(nil).Eval(root, env)
	require.Equal(t, ResultUnit, r.Tag)

	b, ok := env.Lookup("x")
	require.True(t, ok)
	require.False(t, b.IsFunction())
	require.True(t, Equal(Number(5), b.Body))
}

func Test_Eval_Let_UnitValue_IsError(t *testing.T) {
	r, _ := evalSrc(t, "(let x (print 1))")
	wantError(t, r, "cannot assign Unit to a variable.")
}

func Test_Eval_Let_WrongShape_IsError(t *testing.T) {
	r, _ := evalSrc(t, "(let x)")
	wantError(t, r, "Invalid variable definition")

	r, _ = evalSrc(t, "(let 1 5)")
	wantError(t, r, "must be a symbol")
}

func Test_Eval_Fn_DefinitionAndCall(t *testing.T) {
	r, _ := evalSrc(t, "((fn double (n) (+ n n)) (double 21))")
	require.Equal(t, ResultValue, r.Tag)
	require.True(t, Equal(NewList(Number(42)), r.Expr), "got %s", r.Expr)
}

func Test_Eval_Fn_ArityMismatch_NamesBothCounts(t *testing.T) {
	r, _ := evalSrc(t, "((fn add (a b) (+ a b)) (add 1))")
	wantError(t, r, "provided 1 arguments but expected 2")
}

func Test_Eval_Fn_LoneSymbolForFunction_IsArityError(t *testing.T) {
	r, _ := evalSrc(t, "((fn add (a b) (+ a b)) add)")
	wantError(t, r, "provided 0 arguments but expected 2")
}

func Test_Eval_Fn_NonSymbolParameter_IsError(t *testing.T) {
	r, _ := evalSrc(t, "(fn f (a 1) a)")
	wantError(t, r, "Function parameters must be symbols.")
}

func Test_Eval_Fn_WrongShape_IsError(t *testing.T) {
	r, _ := evalSrc(t, "(fn f)")
	wantError(t, r, "Function definitions must follow the pattern")
}

func Test_Eval_Fn_UnitArgument_IsError(t *testing.T) {
	r, _ := evalSrc(t, "((fn id (a) a) (id (print 1)))")
	wantError(t, r, "Cannot pass Unit as an argument to a function.")
}

// A called function's body sees variables bound by its caller: frames are
// stacked at call time, not captured at definition site.
func Test_Eval_DynamicScoping_CalleeSeesCallerBindings(t *testing.T) {
	src := "((fn f (a) (+ a y)) (fn g (b) ((let y b) (f 1))) (g 10))"
	r, _ := evalSrc(t, src)
	require.Equal(t, ResultValue, r.Tag)
	require.True(t, Equal(NewList(NewList(Number(11))), r.Expr), "got %s", r.Expr)
}

func Test_Eval_FrameCount_RestoredAfterCall(t *testing.T) {
	env := DefaultEnvironment()
	ev := NewEvaluator(nil)

	tokens, err := Tokenize("(fn f (a) (+ a 1))")
	require.NoError(t, err)
	root, err := Parse(tokens)
	require.NoError(t, err)
	require.Equal(t, ResultUnit, ev.Eval(root, env).Tag)
	require.Equal(t, 1, env.NumContexts())

	tokens, err = Tokenize("(f 2)")
	require.NoError(t, err)
	root, err = Parse(tokens)
	require.NoError(t, err)
	wantNumber(t, ev.Eval(root, env), 3)
	require.Equal(t, 1, env.NumContexts())
}

// The call frame is released on error exits too.
func Test_Eval_FrameCount_RestoredAfterBodyError(t *testing.T) {
	env := DefaultEnvironment()
	ev := NewEvaluator(nil)

	tokens, err := Tokenize("(fn f (a) (+ a (print 1)))")
	require.NoError(t, err)
	root, err := Parse(tokens)
	require.NoError(t, err)
	require.Equal(t, ResultUnit, ev.Eval(root, env).Tag)

	tokens, err = Tokenize("(f 2)")
	require.NoError(t, err)
	root, err = Parse(tokens)
	require.NoError(t, err)
	require.True(t, ev.Eval(root, env).IsError())
	require.Equal(t, 1, env.NumContexts())
}

// --- symbols and generic lists ---------------------------------------------

func Test_Eval_UnboundSymbol_EvaluatesToItself(t *testing.T) {
	r, _ := evalSrc(t, "banana")
	wantSymbol(t, r, "banana")
}

func Test_Eval_BoundVariable_Substitutes(t *testing.T) {
	r, _ := evalSrc(t, "((let x 5) (+ x 1))")
	require.Equal(t, ResultValue, r.Tag)
	require.True(t, Equal(NewList(Number(6)), r.Expr), "got %s", r.Expr)
}

func Test_Eval_EmptyList_EvaluatesToItself(t *testing.T) {
	r, _ := evalSrc(t, "()")
	require.Equal(t, ResultValue, r.Tag)
	require.True(t, Equal(EmptyList(), r.Expr))
}

func Test_Eval_GenericList_DropsUnits_KeepsOrder(t *testing.T) {
	r, out := evalSrc(t, "((print 1) 2 (print 3) 4)")
	require.Equal(t, ResultValue, r.Tag)
	require.True(t, Equal(NewList(Number(2), Number(4)), r.Expr), "got %s", r.Expr)
	require.Equal(t, "1\n3\n", out)
}

func Test_Eval_GenericList_FailFast(t *testing.T) {
	r, out := evalSrc(t, "((+ banana) (print never))")
	wantError(t, r, "Can only sum numbers")
	require.Empty(t, out, "elements after the failing one must not run")
}

// --- print -----------------------------------------------------------------

func Test_Eval_Print_JoinsWithSpaces(t *testing.T) {
	r, out := evalSrc(t, "(print 1 2.5 hello)")
	require.Equal(t, ResultUnit, r.Tag)
	require.Equal(t, "1 2.5 hello\n", out)
}

func Test_Eval_Print_RendersBindings(t *testing.T) {
	_, out := evalSrc(t, "((let x 5) (fn f (a) a) (print x f))")
	require.Equal(t, "5 <func-object: f>\n", out)
}

// --- if (preserved quirk: the then branch is always the result) ------------

func Test_Eval_If_AlwaysReturnsThenBranch(t *testing.T) {
	r, _ := evalSrc(t, "(if True 1 2)")
	wantNumber(t, r, 1)

	r, _ = evalSrc(t, "(if False 1 2)")
	wantNumber(t, r, 1)
}

func Test_Eval_If_EvaluatesSelectedBranchForEffectsFirst(t *testing.T) {
	_, out := evalSrc(t, "(if False (print then) (print else))")
	require.Equal(t, "else\nthen\n", out)

	_, out = evalSrc(t, "(if True (print then) (print else))")
	require.Equal(t, "then\nthen\n", out)
}

func Test_Eval_If_UnitCondition_IsError(t *testing.T) {
	r, _ := evalSrc(t, "(if (print 1) 1 2)")
	wantError(t, r, "If expression predicate must return an expression.")
}

func Test_Eval_If_WrongShape_IsError(t *testing.T) {
	r, _ := evalSrc(t, "(if True 1)")
	wantError(t, r, "Must have format")
}
