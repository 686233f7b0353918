// interpreter.go — the public pipeline surface: source -> tokens -> one root
// expression -> EvalResult.
//
// Lexing and parsing are short-circuiting pre-evaluation stages: a failure
// there aborts before any evaluation and surfaces as a labeled Error result
// ("Lex error: …" / "Parse error: …"). Each Run call evaluates against a
// fresh default environment; an Interpreter carries no state across runs
// beyond its output writer.
package mlisp

import (
	"io"
	"os"
)

// Interpreter runs whole programs. Out receives print output; it defaults to
// os.Stdout.
type Interpreter struct {
	Out io.Writer
}

// NewInterpreter returns an interpreter printing to os.Stdout.
func NewInterpreter() *Interpreter {
	return &Interpreter{Out: os.Stdout}
}

// Run lexes, parses, and evaluates the given program against a fresh default
// environment. Exactly one root expression is consumed; see Parse for the
// single-root contract.
func (ip *Interpreter) Run(src string) EvalResult {
	tokens, err := Tokenize(src)
	if err != nil {
		return Errorf("Lex error: %v", err)
	}
	root, err := Parse(tokens)
	if err != nil {
		return Errorf("Parse error: %v", err)
	}
	ev := NewEvaluator(ip.Out)
	return ev.Eval(root, DefaultEnvironment())
}

// RunFile is Run for file-backed sources: lex and parse failures are rendered
// as caret-annotated snippets naming the file, for CLI consumption. Evaluation
// behaves exactly as Run.
func (ip *Interpreter) RunFile(name, src string) EvalResult {
	tokens, err := Tokenize(src)
	if err != nil {
		// The snippet header already names the stage ("LEXICAL ERROR").
		return Errorf("%v", WrapErrorWithName(err, name, src))
	}
	root, err := Parse(tokens)
	if err != nil {
		return Errorf("%v", WrapErrorWithName(err, name, src))
	}
	ev := NewEvaluator(ip.Out)
	return ev.Eval(root, DefaultEnvironment())
}
