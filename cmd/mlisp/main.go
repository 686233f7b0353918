// Command mlisp runs an s-expression program from a file.
//
// Usage:
//
//	mlisp run <file>
//
// The program's print forms write to stdout. With --result the final value of
// the root expression is printed as well; by default only print output is
// user-visible. Lex and parse failures are reported as caret-annotated
// snippets; all failures exit non-zero.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	mlisp "github.com/aegonzalez2432/Mlisp"
)

const appName = "mlisp"

func main() {
	app := &cli.App{
		Name:  appName,
		Usage: "A tiny s-expression language interpreter.",
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "Evaluate a program file.",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "result",
						Usage: "Also print the final result of the root expression.",
					},
				},
				Action: runAction,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("%v", err))
		os.Exit(1)
	}
}

func runAction(c *cli.Context) error {
	if c.NArg() != 1 {
		cli.ShowSubcommandHelp(c)
		return cli.Exit(color.RedString("%s run: expected exactly one file argument", appName), 2)
	}
	path := c.Args().First()
	src, err := os.ReadFile(path)
	if err != nil {
		return cli.Exit(color.RedString("%s: %v", appName, err), 1)
	}

	ip := mlisp.NewInterpreter()
	res := ip.RunFile(path, string(src))
	if res.IsError() {
		return cli.Exit(color.RedString("%s", res.Msg), 1)
	}
	if c.Bool("result") && res.IsValue() {
		fmt.Println(res.String())
	}
	return nil
}
