package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/purc-go/purc/ejson"
	"github.com/purc-go/purc/internal/reader"
	"github.com/purc-go/purc/variant"
	"github.com/purc-go/purc/vcm/eval"
)

var evalSilent bool

func init() {
	cmd := newEvalCmd()
	cmd.Flags().BoolVar(&evalSilent, "silent", false, "evaluate an undefined variable as UNDEFINED instead of erroring")
	rootCmd.AddCommand(cmd)
}

func newEvalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "eval <expr>",
		Short: "Evaluate a standalone eJSON/JSONEE expression with no variable bindings",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runEval(args[0])
		},
	}
}

// noBindings rejects every variable lookup, matching a REPL-style
// expression with no enclosing HVML element context to resolve `$` names
// against.
func noBindings(ctx any, name string) (*variant.Value, bool) { return nil, false }

func runEval(expr string) error {
	rd := reader.New(strings.NewReader(expr), 0)
	root, err := ejson.New().ParseValue(rd)
	if err != nil {
		return fmt.Errorf("eval: %w", err)
	}

	v, err := eval.New(noBindings, evalSilent).Evaluate(root, nil)
	if err != nil {
		return fmt.Errorf("eval: %w", err)
	}
	fmt.Printf("%s: %s\n", v.Kind(), v.Stringify())
	return nil
}
