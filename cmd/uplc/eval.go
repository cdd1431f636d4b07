package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spacebudz/aiken/uplc"
	"github.com/spacebudz/aiken/uplc/ast"
	"github.com/spacebudz/aiken/uplc/machine"
	"github.com/spacebudz/aiken/uplc/parser"
)

var evalFlags struct {
	cpu int64
	mem int64
}

var evalCmd = &cobra.Command{
	Use:   "eval FILE [ARG...]",
	Short: "Evaluate a program, applying any extra arguments first",
	Long: `Evaluate a program under the PlutusV2 cost model. Extra arguments are
parsed as bare terms and applied to the program left to right. Trace
messages stream to stderr; the reduced term and the budget consumed
print to stdout.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		program, err := readProgram(args[0])
		if err != nil {
			return err
		}
		var applied []ast.Term
		for _, src := range args[1:] {
			term, err := parser.ParseTerm(src)
			if err != nil {
				return err
			}
			applied = append(applied, term)
		}
		opts := uplc.Options{
			Budget:   &machine.ExBudget{CPU: evalFlags.cpu, Mem: evalFlags.mem},
			TraceOut: cmd.ErrOrStderr(),
		}
		res, err := uplc.EvalWith(program, opts, applied...)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "evaluation failed: %s\nbudget consumed: %v\n", err, res.Consumed)
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), parser.PrintTerm(res.Term))
		fmt.Fprintf(cmd.OutOrStdout(), "budget consumed: %v\n", res.Consumed)
		return nil
	},
}

func init() {
	evalCmd.Flags().Int64Var(&evalFlags.cpu, "cpu", machine.DefaultBudget.CPU, "cpu budget")
	evalCmd.Flags().Int64Var(&evalFlags.mem, "mem", machine.DefaultBudget.Mem, "memory budget")
	rootCmd.AddCommand(evalCmd)
}
