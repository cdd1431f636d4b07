package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spacebudz/aiken/uplc/parser"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt FILE",
	Short: "Parse a program and print it back in canonical form",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		program, err := readProgram(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), parser.Print(program))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fmtCmd)
}
