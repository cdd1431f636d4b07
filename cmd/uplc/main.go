// Command uplc is a toolkit for untyped Plutus Core programs: it
// evaluates, formats and re-encodes them between the textual and flat
// binary forms.
package main

import (
	"encoding/hex"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spacebudz/aiken/uplc/ast"
	"github.com/spacebudz/aiken/uplc/parser"
)

var rootCmd = &cobra.Command{
	Use:           "uplc",
	Short:         "Work with untyped Plutus Core programs",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// readProgram loads a program from path in whatever form it is in:
// textual source, raw flat bytes, or a hex CBOR script envelope.
func readProgram(path string) (ast.Program, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ast.Program{}, err
	}
	switch {
	case strings.HasSuffix(path, ".flat"):
		return ast.UnFlat(raw)
	case looksHex(raw):
		return ast.FromHex(strings.TrimSpace(string(raw)))
	default:
		return parser.ParseProgram(string(raw))
	}
}

func looksHex(b []byte) bool {
	s := strings.TrimSpace(string(b))
	if len(s) == 0 || len(s)%2 != 0 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
