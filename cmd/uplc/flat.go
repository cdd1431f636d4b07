package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"
)

var flatFlags struct {
	cbor bool
	hexa bool
}

var flatCmd = &cobra.Command{
	Use:   "flat FILE",
	Short: "Encode a program to its flat binary form",
	Long: `Encode a program to flat bytes. With --cbor the bytes are wrapped in
the ledger's CBOR script envelope; with --hex the output is printed as
a hex string instead of raw bytes.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		program, err := readProgram(args[0])
		if err != nil {
			return err
		}
		var out []byte
		if flatFlags.cbor {
			out, err = program.ToCBOR()
		} else {
			out, err = program.Flat()
		}
		if err != nil {
			return err
		}
		if flatFlags.hexa {
			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(out))
			return nil
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	flatCmd.Flags().BoolVar(&flatFlags.cbor, "cbor", false, "wrap in the CBOR script envelope")
	flatCmd.Flags().BoolVar(&flatFlags.hexa, "hex", false, "print hex instead of raw bytes")
	rootCmd.AddCommand(flatCmd)
}
