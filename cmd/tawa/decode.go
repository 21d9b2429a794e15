package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tawa-lang/tawa/coder"
	"github.com/tawa-lang/tawa/internal/logging"

	tawa "github.com/tawa-lang/tawa"
)

// newDecodeCmd is encode's inverse, grounded on
// original_source/Tawa-0.7/apps/encode/decode1.c: decode symbols one at
// a time under the same single PPM model until the terminal SENTINEL
// comes back out.
func newDecodeCmd(flags *globalFlags) *cobra.Command {
	var modelPath string
	var alphabet, order int

	cmd := &cobra.Command{
		Use:   "decode <input> <output>",
		Short: "arithmetic-decode a byte stream under a single PPM model",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			defer func() { err = tawa.Recover(recover(), err) }()

			log := logging.New(zerologLevel(flags), flags.pretty)
			if modelPath == "" {
				tawa.Raise(tawa.BadArgument, "decode", "decode requires --model (the exact model encode used)")
			}
			model, err := loadOrNewModel(modelPath, alphabet, order)
			if err != nil {
				return err
			}

			in, err := os.Open(args[0])
			if err != nil {
				tawa.Raise(tawa.BadArgument, "decode", "opening input: %v", err)
			}
			defer in.Close()
			out, err := os.Create(args[1])
			if err != nil {
				tawa.Raise(tawa.BadArgument, "decode", "creating output: %v", err)
			}
			defer out.Close()

			c, err := coder.NewDecoder(in, log)
			if err != nil {
				return err
			}
			ctx := model.NewContext()

			pos := 0
			for {
				sym, _, err := model.DecodeSymbol(ctx, c)
				if err != nil {
					return err
				}
				if sym == tawa.SENTINEL {
					break
				}
				if _, err := out.Write([]byte{byte(sym)}); err != nil {
					return err
				}
				pos++
				channels(flags).LogProgress(log, pos, 0, pos)
			}
			if err := c.FinishDecode(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "decoded %d symbols\n", pos)
			return nil
		},
	}
	cmd.Flags().StringVar(&modelPath, "model", "", "load the PPM model trained/saved by encode")
	cmd.Flags().IntVar(&alphabet, "alphabet", 257, "model alphabet size, must match encode's")
	cmd.Flags().IntVar(&order, "order", 5, "model order, must match encode's")
	return cmd
}
