package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tawa-lang/tawa/coder"
	"github.com/tawa-lang/tawa/internal/logging"
	"github.com/tawa-lang/tawa/word"

	tawa "github.com/tawa-lang/tawa"
)

// newWordEncodeCmd runs the word/nonword dual-PPM encoder of the word
// package, grounded on
// original_source/Tawa-0.7/apps/encode/encode_word.c: a words model
// bundling four sub-models (word/nonword token models plus their
// escape character models) over one text stream.
func newWordEncodeCmd(flags *globalFlags) *cobra.Command {
	var tokenOrder, charOrder int

	cmd := &cobra.Command{
		Use:   "wordencode <input> <output>",
		Short: "arithmetic-encode text under the word/nonword dual-PPM model",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			defer func() { err = tawa.Recover(recover(), err) }()

			log := logging.New(zerologLevel(flags), flags.pretty)
			data, err := os.ReadFile(args[0])
			if err != nil {
				tawa.Raise(tawa.BadArgument, "wordencode", "reading input: %v", err)
			}
			text := make(tawa.Sequence, len(data))
			for i, b := range data {
				text[i] = tawa.Symbol(b)
			}

			out, err := os.Create(args[1])
			if err != nil {
				tawa.Raise(tawa.BadArgument, "wordencode", "creating output: %v", err)
			}
			defer out.Close()

			c := coder.NewEncoder(out, log)
			p := word.NewProcessor(1, tokenOrder, 257, charOrder, log)
			total, err := p.Encode(c, text)
			if err != nil {
				return err
			}
			if err := c.FinishEncode(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "encoded %d bytes in %.3f bits (%.4f bits/byte)\n", len(data), total, total/float64(len(data)+1))
			return nil
		},
	}
	cmd.Flags().IntVar(&tokenOrder, "token-order", 3, "order of the word/nonword token PPM models")
	cmd.Flags().IntVar(&charOrder, "char-order", 5, "order of the escape character PPM models")
	return cmd
}

// newWordDecodeCmd is wordencode's inverse, grounded on
// original_source/Tawa-0.7/apps/encode/decode_word.c.
func newWordDecodeCmd(flags *globalFlags) *cobra.Command {
	var tokenOrder, charOrder int

	cmd := &cobra.Command{
		Use:   "worddecode <input> <output>",
		Short: "arithmetic-decode text encoded under the word/nonword dual-PPM model",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			defer func() { err = tawa.Recover(recover(), err) }()

			log := logging.New(zerologLevel(flags), flags.pretty)
			in, err := os.Open(args[0])
			if err != nil {
				tawa.Raise(tawa.BadArgument, "worddecode", "opening input: %v", err)
			}
			defer in.Close()

			c, err := coder.NewDecoder(in, log)
			if err != nil {
				return err
			}
			p := word.NewProcessor(1, tokenOrder, 257, charOrder, log)
			text, err := p.Decode(c)
			if err != nil {
				return err
			}
			if err := c.FinishDecode(); err != nil {
				return err
			}

			out := make([]byte, len(text))
			for i, s := range text {
				out[i] = byte(s)
			}
			if err := os.WriteFile(args[1], out, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "decoded %d bytes\n", len(out))
			return nil
		},
	}
	cmd.Flags().IntVar(&tokenOrder, "token-order", 3, "order of the word/nonword token PPM models, must match wordencode's")
	cmd.Flags().IntVar(&charOrder, "char-order", 5, "order of the escape character PPM models, must match wordencode's")
	return cmd
}
