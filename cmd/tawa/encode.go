package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tawa-lang/tawa/coder"
	"github.com/tawa-lang/tawa/internal/logging"
	"github.com/tawa-lang/tawa/ppm"

	tawa "github.com/tawa-lang/tawa"
)

// newEncodeCmd is a plain character-level PPM compressor: a single
// model, no confusion trie, no search engine. Grounded on
// original_source/Tawa-0.7/apps/encode/encode.c's encodeText, which
// reads bytes, calls TLM_encode_symbol once per byte, and finishes with
// a terminal SENTINEL.
func newEncodeCmd(flags *globalFlags) *cobra.Command {
	var modelPath string
	var alphabet, order int

	cmd := &cobra.Command{
		Use:   "encode <input> <output>",
		Short: "arithmetic-encode a byte stream under a single PPM model",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			defer func() { err = tawa.Recover(recover(), err) }()

			log := logging.New(zerologLevel(flags), flags.pretty)
			model, err := loadOrNewModel(modelPath, alphabet, order)
			if err != nil {
				return err
			}

			in, err := os.Open(args[0])
			if err != nil {
				tawa.Raise(tawa.BadArgument, "encode", "opening input: %v", err)
			}
			defer in.Close()
			out, err := os.Create(args[1])
			if err != nil {
				tawa.Raise(tawa.BadArgument, "encode", "creating output: %v", err)
			}
			defer out.Close()

			c := coder.NewEncoder(out, log)
			ctx := model.NewContext()
			buf := make([]byte, 1)
			pos := 0
			for {
				n, readErr := in.Read(buf)
				if n == 1 {
					pos++
					if _, err := model.EncodeSymbol(ctx, c, tawa.Symbol(buf[0])); err != nil {
						return err
					}
					channels(flags).LogProgress(log, pos, pos, 0)
				}
				if readErr != nil {
					break
				}
			}
			if _, err := model.EncodeSymbol(ctx, c, tawa.SENTINEL); err != nil {
				return err
			}
			if err := c.FinishEncode(); err != nil {
				return err
			}

			if modelPath != "" {
				if err := saveModel(modelPath, model); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "encoded %d symbols\n", pos)
			return nil
		},
	}
	cmd.Flags().StringVar(&modelPath, "model", "", "load/save the PPM model from/to this path; omitted means a fresh order-N model that is discarded")
	cmd.Flags().IntVar(&alphabet, "alphabet", 257, "model alphabet size for a freshly created model (256 bytes + SENTINEL)")
	cmd.Flags().IntVar(&order, "order", 5, "model order for a freshly created model")
	return cmd
}

func loadOrNewModel(path string, alphabet, order int) (*ppm.Model, error) {
	if path == "" {
		return ppm.NewModel(alphabet, order), nil
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return ppm.NewModel(alphabet, order), nil
	}
	if err != nil {
		tawa.Raise(tawa.BadArgument, "loadOrNewModel", "opening model file: %v", err)
	}
	defer f.Close()
	return ppm.Read(f)
}

// loadExistingModel loads a model that must already exist, for
// commands like classify where a missing candidate is a usage error
// rather than an invitation to start fresh.
func loadExistingModel(path string) (*ppm.Model, error) {
	f, err := os.Open(path)
	if err != nil {
		tawa.Raise(tawa.BadArgument, "loadExistingModel", "opening model file %q: %v", path, err)
	}
	defer f.Close()
	return ppm.Read(f)
}

func saveModel(path string, m *ppm.Model) error {
	f, err := os.Create(path)
	if err != nil {
		tawa.Raise(tawa.BadArgument, "saveModel", "creating model file: %v", err)
	}
	defer f.Close()
	return m.Write(f)
}
