package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	tawa "github.com/tawa-lang/tawa"
)

// newTrainCmd builds (or extends) a PPM model purely by updating its
// context statistics over a training corpus, with no coder involved at
// all. Grounded on original_source/Tawa-0.7/apps/train/train_ppmo.c,
// which loops TLM_update_context over the training bytes and then
// TLM_write_model, with no arithmetic coding session in between.
func newTrainCmd(flags *globalFlags) *cobra.Command {
	var modelPath string
	var alphabet, order int

	cmd := &cobra.Command{
		Use:   "train <corpus> <model-out>",
		Short: "train a PPM model's statistics over a corpus with no coding",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			defer func() { err = tawa.Recover(recover(), err) }()

			model, err := loadOrNewModel(modelPath, alphabet, order)
			if err != nil {
				return err
			}

			corpus, err := os.ReadFile(args[0])
			if err != nil {
				tawa.Raise(tawa.BadArgument, "train", "reading corpus: %v", err)
			}

			ctx := model.NewContext()
			for _, b := range corpus {
				model.UpdateContext(ctx, tawa.Symbol(b))
			}
			model.UpdateContext(ctx, tawa.SENTINEL)

			if err := saveModel(args[1], model); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "trained on %d bytes, wrote model to %s\n", len(corpus), args[1])
			return nil
		},
	}
	cmd.Flags().StringVar(&modelPath, "model", "", "extend an existing model instead of starting fresh")
	cmd.Flags().IntVar(&alphabet, "alphabet", 257, "model alphabet size for a freshly created model")
	cmd.Flags().IntVar(&order, "order", 5, "model order for a freshly created model")
	return cmd
}
