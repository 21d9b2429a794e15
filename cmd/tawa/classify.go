package main

import (
	"fmt"

	"github.com/spf13/cobra"

	tawa "github.com/tawa-lang/tawa"
)

// newClassifyCmd picks the candidate model with the lowest total
// codelength (lowest cross-entropy) over an input sequence, with no
// confusion trie or search engine involved. Grounded on
// original_source/Tawa-0.7/apps/classify/ident_word.c, which loads one
// model per candidate class, measures each one's codelength over the
// same input, and reports whichever scored lowest.
func newClassifyCmd(flags *globalFlags) *cobra.Command {
	var modelPaths []string
	var labels []string

	cmd := &cobra.Command{
		Use:   "classify <input>",
		Short: "report which candidate model assigns the input the lowest codelength",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			defer func() { err = tawa.Recover(recover(), err) }()

			if len(modelPaths) == 0 {
				tawa.Raise(tawa.BadArgument, "classify", "at least one --model is required")
			}
			if len(labels) != 0 && len(labels) != len(modelPaths) {
				tawa.Raise(tawa.BadArgument, "classify", "--label count (%d) must match --model count (%d)", len(labels), len(modelPaths))
			}

			input, err := readSequence(args[0])
			if err != nil {
				return err
			}

			bestIdx := -1
			bestCL := 0.0
			for i, path := range modelPaths {
				model, err := loadExistingModel(path)
				if err != nil {
					return err
				}
				ctx := model.NewContext()
				total := 0.0
				for _, sym := range input {
					total += model.UpdateContext(ctx, sym)
				}
				total += model.UpdateContext(ctx, tawa.SENTINEL)

				label := path
				if i < len(labels) {
					label = labels[i]
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %.3f bits (%.4f bits/symbol)\n", label, total, total/float64(len(input)+1))

				if bestIdx == -1 || total < bestCL {
					bestIdx, bestCL = i, total
				}
			}

			label := modelPaths[bestIdx]
			if bestIdx < len(labels) {
				label = labels[bestIdx]
			}
			fmt.Fprintf(cmd.OutOrStdout(), "lowest codelength: %s (%.3f bits)\n", label, bestCL)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&modelPaths, "model", nil, "candidate model file (repeatable)")
	cmd.Flags().StringArrayVar(&labels, "label", nil, "display label for the corresponding --model (repeatable, optional)")
	return cmd
}
