package main

import (
	"fmt"

	"github.com/spf13/cobra"

	tawa "github.com/tawa-lang/tawa"
)

// newSegmentCmd runs the search engine over a rule set that inserts
// word-boundary markers into unsegmented text, grounded on
// original_source/Tawa-0.7/apps/transform/segment.c (the same
// TTM_perform_transform driver as tag.c, aimed at a boundary-insertion
// rule file instead of a labelling one).
func newSegmentCmd(flags *globalFlags) *cobra.Command {
	var configPath, rulesPath string

	cmd := &cobra.Command{
		Use:   "segment <input> <output>",
		Short: "find the minimum-codelength word segmentation of raw text",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			defer func() { err = tawa.Recover(recover(), err) }()

			input, err := readSequence(args[0])
			if err != nil {
				return err
			}
			best, err := runTransform(configPath, rulesPath, input)
			if err != nil {
				return err
			}
			if err := writeSequence(args[1], best); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "segmented %d input symbols into %d output symbols\n", len(input), len(best))
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "transform configuration YAML (algorithm, context scope, models)")
	cmd.Flags().StringVar(&rulesPath, "rules", "", "segmentation rewrite-rule file")
	cmd.MarkFlagRequired("config")
	cmd.MarkFlagRequired("rules")
	return cmd
}
