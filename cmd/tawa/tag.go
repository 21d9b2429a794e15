package main

import (
	"fmt"

	"github.com/spf13/cobra"

	tawa "github.com/tawa-lang/tawa"
)

// newTagCmd runs the search engine over a rule set that labels each
// token with a tag symbol, grounded on
// original_source/Tawa-0.7/apps/transform/tag.c's TTM_create_transform/
// TTM_add_transform/TTM_start_transform/TTM_perform_transform sequence.
func newTagCmd(flags *globalFlags) *cobra.Command {
	var configPath, rulesPath string

	cmd := &cobra.Command{
		Use:   "tag <input> <output>",
		Short: "find the minimum-codelength tag sequence for a token stream",
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
			fmt.Fprintf(cmd.OutOrStdout(), "tagged %d input symbols into %d output symbols\n", len(input), len(best))
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "transform configuration YAML (algorithm, context scope, models)")
	cmd.Flags().StringVar(&rulesPath, "rules", "", "tagging rewrite-rule file")
	cmd.MarkFlagRequired("config")
	cmd.MarkFlagRequired("rules")
	return cmd
}
