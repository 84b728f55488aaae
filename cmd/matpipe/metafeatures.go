package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/hikarimat/matpipe/internal/config"
	"github.com/hikarimat/matpipe/metafeature"
)

func newMetafeaturesCmd(cfg **config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "metafeatures <data.csv>",
		Short: "Compute dataset meta-features and the resulting featurizer exclusions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			frame, err := loadFrame(args[0], *cfg)
			if err != nil {
				return err
			}

			selector, err := metafeature.NewMetaSelector((*cfg).MaxNAFrac)
			if err != nil {
				return err
			}
			excludes, err := selector.AutoExcludes(frame)
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"section", "meta-feature", "value"})
			for _, item := range selector.Metafeatures().Items() {
				t.AppendRow(table.Row{item.Section, item.Name, fmt.Sprintf("%g", item.Value)})
			}
			t.Render()

			if len(excludes) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no featurizers excluded")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "excluded featurizers:")
			for _, name := range excludes {
				fmt.Fprintln(cmd.OutOrStdout(), " -", name)
			}
			return nil
		},
	}
}
