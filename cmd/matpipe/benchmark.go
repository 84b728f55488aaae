package main

import (
	"fmt"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/hikarimat/matpipe/automl"
	"github.com/hikarimat/matpipe/internal/config"
	"github.com/hikarimat/matpipe/pipeline"
	"github.com/hikarimat/matpipe/pkg/errors"
)

func newBenchmarkCmd(cfg **config.Config) *cobra.Command {
	var plotPath string
	var savePath string

	cmd := &cobra.Command{
		Use:   "benchmark <data.csv>",
		Short: "Fit the pipeline on a train split and score the hold-out rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := *cfg
			if c.Target == "" {
				return errors.NewValidationError("target", "required", c.Target)
			}
			frame, err := loadFrame(args[0], c)
			if err != nil {
				return err
			}

			pipe, err := pipeline.NewMatPipe(pipeline.Preset(c.Preset),
				pipeline.WithSeed(c.Seed))
			if err != nil {
				return err
			}
			result, err := pipe.Benchmark(frame, c.Target, c.TestFraction)
			if err != nil {
				return err
			}

			digest, err := pipe.Digest()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), digest)

			if len(result.Scores) > 0 {
				t := table.NewWriter()
				t.SetOutputMirror(cmd.OutOrStdout())
				t.SetStyle(table.StyleLight)
				t.AppendHeader(table.Row{"metric", "value"})
				names := make([]string, 0, len(result.Scores))
				for name := range result.Scores {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					t.AppendRow(table.Row{name, fmt.Sprintf("%.4f", result.Scores[name])})
				}
				t.Render()
			}

			if plotPath != "" {
				if result.Mode != automl.Regression {
					return errors.NewValueError("matpipe benchmark", "parity plots need a regression target")
				}
				if result.Predictions == nil {
					return errors.NewValueError("matpipe benchmark", "parity plots need a hold-out split")
				}
				if err := parityPlot(result, c.Target, plotPath); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "parity plot written to", plotPath)
			}

			if savePath != "" {
				if err := pipe.SaveFile(savePath); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "pipeline saved to", savePath)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&plotPath, "plot", "", "write a parity plot PNG")
	cmd.Flags().StringVar(&savePath, "save", "", "save the fitted pipeline")
	return cmd
}
