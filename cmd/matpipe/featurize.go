package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hikarimat/matpipe/dataset"
	"github.com/hikarimat/matpipe/featurization"
	"github.com/hikarimat/matpipe/internal/config"
	"github.com/hikarimat/matpipe/pkg/errors"
)

func newFeaturizeCmd(cfg **config.Config) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "featurize <data.csv>",
		Short: "Featurize a dataset and write the numeric feature matrix",
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

			opts := []featurization.Option{
				featurization.WithMaxNAFrac(c.MaxNAFrac),
				featurization.WithWorkers(c.Workers),
			}
			if c.CompositionColumn != "" {
				opts = append(opts, featurization.WithCompositionColumn(c.CompositionColumn))
			}
			if c.StructureColumn != "" {
				opts = append(opts, featurization.WithStructureColumn(c.StructureColumn))
			}
			af := featurization.NewAutoFeaturizer(opts...)

			out, err := af.FitTransform(frame, c.Target)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "featurized %d rows into %d columns\n",
				out.NumRows(), out.NumCols())
			if len(af.Excludes()) > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "excluded featurizers:")
				for _, name := range af.Excludes() {
					fmt.Fprintln(cmd.OutOrStdout(), " -", name)
				}
			}

			if outPath == "" {
				return nil
			}
			w, err := os.Create(outPath)
			if err != nil {
				return errors.Wrap(err, "matpipe featurize")
			}
			defer w.Close()
			return dataset.WriteCSV(w, out)
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the featurized matrix as CSV")
	return cmd
}
