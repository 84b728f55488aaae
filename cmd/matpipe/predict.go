package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hikarimat/matpipe/dataset"
	"github.com/hikarimat/matpipe/internal/config"
	"github.com/hikarimat/matpipe/pipeline"
	"github.com/hikarimat/matpipe/pkg/errors"
)

func newPredictCmd(cfg **config.Config) *cobra.Command {
	var modelPath string
	var outPath string

	cmd := &cobra.Command{
		Use:   "predict <data.csv>",
		Short: "Predict targets with a previously saved pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if modelPath == "" {
				return errors.NewValidationError("model", "required", modelPath)
			}
			frame, err := loadFrame(args[0], *cfg)
			if err != nil {
				return err
			}

			pipe, err := pipeline.LoadFile(modelPath)
			if err != nil {
				return err
			}
			out, err := pipe.Predict(frame)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "predicted %q for %d rows\n",
				pipe.Target(), out.NumRows())
			if outPath == "" {
				return dataset.WriteCSV(cmd.OutOrStdout(), out)
			}
			w, err := os.Create(outPath)
			if err != nil {
				return errors.Wrap(err, "matpipe predict")
			}
			defer w.Close()
			return dataset.WriteCSV(w, out)
		},
	}
	cmd.Flags().StringVar(&modelPath, "model", "", "path to a saved pipeline")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write predictions as CSV")
	return cmd
}
