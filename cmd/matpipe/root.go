package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/hikarimat/matpipe/dataset"
	"github.com/hikarimat/matpipe/internal/config"
	"github.com/hikarimat/matpipe/pkg/errors"
	"github.com/hikarimat/matpipe/pkg/log"
)

func newRootCmd() *cobra.Command {
	var cfgPath string
	var cfg *config.Config

	root := &cobra.Command{
		Use:           "matpipe",
		Short:         "AutoML for materials datasets",
		Long:          "matpipe featurizes compositions and crystal structures, cleans and reduces the feature matrix, and selects a model by cross validation.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(cfgPath, cmd.Flags())
			if err != nil {
				return err
			}
			cfg = loaded
			log.Setup(cfg.Log.Level, cfg.Log.JSON)
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfgPath, "config", "", "path to a YAML config file")
	pf.String("preset", "balanced", "pipeline preset: balanced, performance or convenience")
	pf.String("target", "", "target column name")
	pf.String("composition_column", "", "composition column name (auto-detected when empty)")
	pf.String("structure_column", "", "structure column name (auto-detected when empty)")
	pf.Float64("max_na_frac", 0.05, "featurizer failure tolerance")
	pf.Float64("na_threshold", 0.05, "per-column missing fraction limit")
	pf.Int("folds", 5, "cross validation folds")
	pf.Int("workers", 0, "featurization workers (0 = all CPUs)")
	pf.Int64("seed", 0, "random seed")
	pf.Float64("test_fraction", 0.25, "benchmark hold-out fraction")
	pf.String("log.level", "info", "log level: debug, info, warn or error")
	pf.Bool("log.json", false, "emit JSON logs")

	root.AddCommand(
		newMetafeaturesCmd(&cfg),
		newFeaturizeCmd(&cfg),
		newBenchmarkCmd(&cfg),
		newPredictCmd(&cfg),
	)
	return root
}

// loadFrame reads the dataset and parses the configured object columns.
func loadFrame(path string, cfg *config.Config) (*dataset.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "matpipe")
	}
	defer f.Close()

	compositionCols := []string{"composition", "formula"}
	if cfg.CompositionColumn != "" {
		compositionCols = []string{cfg.CompositionColumn}
	}
	frame, err := dataset.ReadCSV(f, compositionCols...)
	if err != nil {
		return nil, err
	}

	structureCol := cfg.StructureColumn
	if structureCol == "" {
		structureCol = "structure"
	}
	if col, ok := frame.Column(structureCol); ok && col.Kind == dataset.StringKind {
		frame, err = dataset.ParseStructureColumn(frame, structureCol)
		if err != nil {
			return nil, err
		}
	}
	return frame, nil
}
