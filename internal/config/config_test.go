package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perrors "github.com/hikarimat/matpipe/pkg/errors"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "balanced", cfg.Preset)
	assert.InDelta(t, 0.05, cfg.MaxNAFrac, 1e-12)
	assert.Equal(t, 5, cfg.Folds)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.JSON)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matpipe.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"preset: performance\nfolds: 10\nlog:\n  level: debug\n"), 0o644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "performance", cfg.Preset)
	assert.Equal(t, 10, cfg.Folds)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Untouched keys keep their defaults.
	assert.InDelta(t, 0.25, cfg.TestFraction, 1e-12)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matpipe.yaml")
	require.NoError(t, os.WriteFile(path, []byte("preset: performance\n"), 0o644))
	t.Setenv("MATPIPE_PRESET", "convenience")
	t.Setenv("MATPIPE_LOG__JSON", "true")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "convenience", cfg.Preset)
	assert.True(t, cfg.Log.JSON)
}

func TestLoadFlagsWin(t *testing.T) {
	t.Setenv("MATPIPE_FOLDS", "3")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("folds", 5, "")
	flags.String("target", "", "")
	require.NoError(t, flags.Parse([]string{"--folds", "7", "--target", "gap"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Folds)
	assert.Equal(t, "gap", cfg.Target)
}

func TestLoadValidation(t *testing.T) {
	t.Setenv("MATPIPE_MAX_NA_FRAC", "1.5")

	_, err := Load("", nil)
	var ve *perrors.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/matpipe.yaml", nil)
	assert.Error(t, err)
}
