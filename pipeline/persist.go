package pipeline

import (
	"encoding/gob"
	"io"
	"os"

	"github.com/hikarimat/matpipe/automl"
	"github.com/hikarimat/matpipe/featurization"
	"github.com/hikarimat/matpipe/pkg/errors"
	"github.com/hikarimat/matpipe/pkg/log"
	"github.com/hikarimat/matpipe/preprocessing"
)

// pipeSnapshot is the gob-encoded form of a fitted pipeline.
type pipeSnapshot struct {
	ID     string
	Preset Preset
	Seed   int64
	Target string
	Mode   automl.Mode
	Labels []string

	AutoFeaturizer featurization.State
	Cleaner        preprocessing.CleanerState
	Reducer        preprocessing.ReducerState
	Adaptor        automl.AdaptorState
}

// Save writes the fitted pipeline to w. Only fitted state is stored; the
// training data itself is not.
func (p *MatPipe) Save(w io.Writer) error {
	const op = "MatPipe.Save"
	if !p.IsFitted() {
		return errors.NewNotFittedError("MatPipe", "Save")
	}
	adaptorState, err := p.adaptor.State()
	if err != nil {
		return err
	}

	snap := pipeSnapshot{
		ID:             p.id,
		Preset:         p.preset,
		Seed:           p.seed,
		Target:         p.target,
		Mode:           p.mode,
		Labels:         append([]string(nil), p.labels...),
		AutoFeaturizer: p.autoFeaturizer.State(),
		Cleaner:        p.cleaner.State(),
		Reducer:        p.reducer.State(),
		Adaptor:        adaptorState,
	}
	if err := gob.NewEncoder(w).Encode(snap); err != nil {
		return errors.Wrap(err, op)
	}
	return nil
}

// SaveFile writes the fitted pipeline to a file.
func (p *MatPipe) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "MatPipe.SaveFile")
	}
	defer f.Close()
	return p.Save(f)
}

// Load reads a pipeline saved with Save. The restored pipeline predicts
// but cannot be refit with its original meta-features.
func Load(r io.Reader) (*MatPipe, error) {
	const op = "pipeline.Load"
	var snap pipeSnapshot
	if err := gob.NewDecoder(r).Decode(&snap); err != nil {
		return nil, errors.Wrap(err, op)
	}

	p, err := NewMatPipe(snap.Preset, WithSeed(snap.Seed))
	if err != nil {
		return nil, err
	}
	p.id = snap.ID
	p.logger = log.GetLogger().With(log.PipeIDKey, p.id)
	p.target = snap.Target
	p.mode = snap.Mode
	if len(snap.Labels) > 0 {
		p.labels = append([]string(nil), snap.Labels...)
	}

	p.autoFeaturizer.RestoreState(snap.AutoFeaturizer)
	p.cleaner.RestoreState(snap.Cleaner)
	p.reducer.RestoreState(snap.Reducer)
	if err := p.adaptor.RestoreState(snap.Adaptor); err != nil {
		return nil, err
	}
	p.SetFitted()
	return p, nil
}

// LoadFile reads a pipeline saved with SaveFile.
func LoadFile(path string) (*MatPipe, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "pipeline.LoadFile")
	}
	defer f.Close()
	return Load(f)
}
