package pipeline

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/hikarimat/matpipe/pkg/errors"
)

// Digest renders a human-readable summary of the fitted pipeline.
func (p *MatPipe) Digest() (string, error) {
	if !p.IsFitted() {
		return "", errors.NewNotFittedError("MatPipe", "Digest")
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.SetTitle("MatPipe " + p.id)
	t.AppendRows([]table.Row{
		{"preset", string(p.preset)},
		{"target", p.target},
		{"mode", string(p.mode)},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"excluded featurizers", joinOrNone(p.autoFeaturizer.Excludes())},
		{"dropped columns", fmt.Sprintf("%d", len(p.cleaner.DroppedColumns()))},
		{"reduced features", fmt.Sprintf("%d kept, %d removed",
			len(p.reducer.KeptFeatures()), len(p.reducer.RemovedFeatures()))},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"best model", p.adaptor.BestName()},
		{"cv score", fmt.Sprintf("%.4f", p.adaptor.BestScore())},
	})
	return t.Render(), nil
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
