package clean

import (
	"context"
	"fmt"

	"github.com/KaramelBytes/titanic-cli/internal/analysis"
	"github.com/KaramelBytes/titanic-cli/internal/dataset"
	"github.com/KaramelBytes/titanic-cli/internal/logger"
	"github.com/KaramelBytes/titanic-cli/internal/source"
	"github.com/google/uuid"
)

// DefaultIQRK is the IQR multiplier used for fare capping.
const DefaultIQRK = 3.0

// Column groups the cleaner acts on.
var (
	DroppedColumns     = []string{"cabin", "ticket"}
	CategoricalColumns = []string{"sex", "embarked", "class", "who", "alone"}
	GroupKeys          = []string{"sex", "pclass"}
)

// Pipeline applies stages in order.
type Pipeline struct {
	Stages []Stage
}

// Default returns the passenger cleaning pipeline with IQR multiplier k.
func Default(k float64) *Pipeline {
	if k <= 0 {
		k = DefaultIQRK
	}
	kinds := map[string]dataset.Kind{
		"age":      dataset.Continuous,
		"fare":     dataset.Continuous,
		"survived": dataset.Target,
	}
	for _, c := range CategoricalColumns {
		kinds[c] = dataset.Categorical
	}
	return &Pipeline{Stages: []Stage{
		Deduplicate{},
		Prune{Columns: DroppedColumns},
		CoerceKinds{Kinds: kinds},
		ImputeMode{Column: "embarked"},
		ImputeGroupedMedian{Column: "age", GroupBy: GroupKeys},
		ImputeGroupedMedian{Column: "fare", GroupBy: GroupKeys},
		CapOutliers{Column: "fare", K: k},
		CastInt{Column: "survived"},
	}}
}

// Apply runs every stage against ds, stopping at the first error.
func (p *Pipeline) Apply(ds *dataset.Dataset, log logger.Logger) error {
	if log == nil {
		log = logger.Nop()
	}
	for _, st := range p.Stages {
		if err := st.Apply(ds, log); err != nil {
			return fmt.Errorf("stage %s: %w", st.Name(), err)
		}
	}
	return nil
}

// Options configures a full cleaning run.
type Options struct {
	Selector *source.Selector
	OutPath  string
	IQRK     float64
	Log      logger.Logger
}

// Result describes a completed run.
type Result struct {
	RunID         string
	Origin        source.Origin
	OutPath       string
	Rows, Cols    int
	MissingBefore []analysis.MissingStat
	MissingAfter  []analysis.MissingStat
}

// Run selects the source, reports missingness, cleans, and writes OutPath.
func Run(ctx context.Context, opt Options) (*Result, error) {
	if opt.Selector == nil {
		return nil, fmt.Errorf("clean: no source selector")
	}
	runID := uuid.NewString()
	log := opt.Log
	if log == nil {
		log = logger.Nop()
	}
	log = log.With("run", runID)
	if opt.Selector.Log == nil {
		opt.Selector.Log = log
	}

	ds, origin, err := opt.Selector.Select(ctx)
	if err != nil {
		return nil, err
	}
	rows, cols := ds.Shape()
	log.Info("Loaded", "rows", rows, "cols", cols, "origin", origin)
	log.Info("Columns", "names", ds.Names())

	res := &Result{RunID: runID, Origin: origin, OutPath: opt.OutPath}
	res.MissingBefore = analysis.LogMissing(log, ds, "Before Cleaning")

	if err := Default(opt.IQRK).Apply(ds, log); err != nil {
		return nil, err
	}

	res.MissingAfter = analysis.LogMissing(log, ds, "After Cleaning")

	if err := ds.Save(opt.OutPath); err != nil {
		return nil, fmt.Errorf("save %s: %w", opt.OutPath, err)
	}
	res.Rows, res.Cols = ds.Shape()
	log.Info("Saved cleaned dataset", "path", opt.OutPath)
	log.Info("Final shape", "rows", res.Rows, "cols", res.Cols)
	return res, nil
}
