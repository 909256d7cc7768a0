package predict

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/KaramelBytes/titanic-cli/internal/dataset"
	"github.com/KaramelBytes/titanic-cli/internal/logger"
	"github.com/KaramelBytes/titanic-cli/internal/model"
)

// Output column names appended to the scored rows.
const (
	ProbaColumn = "survival_proba"
	PredColumn  = "survived_pred"
)

// DefaultThreshold separates positive from negative decisions.
const DefaultThreshold = 0.5

// Classifier scores rows with a positive-class probability.
type Classifier interface {
	PredictProba(ds *dataset.Dataset) ([]float64, error)
}

// Options configures a scoring run.
type Options struct {
	ModelPath  string
	InputPath  string
	OutputPath string
	// Threshold overrides the model's threshold when > 0.
	Threshold float64
	// DefaultThreshold applies when neither Threshold nor the model sets one.
	DefaultThreshold float64
	Stdout    io.Writer
	Log       logger.Logger
}

// Run loads the model artifact and scores InputPath into OutputPath.
func Run(opt Options) error {
	if opt.InputPath == "" {
		return errors.New("input path is required")
	}
	m, err := model.Load(opt.ModelPath)
	if err != nil {
		return err
	}
	threshold := opt.Threshold
	if threshold <= 0 {
		threshold = m.Threshold
	}
	if threshold <= 0 {
		threshold = opt.DefaultThreshold
	}
	return Score(m, threshold, opt)
}

// Score applies clf to InputPath and writes the decorated rows.
func Score(clf Classifier, threshold float64, opt Options) error {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	log := opt.Log
	if log == nil {
		log = logger.Nop()
	}
	ds, err := dataset.Load(opt.InputPath, dataset.ReadOptions{})
	if err != nil {
		return err
	}
	probs, err := clf.PredictProba(ds)
	if err != nil {
		return fmt.Errorf("predict: %w", err)
	}
	if len(probs) != ds.Rows() {
		return fmt.Errorf("predict: %d scores for %d rows", len(probs), ds.Rows())
	}
	preds := Decide(probs, threshold)
	if err := ds.SetFloats(ProbaColumn, probs); err != nil {
		return err
	}
	if err := ds.SetInts(PredColumn, preds); err != nil {
		return err
	}
	if err := ds.Save(opt.OutputPath); err != nil {
		return fmt.Errorf("save predictions: %w", err)
	}
	log.Debug("scored rows", "rows", ds.Rows(), "threshold", threshold)
	out := opt.Stdout
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintf(out, "Saved predictions to: %s\n", opt.OutputPath)
	return nil
}

// Decide turns probabilities into 0/1 decisions (p >= threshold -> 1).
func Decide(probs []float64, threshold float64) []int {
	out := make([]int, len(probs))
	for i, p := range probs {
		if p >= threshold {
			out[i] = 1
		}
	}
	return out
}
