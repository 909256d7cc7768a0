package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/titanic-cli/internal/dataset"
	"github.com/KaramelBytes/titanic-cli/internal/utils"
	"gonum.org/v1/gonum/floats"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownModelKind = errors.New("unknown model kind")
	ErrMissingFeature   = errors.New("input is missing a model feature")
)

// KindLogistic is the only supported artifact kind.
const KindLogistic = "logistic"

type FeatureType string

const (
	Numeric     FeatureType = "numeric"
	Categorical FeatureType = "categorical"
)

// Feature is one input column of the pipeline with its preprocessing.
type Feature struct {
	Name string      `json:"name" yaml:"name"`
	Type FeatureType `json:"type" yaml:"type"`

	// Numeric: missing -> Impute, then (x-Mean)/Std when Std > 0, times Coef.
	Impute float64 `json:"impute,omitempty" yaml:"impute,omitempty"`
	Mean   float64 `json:"mean,omitempty" yaml:"mean,omitempty"`
	Std    float64 `json:"std,omitempty" yaml:"std,omitempty"`
	Coef   float64 `json:"coef,omitempty" yaml:"coef,omitempty"`

	// Categorical: missing -> ImputeCategory; each category carries its
	// one-hot weight, unseen categories weigh 0.
	ImputeCategory string             `json:"impute_category,omitempty" yaml:"impute_category,omitempty"`
	Categories     map[string]float64 `json:"categories,omitempty" yaml:"categories,omitempty"`
}

// Pipeline is a portable logistic-regression scoring artifact.
type Pipeline struct {
	Kind      string    `json:"kind" yaml:"kind"`
	Intercept float64   `json:"intercept" yaml:"intercept"`
	Threshold float64   `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	Features  []Feature `json:"features" yaml:"features"`
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Load reads a model artifact; YAML by .yaml/.yml extension, JSON otherwise.
func Load(path string) (*Pipeline, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	var p Pipeline
	if isYAML(path) {
		err = yaml.Unmarshal(b, &p)
	} else {
		err = json.Unmarshal(b, &p)
	}
	if err != nil {
		return nil, fmt.Errorf("decode model %s: %w", filepath.Base(path), err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Save writes the artifact in the format implied by the extension.
func (p *Pipeline) Save(path string) error {
	var (
		b   []byte
		err error
	)
	if isYAML(path) {
		b, err = yaml.Marshal(p)
	} else {
		b, err = utils.PrettyJSON(p)
	}
	if err != nil {
		return fmt.Errorf("encode model: %w", err)
	}
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	return utils.SafeWriteFile(path, b)
}

// Validate checks the artifact is scorable.
func (p *Pipeline) Validate() error {
	if p.Kind == "" {
		p.Kind = KindLogistic
	}
	if p.Kind != KindLogistic {
		return fmt.Errorf("%w: %q", ErrUnknownModelKind, p.Kind)
	}
	if len(p.Features) == 0 {
		return errors.New("model has no features")
	}
	for i, f := range p.Features {
		if f.Name == "" {
			return fmt.Errorf("feature %d has no name", i)
		}
		switch f.Type {
		case Numeric, Categorical:
		default:
			return fmt.Errorf("feature %s: unknown type %q", f.Name, f.Type)
		}
	}
	return nil
}

// PredictProba returns the positive-class probability for every row of ds.
func (p *Pipeline) PredictProba(ds *dataset.Dataset) ([]float64, error) {
	rows := ds.Rows()
	nf := len(p.Features)
	// x holds the transformed inputs, w the matching weights, column-major by feature.
	x := make([][]float64, nf)
	w := make([][]float64, nf)
	for j, f := range p.Features {
		if !ds.Has(f.Name) {
			return nil, fmt.Errorf("%w: %s", ErrMissingFeature, f.Name)
		}
		x[j] = make([]float64, rows)
		w[j] = make([]float64, rows)
		switch f.Type {
		case Numeric:
			vals := ds.Floats(f.Name)
			for i, v := range vals {
				if math.IsNaN(v) {
					v = f.Impute
				}
				if f.Std > 0 {
					v = (v - f.Mean) / f.Std
				}
				x[j][i] = v
				w[j][i] = f.Coef
			}
		case Categorical:
			vals, miss := ds.Strings(f.Name)
			for i, v := range vals {
				if miss[i] {
					v = f.ImputeCategory
				}
				x[j][i] = 1
				w[j][i] = f.Categories[v]
			}
		}
	}

	out := make([]float64, rows)
	xi := make([]float64, nf)
	wi := make([]float64, nf)
	for i := 0; i < rows; i++ {
		for j := 0; j < nf; j++ {
			xi[j] = x[j][i]
			wi[j] = w[j][i]
		}
		out[i] = sigmoid(p.Intercept + floats.Dot(xi, wi))
	}
	return out, nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
