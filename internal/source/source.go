package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/KaramelBytes/titanic-cli/internal/dataset"
	"github.com/KaramelBytes/titanic-cli/internal/logger"
	"github.com/KaramelBytes/titanic-cli/internal/utils"
)

// ErrSourceUnavailable is returned when neither the primary file nor the
// fallback dataset can be loaded.
var ErrSourceUnavailable = errors.New("no passenger source available")

// Column allow-lists for the two known schemas.
var (
	KaggleColumns = []string{
		"Survived", "Pclass", "Sex", "Age", "SibSp", "Parch", "Fare", "Embarked", "Name", "Ticket", "Cabin",
	}
	ReferenceColumns = []string{
		"survived", "pclass", "sex", "age", "sibsp", "parch", "fare", "embarked", "class", "who", "adult_male", "alone",
	}
)

// Origin tells which source produced the dataset.
type Origin string

const (
	OriginPrimary  Origin = "primary"
	OriginFallback Origin = "fallback"
)

// Fetcher loads a named reference dataset.
type Fetcher interface {
	Fetch(ctx context.Context) (*dataset.Dataset, error)
	Name() string
}

// Selector picks the primary CSV when present and the fallback otherwise.
type Selector struct {
	PrimaryPath string
	Fallback    Fetcher
	Log         logger.Logger
}

// Select loads, prunes to the schema allow-list, and normalizes column names.
func (s *Selector) Select(ctx context.Context) (*dataset.Dataset, Origin, error) {
	log := s.Log
	if log == nil {
		log = logger.Nop()
	}
	ok, err := utils.FileExists(s.PrimaryPath)
	if err != nil {
		return nil, "", fmt.Errorf("stat %s: %w", s.PrimaryPath, err)
	}

	var (
		ds     *dataset.Dataset
		keep   []string
		origin Origin
	)
	if ok {
		log.Info("Reading Kaggle-style passenger CSV", "path", s.PrimaryPath)
		ds, err = dataset.Load(s.PrimaryPath, dataset.ReadOptions{})
		if err != nil {
			return nil, "", err
		}
		keep, origin = KaggleColumns, OriginPrimary
	} else {
		if s.Fallback == nil {
			return nil, "", fmt.Errorf("%w: %s not found and no fallback configured", ErrSourceUnavailable, s.PrimaryPath)
		}
		log.Info("Local CSV not found, falling back to reference dataset", "path", s.PrimaryPath, "dataset", s.Fallback.Name())
		ds, err = s.Fallback.Fetch(ctx)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
		}
		keep, origin = ReferenceColumns, OriginFallback
	}
	if err := ds.Select(keep); err != nil {
		return nil, "", fmt.Errorf("%s source: %w", origin, err)
	}
	if err := ds.RenameColumns(dataset.NormalizeName); err != nil {
		return nil, "", err
	}
	return ds, origin, nil
}
