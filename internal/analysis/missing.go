package analysis

import (
	"math"
	"sort"

	"github.com/KaramelBytes/titanic-cli/internal/dataset"
	"github.com/KaramelBytes/titanic-cli/internal/logger"
)

// MissingStat is the missing-value count and rate of one column.
type MissingStat struct {
	Column  string
	Missing int
	Rate    float64 // rounded to 3 decimals
}

// Missing returns per-column missing counts for columns with at least one
// missing cell, most-missing first. Ties keep column order.
func Missing(ds *dataset.Dataset) []MissingStat {
	rows := ds.Rows()
	var out []MissingStat
	for _, name := range ds.Names() {
		_, miss := ds.Strings(name)
		n := 0
		for _, m := range miss {
			if m {
				n++
			}
		}
		if n == 0 {
			continue
		}
		out = append(out, MissingStat{Column: name, Missing: n, Rate: round3(float64(n) / float64(rows))})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Missing > out[j].Missing })
	return out
}

// LogMissing logs the missing-value report for ds under title.
func LogMissing(log logger.Logger, ds *dataset.Dataset, title string) []MissingStat {
	stats := Missing(ds)
	if len(stats) == 0 {
		log.Info("Missing report: no missing values", "stage", title)
		return stats
	}
	log.Info("Missing report", "stage", title, "columns", len(stats))
	for _, s := range stats {
		log.Info("missing", "column", s.Column, "count", s.Missing, "rate", s.Rate)
	}
	return stats
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}
