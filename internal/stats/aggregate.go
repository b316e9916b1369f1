// Package stats reduces raw engine results into per-subject summed statistics.
package stats

import (
	"sort"
	"strings"

	"swarmrun/internal/engine"
)

// SubjectStats maps a statistic name to its accumulated value.
type SubjectStats map[string]float64

// Summary maps a subject (spec base name without suffix) to its statistics.
type Summary map[string]SubjectStats

const (
	wallClockPrefix = "wallClock"
	suitesField     = "suites"
)

// Summable reports whether a statistic can be added across runs. Wall-clock
// fields and the suites field never are.
func Summable(name string) bool {
	return !strings.HasPrefix(name, wallClockPrefix) && name != suitesField
}

// Aggregate sums the statistics of every successful run per subject.
// Engine-level failures contribute nothing. The result does not depend on the
// order of results.
func Aggregate(results []engine.RunResult) Summary {
	values := make(map[string]map[string][]float64)
	for _, res := range results {
		if res.Failed() {
			continue
		}
		for _, run := range res.Runs {
			subject := run.Subject
			if subject == "" {
				subject = engine.Subject(run.Spec)
			}
			acc, ok := values[subject]
			if !ok {
				acc = make(map[string][]float64)
				values[subject] = acc
			}
			for name, v := range run.Stats {
				if !Summable(name) {
					continue
				}
				acc[name] = append(acc[name], v)
			}
		}
	}

	out := make(Summary, len(values))
	for subject, fields := range values {
		st := make(SubjectStats, len(fields))
		for name, vs := range fields {
			st[name] = sum(vs)
		}
		out[subject] = st
	}
	return out
}

// sum adds values in sorted order so fractional stats come out bit-identical
// no matter which run finished first.
func sum(vs []float64) float64 {
	sort.Float64s(vs)
	var total float64
	for _, v := range vs {
		total += v
	}
	return total
}

// Subjects returns the subject names in sorted order.
func (s Summary) Subjects() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Keys returns the statistic names in sorted order.
func (s SubjectStats) Keys() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Samples counts how many engine runs contributed to a Summary.
type Samples struct {
	Total        int `json:"total"`
	Succeeded    int `json:"succeeded"`
	EngineFailed int `json:"engine_failed"`
}

func Count(results []engine.RunResult) Samples {
	s := Samples{Total: len(results)}
	for _, r := range results {
		if r.Failed() {
			s.EngineFailed++
		} else {
			s.Succeeded++
		}
	}
	return s
}
