package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
)

// WorkItem is one scheduled engine invocation.
//
// run-parallel creates one item per spec; stress-test queues the whole spec
// set once per trial. Trial is 1-based for stress-test items and 0 otherwise.
type WorkItem struct {
	ID    string
	Index int
	Trial int
	Specs []string
}

// PerFileRun is one spec file's execution record within a RunResult.
type PerFileRun struct {
	Spec    string
	Subject string
	Stats   map[string]float64
}

// RunResult is the structured outcome of one engine invocation.
//
// An engine that could not run the specs at all (as opposed to specs that ran
// and failed) reports a top-level failures marker; Failed reports it.
type RunResult struct {
	Item WorkItem
	Runs []PerFileRun
	// Failures is the raw top-level "failures" marker; nil when absent. Its
	// value ("null" included) does not matter, only its presence.
	Failures json.RawMessage
	Message  string
}

// Failed is the single engine-level failure predicate: the result document
// carried a top-level "failures" marker. Failed results are kept in the raw
// result list but excluded from aggregation.
func (r RunResult) Failed() bool {
	return r.Failures != nil
}

type resultDocument struct {
	Message json.RawMessage `json:"message"`
	Runs    []struct {
		Spec struct {
			Name     string `json:"name"`
			Relative string `json:"relative"`
			Absolute string `json:"absolute"`
		} `json:"spec"`
		Stats map[string]json.RawMessage `json:"stats"`
	} `json:"runs"`
}

// DecodeResult parses an engine result document. Stat values that are not
// JSON numbers (timestamps, nested objects) are ignored.
func DecodeResult(r io.Reader) (RunResult, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return RunResult{}, fmt.Errorf("read engine result: %w", err)
	}
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return RunResult{}, fmt.Errorf("decode engine result: %w", err)
	}
	var doc resultDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return RunResult{}, fmt.Errorf("decode engine result: %w", err)
	}

	res := RunResult{Message: messageText(doc.Message)}
	if marker, ok := top["failures"]; ok {
		if marker = bytes.TrimSpace(marker); len(marker) == 0 {
			marker = json.RawMessage("null")
		}
		res.Failures = marker
	}
	for i, run := range doc.Runs {
		spec := firstNonEmpty(run.Spec.Relative, run.Spec.Name, run.Spec.Absolute)
		if spec == "" {
			return RunResult{}, fmt.Errorf("decode engine result: run %d has no spec name", i)
		}
		res.Runs = append(res.Runs, PerFileRun{
			Spec:    spec,
			Subject: Subject(spec),
			Stats:   numericStats(run.Stats),
		})
	}
	return res, nil
}

// messageText returns a string message as is and anything else as raw JSON.
func messageText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}

func numericStats(raw map[string]json.RawMessage) map[string]float64 {
	out := make(map[string]float64, len(raw))
	for k, v := range raw {
		v = bytes.TrimSpace(v)
		if len(v) == 0 || (v[0] != '-' && (v[0] < '0' || v[0] > '9')) {
			continue
		}
		var f float64
		if err := json.Unmarshal(v, &f); err != nil {
			continue
		}
		out[k] = f
	}
	return out
}

// Subject derives the logical test name from a spec path: the base name up
// to its first '.' ("cypress/e2e/login.spec.js" -> "login").
func Subject(spec string) string {
	base := path.Base(filepath.ToSlash(spec))
	if name, _, ok := strings.Cut(base, "."); ok && name != "" {
		return name
	}
	return base
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
