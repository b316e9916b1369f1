// Package engine is the boundary to the external test-execution engine.
package engine

import (
	"context"
	"fmt"
	"strings"
)

// Engine runs one WorkItem.
//
// A structured engine-level failure is reported as a RunResult whose Failed
// method returns true. A non-nil error means the engine could not produce a
// result at all; callers treat it as fatal for the whole batch.
type Engine interface {
	Execute(ctx context.Context, item WorkItem) (RunResult, error)
}

// Func adapts a plain function to Engine.
type Func func(ctx context.Context, item WorkItem) (RunResult, error)

func (f Func) Execute(ctx context.Context, item WorkItem) (RunResult, error) {
	return f(ctx, item)
}

// FatalError describes an engine invocation that produced no result.
type FatalError struct {
	ItemID   string
	Specs    []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *FatalError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "engine run %s (%s) failed", e.ItemID, strings.Join(e.Specs, ","))
	if e.ExitCode != 0 {
		fmt.Fprintf(&b, " with exit code %d", e.ExitCode)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if s := strings.TrimSpace(e.Stderr); s != "" {
		fmt.Fprintf(&b, "\n%s", s)
	}
	return b.String()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}
