// Package scheduler fans work items out to the engine under a concurrency cap.
package scheduler

import (
	"context"
	"errors"
	"fmt"

	"swarmrun/internal/engine"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Worker executes one work item. A returned error is fatal for the batch.
type Worker func(ctx context.Context, item engine.WorkItem) (engine.RunResult, error)

type Scheduler struct {
	worker      Worker
	concurrency int

	// OnDone, if set, is called once per completed item. Calls may come from
	// several goroutines at once.
	OnDone func(item engine.WorkItem, res engine.RunResult)
}

func NewScheduler(worker Worker, concurrency int) (*Scheduler, error) {
	if worker == nil {
		return nil, errors.New("worker is nil")
	}
	if concurrency <= 0 {
		return nil, fmt.Errorf("concurrency must be >= 1, got %d", concurrency)
	}
	return &Scheduler{worker: worker, concurrency: concurrency}, nil
}

// Run executes items with at most concurrency workers in flight. As soon as a
// worker finishes, the next pending item starts.
//
// Semantics:
//   - On success, exactly len(items) results are returned, in input order.
//   - On the first worker error no new items are dispatched; workers already
//     running are not interrupted and are waited for. The error is returned
//     without results.
//   - Canceling ctx stops dispatch the same way. Once every item has been
//     dispatched, a late cancel no longer discards the results.
//   - Workers receive ctx itself, not a context derived from the batch, so a
//     fatal error in one worker never cancels its siblings.
func (s *Scheduler) Run(ctx context.Context, items []engine.WorkItem) ([]engine.RunResult, error) {
	if ctx == nil {
		return nil, errors.New("context is nil")
	}
	if s == nil {
		return nil, errors.New("scheduler is nil")
	}
	if s.worker == nil {
		return nil, errors.New("scheduler worker is nil")
	}
	if s.concurrency <= 0 {
		return nil, fmt.Errorf("scheduler concurrency must be >= 1, got %d", s.concurrency)
	}

	results := make([]engine.RunResult, len(items))

	// dispatchCtx only gates dispatch. A failing worker cancels it before
	// giving its slot back, and the slot is taken and the abort checked
	// before a goroutine exists, so an item that was dispatched always runs.
	dispatchCtx, stopDispatch := context.WithCancel(ctx)
	defer stopDispatch()
	var g errgroup.Group
	sem := make(chan struct{}, s.concurrency)

	dispatched := 0
	for i := range items {
		sem <- struct{}{}
		if dispatchCtx.Err() != nil {
			<-sem
			break
		}
		item := items[i]
		dispatched++
		g.Go(func() error {
			defer func() { <-sem }()
			res, err := s.worker(ctx, item)
			if err != nil {
				stopDispatch()
				return err
			}
			// Each index is written by exactly one goroutine.
			results[i] = res
			if s.OnDone != nil {
				s.OnDone(item, res)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if dispatched < len(items) {
		// Only a canceled parent stops dispatch without a worker error.
		return nil, ctx.Err()
	}
	return results, nil
}

// PerSpec creates one work item per spec (run-parallel).
func PerSpec(specs []string) []engine.WorkItem {
	items := make([]engine.WorkItem, 0, len(specs))
	for i, spec := range specs {
		items = append(items, engine.WorkItem{
			ID:    uuid.NewString(),
			Index: i,
			Specs: []string{spec},
		})
	}
	return items
}

// Replicate queues the whole spec set trials times (stress-test). Each item
// is an independent run; Trial is 1-based.
func Replicate(specs []string, trials int) []engine.WorkItem {
	if trials <= 0 || len(specs) == 0 {
		return nil
	}
	items := make([]engine.WorkItem, 0, trials)
	for t := 0; t < trials; t++ {
		items = append(items, engine.WorkItem{
			ID:    uuid.NewString(),
			Index: t,
			Trial: t + 1,
			Specs: append([]string(nil), specs...),
		})
	}
	return items
}
