package executor

import (
	"context"

	"github.com/sorttv/showsort/internal/planner"
)

// ShowOutcome pairs a show's plan with its move results and any fatal error
// that aborted it early.
type ShowOutcome struct {
	Plan    *planner.ShowPlan
	Results []Result
	Err     error
}

// Run executes plans serially, one show at a time (spec.md §5: "Across
// shows, processing is serial"). Cancellation is checked between shows; a
// show already started stops at its next season boundary and its pool hands
// out no further moves, but a rename already in progress is not interrupted.
func (e *Executor) Run(ctx context.Context, plans []*planner.ShowPlan) []ShowOutcome {
	outcomes := make([]ShowOutcome, 0, len(plans))
	for _, plan := range plans {
		if ctx.Err() != nil {
			outcomes = append(outcomes, ShowOutcome{Plan: plan, Err: ErrCancelled})
			continue
		}
		results, err := e.ExecuteShow(ctx, plan)
		outcomes = append(outcomes, ShowOutcome{Plan: plan, Results: results, Err: err})
	}
	return outcomes
}
