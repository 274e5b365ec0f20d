package provisioning

import (
	"fmt"
	"time"
)

// Run executes the steps strictly in order.
//
// Each step's action is preceded by its idempotency check: if the goal state
// already holds the action is skipped and a no-op is logged. A Fatal step
// failure aborts the run immediately with a StepError naming the step; no
// rollback of completed side effects is attempted. A Warn step failure logs
// a warning and the pipeline continues.
func Run(ctx *Context, steps []Step) error {
	start := time.Now()
	ctx.Observer.Printf("Starting provisioning with %d steps...", len(steps))

	for i, step := range steps {
		stepStart := time.Now()
		label := fmt.Sprintf("%s (%d/%d)", step.Name, i+1, len(steps))

		done, err := step.Done(ctx)
		if err != nil {
			// A broken precondition check is as fatal as a failed action:
			// running the action blind could be destructive.
			ctx.Observer.Event(Event{Type: EventStepFailed, Step: step.Name, Message: err.Error(), Timestamp: time.Now()})
			return &StepError{Step: step.Name, Policy: Fatal, Err: fmt.Errorf("precondition check failed: %w", err)}
		}
		if done {
			ctx.Observer.Event(Event{Type: EventStepSkipped, Step: step.Name, Message: "already satisfied, skipping", Timestamp: time.Now()})
			continue
		}

		ctx.Observer.Event(Event{Type: EventStepStarted, Step: step.Name, Message: "starting " + label, Timestamp: time.Now()})

		if err := step.Run(ctx); err != nil {
			if step.Policy == Warn {
				ctx.Observer.Event(Event{
					Type:      EventStepWarned,
					Step:      step.Name,
					Message:   fmt.Sprintf("warning: %v (continuing)", err),
					Timestamp: time.Now(),
				})
				continue
			}
			ctx.Observer.Event(Event{Type: EventStepFailed, Step: step.Name, Message: err.Error(), Timestamp: time.Now()})
			return &StepError{Step: step.Name, Policy: Fatal, Err: err}
		}

		ctx.Observer.Event(Event{
			Type:      EventStepCompleted,
			Step:      step.Name,
			Message:   fmt.Sprintf("completed in %v", time.Since(stepStart).Round(time.Millisecond)),
			Timestamp: time.Now(),
		})
	}

	ctx.Observer.Printf("Provisioning completed in %v", time.Since(start).Round(time.Millisecond))
	return nil
}
