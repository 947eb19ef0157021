package services

import "log"

type stepKind int

const (
	// stepCommit must succeed; its failure fails the whole flow.
	stepCommit stepKind = iota
	// stepBestEffort failures are logged and reconciled out-of-band.
	stepBestEffort
)

// flowStep is one ordered state update in a multi-step, non-transactional
// flow. Keeping the commit/best-effort split explicit lets an outbox-style
// reconciler be added later without redesigning the flow.
type flowStep struct {
	name string
	kind stepKind
	run  func() error
}

// StepResult records the outcome of one flow step.
type StepResult struct {
	Name string
	Err  error
}

// runSteps executes the steps in order. A best-effort failure is logged and
// the flow continues; a commit failure stops the flow and is returned.
func runSteps(tag string, steps []flowStep) ([]StepResult, error) {
	results := make([]StepResult, 0, len(steps))
	for _, step := range steps {
		err := step.run()
		results = append(results, StepResult{Name: step.name, Err: err})
		if err == nil {
			continue
		}
		if step.kind == stepCommit {
			return results, err
		}
		log.Printf("[%s] Warning: best-effort step %s failed: %v", tag, step.name, err)
	}
	return results, nil
}
