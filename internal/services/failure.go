package services

import "log"

// FailurePolicy controls how an orchestrator treats a failed external call.
// Checkout aborts on provider failure; cancellation logs and continues so a
// flaky refund call never blocks freeing an already-paid booking.
type FailurePolicy int

const (
	FailAbort FailurePolicy = iota
	FailLogAndContinue
)

// callExternal invokes an external dependency under the given policy. Under
// FailLogAndContinue the error is logged and swallowed.
func callExternal(tag string, policy FailurePolicy, fn func() error) error {
	if err := fn(); err != nil {
		if policy == FailLogAndContinue {
			log.Printf("[%s] External call failed, continuing: %v", tag, err)
			return nil
		}
		return err
	}
	return nil
}
