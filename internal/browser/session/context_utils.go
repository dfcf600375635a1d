// File: internal/browser/session/context_utils.go
package session

import (
	"context"
	"time"
)

// CombineContext creates a new context derived from ctx1 (the session context,
// which carries the CDP connection info) that is canceled when either ctx1 or
// ctx2 (the operational context carrying the deadline) is canceled. chromedp
// requires the CDP values, so derivation must start from ctx1.
func CombineContext(ctx1, ctx2 context.Context) (context.Context, context.CancelFunc) {
	combinedCtx, cancel := context.WithCancel(ctx1)

	go func() {
		select {
		case <-ctx2.Done():
			cancel()
		case <-combinedCtx.Done():
		}
	}()

	return combinedCtx, cancel
}

// valueOnlyContext inherits values (CDP target information) from its parent
// while ignoring the parent's deadline and cancellation signal.
type valueOnlyContext struct {
	context.Context
}

func (valueOnlyContext) Deadline() (deadline time.Time, ok bool) { return }
func (valueOnlyContext) Done() <-chan struct{}                   { return nil }
func (valueOnlyContext) Err() error                              { return nil }

// Detach returns a context that inherits values from ctx but is not canceled
// when ctx is. Needed for cleanup tasks that must outlive an operation.
func Detach(ctx context.Context) context.Context {
	return valueOnlyContext{ctx}
}
