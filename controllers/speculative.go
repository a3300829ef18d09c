package controllers

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	ErrBusy        = errors.New("another change is still in flight")
	ErrUnmounted   = errors.New("view is no longer mounted")
	ErrNotSignedIn = errors.New("sign in required")
	ErrForbidden   = errors.New("not permitted for this account")
)

// step is one optimistic edit planned against the current state.
type step[S any] struct {
	next   S                               // state shown while the request runs
	remote func(ctx context.Context) error // the request
	commit func(cur S) S                   // optional, applied on success
	revert func(cur S, err error) S        // applied on failure
	noop   bool                            // nothing to do; remote is not called
}

// View owns one slice of view state and runs speculative transitions on
// it: capture, apply, call, then commit or revert. When exclusive, only one
// transition may be in flight at a time.
type View[S any] struct {
	mu        sync.Mutex
	state     S
	inFlight  bool
	unmounted bool
	exclusive bool
	timeout   time.Duration
}

func newView[S any](initial S, exclusive bool, timeout time.Duration) *View[S] {
	return &View[S]{state: initial, exclusive: exclusive, timeout: timeout}
}

// State returns a snapshot of the current state.
func (v *View[S]) State() S {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Unmount detaches the view. Requests still in flight complete but their
// results are dropped.
func (v *View[S]) Unmount() {
	v.mu.Lock()
	v.unmounted = true
	v.mu.Unlock()
}

func (v *View[S]) Mounted() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return !v.unmounted
}

func (v *View[S]) update(fn func(S) S) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.unmounted {
		v.state = fn(v.state)
	}
}

// speculate plans a step under the lock, publishes its optimistic state,
// runs the request without the lock and reconciles the outcome. plan must
// not share mutable memory between its argument and step.next.
func (v *View[S]) speculate(ctx context.Context, plan func(cur S) (step[S], error)) error {
	v.mu.Lock()
	if v.unmounted {
		v.mu.Unlock()
		return ErrUnmounted
	}
	if v.exclusive && v.inFlight {
		v.mu.Unlock()
		return ErrBusy
	}
	st, err := plan(v.state)
	if err != nil || st.noop {
		v.mu.Unlock()
		return err
	}
	v.state = st.next
	v.inFlight = true
	v.mu.Unlock()

	callCtx := ctx
	if v.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, v.timeout)
		defer cancel()
	}
	remoteErr := st.remote(callCtx)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.inFlight = false
	if v.unmounted {
		return remoteErr
	}
	if remoteErr != nil {
		v.state = st.revert(v.state, remoteErr)
		return remoteErr
	}
	if st.commit != nil {
		v.state = st.commit(v.state)
	}
	return nil
}
