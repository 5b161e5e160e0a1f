package accessor

import (
	"context"
	"time"

	"github.com/spetersoncode/storebridge"
	"github.com/spetersoncode/storebridge/lens"
	"github.com/spetersoncode/storebridge/store"
)

// SnapshotOption configures a snapshot read.
type SnapshotOption func(*snapshotOptions)

type snapshotOptions struct {
	timeout time.Duration
}

// WithSnapshotTimeout bounds how long a snapshot waits for the store to
// become ready. Zero or negative means no bound beyond the caller's context.
func WithSnapshotTimeout(d time.Duration) SnapshotOption {
	return func(o *snapshotOptions) {
		o.timeout = d
	}
}

// Snapshot returns the value p has at the current store version, or at the
// first published version if the store is not ready yet.
//
// Without a deadline on ctx or WithSnapshotTimeout, Snapshot waits for as
// long as the store stays uninitialized. When the wait ends first, the
// returned *storebridge.SnapshotError wraps the context error.
func Snapshot[T any](ctx context.Context, r store.Reader, p lens.StateProjection[T], opts ...SnapshotOption) (T, error) {
	var o snapshotOptions
	for _, opt := range opts {
		opt(&o)
	}

	if st := r.State(); st.Ready() {
		return p.Get(st), nil
	}

	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	ch := make(chan T, 1)
	unsubscribe := r.Subscribe(func(st store.State) {
		if !st.Ready() {
			return
		}
		select {
		case ch <- p.Get(st):
		default:
		}
	})
	defer unsubscribe()

	// The store may have become ready between the first check and Subscribe.
	if st := r.State(); st.Ready() {
		return p.Get(st), nil
	}

	select {
	case v := <-ch:
		return v, nil
	case <-ctx.Done():
		var zero T
		return zero, &storebridge.SnapshotError{Projection: p.Path(), Err: ctx.Err()}
	}
}
