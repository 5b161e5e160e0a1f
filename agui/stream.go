package agui

import (
	"context"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"
	"go.uber.org/zap"

	"github.com/spetersoncode/storebridge/internal/logging"
	"github.com/spetersoncode/storebridge/store"
)

// Stream writes RUN_STARTED, then a STATE_SNAPSHOT once r is ready, then a
// STATE_DELTA for every later change, until ctx is done. It finishes with
// RUN_FINISHED, or RUN_ERROR when emit fails.
//
// Changes published while emit is busy are coalesced: the next delta covers
// every slice that differs from the last state written.
func Stream(ctx context.Context, r store.Reader, m *Mapper, emit func(events.Event) error) error {
	logger := logging.Named("agui")

	wake := make(chan struct{}, 1)
	cancel := r.Subscribe(func(store.State) {
		select {
		case wake <- struct{}{}:
		default:
		}
	})
	defer cancel()

	if err := emit(m.RunStarted()); err != nil {
		return err
	}

	var (
		last store.State
		sent bool
	)
	flush := func() error {
		st := r.State()
		if !st.Ready() {
			return nil
		}
		if !sent {
			sent = true
			last = st
			return emit(m.StateSnapshot(st))
		}
		if st.Version() == last.Version() {
			return nil
		}
		patches := Diff(last, st)
		last = st
		if len(patches) == 0 {
			return nil
		}
		return emit(m.StateDelta(patches...))
	}

	for {
		if err := flush(); err != nil {
			logger.Warn("state event not written", zap.Error(err))
			_ = emit(m.RunError(err))
			return err
		}
		select {
		case <-ctx.Done():
			return emit(m.RunFinished())
		case <-wake:
		}
	}
}
