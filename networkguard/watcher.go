package networkguard

import (
	"context"
	"sync"

	"github.com/ClipFinance/netguard/common/types"
	"github.com/sirupsen/logrus"
)

// Ensurer runs the network guard against a connection.
type Ensurer interface {
	EnsureAllowedNetwork(ctx context.Context, conn types.ConnectionState) (types.SwitchOutcome, error)
}

// Watcher triggers the guard on connection transitions.
type Watcher struct {
	guard  Ensurer
	logger *logrus.Logger
}

// NewWatcher creates a watcher driving guard. A nil logger selects the
// logrus standard logger.
func NewWatcher(guard Ensurer, logger *logrus.Logger) *Watcher {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Watcher{guard: guard, logger: logger}
}

// ShouldTrigger reports whether ev warrants a guard run: the new state must
// be connected on a known chain and the connection must have just opened or
// changed chain or account.
func ShouldTrigger(ev types.ConnectionEvent) bool {
	if !ev.Current.Observable() {
		return false
	}
	return ev.Opened() || ev.ChainChanged() || ev.AccountChanged()
}

// Run consumes events until ctx is done or events is closed. Guard runs are
// started in their own goroutines so a pending wallet prompt does not stall
// the event stream. Run waits for started guard runs before returning.
//
// Parameters:
// - ctx: the context for managing the watcher lifecycle.
// - events: the connection transitions.
//
// Returns:
// - error: ctx.Err() when ctx is done, nil when events is closed.
func (w *Watcher) Run(ctx context.Context, events <-chan types.ConnectionEvent) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !ShouldTrigger(ev) {
				continue
			}

			wg.Add(1)
			go func(conn types.ConnectionState) {
				defer wg.Done()
				w.handle(ctx, conn)
			}(ev.Current)
		}
	}
}

func (w *Watcher) handle(ctx context.Context, conn types.ConnectionState) {
	outcome, err := w.guard.EnsureAllowedNetwork(ctx, conn)
	if err != nil {
		w.logger.WithFields(logrus.Fields{
			"address":  conn.Address,
			"chain_id": conn.ChainID,
			"error":    err,
		}).Debug("Network guard skipped")
		return
	}

	w.logger.WithFields(logrus.Fields{
		"address":  conn.Address,
		"chain_id": conn.ChainID,
		"outcome":  outcome.String(),
	}).Debug("Network guard finished")
}
