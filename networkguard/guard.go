package networkguard

import (
	"context"

	"github.com/ClipFinance/netguard/chainmanager"
	neterrors "github.com/ClipFinance/netguard/common/errors"
	"github.com/ClipFinance/netguard/common/types"
	"github.com/ClipFinance/netguard/journal"
	"github.com/ClipFinance/netguard/metrics"
	"github.com/ClipFinance/netguard/notify"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// Recorder persists guard outcomes.
type Recorder interface {
	Record(ctx context.Context, entry journal.Entry) (int64, error)
}

// TransitionFunc is called on every state the guard enters.
type TransitionFunc func(state types.GuardState, conn types.ConnectionState)

// Guard keeps a connected wallet on an allow-listed network.
// It is safe for concurrent use. Calls for the same connection share
// one in-flight switch sequence.
type Guard struct {
	target       types.ChainDescriptor
	registry     *chainmanager.Registry
	switcher     types.ChainSwitcher
	adder        types.ChainAdder
	notifier     notify.Notifier
	metrics      *metrics.Collector
	recorder     Recorder
	logger       *logrus.Logger
	onTransition TransitionFunc

	inflight singleflight.Group
}

// Target returns the network the guard switches to.
func (g *Guard) Target() types.ChainDescriptor {
	return g.target
}

// IsAllowed reports whether chainID is an approved network.
func (g *Guard) IsAllowed(chainID uint64) bool {
	return g.registry.IsAllowed(chainID)
}

// EnsureAllowedNetwork moves the wallet onto the target network unless it is
// already on an allowed one. The target chain is added to the wallet first
// when the wallet does not know it.
//
// Parameters:
// - ctx: the context for managing the wait. A context that is already done
// fails without opening a prompt. Canceling it later ends the wait but not a
// wallet prompt that is already open.
// - conn: the current wallet connection.
//
// Returns:
// - types.SwitchOutcome: the outcome of the run.
// - error: ErrNotConnected if conn is not connected or its chain is unknown.
func (g *Guard) EnsureAllowedNetwork(ctx context.Context, conn types.ConnectionState) (types.SwitchOutcome, error) {
	if !conn.Observable() {
		return types.SwitchOutcome{}, neterrors.ErrNotConnected
	}

	g.transition(types.StateChecking, conn)
	if g.IsAllowed(conn.ChainID) {
		g.transition(types.StateDone, conn)
		outcome := types.SwitchedOutcome()
		g.metrics.ObserveOutcome(outcome)
		return outcome, nil
	}

	if err := ctx.Err(); err != nil {
		g.transition(types.StateFailed, conn)
		outcome := types.FailedOutcome(types.ReasonUnknown, err)
		g.metrics.ObserveOutcome(outcome)
		return outcome, nil
	}

	runCtx := context.WithoutCancel(ctx)
	ch := g.inflight.DoChan(conn.Key(), func() (interface{}, error) {
		outcome := g.run(runCtx, conn)
		g.finish(runCtx, conn, outcome)
		return outcome, nil
	})

	select {
	case res := <-ch:
		if res.Shared {
			g.logger.WithFields(logrus.Fields{
				"address":  conn.Address,
				"chain_id": conn.ChainID,
			}).Debug("Joined in-flight network switch")
		}
		return res.Val.(types.SwitchOutcome), nil
	case <-ctx.Done():
		// The run keeps going and reports its own outcome when the prompt closes.
		g.logger.WithFields(logrus.Fields{
			"address":  conn.Address,
			"chain_id": conn.ChainID,
			"error":    ctx.Err(),
		}).Warn("Stopped waiting for network switch")
		return types.FailedOutcome(types.ReasonUnknown, ctx.Err()), nil
	}
}

// run drives the switch sequence from Switching to a terminal state.
func (g *Guard) run(ctx context.Context, conn types.ConnectionState) types.SwitchOutcome {
	var outcome types.SwitchOutcome
	state := types.StateSwitching

	for {
		g.transition(state, conn)

		switch state {
		case types.StateSwitching:
			err := g.switchChain(ctx)
			switch {
			case err == nil:
				outcome, state = types.SwitchedOutcome(), types.StateDone
			case neterrors.Classify(err) == neterrors.KindChainNotRegistered:
				state = types.StateAddingChain
			default:
				outcome, state = failure(err), types.StateFailed
			}

		case types.StateAddingChain:
			if err := g.addChain(ctx); err != nil {
				outcome, state = failure(err), types.StateFailed
			} else {
				state = types.StateSwitchingAgain
			}

		case types.StateSwitchingAgain:
			if err := g.switchChain(ctx); err != nil {
				outcome, state = failure(err), types.StateFailed
			} else {
				outcome, state = types.AddedThenSwitchedOutcome(), types.StateDone
			}

		default:
			return outcome
		}
	}
}

func (g *Guard) switchChain(ctx context.Context) error {
	if g.switcher == nil {
		return neterrors.ErrNoProvider
	}
	return g.switcher.SwitchChain(ctx, g.target.ID)
}

func (g *Guard) addChain(ctx context.Context) error {
	if g.adder == nil {
		return neterrors.ErrNoProvider
	}
	return g.adder.AddChain(ctx, g.target.AddChainParams())
}

func (g *Guard) transition(state types.GuardState, conn types.ConnectionState) {
	g.logger.WithFields(logrus.Fields{
		"state":    state,
		"chain_id": conn.ChainID,
		"target":   g.target.ID,
		"address":  conn.Address,
	}).Debug("Network guard transition")

	g.metrics.ObserveTransition(state)
	if g.onTransition != nil {
		g.onTransition(state, conn)
	}
}

func (g *Guard) finish(ctx context.Context, conn types.ConnectionState, outcome types.SwitchOutcome) {
	fields := logrus.Fields{
		"address":  conn.Address,
		"chain_id": conn.ChainID,
		"target":   g.target.ID,
		"outcome":  outcome.String(),
	}
	if outcome.Succeeded() {
		g.logger.WithFields(fields).Info("Network switch finished")
	} else {
		g.logger.WithFields(fields).WithError(outcome.Err).Warn("Network switch failed")
	}

	g.metrics.ObserveOutcome(outcome)

	if g.notifier != nil {
		g.notifier.Notify(notify.Build(outcome, g.target, conn.Address))
	}

	if g.recorder != nil {
		_, err := g.recorder.Record(ctx, journal.Entry{
			Address:       conn.Address,
			FromChainID:   conn.ChainID,
			TargetChainID: g.target.ID,
			Outcome:       outcome,
		})
		if err != nil {
			g.logger.WithFields(fields).WithError(err).Warn("Failed to record network switch outcome")
		}
	}
}

// failure maps a provider error to a failed outcome.
func failure(err error) types.SwitchOutcome {
	switch neterrors.Classify(err) {
	case neterrors.KindNoProvider:
		return types.FailedOutcome(types.ReasonNoProvider, err)
	case neterrors.KindUserRejected:
		return types.FailedOutcome(types.ReasonRejected, err)
	default:
		return types.FailedOutcome(types.ReasonUnknown, err)
	}
}
