package networkguard

import (
	"github.com/ClipFinance/netguard/chainmanager"
	"github.com/ClipFinance/netguard/chains"
	neterrors "github.com/ClipFinance/netguard/common/errors"
	"github.com/ClipFinance/netguard/common/types"
	"github.com/ClipFinance/netguard/metrics"
	"github.com/ClipFinance/netguard/notify"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// GuardBuilder assembles a Guard from its collaborators.
type GuardBuilder struct {
	target       types.ChainDescriptor  // Network the wallet is moved to.
	registry     *chainmanager.Registry // Allow-list of approved networks.
	switcher     types.ChainSwitcher    // Chain-switch primitive.
	adder        types.ChainAdder       // Chain-add primitive.
	notifier     notify.Notifier        // Sink for user-facing messages.
	metrics      *metrics.Collector     // Prometheus counters.
	recorder     Recorder               // Outcome journal.
	logger       *logrus.Logger         // Logger.
	onTransition TransitionFunc         // State observer.
}

// NewGuardBuilder creates a new guard builder instance.
//
// Parameters:
// - target: the network to switch to. A zero descriptor selects the Kairos testnet.
//
// Returns:
// - *GuardBuilder: a new GuardBuilder instance.
func NewGuardBuilder(target types.ChainDescriptor) *GuardBuilder {
	if target.ID == 0 {
		target = chains.Kairos()
	}
	return &GuardBuilder{
		target: target,
	}
}

// WithRegistry sets the allow-list registry.
//
// Parameters:
// - registry: the chain registry.
//
// Returns:
// - *GuardBuilder: the updated GuardBuilder instance.
func (b *GuardBuilder) WithRegistry(registry *chainmanager.Registry) *GuardBuilder {
	b.registry = registry
	return b
}

// WithSwitcher sets the chain-switch implementation.
//
// Parameters:
// - switcher: the chain switcher.
//
// Returns:
// - *GuardBuilder: the updated GuardBuilder instance.
func (b *GuardBuilder) WithSwitcher(switcher types.ChainSwitcher) *GuardBuilder {
	b.switcher = switcher
	return b
}

// WithAdder sets the chain-add implementation.
//
// Parameters:
// - adder: the chain adder.
//
// Returns:
// - *GuardBuilder: the updated GuardBuilder instance.
func (b *GuardBuilder) WithAdder(adder types.ChainAdder) *GuardBuilder {
	b.adder = adder
	return b
}

// WithNotifier sets the notification sink.
//
// Parameters:
// - notifier: the notifier.
//
// Returns:
// - *GuardBuilder: the updated GuardBuilder instance.
func (b *GuardBuilder) WithNotifier(notifier notify.Notifier) *GuardBuilder {
	b.notifier = notifier
	return b
}

// WithMetrics sets the metrics collector.
//
// Parameters:
// - collector: the metrics collector.
//
// Returns:
// - *GuardBuilder: the updated GuardBuilder instance.
func (b *GuardBuilder) WithMetrics(collector *metrics.Collector) *GuardBuilder {
	b.metrics = collector
	return b
}

// WithJournal sets the outcome recorder.
//
// Parameters:
// - recorder: the outcome recorder.
//
// Returns:
// - *GuardBuilder: the updated GuardBuilder instance.
func (b *GuardBuilder) WithJournal(recorder Recorder) *GuardBuilder {
	b.recorder = recorder
	return b
}

// WithLogger sets the logger.
//
// Parameters:
// - logger: the logger.
//
// Returns:
// - *GuardBuilder: the updated GuardBuilder instance.
func (b *GuardBuilder) WithLogger(logger *logrus.Logger) *GuardBuilder {
	b.logger = logger
	return b
}

// WithTransitionHook sets a function called on every state the guard enters.
//
// Parameters:
// - fn: the transition observer.
//
// Returns:
// - *GuardBuilder: the updated GuardBuilder instance.
func (b *GuardBuilder) WithTransitionHook(fn TransitionFunc) *GuardBuilder {
	b.onTransition = fn
	return b
}

// Build creates a new Guard instance.
//
// Returns:
// - *Guard: a new Guard instance.
// - error: ErrChainNotAllowed if the target is not in the registry.
func (b *GuardBuilder) Build() (*Guard, error) {
	logger := b.logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	registry := b.registry
	if registry == nil {
		registry = chainmanager.NewKaiaRegistry(logger)
	}

	if !registry.IsAllowed(b.target.ID) {
		return nil, errors.Wrapf(neterrors.ErrChainNotAllowed, "target chain %d", b.target.ID)
	}

	return &Guard{
		target:       b.target,
		registry:     registry,
		switcher:     b.switcher,
		adder:        b.adder,
		notifier:     b.notifier,
		metrics:      b.metrics,
		recorder:     b.recorder,
		logger:       logger,
		onTransition: b.onTransition,
	}, nil
}
