package connectionmonitor

import (
	"context"
	"sync"
	"time"

	neterrors "github.com/ClipFinance/netguard/common/errors"
	"github.com/ClipFinance/netguard/common/types"
	"github.com/ethereum/go-ethereum/event"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultPollInterval defines interval between wallet state reads
	DefaultPollInterval = 2 * time.Second
	// DefaultReconnectTimeout defines the pause between reconnection attempts
	DefaultReconnectTimeout = 5 * time.Second
	// DefaultMaxReconnectAttempts defines maximum number of reconnection attempts
	DefaultMaxReconnectAttempts = 3
)

// ConnectionMonitor represents wallet connection monitoring interface
type ConnectionMonitor interface {
	// Start starts connection monitoring
	Start(ctx context.Context) error
	// Stop stops connection monitoring
	Stop()
	// Subscribe delivers every connection transition to ch
	Subscribe(ch chan<- types.ConnectionEvent) event.Subscription
	// Current returns the last observed connection state
	Current() types.ConnectionState
}

// WalletClient represents the wallet the monitor reads from
type WalletClient interface {
	// ConnectionState reads the connected account and active chain
	ConnectionState(ctx context.Context) (types.ConnectionState, error)
	// Reconnect attempts to re-establish the provider connection
	Reconnect(ctx context.Context) error
}

// Config holds the monitor timings. Zero values select the defaults.
type Config struct {
	PollInterval         time.Duration
	ReconnectTimeout     time.Duration
	MaxReconnectAttempts int
}

func (c Config) withDefaults() Config {
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.ReconnectTimeout <= 0 {
		c.ReconnectTimeout = DefaultReconnectTimeout
	}
	if c.MaxReconnectAttempts <= 0 {
		c.MaxReconnectAttempts = DefaultMaxReconnectAttempts
	}
	return c
}

type connectionMonitor struct {
	client WalletClient
	logger *logrus.Logger
	config Config

	feed event.Feed

	stateMutex sync.RWMutex
	current    types.ConnectionState

	stopChan     chan struct{}
	done         chan struct{}
	isMonitoring bool
	monitorMutex sync.Mutex
}

// NewConnectionMonitor creates a new connection monitor instance.
//
// Parameters:
// - client: the wallet client to monitor.
// - logger: the logger for logging purposes.
// - config: the monitor timings.
//
// Returns:
// - ConnectionMonitor: the new connection monitor instance.
func NewConnectionMonitor(
	client WalletClient,
	logger *logrus.Logger,
	config Config,
) ConnectionMonitor {
	return &connectionMonitor{
		client: client,
		logger: logger,
		config: config.withDefaults(),
	}
}

// Start starts connection monitoring. The wallet is read once immediately
// and then on every poll interval.
//
// Parameters:
// - ctx: the context for managing the request.
//
// Returns:
// - error: ErrMonitorRunning if the connection monitor is already running.
func (m *connectionMonitor) Start(ctx context.Context) error {
	m.monitorMutex.Lock()
	defer m.monitorMutex.Unlock()

	if m.isMonitoring {
		return neterrors.ErrMonitorRunning
	}
	m.isMonitoring = true
	m.stopChan = make(chan struct{})
	m.done = make(chan struct{})

	go m.monitorConnection(ctx, m.stopChan, m.done)
	return nil
}

// Stop stops connection monitoring and waits for the poll loop to exit.
func (m *connectionMonitor) Stop() {
	m.monitorMutex.Lock()
	if !m.isMonitoring {
		m.monitorMutex.Unlock()
		return
	}
	close(m.stopChan)
	done := m.done
	m.isMonitoring = false
	m.monitorMutex.Unlock()

	<-done
}

// Subscribe delivers every connection transition to ch.
func (m *connectionMonitor) Subscribe(ch chan<- types.ConnectionEvent) event.Subscription {
	return m.feed.Subscribe(ch)
}

// Current returns the last observed connection state.
func (m *connectionMonitor) Current() types.ConnectionState {
	m.stateMutex.RLock()
	defer m.stateMutex.RUnlock()
	return m.current
}

// monitorConnection polls the wallet until stopped.
//
// Parameters:
// - ctx: the context for managing the request.
// - stop: closed by Stop.
// - done: closed when the loop exits.
func (m *connectionMonitor) monitorConnection(ctx context.Context, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(m.config.PollInterval)
	defer ticker.Stop()

	m.poll(ctx, stop)

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("Connection monitoring stopped due to context cancellation")
			m.markStopped(stop)
			return

		case <-stop:
			m.logger.Info("Connection monitoring stopped")
			return

		case <-ticker.C:
			m.poll(ctx, stop)
		}
	}
}

func (m *connectionMonitor) markStopped(stop <-chan struct{}) {
	m.monitorMutex.Lock()
	defer m.monitorMutex.Unlock()
	if m.isMonitoring && m.stopChan == stop {
		close(m.stopChan)
		m.isMonitoring = false
	}
}

// poll reads the wallet state and publishes it when it changed.
func (m *connectionMonitor) poll(ctx context.Context, stop <-chan struct{}) {
	state, err := m.client.ConnectionState(ctx)
	if err == nil {
		m.publish(state)
		return
	}

	m.logger.WithField("error", err).Warn("Connection check failed, attempting to reconnect")
	m.publish(types.ConnectionState{})

	if err := m.reconnect(ctx, stop); err != nil {
		m.logger.WithField("error", err).Error("Failed to reconnect")
	}
}

// publish stores state and sends a transition if it differs from the previous one.
func (m *connectionMonitor) publish(state types.ConnectionState) {
	m.stateMutex.Lock()
	previous := m.current
	if previous == state {
		m.stateMutex.Unlock()
		return
	}
	m.current = state
	m.stateMutex.Unlock()

	m.logger.WithFields(logrus.Fields{
		"address":   state.Address,
		"chain_id":  state.ChainID,
		"connected": state.IsConnected,
	}).Info("Wallet connection changed")

	m.feed.Send(types.ConnectionEvent{Previous: previous, Current: state})
}

// reconnect attempts to reconnect with retry logic.
//
// Parameters:
// - ctx: the context for managing the request.
// - stop: closed by Stop.
//
// Returns:
// - error: an error if every attempt fails or monitoring stops.
func (m *connectionMonitor) reconnect(ctx context.Context, stop <-chan struct{}) error {
	for attempt := 1; attempt <= m.config.MaxReconnectAttempts; attempt++ {
		err := m.client.Reconnect(ctx)
		if err == nil {
			m.logger.WithField("attempt", attempt).Info("Wallet provider successfully reconnected")
			return nil
		}
		if errors.Is(err, neterrors.ErrNotImplemented) {
			return err
		}

		m.logger.WithFields(logrus.Fields{
			"attempt": attempt,
			"error":   err,
		}).Error("Reconnection attempt failed")

		if attempt == m.config.MaxReconnectAttempts {
			return errors.Wrapf(err, "failed to reconnect after %d attempts", attempt)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return errors.New("monitor stopped")
		case <-time.After(m.config.ReconnectTimeout):
		}
	}
	return nil
}
