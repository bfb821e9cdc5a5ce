package networkguard

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ClipFinance/netguard/chains"
	neterrors "github.com/ClipFinance/netguard/common/errors"
	"github.com/ClipFinance/netguard/common/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockEnsurer struct {
	mock.Mock
	mu sync.Mutex
}

func (m *MockEnsurer) EnsureAllowedNetwork(ctx context.Context, conn types.ConnectionState) (types.SwitchOutcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	args := m.Called(ctx, conn)
	return args.Get(0).(types.SwitchOutcome), args.Error(1)
}

func TestShouldTrigger(t *testing.T) {
	disconnected := types.ConnectionState{}
	onEthereum := connected(1)
	onKairos := connected(chains.KairosChainID)
	otherAccount := connected(1)
	otherAccount.Address = "0x0000000000000000000000000000000000000001"
	lowerCase := connected(1)
	lowerCase.Address = "0x52908400098527886e0f7030069857d2e4169ee7"
	unknownChain := types.ConnectionState{IsConnected: true, Address: testAddress}

	tests := []struct {
		name string
		ev   types.ConnectionEvent
		want bool
	}{
		{"connection opened", types.ConnectionEvent{Previous: disconnected, Current: onEthereum}, true},
		{"chain changed", types.ConnectionEvent{Previous: onKairos, Current: onEthereum}, true},
		{"account changed", types.ConnectionEvent{Previous: onEthereum, Current: otherAccount}, true},
		{"account changed case only", types.ConnectionEvent{Previous: onEthereum, Current: lowerCase}, false},
		{"identical state", types.ConnectionEvent{Previous: onEthereum, Current: onEthereum}, false},
		{"disconnected", types.ConnectionEvent{Previous: onEthereum, Current: disconnected}, false},
		{"chain unknown", types.ConnectionEvent{Previous: disconnected, Current: unknownChain}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldTrigger(tt.ev))
		})
	}
}

func TestWatcherRun(t *testing.T) {
	ensurer := new(MockEnsurer)
	ensurer.On("EnsureAllowedNetwork", mock.Anything, connected(1)).
		Return(types.SwitchedOutcome(), nil).Once()
	ensurer.On("EnsureAllowedNetwork", mock.Anything, connected(chains.KaiaChainID)).
		Return(types.SwitchOutcome{}, neterrors.ErrNotConnected).Once()

	events := make(chan types.ConnectionEvent, 4)
	events <- types.ConnectionEvent{Previous: types.ConnectionState{}, Current: connected(1)}
	events <- types.ConnectionEvent{Previous: connected(1), Current: connected(1)}
	events <- types.ConnectionEvent{Previous: connected(1), Current: types.ConnectionState{}}
	events <- types.ConnectionEvent{Previous: connected(1), Current: connected(chains.KaiaChainID)}
	close(events)

	err := NewWatcher(ensurer, testLogger()).Run(context.Background(), events)

	require.NoError(t, err)
	ensurer.AssertExpectations(t)
	ensurer.AssertNumberOfCalls(t, "EnsureAllowedNetwork", 2)
}

func TestWatcherRunStopsOnCancel(t *testing.T) {
	ensurer := new(MockEnsurer)
	events := make(chan types.ConnectionEvent)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- NewWatcher(ensurer, testLogger()).Run(ctx, events)
	}()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
	ensurer.AssertNotCalled(t, "EnsureAllowedNetwork", mock.Anything, mock.Anything)
}

func TestWatcherNilLogger(t *testing.T) {
	ensurer := new(MockEnsurer)
	ensurer.On("EnsureAllowedNetwork", mock.Anything, connected(1)).
		Return(types.SwitchedOutcome(), nil).Once()

	watcher := NewWatcher(ensurer, nil)
	require.NotNil(t, watcher.logger)

	events := make(chan types.ConnectionEvent, 1)
	events <- types.ConnectionEvent{Current: connected(1)}
	close(events)

	require.NotPanics(t, func() {
		assert.NoError(t, watcher.Run(context.Background(), events))
	})
	ensurer.AssertExpectations(t)
}
