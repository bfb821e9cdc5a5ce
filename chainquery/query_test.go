package chainquery

import (
	"context"
	"io"
	"testing"

	"github.com/ClipFinance/netguard/chains"
	neterrors "github.com/ClipFinance/netguard/common/errors"
	"github.com/ClipFinance/netguard/internal/walletsim"
	"github.com/ClipFinance/netguard/provider"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProvider implements types.InjectedProvider for testing
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	ret := m.Called(ctx, method)
	if out, ok := result.(*string); ok && ret.Get(0) != nil {
		*out = ret.String(0)
	}
	return ret.Error(1)
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestQueryChainIDNoProvider(t *testing.T) {
	assert.Equal(t, Unknown, QueryChainID(context.Background(), nil, quietLogger()))
}

func TestQueryChainIDNilClient(t *testing.T) {
	var client *provider.Client
	logger, hook := test.NewNullLogger()

	var id uint64
	require.NotPanics(t, func() {
		id = QueryChainID(context.Background(), client, logger)
	})
	assert.Equal(t, Unknown, id)
	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestQueryChainIDParsesHex(t *testing.T) {
	tests := []struct {
		raw  string
		want uint64
	}{
		{"0x3e9", 1001},
		{"0x2019", 8217},
		{"0x1", 1},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			p := new(MockProvider)
			p.On("CallContext", mock.Anything, "eth_chainId").Return(tt.raw, nil).Once()

			assert.Equal(t, tt.want, QueryChainID(context.Background(), p, quietLogger()))
			p.AssertExpectations(t)
		})
	}
}

func TestQueryChainIDErrorsBecomeUnknown(t *testing.T) {
	tests := []struct {
		name string
		raw  interface{}
		err  error
	}{
		{name: "provider error", raw: nil, err: neterrors.NewProviderError(neterrors.CodeDisconnected, "Disconnected")},
		{name: "transport error", raw: nil, err: errors.New("connection refused")},
		{name: "malformed hex", raw: "kaia", err: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, hook := test.NewNullLogger()
			p := new(MockProvider)
			p.On("CallContext", mock.Anything, "eth_chainId").Return(tt.raw, tt.err).Once()

			assert.Equal(t, Unknown, QueryChainID(context.Background(), p, logger))
			require.Len(t, hook.AllEntries(), 1)
			assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
		})
	}
}

func TestQueryChainIDAgainstWallet(t *testing.T) {
	sim := walletsim.New(chains.KaiaChainID)
	client, err := sim.Dial()
	require.NoError(t, err)
	defer client.Close()

	q := New(client, quietLogger())
	assert.Equal(t, chains.KaiaChainID, q.QueryChainID(context.Background()))

	sim.FailChainID(neterrors.NewProviderError(neterrors.CodeInternal, "Internal error"))
	assert.Equal(t, Unknown, q.QueryChainID(context.Background()))
}
