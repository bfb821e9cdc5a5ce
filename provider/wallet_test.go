package provider

import (
	"context"
	"io"
	"testing"

	"github.com/ClipFinance/netguard/chains"
	neterrors "github.com/ClipFinance/netguard/common/errors"
	"github.com/ClipFinance/netguard/internal/walletsim"
	"github.com/ClipFinance/netguard/metrics"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAddress = "0x52908400098527886e0f7030069857d2e4169ee7"

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestWallet(t *testing.T, sim *walletsim.Wallet) (*Wallet, *Client) {
	t.Helper()

	rpcClient, err := sim.Dial()
	require.NoError(t, err)

	client := NewClient(rpcClient, testLogger())
	t.Cleanup(client.Close)
	return NewWallet(client), client
}

func TestWalletChainID(t *testing.T) {
	sim := walletsim.New(chains.KaiaChainID)
	wallet, _ := newTestWallet(t, sim)

	id, err := wallet.ChainID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, chains.KaiaChainID, id)
}

func TestWalletSwitchChain(t *testing.T) {
	sim := walletsim.New(1, chains.KairosChainID)
	wallet, _ := newTestWallet(t, sim)

	require.NoError(t, wallet.SwitchChain(context.Background(), chains.KairosChainID))
	assert.Equal(t, chains.KairosChainID, sim.CurrentChainID())
	assert.Equal(t, []string{MethodSwitchChain}, sim.Calls())
}

func TestWalletSwitchUnknownChainKeepsCode(t *testing.T) {
	sim := walletsim.New(1)
	wallet, _ := newTestWallet(t, sim)

	err := wallet.SwitchChain(context.Background(), chains.KairosChainID)
	require.Error(t, err)

	code, ok := neterrors.Code(err)
	require.True(t, ok)
	assert.Equal(t, neterrors.CodeUnrecognizedChain, code)
	assert.Equal(t, neterrors.KindChainNotRegistered, neterrors.Classify(err))
	assert.Equal(t, uint64(1), sim.CurrentChainID())
}

func TestWalletAddChain(t *testing.T) {
	sim := walletsim.New(1)
	wallet, _ := newTestWallet(t, sim)

	require.NoError(t, wallet.AddChain(context.Background(), chains.Kairos().AddChainParams()))
	assert.True(t, sim.Knows(chains.KairosChainID))
}

func TestWalletAddChainRejected(t *testing.T) {
	sim := walletsim.New(1)
	sim.FailAdd(neterrors.NewProviderError(neterrors.CodeUserRejected, "User rejected the request."))
	wallet, _ := newTestWallet(t, sim)

	err := wallet.AddChain(context.Background(), chains.Kairos().AddChainParams())
	assert.Equal(t, neterrors.KindUserRejected, neterrors.Classify(err))
	assert.False(t, sim.Knows(chains.KairosChainID))
}

func TestWalletConnectionState(t *testing.T) {
	sim := walletsim.New(chains.KairosChainID)
	wallet, _ := newTestWallet(t, sim)

	state, err := wallet.ConnectionState(context.Background())
	require.NoError(t, err)
	assert.False(t, state.IsConnected)
	assert.Equal(t, []string{MethodAccounts}, sim.Calls(), "chain id is not read without an account")

	sim.SetAccounts("not-an-address", testAddress)
	state, err = wallet.ConnectionState(context.Background())
	require.NoError(t, err)
	assert.True(t, state.IsConnected)
	assert.Equal(t, "0x52908400098527886E0F7030069857D2E4169EE7", state.Address)
	assert.Equal(t, chains.KairosChainID, state.ChainID)
}

func TestWalletWithoutProvider(t *testing.T) {
	wallet := NewWallet(nil)
	ctx := context.Background()

	_, err := wallet.ChainID(ctx)
	assert.Equal(t, neterrors.ErrNoProvider, err)
	assert.Equal(t, neterrors.ErrNoProvider, wallet.SwitchChain(ctx, 1001))
	assert.Equal(t, neterrors.ErrNoProvider, wallet.AddChain(ctx, chains.Kairos().AddChainParams()))
	_, err = wallet.ConnectionState(ctx)
	assert.Equal(t, neterrors.ErrNoProvider, err)
	assert.Equal(t, neterrors.ErrNotImplemented, wallet.Reconnect(ctx))
}

func TestClientClosed(t *testing.T) {
	sim := walletsim.New(1)
	wallet, client := newTestWallet(t, sim)
	client.Close()

	_, err := wallet.ChainID(context.Background())
	assert.True(t, errors.Is(err, neterrors.ErrNoProvider))

	err = client.Reconnect(context.Background())
	assert.True(t, errors.Is(err, neterrors.ErrNotImplemented))
}

func TestClientMetrics(t *testing.T) {
	sim := walletsim.New(1)
	rpcClient, err := sim.Dial()
	require.NoError(t, err)

	collector, err := metrics.NewCollector(prometheus.NewRegistry())
	require.NoError(t, err)

	client := NewClient(rpcClient, testLogger()).WithMetrics(collector)
	defer client.Close()

	_, err = NewWallet(client).ChainID(context.Background())
	require.NoError(t, err)
}
