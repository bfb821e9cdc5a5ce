package chainmanager

import (
	"io"
	"testing"

	"github.com/ClipFinance/netguard/chains"
	neterrors "github.com/ClipFinance/netguard/common/errors"
	"github.com/ClipFinance/netguard/common/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestKaiaRegistry(t *testing.T) {
	r := NewKaiaRegistry(testLogger())

	assert.Equal(t, []uint64{1001, 8217}, r.IDs())
	assert.True(t, r.IsAllowed(1001))
	assert.True(t, r.IsAllowed(8217))
	assert.False(t, r.IsAllowed(1))
	assert.False(t, r.IsAllowed(0))

	desc, ok := r.GetByHex("0x2019")
	require.True(t, ok)
	assert.Equal(t, "Kaia Mainnet", desc.Name)

	desc, ok = r.GetByType(types.TESTNET)
	require.True(t, ok)
	assert.Equal(t, chains.KairosChainID, desc.ID)

	_, ok = r.GetByHex("not-hex")
	assert.False(t, ok)
}

func TestRegistryAdd(t *testing.T) {
	r, err := NewRegistry(testLogger(), chains.Kairos())
	require.NoError(t, err)

	err = r.Add(chains.Kairos())
	assert.True(t, errors.Is(err, neterrors.ErrChainExists))

	err = r.Add(types.ChainDescriptor{Name: "zero"})
	assert.Equal(t, neterrors.ErrInvalidChainID, err)

	require.NoError(t, r.Add(chains.Kaia()))
	all := r.All()
	require.Len(t, all, 2)
	assert.Equal(t, chains.KairosChainID, all[0].ID)
	assert.Equal(t, chains.KaiaChainID, all[1].ID)
}

func TestNewRegistryRequiresChains(t *testing.T) {
	_, err := NewRegistry(testLogger())
	assert.True(t, errors.Is(err, neterrors.ErrInvalidConfig))
}
