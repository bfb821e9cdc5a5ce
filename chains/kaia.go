package chains

import (
	"github.com/ClipFinance/netguard/common/types"
)

const (
	// KairosChainID is the Kaia test network chain id (0x3e9).
	KairosChainID uint64 = 1001
	// KaiaChainID is the Kaia main network chain id (0x2019).
	KaiaChainID uint64 = 8217
)

var kaiaCurrency = types.NativeCurrency{
	Name:     "KAIA",
	Symbol:   "KAIA",
	Decimals: 18,
}

// Kairos returns the test network descriptor.
func Kairos() types.ChainDescriptor {
	return types.ChainDescriptor{
		ID:               KairosChainID,
		Name:             "Kaia Kairos Testnet",
		Type:             types.TESTNET,
		NativeCurrency:   kaiaCurrency,
		RPCURLs:          []string{"https://public-en-kairos.node.kaia.io"},
		BlockExplorerURL: "https://kairos.kaiascan.io",
	}
}

// Kaia returns the main network descriptor.
func Kaia() types.ChainDescriptor {
	return types.ChainDescriptor{
		ID:               KaiaChainID,
		Name:             "Kaia Mainnet",
		Type:             types.MAINNET,
		NativeCurrency:   kaiaCurrency,
		RPCURLs:          []string{"https://public-en.node.kaia.io"},
		BlockExplorerURL: "https://kaiascan.io",
	}
}

// All returns every network the application may operate on, ordered by chain id.
func All() []types.ChainDescriptor {
	return []types.ChainDescriptor{Kairos(), Kaia()}
}

// AllowList is the set of chain ids the application accepts.
var AllowList = []uint64{KairosChainID, KaiaChainID}

// IsAllowed reports whether chainID belongs to the allow-list.
func IsAllowed(chainID uint64) bool {
	for _, id := range AllowList {
		if id == chainID {
			return true
		}
	}
	return false
}

// ByType returns the descriptor for the given network type.
//
// Returns:
// - types.ChainDescriptor: the descriptor.
// - bool: false if no network of that type exists.
func ByType(t types.NetworkType) (types.ChainDescriptor, bool) {
	for _, c := range All() {
		if c.Type == t {
			return c, true
		}
	}
	return types.ChainDescriptor{}, false
}
