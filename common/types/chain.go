package types

import (
	"context"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// NativeCurrency describes the gas token of a chain.
//
// Fields:
// - Name: the human readable currency name.
// - Symbol: the ticker shown by wallets.
// - Decimals: the number of decimals of the smallest unit.
type NativeCurrency struct {
	Name     string `json:"name" yaml:"name"`
	Symbol   string `json:"symbol" yaml:"symbol"`
	Decimals uint8  `json:"decimals" yaml:"decimals"`
}

// ChainDescriptor holds the static description of a network the application may operate on.
//
// Fields:
// - ID: the decimal chain id.
// - Name: the display name shown in wallet prompts.
// - Type: the network type (test or main).
// - NativeCurrency: the gas token of the network.
// - RPCURLs: ordered RPC endpoints, the first one is preferred.
// - BlockExplorerURL: the explorer base url.
type ChainDescriptor struct {
	ID               uint64
	Name             string
	Type             NetworkType
	NativeCurrency   NativeCurrency
	RPCURLs          []string
	BlockExplorerURL string
}

// HexID returns the chain id as 0x-prefixed lowercase hex.
func (c ChainDescriptor) HexID() string {
	return hexutil.EncodeUint64(c.ID)
}

// AddChainParams builds the wallet_addEthereumChain payload for the chain.
//
// Returns:
// - AddChainParams: the registration payload with a hex encoded chain id.
func (c ChainDescriptor) AddChainParams() AddChainParams {
	rpcURLs := make([]string, len(c.RPCURLs))
	copy(rpcURLs, c.RPCURLs)

	var explorers []string
	if c.BlockExplorerURL != "" {
		explorers = []string{c.BlockExplorerURL}
	}

	return AddChainParams{
		ChainID:           c.HexID(),
		ChainName:         c.Name,
		NativeCurrency:    c.NativeCurrency,
		RPCURLs:           rpcURLs,
		BlockExplorerURLs: explorers,
	}
}

// AddChainParams is the chain registration payload accepted by wallet_addEthereumChain.
type AddChainParams struct {
	ChainID           string         `json:"chainId"`
	ChainName         string         `json:"chainName"`
	NativeCurrency    NativeCurrency `json:"nativeCurrency"`
	RPCURLs           []string       `json:"rpcUrls"`
	BlockExplorerURLs []string       `json:"blockExplorerUrls,omitempty"`
}

// SwitchChainParams is the payload accepted by wallet_switchEthereumChain.
type SwitchChainParams struct {
	ChainID string `json:"chainId"`
}

// InjectedProvider is a wallet-supplied JSON-RPC endpoint.
// The method set matches *rpc.Client so a dialed client can be used directly.
type InjectedProvider interface {
	// CallContext performs a JSON-RPC call and decodes the result into result.
	//
	// Parameters:
	// - ctx: the context for managing the request.
	// - result: pointer the result is decoded into, may be nil.
	// - method: the JSON-RPC method name.
	// - args: positional parameters.
	//
	// Returns:
	// - error: transport errors or a JSON-RPC error carrying a structured code.
	CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error
}

// ChainSwitcher asks the wallet to change its active chain.
type ChainSwitcher interface {
	// SwitchChain requests the wallet to activate chainID.
	//
	// Parameters:
	// - ctx: the context for managing the request.
	// - chainID: the decimal chain id to switch to.
	//
	// Returns:
	// - error: an error if the wallet refused or does not know the chain.
	SwitchChain(ctx context.Context, chainID uint64) error
}

// ChainAdder asks the wallet to register a new chain.
type ChainAdder interface {
	// AddChain requests the wallet to register the chain described by params.
	//
	// Parameters:
	// - ctx: the context for managing the request.
	// - params: the registration payload.
	//
	// Returns:
	// - error: an error if the wallet refused the registration.
	AddChain(ctx context.Context, params AddChainParams) error
}
