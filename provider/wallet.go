package provider

import (
	"context"

	"github.com/ClipFinance/netguard/chains"
	neterrors "github.com/ClipFinance/netguard/common/errors"
	"github.com/ClipFinance/netguard/common/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// Wallet RPC methods.
const (
	MethodChainID     = "eth_chainId"
	MethodAccounts    = "eth_accounts"
	MethodSwitchChain = "wallet_switchEthereumChain"
	MethodAddChain    = "wallet_addEthereumChain"
)

type reconnecter interface {
	Reconnect(ctx context.Context) error
}

// Wallet exposes the EIP-1193 wallet methods on top of an injected provider.
// It implements types.ChainSwitcher and types.ChainAdder.
type Wallet struct {
	provider types.InjectedProvider
}

// NewWallet creates a wallet over provider. A nil provider is allowed;
// every call then fails with ErrNoProvider.
func NewWallet(provider types.InjectedProvider) *Wallet {
	return &Wallet{provider: provider}
}

// Provider returns the underlying injected provider, possibly nil.
func (w *Wallet) Provider() types.InjectedProvider {
	return w.provider
}

// ChainID reads the active chain id.
//
// Parameters:
// - ctx: the context for managing the request.
//
// Returns:
// - uint64: the decimal chain id.
// - error: ErrNoProvider, a provider error or ErrMalformedChainID.
func (w *Wallet) ChainID(ctx context.Context) (uint64, error) {
	if w.provider == nil {
		return 0, neterrors.ErrNoProvider
	}

	var raw string
	if err := w.provider.CallContext(ctx, &raw, MethodChainID); err != nil {
		return 0, errors.Wrap(err, MethodChainID)
	}
	return chains.ParseHex(raw)
}

// Accounts returns the accounts the wallet exposes to the application,
// normalized to checksummed hex. Entries that are not addresses are dropped.
func (w *Wallet) Accounts(ctx context.Context) ([]string, error) {
	if w.provider == nil {
		return nil, neterrors.ErrNoProvider
	}

	var raw []string
	if err := w.provider.CallContext(ctx, &raw, MethodAccounts); err != nil {
		return nil, errors.Wrap(err, MethodAccounts)
	}

	accounts := make([]string, 0, len(raw))
	for _, a := range raw {
		if !common.IsHexAddress(a) {
			continue
		}
		accounts = append(accounts, common.HexToAddress(a).Hex())
	}
	return accounts, nil
}

// SwitchChain implements types.ChainSwitcher with wallet_switchEthereumChain.
func (w *Wallet) SwitchChain(ctx context.Context, chainID uint64) error {
	if w.provider == nil {
		return neterrors.ErrNoProvider
	}

	params := types.SwitchChainParams{ChainID: chains.ToHex(chainID)}
	if err := w.provider.CallContext(ctx, nil, MethodSwitchChain, params); err != nil {
		return errors.Wrap(err, MethodSwitchChain)
	}
	return nil
}

// AddChain implements types.ChainAdder with wallet_addEthereumChain.
func (w *Wallet) AddChain(ctx context.Context, params types.AddChainParams) error {
	if w.provider == nil {
		return neterrors.ErrNoProvider
	}

	if err := w.provider.CallContext(ctx, nil, MethodAddChain, params); err != nil {
		return errors.Wrap(err, MethodAddChain)
	}
	return nil
}

// ConnectionState reads the current connection: the first exposed account and the active chain.
// A wallet exposing no account is reported as disconnected without querying the chain.
func (w *Wallet) ConnectionState(ctx context.Context) (types.ConnectionState, error) {
	accounts, err := w.Accounts(ctx)
	if err != nil {
		return types.ConnectionState{}, err
	}
	if len(accounts) == 0 {
		return types.ConnectionState{}, nil
	}

	chainID, err := w.ChainID(ctx)
	if err != nil {
		return types.ConnectionState{}, err
	}

	return types.ConnectionState{
		IsConnected: true,
		Address:     accounts[0],
		ChainID:     chainID,
	}, nil
}

// Reconnect re-establishes the provider connection if the provider supports it.
func (w *Wallet) Reconnect(ctx context.Context) error {
	r, ok := w.provider.(reconnecter)
	if !ok {
		return neterrors.ErrNotImplemented
	}
	return r.Reconnect(ctx)
}
