// Package walletsim is an in-process JSON-RPC wallet used by tests.
// It speaks the same methods as a browser wallet bridge and returns
// EIP-1193 error codes, so the provider stack is exercised end to end.
package walletsim

import (
	"context"
	"sync"

	"github.com/ClipFinance/netguard/chains"
	neterrors "github.com/ClipFinance/netguard/common/errors"
	"github.com/ClipFinance/netguard/common/types"
	"github.com/ethereum/go-ethereum/rpc"
)

// Wallet is a simulated wallet extension.
type Wallet struct {
	mu       sync.Mutex
	chainID  uint64
	known    map[uint64]bool
	accounts []string
	calls    []string

	chainIDErr error
	switchErr  error
	addErr     error

	gate    chan struct{}
	started chan struct{}
}

// New creates a wallet on chainID that knows chainID plus the extra chains.
func New(chainID uint64, known ...uint64) *Wallet {
	w := &Wallet{
		chainID: chainID,
		known:   map[uint64]bool{chainID: true},
	}
	for _, id := range known {
		w.known[id] = true
	}
	return w
}

// SetAccounts sets the accounts exposed through eth_accounts.
func (w *Wallet) SetAccounts(accounts ...string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.accounts = accounts
}

// SetChainID changes the active chain as if the user switched inside the wallet UI.
func (w *Wallet) SetChainID(chainID uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.chainID = chainID
	w.known[chainID] = true
}

// FailChainID makes eth_chainId fail with err; nil restores normal behavior.
func (w *Wallet) FailChainID(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.chainIDErr = err
}

// FailSwitch makes every wallet_switchEthereumChain fail with err.
func (w *Wallet) FailSwitch(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.switchErr = err
}

// FailAdd makes every wallet_addEthereumChain fail with err.
func (w *Wallet) FailAdd(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.addErr = err
}

// HoldSwitch keeps switch prompts open until the returned release func is called.
// A value is sent on the returned channel every time a prompt opens.
func (w *Wallet) HoldSwitch() (<-chan struct{}, func()) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.gate = make(chan struct{})
	w.started = make(chan struct{}, 16)

	var once sync.Once
	gate := w.gate
	return w.started, func() { once.Do(func() { close(gate) }) }
}

// Calls returns the wallet methods invoked so far, in order.
func (w *Wallet) Calls() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, len(w.calls))
	copy(out, w.calls)
	return out
}

// CurrentChainID returns the active chain id.
func (w *Wallet) CurrentChainID() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.chainID
}

// Knows reports whether the chain is registered in the wallet.
func (w *Wallet) Knows(chainID uint64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.known[chainID]
}

// Dial starts an rpc server for the wallet and returns an in-process client to it.
func (w *Wallet) Dial() (*rpc.Client, error) {
	server := rpc.NewServer()
	if err := server.RegisterName("eth", &ethService{w: w}); err != nil {
		return nil, err
	}
	if err := server.RegisterName("wallet", &walletService{w: w}); err != nil {
		return nil, err
	}
	return rpc.DialInProc(server), nil
}

func (w *Wallet) record(method string) {
	w.mu.Lock()
	w.calls = append(w.calls, method)
	w.mu.Unlock()
}

type ethService struct {
	w *Wallet
}

func (s *ethService) ChainId() (string, error) {
	s.w.record("eth_chainId")

	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	if s.w.chainIDErr != nil {
		return "", s.w.chainIDErr
	}
	return chains.ToHex(s.w.chainID), nil
}

func (s *ethService) Accounts() ([]string, error) {
	s.w.record("eth_accounts")

	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	out := make([]string, len(s.w.accounts))
	copy(out, s.w.accounts)
	return out, nil
}

type walletService struct {
	w *Wallet
}

func (s *walletService) SwitchEthereumChain(ctx context.Context, params types.SwitchChainParams) error {
	s.w.record("wallet_switchEthereumChain")

	s.w.mu.Lock()
	gate, started := s.w.gate, s.w.started
	s.w.mu.Unlock()

	if gate != nil {
		started <- struct{}{}
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	id, err := chains.ParseHex(params.ChainID)
	if err != nil {
		return neterrors.NewProviderError(-32602, "Invalid chainId")
	}

	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	if s.w.switchErr != nil {
		return s.w.switchErr
	}
	if !s.w.known[id] {
		return neterrors.NewProviderError(neterrors.CodeUnrecognizedChain,
			"Unrecognized chain ID \""+params.ChainID+"\". Try adding the chain using wallet_addEthereumChain first.")
	}
	s.w.chainID = id
	return nil
}

func (s *walletService) AddEthereumChain(params types.AddChainParams) error {
	s.w.record("wallet_addEthereumChain")

	id, err := chains.ParseHex(params.ChainID)
	if err != nil || len(params.RPCURLs) == 0 {
		return neterrors.NewProviderError(-32602, "Invalid chain parameters")
	}

	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	if s.w.addErr != nil {
		return s.w.addErr
	}
	s.w.known[id] = true
	return nil
}
