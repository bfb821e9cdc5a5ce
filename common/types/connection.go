package types

import "strings"

// ConnectionState is the wallet connection as observed from the outside.
//
// Fields:
// - IsConnected: true when an account is exposed by the wallet.
// - Address: the connected account, empty when disconnected.
// - ChainID: the active chain id, 0 when unknown.
type ConnectionState struct {
	IsConnected bool
	Address     string
	ChainID     uint64
}

// Key identifies the connection for in-flight de-duplication.
func (s ConnectionState) Key() string {
	return strings.ToLower(s.Address)
}

// Observable reports whether the guard may run against the state.
func (s ConnectionState) Observable() bool {
	return s.IsConnected && s.ChainID != 0
}

// ConnectionEvent is published whenever the observed ConnectionState changes.
type ConnectionEvent struct {
	Previous ConnectionState
	Current  ConnectionState
}

// Opened reports whether the event is a disconnected-to-connected transition.
func (e ConnectionEvent) Opened() bool {
	return !e.Previous.IsConnected && e.Current.IsConnected
}

// ChainChanged reports whether the active chain id differs between both states.
func (e ConnectionEvent) ChainChanged() bool {
	return e.Previous.ChainID != e.Current.ChainID
}

// AccountChanged reports whether the connected address differs between both states.
func (e ConnectionEvent) AccountChanged() bool {
	return !strings.EqualFold(e.Previous.Address, e.Current.Address)
}
