package types

import "strings"

// NetworkType represents the role of a network in the application.
type NetworkType string

const (
	// TESTNET represents the network used for development and onboarding.
	TESTNET NetworkType = "TESTNET"
	// MAINNET represents the production network.
	MAINNET NetworkType = "MAINNET"
	// UNKNOWN represents an unknown or unsupported network type.
	UNKNOWN NetworkType = "UNKNOWN"
)

// String converts NetworkType to string representation
func (t NetworkType) String() string {
	return string(t)
}

// ParseNetworkType converts string to NetworkType representation.
// Matching is case-insensitive so config values like "testnet" are accepted.
func ParseNetworkType(s string) NetworkType {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case TESTNET.String():
		return TESTNET
	case MAINNET.String():
		return MAINNET
	default:
		return UNKNOWN
	}
}
