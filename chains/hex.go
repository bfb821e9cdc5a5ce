package chains

import (
	"strings"

	neterrors "github.com/ClipFinance/netguard/common/errors"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
)

// ToHex encodes a chain id the way wallets expect it: 0x followed by lowercase hex.
func ToHex(chainID uint64) string {
	return hexutil.EncodeUint64(chainID)
}

// ParseHex decodes a hex chain id as returned by eth_chainId.
// Leading zeros are tolerated since some providers pad the quantity.
//
// Parameters:
// - s: the hex string, with or without the 0x prefix.
//
// Returns:
// - uint64: the decimal chain id.
// - error: ErrMalformedChainID if s is not a hex quantity.
func ParseHex(s string) (uint64, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "0x")
	if s == "" {
		return 0, errors.Wrap(neterrors.ErrMalformedChainID, "empty value")
	}

	trimmed := strings.TrimLeft(s, "0")
	if trimmed == "" {
		trimmed = "0"
	}

	id, err := hexutil.DecodeUint64("0x" + trimmed)
	if err != nil {
		return 0, errors.Wrapf(neterrors.ErrMalformedChainID, "%q: %v", s, err)
	}
	return id, nil
}
