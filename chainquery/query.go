package chainquery

import (
	"context"

	"github.com/ClipFinance/netguard/common/types"
	"github.com/ClipFinance/netguard/provider"
	"github.com/sirupsen/logrus"
)

// Unknown is returned when the chain id cannot be determined. It is never a valid chain.
const Unknown uint64 = 0

// Query reads the wallet's active chain id without going through the connection monitor.
type Query struct {
	provider types.InjectedProvider
	logger   *logrus.Logger
}

// New creates a chain query over provider, which may be nil.
func New(provider types.InjectedProvider, logger *logrus.Logger) *Query {
	return &Query{provider: provider, logger: logger}
}

// QueryChainID returns the active chain id, or Unknown if there is no provider
// or the provider fails. Errors are logged, never returned.
//
// Parameters:
// - ctx: the context for managing the request.
//
// Returns:
// - uint64: the decimal chain id or Unknown.
func (q *Query) QueryChainID(ctx context.Context) uint64 {
	if q.provider == nil {
		return Unknown
	}

	id, err := provider.NewWallet(q.provider).ChainID(ctx)
	if err != nil {
		if q.logger != nil {
			q.logger.WithError(err).Warn("Failed to query chain id, reporting unknown")
		}
		return Unknown
	}
	return id
}

// QueryChainID is a one-off helper around Query.
func QueryChainID(ctx context.Context, p types.InjectedProvider, logger *logrus.Logger) uint64 {
	return New(p, logger).QueryChainID(ctx)
}
