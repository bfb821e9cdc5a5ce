package provider

import (
	"context"
	"sync"

	neterrors "github.com/ClipFinance/netguard/common/errors"
	"github.com/ClipFinance/netguard/metrics"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Client is an injected provider reached over JSON-RPC (HTTP, WebSocket or IPC).
// The underlying rpc client can be replaced by Reconnect while calls are served.
type Client struct {
	url     string
	logger  *logrus.Logger
	metrics *metrics.Collector

	clientMutex sync.RWMutex
	client      *rpc.Client
}

// Dial connects to the wallet provider endpoint.
//
// Parameters:
// - ctx: the context for managing the dial.
// - url: the provider endpoint, any scheme supported by go-ethereum rpc.
// - logger: the logger for logging purposes.
//
// Returns:
// - *Client: the connected client.
// - error: an error if the endpoint cannot be dialed.
func Dial(ctx context.Context, url string, logger *logrus.Logger) (*Client, error) {
	client, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to dial provider %s", url)
	}

	return &Client{
		url:    url,
		logger: logger,
		client: client,
	}, nil
}

// NewClient wraps an already connected rpc client, e.g. an in-process one.
// Reconnect is unavailable for clients built this way.
func NewClient(client *rpc.Client, logger *logrus.Logger) *Client {
	return &Client{
		logger: logger,
		client: client,
	}
}

// WithMetrics enables request counting.
func (c *Client) WithMetrics(collector *metrics.Collector) *Client {
	c.metrics = collector
	return c
}

// CallContext implements types.InjectedProvider. A nil *Client behaves as a
// missing provider.
func (c *Client) CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	if c == nil {
		return neterrors.ErrNoProvider
	}

	c.clientMutex.RLock()
	client := c.client
	c.clientMutex.RUnlock()

	if client == nil {
		return neterrors.ErrNoProvider
	}

	err := client.CallContext(ctx, result, method, args...)
	c.metrics.ObserveRequest(method, err)
	if err != nil && c.logger != nil {
		c.logger.WithFields(logrus.Fields{
			"method": method,
			"error":  err,
		}).Debug("Provider request failed")
	}
	return err
}

// Reconnect re-dials the provider endpoint and swaps the underlying client.
//
// Parameters:
// - ctx: the context for managing the dial.
//
// Returns:
// - error: an error if the client has no url or the dial fails.
func (c *Client) Reconnect(ctx context.Context) error {
	if c.url == "" {
		return errors.Wrap(neterrors.ErrNotImplemented, "client was not dialed from an url")
	}

	client, err := rpc.DialContext(ctx, c.url)
	if err != nil {
		return errors.Wrapf(err, "failed to redial provider %s", c.url)
	}

	c.clientMutex.Lock()
	old := c.client
	c.client = client
	c.clientMutex.Unlock()

	if old != nil {
		old.Close()
	}
	return nil
}

// Close closes the underlying connection. Later calls fail with ErrNoProvider.
func (c *Client) Close() {
	c.clientMutex.Lock()
	defer c.clientMutex.Unlock()

	if c.client != nil {
		c.client.Close()
		c.client = nil
	}
}
