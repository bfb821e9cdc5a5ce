package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrNoProvider       = errors.New("no injected provider available")
	ErrNotConnected     = errors.New("wallet is not connected or chain id is unknown")
	ErrChainNotFound    = errors.New("chain not found")
	ErrInvalidChainID   = errors.New("invalid chain id")
	ErrChainNotAllowed  = errors.New("chain is not in the allow-list")
	ErrChainExists      = errors.New("chain already exists in registry")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrMonitorRunning   = errors.New("connection monitor is already running")
	ErrNotImplemented   = errors.New("functionality not implemented")
	ErrDatabaseConnect  = errors.New("failed to connect to database")
	ErrInvalidAddress   = errors.New("invalid address")
	ErrMalformedChainID = errors.New("malformed chain id")
)

// EIP-1193 and EIP-1474 provider error codes.
const (
	CodeUserRejected        = 4001
	CodeUnauthorized        = 4100
	CodeUnsupportedMethod   = 4200
	CodeDisconnected        = 4900
	CodeChainDisconnected   = 4901
	CodeUnrecognizedChain   = 4902
	CodeResourceUnavailable = -32002
	CodeInternal            = -32603
)

// Kind is the error taxonomy the network guard reasons about.
type Kind int

const (
	// KindNone is returned for a nil error.
	KindNone Kind = iota
	// KindNoProvider means no injected wallet provider is available.
	KindNoProvider
	// KindUserRejected means the user explicitly declined a prompt.
	KindUserRejected
	// KindChainNotRegistered means the wallet does not know the requested chain.
	KindChainNotRegistered
	// KindProviderError is any other provider failure.
	KindProviderError
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNoProvider:
		return "no-provider"
	case KindUserRejected:
		return "user-rejected"
	case KindChainNotRegistered:
		return "chain-not-registered"
	case KindProviderError:
		return "provider-error"
	default:
		return "unknown"
	}
}

// ProviderError is a JSON-RPC error with a structured code.
// It satisfies the go-ethereum rpc.Error and rpc.DataError interfaces, so it
// keeps its code when returned from an rpc server handler.
type ProviderError struct {
	Code    int
	Message string
	Data    interface{}
}

// NewProviderError creates a ProviderError.
//
// Parameters:
// - code: the EIP-1193 / JSON-RPC error code.
// - message: the error message.
//
// Returns:
// - *ProviderError: the new error.
func NewProviderError(code int, message string) *ProviderError {
	return &ProviderError{Code: code, Message: message}
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error %d: %s", e.Code, e.Message)
}

// ErrorCode returns the structured error code.
func (e *ProviderError) ErrorCode() int { return e.Code }

// ErrorData returns the optional error data.
func (e *ProviderError) ErrorData() interface{} { return e.Data }

type coded interface {
	ErrorCode() int
}

type withData interface {
	ErrorData() interface{}
}

// Code extracts the structured code from err or any error it wraps.
//
// Returns:
// - int: the error code.
// - bool: false if no error in the chain carries a code.
func Code(err error) (int, bool) {
	var c coded
	if errors.As(err, &c) {
		return c.ErrorCode(), true
	}
	return 0, false
}

// Classify maps an error onto the guard taxonomy.
// The structured code wins; message matching is only a compatibility shim
// for providers that report a generic code or none at all.
func Classify(err error) Kind {
	if err == nil {
		return KindNone
	}
	if errors.Is(err, ErrNoProvider) {
		return KindNoProvider
	}

	if code, ok := Code(err); ok {
		if kind, known := kindForCode(code); known {
			return kind
		}
	}

	if code, ok := nestedCode(err); ok {
		if kind, known := kindForCode(code); known {
			return kind
		}
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindProviderError
	}

	return classifyMessage(err.Error())
}

func kindForCode(code int) (Kind, bool) {
	switch code {
	case CodeUserRejected:
		return KindUserRejected, true
	case CodeUnrecognizedChain:
		return KindChainNotRegistered, true
	default:
		return KindProviderError, false
	}
}

// nestedCode digs the code some mobile wallets put in data.originalError.code.
func nestedCode(err error) (int, bool) {
	var d withData
	if !errors.As(err, &d) {
		return 0, false
	}

	data, ok := d.ErrorData().(map[string]interface{})
	if !ok {
		return 0, false
	}

	if original, ok := data["originalError"].(map[string]interface{}); ok {
		if code, ok := numberToInt(original["code"]); ok {
			return code, true
		}
	}
	return numberToInt(data["code"])
}

func numberToInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	default:
		return 0, false
	}
}

func classifyMessage(msg string) Kind {
	msg = strings.ToLower(msg)
	switch {
	case strings.Contains(msg, "unrecognized chain"),
		strings.Contains(msg, "chain not added"),
		strings.Contains(msg, "4902"):
		return KindChainNotRegistered
	case strings.Contains(msg, "user rejected"),
		strings.Contains(msg, "user denied"):
		return KindUserRejected
	default:
		return KindProviderError
	}
}
