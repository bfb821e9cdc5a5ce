package errors

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "nil", err: nil, want: KindNone},
		{name: "no provider", err: ErrNoProvider, want: KindNoProvider},
		{name: "wrapped no provider", err: errors.Wrap(ErrNoProvider, "add chain"), want: KindNoProvider},
		{name: "user rejected code", err: NewProviderError(CodeUserRejected, "User rejected the request."), want: KindUserRejected},
		{name: "unrecognized chain code", err: NewProviderError(CodeUnrecognizedChain, "Unrecognized chain ID"), want: KindChainNotRegistered},
		{
			name: "wrapped unrecognized chain code",
			err:  errors.Wrap(NewProviderError(CodeUnrecognizedChain, "x"), "wallet_switchEthereumChain"),
			want: KindChainNotRegistered,
		},
		{
			name: "nested original error code",
			err: &ProviderError{
				Code:    CodeInternal,
				Message: "Internal JSON-RPC error.",
				Data:    map[string]interface{}{"originalError": map[string]interface{}{"code": float64(4902)}},
			},
			want: KindChainNotRegistered,
		},
		{
			name: "message shim for generic code",
			err:  NewProviderError(CodeInternal, "Unrecognized chain ID \"0x3e9\". Try adding the chain using wallet_addEthereumChain first."),
			want: KindChainNotRegistered,
		},
		{
			name: "code wins over message",
			err:  NewProviderError(CodeUserRejected, "chain not added"),
			want: KindUserRejected,
		},
		{name: "message shim without code", err: errors.New("MetaMask: User denied the request"), want: KindUserRejected},
		{name: "pending request", err: NewProviderError(CodeResourceUnavailable, "Request already pending"), want: KindProviderError},
		{name: "canceled", err: errors.Wrap(context.Canceled, "switch"), want: KindProviderError},
		{name: "opaque", err: errors.New("connection refused"), want: KindProviderError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestCode(t *testing.T) {
	code, ok := Code(errors.Wrap(NewProviderError(CodeUnrecognizedChain, "x"), "outer"))
	assert.True(t, ok)
	assert.Equal(t, CodeUnrecognizedChain, code)

	_, ok = Code(errors.New("plain"))
	assert.False(t, ok)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "chain-not-registered", KindChainNotRegistered.String())
	assert.Equal(t, "no-provider", KindNoProvider.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
