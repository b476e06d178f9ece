package bridge

import (
	"strings"

	bridgeerrors "github.com/ClipFinance/btc-bridge/common/errors"
	"github.com/ClipFinance/btc-bridge/common/types"
)

// RequestBuilder assembles transfer requests from user input and fixed route constants.
type RequestBuilder struct {
	constants types.ProtocolConstants
}

// NewRequestBuilder creates a request builder for the given route.
func NewRequestBuilder(constants types.ProtocolConstants) *RequestBuilder {
	return &RequestBuilder{constants: constants}
}

// Constants returns the route constants.
func (b *RequestBuilder) Constants() types.ProtocolConstants {
	return b.constants
}

// Build creates a transfer request.
//
// Parameters:
// - fromAccount: the source chain address.
// - toAccount: the destination chain address.
// - amount: the decimal amount.
//
// Returns:
// - *types.TransferRequest: the request.
// - error: MissingField if any input is blank.
func (b *RequestBuilder) Build(fromAccount, toAccount, amount string) (*types.TransferRequest, error) {
	fromAccount = strings.TrimSpace(fromAccount)
	toAccount = strings.TrimSpace(toAccount)
	amount = strings.TrimSpace(amount)

	if fromAccount == "" || toAccount == "" || amount == "" {
		return nil, bridgeerrors.ErrMissingField
	}

	return &types.TransferRequest{
		FromAccount: fromAccount,
		ToAccount:   toAccount,
		Amount:      amount,
		Constants:   b.constants,
	}, nil
}
