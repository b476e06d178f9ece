package types

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
)

// ProtocolConstants holds the fixed identifiers of the bridge route.
//
// Fields:
// - FromChain: the source chain identifier.
// - ToChain: the destination chain identifier.
// - FromTokenID: the token identifier on the source chain.
// - ToTokenID: the token identifier on the destination chain.
// - PartnerTag: the partner tag reported to the bridge service.
type ProtocolConstants struct {
	FromChain   ChainType
	ToChain     ChainType
	FromTokenID string
	ToTokenID   string
	PartnerTag  string
}

// TransferRequest is one cross-chain transfer request. It is not modified after being sent.
type TransferRequest struct {
	FromAccount string
	ToAccount   string
	Amount      string
	Constants   ProtocolConstants
}

// CreateTxPayload is the body of the bridge createTx2 call.
type CreateTxPayload struct {
	FromChain   string `json:"fromChain"`
	ToChain     string `json:"toChain"`
	FromAccount string `json:"fromAccount"`
	FromToken   string `json:"fromToken"`
	ToToken     string `json:"toToken"`
	ToAccount   string `json:"toAccount"`
	Amount      string `json:"amount"`
	Partner     string `json:"partner"`
}

// Payload returns the wire body for the request.
func (r *TransferRequest) Payload() CreateTxPayload {
	return CreateTxPayload{
		FromChain:   r.Constants.FromChain.String(),
		ToChain:     r.Constants.ToChain.String(),
		FromAccount: r.FromAccount,
		FromToken:   r.Constants.FromTokenID,
		ToToken:     r.Constants.ToTokenID,
		ToAccount:   r.ToAccount,
		Amount:      r.Amount,
		Partner:     r.Constants.PartnerTag,
	}
}

// AmountString is a decimal value that may arrive as a JSON string or a JSON number.
type AmountString string

// UnmarshalJSON accepts "0.0006", 0.0006 and null.
func (a *AmountString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*a = ""
	case data[0] == '"':
		s, err := strconv.Unquote(string(data))
		if err != nil {
			return errors.Wrap(err, "failed to decode amount string")
		}
		*a = AmountString(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return errors.Wrap(err, "failed to decode amount number")
		}
		*a = AmountString(n.String())
	}
	return nil
}

// String returns the decimal text.
func (a AmountString) String() string {
	return string(a)
}
