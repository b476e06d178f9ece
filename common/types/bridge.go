package types

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ResultKind discriminates the two shapes of a bridge answer.
type ResultKind string

const (
	// ResultPlain means the bridge returned a ready transaction descriptor.
	ResultPlain ResultKind = "PLAIN"
	// ResultOtaRequired means the wallet has to pay a one-time address.
	ResultOtaRequired ResultKind = "OTA_REQUIRED"
)

// BridgeTx is the transaction descriptor returned by the bridge service.
type BridgeTx struct {
	FromAccount string       `json:"fromAccount"`
	ToAccount   string       `json:"toAccount"`
	Value       AmountString `json:"value"`
	Memo        string       `json:"memo"`
}

// Fee is one fee entry of a plain bridge answer.
type Fee struct {
	Value     AmountString `json:"value"`
	IsPercent bool         `json:"isPercent"`
}

// FeeAndQuota is the fee and quota block of a plain bridge answer.
type FeeAndQuota struct {
	NetworkFee   *Fee         `json:"networkFee,omitempty"`
	OperationFee *Fee         `json:"operationFee,omitempty"`
	MinQuota     AmountString `json:"minQuota,omitempty"`
	MaxQuota     AmountString `json:"maxQuota,omitempty"`
	Symbol       string       `json:"symbol,omitempty"`
}

// PlainTransfer is a bridge answer the user funds through their wallet.
//
// Fields:
// - Tx: the transaction descriptor.
// - FeeAndQuota: the fee block, nil when the service omitted it or sent an unknown shape.
// - ReceiveAmount: the amount credited on the destination chain.
// - Raw: the payload exactly as received, forwarded unchanged to callers.
type PlainTransfer struct {
	Tx            BridgeTx
	FeeAndQuota   *FeeAndQuota
	ReceiveAmount AmountString
	Raw           json.RawMessage
}

// TransferSummary is the part of a plain transfer shown to the user.
type TransferSummary struct {
	ToAccount     string
	ValueSats     int64
	ReceiveAmount string
	Memo          string
}

// Summary extracts the destination, value and memo of the transfer.
func (p *PlainTransfer) Summary() (TransferSummary, error) {
	value := strings.TrimSpace(p.Tx.Value.String())
	var sats int64
	if value != "" {
		var err error
		sats, err = strconv.ParseInt(value, 10, 64)
		if err != nil {
			return TransferSummary{}, errors.Wrapf(err, "failed to parse tx value %q", value)
		}
	}
	return TransferSummary{
		ToAccount:     p.Tx.ToAccount,
		ValueSats:     sats,
		ReceiveAmount: p.ReceiveAmount.String(),
		Memo:          p.Tx.Memo,
	}, nil
}

// OtaRequired is a bridge answer that requires a wallet payment to a one-time address.
type OtaRequired struct {
	OtaAddress string
	Memo       string
}

// BridgeResult is the classified bridge answer. Exactly one of Plain and Ota is set.
type BridgeResult struct {
	Kind  ResultKind
	Plain *PlainTransfer
	Ota   *OtaRequired
}
