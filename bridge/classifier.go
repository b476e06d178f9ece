package bridge

import (
	"bytes"
	"encoding/json"

	"github.com/ClipFinance/btc-bridge/chains/bitcoin/utils"
	bridgeerrors "github.com/ClipFinance/btc-bridge/common/errors"
	"github.com/ClipFinance/btc-bridge/common/types"
)

// envelope is the {success, data} wrapper some bridge replies use.
type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

// payload is the part of a bridge reply the classifier needs.
type payload struct {
	Tx            json.RawMessage `json:"tx"`
	FeeAndQuota   json.RawMessage `json:"feeAndQuota"`
	ReceiveAmount json.RawMessage `json:"receiveAmount"`
}

// Classifier decides whether a bridge reply is a plain transfer or requires an OTA payment.
type Classifier struct {
	otaPrefix string
}

// NewClassifier creates a classifier. A reply whose tx.toAccount starts with
// otaPrefix requires an OTA settlement.
func NewClassifier(otaPrefix string) *Classifier {
	return &Classifier{otaPrefix: otaPrefix}
}

// OtaPrefix returns the configured one-time address prefix.
func (c *Classifier) OtaPrefix() string {
	return c.otaPrefix
}

// Classify inspects a raw bridge reply.
//
// Parameters:
// - raw: the reply body, bare or wrapped in a {success, data} envelope.
//
// Returns:
// - *types.BridgeResult: the plain transfer or the OTA requirement.
// - error: MalformedResponse, or RemoteUnavailable for an explicit success:false.
func (c *Classifier) Classify(raw []byte) (*types.BridgeResult, error) {
	body := bytes.TrimSpace(raw)
	if len(body) == 0 {
		return nil, bridgeerrors.New(bridgeerrors.KindMalformedResponse, "Empty bridge response")
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, bridgeerrors.Wrap(bridgeerrors.KindMalformedResponse, err, bridgeerrors.ErrMalformedResponse.Message)
	}
	if env.Success != nil && !*env.Success {
		message := env.Error
		if message == "" {
			message = env.Message
		}
		if message == "" {
			return nil, bridgeerrors.ErrRemoteUnavailable
		}
		return nil, bridgeerrors.New(bridgeerrors.KindRemoteUnavailable, message)
	}

	data := body
	if len(env.Data) > 0 && !bytes.Equal(env.Data, []byte("null")) {
		data = env.Data
	}

	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, bridgeerrors.Wrap(bridgeerrors.KindMalformedResponse, err, bridgeerrors.ErrMalformedResponse.Message)
	}
	if len(p.Tx) == 0 || bytes.Equal(p.Tx, []byte("null")) {
		return nil, bridgeerrors.New(bridgeerrors.KindMalformedResponse, "Bridge response has no transaction")
	}

	var tx types.BridgeTx
	if err := json.Unmarshal(p.Tx, &tx); err != nil {
		return nil, bridgeerrors.Wrap(bridgeerrors.KindMalformedResponse, err, "Bridge response has an invalid transaction")
	}

	if utils.HasOtaPrefix(tx.ToAccount, c.otaPrefix) {
		return &types.BridgeResult{
			Kind: types.ResultOtaRequired,
			Ota: &types.OtaRequired{
				OtaAddress: tx.ToAccount,
				Memo:       tx.Memo,
			},
		}, nil
	}

	plain := &types.PlainTransfer{
		Tx:  tx,
		Raw: json.RawMessage(append([]byte(nil), body...)),
	}
	// The fee block and receive amount are informational; unknown shapes are dropped.
	if len(p.FeeAndQuota) > 0 {
		var fees types.FeeAndQuota
		if err := json.Unmarshal(p.FeeAndQuota, &fees); err == nil {
			plain.FeeAndQuota = &fees
		}
	}
	if len(p.ReceiveAmount) > 0 {
		var receive types.AmountString
		if err := json.Unmarshal(p.ReceiveAmount, &receive); err == nil {
			plain.ReceiveAmount = receive
		}
	}

	return &types.BridgeResult{
		Kind:  types.ResultPlain,
		Plain: plain,
	}, nil
}
