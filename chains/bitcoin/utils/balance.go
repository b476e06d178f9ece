package utils

import (
	"bytes"
	"encoding/json"
	"math/big"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// balanceFields are the object keys holding a balance, by precedence.
var balanceFields = []string{"confirmed", "total", "amount"}

// ParseBalance reads a wallet balance in satoshis. Accepted shapes are a number,
// or an object with a confirmed, total or amount field (first present wins),
// given as a Go value or as JSON. A nil balance or an object without any of the
// fields reads as zero.
//
// Parameters:
// - raw: the balance as returned by the wallet provider.
//
// Returns:
// - btcutil.Amount: the balance.
// - error: an error if the value has an unsupported type.
func ParseBalance(raw interface{}) (btcutil.Amount, error) {
	switch v := raw.(type) {
	case nil:
		return 0, nil
	case json.RawMessage:
		return parseBalanceJSON(v)
	case []byte:
		return parseBalanceJSON(v)
	case map[string]interface{}:
		for _, field := range balanceFields {
			if value, ok := v[field]; ok && value != nil {
				return ParseBalance(value)
			}
		}
		return 0, nil
	}

	value, err := toDecimal(raw)
	if err != nil {
		return 0, err
	}
	return btcutil.Amount(value.Round(0).IntPart()), nil
}

func parseBalanceJSON(data []byte) (btcutil.Amount, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var value interface{}
	if err := decoder.Decode(&value); err != nil {
		return 0, errors.Wrap(err, "failed to decode balance")
	}
	return ParseBalance(value)
}

func toDecimal(raw interface{}) (decimal.Decimal, error) {
	switch v := raw.(type) {
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case uint64:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(v), 0), nil
	case float64:
		return decimal.NewFromFloat(v), nil
	case btcutil.Amount:
		return decimal.NewFromInt(int64(v)), nil
	case json.Number:
		value, err := decimal.NewFromString(v.String())
		return value, errors.Wrap(err, "failed to parse balance")
	case string:
		value, err := decimal.NewFromString(strings.TrimSpace(v))
		return value, errors.Wrap(err, "failed to parse balance")
	default:
		return decimal.Zero, errors.Errorf("unsupported balance type %T", raw)
	}
}

// FormatBTC renders satoshis as a BTC decimal without trailing zeros.
func FormatBTC(sats btcutil.Amount) string {
	return decimal.NewFromInt(int64(sats)).Shift(-8).String()
}
