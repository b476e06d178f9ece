package amount

import (
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/shopspring/decimal"

	bridgeerrors "github.com/ClipFinance/btc-bridge/common/errors"
)

const (
	// Decimals is the number of fractional digits kept for a BTC amount.
	Decimals = 8
	// MinSubunits is the smallest payment accepted after conversion to satoshis.
	MinSubunits btcutil.Amount = 1000

	// maxIntegerDigits is the number of integer digits of the total BTC supply.
	maxIntegerDigits = 8
	// minExponent bounds the fractional digits accepted before rounding.
	minExponent = -1000
)

// MaxAmount is the largest amount representable in satoshis, the total BTC supply.
var MaxAmount = FromSubunits(btcutil.MaxSatoshi)

// Limits bounds an amount expressed in BTC. Max is ignored when not valid.
type Limits struct {
	Min decimal.Decimal
	Max decimal.NullDecimal
}

var (
	// BridgeLimits applies when a bridge transaction is created.
	BridgeLimits = Limits{
		Min: decimal.RequireFromString("0.0001"),
	}

	// WalletLimits applies when the wallet pays a one-time address.
	WalletLimits = Limits{
		Min: decimal.RequireFromString("0.00001"),
		Max: decimal.NewNullDecimal(decimal.NewFromInt(1)),
	}
)

// Normalized is a validated amount in its decimal and satoshi representations.
//
// Fields:
// - Decimal: the amount in BTC, rounded to 8 fractional digits.
// - Float: Decimal as a float64, for providers that take a JSON number.
// - Subunits: the amount in satoshis.
type Normalized struct {
	Decimal  decimal.Decimal
	Float    float64
	Subunits btcutil.Amount
}

// Fixed returns the amount as a string with exactly 8 fractional digits.
func (n *Normalized) Fixed() string {
	return n.Decimal.StringFixed(Decimals)
}

// NewNormalized builds the representations of an amount already in satoshis.
func NewNormalized(sats btcutil.Amount) *Normalized {
	d := FromSubunits(sats)
	f, _ := d.Float64()
	return &Normalized{
		Decimal:  d,
		Float:    f,
		Subunits: sats,
	}
}

// Normalize validates raw against the limits and converts it.
//
// Parameters:
// - raw: the user-supplied decimal amount in BTC.
//
// Returns:
// - *Normalized: the validated amount.
// - error: InvalidAmount, AmountTooSmall or AmountTooLarge. Amounts above
// MaxAmount are InvalidAmount.
func (l Limits) Normalize(raw string) (*Normalized, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return nil, bridgeerrors.Wrap(bridgeerrors.KindInvalidAmount, err, bridgeerrors.ErrInvalidAmount.Message)
	}
	if !value.IsPositive() {
		return nil, bridgeerrors.ErrInvalidAmount
	}

	// Comparisons rescale both operands, so the magnitude is bounded on digit counts first.
	integerDigits := int64(value.NumDigits()) + int64(value.Exponent())
	if integerDigits > maxIntegerDigits {
		return nil, errAboveSupply()
	}
	if integerDigits < -Decimals {
		return nil, l.errTooSmall()
	}
	if value.Exponent() < minExponent {
		return nil, bridgeerrors.ErrInvalidAmount
	}
	if value.GreaterThan(MaxAmount) {
		return nil, errAboveSupply()
	}

	if value.LessThan(l.Min) {
		return nil, l.errTooSmall()
	}
	if l.Max.Valid && value.GreaterThan(l.Max.Decimal) {
		return nil, bridgeerrors.Newf(bridgeerrors.KindAmountTooLarge, "Amount too large. Maximum amount is %s tBTC", l.Max.Decimal.String())
	}

	shifted := value.Round(Decimals).Shift(Decimals).Round(0)
	if !shifted.BigInt().IsInt64() {
		return nil, errAboveSupply()
	}
	subunits := btcutil.Amount(shifted.IntPart())
	if subunits < MinSubunits {
		return nil, bridgeerrors.Newf(bridgeerrors.KindAmountTooSmall, "Amount is too small. Minimum amount is %s tBTC", FromSubunits(MinSubunits).String())
	}

	return NewNormalized(subunits), nil
}

func (l Limits) errTooSmall() error {
	return bridgeerrors.Newf(bridgeerrors.KindAmountTooSmall, "Amount too small. Minimum amount is %s tBTC", l.Min.String())
}

func errAboveSupply() error {
	return bridgeerrors.Newf(bridgeerrors.KindInvalidAmount, "Invalid amount: Amount must not exceed %s tBTC", MaxAmount.String())
}

// Normalize validates raw against limits. See Limits.Normalize.
func Normalize(raw string, limits Limits) (*Normalized, error) {
	return limits.Normalize(raw)
}

// FromSubunits converts satoshis back to a BTC decimal.
func FromSubunits(sats btcutil.Amount) decimal.Decimal {
	return decimal.NewFromInt(int64(sats)).Shift(-Decimals)
}
