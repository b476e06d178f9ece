package settlement

import (
	"context"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/sirupsen/logrus"

	"github.com/ClipFinance/btc-bridge/amount"
	"github.com/ClipFinance/btc-bridge/chains/bitcoin/utils"
	bridgeerrors "github.com/ClipFinance/btc-bridge/common/errors"
	"github.com/ClipFinance/btc-bridge/common/types"
)

const (
	// Memo is the settlement instruction attached to every OTA payment. It is
	// protocol-mandated and carried as an opaque constant.
	Memo = "07020500006e657744657800b9d2a2757cc7ea71eb79211377c8413bfdfdb74137d5d9b21fa168ae96a3f0e63bbcacaa0c0b7dfcaba49e2e0fee91761f2e769b8c175b26"
	// FeeRate is the fee rate of OTA payments in sat/vB.
	FeeRate = 1
	// ProbeAmount is the amount sent by Probe.
	ProbeAmount btcutil.Amount = 10000
)

// Wallet is the wallet session used by the driver.
type Wallet interface {
	Available() bool
	Connect(ctx context.Context) (string, error)
	AssertNetwork(ctx context.Context, target string) error
	EnsureBalance(ctx context.Context, need btcutil.Amount) error
	SubmitPayment(ctx context.Context, toAddress string, sats btcutil.Amount, opts types.PaymentOptions) (string, error)
}

// Request describes one OTA settlement.
//
// Fields:
// - OtaAddress: the one-time address returned by the bridge.
// - Amount: the decimal amount in BTC.
// - FromAddress: the account the wallet must be bound to.
// - BridgeMemo: the memo of the bridge reply, kept for logging only.
type Request struct {
	OtaAddress  string
	Amount      string
	FromAddress string
	BridgeMemo  string
}

// Driver pays a one-time address from the user's wallet.
type Driver struct {
	wallet    Wallet
	otaPrefix string
	network   string
	logger    *logrus.Logger
	now       func() time.Time
}

// NewDriver creates an OTA settlement driver.
//
// Parameters:
// - wallet: the wallet session.
// - otaPrefix: the lexical prefix one-time addresses must have.
// - network: the network the wallet must be on.
// - logger: the logger for logging events.
//
// Returns:
// - *Driver: the driver.
func NewDriver(wallet Wallet, otaPrefix, network string, logger *logrus.Logger) *Driver {
	return &Driver{
		wallet:    wallet,
		otaPrefix: otaPrefix,
		network:   network,
		logger:    logger,
		now:       time.Now,
	}
}

// PaymentOptions returns the options every OTA payment is sent with.
func PaymentOptions() types.PaymentOptions {
	return types.PaymentOptions{
		FeeRate:   FeeRate,
		Memo:      Memo,
		EnableRBF: true,
	}
}

// Settle validates the request locally, prepares the wallet and sends the payment.
//
// Parameters:
// - ctx: the context for managing the request.
// - req: the settlement request.
//
// Returns:
// - *types.SettlementOutcome: the outcome of the payment.
// - error: a classified error from common/errors.
func (d *Driver) Settle(ctx context.Context, req Request) (*types.SettlementOutcome, error) {
	if !d.wallet.Available() {
		return nil, bridgeerrors.Wrap(bridgeerrors.KindWalletUnavailable, nil,
			"Wallet is not installed. Please install a Bitcoin wallet extension.")
	}

	if req.FromAddress == "" {
		return nil, bridgeerrors.ErrMissingField
	}
	normalized, err := amount.WalletLimits.Normalize(req.Amount)
	if err != nil {
		return nil, err
	}
	if err := d.validateOtaAddress(req.OtaAddress); err != nil {
		return nil, err
	}

	logger := d.logger.WithFields(logrus.Fields{
		"ota":        req.OtaAddress,
		"sats":       int64(normalized.Subunits),
		"bridgeMemo": req.BridgeMemo,
	})

	account, err := d.prepare(ctx, req.FromAddress, normalized.Subunits)
	if err != nil {
		logger.WithError(err).Warn("Wallet is not ready for settlement")
		return nil, err
	}

	txHash, err := d.wallet.SubmitPayment(ctx, req.OtaAddress, normalized.Subunits, PaymentOptions())
	if err != nil {
		logger.WithError(err).Error("Settlement payment failed")
		return nil, err
	}

	logger.WithField("txHash", txHash).Info("Settlement payment sent")
	return &types.SettlementOutcome{
		Success:     true,
		TxHash:      txHash,
		FromAddress: account,
		ToAddress:   req.OtaAddress,
		Amount:      req.Amount,
		Memo:        Memo,
		Timestamp:   d.now().UTC(),
	}, nil
}

// Probe sends a fixed small payment to otaAddress to check that the wallet
// accepts the settlement parameters. The bound account is not checked.
func (d *Driver) Probe(ctx context.Context, otaAddress string) (*types.SettlementOutcome, error) {
	if !d.wallet.Available() {
		return nil, bridgeerrors.ErrWalletUnavailable
	}
	if err := d.validateOtaAddress(otaAddress); err != nil {
		return nil, err
	}

	account, err := d.prepare(ctx, "", ProbeAmount)
	if err != nil {
		return nil, err
	}

	txHash, err := d.wallet.SubmitPayment(ctx, otaAddress, ProbeAmount, PaymentOptions())
	if err != nil {
		return nil, err
	}
	return &types.SettlementOutcome{
		Success:     true,
		TxHash:      txHash,
		FromAddress: account,
		ToAddress:   otaAddress,
		Amount:      utils.FormatBTC(ProbeAmount),
		Memo:        Memo,
		Timestamp:   d.now().UTC(),
	}, nil
}

// prepare binds the wallet, checks the account when expected is set, asserts
// the network and runs the balance pre-flight.
func (d *Driver) prepare(ctx context.Context, expected string, need btcutil.Amount) (string, error) {
	account, err := d.wallet.Connect(ctx)
	if err != nil {
		return "", err
	}
	if expected != "" && account != expected {
		d.logger.WithField("connected", account).WithField("expected", expected).Warn("Wallet account mismatch")
		return "", bridgeerrors.ErrAccountMismatch
	}

	if err := d.wallet.AssertNetwork(ctx, d.network); err != nil {
		return "", err
	}
	if err := d.wallet.EnsureBalance(ctx, need); err != nil {
		return "", err
	}
	return account, nil
}

func (d *Driver) validateOtaAddress(address string) error {
	if !utils.HasOtaPrefix(address, d.otaPrefix) {
		return bridgeerrors.Newf(bridgeerrors.KindInvalidOtaAddress,
			"Invalid OTA address format. Must be a valid testnet address starting with '%s'", d.otaPrefix)
	}
	return nil
}
