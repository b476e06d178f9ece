package bitcoin

import (
	"context"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/pkg/errors"

	"github.com/ClipFinance/btc-bridge/amount"
	bridgeerrors "github.com/ClipFinance/btc-bridge/common/errors"
	"github.com/ClipFinance/btc-bridge/common/types"
)

// amountEncoder renders an amount in one of the representations a provider may accept.
type amountEncoder struct {
	name   string
	encode func(n *amount.Normalized) interface{}
}

// paymentEncoders is tried in order until the provider accepts one.
var paymentEncoders = []amountEncoder{
	{
		name:   "satoshis",
		encode: func(n *amount.Normalized) interface{} { return int64(n.Subunits) },
	},
	{
		name:   "btc",
		encode: func(n *amount.Normalized) interface{} { return n.Float },
	},
	{
		name:   "fixed8",
		encode: func(n *amount.Normalized) interface{} { return n.Fixed() },
	},
}

// SubmitPayment sends sats to toAddress, falling back through the amount encodings.
//
// Parameters:
// - ctx: the context for managing the request.
// - toAddress: the recipient address.
// - sats: the amount in satoshis.
// - opts: the fee rate, memo and RBF flag.
//
// Returns:
// - string: the transaction hash.
// - error: UserRejected or PaymentFailed.
func (s *Session) SubmitPayment(ctx context.Context, toAddress string, sats btcutil.Amount, opts types.PaymentOptions) (string, error) {
	if !s.Available() {
		return "", bridgeerrors.ErrWalletUnavailable
	}

	s.submitMutex.Lock()
	defer s.submitMutex.Unlock()

	if s.Account() == "" {
		return "", bridgeerrors.New(bridgeerrors.KindWalletUnavailable, "Wallet is not connected")
	}

	normalized := amount.NewNormalized(sats)
	attemptErrs := make([]error, 0, len(paymentEncoders))
	for _, encoder := range paymentEncoders {
		if err := ctx.Err(); err != nil {
			return "", bridgeerrors.Wrap(bridgeerrors.KindPaymentFailed, err, bridgeerrors.ErrPaymentFailed.Message)
		}

		logger := s.logger.WithField("encoding", encoder.name).WithField("to", toAddress).WithField("sats", int64(sats))
		logger.Debug("Submitting payment")

		txHash, err := s.provider.SendBitcoin(ctx, toAddress, encoder.encode(normalized), opts)
		if err == nil {
			s.record(encoder.name, true)
			logger.WithField("txHash", txHash).Info("Payment submitted")
			return txHash, nil
		}

		s.record(encoder.name, false)
		logger.WithError(err).Warn("Payment attempt failed")
		attemptErrs = append(attemptErrs, err)
	}

	return "", classifyPaymentError(pickPaymentError(attemptErrs))
}

// pickPaymentError returns the last error if it carries a message, else the
// second, else the first.
func pickPaymentError(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	last := errs[len(errs)-1]
	if hasMessage(last) {
		return last
	}
	if len(errs) > 1 && hasMessage(errs[1]) {
		return errs[1]
	}
	return errs[0]
}

func hasMessage(err error) bool {
	var providerErr *types.ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.Message != ""
	}
	return err.Error() != ""
}

// classifyPaymentError maps a provider failure to the error taxonomy.
func classifyPaymentError(err error) error {
	var providerErr *types.ProviderError
	if errors.As(err, &providerErr) {
		switch providerErr.Code {
		case types.ProviderCodeUserRejected:
			return bridgeerrors.Wrap(bridgeerrors.KindUserRejected, err, bridgeerrors.ErrUserRejected.Message)
		case types.ProviderCodeInternal:
			return bridgeerrors.Wrap(bridgeerrors.KindPaymentFailed, err, "Insufficient balance or invalid amount")
		}
		if providerErr.Message != "" {
			return bridgeerrors.Wrap(bridgeerrors.KindPaymentFailed, err, providerErr.Message)
		}
		return bridgeerrors.Wrap(bridgeerrors.KindPaymentFailed, err, bridgeerrors.ErrPaymentFailed.Message)
	}
	if err == nil || err.Error() == "" {
		return bridgeerrors.Wrap(bridgeerrors.KindPaymentFailed, err, bridgeerrors.ErrPaymentFailed.Message)
	}
	return bridgeerrors.Wrap(bridgeerrors.KindPaymentFailed, err, err.Error())
}
