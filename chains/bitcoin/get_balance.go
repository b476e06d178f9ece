package bitcoin

import (
	"context"

	"github.com/btcsuite/btcd/btcutil"

	"github.com/ClipFinance/btc-bridge/chains/bitcoin/utils"
	bridgeerrors "github.com/ClipFinance/btc-bridge/common/errors"
)

// Balance reads the confirmed wallet balance in satoshis.
// The value is advisory; the provider remains the source of truth at payment time.
//
// Parameters:
// - ctx: the context for managing the request.
//
// Returns:
// - btcutil.Amount: the confirmed balance.
// - error: WalletUnavailable if the balance cannot be read or parsed.
func (s *Session) Balance(ctx context.Context) (btcutil.Amount, error) {
	if !s.Available() {
		return 0, bridgeerrors.ErrWalletUnavailable
	}

	raw, err := s.provider.GetBalance(ctx)
	if err != nil {
		return 0, bridgeerrors.Wrap(bridgeerrors.KindWalletUnavailable, err, "Failed to read wallet balance")
	}

	balance, err := utils.ParseBalance(raw)
	if err != nil {
		return 0, bridgeerrors.Wrap(bridgeerrors.KindWalletUnavailable, err, "Failed to read wallet balance")
	}

	s.stateMutex.Lock()
	s.balance = balance
	s.stateMutex.Unlock()

	s.logger.WithField("balance", int64(balance)).Debug("Wallet balance read")
	return balance, nil
}

// EnsureBalance fails with InsufficientBalance when the confirmed balance is below need.
func (s *Session) EnsureBalance(ctx context.Context, need btcutil.Amount) error {
	balance, err := s.Balance(ctx)
	if err != nil {
		return err
	}
	if balance < need {
		return bridgeerrors.Newf(bridgeerrors.KindInsufficientBalance,
			"Insufficient balance. You have %s tBTC, but need %s tBTC",
			utils.FormatBTC(balance), utils.FormatBTC(need))
	}
	return nil
}
