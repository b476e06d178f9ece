package bitcoin

import (
	"context"

	"github.com/pkg/errors"

	bridgeerrors "github.com/ClipFinance/btc-bridge/common/errors"
	"github.com/ClipFinance/btc-bridge/common/types"
)

// Connect asks the wallet for its accounts and binds the first one.
//
// Parameters:
// - ctx: the context for managing the request.
//
// Returns:
// - string: the bound account.
// - error: WalletUnavailable or UserRejected.
func (s *Session) Connect(ctx context.Context) (string, error) {
	if !s.Available() {
		return "", bridgeerrors.ErrWalletUnavailable
	}

	accounts, err := s.provider.RequestAccounts(ctx)
	if err != nil {
		if isUserRejection(err) {
			return "", bridgeerrors.Wrap(bridgeerrors.KindUserRejected, err, bridgeerrors.ErrUserRejected.Message)
		}
		return "", bridgeerrors.Wrap(bridgeerrors.KindWalletUnavailable, err, "Failed to connect wallet")
	}
	if len(accounts) == 0 || accounts[0] == "" {
		return "", bridgeerrors.New(bridgeerrors.KindWalletUnavailable, "Wallet returned no accounts")
	}

	s.stateMutex.Lock()
	s.boundAccount = accounts[0]
	s.stateMutex.Unlock()

	s.logger.WithField("account", accounts[0]).Debug("Wallet connected")
	return accounts[0], nil
}

// isUserRejection reports whether err is a provider error with the user rejection code.
func isUserRejection(err error) bool {
	var providerErr *types.ProviderError
	return errors.As(err, &providerErr) && providerErr.Code == types.ProviderCodeUserRejected
}
