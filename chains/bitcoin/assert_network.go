package bitcoin

import (
	"context"

	bridgeerrors "github.com/ClipFinance/btc-bridge/common/errors"
)

// AssertNetwork makes sure the wallet is on the target network. On mismatch it
// requests a switch, waits the settle delay, then polls a bounded number of times.
//
// Parameters:
// - ctx: the context for managing the request.
// - target: the network name the wallet must report.
//
// Returns:
// - error: NetworkSwitchFailed if the wallet never reports target.
func (s *Session) AssertNetwork(ctx context.Context, target string) error {
	if !s.Available() {
		return bridgeerrors.ErrWalletUnavailable
	}

	network, err := s.provider.GetNetwork(ctx)
	if err != nil {
		return bridgeerrors.Wrap(bridgeerrors.KindNetworkSwitchFailed, err, "Failed to read wallet network")
	}
	s.setNetwork(network)
	if network == target {
		return nil
	}

	logger := s.logger.WithField("current", network).WithField("target", target)
	logger.Info("Switching wallet network")

	if err := s.provider.SwitchNetwork(ctx, target); err != nil {
		if isUserRejection(err) {
			return bridgeerrors.Wrap(bridgeerrors.KindUserRejected, err, bridgeerrors.ErrUserRejected.Message)
		}
		return bridgeerrors.Wrap(bridgeerrors.KindNetworkSwitchFailed, err, bridgeerrors.ErrNetworkSwitchFailed.Message)
	}

	if err := sleep(ctx, s.config.SettleDelay); err != nil {
		return bridgeerrors.Wrap(bridgeerrors.KindNetworkSwitchFailed, err, bridgeerrors.ErrNetworkSwitchFailed.Message)
	}

	for attempt := 1; attempt <= s.config.PollAttempts; attempt++ {
		network, err = s.provider.GetNetwork(ctx)
		if err != nil {
			logger.WithError(err).WithField("attempt", attempt).Warn("Failed to read wallet network")
		} else {
			s.setNetwork(network)
			if network == target {
				logger.Info("Wallet network switched")
				return nil
			}
		}

		if attempt == s.config.PollAttempts {
			break
		}
		if err := sleep(ctx, s.config.PollInterval); err != nil {
			return bridgeerrors.Wrap(bridgeerrors.KindNetworkSwitchFailed, err, bridgeerrors.ErrNetworkSwitchFailed.Message)
		}
	}

	return bridgeerrors.Newf(bridgeerrors.KindNetworkSwitchFailed, "Wallet is on %s network, expected %s", network, target)
}

func (s *Session) setNetwork(network string) {
	s.stateMutex.Lock()
	s.network = network
	s.stateMutex.Unlock()
}
