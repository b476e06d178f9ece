package bitcoin

import (
	"context"
	"sync"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/sirupsen/logrus"

	"github.com/ClipFinance/btc-bridge/common/types"
)

const (
	// DefaultSettleDelay is the grace period after a network switch request.
	DefaultSettleDelay = time.Second
	// DefaultPollInterval is the pause between network checks after the settle delay.
	DefaultPollInterval = 200 * time.Millisecond
	// DefaultPollAttempts is the number of network checks after the settle delay.
	DefaultPollAttempts = 5
)

// Config holds the timing of network negotiation.
type Config struct {
	SettleDelay  time.Duration
	PollInterval time.Duration
	PollAttempts int
}

// DefaultConfig returns the production timing.
func DefaultConfig() Config {
	return Config{
		SettleDelay:  DefaultSettleDelay,
		PollInterval: DefaultPollInterval,
		PollAttempts: DefaultPollAttempts,
	}
}

// PaymentRecorder receives the result of every payment attempt.
type PaymentRecorder interface {
	RecordPaymentAttempt(encoding string, success bool)
}

// Session wraps a wallet capability provider. It is the only component
// calling the provider, and it serializes payment submissions.
type Session struct {
	provider types.WalletProvider // Injected wallet capability provider.
	config   Config               // Network negotiation timing.
	logger   *logrus.Logger       // Logger for logging events.

	// Protected session state.
	stateMutex   sync.RWMutex
	boundAccount string
	network      string
	balance      btcutil.Amount

	submitMutex sync.Mutex // Serializes SubmitPayment.

	recorderMutex sync.RWMutex
	recorder      PaymentRecorder
}

// NewSession creates a wallet session adapter.
//
// Parameters:
// - provider: the wallet capability provider, nil when no wallet is installed.
// - config: the network negotiation timing.
// - logger: the logger for logging events.
//
// Returns:
// - *Session: a new, disconnected session.
func NewSession(provider types.WalletProvider, config Config, logger *logrus.Logger) *Session {
	if config.PollAttempts <= 0 {
		config.PollAttempts = 1
	}
	return &Session{
		provider: provider,
		config:   config,
		logger:   logger,
	}
}

// SetRecorder attaches a payment attempt recorder.
func (s *Session) SetRecorder(recorder PaymentRecorder) {
	s.recorderMutex.Lock()
	defer s.recorderMutex.Unlock()
	s.recorder = recorder
}

func (s *Session) record(encoding string, success bool) {
	s.recorderMutex.RLock()
	recorder := s.recorder
	s.recorderMutex.RUnlock()

	if recorder != nil {
		recorder.RecordPaymentAttempt(encoding, success)
	}
}

// Available reports whether a wallet capability provider is present.
func (s *Session) Available() bool {
	return s.provider != nil
}

// Account returns the bound account, empty when disconnected.
func (s *Session) Account() string {
	s.stateMutex.RLock()
	defer s.stateMutex.RUnlock()
	return s.boundAccount
}

// Network returns the last network observed on the wallet.
func (s *Session) Network() string {
	s.stateMutex.RLock()
	defer s.stateMutex.RUnlock()
	return s.network
}

// Disconnect drops the session state. The provider itself is kept.
func (s *Session) Disconnect() {
	s.stateMutex.Lock()
	defer s.stateMutex.Unlock()

	s.boundAccount = ""
	s.network = ""
	s.balance = 0
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
