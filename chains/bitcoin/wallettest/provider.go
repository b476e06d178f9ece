// Package wallettest provides an in-memory wallet capability provider for tests.
package wallettest

import (
	"context"
	"sync"

	"github.com/ClipFinance/btc-bridge/common/types"
)

// DefaultTxHash is returned by SendBitcoin when no SendFunc is set.
const DefaultTxHash = "4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b"

// SendCall records one SendBitcoin invocation.
type SendCall struct {
	To     string
	Amount interface{}
	Opts   types.PaymentOptions
}

// Provider is a scriptable types.WalletProvider. Exported fields may be set
// before use; recorded calls are read through the accessor methods.
type Provider struct {
	Accounts    []string
	AccountsErr error

	Network    string
	NetworkErr error
	// IgnoreSwitch keeps Network unchanged when a switch is requested.
	IgnoreSwitch bool
	SwitchErr    error

	Balance    interface{}
	BalanceErr error

	// SendFunc decides the result of each SendBitcoin call.
	SendFunc func(to string, amount interface{}, opts types.PaymentOptions) (string, error)

	mu       sync.Mutex
	calls    []string
	switches []string
	sends    []SendCall
}

var _ types.WalletProvider = (*Provider)(nil)

// New returns a provider on testnet bound to account with the given balance in satoshis.
func New(account string, balance int64) *Provider {
	return &Provider{
		Accounts: []string{account},
		Network:  types.NetworkTestnet,
		Balance:  map[string]interface{}{"confirmed": float64(balance), "unconfirmed": float64(0), "total": float64(balance)},
	}
}

func (p *Provider) called(name string) {
	p.mu.Lock()
	p.calls = append(p.calls, name)
	p.mu.Unlock()
}

// RequestAccounts implements types.WalletProvider.
func (p *Provider) RequestAccounts(_ context.Context) ([]string, error) {
	p.called("requestAccounts")
	if p.AccountsErr != nil {
		return nil, p.AccountsErr
	}
	return p.Accounts, nil
}

// GetNetwork implements types.WalletProvider.
func (p *Provider) GetNetwork(_ context.Context) (string, error) {
	p.called("getNetwork")
	if p.NetworkErr != nil {
		return "", p.NetworkErr
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Network, nil
}

// SwitchNetwork implements types.WalletProvider.
func (p *Provider) SwitchNetwork(_ context.Context, network string) error {
	p.called("switchNetwork")
	p.mu.Lock()
	defer p.mu.Unlock()

	p.switches = append(p.switches, network)
	if p.SwitchErr != nil {
		return p.SwitchErr
	}
	if !p.IgnoreSwitch {
		p.Network = network
	}
	return nil
}

// GetBalance implements types.WalletProvider.
func (p *Provider) GetBalance(_ context.Context) (interface{}, error) {
	p.called("getBalance")
	if p.BalanceErr != nil {
		return nil, p.BalanceErr
	}
	return p.Balance, nil
}

// SendBitcoin implements types.WalletProvider.
func (p *Provider) SendBitcoin(_ context.Context, toAddress string, amount interface{}, opts types.PaymentOptions) (string, error) {
	p.called("sendBitcoin")
	p.mu.Lock()
	p.sends = append(p.sends, SendCall{To: toAddress, Amount: amount, Opts: opts})
	p.mu.Unlock()

	if p.SendFunc != nil {
		return p.SendFunc(toAddress, amount, opts)
	}
	return DefaultTxHash, nil
}

// Calls returns the names of all operations invoked, in order.
func (p *Provider) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

// Switches returns the networks requested through SwitchNetwork.
func (p *Provider) Switches() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.switches...)
}

// Sends returns all recorded SendBitcoin calls.
func (p *Provider) Sends() []SendCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]SendCall(nil), p.sends...)
}
