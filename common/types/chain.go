package types

import (
	"context"
	"fmt"
)

// Network names reported by wallet capability providers.
const (
	NetworkTestnet = "testnet"
	NetworkLivenet = "livenet"
)

// PaymentOptions holds the options passed alongside a wallet payment.
//
// Fields:
// - FeeRate: the fee rate in satoshis per virtual byte.
// - Memo: the hex-encoded payload attached to the payment.
// - EnableRBF: whether the payment signals replace-by-fee.
type PaymentOptions struct {
	FeeRate   uint64 `json:"feeRate"`
	Memo      string `json:"memo"`
	EnableRBF bool   `json:"enableRBF"`
}

// ProviderError is an error reported by a wallet capability provider.
// Code follows the EIP-1193 style numbering used by browser wallets.
type ProviderError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("provider error %d", e.Code)
	}
	return fmt.Sprintf("provider error %d: %s", e.Code, e.Message)
}

// Provider error codes with dedicated handling.
const (
	ProviderCodeUserRejected = 4001
	ProviderCodeInternal     = -32603
)

// WalletProvider is the capability set exposed by a Bitcoin wallet.
// Implementations own signing and broadcasting; callers only see these operations.
type WalletProvider interface {
	// RequestAccounts asks the wallet to expose its accounts.
	//
	// Parameters:
	// - ctx: the context for managing the request.
	//
	// Returns:
	// - []string: the addresses the user granted access to.
	// - error: an error if the wallet refuses or is unreachable.
	RequestAccounts(ctx context.Context) ([]string, error)

	// GetNetwork returns the name of the network the wallet is connected to.
	GetNetwork(ctx context.Context) (string, error)

	// SwitchNetwork asks the wallet to move to another network.
	// Completion is not confirmed synchronously.
	SwitchNetwork(ctx context.Context, network string) error

	// GetBalance returns the wallet balance. The value is either a number of
	// satoshis or an object carrying confirmed, total or amount fields.
	GetBalance(ctx context.Context) (interface{}, error)

	// SendBitcoin signs and broadcasts a payment.
	//
	// Parameters:
	// - ctx: the context for managing the request.
	// - toAddress: the recipient address.
	// - amount: the amount in a provider-dependent representation.
	// - opts: the payment options.
	//
	// Returns:
	// - string: the transaction hash.
	// - error: an error if the payment fails.
	SendBitcoin(ctx context.Context, toAddress string, amount interface{}, opts PaymentOptions) (string, error)
}
