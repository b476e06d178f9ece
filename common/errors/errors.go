package errors

import (
	"github.com/pkg/errors"
)

// Kind classifies a failure of the bridge flow.
type Kind string

const (
	// KindUnknown is reported for errors that were never classified.
	KindUnknown Kind = "Unknown"

	// Validation kinds. They are resolved locally, before any remote call.
	KindMissingField      Kind = "MissingField"
	KindInvalidAmount     Kind = "InvalidAmount"
	KindAmountTooSmall    Kind = "AmountTooSmall"
	KindAmountTooLarge    Kind = "AmountTooLarge"
	KindInvalidOtaAddress Kind = "InvalidOtaAddress"

	// Remote kinds. They come back from the bridge service or the wallet.
	KindWalletUnavailable   Kind = "WalletUnavailable"
	KindUserRejected        Kind = "UserRejected"
	KindAccountMismatch     Kind = "AccountMismatch"
	KindNetworkSwitchFailed Kind = "NetworkSwitchFailed"
	KindInsufficientBalance Kind = "InsufficientBalance"
	KindPaymentFailed       Kind = "PaymentFailed"
	KindMalformedResponse   Kind = "MalformedResponse"
	KindRemoteUnavailable   Kind = "RemoteUnavailable"
)

// String converts Kind to string representation.
func (k Kind) String() string {
	return string(k)
}

// IsValidation reports whether the kind is a local validation failure.
func (k Kind) IsValidation() bool {
	switch k {
	case KindMissingField, KindInvalidAmount, KindAmountTooSmall, KindAmountTooLarge, KindInvalidOtaAddress:
		return true
	default:
		return false
	}
}

// Error is a classified failure carrying a human-readable message.
//
// Fields:
// - Kind: the taxonomy entry of the failure.
// - Message: the message surfaced to the user.
// - cause: the underlying error, if any.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.cause.Error()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches any *Error of the same kind, so sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrMissingField        = New(KindMissingField, "Missing required fields")
	ErrInvalidAmount       = New(KindInvalidAmount, "Invalid amount: Amount must be a positive number")
	ErrAmountTooSmall      = New(KindAmountTooSmall, "Amount too small")
	ErrAmountTooLarge      = New(KindAmountTooLarge, "Amount too large")
	ErrInvalidOtaAddress   = New(KindInvalidOtaAddress, "Invalid OTA address format")
	ErrWalletUnavailable   = New(KindWalletUnavailable, "Wallet is not available")
	ErrUserRejected        = New(KindUserRejected, "Transaction rejected by user")
	ErrAccountMismatch     = New(KindAccountMismatch, "Connected wallet address doesn't match the expected address")
	ErrNetworkSwitchFailed = New(KindNetworkSwitchFailed, "Failed to switch wallet network")
	ErrInsufficientBalance = New(KindInsufficientBalance, "Insufficient balance")
	ErrPaymentFailed       = New(KindPaymentFailed, "Failed to send tBTC")
	ErrMalformedResponse   = New(KindMalformedResponse, "Malformed bridge response")
	ErrRemoteUnavailable   = New(KindRemoteUnavailable, "Failed to create bridge transaction")
)

// New creates a classified error without a cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates a classified error with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: errors.Errorf(format, args...).Error()}
}

// Wrap classifies err under kind. A nil err yields an error without a cause.
//
// Parameters:
// - kind: the taxonomy entry.
// - err: the underlying error.
// - message: the human-readable message.
//
// Returns:
// - *Error: the classified error.
func Wrap(kind Kind, err error, message string) *Error {
	if err == nil {
		return New(kind, message)
	}
	return &Error{Kind: kind, Message: message, cause: errors.WithStack(err)}
}

// KindOf returns the kind of the first classified error in err's chain.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Message returns the single human-readable message for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
