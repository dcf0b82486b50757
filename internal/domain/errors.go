package domain

import "errors"

// Sentinel errors for domain-level error handling.
// The handler layer maps these to HTTP status codes.
var (
	ErrInvalidAsset        = errors.New("invalid_asset")
	ErrInsufficientBalance = errors.New("insufficient_balance")
	ErrOrderNotFound       = errors.New("order_not_found")
	ErrAlreadyFinalized    = errors.New("order_already_finalized")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrTransferFailed      = errors.New("transfer_failed")
	ErrWebhookNotFound     = errors.New("webhook_not_found")

	// ErrOverflow means a credit or fee computation would exceed the
	// representable amount range. It indicates a deeper invariant breach
	// and is never the caller's fault alone.
	ErrOverflow = errors.New("amount_overflow")
)

// ValidationError represents a request validation failure.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
