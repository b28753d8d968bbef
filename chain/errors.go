package chain

import "errors"

var (
	// ErrInvalidAddress indicates a malformed hex address string.
	ErrInvalidAddress = errors.New("chain: invalid address")

	// ErrAssetNotFound indicates the asset id has no current owner.
	ErrAssetNotFound = errors.New("chain: asset not found")

	// ErrNotAssetOwner indicates the caller does not own the asset.
	ErrNotAssetOwner = errors.New("chain: caller is not the asset owner")

	// ErrTransferDenied indicates the operator lacks transfer rights.
	ErrTransferDenied = errors.New("chain: transfer not authorized")

	// ErrWrongFrom indicates the from address does not match the owner.
	ErrWrongFrom = errors.New("chain: transfer from wrong owner")

	// ErrZeroAddress indicates the zero address was used where forbidden.
	ErrZeroAddress = errors.New("chain: zero address")

	// ErrUnknownSubscription indicates the oracle subscription does not exist.
	ErrUnknownSubscription = errors.New("chain: unknown oracle subscription")

	// ErrNoConsumer indicates the subscription has no registered consumer.
	ErrNoConsumer = errors.New("chain: no consumer registered for subscription")

	// ErrUnknownRequest indicates the randomness request id is not pending.
	ErrUnknownRequest = errors.New("chain: unknown randomness request")

	// ErrInsufficientBalance indicates the subscription cannot cover the
	// fulfillment fee.
	ErrInsufficientBalance = errors.New("chain: insufficient subscription balance")
)
