package mint

import "errors"

var (
	// ErrNotEnoughAmount indicates the mint payment is below the fee.
	ErrNotEnoughAmount = errors.New("mint: payment below mint fee")

	// ErrUnknownMintRequest indicates the request id is not pending, either
	// because it was never issued or because it was already fulfilled.
	ErrUnknownMintRequest = errors.New("mint: unknown mint request")

	// ErrDuplicateRequest indicates a request id collision in the store.
	ErrDuplicateRequest = errors.New("mint: duplicate mint request")

	// ErrTokenNotExist indicates the token id has never been minted.
	ErrTokenNotExist = errors.New("mint: token does not exist")

	// ErrNoRandomWords indicates a fulfillment delivered no words.
	ErrNoRandomWords = errors.New("mint: empty random words")

	// ErrNilParam indicates a required constructor dependency was nil.
	ErrNilParam = errors.New("mint: nil parameter")
)
