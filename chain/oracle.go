package chain

import "context"

// GasParams carries the oracle request tuning fixed at construction.
type GasParams struct {
	KeyHash          string // gas lane identifier, hex
	CallbackGasLimit uint32
	MinConfirmations uint16
}

// RandomnessOracle accepts subscription-scoped randomness requests and
// returns an opaque request id synchronously. The random words themselves
// arrive later through the consumer callback, exactly once per accepted
// request and strictly after the request returns.
type RandomnessOracle interface {
	RequestRandomWords(ctx context.Context, subID uint64, params GasParams, numWords uint32) (uint64, error)
}

// RandomWordsConsumer receives oracle fulfillments. Implementations must
// reject unknown or already-consumed request ids without mutating state.
type RandomWordsConsumer interface {
	FulfillRandomWords(ctx context.Context, requestID uint64, randomWords []uint64) error
}
