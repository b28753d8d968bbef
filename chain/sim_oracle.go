package chain

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"

	"golang.org/x/crypto/sha3"
)

// SimOracle is a deterministic, in-process randomness oracle for local runs
// and tests. Request ids are sequential starting at 1 and random words are
// derived as keccak256(requestID || wordIndex), so a given request id always
// yields the same words. Fulfillment is a separate entry point the caller
// invokes explicitly, mirroring the asynchronous request/fulfill split.
type SimOracle struct {
	mu        sync.Mutex
	subs      map[uint64]uint64 // subscription id -> funded balance
	consumers map[uint64]RandomWordsConsumer
	pending   map[uint64]*pendingRequest
	nextSubID uint64
	nextReqID uint64
}

type pendingRequest struct {
	subID    uint64
	numWords uint32
}

// Compile-time interface check.
var _ RandomnessOracle = (*SimOracle)(nil)

// NewSimOracle creates an oracle with no subscriptions.
func NewSimOracle() *SimOracle {
	return &SimOracle{
		subs:      make(map[uint64]uint64),
		consumers: make(map[uint64]RandomWordsConsumer),
		pending:   make(map[uint64]*pendingRequest),
	}
}

// CreateSubscription allocates a new subscription id.
func (o *SimOracle) CreateSubscription() uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.nextSubID++
	id := o.nextSubID
	o.subs[id] = 0
	return id
}

// FundSubscription adds balance to a subscription.
func (o *SimOracle) FundSubscription(subID, amount uint64) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.subs[subID]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownSubscription, subID)
	}
	o.subs[subID] += amount
	return nil
}

// RegisterConsumer binds the fulfillment target for a subscription.
func (o *SimOracle) RegisterConsumer(subID uint64, consumer RandomWordsConsumer) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.subs[subID]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownSubscription, subID)
	}
	o.consumers[subID] = consumer
	return nil
}

// RequestRandomWords records a pending request and returns its id.
func (o *SimOracle) RequestRandomWords(ctx context.Context, subID uint64, params GasParams, numWords uint32) (uint64, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.subs[subID]; !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownSubscription, subID)
	}

	o.nextReqID++
	id := o.nextReqID
	o.pending[id] = &pendingRequest{subID: subID, numWords: numWords}
	return id, nil
}

// BaseFee is charged against the subscription balance per fulfillment.
const BaseFee uint64 = 250_000_000_000_000_000

// Fulfill derives the random words for a pending request and delivers them
// to the subscription's consumer, charging BaseFee to the subscription.
// An underfunded subscription leaves the request pending; once delivery
// starts the request is discharged regardless of the consumer's verdict,
// so each id is delivered at most once.
func (o *SimOracle) Fulfill(ctx context.Context, requestID uint64) error {
	o.mu.Lock()
	req, ok := o.pending[requestID]
	if !ok {
		o.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrUnknownRequest, requestID)
	}
	consumer, ok := o.consumers[req.subID]
	if !ok {
		o.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrNoConsumer, req.subID)
	}
	if o.subs[req.subID] < BaseFee {
		o.mu.Unlock()
		return fmt.Errorf("%w: subscription %d", ErrInsufficientBalance, req.subID)
	}
	o.subs[req.subID] -= BaseFee
	delete(o.pending, requestID)
	o.mu.Unlock()

	return consumer.FulfillRandomWords(ctx, requestID, DeriveWords(requestID, req.numWords))
}

// SubscriptionBalance returns the remaining funded balance.
func (o *SimOracle) SubscriptionBalance(subID uint64) (uint64, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	balance, ok := o.subs[subID]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownSubscription, subID)
	}
	return balance, nil
}

// PendingRequests returns the ids of requests not yet fulfilled.
func (o *SimOracle) PendingRequests() []uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()

	ids := make([]uint64, 0, len(o.pending))
	for id := range o.pending {
		ids = append(ids, id)
	}
	return ids
}

// DeriveWords computes the deterministic word sequence for a request id:
// word i is the first 8 bytes of keccak256(requestID_be8 || i_be4).
func DeriveWords(requestID uint64, numWords uint32) []uint64 {
	words := make([]uint64, numWords)
	for i := uint32(0); i < numWords; i++ {
		var seed [12]byte
		binary.BigEndian.PutUint64(seed[0:8], requestID)
		binary.BigEndian.PutUint32(seed[8:12], i)

		h := sha3.NewLegacyKeccak256()
		h.Write(seed[:])
		words[i] = binary.BigEndian.Uint64(h.Sum(nil)[:8])
	}
	return words
}
