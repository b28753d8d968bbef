// Package mint implements the asynchronous randomized-minting protocol:
// a paid request records a pending commitment keyed by the oracle's request
// id, and the oracle's one-time fulfillment selects a catalog shape and
// creates the token. Request and fulfillment are two independent entry
// points correlated only by the request id.
package mint

import (
	"fmt"
	"sync"

	"github.com/nftmarketorg/libnftmarket-go/chain"
)

// MintedToken binds a minted token to its owner and selected shape.
type MintedToken struct {
	TokenID    uint64
	Owner      chain.Address
	ShapeIndex uint32
}

// RequestStore persists pending mint requests keyed by oracle request id.
type RequestStore interface {
	// Put records a pending request. Returns ErrDuplicateRequest if the
	// id is already pending.
	Put(requestID uint64, requester chain.Address) error

	// Take removes and returns the requester for a pending request.
	// Returns ErrUnknownMintRequest if the id is not pending, so a second
	// Take for the same id always fails.
	Take(requestID uint64) (chain.Address, error)

	// Pending returns the number of requests awaiting fulfillment.
	Pending() (uint64, error)
}

// TokenStore persists minted tokens and the sequential token counter.
type TokenStore interface {
	// Append atomically assigns the next token id (starting at 0) to the
	// owner with the shape binding and returns the created token.
	Append(owner chain.Address, shapeIndex uint32) (*MintedToken, error)

	// Get retrieves a minted token. Returns ErrTokenNotExist if the id has
	// never been minted.
	Get(tokenID uint64) (*MintedToken, error)

	// SetOwner reassigns a minted token.
	SetOwner(tokenID uint64, owner chain.Address) error

	// Counter returns the number of tokens minted so far.
	Counter() (uint64, error)
}

// MemRequestStore is an in-memory RequestStore.
type MemRequestStore struct {
	mu       sync.Mutex
	requests map[uint64]chain.Address
}

// Compile-time interface check.
var _ RequestStore = (*MemRequestStore)(nil)

// NewMemRequestStore creates an empty in-memory request store.
func NewMemRequestStore() *MemRequestStore {
	return &MemRequestStore{requests: make(map[uint64]chain.Address)}
}

// Put records a pending request.
func (s *MemRequestStore) Put(requestID uint64, requester chain.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.requests[requestID]; ok {
		return fmt.Errorf("%w: %d", ErrDuplicateRequest, requestID)
	}
	s.requests[requestID] = requester
	return nil
}

// Take removes and returns the requester for a pending request.
func (s *MemRequestStore) Take(requestID uint64) (chain.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	requester, ok := s.requests[requestID]
	if !ok {
		return chain.Address{}, fmt.Errorf("%w: %d", ErrUnknownMintRequest, requestID)
	}
	delete(s.requests, requestID)
	return requester, nil
}

// Pending returns the number of requests awaiting fulfillment.
func (s *MemRequestStore) Pending() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return uint64(len(s.requests)), nil
}

// MemTokenStore is an in-memory TokenStore.
type MemTokenStore struct {
	mu      sync.RWMutex
	tokens  map[uint64]MintedToken
	counter uint64
}

// Compile-time interface check.
var _ TokenStore = (*MemTokenStore)(nil)

// NewMemTokenStore creates an empty in-memory token store.
func NewMemTokenStore() *MemTokenStore {
	return &MemTokenStore{tokens: make(map[uint64]MintedToken)}
}

// Append assigns the next token id to the owner with the shape binding.
func (s *MemTokenStore) Append(owner chain.Address, shapeIndex uint32) (*MintedToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tok := MintedToken{TokenID: s.counter, Owner: owner, ShapeIndex: shapeIndex}
	s.tokens[tok.TokenID] = tok
	s.counter++
	return &tok, nil
}

// Get retrieves a minted token.
func (s *MemTokenStore) Get(tokenID uint64) (*MintedToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tok, ok := s.tokens[tokenID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrTokenNotExist, tokenID)
	}
	return &tok, nil
}

// SetOwner reassigns a minted token.
func (s *MemTokenStore) SetOwner(tokenID uint64, owner chain.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tok, ok := s.tokens[tokenID]
	if !ok {
		return fmt.Errorf("%w: %d", ErrTokenNotExist, tokenID)
	}
	tok.Owner = owner
	s.tokens[tokenID] = tok
	return nil
}

// Counter returns the number of tokens minted so far.
func (s *MemTokenStore) Counter() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counter, nil
}
