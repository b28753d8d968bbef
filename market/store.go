package market

import (
	"fmt"
	"sync"

	"github.com/nftmarketorg/libnftmarket-go/chain"
)

// ListingStore persists active listings.
type ListingStore interface {
	// Get retrieves the active listing for a key.
	// Returns ErrItemNotListed if none exists.
	Get(key ListingKey) (*Listing, error)

	// Put inserts or replaces the listing for its key.
	Put(l *Listing) error

	// Delete removes the listing for a key.
	// Returns ErrItemNotListed if none exists.
	Delete(key ListingKey) error

	// Count returns the number of active listings.
	Count() (uint64, error)
}

// ProceedsStore persists per-seller withdrawable balances.
type ProceedsStore interface {
	// Balance returns the seller's balance, 0 if never credited.
	Balance(seller chain.Address) (uint64, error)

	// Credit adds amount to the seller's balance.
	Credit(seller chain.Address, amount uint64) error

	// SetBalance overwrites the seller's balance.
	SetBalance(seller chain.Address, amount uint64) error
}

// MemListingStore is an in-memory ListingStore.
type MemListingStore struct {
	mu       sync.RWMutex
	listings map[ListingKey]Listing
}

// Compile-time interface check.
var _ ListingStore = (*MemListingStore)(nil)

// NewMemListingStore creates an empty in-memory listing store.
func NewMemListingStore() *MemListingStore {
	return &MemListingStore{listings: make(map[ListingKey]Listing)}
}

// Get retrieves the active listing for a key.
func (s *MemListingStore) Get(key ListingKey) (*Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.listings[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s #%d", ErrItemNotListed, key.AssetContract, key.AssetID)
	}
	return &l, nil
}

// Put inserts or replaces the listing for its key.
func (s *MemListingStore) Put(l *Listing) error {
	if l == nil {
		return fmt.Errorf("%w: listing", ErrNilParam)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.listings[l.Key()] = *l
	return nil
}

// Delete removes the listing for a key.
func (s *MemListingStore) Delete(key ListingKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.listings[key]; !ok {
		return fmt.Errorf("%w: %s #%d", ErrItemNotListed, key.AssetContract, key.AssetID)
	}
	delete(s.listings, key)
	return nil
}

// Count returns the number of active listings.
func (s *MemListingStore) Count() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return uint64(len(s.listings)), nil
}

// MemProceedsStore is an in-memory ProceedsStore.
type MemProceedsStore struct {
	mu       sync.RWMutex
	balances map[chain.Address]uint64
}

// Compile-time interface check.
var _ ProceedsStore = (*MemProceedsStore)(nil)

// NewMemProceedsStore creates an empty in-memory proceeds store.
func NewMemProceedsStore() *MemProceedsStore {
	return &MemProceedsStore{balances: make(map[chain.Address]uint64)}
}

// Balance returns the seller's balance, 0 if never credited.
func (s *MemProceedsStore) Balance(seller chain.Address) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balances[seller], nil
}

// Credit adds amount to the seller's balance.
func (s *MemProceedsStore) Credit(seller chain.Address, amount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.balances[seller] += amount
	return nil
}

// SetBalance overwrites the seller's balance.
func (s *MemProceedsStore) SetBalance(seller chain.Address, amount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.balances[seller] = amount
	return nil
}
