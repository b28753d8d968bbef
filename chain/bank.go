package chain

import (
	"context"
	"sync"
)

// Bank is an in-memory value ledger used as the FundTransferor for local
// runs: a transfer simply credits the recipient's account.
type Bank struct {
	mu       sync.RWMutex
	balances map[Address]uint64
}

// Compile-time interface check.
var _ FundTransferor = (*Bank)(nil)

// NewBank creates a bank with no accounts.
func NewBank() *Bank {
	return &Bank{balances: make(map[Address]uint64)}
}

// Transfer credits the recipient.
func (b *Bank) Transfer(ctx context.Context, to Address, amount uint64) error {
	if to.IsZero() {
		return ErrZeroAddress
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.balances[to] += amount
	return nil
}

// Balance returns the accumulated credits for an account.
func (b *Bank) Balance(addr Address) uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.balances[addr]
}
