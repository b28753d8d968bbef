package chain

import (
	"context"
	"fmt"
	"sync"
)

// TokenRegistry is an in-memory asset collection implementing
// AssetAuthority. Token ids are sequential starting at 0.
type TokenRegistry struct {
	mu        sync.RWMutex
	owners    map[uint64]Address
	approvals map[uint64]Address
	counter   uint64
}

// Compile-time interface check.
var _ AssetAuthority = (*TokenRegistry)(nil)

// NewTokenRegistry creates an empty registry.
func NewTokenRegistry() *TokenRegistry {
	return &TokenRegistry{
		owners:    make(map[uint64]Address),
		approvals: make(map[uint64]Address),
	}
}

// Mint creates the next token and assigns it to the recipient.
func (r *TokenRegistry) Mint(to Address) (uint64, error) {
	if to.IsZero() {
		return 0, fmt.Errorf("%w: mint recipient", ErrZeroAddress)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.counter
	r.counter++
	r.owners[id] = to
	return id, nil
}

// Approve grants operator transfer rights over the asset. Only the current
// owner may approve; approving the zero address clears the approval.
func (r *TokenRegistry) Approve(caller, operator Address, assetID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	owner, ok := r.owners[assetID]
	if !ok {
		return fmt.Errorf("%w: asset %d", ErrAssetNotFound, assetID)
	}
	if owner != caller {
		return fmt.Errorf("%w: asset %d", ErrNotAssetOwner, assetID)
	}

	if operator.IsZero() {
		delete(r.approvals, assetID)
		return nil
	}
	r.approvals[assetID] = operator
	return nil
}

// OwnerOf returns the current owner of the asset.
func (r *TokenRegistry) OwnerOf(ctx context.Context, assetID uint64) (Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	owner, ok := r.owners[assetID]
	if !ok {
		return Address{}, fmt.Errorf("%w: asset %d", ErrAssetNotFound, assetID)
	}
	return owner, nil
}

// IsApprovedOrOwner reports whether operator may transfer the asset.
func (r *TokenRegistry) IsApprovedOrOwner(ctx context.Context, operator Address, assetID uint64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	owner, ok := r.owners[assetID]
	if !ok {
		return false, fmt.Errorf("%w: asset %d", ErrAssetNotFound, assetID)
	}
	return owner == operator || r.approvals[assetID] == operator, nil
}

// TransferFrom moves the asset to the recipient and clears its approval.
func (r *TokenRegistry) TransferFrom(ctx context.Context, operator, from, to Address, assetID uint64) error {
	if to.IsZero() {
		return fmt.Errorf("%w: transfer recipient", ErrZeroAddress)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	owner, ok := r.owners[assetID]
	if !ok {
		return fmt.Errorf("%w: asset %d", ErrAssetNotFound, assetID)
	}
	if owner != from {
		return fmt.Errorf("%w: asset %d owned by %s", ErrWrongFrom, assetID, owner)
	}
	if owner != operator && r.approvals[assetID] != operator {
		return fmt.Errorf("%w: operator %s, asset %d", ErrTransferDenied, operator, assetID)
	}

	r.owners[assetID] = to
	delete(r.approvals, assetID)
	return nil
}
