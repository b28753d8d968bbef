package market

import (
	"fmt"
	"sync"

	"github.com/nftmarketorg/libnftmarket-go/chain"
)

// AuthorityResolver maps asset contract addresses to their authorities so
// listings across distinct collections coexist in one registry.
type AuthorityResolver struct {
	mu          sync.RWMutex
	authorities map[chain.Address]chain.AssetAuthority
}

// NewAuthorityResolver creates an empty resolver.
func NewAuthorityResolver() *AuthorityResolver {
	return &AuthorityResolver{authorities: make(map[chain.Address]chain.AssetAuthority)}
}

// Register binds an authority to an asset contract address. A contract may
// only be registered once.
func (r *AuthorityResolver) Register(contract chain.Address, authority chain.AssetAuthority) error {
	if authority == nil {
		return fmt.Errorf("%w: authority", ErrNilParam)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.authorities[contract]; ok {
		return fmt.Errorf("%w: %s", ErrContractRegistered, contract)
	}
	r.authorities[contract] = authority
	return nil
}

// Resolve returns the authority for an asset contract address.
func (r *AuthorityResolver) Resolve(contract chain.Address) (chain.AssetAuthority, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.authorities[contract]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAssetContract, contract)
	}
	return a, nil
}
