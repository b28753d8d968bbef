// Package market implements the peer-to-peer sale ledger: a listing
// registry keyed by (asset contract, asset id) and a pull-payment proceeds
// ledger crediting sellers on settlement. Ownership effects are delegated
// to the asset contract's authority; the marketplace never holds assets.
package market

import "github.com/nftmarketorg/libnftmarket-go/chain"

// ListingKey identifies at most one active listing.
type ListingKey struct {
	AssetContract chain.Address
	AssetID       uint64
}

// Listing is an active fixed-price offer to sell one asset.
// It exists for a key iff the asset is currently offered by its seller.
type Listing struct {
	AssetContract chain.Address
	AssetID       uint64
	Seller        chain.Address
	Price         uint64 // opaque value units, always > 0
}

// Key returns the registry key for the listing.
func (l *Listing) Key() ListingKey {
	return ListingKey{AssetContract: l.AssetContract, AssetID: l.AssetID}
}
