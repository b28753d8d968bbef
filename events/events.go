// Package events carries the observable records emitted by the marketplace
// and mint paths. Payloads are plain structs so subscribers can log,
// persist, or fan them out without reaching back into the emitting package.
package events

import "github.com/nftmarketorg/libnftmarket-go/chain"

// Type names one event kind.
type Type string

const (
	ItemListed       Type = "ItemListed"
	ItemCanceled     Type = "ItemCanceled"
	ItemBought       Type = "ItemBought"
	NftMintRequested Type = "NftMintRequested"
	NftMinted        Type = "NftMinted"
)

// ItemListedEvent is emitted when an asset is listed or re-priced.
type ItemListedEvent struct {
	Seller        chain.Address
	AssetContract chain.Address
	AssetID       uint64
	Price         uint64
}

// ItemCanceledEvent is emitted when a seller withdraws a listing.
type ItemCanceledEvent struct {
	Seller        chain.Address
	AssetContract chain.Address
	AssetID       uint64
}

// ItemBoughtEvent is emitted when a sale settles.
type ItemBoughtEvent struct {
	Buyer         chain.Address
	AssetContract chain.Address
	AssetID       uint64
	Price         uint64
}

// NftMintRequestedEvent is emitted when a paid mint request is accepted.
type NftMintRequestedEvent struct {
	Requester chain.Address
	RequestID uint64
}

// NftMintedEvent is emitted when oracle randomness completes a mint.
type NftMintedEvent struct {
	TokenID    uint64
	ShapeIndex uint32
	Owner      chain.Address
}
