package chain

import "context"

// AssetAuthority is the capability interface over an asset collection:
// whoever implements it decides ownership, approval, and transfer of
// individual assets. The marketplace never holds assets itself; it calls
// into the authority for every ownership effect.
type AssetAuthority interface {
	// OwnerOf returns the current owner of the asset.
	OwnerOf(ctx context.Context, assetID uint64) (Address, error)

	// IsApprovedOrOwner reports whether operator owns the asset or has
	// been granted transfer approval for it.
	IsApprovedOrOwner(ctx context.Context, operator Address, assetID uint64) (bool, error)

	// TransferFrom moves the asset from its owner to the recipient.
	// It fails if operator lacks transfer rights or from is not the owner.
	TransferFrom(ctx context.Context, operator, from, to Address, assetID uint64) error
}

// FundTransferor moves value out of the system to an external account.
// Withdrawals are the only external value movement; a failed transfer must
// leave the caller free to retry.
type FundTransferor interface {
	Transfer(ctx context.Context, to Address, amount uint64) error
}
