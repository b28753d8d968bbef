package market

import "errors"

var (
	// ErrPriceMustBeAboveZero indicates a zero listing price.
	ErrPriceMustBeAboveZero = errors.New("market: price must be above zero")

	// ErrNotItemOwner indicates the caller does not own the listed asset.
	ErrNotItemOwner = errors.New("market: caller is not the item owner")

	// ErrItemAlreadyListed indicates an active listing already exists.
	ErrItemAlreadyListed = errors.New("market: item already listed")

	// ErrItemNotApproved indicates the marketplace lacks transfer approval.
	ErrItemNotApproved = errors.New("market: item not approved for marketplace")

	// ErrItemNotListed indicates no active listing exists for the key.
	ErrItemNotListed = errors.New("market: item is not listed")

	// ErrPriceNotMet indicates the payment does not match the listing price.
	ErrPriceNotMet = errors.New("market: price not met")

	// ErrNoProceeds indicates the caller has no withdrawable balance.
	ErrNoProceeds = errors.New("market: no proceeds to withdraw")

	// ErrUnknownAssetContract indicates no authority is registered for the
	// asset contract address.
	ErrUnknownAssetContract = errors.New("market: unknown asset contract")

	// ErrContractRegistered indicates an authority is already registered
	// for the asset contract address.
	ErrContractRegistered = errors.New("market: asset contract already registered")

	// ErrNilParam indicates a required constructor dependency was nil.
	ErrNilParam = errors.New("market: nil parameter")
)
