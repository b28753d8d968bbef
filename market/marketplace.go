package market

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nftmarketorg/libnftmarket-go/chain"
	"github.com/nftmarketorg/libnftmarket-go/events"
)

// Marketplace composes the listing registry and the proceeds ledger.
// Every operation runs to completion and either commits all of its state
// mutations or none: when an external call fails after local writes, the
// writes are compensated before the error is returned.
type Marketplace struct {
	addr        chain.Address // identity the authority must approve for transfers
	listings    ListingStore
	proceeds    ProceedsStore
	authorities *AuthorityResolver
	payout      chain.FundTransferor
	bus         *events.Bus
	log         *zap.Logger
}

// MarketplaceConfig wires a Marketplace. Listings, Proceeds, Authorities,
// and Payout are required; a nil Bus or Log disables events or logging.
type MarketplaceConfig struct {
	Addr        chain.Address
	Listings    ListingStore
	Proceeds    ProceedsStore
	Authorities *AuthorityResolver
	Payout      chain.FundTransferor
	Bus         *events.Bus
	Log         *zap.Logger
}

// NewMarketplace creates a marketplace from its dependencies.
func NewMarketplace(cfg MarketplaceConfig) (*Marketplace, error) {
	switch {
	case cfg.Listings == nil:
		return nil, fmt.Errorf("%w: listings store", ErrNilParam)
	case cfg.Proceeds == nil:
		return nil, fmt.Errorf("%w: proceeds store", ErrNilParam)
	case cfg.Authorities == nil:
		return nil, fmt.Errorf("%w: authority resolver", ErrNilParam)
	case cfg.Payout == nil:
		return nil, fmt.Errorf("%w: payout transferor", ErrNilParam)
	}

	bus := cfg.Bus
	if bus == nil {
		bus = events.NewBus(nil)
	}
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}

	return &Marketplace{
		addr:        cfg.Addr,
		listings:    cfg.Listings,
		proceeds:    cfg.Proceeds,
		authorities: cfg.Authorities,
		payout:      cfg.Payout,
		bus:         bus,
		log:         log,
	}, nil
}

// Addr returns the marketplace's own address, the operator identity that
// asset owners must approve before listing.
func (m *Marketplace) Addr() chain.Address {
	return m.addr
}

// ListItem creates an active listing for the caller's asset at the given
// price. The caller must own the asset, the asset must not already be
// listed, and the marketplace must hold transfer approval for it.
func (m *Marketplace) ListItem(ctx context.Context, caller, assetContract chain.Address, assetID, price uint64) error {
	if price == 0 {
		return ErrPriceMustBeAboveZero
	}

	authority, err := m.authorities.Resolve(assetContract)
	if err != nil {
		return err
	}

	owner, err := authority.OwnerOf(ctx, assetID)
	if err != nil {
		return fmt.Errorf("market: owner lookup: %w", err)
	}
	if owner != caller {
		return fmt.Errorf("%w: %s #%d", ErrNotItemOwner, assetContract, assetID)
	}

	key := ListingKey{AssetContract: assetContract, AssetID: assetID}
	if _, err := m.listings.Get(key); err == nil {
		return fmt.Errorf("%w: %s #%d", ErrItemAlreadyListed, assetContract, assetID)
	}

	approved, err := authority.IsApprovedOrOwner(ctx, m.addr, assetID)
	if err != nil {
		return fmt.Errorf("market: approval lookup: %w", err)
	}
	if !approved {
		return fmt.Errorf("%w: %s #%d", ErrItemNotApproved, assetContract, assetID)
	}

	listing := &Listing{
		AssetContract: assetContract,
		AssetID:       assetID,
		Seller:        caller,
		Price:         price,
	}
	if err := m.listings.Put(listing); err != nil {
		return err
	}

	m.log.With(
		zap.String("seller", caller.String()),
		zap.String("contract", assetContract.String()),
		zap.Uint64("assetId", assetID),
		zap.Uint64("price", price),
	).Info("market: item listed")

	m.bus.Emit(events.ItemListed, events.ItemListedEvent{
		Seller:        caller,
		AssetContract: assetContract,
		AssetID:       assetID,
		Price:         price,
	})
	return nil
}

// CancelListing removes the caller's active listing.
func (m *Marketplace) CancelListing(ctx context.Context, caller, assetContract chain.Address, assetID uint64) error {
	key := ListingKey{AssetContract: assetContract, AssetID: assetID}
	listing, err := m.listings.Get(key)
	if err != nil {
		return err
	}
	if listing.Seller != caller {
		return fmt.Errorf("%w: %s #%d", ErrNotItemOwner, assetContract, assetID)
	}

	if err := m.listings.Delete(key); err != nil {
		return err
	}

	m.log.With(
		zap.String("seller", caller.String()),
		zap.String("contract", assetContract.String()),
		zap.Uint64("assetId", assetID),
	).Info("market: listing canceled")

	m.bus.Emit(events.ItemCanceled, events.ItemCanceledEvent{
		Seller:        caller,
		AssetContract: assetContract,
		AssetID:       assetID,
	})
	return nil
}

// UpdateListing re-prices the caller's active listing. An update is modeled
// as a re-list, so it emits ItemListed again.
func (m *Marketplace) UpdateListing(ctx context.Context, caller, assetContract chain.Address, assetID, newPrice uint64) error {
	if newPrice == 0 {
		return ErrPriceMustBeAboveZero
	}

	key := ListingKey{AssetContract: assetContract, AssetID: assetID}
	listing, err := m.listings.Get(key)
	if err != nil {
		return err
	}
	if listing.Seller != caller {
		return fmt.Errorf("%w: %s #%d", ErrNotItemOwner, assetContract, assetID)
	}

	listing.Price = newPrice
	if err := m.listings.Put(listing); err != nil {
		return err
	}

	m.log.With(
		zap.String("seller", caller.String()),
		zap.String("contract", assetContract.String()),
		zap.Uint64("assetId", assetID),
		zap.Uint64("price", newPrice),
	).Info("market: listing updated")

	m.bus.Emit(events.ItemListed, events.ItemListedEvent{
		Seller:        caller,
		AssetContract: assetContract,
		AssetID:       assetID,
		Price:         newPrice,
	})
	return nil
}

// BuyItem settles the listing: the attached payment must equal the price
// exactly. The listing is removed and the seller credited before the
// external ownership transfer is attempted; a failed transfer rolls both
// back.
func (m *Marketplace) BuyItem(ctx context.Context, buyer, assetContract chain.Address, assetID, payment uint64) error {
	key := ListingKey{AssetContract: assetContract, AssetID: assetID}
	listing, err := m.listings.Get(key)
	if err != nil {
		return err
	}
	if payment != listing.Price {
		return fmt.Errorf("%w: want %d, got %d", ErrPriceNotMet, listing.Price, payment)
	}

	authority, err := m.authorities.Resolve(assetContract)
	if err != nil {
		return err
	}

	if err := m.listings.Delete(key); err != nil {
		return err
	}
	if err := m.proceeds.Credit(listing.Seller, listing.Price); err != nil {
		m.restoreListing(listing)
		return err
	}

	if err := authority.TransferFrom(ctx, m.addr, listing.Seller, buyer, assetID); err != nil {
		// Roll back the settled state so the listing survives intact.
		balance, berr := m.proceeds.Balance(listing.Seller)
		if berr == nil && balance >= listing.Price {
			if serr := m.proceeds.SetBalance(listing.Seller, balance-listing.Price); serr != nil {
				m.log.With(
					zap.String("seller", listing.Seller.String()),
					zap.Error(serr),
				).Error("market: failed to revert proceeds credit")
			}
		}
		m.restoreListing(listing)
		return fmt.Errorf("market: asset transfer: %w", err)
	}

	m.log.With(
		zap.String("buyer", buyer.String()),
		zap.String("seller", listing.Seller.String()),
		zap.String("contract", assetContract.String()),
		zap.Uint64("assetId", assetID),
		zap.Uint64("price", listing.Price),
	).Info("market: item bought")

	m.bus.Emit(events.ItemBought, events.ItemBoughtEvent{
		Buyer:         buyer,
		AssetContract: assetContract,
		AssetID:       assetID,
		Price:         listing.Price,
	})
	return nil
}

// restoreListing re-inserts a listing removed by a failed settlement.
func (m *Marketplace) restoreListing(listing *Listing) {
	if err := m.listings.Put(listing); err != nil {
		m.log.With(
			zap.String("seller", listing.Seller.String()),
			zap.String("contract", listing.AssetContract.String()),
			zap.Uint64("assetId", listing.AssetID),
			zap.Error(err),
		).Error("market: failed to restore listing")
	}
}

// GetListing returns the active listing for a key.
func (m *Marketplace) GetListing(assetContract chain.Address, assetID uint64) (*Listing, error) {
	return m.listings.Get(ListingKey{AssetContract: assetContract, AssetID: assetID})
}
