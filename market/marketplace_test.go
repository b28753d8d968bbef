package market

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nftmarketorg/libnftmarket-go/chain"
	"github.com/nftmarketorg/libnftmarket-go/events"
)

const (
	price   = uint64(100)
	tokenID = uint64(0)
)

func makeAddr(seed byte) chain.Address {
	var addr chain.Address
	for i := range addr {
		addr[i] = seed
	}
	return addr
}

// marketFixture assembles a marketplace over an in-memory token registry
// with one token minted to the seller and approved for the marketplace.
type marketFixture struct {
	market   *Marketplace
	registry *chain.TokenRegistry
	bank     *chain.Bank
	bus      *events.Bus
	contract chain.Address
	seller   chain.Address
	buyer    chain.Address
}

func newMarketFixture(t *testing.T) *marketFixture {
	t.Helper()

	f := &marketFixture{
		registry: chain.NewTokenRegistry(),
		bank:     chain.NewBank(),
		bus:      events.NewBus(nil),
		contract: makeAddr(0x01),
		seller:   makeAddr(0xAA),
		buyer:    makeAddr(0xBB),
	}

	resolver := NewAuthorityResolver()
	require.NoError(t, resolver.Register(f.contract, f.registry))

	m, err := NewMarketplace(MarketplaceConfig{
		Addr:        makeAddr(0x99),
		Listings:    NewMemListingStore(),
		Proceeds:    NewMemProceedsStore(),
		Authorities: resolver,
		Payout:      f.bank,
		Bus:         f.bus,
	})
	require.NoError(t, err)
	f.market = m

	id, err := f.registry.Mint(f.seller)
	require.NoError(t, err)
	require.Equal(t, tokenID, id)
	require.NoError(t, f.registry.Approve(f.seller, m.Addr(), id))

	return f
}

// --- ListItem ---

func TestListItem_SetsSellerAndPrice(t *testing.T) {
	ctx := context.Background()
	f := newMarketFixture(t)

	require.NoError(t, f.market.ListItem(ctx, f.seller, f.contract, tokenID, price))

	listing, err := f.market.GetListing(f.contract, tokenID)
	require.NoError(t, err)
	assert.Equal(t, f.seller, listing.Seller)
	assert.Equal(t, price, listing.Price)
}

func TestListItem_EmitsItemListed(t *testing.T) {
	ctx := context.Background()
	f := newMarketFixture(t)

	var got []events.ItemListedEvent
	f.bus.Subscribe(events.ItemListed, func(payload interface{}) {
		got = append(got, payload.(events.ItemListedEvent))
	})

	require.NoError(t, f.market.ListItem(ctx, f.seller, f.contract, tokenID, price))

	require.Len(t, got, 1)
	assert.Equal(t, events.ItemListedEvent{
		Seller:        f.seller,
		AssetContract: f.contract,
		AssetID:       tokenID,
		Price:         price,
	}, got[0])
}

func TestListItem_ZeroPrice(t *testing.T) {
	f := newMarketFixture(t)
	err := f.market.ListItem(context.Background(), f.seller, f.contract, tokenID, 0)
	assert.ErrorIs(t, err, ErrPriceMustBeAboveZero)
}

func TestListItem_NotOwner(t *testing.T) {
	f := newMarketFixture(t)
	err := f.market.ListItem(context.Background(), f.buyer, f.contract, tokenID, price)
	assert.ErrorIs(t, err, ErrNotItemOwner)
}

func TestListItem_AlreadyListed(t *testing.T) {
	ctx := context.Background()
	f := newMarketFixture(t)

	require.NoError(t, f.market.ListItem(ctx, f.seller, f.contract, tokenID, price))
	err := f.market.ListItem(ctx, f.seller, f.contract, tokenID, price)
	assert.ErrorIs(t, err, ErrItemAlreadyListed)
}

func TestListItem_NotApproved(t *testing.T) {
	ctx := context.Background()
	f := newMarketFixture(t)

	// Clear the marketplace approval granted by the fixture.
	require.NoError(t, f.registry.Approve(f.seller, chain.ZeroAddress, tokenID))

	err := f.market.ListItem(ctx, f.seller, f.contract, tokenID, price)
	assert.ErrorIs(t, err, ErrItemNotApproved)
}

func TestListItem_AuthorityError(t *testing.T) {
	lookupErr := errors.New("node unavailable")
	authority := &chain.MockAssetAuthority{
		OwnerOfFn: func(ctx context.Context, assetID uint64) (chain.Address, error) {
			return chain.Address{}, lookupErr
		},
	}

	resolver := NewAuthorityResolver()
	contract := makeAddr(0x01)
	require.NoError(t, resolver.Register(contract, authority))

	m, err := NewMarketplace(MarketplaceConfig{
		Addr:        makeAddr(0x99),
		Listings:    NewMemListingStore(),
		Proceeds:    NewMemProceedsStore(),
		Authorities: resolver,
		Payout:      chain.NewBank(),
	})
	require.NoError(t, err)

	err = m.ListItem(context.Background(), makeAddr(0xAA), contract, tokenID, price)
	assert.ErrorIs(t, err, lookupErr)
}

func TestListItem_UnknownContract(t *testing.T) {
	f := newMarketFixture(t)
	err := f.market.ListItem(context.Background(), f.seller, makeAddr(0x44), tokenID, price)
	assert.ErrorIs(t, err, ErrUnknownAssetContract)
}

// --- CancelListing ---

func TestCancelListing_RemovesListing(t *testing.T) {
	ctx := context.Background()
	f := newMarketFixture(t)

	var canceled []events.ItemCanceledEvent
	f.bus.Subscribe(events.ItemCanceled, func(payload interface{}) {
		canceled = append(canceled, payload.(events.ItemCanceledEvent))
	})

	require.NoError(t, f.market.ListItem(ctx, f.seller, f.contract, tokenID, price))
	require.NoError(t, f.market.CancelListing(ctx, f.seller, f.contract, tokenID))

	_, err := f.market.GetListing(f.contract, tokenID)
	assert.ErrorIs(t, err, ErrItemNotListed)
	require.Len(t, canceled, 1)
	assert.Equal(t, f.seller, canceled[0].Seller)
}

func TestCancelListing_NotListed(t *testing.T) {
	f := newMarketFixture(t)
	err := f.market.CancelListing(context.Background(), f.seller, f.contract, tokenID)
	assert.ErrorIs(t, err, ErrItemNotListed)
}

func TestCancelListing_NotSeller(t *testing.T) {
	ctx := context.Background()
	f := newMarketFixture(t)

	require.NoError(t, f.market.ListItem(ctx, f.seller, f.contract, tokenID, price))
	err := f.market.CancelListing(ctx, f.buyer, f.contract, tokenID)
	assert.ErrorIs(t, err, ErrNotItemOwner)
}

// --- UpdateListing ---

func TestUpdateListing_ChangesPrice(t *testing.T) {
	ctx := context.Background()
	f := newMarketFixture(t)

	var listed []events.ItemListedEvent
	f.bus.Subscribe(events.ItemListed, func(payload interface{}) {
		listed = append(listed, payload.(events.ItemListedEvent))
	})

	require.NoError(t, f.market.ListItem(ctx, f.seller, f.contract, tokenID, price))
	require.NoError(t, f.market.UpdateListing(ctx, f.seller, f.contract, tokenID, price*2))

	listing, err := f.market.GetListing(f.contract, tokenID)
	require.NoError(t, err)
	assert.Equal(t, price*2, listing.Price)
	assert.Equal(t, f.seller, listing.Seller)

	// Update is modeled as a re-list, so ItemListed fires twice.
	require.Len(t, listed, 2)
	assert.Equal(t, price*2, listed[1].Price)
}

func TestUpdateListing_Errors(t *testing.T) {
	ctx := context.Background()
	f := newMarketFixture(t)

	assert.ErrorIs(t, f.market.UpdateListing(ctx, f.seller, f.contract, tokenID, price), ErrItemNotListed)

	require.NoError(t, f.market.ListItem(ctx, f.seller, f.contract, tokenID, price))
	assert.ErrorIs(t, f.market.UpdateListing(ctx, f.seller, f.contract, tokenID, 0), ErrPriceMustBeAboveZero)
	assert.ErrorIs(t, f.market.UpdateListing(ctx, f.buyer, f.contract, tokenID, price), ErrNotItemOwner)
}

// --- BuyItem ---

func TestBuyItem_SettlesSale(t *testing.T) {
	ctx := context.Background()
	f := newMarketFixture(t)

	var bought []events.ItemBoughtEvent
	f.bus.Subscribe(events.ItemBought, func(payload interface{}) {
		bought = append(bought, payload.(events.ItemBoughtEvent))
	})

	require.NoError(t, f.market.ListItem(ctx, f.seller, f.contract, tokenID, price))
	require.NoError(t, f.market.BuyItem(ctx, f.buyer, f.contract, tokenID, price))

	// Listing removed, proceeds credited, ownership transferred.
	_, err := f.market.GetListing(f.contract, tokenID)
	assert.ErrorIs(t, err, ErrItemNotListed)

	proceeds, err := f.market.GetProceeds(f.seller)
	require.NoError(t, err)
	assert.Equal(t, price, proceeds)

	owner, err := f.registry.OwnerOf(ctx, tokenID)
	require.NoError(t, err)
	assert.Equal(t, f.buyer, owner)

	require.Len(t, bought, 1)
	assert.Equal(t, events.ItemBoughtEvent{
		Buyer:         f.buyer,
		AssetContract: f.contract,
		AssetID:       tokenID,
		Price:         price,
	}, bought[0])
}

func TestBuyItem_NotListed(t *testing.T) {
	f := newMarketFixture(t)
	err := f.market.BuyItem(context.Background(), f.buyer, f.contract, tokenID, price)
	assert.ErrorIs(t, err, ErrItemNotListed)
}

func TestBuyItem_PriceNotMet(t *testing.T) {
	ctx := context.Background()
	f := newMarketFixture(t)
	require.NoError(t, f.market.ListItem(ctx, f.seller, f.contract, tokenID, price))

	// Exact match is required: low and high payments both fail.
	tests := []struct {
		name    string
		payment uint64
	}{
		{"below price", price - 1},
		{"above price", price + 1},
		{"zero", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.market.BuyItem(ctx, f.buyer, f.contract, tokenID, tt.payment)
			assert.ErrorIs(t, err, ErrPriceNotMet)
		})
	}

	// Listing and proceeds untouched.
	listing, err := f.market.GetListing(f.contract, tokenID)
	require.NoError(t, err)
	assert.Equal(t, price, listing.Price)

	proceeds, err := f.market.GetProceeds(f.seller)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), proceeds)
}

func TestBuyItem_TransferFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	f := newMarketFixture(t)
	require.NoError(t, f.market.ListItem(ctx, f.seller, f.contract, tokenID, price))

	// Revoking the approval after listing makes the transfer fail.
	require.NoError(t, f.registry.Approve(f.seller, chain.ZeroAddress, tokenID))

	err := f.market.BuyItem(ctx, f.buyer, f.contract, tokenID, price)
	require.Error(t, err)
	assert.ErrorIs(t, err, chain.ErrTransferDenied)

	// The listing survives and no proceeds were credited.
	listing, gerr := f.market.GetListing(f.contract, tokenID)
	require.NoError(t, gerr)
	assert.Equal(t, f.seller, listing.Seller)

	proceeds, perr := f.market.GetProceeds(f.seller)
	require.NoError(t, perr)
	assert.Equal(t, uint64(0), proceeds)

	owner, oerr := f.registry.OwnerOf(ctx, tokenID)
	require.NoError(t, oerr)
	assert.Equal(t, f.seller, owner)
}

// --- WithdrawProceeds ---

func TestWithdrawProceeds_PaysOutFullBalance(t *testing.T) {
	ctx := context.Background()
	f := newMarketFixture(t)

	require.NoError(t, f.market.ListItem(ctx, f.seller, f.contract, tokenID, price))
	require.NoError(t, f.market.BuyItem(ctx, f.buyer, f.contract, tokenID, price))

	amount, err := f.market.WithdrawProceeds(ctx, f.seller)
	require.NoError(t, err)
	assert.Equal(t, price, amount)
	assert.Equal(t, price, f.bank.Balance(f.seller))

	proceeds, err := f.market.GetProceeds(f.seller)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), proceeds)
}

func TestWithdrawProceeds_SecondCallFails(t *testing.T) {
	ctx := context.Background()
	f := newMarketFixture(t)

	require.NoError(t, f.market.ListItem(ctx, f.seller, f.contract, tokenID, price))
	require.NoError(t, f.market.BuyItem(ctx, f.buyer, f.contract, tokenID, price))

	_, err := f.market.WithdrawProceeds(ctx, f.seller)
	require.NoError(t, err)

	_, err = f.market.WithdrawProceeds(ctx, f.seller)
	assert.ErrorIs(t, err, ErrNoProceeds)
	assert.Equal(t, price, f.bank.Balance(f.seller))
}

func TestWithdrawProceeds_NoBalance(t *testing.T) {
	f := newMarketFixture(t)
	_, err := f.market.WithdrawProceeds(context.Background(), f.seller)
	assert.ErrorIs(t, err, ErrNoProceeds)
}

func TestWithdrawProceeds_TransferFailureRestoresBalance(t *testing.T) {
	ctx := context.Background()

	transferErr := errors.New("payout endpoint down")
	payout := &chain.MockFundTransferor{
		TransferFn: func(ctx context.Context, to chain.Address, amount uint64) error {
			return transferErr
		},
	}

	registry := chain.NewTokenRegistry()
	resolver := NewAuthorityResolver()
	contract := makeAddr(0x01)
	require.NoError(t, resolver.Register(contract, registry))

	m, err := NewMarketplace(MarketplaceConfig{
		Addr:        makeAddr(0x99),
		Listings:    NewMemListingStore(),
		Proceeds:    NewMemProceedsStore(),
		Authorities: resolver,
		Payout:      payout,
	})
	require.NoError(t, err)

	seller := makeAddr(0xAA)
	buyer := makeAddr(0xBB)
	id, err := registry.Mint(seller)
	require.NoError(t, err)
	require.NoError(t, registry.Approve(seller, m.Addr(), id))

	require.NoError(t, m.ListItem(ctx, seller, contract, id, price))
	require.NoError(t, m.BuyItem(ctx, buyer, contract, id, price))

	_, err = m.WithdrawProceeds(ctx, seller)
	assert.ErrorIs(t, err, transferErr)

	// The recorded balance survives the failed transfer.
	proceeds, err := m.GetProceeds(seller)
	require.NoError(t, err)
	assert.Equal(t, price, proceeds)
}

// --- Scenario ---

func TestMarketplace_ManyListingsAndSales(t *testing.T) {
	ctx := context.Background()
	f := newMarketFixture(t)
	const n = 50

	// Token 0 comes from the fixture; mint the rest.
	for i := 1; i < n; i++ {
		id, err := f.registry.Mint(f.seller)
		require.NoError(t, err)
		require.NoError(t, f.registry.Approve(f.seller, f.market.Addr(), id))
	}

	for i := uint64(0); i < n; i++ {
		require.NoError(t, f.market.ListItem(ctx, f.seller, f.contract, i, price+i))
	}
	count, err := f.market.listings.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(n), count)

	var total uint64
	for i := uint64(0); i < n; i++ {
		require.NoError(t, f.market.BuyItem(ctx, f.buyer, f.contract, i, price+i))
		total += price + i
	}

	count, err = f.market.listings.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)

	proceeds, err := f.market.GetProceeds(f.seller)
	require.NoError(t, err)
	assert.Equal(t, total, proceeds)

	amount, err := f.market.WithdrawProceeds(ctx, f.seller)
	require.NoError(t, err)
	assert.Equal(t, total, amount)
	assert.Equal(t, total, f.bank.Balance(f.seller))
}

// --- Constructor ---

func TestNewMarketplace_RequiresDependencies(t *testing.T) {
	resolver := NewAuthorityResolver()
	payout := chain.NewBank()

	tests := []struct {
		name string
		cfg  MarketplaceConfig
	}{
		{"missing listings", MarketplaceConfig{Proceeds: NewMemProceedsStore(), Authorities: resolver, Payout: payout}},
		{"missing proceeds", MarketplaceConfig{Listings: NewMemListingStore(), Authorities: resolver, Payout: payout}},
		{"missing resolver", MarketplaceConfig{Listings: NewMemListingStore(), Proceeds: NewMemProceedsStore(), Payout: payout}},
		{"missing payout", MarketplaceConfig{Listings: NewMemListingStore(), Proceeds: NewMemProceedsStore(), Authorities: resolver}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMarketplace(tt.cfg)
			assert.ErrorIs(t, err, ErrNilParam)
		})
	}
}
