package market

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nftmarketorg/libnftmarket-go/chain"
)

func tempBoltStore(t *testing.T) *BoltStore {
	t.Helper()

	store, err := OpenBoltStore(filepath.Join(t.TempDir(), "market.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestBoltListingStore_PutGetDelete(t *testing.T) {
	store := tempBoltStore(t)
	listings := store.Listings()

	listing := &Listing{
		AssetContract: makeAddr(0x01),
		AssetID:       7,
		Seller:        makeAddr(0xAA),
		Price:         5000,
	}

	_, err := listings.Get(listing.Key())
	assert.ErrorIs(t, err, ErrItemNotListed)

	require.NoError(t, listings.Put(listing))

	got, err := listings.Get(listing.Key())
	require.NoError(t, err)
	assert.Equal(t, listing, got)

	count, err := listings.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	require.NoError(t, listings.Delete(listing.Key()))
	_, err = listings.Get(listing.Key())
	assert.ErrorIs(t, err, ErrItemNotListed)

	assert.ErrorIs(t, listings.Delete(listing.Key()), ErrItemNotListed)
}

func TestBoltListingStore_PutReplaces(t *testing.T) {
	store := tempBoltStore(t)
	listings := store.Listings()

	listing := &Listing{
		AssetContract: makeAddr(0x01),
		AssetID:       1,
		Seller:        makeAddr(0xAA),
		Price:         100,
	}
	require.NoError(t, listings.Put(listing))

	listing.Price = 250
	require.NoError(t, listings.Put(listing))

	got, err := listings.Get(listing.Key())
	require.NoError(t, err)
	assert.Equal(t, uint64(250), got.Price)

	count, err := listings.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestBoltListingStore_PutNil(t *testing.T) {
	store := tempBoltStore(t)
	assert.ErrorIs(t, store.Listings().Put(nil), ErrNilParam)
}

func TestBoltProceedsStore_CreditAndSet(t *testing.T) {
	store := tempBoltStore(t)
	proceeds := store.Proceeds()
	seller := makeAddr(0xAA)

	balance, err := proceeds.Balance(seller)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), balance)

	require.NoError(t, proceeds.Credit(seller, 100))
	require.NoError(t, proceeds.Credit(seller, 50))

	balance, err = proceeds.Balance(seller)
	require.NoError(t, err)
	assert.Equal(t, uint64(150), balance)

	require.NoError(t, proceeds.SetBalance(seller, 0))
	balance, err = proceeds.Balance(seller)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), balance)
}

func TestBoltStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "market.db")

	store, err := OpenBoltStore(path)
	require.NoError(t, err)

	listing := &Listing{
		AssetContract: makeAddr(0x01),
		AssetID:       3,
		Seller:        makeAddr(0xAA),
		Price:         42,
	}
	require.NoError(t, store.Listings().Put(listing))
	require.NoError(t, store.Proceeds().Credit(listing.Seller, 42))
	require.NoError(t, store.Close())

	store, err = OpenBoltStore(path)
	require.NoError(t, err)
	defer store.Close()

	got, err := store.Listings().Get(listing.Key())
	require.NoError(t, err)
	assert.Equal(t, listing, got)

	balance, err := store.Proceeds().Balance(listing.Seller)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), balance)
}

func TestMarketplace_WithBoltStores(t *testing.T) {
	store := tempBoltStore(t)

	registry := chain.NewTokenRegistry()
	resolver := NewAuthorityResolver()
	contract := makeAddr(0x01)
	require.NoError(t, resolver.Register(contract, registry))

	bank := chain.NewBank()
	m, err := NewMarketplace(MarketplaceConfig{
		Addr:        makeAddr(0x99),
		Listings:    store.Listings(),
		Proceeds:    store.Proceeds(),
		Authorities: resolver,
		Payout:      bank,
	})
	require.NoError(t, err)

	ctx := context.Background()
	seller := makeAddr(0xAA)
	buyer := makeAddr(0xBB)
	id, err := registry.Mint(seller)
	require.NoError(t, err)
	require.NoError(t, registry.Approve(seller, m.Addr(), id))

	require.NoError(t, m.ListItem(ctx, seller, contract, id, 1000))
	require.NoError(t, m.BuyItem(ctx, buyer, contract, id, 1000))

	amount, err := m.WithdrawProceeds(ctx, seller)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), amount)
	assert.Equal(t, uint64(1000), bank.Balance(seller))
}
