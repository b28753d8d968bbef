package market

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"

	"github.com/nftmarketorg/libnftmarket-go/chain"
)

var (
	bucketListings = []byte("listings")
	bucketProceeds = []byte("proceeds")
)

// BoltStore wraps a bbolt database for marketplace persistence.
type BoltStore struct {
	db *bbolt.DB
}

// OpenBoltStore opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist.
func OpenBoltStore(dbPath string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("market: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("market: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketListings, bucketProceeds} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("boltstore: create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("market: create buckets: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error { return s.db.Close() }

// Listings returns a ListingStore backed by this database.
func (s *BoltStore) Listings() *BoltListingStore { return &BoltListingStore{db: s.db} }

// Proceeds returns a ProceedsStore backed by this database.
func (s *BoltStore) Proceeds() *BoltProceedsStore { return &BoltProceedsStore{db: s.db} }

// listingKey encodes (contract, assetID) as contract bytes followed by the
// big-endian asset id, so listings of one contract are stored contiguously.
func listingKey(key ListingKey) []byte {
	k := make([]byte, chain.AddressSize+8)
	copy(k[:chain.AddressSize], key.AssetContract[:])
	binary.BigEndian.PutUint64(k[chain.AddressSize:], key.AssetID)
	return k
}

// encodeGob serializes a value using gob encoding.
func encodeGob(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeGob deserializes gob-encoded data into a value.
func decodeGob(data []byte, v interface{}) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}

// ---------------------------------------------------------------------------
// BoltListingStore implements ListingStore.
// ---------------------------------------------------------------------------

// BoltListingStore persists active listings in bbolt.
type BoltListingStore struct {
	db *bbolt.DB
}

// Compile-time interface check.
var _ ListingStore = (*BoltListingStore)(nil)

// Get retrieves the active listing for a key.
func (s *BoltListingStore) Get(key ListingKey) (*Listing, error) {
	var listing Listing
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketListings).Get(listingKey(key))
		if data == nil {
			return fmt.Errorf("%w: %s #%d", ErrItemNotListed, key.AssetContract, key.AssetID)
		}
		if err := decodeGob(data, &listing); err != nil {
			return fmt.Errorf("boltstore: decode listing: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// Put inserts or replaces the listing for its key.
func (s *BoltListingStore) Put(l *Listing) error {
	if l == nil {
		return fmt.Errorf("%w: listing", ErrNilParam)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := encodeGob(l)
		if err != nil {
			return fmt.Errorf("encode listing: %w", err)
		}
		if err := tx.Bucket(bucketListings).Put(listingKey(l.Key()), data); err != nil {
			return fmt.Errorf("boltstore: put listing: %w", err)
		}
		return nil
	})
}

// Delete removes the listing for a key.
func (s *BoltListingStore) Delete(key ListingKey) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketListings)
		k := listingKey(key)
		if b.Get(k) == nil {
			return fmt.Errorf("%w: %s #%d", ErrItemNotListed, key.AssetContract, key.AssetID)
		}
		if err := b.Delete(k); err != nil {
			return fmt.Errorf("boltstore: delete listing: %w", err)
		}
		return nil
	})
}

// Count returns the number of active listings.
func (s *BoltListingStore) Count() (uint64, error) {
	var count uint64
	err := s.db.View(func(tx *bbolt.Tx) error {
		count = uint64(tx.Bucket(bucketListings).Stats().KeyN)
		return nil
	})
	return count, err
}

// ---------------------------------------------------------------------------
// BoltProceedsStore implements ProceedsStore.
// ---------------------------------------------------------------------------

// BoltProceedsStore persists seller balances in bbolt.
type BoltProceedsStore struct {
	db *bbolt.DB
}

// Compile-time interface check.
var _ ProceedsStore = (*BoltProceedsStore)(nil)

// Balance returns the seller's balance, 0 if never credited.
func (s *BoltProceedsStore) Balance(seller chain.Address) (uint64, error) {
	var balance uint64
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketProceeds).Get(seller[:])
		if data != nil {
			balance = binary.BigEndian.Uint64(data)
		}
		return nil
	})
	return balance, err
}

// Credit adds amount to the seller's balance.
func (s *BoltProceedsStore) Credit(seller chain.Address, amount uint64) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketProceeds)
		var balance uint64
		if data := b.Get(seller[:]); data != nil {
			balance = binary.BigEndian.Uint64(data)
		}

		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, balance+amount)
		if err := b.Put(seller[:], buf); err != nil {
			return fmt.Errorf("boltstore: credit proceeds: %w", err)
		}
		return nil
	})
}

// SetBalance overwrites the seller's balance.
func (s *BoltProceedsStore) SetBalance(seller chain.Address, amount uint64) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, amount)
		if err := tx.Bucket(bucketProceeds).Put(seller[:], buf); err != nil {
			return fmt.Errorf("boltstore: set proceeds: %w", err)
		}
		return nil
	})
}
