package mint

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
	bucketRequests = []byte("mint_requests")
	bucketTokens   = []byte("tokens")
	bucketMeta     = []byte("meta")

	keyTokenCounter = []byte("token_counter")
)

// BoltStore wraps a bbolt database for mint persistence.
type BoltStore struct {
	db *bbolt.DB
}

// OpenBoltStore opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist.
func OpenBoltStore(dbPath string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("mint: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("mint: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketRequests, bucketTokens, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("boltstore: create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("mint: create buckets: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error { return s.db.Close() }

// Requests returns a RequestStore backed by this database.
func (s *BoltStore) Requests() *BoltRequestStore { return &BoltRequestStore{db: s.db} }

// Tokens returns a TokenStore backed by this database.
func (s *BoltStore) Tokens() *BoltTokenStore { return &BoltTokenStore{db: s.db} }

// uint64Key encodes an id as an 8-byte big-endian key for sorted storage.
func uint64Key(id uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, id)
	return k
}

// ---------------------------------------------------------------------------
// BoltRequestStore implements RequestStore.
// ---------------------------------------------------------------------------

// BoltRequestStore persists pending mint requests in bbolt.
type BoltRequestStore struct {
	db *bbolt.DB
}

// Compile-time interface check.
var _ RequestStore = (*BoltRequestStore)(nil)

// Put records a pending request.
func (s *BoltRequestStore) Put(requestID uint64, requester chain.Address) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketRequests)
		k := uint64Key(requestID)
		if b.Get(k) != nil {
			return fmt.Errorf("%w: %d", ErrDuplicateRequest, requestID)
		}
		if err := b.Put(k, requester[:]); err != nil {
			return fmt.Errorf("boltstore: put request: %w", err)
		}
		return nil
	})
}

// Take removes and returns the requester for a pending request. The lookup
// and the removal commit in one transaction, so a request id can only ever
// be taken once.
func (s *BoltRequestStore) Take(requestID uint64) (chain.Address, error) {
	var requester chain.Address
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketRequests)
		k := uint64Key(requestID)
		data := b.Get(k)
		if data == nil {
			return fmt.Errorf("%w: %d", ErrUnknownMintRequest, requestID)
		}
		copy(requester[:], data)
		if err := b.Delete(k); err != nil {
			return fmt.Errorf("boltstore: delete request: %w", err)
		}
		return nil
	})
	if err != nil {
		return chain.Address{}, err
	}
	return requester, nil
}

// Pending returns the number of requests awaiting fulfillment.
func (s *BoltRequestStore) Pending() (uint64, error) {
	var count uint64
	err := s.db.View(func(tx *bbolt.Tx) error {
		count = uint64(tx.Bucket(bucketRequests).Stats().KeyN)
		return nil
	})
	return count, err
}

// ---------------------------------------------------------------------------
// BoltTokenStore implements TokenStore.
// ---------------------------------------------------------------------------

// BoltTokenStore persists minted tokens in bbolt.
type BoltTokenStore struct {
	db *bbolt.DB
}

// Compile-time interface check.
var _ TokenStore = (*BoltTokenStore)(nil)

// Append assigns the next token id to the owner with the shape binding.
// Counter increment and token insert commit in one transaction.
func (s *BoltTokenStore) Append(owner chain.Address, shapeIndex uint32) (*MintedToken, error) {
	var tok MintedToken
	err := s.db.Update(func(tx *bbolt.Tx) error {
		meta := tx.Bucket(bucketMeta)
		var counter uint64
		if data := meta.Get(keyTokenCounter); data != nil {
			counter = binary.BigEndian.Uint64(data)
		}

		tok = MintedToken{TokenID: counter, Owner: owner, ShapeIndex: shapeIndex}
		data, err := encodeGob(&tok)
		if err != nil {
			return fmt.Errorf("encode token: %w", err)
		}
		if err := tx.Bucket(bucketTokens).Put(uint64Key(tok.TokenID), data); err != nil {
			return fmt.Errorf("boltstore: put token: %w", err)
		}
		if err := meta.Put(keyTokenCounter, uint64Key(counter+1)); err != nil {
			return fmt.Errorf("boltstore: bump counter: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &tok, nil
}

// Get retrieves a minted token.
func (s *BoltTokenStore) Get(tokenID uint64) (*MintedToken, error) {
	var tok MintedToken
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketTokens).Get(uint64Key(tokenID))
		if data == nil {
			return fmt.Errorf("%w: %d", ErrTokenNotExist, tokenID)
		}
		if err := decodeGob(data, &tok); err != nil {
			return fmt.Errorf("boltstore: decode token: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &tok, nil
}

// SetOwner reassigns a minted token.
func (s *BoltTokenStore) SetOwner(tokenID uint64, owner chain.Address) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketTokens)
		k := uint64Key(tokenID)
		data := b.Get(k)
		if data == nil {
			return fmt.Errorf("%w: %d", ErrTokenNotExist, tokenID)
		}

		var tok MintedToken
		if err := decodeGob(data, &tok); err != nil {
			return fmt.Errorf("boltstore: decode token: %w", err)
		}
		tok.Owner = owner

		out, err := encodeGob(&tok)
		if err != nil {
			return fmt.Errorf("encode token: %w", err)
		}
		if err := b.Put(k, out); err != nil {
			return fmt.Errorf("boltstore: put token: %w", err)
		}
		return nil
	})
}

// Counter returns the number of tokens minted so far.
func (s *BoltTokenStore) Counter() (uint64, error) {
	var counter uint64
	err := s.db.View(func(tx *bbolt.Tx) error {
		if data := tx.Bucket(bucketMeta).Get(keyTokenCounter); data != nil {
			counter = binary.BigEndian.Uint64(data)
		}
		return nil
	})
	return counter, err
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
