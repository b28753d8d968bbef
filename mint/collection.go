package mint

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/nftmarketorg/libnftmarket-go/artwork"
	"github.com/nftmarketorg/libnftmarket-go/chain"
	"github.com/nftmarketorg/libnftmarket-go/events"
)

// Collection coordinates randomized mints against an external randomness
// oracle and owns the resulting tokens. It implements chain.AssetAuthority
// so minted tokens can be listed on the marketplace like any other asset.
//
// A mint is two independent, atomically-executed calls: RequestNftMint
// records a paid pending commitment, and FulfillRandomWords, invoked by
// the oracle an unbounded time later, consumes it exactly once.
type Collection struct {
	addr     chain.Address
	oracle   chain.RandomnessOracle
	subID    uint64
	gas      chain.GasParams
	numWords uint32
	fee      uint64
	catalog  *artwork.Catalog
	requests RequestStore
	tokens   TokenStore
	bus      *events.Bus
	log      *zap.Logger

	mu        sync.Mutex
	approvals map[uint64]chain.Address
}

// Compile-time interface checks.
var (
	_ chain.AssetAuthority      = (*Collection)(nil)
	_ chain.RandomWordsConsumer = (*Collection)(nil)
)

// CollectionConfig wires a Collection. Oracle, Catalog, Requests, and
// Tokens are required; MintFee must be above zero.
type CollectionConfig struct {
	Addr     chain.Address
	Oracle   chain.RandomnessOracle
	SubID    uint64
	Gas      chain.GasParams
	NumWords uint32
	MintFee  uint64
	Catalog  *artwork.Catalog
	Requests RequestStore
	Tokens   TokenStore
	Bus      *events.Bus
	Log      *zap.Logger
}

// NewCollection creates a collection from its dependencies.
func NewCollection(cfg CollectionConfig) (*Collection, error) {
	switch {
	case cfg.Oracle == nil:
		return nil, fmt.Errorf("%w: oracle", ErrNilParam)
	case cfg.Catalog == nil:
		return nil, fmt.Errorf("%w: catalog", ErrNilParam)
	case cfg.Requests == nil:
		return nil, fmt.Errorf("%w: request store", ErrNilParam)
	case cfg.Tokens == nil:
		return nil, fmt.Errorf("%w: token store", ErrNilParam)
	case cfg.MintFee == 0:
		return nil, fmt.Errorf("mint: mint fee must be above zero")
	}

	numWords := cfg.NumWords
	if numWords == 0 {
		numWords = 1
	}
	bus := cfg.Bus
	if bus == nil {
		bus = events.NewBus(nil)
	}
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}

	return &Collection{
		addr:      cfg.Addr,
		oracle:    cfg.Oracle,
		subID:     cfg.SubID,
		gas:       cfg.Gas,
		numWords:  numWords,
		fee:       cfg.MintFee,
		catalog:   cfg.Catalog,
		requests:  cfg.Requests,
		tokens:    cfg.Tokens,
		bus:       bus,
		log:       log,
		approvals: make(map[uint64]chain.Address),
	}, nil
}

// Addr returns the collection's contract address.
func (c *Collection) Addr() chain.Address { return c.addr }

// MintFee returns the fee required to request a mint.
func (c *Collection) MintFee() uint64 { return c.fee }

// Catalog returns the immutable shape catalog.
func (c *Collection) Catalog() *artwork.Catalog { return c.catalog }

// TokenCounter returns the number of tokens minted so far.
func (c *Collection) TokenCounter() (uint64, error) { return c.tokens.Counter() }

// RequestNftMint issues a randomness request for the requester and records
// the pending commitment. No token is minted yet; the paid fee is
// non-refundable and the mint obligation persists until fulfilled.
func (c *Collection) RequestNftMint(ctx context.Context, requester chain.Address, payment uint64) (uint64, error) {
	if payment < c.fee {
		return 0, fmt.Errorf("%w: fee %d, payment %d", ErrNotEnoughAmount, c.fee, payment)
	}

	requestID, err := c.oracle.RequestRandomWords(ctx, c.subID, c.gas, c.numWords)
	if err != nil {
		return 0, fmt.Errorf("mint: randomness request: %w", err)
	}

	if err := c.requests.Put(requestID, requester); err != nil {
		// The oracle has already accepted the request; its fulfillment
		// will arrive for an id we have no requester for.
		c.log.With(
			zap.Uint64("requestId", requestID),
			zap.Error(err),
		).Error("mint: orphaned oracle request, commitment not recorded")
		return 0, err
	}

	c.log.With(
		zap.String("requester", requester.String()),
		zap.Uint64("requestId", requestID),
	).Info("mint: nft mint requested")

	c.bus.Emit(events.NftMintRequested, events.NftMintRequestedEvent{
		Requester: requester,
		RequestID: requestID,
	})
	return requestID, nil
}

// FulfillRandomWords consumes a pending request exactly once: the first
// random word selects the shape (word mod catalog length) and the token is
// created atomically for the original requester. Unknown or already
// consumed request ids are rejected without minting.
func (c *Collection) FulfillRandomWords(ctx context.Context, requestID uint64, randomWords []uint64) error {
	if len(randomWords) == 0 {
		return fmt.Errorf("%w: request %d", ErrNoRandomWords, requestID)
	}

	requester, err := c.requests.Take(requestID)
	if err != nil {
		return err
	}

	shapeIndex := uint32(randomWords[0] % uint64(c.catalog.Len()))
	tok, err := c.tokens.Append(requester, shapeIndex)
	if err != nil {
		// Restore the commitment so the paid mint can be fulfilled again.
		if perr := c.requests.Put(requestID, requester); perr != nil {
			c.log.With(
				zap.Uint64("requestId", requestID),
				zap.Error(perr),
			).Error("mint: failed to restore pending request")
		}
		return err
	}

	c.log.With(
		zap.Uint64("tokenId", tok.TokenID),
		zap.Uint32("shapeIndex", shapeIndex),
		zap.String("owner", requester.String()),
	).Info("mint: nft minted")

	c.bus.Emit(events.NftMinted, events.NftMintedEvent{
		TokenID:    tok.TokenID,
		ShapeIndex: shapeIndex,
		Owner:      requester,
	})
	return nil
}

// TokenURI returns the deterministic metadata document for a minted token.
func (c *Collection) TokenURI(tokenID uint64) (string, error) {
	tok, err := c.tokens.Get(tokenID)
	if err != nil {
		return "", err
	}

	encoded, err := c.catalog.EncodedShape(int(tok.ShapeIndex))
	if err != nil {
		return "", err
	}
	return artwork.GenerateTokenURI(tokenID, encoded), nil
}

// Token returns the minted token record.
func (c *Collection) Token(tokenID uint64) (*MintedToken, error) {
	return c.tokens.Get(tokenID)
}

// Approve grants operator transfer rights over a minted token. Only the
// current owner may approve; the zero operator clears the approval.
func (c *Collection) Approve(caller, operator chain.Address, tokenID uint64) error {
	tok, err := c.tokens.Get(tokenID)
	if err != nil {
		return err
	}
	if tok.Owner != caller {
		return fmt.Errorf("%w: token %d", chain.ErrNotAssetOwner, tokenID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if operator.IsZero() {
		delete(c.approvals, tokenID)
		return nil
	}
	c.approvals[tokenID] = operator
	return nil
}

// OwnerOf returns the current owner of a minted token.
func (c *Collection) OwnerOf(ctx context.Context, assetID uint64) (chain.Address, error) {
	tok, err := c.tokens.Get(assetID)
	if err != nil {
		return chain.Address{}, err
	}
	return tok.Owner, nil
}

// IsApprovedOrOwner reports whether operator may transfer the token.
func (c *Collection) IsApprovedOrOwner(ctx context.Context, operator chain.Address, assetID uint64) (bool, error) {
	tok, err := c.tokens.Get(assetID)
	if err != nil {
		return false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return tok.Owner == operator || c.approvals[assetID] == operator, nil
}

// TransferFrom moves the token to the recipient and clears its approval.
func (c *Collection) TransferFrom(ctx context.Context, operator, from, to chain.Address, assetID uint64) error {
	if to.IsZero() {
		return fmt.Errorf("%w: transfer recipient", chain.ErrZeroAddress)
	}

	tok, err := c.tokens.Get(assetID)
	if err != nil {
		return err
	}
	if tok.Owner != from {
		return fmt.Errorf("%w: token %d owned by %s", chain.ErrWrongFrom, assetID, tok.Owner)
	}

	c.mu.Lock()
	approved := tok.Owner == operator || c.approvals[assetID] == operator
	if !approved {
		c.mu.Unlock()
		return fmt.Errorf("%w: operator %s, token %d", chain.ErrTransferDenied, operator, assetID)
	}
	delete(c.approvals, assetID)
	c.mu.Unlock()

	return c.tokens.SetOwner(assetID, to)
}
