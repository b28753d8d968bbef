// Package platform wires the full system the way a deployment would: it
// opens the databases under the data directory, loads the shape catalog,
// connects the oracle, and composes the marketplace and the collection.
// It is the library-level equivalent of a deploy script.
package platform

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/nftmarketorg/libnftmarket-go/artwork"
	"github.com/nftmarketorg/libnftmarket-go/chain"
	"github.com/nftmarketorg/libnftmarket-go/config"
	"github.com/nftmarketorg/libnftmarket-go/events"
	"github.com/nftmarketorg/libnftmarket-go/logging"
	"github.com/nftmarketorg/libnftmarket-go/market"
	"github.com/nftmarketorg/libnftmarket-go/mint"
)

// subscriptionFunding is how many fulfillments the locally created oracle
// subscription is pre-funded for. Kept small enough that
// BaseFee*subscriptionFunding fits in uint64.
const subscriptionFunding = 50

// Well-known component addresses, derived once from their labels.
var (
	MarketplaceAddr = chain.NamedAddress("nftmarket/marketplace")
	CollectionAddr  = chain.NamedAddress("nftmarket/collection")
)

// Platform is the assembled system.
type Platform struct {
	Config     config.Config
	Log        *zap.Logger
	Bus        *events.Bus
	Oracle     *chain.SimOracle
	Bank       *chain.Bank
	Market     *market.Marketplace
	Collection *mint.Collection

	resolver *market.AuthorityResolver
	marketDB *market.BoltStore
	mintDB   *mint.BoltStore
}

// New builds a platform from configuration. The shape catalog is loaded
// from cfg.ShapesDir; both subsystems persist under cfg.DataDir.
func New(cfg config.Config) (*Platform, error) {
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}

	log, err := logging.NewLogger(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, err
	}

	catalog, err := artwork.LoadCatalogDir(cfg.ShapesDir)
	if err != nil {
		return nil, fmt.Errorf("platform: load catalog: %w", err)
	}

	marketDB, err := market.OpenBoltStore(filepath.Join(cfg.DataDir, "market.db"))
	if err != nil {
		return nil, err
	}
	mintDB, err := mint.OpenBoltStore(filepath.Join(cfg.DataDir, "mint.db"))
	if err != nil {
		_ = marketDB.Close()
		return nil, err
	}

	bus := events.NewBus(log)
	oracle := chain.NewSimOracle()
	bank := chain.NewBank()

	subID := cfg.OracleSubID
	if subID == 0 {
		subID = oracle.CreateSubscription()
		if err := oracle.FundSubscription(subID, chain.BaseFee*subscriptionFunding); err != nil {
			_ = marketDB.Close()
			_ = mintDB.Close()
			return nil, err
		}
	}

	gas := chain.GasParams{
		KeyHash:          cfg.OracleKeyHash,
		CallbackGasLimit: cfg.OracleCallbackGasLimit,
	}

	collection, err := mint.NewCollection(mint.CollectionConfig{
		Addr:     CollectionAddr,
		Oracle:   oracle,
		SubID:    subID,
		Gas:      gas,
		NumWords: cfg.OracleNumWords,
		MintFee:  cfg.MintFee,
		Catalog:  catalog,
		Requests: mintDB.Requests(),
		Tokens:   mintDB.Tokens(),
		Bus:      bus,
		Log:      log,
	})
	if err != nil {
		_ = marketDB.Close()
		_ = mintDB.Close()
		return nil, err
	}

	if err := oracle.RegisterConsumer(subID, collection); err != nil {
		_ = marketDB.Close()
		_ = mintDB.Close()
		return nil, err
	}

	resolver := market.NewAuthorityResolver()
	if err := resolver.Register(CollectionAddr, collection); err != nil {
		_ = marketDB.Close()
		_ = mintDB.Close()
		return nil, err
	}

	marketplace, err := market.NewMarketplace(market.MarketplaceConfig{
		Addr:        MarketplaceAddr,
		Listings:    marketDB.Listings(),
		Proceeds:    marketDB.Proceeds(),
		Authorities: resolver,
		Payout:      bank,
		Bus:         bus,
		Log:         log,
	})
	if err != nil {
		_ = marketDB.Close()
		_ = mintDB.Close()
		return nil, err
	}

	log.With(
		zap.String("network", cfg.Network),
		zap.Int("shapes", catalog.Len()),
		zap.Uint64("mintFee", cfg.MintFee),
	).Info("platform: ready")

	return &Platform{
		Config:     cfg,
		Log:        log,
		Bus:        bus,
		Oracle:     oracle,
		Bank:       bank,
		Market:     marketplace,
		Collection: collection,
		resolver:   resolver,
		marketDB:   marketDB,
		mintDB:     mintDB,
	}, nil
}

// RegisterCollection makes an external asset collection listable on the
// marketplace alongside the built-in one.
func (p *Platform) RegisterCollection(contract chain.Address, authority chain.AssetAuthority) error {
	return p.resolver.Register(contract, authority)
}

// Close releases the databases and flushes the logger.
func (p *Platform) Close() error {
	_ = p.Log.Sync()

	err := p.marketDB.Close()
	if merr := p.mintDB.Close(); err == nil {
		err = merr
	}
	return err
}
