package chain

import "context"

// MockAssetAuthority is a test double for AssetAuthority.
// All function fields must be set before the corresponding method is called.
type MockAssetAuthority struct {
	OwnerOfFn           func(ctx context.Context, assetID uint64) (Address, error)
	IsApprovedOrOwnerFn func(ctx context.Context, operator Address, assetID uint64) (bool, error)
	TransferFromFn      func(ctx context.Context, operator, from, to Address, assetID uint64) error
}

func (m *MockAssetAuthority) OwnerOf(ctx context.Context, assetID uint64) (Address, error) {
	return m.OwnerOfFn(ctx, assetID)
}
func (m *MockAssetAuthority) IsApprovedOrOwner(ctx context.Context, operator Address, assetID uint64) (bool, error) {
	return m.IsApprovedOrOwnerFn(ctx, operator, assetID)
}
func (m *MockAssetAuthority) TransferFrom(ctx context.Context, operator, from, to Address, assetID uint64) error {
	return m.TransferFromFn(ctx, operator, from, to, assetID)
}

// MockFundTransferor is a test double for FundTransferor.
type MockFundTransferor struct {
	TransferFn func(ctx context.Context, to Address, amount uint64) error
}

func (m *MockFundTransferor) Transfer(ctx context.Context, to Address, amount uint64) error {
	return m.TransferFn(ctx, to, amount)
}

// MockRandomnessOracle is a test double for RandomnessOracle.
type MockRandomnessOracle struct {
	RequestRandomWordsFn func(ctx context.Context, subID uint64, params GasParams, numWords uint32) (uint64, error)
}

func (m *MockRandomnessOracle) RequestRandomWords(ctx context.Context, subID uint64, params GasParams, numWords uint32) (uint64, error) {
	return m.RequestRandomWordsFn(ctx, subID, params, numWords)
}
