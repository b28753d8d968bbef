package market

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nftmarketorg/libnftmarket-go/chain"
)

// WithdrawProceeds pays out the caller's full accumulated balance. The
// balance is zeroed before the external transfer is attempted and restored
// if the transfer fails, so recorded proceeds are never lost.
func (m *Marketplace) WithdrawProceeds(ctx context.Context, caller chain.Address) (uint64, error) {
	amount, err := m.proceeds.Balance(caller)
	if err != nil {
		return 0, err
	}
	if amount == 0 {
		return 0, fmt.Errorf("%w: %s", ErrNoProceeds, caller)
	}

	if err := m.proceeds.SetBalance(caller, 0); err != nil {
		return 0, err
	}

	if err := m.payout.Transfer(ctx, caller, amount); err != nil {
		if serr := m.proceeds.SetBalance(caller, amount); serr != nil {
			m.log.With(
				zap.String("seller", caller.String()),
				zap.Uint64("amount", amount),
				zap.Error(serr),
			).Error("market: failed to restore proceeds balance")
		}
		return 0, fmt.Errorf("market: proceeds transfer: %w", err)
	}

	m.log.With(
		zap.String("seller", caller.String()),
		zap.Uint64("amount", amount),
	).Info("market: proceeds withdrawn")
	return amount, nil
}

// GetProceeds returns the caller's withdrawable balance, 0 if never
// credited. Pure read, no side effects.
func (m *Marketplace) GetProceeds(seller chain.Address) (uint64, error) {
	return m.proceeds.Balance(seller)
}
