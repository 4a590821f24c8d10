package hook

import (
	"github.com/shopspring/decimal"
)

// OnSwap settles keeper revenue for a swap against the market: the keeper's
// pending fees are settled, then a fixed-pips fee on the swap notional is
// routed to the keeper's external claimable balance on the fee-bearing
// side (currency0 when zeroForOne, currency1 otherwise). Markets with no
// active keeper pay no hook-level fee. Returns the fee taken.
func (e *Engine) OnSwap(poolID string, notional decimal.Decimal, zeroForOne bool) (decimal.Decimal, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	tx, err := e.begin(poolID)
	if err != nil {
		return decimal.Zero, err
	}
	if !tx.m.HasKeeper() {
		return decimal.Zero, nil
	}

	keeper := tx.m.Bid.Keeper
	acct := tx.account(e, keeper)
	e.settle(tx, acct)

	// Settlement can evict an insolvent keeper; the swap then pays nothing,
	// but the settlement itself still commits.
	if !tx.m.HasKeeper() {
		return decimal.Zero, e.commit(tx)
	}

	fee := notional.Abs().Mul(e.cfg.SwapFeeRate())
	if err := e.commit(tx); err != nil {
		return decimal.Zero, err
	}

	e.venueCalls.Add(1)
	defer e.venueCalls.Add(-1)
	if err := e.venue.TakeFee(poolID, zeroForOne, keeper, fee); err != nil {
		return decimal.Zero, err
	}
	return fee, nil
}
