package hook

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/Ebrahim-hamdy/unilaas-hook/pkg/hook/account"
)

// Liquidate force-closes an undercollateralized trader. The caller is the
// liquidator.
//
// The trader must have a collateral record at all (ErrPositionNotFound
// otherwise). After settling the trader's fees, the health check requires
//
//	collateral < (rentOwed + openSize × fundingRate) × healthy period
//
// where rentOwed is the active rent if the trader is the keeper, else zero.
// A solvent account fails with ErrPositionNotLiquidatable. On success the
// full position is closed through the venue, a keeper trader loses the
// keeper slot, and the liquidator receives a fixed-bps cut of the trader's
// remaining collateral; the rest stays with the trader.
func (e *Engine) Liquidate(poolID string, liquidator, trader common.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	tx, err := e.begin(poolID)
	if err != nil {
		return err
	}

	existing := e.ledger.Lookup(poolID, trader)
	if existing == nil || existing.Collateral.IsZero() {
		return ErrPositionNotFound
	}

	acct := tx.account(e, trader)
	e.settle(tx, acct)

	rentOwed := decimal.Zero
	if tx.m.IsKeeper(trader) {
		rentOwed = tx.m.Bid.Rent
	}
	exposure := rentOwed.Add(acct.Position.Total().Mul(tx.m.FundingRate))
	threshold := exposure.Mul(decimal.NewFromInt(e.cfg.HealthyPeriod))
	if acct.Collateral.GreaterThanOrEqual(threshold) {
		return ErrPositionNotLiquidatable
	}

	delta, err := e.liquidityDelta(tx, acct.Position.Leg0, acct.Position.Leg1)
	if err != nil {
		return err
	}
	acct.Position = account.Position{Leg0: decimal.Zero, Leg1: decimal.Zero}

	if tx.m.IsKeeper(trader) {
		tx.m.ClearBid()
		tx.event(Event{
			Kind:   EventKeeperEvicted,
			PoolID: poolID,
			At:     tx.now,
			Keeper: trader.Hex(),
		})
	}

	fee := acct.Collateral.Mul(e.cfg.LiquidatorFeeRate())
	acct.Collateral = acct.Collateral.Sub(fee)
	liq := tx.account(e, liquidator)
	liq.Credit(fee)

	tx.event(Event{
		Kind:       EventLiquidation,
		PoolID:     poolID,
		At:         tx.now,
		Liquidator: liquidator.Hex(),
		Trader:     trader.Hex(),
		Fee:        fee.String(),
	})

	if err := e.commit(tx); err != nil {
		return err
	}
	if delta.IsPositive() {
		if _, err := e.applyDelta(tx.m, delta.Neg(), trader); err != nil {
			return err
		}
	}
	return nil
}
