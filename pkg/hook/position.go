package hook

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// liquidityDelta converts two option-leg amounts into a single net
// liquidity delta using the venue's unit-liquidity token amounts for the
// market's fixed tick range. The venue read is a pure numeric primitive.
func (e *Engine) liquidityDelta(tx *opTx, leg0, leg1 decimal.Decimal) (decimal.Decimal, error) {
	unit0, unit1, err := e.venue.UnitLiquidityTokenAmounts(tx.m.PoolID, tx.m.Range)
	if err != nil {
		return decimal.Zero, fmt.Errorf("unit liquidity amounts: %w", err)
	}

	delta := decimal.Zero
	if leg0.IsPositive() {
		if !unit0.IsPositive() {
			return decimal.Zero, fmt.Errorf("unit amount0 must be positive: %s", unit0)
		}
		delta = delta.Add(leg0.Div(unit0))
	}
	if leg1.IsPositive() {
		if !unit1.IsPositive() {
			return decimal.Zero, fmt.Errorf("unit amount1 must be positive: %s", unit1)
		}
		delta = delta.Add(leg1.Div(unit1))
	}
	return delta, nil
}

// settleParties settles the current keeper and the trader, two independent
// parties that may both have pending fees.
func (e *Engine) settleParties(tx *opTx, trader common.Address) {
	if tx.m.HasKeeper() && tx.m.Bid.Keeper != trader {
		keeper := tx.account(e, tx.m.Bid.Keeper)
		e.settle(tx, keeper)
	}
	acct := tx.account(e, trader)
	e.settle(tx, acct)
}

// OpenPosition opens option legs on behalf of trader: both parties are
// settled, the ledger position grows by the requested amounts, and the net
// liquidity delta is applied at the venue with the token deltas settled
// against the trader's external balance.
func (e *Engine) OpenPosition(poolID string, trader common.Address, leg0, leg1 decimal.Decimal) error {
	if leg0.IsNegative() || leg1.IsNegative() {
		return fmt.Errorf("leg amounts cannot be negative: %s/%s", leg0, leg1)
	}
	if !leg0.IsPositive() && !leg1.IsPositive() {
		return fmt.Errorf("position must have size")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	tx, err := e.begin(poolID)
	if err != nil {
		return err
	}
	e.settleParties(tx, trader)

	delta, err := e.liquidityDelta(tx, leg0, leg1)
	if err != nil {
		return err
	}

	acct := tx.accounts[trader]
	acct.Position.Leg0 = acct.Position.Leg0.Add(leg0)
	acct.Position.Leg1 = acct.Position.Leg1.Add(leg1)

	if err := e.commit(tx); err != nil {
		return err
	}
	_, err = e.applyDelta(tx.m, delta, trader)
	return err
}

// ClosePosition closes option legs symmetrically. Amounts beyond the
// currently open size are clamped rather than rejected, mirroring the
// saturating debit policy elsewhere; the venue delta is computed from the
// effective closed amounts. A keeper closing its position loses the keeper
// slot, since the position was the economic basis for holding it.
func (e *Engine) ClosePosition(poolID string, trader common.Address, leg0, leg1 decimal.Decimal) error {
	if leg0.IsNegative() || leg1.IsNegative() {
		return fmt.Errorf("leg amounts cannot be negative: %s/%s", leg0, leg1)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	tx, err := e.begin(poolID)
	if err != nil {
		return err
	}
	e.settleParties(tx, trader)

	acct := tx.accounts[trader]
	closed0 := decimal.Min(leg0, acct.Position.Leg0)
	closed1 := decimal.Min(leg1, acct.Position.Leg1)

	delta, err := e.liquidityDelta(tx, closed0, closed1)
	if err != nil {
		return err
	}

	acct.Position.Leg0 = acct.Position.Leg0.Sub(closed0)
	acct.Position.Leg1 = acct.Position.Leg1.Sub(closed1)

	if tx.m.IsKeeper(trader) {
		tx.m.ClearBid()
		tx.event(Event{
			Kind:   EventKeeperEvicted,
			PoolID: poolID,
			At:     tx.now,
			Keeper: trader.Hex(),
		})
	}

	if err := e.commit(tx); err != nil {
		return err
	}
	if delta.IsPositive() {
		_, err = e.applyDelta(tx.m, delta.Neg(), trader)
	}
	return err
}
