package hook

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// PlaceBid enters or raises a rent bid for a market. The auction is
// continuous and always open: any bid strictly above the current rent wins
// immediately, there are no rounds and no cooldown.
//
// The bidder's fees are settled first, then eligibility requires
// collateral ≥ rent × healthy period. A bid at or below the active rent
// fails with ErrBidTooLow, including a keeper re-bidding its own rent.
// When the keeper changes, the outgoing keeper's obligations are settled
// against the old regime before handover.
func (e *Engine) PlaceBid(poolID string, bidder common.Address, rent decimal.Decimal) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	tx, err := e.begin(poolID)
	if err != nil {
		return err
	}

	acct := tx.account(e, bidder)
	e.settle(tx, acct)

	required := rent.Mul(decimal.NewFromInt(e.cfg.HealthyPeriod))
	if acct.Collateral.LessThan(required) {
		return ErrInsufficientCollateral
	}
	if rent.LessThanOrEqual(tx.m.Bid.Rent) {
		return ErrBidTooLow
	}

	if tx.m.HasKeeper() && tx.m.Bid.Keeper != bidder {
		outgoing := tx.account(e, tx.m.Bid.Keeper)
		e.settle(tx, outgoing)
	}
	tx.m.Bid.Keeper = bidder
	tx.m.Bid.Rent = rent

	tx.event(Event{
		Kind:   EventBidPlaced,
		PoolID: poolID,
		At:     tx.now,
		Keeper: bidder.Hex(),
		Rent:   rent.String(),
	})
	return e.commit(tx)
}
