package hook

import (
	"github.com/shopspring/decimal"

	"github.com/Ebrahim-hamdy/unilaas-hook/pkg/hook/account"
	"github.com/Ebrahim-hamdy/unilaas-hook/pkg/hook/fees"
	"github.com/Ebrahim-hamdy/unilaas-hook/pkg/hook/market"
)

// accrual is the outcome of applying pending fees to an account.
type accrual struct {
	Funding decimal.Decimal // funding fee accrued over the interval
	Rent    decimal.Decimal // rent actually paid (capped at balance)
	Evicted bool            // keeper slot cleared for insolvency
}

// applyAccrual settles pending funding and rent fees into the given working
// copies as of now. Every operation routes through this before touching
// collateral, position, or the active bid, so fees are always current.
//
// Order matters: if the account is the keeper, its funding fee is credited
// first (the keeper collects the funding side), rent is debited and owed to
// the pool, and an exactly-zero balance after the rent debit evicts the
// keeper. Then the funding fee is debited like for every other account.
// All debits saturate at zero: accrued fees never drive collateral
// negative and never raise an error.
func applyAccrual(m *market.Market, acct *account.Account, now int64) accrual {
	res := accrual{
		Funding: fees.PendingFunding(m, acct, now),
	}
	rent := fees.PendingRent(m, acct, now)

	if m.IsKeeper(acct.Address) {
		acct.Credit(res.Funding)
		if rent.IsPositive() {
			res.Rent = acct.DebitSaturating(rent)
		}
		if acct.Collateral.IsZero() {
			m.ClearBid()
			res.Evicted = true
		}
	}

	acct.DebitSaturating(res.Funding)
	acct.LastSettledAt = now
	return res
}

// settle applies accrued fees for acct inside an operation, staging the
// rent donation for the venue and the eviction event for after commit.
func (e *Engine) settle(tx *opTx, acct *account.Account) {
	res := applyAccrual(tx.m, acct, tx.now)

	if res.Rent.IsPositive() {
		tx.donations = append(tx.donations, res.Rent)
		tx.event(Event{
			Kind:   EventRentDonated,
			PoolID: tx.m.PoolID,
			At:     tx.now,
			Keeper: acct.Address.Hex(),
			Amount: res.Rent.String(),
		})
	}
	if res.Evicted {
		tx.event(Event{
			Kind:   EventKeeperEvicted,
			PoolID: tx.m.PoolID,
			At:     tx.now,
			Keeper: acct.Address.Hex(),
		})
	}
}
