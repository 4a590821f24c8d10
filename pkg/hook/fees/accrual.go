// Package fees computes pending funding and rent obligations. Everything
// here is a pure function of durable state plus a caller-supplied "now";
// accrual is lazy, there is no background sweep.
package fees

import (
	"github.com/shopspring/decimal"

	"github.com/Ebrahim-hamdy/unilaas-hook/pkg/hook/account"
	"github.com/Ebrahim-hamdy/unilaas-hook/pkg/hook/market"
)

// PendingFunding returns the funding fee an account owes as of now:
//
//	fundingRate × elapsedSeconds × (leg0 + leg1)
//
// Zero if the account has no open position. Callers guarantee elapsed ≥ 0.
func PendingFunding(m *market.Market, acc *account.Account, now int64) decimal.Decimal {
	elapsed := now - acc.LastSettledAt
	if elapsed <= 0 || !acc.Position.IsOpen() {
		return decimal.Zero
	}
	return m.FundingRate.
		Mul(decimal.NewFromInt(elapsed)).
		Mul(acc.Position.Total())
}

// PendingRent returns the rent an account owes as of now:
//
//	activeBid.rent × elapsedSeconds
//
// Only the current keeper owes rent; zero for everyone else.
func PendingRent(m *market.Market, acc *account.Account, now int64) decimal.Decimal {
	if !m.IsKeeper(acc.Address) {
		return decimal.Zero
	}
	elapsed := now - acc.LastSettledAt
	if elapsed <= 0 {
		return decimal.Zero
	}
	return m.Bid.Rent.Mul(decimal.NewFromInt(elapsed))
}
