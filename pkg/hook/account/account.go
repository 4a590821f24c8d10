package account

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// Position is the two-leg option exposure of an account. Legs are
// independent non-negative sizes, one per pool currency, and only change in
// matched pairs through open/close calls.
type Position struct {
	Leg0 decimal.Decimal `json:"leg0"`
	Leg1 decimal.Decimal `json:"leg1"`
}

// Total returns the summed open size across both legs, the quantity that
// funding fees accrue against.
func (p Position) Total() decimal.Decimal {
	return p.Leg0.Add(p.Leg1)
}

// IsOpen reports whether either leg has open size.
func (p Position) IsOpen() bool {
	return p.Leg0.IsPositive() || p.Leg1.IsPositive()
}

// Account is the per-market ledger entry for one participant: collateral
// balance, open option position, and the timestamp fees were last settled
// to. Accounts are created lazily on first deposit or bid and never
// deleted, only zeroed.
type Account struct {
	PoolID  string         `json:"poolId"`
	Address common.Address `json:"address"`

	// Collateral never goes negative; debits saturate at zero.
	Collateral decimal.Decimal `json:"collateral"`

	// LastSettledAt is the Unix-second timestamp of the last fee accrual
	// application for this account.
	LastSettledAt int64 `json:"lastSettledAt"`

	Position Position `json:"position"`
}

// New creates a zeroed account settled as of now.
func New(poolID string, addr common.Address, now int64) *Account {
	return &Account{
		PoolID:        poolID,
		Address:       addr,
		Collateral:    decimal.Zero,
		LastSettledAt: now,
	}
}

// Credit adds amount to collateral.
func (a *Account) Credit(amount decimal.Decimal) {
	a.Collateral = a.Collateral.Add(amount)
}

// DebitSaturating removes up to amount from collateral, stopping at zero.
// Returns the amount actually debited.
func (a *Account) DebitSaturating(amount decimal.Decimal) decimal.Decimal {
	paid := amount
	if paid.GreaterThan(a.Collateral) {
		paid = a.Collateral
	}
	a.Collateral = a.Collateral.Sub(paid)
	return paid
}

// Clone returns a mutable copy of the account.
func (a *Account) Clone() *Account {
	cp := *a
	return &cp
}

// Validate checks account invariants.
func (a *Account) Validate() error {
	if a.Collateral.IsNegative() {
		return fmt.Errorf("negative collateral: %s", a.Collateral)
	}
	if a.Position.Leg0.IsNegative() || a.Position.Leg1.IsNegative() {
		return fmt.Errorf("negative position leg: leg0=%s leg1=%s", a.Position.Leg0, a.Position.Leg1)
	}
	if a.LastSettledAt < 0 {
		return fmt.Errorf("negative settlement timestamp: %d", a.LastSettledAt)
	}
	return nil
}
