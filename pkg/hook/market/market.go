package market

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// TickRange is the fixed tick band a market's option liquidity occupies.
// Set once at market creation and never changed.
type TickRange struct {
	Lower int32 `json:"lower"`
	Upper int32 `json:"upper"`
}

// Bid is the active rent bid for a market. A zero Keeper address means the
// keeper slot is empty; Rent is the current rent-per-second owed by the
// keeper to the pool's liquidity providers.
type Bid struct {
	Rent   decimal.Decimal `json:"rent"`
	Keeper common.Address  `json:"keeper"`
}

// Market holds the per-pool auction and funding state.
// At most one keeper exists per market at any time, and Bid.Rent strictly
// increases across keeper changes until an eviction resets it to zero.
type Market struct {
	PoolID string    `json:"poolId"`
	Range  TickRange `json:"range"`

	// FundingRate is the per-second, per-unit-of-open-position rate charged
	// to traders. Settable only by the current keeper.
	FundingRate decimal.Decimal `json:"fundingRate"`

	Bid Bid `json:"bid"`
}

// New creates a market at pool initialization: empty bid, zero funding rate.
func New(poolID string, lower, upper int32) (*Market, error) {
	m := &Market{
		PoolID:      poolID,
		Range:       TickRange{Lower: lower, Upper: upper},
		FundingRate: decimal.Zero,
		Bid:         Bid{Rent: decimal.Zero},
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid market params: %w", err)
	}
	return m, nil
}

// Validate checks market parameter sanity.
func (m *Market) Validate() error {
	if m.PoolID == "" {
		return fmt.Errorf("pool id cannot be empty")
	}
	if m.Range.Lower >= m.Range.Upper {
		return fmt.Errorf("tick range inverted: [%d, %d)", m.Range.Lower, m.Range.Upper)
	}
	if m.FundingRate.IsNegative() {
		return fmt.Errorf("funding rate cannot be negative")
	}
	if m.Bid.Rent.IsNegative() {
		return fmt.Errorf("rent cannot be negative")
	}
	return nil
}

// HasKeeper reports whether the keeper slot is occupied.
func (m *Market) HasKeeper() bool {
	return m.Bid.Keeper != (common.Address{})
}

// IsKeeper reports whether addr holds the keeper slot.
func (m *Market) IsKeeper(addr common.Address) bool {
	return m.HasKeeper() && m.Bid.Keeper == addr
}

// ClearBid empties the keeper slot and resets rent to zero. Used when a
// keeper is evicted for insolvency, closes its position, or is liquidated.
func (m *Market) ClearBid() {
	m.Bid = Bid{Rent: decimal.Zero}
}

// Clone returns a copy that can be mutated without affecting the original.
// Decimal values are immutable, so a shallow copy suffices.
func (m *Market) Clone() *Market {
	cp := *m
	return &cp
}
