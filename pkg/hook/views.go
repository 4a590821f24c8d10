package hook

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/Ebrahim-hamdy/unilaas-hook/pkg/hook/account"
	"github.com/Ebrahim-hamdy/unilaas-hook/pkg/hook/fees"
	"github.com/Ebrahim-hamdy/unilaas-hook/pkg/hook/market"
)

// AccountView is the read-only projection of an account as of now.
// EffectiveCollateral is the balance after capped pending fees would be
// applied, never negative.
type AccountView struct {
	PoolID              string           `json:"poolId"`
	Address             common.Address   `json:"address"`
	Collateral          decimal.Decimal  `json:"collateral"`
	EffectiveCollateral decimal.Decimal  `json:"effectiveCollateral"`
	PendingFunding      decimal.Decimal  `json:"pendingFunding"`
	PendingRent         decimal.Decimal  `json:"pendingRent"`
	Position            account.Position `json:"position"`
	LastSettledAt       int64            `json:"lastSettledAt"`
	IsKeeper            bool             `json:"isKeeper"`
}

// PendingFees returns the pending funding and rent fees for an account as
// of now, without settling anything.
func (e *Engine) PendingFees(poolID string, addr common.Address) (funding, rent decimal.Decimal, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	m, err := e.markets.Get(poolID)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	now := e.clock.Now().Unix()
	acct := e.ledger.Lookup(poolID, addr)
	if acct == nil {
		return decimal.Zero, decimal.Zero, nil
	}
	return fees.PendingFunding(m, acct, now), fees.PendingRent(m, acct, now), nil
}

// Account returns the read-only view of an account. A never-touched
// account reports all-zero fields.
func (e *Engine) Account(poolID string, addr common.Address) (AccountView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	m, err := e.markets.Get(poolID)
	if err != nil {
		return AccountView{}, err
	}
	now := e.clock.Now().Unix()

	acct := e.ledger.Lookup(poolID, addr)
	if acct == nil {
		acct = account.New(poolID, addr, now)
	}

	view := AccountView{
		PoolID:         poolID,
		Address:        addr,
		Collateral:     acct.Collateral,
		PendingFunding: fees.PendingFunding(m, acct, now),
		PendingRent:    fees.PendingRent(m, acct, now),
		Position:       acct.Position,
		LastSettledAt:  acct.LastSettledAt,
		IsKeeper:       m.IsKeeper(addr),
	}

	// Replay the accrual on throwaway copies to get the saturated
	// post-settlement balance.
	mc, ac := m.Clone(), acct.Clone()
	applyAccrual(mc, ac, now)
	view.EffectiveCollateral = ac.Collateral

	return view, nil
}

// Market returns a copy of the market state.
func (e *Engine) Market(poolID string) (*market.Market, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	m, err := e.markets.Get(poolID)
	if err != nil {
		return nil, err
	}
	return m.Clone(), nil
}

// Markets returns copies of all registered markets.
func (e *Engine) Markets() []*market.Market {
	e.mu.Lock()
	defer e.mu.Unlock()

	listed := e.markets.List()
	out := make([]*market.Market, len(listed))
	for i, m := range listed {
		out[i] = m.Clone()
	}
	return out
}

// LiquidityCredit returns the provider's liquidity-credit balance, the
// bound on RemoveLiquidity.
func (e *Engine) LiquidityCredit(poolID string, provider common.Address) decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Credit(poolID, provider)
}
