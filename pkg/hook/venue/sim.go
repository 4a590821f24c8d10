package venue

import (
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/Ebrahim-hamdy/unilaas-hook/pkg/hook/market"
)

type claimKey struct {
	poolID    string
	recipient common.Address
	currency0 bool
}

// Sim is an in-memory LiquidityVenue for tests and the devnet binary. It
// tracks pool liquidity, donations, claimable keeper fees, and per-address
// token deltas, with configurable unit-liquidity token amounts per pool.
type Sim struct {
	mu        sync.Mutex
	unit0     map[string]decimal.Decimal
	unit1     map[string]decimal.Decimal
	liquidity map[string]decimal.Decimal
	donated0  map[string]decimal.Decimal
	donated1  map[string]decimal.Decimal
	claimable map[claimKey]decimal.Decimal
	deltas0   map[common.Address]decimal.Decimal
	deltas1   map[common.Address]decimal.Decimal

	// authorize models the hook guard on direct liquidity additions. When
	// set, AddLiquidityDirect consults it and refuses unauthorized senders.
	authorize func(sender common.Address) error
}

func NewSim() *Sim {
	return &Sim{
		unit0:     make(map[string]decimal.Decimal),
		unit1:     make(map[string]decimal.Decimal),
		liquidity: make(map[string]decimal.Decimal),
		donated0:  make(map[string]decimal.Decimal),
		donated1:  make(map[string]decimal.Decimal),
		claimable: make(map[claimKey]decimal.Decimal),
		deltas0:   make(map[common.Address]decimal.Decimal),
		deltas1:   make(map[common.Address]decimal.Decimal),
	}
}

// SetUnitAmounts configures the token amounts for one unit of liquidity in
// a pool. Defaults to (1, 1) when unset.
func (s *Sim) SetUnitAmounts(poolID string, amount0, amount1 decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unit0[poolID] = amount0
	s.unit1[poolID] = amount1
}

// SetAuthorizer installs the hook's liquidity-addition guard.
func (s *Sim) SetAuthorizer(f func(sender common.Address) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authorize = f
}

func (s *Sim) unitsLocked(poolID string) (decimal.Decimal, decimal.Decimal) {
	u0, ok := s.unit0[poolID]
	if !ok {
		u0 = decimal.NewFromInt(1)
	}
	u1, ok := s.unit1[poolID]
	if !ok {
		u1 = decimal.NewFromInt(1)
	}
	return u0, u1
}

func (s *Sim) ApplyLiquidityDelta(poolID string, rng market.TickRange, delta decimal.Decimal, settleFor common.Address) (TokenDeltas, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	newLiq := s.liquidity[poolID].Add(delta)
	if newLiq.IsNegative() {
		return TokenDeltas{}, fmt.Errorf("pool %s liquidity would go negative: %s", poolID, newLiq)
	}
	s.liquidity[poolID] = newLiq

	// Adding liquidity takes tokens from the settling party; removing
	// credits them back.
	u0, u1 := s.unitsLocked(poolID)
	td := TokenDeltas{
		Amount0: delta.Mul(u0).Neg(),
		Amount1: delta.Mul(u1).Neg(),
	}
	s.deltas0[settleFor] = s.deltas0[settleFor].Add(td.Amount0)
	s.deltas1[settleFor] = s.deltas1[settleFor].Add(td.Amount1)
	return td, nil
}

func (s *Sim) TakeFee(poolID string, zeroForOne bool, recipient common.Address, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("fee cannot be negative: %s", amount)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	k := claimKey{poolID: poolID, recipient: recipient, currency0: zeroForOne}
	s.claimable[k] = s.claimable[k].Add(amount)
	return nil
}

func (s *Sim) Donate(poolID string, amount0, amount1 decimal.Decimal) error {
	if amount0.IsNegative() || amount1.IsNegative() {
		return fmt.Errorf("donation cannot be negative: %s/%s", amount0, amount1)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.donated0[poolID] = s.donated0[poolID].Add(amount0)
	s.donated1[poolID] = s.donated1[poolID].Add(amount1)
	return nil
}

func (s *Sim) UnitLiquidityTokenAmounts(poolID string, rng market.TickRange) (decimal.Decimal, decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u0, u1 := s.unitsLocked(poolID)
	return u0, u1, nil
}

// AddLiquidityDirect models a caller going to the venue without routing
// through the hook. The installed authorizer decides whether that is
// allowed.
func (s *Sim) AddLiquidityDirect(poolID string, rng market.TickRange, sender common.Address, delta decimal.Decimal) error {
	s.mu.Lock()
	auth := s.authorize
	s.mu.Unlock()

	if auth != nil {
		if err := auth(sender); err != nil {
			return err
		}
	}
	_, err := s.ApplyLiquidityDelta(poolID, rng, delta, sender)
	return err
}

// Liquidity returns the pool's current liquidity.
func (s *Sim) Liquidity(poolID string) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.liquidity[poolID]
}

// Donated returns the cumulative donated amounts for a pool.
func (s *Sim) Donated(poolID string) (decimal.Decimal, decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.donated0[poolID], s.donated1[poolID]
}

// Claimable returns the fees claimable by recipient in the chosen currency.
func (s *Sim) Claimable(poolID string, recipient common.Address, currency0 bool) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.claimable[claimKey{poolID: poolID, recipient: recipient, currency0: currency0}]
}

// TokenDelta returns the cumulative settled token deltas for an address.
func (s *Sim) TokenDelta(addr common.Address) (decimal.Decimal, decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deltas0[addr], s.deltas1[addr]
}

var _ LiquidityVenue = (*Sim)(nil)
