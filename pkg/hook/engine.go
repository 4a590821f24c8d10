// Package hook implements the auction, accrual, and liquidation engine
// layered over an external concentrated-liquidity venue: a continuous rent
// auction selecting one keeper per market, a per-trader collateral and
// option-position ledger, lazy funding/rent accrual, and forced liquidation
// of undercollateralized accounts.
package hook

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Ebrahim-hamdy/unilaas-hook/params"
	"github.com/Ebrahim-hamdy/unilaas-hook/pkg/hook/account"
	"github.com/Ebrahim-hamdy/unilaas-hook/pkg/hook/journal"
	"github.com/Ebrahim-hamdy/unilaas-hook/pkg/hook/market"
	"github.com/Ebrahim-hamdy/unilaas-hook/pkg/hook/venue"
	"github.com/Ebrahim-hamdy/unilaas-hook/pkg/util"
)

// Engine owns the market registry and account ledger and exposes the public
// operation surface. Every operation runs to completion under a single
// mutex, mirroring the globally-ordered host ledger the design assumes:
// all local state is committed before any venue delegation, so re-entrant
// venue callbacks always observe consistent state.
type Engine struct {
	mu      sync.Mutex
	cfg     params.Engine
	markets *market.Registry
	ledger  *account.Ledger
	venue   venue.LiquidityVenue
	clock   util.Clock
	log     *zap.Logger
	journal journal.Journal
	sink    EventSink

	// venueCalls counts venue delegations in flight; the liquidity guard
	// admits venue-side additions only while one is active.
	venueCalls atomic.Int32
}

// Option configures an Engine.
type Option func(*Engine)

func WithClock(c util.Clock) Option        { return func(e *Engine) { e.clock = c } }
func WithJournal(j journal.Journal) Option { return func(e *Engine) { e.journal = j } }
func WithEventSink(s EventSink) Option     { return func(e *Engine) { e.sink = s } }
func WithLogger(l *zap.Logger) Option      { return func(e *Engine) { e.log = l } }

// New creates an engine over the given ledger and venue. Markets previously
// snapshotted to the ledger's store are restored into the registry.
func New(cfg params.Engine, ledger *account.Ledger, v venue.LiquidityVenue, opts ...Option) (*Engine, error) {
	e := &Engine{
		cfg:     cfg,
		markets: market.NewRegistry(),
		ledger:  ledger,
		venue:   v,
		clock:   util.RealClock{},
		log:     zap.NewNop(),
		journal: journal.NewNop(),
		sink:    nopSink{},
	}
	for _, opt := range opts {
		opt(e)
	}

	if store := ledger.Store(); store != nil {
		saved, err := store.LoadMarkets()
		if err != nil {
			return nil, fmt.Errorf("failed to restore markets: %w", err)
		}
		for _, m := range saved {
			if err := e.markets.Register(m); err != nil {
				return nil, err
			}
		}
	}
	return e, nil
}

// SetEventSink installs the live event sink. Intended for wiring done after
// construction, before the engine serves traffic.
func (e *Engine) SetEventSink(s EventSink) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sink = s
}

// CreateMarket registers a market at pool initialization with an empty bid
// and zero funding rate. The tick range is fixed for the market's lifetime.
func (e *Engine) CreateMarket(poolID string, tickLower, tickUpper int32) (*market.Market, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	m, err := market.New(poolID, tickLower, tickUpper)
	if err != nil {
		return nil, err
	}
	if err := e.markets.Register(m); err != nil {
		return nil, err
	}
	if store := e.ledger.Store(); store != nil {
		if err := store.SaveMarket(m); err != nil {
			return nil, err
		}
	}
	e.emit(Event{Kind: EventMarketCreated, PoolID: poolID, At: e.clock.Now().Unix()})
	return m.Clone(), nil
}

// AuthorizeVenueLiquidity is the guard the venue consults before accepting
// a direct liquidity addition. Only additions initiated by the engine
// itself pass; everything else must route through AddLiquidity so the
// credit ledger stays consistent.
func (e *Engine) AuthorizeVenueLiquidity(sender common.Address) error {
	if e.venueCalls.Load() > 0 {
		return nil
	}
	return ErrAddLiquidityThroughHook
}

// ---- per-operation working state ----

// opTx stages one operation's mutations on working copies. Nothing is
// visible to other operations (or to the venue) until commit.
type opTx struct {
	now       int64
	m         *market.Market
	accounts  map[common.Address]*account.Account
	credits   map[common.Address]decimal.Decimal
	donations []decimal.Decimal
	events    []Event
}

func (e *Engine) begin(poolID string) (*opTx, error) {
	m, err := e.markets.Get(poolID)
	if err != nil {
		return nil, err
	}
	return &opTx{
		now:      e.clock.Now().Unix(),
		m:        m.Clone(),
		accounts: make(map[common.Address]*account.Account),
		credits:  make(map[common.Address]decimal.Decimal),
	}, nil
}

// account returns the working copy for addr, creating a zeroed account
// settled as of now if none exists yet.
func (tx *opTx) account(e *Engine, addr common.Address) *account.Account {
	if acc, ok := tx.accounts[addr]; ok {
		return acc
	}
	acc := e.ledger.Snapshot(tx.m.PoolID, addr, tx.now)
	tx.accounts[addr] = acc
	return acc
}

func (tx *opTx) credit(e *Engine, addr common.Address) decimal.Decimal {
	if bal, ok := tx.credits[addr]; ok {
		return bal
	}
	bal := e.ledger.Credit(tx.m.PoolID, addr)
	tx.credits[addr] = bal
	return bal
}

func (tx *opTx) setCredit(addr common.Address, bal decimal.Decimal) {
	tx.credits[addr] = bal
}

func (tx *opTx) event(ev Event) {
	tx.events = append(tx.events, ev)
}

// commit installs the working copies into the ledger and registry in one
// batch, then emits the staged events and forwards staged rent donations to
// the venue. Errors before this point leave no trace of the operation.
func (e *Engine) commit(tx *opTx) error {
	accounts := make([]*account.Account, 0, len(tx.accounts))
	for _, acc := range tx.accounts {
		accounts = append(accounts, acc)
	}
	credits := make([]account.CreditUpdate, 0, len(tx.credits))
	for addr, bal := range tx.credits {
		credits = append(credits, account.CreditUpdate{PoolID: tx.m.PoolID, Address: addr, Balance: bal})
	}

	if err := e.ledger.Commit(accounts, credits, []*market.Market{tx.m}); err != nil {
		return err
	}
	if err := e.markets.Replace(tx.m); err != nil {
		return err
	}

	for _, ev := range tx.events {
		e.emit(ev)
	}
	for _, amount := range tx.donations {
		if err := e.donate(tx.m.PoolID, amount); err != nil {
			e.log.Error("rent donation failed",
				zap.String("pool", tx.m.PoolID),
				zap.String("amount", amount.String()),
				zap.Error(err))
		}
	}
	return nil
}

// donate forwards a rent payment into the pool's liquidity. Collateral is
// denominated in currency0.
func (e *Engine) donate(poolID string, amount decimal.Decimal) error {
	e.venueCalls.Add(1)
	defer e.venueCalls.Add(-1)
	return e.venue.Donate(poolID, amount, decimal.Zero)
}

// applyDelta delegates a liquidity change to the venue with the guard open.
func (e *Engine) applyDelta(m *market.Market, delta decimal.Decimal, settleFor common.Address) (venue.TokenDeltas, error) {
	e.venueCalls.Add(1)
	defer e.venueCalls.Add(-1)
	return e.venue.ApplyLiquidityDelta(m.PoolID, m.Range, delta, settleFor)
}

func (e *Engine) emit(ev Event) {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	e.journal.Append(ev.String())
	e.sink.Publish(ev)
	e.log.Info(string(ev.Kind),
		zap.String("id", ev.ID),
		zap.String("pool", ev.PoolID),
		zap.Int64("at", ev.At))
}

// ---- collateral operations ----

// DepositCollateral adds amount to who's collateral, settling pending fees
// first. The account is created lazily on first deposit.
func (e *Engine) DepositCollateral(poolID string, who common.Address, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("deposit amount must be positive: %s", amount)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	tx, err := e.begin(poolID)
	if err != nil {
		return err
	}
	acct := tx.account(e, who)
	e.settle(tx, acct)
	acct.Credit(amount)
	return e.commit(tx)
}

// WithdrawCollateral removes amount from who's collateral. Fails with
// ErrInsufficientCollateral if amount exceeds the post-settlement balance.
func (e *Engine) WithdrawCollateral(poolID string, who common.Address, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("withdraw amount must be positive: %s", amount)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	tx, err := e.begin(poolID)
	if err != nil {
		return err
	}
	acct := tx.account(e, who)
	e.settle(tx, acct)
	if amount.GreaterThan(acct.Collateral) {
		return ErrInsufficientCollateral
	}
	acct.Collateral = acct.Collateral.Sub(amount)
	return e.commit(tx)
}

// ---- liquidity operations ----

// AddLiquidity routes a liquidity contribution through the engine: the
// provider's liquidity credit is recorded, then the delta is applied at the
// venue. Liquidity credit is a separate ledger from collateral.
func (e *Engine) AddLiquidity(poolID string, provider common.Address, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("liquidity amount must be positive: %s", amount)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	tx, err := e.begin(poolID)
	if err != nil {
		return err
	}
	tx.setCredit(provider, tx.credit(e, provider).Add(amount))
	if err := e.commit(tx); err != nil {
		return err
	}
	_, err = e.applyDelta(tx.m, amount, provider)
	return err
}

// RemoveLiquidity withdraws liquidity bounded by the provider's credit
// balance, not by collateral.
func (e *Engine) RemoveLiquidity(poolID string, provider common.Address, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("liquidity amount must be positive: %s", amount)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	tx, err := e.begin(poolID)
	if err != nil {
		return err
	}
	bal := tx.credit(e, provider)
	if amount.GreaterThan(bal) {
		return ErrInsufficientLiquidity
	}
	tx.setCredit(provider, bal.Sub(amount))
	if err := e.commit(tx); err != nil {
		return err
	}
	_, err = e.applyDelta(tx.m, amount.Neg(), provider)
	return err
}

// ---- funding rate ----

// UpdateFundingRate sets the market's funding rate. Only the current keeper
// is authorized; its fees are settled first so the old rate applies to the
// elapsed interval.
func (e *Engine) UpdateFundingRate(poolID string, caller common.Address, rate decimal.Decimal) error {
	if rate.IsNegative() {
		return fmt.Errorf("funding rate cannot be negative: %s", rate)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	tx, err := e.begin(poolID)
	if err != nil {
		return err
	}
	acct := tx.account(e, caller)
	e.settle(tx, acct)
	if !tx.m.IsKeeper(caller) {
		return ErrOnlyKeeper
	}
	tx.m.FundingRate = rate
	return e.commit(tx)
}
