package account

import (
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/Ebrahim-hamdy/unilaas-hook/pkg/hook/market"
)

type key struct {
	poolID string
	addr   common.Address
}

// Ledger manages the per-market account and liquidity-credit balances in a
// thread-safe manner. Uses an in-memory cache plus optional Pebble
// persistence for durability.
//
// The engine mutates working copies obtained from Snapshot and installs
// them through Commit, so a failed operation never leaves partial writes.
type Ledger struct {
	mu       sync.RWMutex
	accounts map[key]*Account
	credits  map[key]decimal.Decimal
	store    *Store // nil = memory-only (tests)
}

// NewLedger creates a ledger backed by Pebble persistence.
func NewLedger(dbPath string) (*Ledger, error) {
	store, err := NewStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}
	return &Ledger{
		accounts: make(map[key]*Account),
		credits:  make(map[key]decimal.Decimal),
		store:    store,
	}, nil
}

// NewMemoryLedger creates a ledger without persistence. Used by tests.
func NewMemoryLedger() *Ledger {
	return &Ledger{
		accounts: make(map[key]*Account),
		credits:  make(map[key]decimal.Decimal),
	}
}

// Close closes the underlying Pebble database.
func (l *Ledger) Close() error {
	if l.store == nil {
		return nil
	}
	return l.store.Close()
}

// Store exposes the persistence layer for market snapshot recovery.
func (l *Ledger) Store() *Store {
	return l.store
}

// Snapshot returns a mutable copy of the account, creating a zeroed one
// settled as of now if none exists. The creation is not installed until the
// copy comes back through Commit.
func (l *Ledger) Snapshot(poolID string, addr common.Address, now int64) *Account {
	l.mu.Lock()
	defer l.mu.Unlock()

	if acc := l.lookupLocked(poolID, addr); acc != nil {
		return acc.Clone()
	}
	return New(poolID, addr, now)
}

// Lookup returns a copy of the account, or nil if it was never created.
func (l *Ledger) Lookup(poolID string, addr common.Address) *Account {
	l.mu.Lock()
	defer l.mu.Unlock()

	if acc := l.lookupLocked(poolID, addr); acc != nil {
		return acc.Clone()
	}
	return nil
}

// lookupLocked checks the cache and falls through to Pebble. Assumes the
// lock is held.
func (l *Ledger) lookupLocked(poolID string, addr common.Address) *Account {
	k := key{poolID, addr}
	if acc, ok := l.accounts[k]; ok {
		return acc
	}
	if l.store == nil {
		return nil
	}
	acc, err := l.store.LoadAccount(poolID, addr)
	if err != nil || acc == nil {
		return nil
	}
	l.accounts[k] = acc
	return acc
}

// Credit returns the liquidity-credit balance for a provider.
func (l *Ledger) Credit(poolID string, addr common.Address) decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()

	k := key{poolID, addr}
	if bal, ok := l.credits[k]; ok {
		return bal
	}
	if l.store == nil {
		return decimal.Zero
	}
	bal, err := l.store.LoadCredit(poolID, addr)
	if err != nil {
		return decimal.Zero
	}
	l.credits[k] = bal
	return bal
}

// CreditUpdate is a staged liquidity-credit balance change.
type CreditUpdate struct {
	PoolID  string
	Address common.Address
	Balance decimal.Decimal
}

// Commit installs mutated account copies, credit balances, and market
// snapshots, persisting them in a single Pebble batch. Either everything
// commits or nothing does.
func (l *Ledger) Commit(accounts []*Account, credits []CreditUpdate, markets []*market.Market) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.store != nil {
		batch := l.store.NewBatch()
		defer batch.Close()
		for _, acc := range accounts {
			if err := batch.SaveAccount(acc); err != nil {
				return fmt.Errorf("failed to stage account %s: %w", acc.Address.Hex(), err)
			}
		}
		for _, cu := range credits {
			if err := batch.SaveCredit(cu.PoolID, cu.Address, cu.Balance); err != nil {
				return fmt.Errorf("failed to stage credit %s: %w", cu.Address.Hex(), err)
			}
		}
		for _, m := range markets {
			if err := batch.SaveMarket(m); err != nil {
				return fmt.Errorf("failed to stage market %s: %w", m.PoolID, err)
			}
		}
		if err := batch.Commit(); err != nil {
			return fmt.Errorf("failed to commit batch: %w", err)
		}
	}

	for _, acc := range accounts {
		l.accounts[key{acc.PoolID, acc.Address}] = acc
	}
	for _, cu := range credits {
		l.credits[key{cu.PoolID, cu.Address}] = cu.Balance
	}
	return nil
}

// ListAccounts returns copies of all cached accounts for a market.
func (l *Ledger) ListAccounts(poolID string) []*Account {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var accounts []*Account
	for k, acc := range l.accounts {
		if k.poolID == poolID {
			accounts = append(accounts, acc.Clone())
		}
	}
	return accounts
}

// Count returns the number of cached accounts.
func (l *Ledger) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.accounts)
}
