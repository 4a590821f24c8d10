package account

import (
	"encoding/json"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/Ebrahim-hamdy/unilaas-hook/pkg/hook/market"
)

// Store provides Pebble-based persistence for accounts, liquidity credits,
// and market snapshots. Thread-safe: all operations go through the Ledger's
// mutex.
type Store struct {
	db *pebble.DB
}

// NewStore opens a Pebble database at the given path.
func NewStore(dbPath string) (*Store, error) {
	opts := &pebble.Options{
		Cache:                    pebble.NewCache(128 << 20),
		MemTableSize:             64 << 20,
		MaxConcurrentCompactions: func() int { return 3 },
		L0CompactionThreshold:    2,
		L0StopWritesThreshold:    12,
		LBaseMaxBytes:            64 << 20,
		MaxOpenFiles:             1000,
		BytesPerSync:             512 << 10,
	}

	db, err := pebble.Open(dbPath, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open pebble db at %s: %w", dbPath, err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// LoadAccount loads an account from Pebble.
// Returns nil if the account doesn't exist.
func (s *Store) LoadAccount(poolID string, addr common.Address) (*Account, error) {
	data, closer, err := s.db.Get(accountKey(poolID, addr))
	if err == pebble.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	defer closer.Close()

	var acc Account
	if err := json.Unmarshal(data, &acc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account: %w", err)
	}
	return &acc, nil
}

// LoadAccounts loads all accounts of a market.
func (s *Store) LoadAccounts(poolID string) ([]*Account, error) {
	prefix := accountPrefix(poolID)
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: keyUpperBound(prefix),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create iterator: %w", err)
	}
	defer iter.Close()

	var accounts []*Account
	for iter.First(); iter.Valid(); iter.Next() {
		var acc Account
		if err := json.Unmarshal(iter.Value(), &acc); err != nil {
			continue // skip invalid entries
		}
		accounts = append(accounts, &acc)
	}
	return accounts, nil
}

// LoadCredit loads a liquidity-credit balance.
// Returns zero if no balance is recorded.
func (s *Store) LoadCredit(poolID string, addr common.Address) (decimal.Decimal, error) {
	data, closer, err := s.db.Get(creditKey(poolID, addr))
	if err == pebble.ErrNotFound {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get credit: %w", err)
	}
	defer closer.Close()

	var bal decimal.Decimal
	if err := json.Unmarshal(data, &bal); err != nil {
		return decimal.Zero, fmt.Errorf("failed to unmarshal credit: %w", err)
	}
	return bal, nil
}

// SaveMarket persists a market snapshot.
func (s *Store) SaveMarket(m *market.Market) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal market: %w", err)
	}
	if err := s.db.Set(marketKey(m.PoolID), data, pebble.Sync); err != nil {
		return fmt.Errorf("failed to save market: %w", err)
	}
	return nil
}

// LoadMarkets loads all persisted market snapshots.
func (s *Store) LoadMarkets() ([]*market.Market, error) {
	prefix := []byte(prefixMarket)
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: keyUpperBound(prefix),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create iterator: %w", err)
	}
	defer iter.Close()

	var markets []*market.Market
	for iter.First(); iter.Valid(); iter.Next() {
		var m market.Market
		if err := json.Unmarshal(iter.Value(), &m); err != nil {
			continue
		}
		markets = append(markets, &m)
	}
	return markets, nil
}

// Batch provides atomic writes for the state touched by one operation:
// every account, credit, and market mutation commits together or not at all.
type Batch struct {
	batch *pebble.Batch
}

// NewBatch creates a new batch writer.
func (s *Store) NewBatch() *Batch {
	return &Batch{batch: s.db.NewBatch()}
}

// SaveAccount adds an account save to the batch.
func (b *Batch) SaveAccount(acc *Account) error {
	data, err := json.Marshal(acc)
	if err != nil {
		return err
	}
	return b.batch.Set(accountKey(acc.PoolID, acc.Address), data, nil)
}

// SaveCredit adds a liquidity-credit save to the batch.
func (b *Batch) SaveCredit(poolID string, addr common.Address, bal decimal.Decimal) error {
	data, err := json.Marshal(bal)
	if err != nil {
		return err
	}
	return b.batch.Set(creditKey(poolID, addr), data, nil)
}

// SaveMarket adds a market snapshot to the batch.
func (b *Batch) SaveMarket(m *market.Market) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return b.batch.Set(marketKey(m.PoolID), data, nil)
}

// Commit writes the batch to Pebble atomically.
func (b *Batch) Commit() error {
	return b.batch.Commit(pebble.Sync)
}

// Close closes the batch without committing.
func (b *Batch) Close() error {
	return b.batch.Close()
}
