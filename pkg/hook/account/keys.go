package account

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Pebble key schema.
// Design principles:
// 1. Prefix-based for range scans (all accounts of a market)
// 2. Pool ID before address so per-market queries are contiguous
// 3. Separate prefix for the liquidity-credit ledger, which is a distinct
//    balance from account collateral

const (
	prefixAccount = "acc:"  // account state
	prefixCredit  = "liq:"  // liquidity-credit balance
	prefixMarket  = "mkt:"  // market snapshot
)

// accountKey returns the key for an account.
// Format: "acc:{poolID}:{address}"
func accountKey(poolID string, addr common.Address) []byte {
	return []byte(fmt.Sprintf("%s%s:%s", prefixAccount, poolID, addr.Hex()))
}

// accountPrefix returns the prefix for all accounts of a market.
func accountPrefix(poolID string) []byte {
	return []byte(fmt.Sprintf("%s%s:", prefixAccount, poolID))
}

// creditKey returns the key for a liquidity-credit balance.
// Format: "liq:{poolID}:{address}"
func creditKey(poolID string, addr common.Address) []byte {
	return []byte(fmt.Sprintf("%s%s:%s", prefixCredit, poolID, addr.Hex()))
}

// marketKey returns the key for a market snapshot.
// Format: "mkt:{poolID}"
func marketKey(poolID string) []byte {
	return []byte(fmt.Sprintf("%s%s", prefixMarket, poolID))
}

// keyUpperBound returns the exclusive upper bound for a prefix scan.
func keyUpperBound(prefix []byte) []byte {
	bound := make([]byte, len(prefix))
	copy(bound, prefix)
	bound[len(bound)-1]++
	return bound
}
