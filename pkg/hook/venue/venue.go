// Package venue defines the narrow interface the engine consumes from the
// external concentrated-liquidity venue. Tick math, swap execution, and
// token custody all live behind it.
package venue

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/Ebrahim-hamdy/unilaas-hook/pkg/hook/market"
)

// TokenDeltas are the per-currency amounts resulting from a liquidity
// change. Positive values are credited to the settling party's external
// balance, negative values are taken from it.
type TokenDeltas struct {
	Amount0 decimal.Decimal
	Amount1 decimal.Decimal
}

// LiquidityVenue is the engine's view of the AMM. Implementations may call
// back into the engine during settlement, so the engine only invokes these
// after its own state is fully consistent.
type LiquidityVenue interface {
	// ApplyLiquidityDelta applies a signed liquidity delta over the range
	// and settles the resulting token deltas against settleFor's external
	// balance.
	ApplyLiquidityDelta(poolID string, rng market.TickRange, delta decimal.Decimal, settleFor common.Address) (TokenDeltas, error)

	// TakeFee extracts amount from one side of a swap and credits it to
	// recipient's external claimable balance. zeroForOne selects the
	// fee-bearing currency: currency0 when true, currency1 otherwise.
	TakeFee(poolID string, zeroForOne bool, recipient common.Address, amount decimal.Decimal) error

	// Donate deposits amounts into the pool for its liquidity providers.
	Donate(poolID string, amount0, amount1 decimal.Decimal) error

	// UnitLiquidityTokenAmounts returns the per-leg token amounts
	// corresponding to one unit of liquidity over the range.
	UnitLiquidityTokenAmounts(poolID string, rng market.TickRange) (amount0, amount1 decimal.Decimal, err error)
}
