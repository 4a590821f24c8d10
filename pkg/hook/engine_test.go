package hook

import (
	"errors"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/Ebrahim-hamdy/unilaas-hook/params"
	"github.com/Ebrahim-hamdy/unilaas-hook/pkg/hook/account"
	"github.com/Ebrahim-hamdy/unilaas-hook/pkg/hook/venue"
	"github.com/Ebrahim-hamdy/unilaas-hook/pkg/util"
)

const testPool = "pool-1"

var (
	alice = common.HexToAddress("0x1111111111111111111111111111111111111111")
	bob   = common.HexToAddress("0x2222222222222222222222222222222222222222")
	carol = common.HexToAddress("0x3333333333333333333333333333333333333333")
)

func d(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	v, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return v
}

func newTestEngine(t *testing.T) (*Engine, *venue.Sim, *util.ManualClock) {
	t.Helper()

	clk := util.NewManualClock(time.Unix(1_700_000_000, 0))
	sim := venue.NewSim()
	ledger := account.NewMemoryLedger()

	e, err := New(params.Default().Engine, ledger, sim, WithClock(clk))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if _, err := e.CreateMarket(testPool, -600, 600); err != nil {
		t.Fatalf("create market: %v", err)
	}
	sim.SetAuthorizer(e.AuthorizeVenueLiquidity)
	return e, sim, clk
}

func mustDeposit(t *testing.T, e *Engine, who common.Address, amount string) {
	t.Helper()
	if err := e.DepositCollateral(testPool, who, d(t, amount)); err != nil {
		t.Fatalf("deposit %s for %s: %v", amount, who.Hex(), err)
	}
}

func TestPlaceBidEligibility(t *testing.T) {
	e, _, _ := newTestEngine(t)

	// 100 collateral covers rent × 300 only up to rent = 1/3.
	mustDeposit(t, e, alice, "100")

	err := e.PlaceBid(testPool, alice, d(t, "0.5"))
	if !errors.Is(err, ErrInsufficientCollateral) {
		t.Errorf("bid 0.5 err = %v, want ErrInsufficientCollateral", err)
	}

	if err := e.PlaceBid(testPool, alice, d(t, "0.1")); err != nil {
		t.Fatalf("bid 0.1: %v", err)
	}
	m, _ := e.Market(testPool)
	if !m.IsKeeper(alice) {
		t.Error("alice should hold the keeper slot")
	}
	if !m.Bid.Rent.Equal(d(t, "0.1")) {
		t.Errorf("rent = %s, want 0.1", m.Bid.Rent)
	}
}

func TestPlaceBidStrictImprovement(t *testing.T) {
	e, _, _ := newTestEngine(t)

	mustDeposit(t, e, alice, "100")
	mustDeposit(t, e, bob, "100")

	if err := e.PlaceBid(testPool, alice, d(t, "0.0000001")); err != nil {
		t.Fatalf("first bid: %v", err)
	}

	// A lower bid fails and the first bidder stays keeper.
	err := e.PlaceBid(testPool, bob, d(t, "0.00000001"))
	if !errors.Is(err, ErrBidTooLow) {
		t.Errorf("lower bid err = %v, want ErrBidTooLow", err)
	}
	// So does an equal bid, from anyone.
	if err := e.PlaceBid(testPool, bob, d(t, "0.0000001")); !errors.Is(err, ErrBidTooLow) {
		t.Errorf("equal bid err = %v, want ErrBidTooLow", err)
	}
	if err := e.PlaceBid(testPool, alice, d(t, "0.0000001")); !errors.Is(err, ErrBidTooLow) {
		t.Errorf("keeper equal re-bid err = %v, want ErrBidTooLow", err)
	}

	m, _ := e.Market(testPool)
	if !m.IsKeeper(alice) {
		t.Error("alice should still be keeper after failed bids")
	}

	// A strictly higher bid from bob takes the slot immediately.
	if err := e.PlaceBid(testPool, bob, d(t, "0.0000002")); err != nil {
		t.Fatalf("higher bid: %v", err)
	}
	m, _ = e.Market(testPool)
	if !m.IsKeeper(bob) {
		t.Error("bob should be keeper after outbidding")
	}
	if m.IsKeeper(alice) {
		t.Error("at most one keeper per market")
	}
}

func TestKeeperRaisesOwnRent(t *testing.T) {
	e, _, _ := newTestEngine(t)

	mustDeposit(t, e, alice, "100")
	if err := e.PlaceBid(testPool, alice, d(t, "0.1")); err != nil {
		t.Fatalf("bid: %v", err)
	}
	if err := e.PlaceBid(testPool, alice, d(t, "0.2")); err != nil {
		t.Fatalf("raise: %v", err)
	}
	m, _ := e.Market(testPool)
	if !m.Bid.Rent.Equal(d(t, "0.2")) {
		t.Errorf("rent = %s, want 0.2", m.Bid.Rent)
	}
	if !m.IsKeeper(alice) {
		t.Error("keeper should be unchanged on self-raise")
	}
}

func TestRentAccrualDonatedToPool(t *testing.T) {
	e, sim, clk := newTestEngine(t)

	mustDeposit(t, e, alice, "100")
	if err := e.PlaceBid(testPool, alice, d(t, "0.1")); err != nil {
		t.Fatalf("bid: %v", err)
	}

	clk.Advance(100 * time.Second)

	// Any operation touching the keeper settles first: 100s × 0.1 = 10 rent.
	mustDeposit(t, e, alice, "50")

	view, err := e.Account(testPool, alice)
	if err != nil {
		t.Fatalf("account view: %v", err)
	}
	want := d(t, "140") // 100 - 10 rent + 50 deposit
	if !view.Collateral.Equal(want) {
		t.Errorf("collateral = %s, want %s", view.Collateral, want)
	}

	don0, don1 := sim.Donated(testPool)
	if !don0.Equal(d(t, "10")) {
		t.Errorf("donated0 = %s, want 10", don0)
	}
	if !don1.IsZero() {
		t.Errorf("donated1 = %s, want 0", don1)
	}
}

func TestKeeperEvictedOnInsolvency(t *testing.T) {
	e, _, clk := newTestEngine(t)

	mustDeposit(t, e, alice, "30")
	if err := e.PlaceBid(testPool, alice, d(t, "0.1")); err != nil {
		t.Fatalf("bid: %v", err)
	}

	// 300s × 0.1 = 30 rent consumes the entire balance.
	clk.Advance(300 * time.Second)

	fee, err := e.OnSwap(testPool, d(t, "1"), true)
	if err != nil {
		t.Fatalf("swap: %v", err)
	}
	if !fee.IsZero() {
		t.Errorf("evicted keeper collected fee %s, want 0", fee)
	}

	m, _ := e.Market(testPool)
	if m.HasKeeper() {
		t.Error("keeper slot should be empty after insolvency eviction")
	}
	if !m.Bid.Rent.IsZero() {
		t.Errorf("rent = %s, want 0 after eviction", m.Bid.Rent)
	}

	view, _ := e.Account(testPool, alice)
	if !view.Collateral.IsZero() {
		t.Errorf("collateral = %s, want 0", view.Collateral)
	}
}

func TestSettlementSaturatesNeverNegative(t *testing.T) {
	e, sim, clk := newTestEngine(t)

	mustDeposit(t, e, alice, "5")
	// rent 0.01 needs 3 collateral, eligible.
	if err := e.PlaceBid(testPool, alice, d(t, "0.01")); err != nil {
		t.Fatalf("bid: %v", err)
	}

	// Accrued rent 10 far exceeds the 5 balance; the debit caps.
	clk.Advance(1000 * time.Second)
	mustDeposit(t, e, alice, "1")

	view, _ := e.Account(testPool, alice)
	if !view.Collateral.Equal(d(t, "1")) {
		t.Errorf("collateral = %s, want 1 (5 capped away, then 1 deposited)", view.Collateral)
	}
	don0, _ := sim.Donated(testPool)
	if !don0.Equal(d(t, "5")) {
		t.Errorf("donated = %s, want capped 5", don0)
	}
}

func TestUpdateFundingRateOnlyKeeper(t *testing.T) {
	e, _, _ := newTestEngine(t)

	mustDeposit(t, e, alice, "100")
	mustDeposit(t, e, bob, "100")
	if err := e.PlaceBid(testPool, alice, d(t, "0.1")); err != nil {
		t.Fatalf("bid: %v", err)
	}

	if err := e.UpdateFundingRate(testPool, bob, d(t, "0.0002")); !errors.Is(err, ErrOnlyKeeper) {
		t.Errorf("non-keeper update err = %v, want ErrOnlyKeeper", err)
	}
	if err := e.UpdateFundingRate(testPool, alice, d(t, "0.0002")); err != nil {
		t.Fatalf("keeper update: %v", err)
	}
	m, _ := e.Market(testPool)
	if !m.FundingRate.Equal(d(t, "0.0002")) {
		t.Errorf("funding rate = %s, want 0.0002", m.FundingRate)
	}
}

func TestFundingAccrualDebitsTrader(t *testing.T) {
	e, _, clk := newTestEngine(t)

	mustDeposit(t, e, alice, "100")
	if err := e.PlaceBid(testPool, alice, d(t, "0.001")); err != nil {
		t.Fatalf("bid: %v", err)
	}
	if err := e.UpdateFundingRate(testPool, alice, d(t, "0.01")); err != nil {
		t.Fatalf("rate: %v", err)
	}

	mustDeposit(t, e, bob, "100")
	if err := e.OpenPosition(testPool, bob, d(t, "2"), d(t, "3")); err != nil {
		t.Fatalf("open: %v", err)
	}

	clk.Advance(100 * time.Second)

	// 0.01 × 100s × (2+3) = 5 pending funding.
	funding, rent, err := e.PendingFees(testPool, bob)
	if err != nil {
		t.Fatalf("pending fees: %v", err)
	}
	if !funding.Equal(d(t, "5")) {
		t.Errorf("pending funding = %s, want 5", funding)
	}
	if !rent.IsZero() {
		t.Errorf("pending rent for non-keeper = %s, want 0", rent)
	}

	// Settlement on the next touch debits it.
	mustDeposit(t, e, bob, "0.5")
	view, _ := e.Account(testPool, bob)
	if !view.Collateral.Equal(d(t, "95.5")) {
		t.Errorf("collateral = %s, want 95.5", view.Collateral)
	}
}

func TestWithdrawCollateral(t *testing.T) {
	e, _, _ := newTestEngine(t)

	mustDeposit(t, e, alice, "10")
	if err := e.WithdrawCollateral(testPool, alice, d(t, "15")); !errors.Is(err, ErrInsufficientCollateral) {
		t.Errorf("over-withdraw err = %v, want ErrInsufficientCollateral", err)
	}
	if err := e.WithdrawCollateral(testPool, alice, d(t, "4")); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	view, _ := e.Account(testPool, alice)
	if !view.Collateral.Equal(d(t, "6")) {
		t.Errorf("collateral = %s, want 6", view.Collateral)
	}
}

func TestLiquidityCreditBoundsRemoval(t *testing.T) {
	e, sim, _ := newTestEngine(t)

	if err := e.AddLiquidity(testPool, alice, d(t, "100")); err != nil {
		t.Fatalf("add: %v", err)
	}
	if !sim.Liquidity(testPool).Equal(d(t, "100")) {
		t.Errorf("pool liquidity = %s, want 100", sim.Liquidity(testPool))
	}

	if err := e.RemoveLiquidity(testPool, alice, d(t, "150")); !errors.Is(err, ErrInsufficientLiquidity) {
		t.Errorf("over-remove err = %v, want ErrInsufficientLiquidity", err)
	}
	if err := e.RemoveLiquidity(testPool, alice, d(t, "60")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if !e.LiquidityCredit(testPool, alice).Equal(d(t, "40")) {
		t.Errorf("credit = %s, want 40", e.LiquidityCredit(testPool, alice))
	}
	if !sim.Liquidity(testPool).Equal(d(t, "40")) {
		t.Errorf("pool liquidity = %s, want 40", sim.Liquidity(testPool))
	}
}

func TestDirectVenueAdditionRejected(t *testing.T) {
	e, sim, _ := newTestEngine(t)

	m, _ := e.Market(testPool)
	err := sim.AddLiquidityDirect(testPool, m.Range, alice, d(t, "100"))
	if !errors.Is(err, ErrAddLiquidityThroughHook) {
		t.Errorf("direct add err = %v, want ErrAddLiquidityThroughHook", err)
	}
	if !sim.Liquidity(testPool).IsZero() {
		t.Errorf("pool liquidity = %s, want 0 after rejected add", sim.Liquidity(testPool))
	}

	// Routed through the engine it passes the same guard.
	if err := e.AddLiquidity(testPool, alice, d(t, "100")); err != nil {
		t.Fatalf("hook add: %v", err)
	}
}

func TestOpenCloseRoundTrip(t *testing.T) {
	e, sim, _ := newTestEngine(t)

	mustDeposit(t, e, bob, "1000")
	if err := e.OpenPosition(testPool, bob, d(t, "0.0003"), d(t, "0.0005")); err != nil {
		t.Fatalf("open: %v", err)
	}

	view, _ := e.Account(testPool, bob)
	if !view.Position.Leg0.Equal(d(t, "0.0003")) || !view.Position.Leg1.Equal(d(t, "0.0005")) {
		t.Fatalf("position = %s/%s, want 0.0003/0.0005", view.Position.Leg0, view.Position.Leg1)
	}

	if err := e.ClosePosition(testPool, bob, d(t, "0.0003"), d(t, "0.0005")); err != nil {
		t.Fatalf("close: %v", err)
	}
	view, _ = e.Account(testPool, bob)
	if !view.Position.Leg0.IsZero() || !view.Position.Leg1.IsZero() {
		t.Errorf("position = %s/%s, want 0/0 after round trip", view.Position.Leg0, view.Position.Leg1)
	}
	if !sim.Liquidity(testPool).IsZero() {
		t.Errorf("pool liquidity = %s, want 0 after round trip", sim.Liquidity(testPool))
	}
}

func TestOverCloseClamps(t *testing.T) {
	e, _, _ := newTestEngine(t)

	mustDeposit(t, e, bob, "100")
	if err := e.OpenPosition(testPool, bob, d(t, "1"), d(t, "2")); err != nil {
		t.Fatalf("open: %v", err)
	}
	// Closing more than is open clamps to the open amount.
	if err := e.ClosePosition(testPool, bob, d(t, "5"), d(t, "5")); err != nil {
		t.Fatalf("over-close: %v", err)
	}
	view, _ := e.Account(testPool, bob)
	if !view.Position.Leg0.IsZero() || !view.Position.Leg1.IsZero() {
		t.Errorf("position = %s/%s, want 0/0", view.Position.Leg0, view.Position.Leg1)
	}
}

func TestCloseClearsKeeperSlot(t *testing.T) {
	e, _, _ := newTestEngine(t)

	mustDeposit(t, e, alice, "100")
	if err := e.OpenPosition(testPool, alice, d(t, "1"), d(t, "1")); err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := e.PlaceBid(testPool, alice, d(t, "0.1")); err != nil {
		t.Fatalf("bid: %v", err)
	}

	if err := e.ClosePosition(testPool, alice, d(t, "1"), d(t, "1")); err != nil {
		t.Fatalf("close: %v", err)
	}
	m, _ := e.Market(testPool)
	if m.HasKeeper() {
		t.Error("closing the keeper's position should clear the keeper slot")
	}
}

func TestSwapFeeRoutedToKeeper(t *testing.T) {
	e, sim, _ := newTestEngine(t)

	mustDeposit(t, e, alice, "100")
	if err := e.PlaceBid(testPool, alice, d(t, "0.0000001")); err != nil {
		t.Fatalf("bid: %v", err)
	}

	// 0.1 notional × 3000/1e6 = 0.0003 on the fee-bearing side.
	fee, err := e.OnSwap(testPool, d(t, "0.1"), true)
	if err != nil {
		t.Fatalf("swap: %v", err)
	}
	if !fee.Equal(d(t, "0.0003")) {
		t.Errorf("fee = %s, want 0.0003", fee)
	}
	if got := sim.Claimable(testPool, alice, true); !got.Equal(d(t, "0.0003")) {
		t.Errorf("claimable = %s, want 0.0003", got)
	}
	if got := sim.Claimable(testPool, alice, false); !got.IsZero() {
		t.Errorf("claimable other side = %s, want 0", got)
	}
}

func TestSwapWithoutKeeperPaysNothing(t *testing.T) {
	e, _, _ := newTestEngine(t)

	fee, err := e.OnSwap(testPool, d(t, "1000"), false)
	if err != nil {
		t.Fatalf("swap: %v", err)
	}
	if !fee.IsZero() {
		t.Errorf("fee = %s, want 0 with no keeper", fee)
	}
}

func TestLiquidateRequiresAccount(t *testing.T) {
	e, _, _ := newTestEngine(t)

	if err := e.Liquidate(testPool, alice, bob); !errors.Is(err, ErrPositionNotFound) {
		t.Errorf("liquidate unknown err = %v, want ErrPositionNotFound", err)
	}
}

func TestLiquidationGating(t *testing.T) {
	e, _, _ := newTestEngine(t)

	mustDeposit(t, e, alice, "100")
	if err := e.PlaceBid(testPool, alice, d(t, "0.001")); err != nil {
		t.Fatalf("bid: %v", err)
	}
	// Exposure per unit time: 1 × 1 = 1; threshold = 300.
	if err := e.UpdateFundingRate(testPool, alice, d(t, "1")); err != nil {
		t.Fatalf("rate: %v", err)
	}

	// bob: 400 collateral vs threshold 300 → solvent, not liquidatable.
	mustDeposit(t, e, bob, "400")
	if err := e.OpenPosition(testPool, bob, d(t, "1"), d(t, "0")); err != nil {
		t.Fatalf("open bob: %v", err)
	}
	if err := e.Liquidate(testPool, carol, bob); !errors.Is(err, ErrPositionNotLiquidatable) {
		t.Errorf("solvent liquidation err = %v, want ErrPositionNotLiquidatable", err)
	}

	// carol: 200 collateral vs threshold 300 → liquidatable.
	mustDeposit(t, e, carol, "200")
	if err := e.OpenPosition(testPool, carol, d(t, "1"), d(t, "0")); err != nil {
		t.Fatalf("open carol: %v", err)
	}
	if err := e.Liquidate(testPool, bob, carol); err != nil {
		t.Fatalf("liquidate carol: %v", err)
	}
	view, _ := e.Account(testPool, carol)
	if view.Position.IsOpen() {
		t.Error("position should be force-closed by liquidation")
	}
}

func TestLiquidationFeeSplitConservation(t *testing.T) {
	e, _, _ := newTestEngine(t)

	mustDeposit(t, e, alice, "10000")
	if err := e.PlaceBid(testPool, alice, d(t, "0.001")); err != nil {
		t.Fatalf("bid: %v", err)
	}
	if err := e.UpdateFundingRate(testPool, alice, d(t, "5000")); err != nil {
		t.Fatalf("rate: %v", err)
	}

	// 1000 collateral vs threshold 0.0008 × 5000 × 300 = 1200 → liquidatable
	// with collateral intact (no time elapses, so no funding is debited).
	mustDeposit(t, e, bob, "1000")
	if err := e.OpenPosition(testPool, bob, d(t, "0.0003"), d(t, "0.0005")); err != nil {
		t.Fatalf("open: %v", err)
	}

	before, _ := e.Account(testPool, carol)
	if err := e.Liquidate(testPool, carol, bob); err != nil {
		t.Fatalf("liquidate: %v", err)
	}

	trader, _ := e.Account(testPool, bob)
	liquidator, _ := e.Account(testPool, carol)

	// 5% of 1000 moves, nothing is created or destroyed.
	if !trader.Collateral.Equal(d(t, "950")) {
		t.Errorf("trader collateral = %s, want 950", trader.Collateral)
	}
	gained := liquidator.Collateral.Sub(before.Collateral)
	if !gained.Equal(d(t, "50")) {
		t.Errorf("liquidator gained %s, want 50", gained)
	}
	if trader.Position.IsOpen() {
		t.Error("trader position should be closed")
	}
}

func TestLiquidatingKeeperClearsSlot(t *testing.T) {
	e, _, _ := newTestEngine(t)

	// alice is keeper with an open position and a rent obligation large
	// enough to make her unhealthy: exposure = rent + size × rate.
	mustDeposit(t, e, alice, "200")
	if err := e.OpenPosition(testPool, alice, d(t, "1"), d(t, "0")); err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := e.PlaceBid(testPool, alice, d(t, "0.5")); err != nil {
		t.Fatalf("bid: %v", err)
	}
	// threshold = (0.5 + 1 × 1) × 300 = 450 > 200 collateral.
	if err := e.UpdateFundingRate(testPool, alice, d(t, "1")); err != nil {
		t.Fatalf("rate: %v", err)
	}

	if err := e.Liquidate(testPool, bob, alice); err != nil {
		t.Fatalf("liquidate keeper: %v", err)
	}
	m, _ := e.Market(testPool)
	if m.HasKeeper() {
		t.Error("liquidating the keeper should clear the keeper slot")
	}
}

func TestFailedOperationLeavesNoTrace(t *testing.T) {
	e, _, clk := newTestEngine(t)

	mustDeposit(t, e, alice, "100")
	if err := e.PlaceBid(testPool, alice, d(t, "0.1")); err != nil {
		t.Fatalf("bid: %v", err)
	}
	mustDeposit(t, e, bob, "100")

	clk.Advance(50 * time.Second)

	// bob's losing bid settles his fees on a working copy, but the failed
	// operation must discard everything, including the settlement.
	beforeView, _ := e.Account(testPool, bob)
	if err := e.PlaceBid(testPool, bob, d(t, "0.05")); !errors.Is(err, ErrBidTooLow) {
		t.Fatalf("bid err = %v, want ErrBidTooLow", err)
	}
	afterView, _ := e.Account(testPool, bob)

	if afterView.LastSettledAt != beforeView.LastSettledAt {
		t.Errorf("lastSettledAt moved %d → %d on a failed operation",
			beforeView.LastSettledAt, afterView.LastSettledAt)
	}

	m, _ := e.Market(testPool)
	if !m.IsKeeper(alice) || !m.Bid.Rent.Equal(d(t, "0.1")) {
		t.Errorf("market state changed on failed bid: keeper=%s rent=%s",
			m.Bid.Keeper.Hex(), m.Bid.Rent)
	}
}

func TestEffectiveCollateralView(t *testing.T) {
	e, _, clk := newTestEngine(t)

	mustDeposit(t, e, alice, "30")
	if err := e.PlaceBid(testPool, alice, d(t, "0.1")); err != nil {
		t.Fatalf("bid: %v", err)
	}

	clk.Advance(100 * time.Second)

	view, _ := e.Account(testPool, alice)
	if !view.Collateral.Equal(d(t, "30")) {
		t.Errorf("raw collateral = %s, want 30", view.Collateral)
	}
	if !view.PendingRent.Equal(d(t, "10")) {
		t.Errorf("pending rent = %s, want 10", view.PendingRent)
	}
	if !view.EffectiveCollateral.Equal(d(t, "20")) {
		t.Errorf("effective collateral = %s, want 20", view.EffectiveCollateral)
	}

	// Far past the runway the effective balance saturates at zero.
	clk.Advance(10000 * time.Second)
	view, _ = e.Account(testPool, alice)
	if !view.EffectiveCollateral.IsZero() {
		t.Errorf("effective collateral = %s, want 0 (saturated)", view.EffectiveCollateral)
	}
}

func TestOutgoingKeeperSettledOnHandover(t *testing.T) {
	e, sim, clk := newTestEngine(t)

	mustDeposit(t, e, alice, "100")
	mustDeposit(t, e, bob, "100")
	if err := e.PlaceBid(testPool, alice, d(t, "0.1")); err != nil {
		t.Fatalf("bid: %v", err)
	}

	clk.Advance(200 * time.Second)

	// bob outbids; alice owes 200s × 0.1 = 20 under the old regime, and it
	// must be captured before handover.
	if err := e.PlaceBid(testPool, bob, d(t, "0.2")); err != nil {
		t.Fatalf("outbid: %v", err)
	}

	aliceView, _ := e.Account(testPool, alice)
	if !aliceView.Collateral.Equal(d(t, "80")) {
		t.Errorf("outgoing keeper collateral = %s, want 80", aliceView.Collateral)
	}
	don0, _ := sim.Donated(testPool)
	if !don0.Equal(d(t, "20")) {
		t.Errorf("donated = %s, want 20", don0)
	}

	// bob starts accruing at his own rent from the handover instant.
	clk.Advance(100 * time.Second)
	_, rent, _ := e.PendingFees(testPool, bob)
	if !rent.Equal(d(t, "20")) {
		t.Errorf("new keeper pending rent = %s, want 20", rent)
	}
}
