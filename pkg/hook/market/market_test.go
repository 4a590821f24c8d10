package market

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

var keeper = common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")

func TestNewValidatesRange(t *testing.T) {
	if _, err := New("pool-1", -600, 600); err != nil {
		t.Fatalf("valid range: %v", err)
	}
	if _, err := New("pool-1", 600, -600); err == nil {
		t.Error("inverted range accepted")
	}
	if _, err := New("pool-1", 100, 100); err == nil {
		t.Error("empty range accepted")
	}
	if _, err := New("", -600, 600); err == nil {
		t.Error("empty pool id accepted")
	}
}

func TestKeeperSlot(t *testing.T) {
	m, _ := New("pool-1", -600, 600)
	if m.HasKeeper() {
		t.Error("fresh market has a keeper")
	}

	m.Bid.Keeper = keeper
	m.Bid.Rent = decimal.NewFromInt(1)
	if !m.HasKeeper() || !m.IsKeeper(keeper) {
		t.Error("keeper not recognized")
	}
	if m.IsKeeper(common.HexToAddress("0xbb")) {
		t.Error("wrong address recognized as keeper")
	}

	m.ClearBid()
	if m.HasKeeper() {
		t.Error("keeper survives ClearBid")
	}
	if !m.Bid.Rent.IsZero() {
		t.Errorf("rent = %s after ClearBid, want 0", m.Bid.Rent)
	}
}

func TestCloneIsolation(t *testing.T) {
	m, _ := New("pool-1", -600, 600)
	m.FundingRate = decimal.NewFromInt(3)

	c := m.Clone()
	c.FundingRate = decimal.NewFromInt(9)
	c.Bid.Keeper = keeper

	if !m.FundingRate.Equal(decimal.NewFromInt(3)) {
		t.Errorf("original funding rate mutated: %s", m.FundingRate)
	}
	if m.HasKeeper() {
		t.Error("original keeper mutated through clone")
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	m, _ := New("pool-1", -600, 600)
	if err := r.Register(m); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := r.Register(m); err == nil {
		t.Error("duplicate registration accepted")
	}
	if !r.Exists("pool-1") || r.Exists("pool-2") {
		t.Error("existence checks wrong")
	}
	if r.Count() != 1 {
		t.Errorf("count = %d, want 1", r.Count())
	}

	if _, err := r.Get("pool-2"); err == nil {
		t.Error("unknown pool lookup succeeded")
	}

	// Replace installs a mutated working copy.
	c := m.Clone()
	c.FundingRate = decimal.NewFromInt(5)
	r.Replace(c)
	got, err := r.Get("pool-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.FundingRate.Equal(decimal.NewFromInt(5)) {
		t.Errorf("funding rate = %s, want 5 after Replace", got.FundingRate)
	}
}
