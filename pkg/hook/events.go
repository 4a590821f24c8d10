package hook

import "encoding/json"

type EventKind string

const (
	EventMarketCreated EventKind = "market_created"
	EventBidPlaced     EventKind = "bid_placed"
	EventKeeperEvicted EventKind = "keeper_evicted"
	EventRentDonated   EventKind = "rent_donated"
	EventLiquidation   EventKind = "liquidation"
)

// Event is the envelope appended to the journal and broadcast to
// subscribers. Only the fields relevant to the kind are set.
type Event struct {
	ID     string    `json:"id"`
	Kind   EventKind `json:"kind"`
	PoolID string    `json:"poolId"`
	At     int64     `json:"at"`

	Keeper     string `json:"keeper,omitempty"`
	Liquidator string `json:"liquidator,omitempty"`
	Trader     string `json:"trader,omitempty"`
	Rent       string `json:"rent,omitempty"`
	Fee        string `json:"fee,omitempty"`
	Amount     string `json:"amount,omitempty"`
}

func (ev Event) String() string {
	data, err := json.Marshal(ev)
	if err != nil {
		return string(ev.Kind)
	}
	return string(data)
}

// EventSink receives engine events for live distribution. Implementations
// must not block.
type EventSink interface {
	Publish(Event)
}

type nopSink struct{}

func (nopSink) Publish(Event) {}
