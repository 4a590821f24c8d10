package api

// API request and response types for REST endpoints and WebSocket messages.
// All amounts are decimal strings.

// ==============================
// REST Response Types
// ==============================

// MarketInfo represents one pool-market's current state
type MarketInfo struct {
	PoolID      string `json:"poolId"`
	TickLower   int32  `json:"tickLower"`
	TickUpper   int32  `json:"tickUpper"`
	FundingRate string `json:"fundingRate"`
	Keeper      string `json:"keeper,omitempty"` // empty when the slot is vacant
	Rent        string `json:"rent"`
}

// AccountInfo represents a trader's ledger state in one market
type AccountInfo struct {
	PoolID              string `json:"poolId"`
	Address             string `json:"address"`
	Collateral          string `json:"collateral"`
	EffectiveCollateral string `json:"effectiveCollateral"` // after pending fees
	PendingFunding      string `json:"pendingFunding"`
	PendingRent         string `json:"pendingRent"`
	Leg0                string `json:"leg0"`
	Leg1                string `json:"leg1"`
	LastSettledAt       int64  `json:"lastSettledAt"` // unix seconds
	IsKeeper            bool   `json:"isKeeper"`
}

// PendingFeesInfo is the lazy-accrual preview for one account
type PendingFeesInfo struct {
	PoolID  string `json:"poolId"`
	Address string `json:"address"`
	Funding string `json:"funding"`
	Rent    string `json:"rent"`
}

// CreditInfo is a provider's liquidity credit in one pool
type CreditInfo struct {
	PoolID  string `json:"poolId"`
	Address string `json:"address"`
	Credit  string `json:"credit"`
}

// SwapResult reports the keeper fee taken on a swap
type SwapResult struct {
	PoolID string `json:"poolId"`
	Fee    string `json:"fee"`
}

// StatusResponse is the generic success envelope for mutations
type StatusResponse struct {
	Status string `json:"status"`
	PoolID string `json:"poolId,omitempty"`
}

// ErrorResponse is returned with a non-2xx status
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ==============================
// REST Request Types
// ==============================

// CreateMarketRequest registers a new pool-market
type CreateMarketRequest struct {
	PoolID    string `json:"poolId"`
	TickLower int32  `json:"tickLower"`
	TickUpper int32  `json:"tickUpper"`
}

// BidRequest places a keeper rent bid
type BidRequest struct {
	PoolID  string `json:"poolId"`
	Address string `json:"address"`
	Rent    string `json:"rent"` // per second
}

// AmountRequest covers collateral and liquidity mutations
type AmountRequest struct {
	PoolID  string `json:"poolId"`
	Address string `json:"address"`
	Amount  string `json:"amount"`
}

// FundingRateRequest sets a market's funding rate (keeper only)
type FundingRateRequest struct {
	PoolID  string `json:"poolId"`
	Address string `json:"address"`
	Rate    string `json:"rate"` // per second per unit of position
}

// PositionRequest opens or closes position legs
type PositionRequest struct {
	PoolID  string `json:"poolId"`
	Address string `json:"address"`
	Leg0    string `json:"leg0"`
	Leg1    string `json:"leg1"`
}

// LiquidateRequest force-closes an unhealthy trader
type LiquidateRequest struct {
	PoolID     string `json:"poolId"`
	Liquidator string `json:"liquidator"`
	Trader     string `json:"trader"`
}

// SwapRequest drives the simulated venue's swap callback
type SwapRequest struct {
	PoolID     string `json:"poolId"`
	Notional   string `json:"notional"`
	ZeroForOne bool   `json:"zeroForOne"`
}

// ==============================
// WebSocket Types
// ==============================

// WSSubscribeRequest is the client -> server subscription frame.
// Channels are "events" for everything or "events:<poolId>" per market.
type WSSubscribeRequest struct {
	Op       string   `json:"op"` // "subscribe" or "unsubscribe"
	Channels []string `json:"channels"`
}
