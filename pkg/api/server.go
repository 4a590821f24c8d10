package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Ebrahim-hamdy/unilaas-hook/pkg/hook"
	"github.com/Ebrahim-hamdy/unilaas-hook/pkg/hook/market"
)

// Server exposes the hook engine over REST and WebSocket
type Server struct {
	engine *hook.Engine
	router *mux.Router
	hub    *Hub
	log    *zap.SugaredLogger
}

// NewServer creates a new API server. The returned server's Hub can be
// installed on the engine as its event sink before the engine starts
// emitting.
func NewServer(engine *hook.Engine, log *zap.SugaredLogger) *Server {
	s := &Server{
		engine: engine,
		router: mux.NewRouter(),
		hub:    NewHub(log),
		log:    log,
	}

	s.setupRoutes()
	return s
}

// Hub returns the WebSocket hub, which implements hook.EventSink.
func (s *Server) Hub() *Hub {
	return s.hub
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()

	// Market endpoints
	api.HandleFunc("/markets", s.handleGetMarkets).Methods("GET")
	api.HandleFunc("/markets", s.handleCreateMarket).Methods("POST")
	api.HandleFunc("/markets/{pool}", s.handleGetMarket).Methods("GET")

	// Account endpoints
	api.HandleFunc("/markets/{pool}/accounts/{address}", s.handleGetAccount).Methods("GET")
	api.HandleFunc("/markets/{pool}/accounts/{address}/pending-fees", s.handleGetPendingFees).Methods("GET")
	api.HandleFunc("/markets/{pool}/accounts/{address}/credit", s.handleGetCredit).Methods("GET")

	// Keeper auction
	api.HandleFunc("/bids", s.handlePlaceBid).Methods("POST")
	api.HandleFunc("/funding-rate", s.handleUpdateFundingRate).Methods("POST")

	// Collateral
	api.HandleFunc("/collateral/deposit", s.handleDeposit).Methods("POST")
	api.HandleFunc("/collateral/withdraw", s.handleWithdraw).Methods("POST")

	// Passive liquidity
	api.HandleFunc("/liquidity/add", s.handleAddLiquidity).Methods("POST")
	api.HandleFunc("/liquidity/remove", s.handleRemoveLiquidity).Methods("POST")

	// Positions and liquidation
	api.HandleFunc("/positions/open", s.handleOpenPosition).Methods("POST")
	api.HandleFunc("/positions/close", s.handleClosePosition).Methods("POST")
	api.HandleFunc("/liquidations", s.handleLiquidate).Methods("POST")

	// Swap driver for the simulated venue
	api.HandleFunc("/swaps", s.handleSwap).Methods("POST")

	// WebSocket endpoint
	s.router.HandleFunc("/ws", s.handleWebSocket)

	// Health check
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// Start starts the API server
func (s *Server) Start(addr string) error {
	go s.hub.Run()

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:3001"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	handler := c.Handler(s.router)

	s.log.Infow("api server starting", "addr", addr)
	return http.ListenAndServe(addr, handler)
}

// ==============================
// REST Handlers
// ==============================

func (s *Server) handleGetMarkets(w http.ResponseWriter, r *http.Request) {
	markets := s.engine.Markets()

	response := make([]MarketInfo, len(markets))
	for i, m := range markets {
		response[i] = marketInfo(m)
	}
	respondJSON(w, response)
}

func (s *Server) handleGetMarket(w http.ResponseWriter, r *http.Request) {
	m, err := s.engine.Market(mux.Vars(r)["pool"])
	if err != nil {
		respondError(w, http.StatusNotFound, "market not found", err.Error())
		return
	}
	respondJSON(w, marketInfo(m))
}

func (s *Server) handleCreateMarket(w http.ResponseWriter, r *http.Request) {
	var req CreateMarketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	m, err := s.engine.CreateMarket(req.PoolID, req.TickLower, req.TickUpper)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, marketInfo(m))
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	addr, ok := parseAddress(w, vars["address"])
	if !ok {
		return
	}

	view, err := s.engine.Account(vars["pool"], addr)
	if err != nil {
		respondError(w, http.StatusNotFound, "market not found", err.Error())
		return
	}

	respondJSON(w, AccountInfo{
		PoolID:              view.PoolID,
		Address:             view.Address.Hex(),
		Collateral:          view.Collateral.String(),
		EffectiveCollateral: view.EffectiveCollateral.String(),
		PendingFunding:      view.PendingFunding.String(),
		PendingRent:         view.PendingRent.String(),
		Leg0:                view.Position.Leg0.String(),
		Leg1:                view.Position.Leg1.String(),
		LastSettledAt:       view.LastSettledAt,
		IsKeeper:            view.IsKeeper,
	})
}

func (s *Server) handleGetPendingFees(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	addr, ok := parseAddress(w, vars["address"])
	if !ok {
		return
	}

	funding, rent, err := s.engine.PendingFees(vars["pool"], addr)
	if err != nil {
		respondError(w, http.StatusNotFound, "market not found", err.Error())
		return
	}

	respondJSON(w, PendingFeesInfo{
		PoolID:  vars["pool"],
		Address: addr.Hex(),
		Funding: funding.String(),
		Rent:    rent.String(),
	})
}

func (s *Server) handleGetCredit(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	addr, ok := parseAddress(w, vars["address"])
	if !ok {
		return
	}

	respondJSON(w, CreditInfo{
		PoolID:  vars["pool"],
		Address: addr.Hex(),
		Credit:  s.engine.LiquidityCredit(vars["pool"], addr).String(),
	})
}

func (s *Server) handlePlaceBid(w http.ResponseWriter, r *http.Request) {
	var req BidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	addr, ok := parseAddress(w, req.Address)
	if !ok {
		return
	}
	rent, ok := parseAmount(w, "rent", req.Rent)
	if !ok {
		return
	}

	if err := s.engine.PlaceBid(req.PoolID, addr, rent); err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, StatusResponse{Status: "ok", PoolID: req.PoolID})
}

func (s *Server) handleUpdateFundingRate(w http.ResponseWriter, r *http.Request) {
	var req FundingRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	addr, ok := parseAddress(w, req.Address)
	if !ok {
		return
	}
	rate, ok := parseAmount(w, "rate", req.Rate)
	if !ok {
		return
	}

	if err := s.engine.UpdateFundingRate(req.PoolID, addr, rate); err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, StatusResponse{Status: "ok", PoolID: req.PoolID})
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	s.handleAmountOp(w, r, s.engine.DepositCollateral)
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	s.handleAmountOp(w, r, s.engine.WithdrawCollateral)
}

func (s *Server) handleAddLiquidity(w http.ResponseWriter, r *http.Request) {
	s.handleAmountOp(w, r, s.engine.AddLiquidity)
}

func (s *Server) handleRemoveLiquidity(w http.ResponseWriter, r *http.Request) {
	s.handleAmountOp(w, r, s.engine.RemoveLiquidity)
}

func (s *Server) handleAmountOp(w http.ResponseWriter, r *http.Request, op func(string, common.Address, decimal.Decimal) error) {
	var req AmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	addr, ok := parseAddress(w, req.Address)
	if !ok {
		return
	}
	amount, ok := parseAmount(w, "amount", req.Amount)
	if !ok {
		return
	}

	if err := op(req.PoolID, addr, amount); err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, StatusResponse{Status: "ok", PoolID: req.PoolID})
}

func (s *Server) handleOpenPosition(w http.ResponseWriter, r *http.Request) {
	s.handlePositionOp(w, r, s.engine.OpenPosition)
}

func (s *Server) handleClosePosition(w http.ResponseWriter, r *http.Request) {
	s.handlePositionOp(w, r, s.engine.ClosePosition)
}

func (s *Server) handlePositionOp(w http.ResponseWriter, r *http.Request, op func(string, common.Address, decimal.Decimal, decimal.Decimal) error) {
	var req PositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	addr, ok := parseAddress(w, req.Address)
	if !ok {
		return
	}
	leg0, ok := parseAmount(w, "leg0", req.Leg0)
	if !ok {
		return
	}
	leg1, ok := parseAmount(w, "leg1", req.Leg1)
	if !ok {
		return
	}

	if err := op(req.PoolID, addr, leg0, leg1); err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, StatusResponse{Status: "ok", PoolID: req.PoolID})
}

func (s *Server) handleLiquidate(w http.ResponseWriter, r *http.Request) {
	var req LiquidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	liquidator, ok := parseAddress(w, req.Liquidator)
	if !ok {
		return
	}
	trader, ok := parseAddress(w, req.Trader)
	if !ok {
		return
	}

	if err := s.engine.Liquidate(req.PoolID, liquidator, trader); err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, StatusResponse{Status: "ok", PoolID: req.PoolID})
}

func (s *Server) handleSwap(w http.ResponseWriter, r *http.Request) {
	var req SwapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	notional, ok := parseAmount(w, "notional", req.Notional)
	if !ok {
		return
	}

	fee, err := s.engine.OnSwap(req.PoolID, notional, req.ZeroForOne)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, SwapResult{PoolID: req.PoolID, Fee: fee.String()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{"status": "ok"})
}

// ==============================
// Helper Functions
// ==============================

func marketInfo(m *market.Market) MarketInfo {
	info := MarketInfo{
		PoolID:      m.PoolID,
		TickLower:   m.Range.Lower,
		TickUpper:   m.Range.Upper,
		FundingRate: m.FundingRate.String(),
		Rent:        m.Bid.Rent.String(),
	}
	if m.HasKeeper() {
		info.Keeper = m.Bid.Keeper.Hex()
	}
	return info
}

func parseAddress(w http.ResponseWriter, s string) (common.Address, bool) {
	if !common.IsHexAddress(s) {
		respondError(w, http.StatusBadRequest, "invalid address", s)
		return common.Address{}, false
	}
	return common.HexToAddress(s), true
}

func parseAmount(w http.ResponseWriter, field, s string) (decimal.Decimal, bool) {
	v, err := decimal.NewFromString(s)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid "+field, err.Error())
		return decimal.Zero, false
	}
	return v, true
}

func respondJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, error string, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   error,
		Message: message,
	})
}

// respondEngineError maps engine sentinel errors to HTTP statuses.
func respondEngineError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, hook.ErrPositionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, hook.ErrBidTooLow),
		errors.Is(err, hook.ErrOnlyKeeper),
		errors.Is(err, hook.ErrPositionNotLiquidatable),
		errors.Is(err, hook.ErrAddLiquidityThroughHook):
		status = http.StatusConflict
	case errors.Is(err, hook.ErrInsufficientCollateral),
		errors.Is(err, hook.ErrInsufficientLiquidity):
		status = http.StatusPaymentRequired
	}
	respondError(w, status, err.Error(), "")
}
