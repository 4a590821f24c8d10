package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/Ebrahim-hamdy/unilaas-hook/params"
	"github.com/Ebrahim-hamdy/unilaas-hook/pkg/api"
	"github.com/Ebrahim-hamdy/unilaas-hook/pkg/hook"
	"github.com/Ebrahim-hamdy/unilaas-hook/pkg/hook/account"
	"github.com/Ebrahim-hamdy/unilaas-hook/pkg/hook/journal"
	"github.com/Ebrahim-hamdy/unilaas-hook/pkg/hook/venue"
	"github.com/Ebrahim-hamdy/unilaas-hook/pkg/util"
)

func main() {
	// Load config from .env file and environment variables
	cfg := params.LoadFromEnv("")

	// Setup logging (write to both console and file)
	logger, err := util.NewLoggerWithFile(cfg.Node.LogFile)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()
	sugar.Infow("logger_initialized", "log_file", cfg.Node.LogFile)

	// ---- Ledger: pebble-backed collateral and position state ----
	if err := os.MkdirAll(filepath.Dir(cfg.Node.DBPath), 0755); err != nil {
		sugar.Fatalw("data_dir_failed", "err", err)
	}
	ledger, err := account.NewLedger(cfg.Node.DBPath)
	if err != nil {
		sugar.Fatalw("ledger_open_failed", "path", cfg.Node.DBPath, "err", err)
	}
	defer ledger.Close()

	// ---- Event journal ----
	events, err := journal.NewFile(cfg.Node.EventLog)
	if err != nil {
		sugar.Fatalw("event_journal_failed", "path", cfg.Node.EventLog, "err", err)
	}
	defer events.Close()

	// ---- Venue: in-process simulation of the liquidity pool ----
	// The devnet binary runs against the simulated venue; a deployment
	// against a real pool swaps in its own LiquidityVenue.
	sim := venue.NewSim()

	// ---- Engine ----
	engine, err := hook.New(cfg.Engine, ledger, sim,
		hook.WithJournal(events),
		hook.WithLogger(logger),
	)
	if err != nil {
		sugar.Fatalw("engine_init_failed", "err", err)
	}
	sim.SetAuthorizer(engine.AuthorizeVenueLiquidity)

	sugar.Infow("engine_config",
		"healthy_period_sec", cfg.Engine.HealthyPeriod,
		"liquidator_fee_bps", cfg.Engine.LiquidatorFeeBps,
		"swap_fee_pips", cfg.Engine.SwapFeePips,
		"markets_restored", len(engine.Markets()))

	// Seed devnet markets, e.g. HOOK_SEED_MARKETS="pool-a:-600:600,pool-b:-1200:1200".
	// Markets already restored from the store are kept as-is.
	if seed := os.Getenv("HOOK_SEED_MARKETS"); seed != "" {
		seedMarkets(engine, seed, sugar)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---- API Server ----
	apiServer := api.NewServer(engine, sugar)
	engine.SetEventSink(apiServer.Hub())

	go func() {
		if err := apiServer.Start(cfg.Node.APIAddr); err != nil {
			sugar.Fatalw("api_server_failed", "err", err)
		}
	}()

	sugar.Infow("hookd_started", "api_addr", cfg.Node.APIAddr, "db", cfg.Node.DBPath)

	<-ctx.Done()
	sugar.Info("shutting down")
}

type seedLogger interface {
	Infow(msg string, kv ...interface{})
	Warnw(msg string, kv ...interface{})
}

func seedMarkets(engine *hook.Engine, seed string, log seedLogger) {
	for _, entry := range strings.Split(seed, ",") {
		parts := strings.Split(strings.TrimSpace(entry), ":")
		if len(parts) != 3 {
			log.Warnw("seed_market_malformed", "entry", entry)
			continue
		}
		lower, err1 := strconv.ParseInt(parts[1], 10, 32)
		upper, err2 := strconv.ParseInt(parts[2], 10, 32)
		if err1 != nil || err2 != nil {
			log.Warnw("seed_market_malformed", "entry", entry)
			continue
		}
		if _, err := engine.CreateMarket(parts[0], int32(lower), int32(upper)); err != nil {
			log.Warnw("seed_market_skipped", "pool", parts[0], "err", err)
			continue
		}
		log.Infow("seed_market_created", "pool", parts[0], "tick_lower", lower, "tick_upper", upper)
	}
}
