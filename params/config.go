package params

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Engine struct {
	// HealthyPeriod is how many seconds of obligation an account's
	// collateral must cover to stay solvent and bid-eligible.
	HealthyPeriod int64
	// LiquidatorFeeBps is the liquidator's cut of the trader's collateral,
	// in basis points (500 = 5%).
	LiquidatorFeeBps int64
	// SwapFeePips is the keeper fee rate on swap notional, in pips
	// (parts per million; 3000 = 0.3%).
	SwapFeePips int64
}

type Node struct {
	DBPath   string
	APIAddr  string
	LogFile  string
	EventLog string
}

type Config struct {
	Engine Engine
	Node   Node
}

func Default() Config {
	return Config{
		Engine: Engine{
			HealthyPeriod:    300,
			LiquidatorFeeBps: 500,
			SwapFeePips:      3000,
		},
		Node: Node{
			DBPath:   "data/hook-db",
			APIAddr:  ":8080",
			LogFile:  "data/hookd.log",
			EventLog: "data/events.log",
		},
	}
}

// SwapFeeRate returns the swap fee as a decimal fraction (pips / 1e6).
func (e Engine) SwapFeeRate() decimal.Decimal {
	return decimal.New(e.SwapFeePips, -6)
}

// LiquidatorFeeRate returns the liquidator fee as a decimal fraction (bps / 1e4).
func (e Engine) LiquidatorFeeRate() decimal.Decimal {
	return decimal.New(e.LiquidatorFeeBps, -4)
}

// LoadFromEnv loads configuration from .env file (if exists) and environment
// variables. Priority: ENV > .env file > defaults.
func LoadFromEnv(envPath string) Config {
	cfg := Default()

	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load()
	}

	if v := os.Getenv("HOOK_HEALTHY_PERIOD_SEC"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.Engine.HealthyPeriod = n
		}
	}
	if v := os.Getenv("HOOK_LIQUIDATOR_FEE_BPS"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n >= 0 {
			cfg.Engine.LiquidatorFeeBps = n
		}
	}
	if v := os.Getenv("HOOK_SWAP_FEE_PIPS"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n >= 0 {
			cfg.Engine.SwapFeePips = n
		}
	}
	if v := os.Getenv("HOOK_DB_PATH"); v != "" {
		cfg.Node.DBPath = v
	}
	if v := os.Getenv("HOOK_API_ADDR"); v != "" {
		cfg.Node.APIAddr = v
	}
	if v := os.Getenv("HOOK_LOG_FILE"); v != "" {
		cfg.Node.LogFile = v
	}
	if v := os.Getenv("HOOK_EVENT_LOG"); v != "" {
		cfg.Node.EventLog = v
	}

	return cfg
}
