package hook

import "errors"

// Caller-visible, operation-aborting failures. An operation that returns
// one of these has written nothing.
var (
	// ErrInsufficientCollateral is returned when a bid is not backed by
	// enough collateral, or a withdrawal exceeds the balance.
	ErrInsufficientCollateral = errors.New("insufficient collateral")

	// ErrAddLiquidityThroughHook is returned when venue liquidity is added
	// without routing through the engine.
	ErrAddLiquidityThroughHook = errors.New("liquidity must be added through the hook")

	// ErrBidTooLow is returned when a bid does not strictly improve on the
	// active rent.
	ErrBidTooLow = errors.New("bid too low")

	// ErrInsufficientLiquidity is returned when a removal exceeds the
	// caller's liquidity credit.
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")

	// ErrOnlyKeeper is returned when a non-keeper tries to set the funding
	// rate.
	ErrOnlyKeeper = errors.New("only the keeper may update the funding rate")

	// ErrPositionNotLiquidatable is returned when the health check passes:
	// the account is solvent and must not be liquidated.
	ErrPositionNotLiquidatable = errors.New("position not liquidatable")

	// ErrPositionNotFound is returned when the liquidation target has no
	// collateral record.
	ErrPositionNotFound = errors.New("position not found")
)
