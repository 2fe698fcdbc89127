/*

Unified error taxonomy for the FX vault exchange. Every component returns
errors registered here so the same failure has the same identity across
operations; callers match with errors.Is.

*/

package fxerrors

import (
	errorsmod "cosmossdk.io/errors"
)

const codespace = "fxvault"

var (
	// Arithmetic and pricing failures.
	ErrOverflow              = errorsmod.Register(codespace, 2, "math operation resulted in overflow")
	ErrInsufficientLiquidity = errorsmod.Register(codespace, 3, "insufficient liquidity in target vault")
	ErrSlippageExceeded      = errorsmod.Register(codespace, 4, "slippage tolerance exceeded")

	// Liquidity position failures.
	ErrInsufficientFunds      = errorsmod.Register(codespace, 5, "insufficient funds in liquidity position")
	ErrInsufficientVaultFunds = errorsmod.Register(codespace, 6, "insufficient funds in vault")

	// Reward claim failures.
	ErrNoFeesToClaim       = errorsmod.Register(codespace, 7, "no fees available to claim")
	ErrNoLiquidityProvided = errorsmod.Register(codespace, 8, "no liquidity provided to this vault")
	ErrRewardTooSmall      = errorsmod.Register(codespace, 9, "calculated reward amount is too small")

	// Rebalance failures.
	ErrNoRebalanceNeeded           = errorsmod.Register(codespace, 10, "no rebalancing needed in current vault health range")
	ErrInsufficientInjectionAmount = errorsmod.Register(codespace, 11, "insufficient injection amount for required rebalancing")

	// Oracle failures.
	ErrStaleOraclePrice     = errorsmod.Register(codespace, 12, "oracle price is too old")
	ErrNegativeOraclePrice  = errorsmod.Register(codespace, 13, "oracle returned a non-positive price")
	ErrInvalidOracleAccount = errorsmod.Register(codespace, 14, "invalid oracle feed")

	// Configuration and keyed-store failures.
	ErrFeeTooHigh         = errorsmod.Register(codespace, 15, "fee is too high, maximum is 5%")
	ErrVaultNotFound      = errorsmod.Register(codespace, 16, "vault not found")
	ErrVaultAlreadyExists = errorsmod.Register(codespace, 17, "vault already exists")
	ErrPositionNotFound   = errorsmod.Register(codespace, 18, "liquidity position not found")
	ErrInvalidAmount      = errorsmod.Register(codespace, 19, "amount must be positive")
)
