/*

This file contains the liquidity position type: one record per
(vault, provider) pair tracking the deposited amount and the timestamps
that drive the withdrawal-penalty schedule and reward claims.

*/

package types

import (
	sdkmath "cosmossdk.io/math"
)

// LiquidityPosition tracks one provider's stake in one vault.
type LiquidityPosition struct {
	Currency        string      `json:"currency"`          // Vault this position belongs to
	Provider        string      `json:"provider"`          // Owner of the position
	Amount          sdkmath.Int `json:"amount"`            // Tokens currently deposited
	LastDepositTime int64       `json:"last_deposit_time"` // Unix time of the most recent deposit
	RewardsClaimed  sdkmath.Int `json:"rewards_claimed"`   // Cumulative rewards paid out
	LastClaimTime   int64       `json:"last_claim_time"`   // Unix time of the last reward claim
}

// NewLiquidityPosition returns an empty position for the pair.
func NewLiquidityPosition(currency, provider string) LiquidityPosition {
	return LiquidityPosition{
		Currency:       currency,
		Provider:       provider,
		Amount:         sdkmath.ZeroInt(),
		RewardsClaimed: sdkmath.ZeroInt(),
	}
}
