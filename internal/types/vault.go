/*

This file contains the vault account type: the full accounting state for one
currency's liquidity pool. All amounts are integers in the currency's
smallest unit; fee buckets are tracked separately from TVL and are only
drained atomically with a matching payout.

*/

package types

import (
	sdkmath "cosmossdk.io/math"
)

// Vault identifies one currency's pool and its accounting state.
type Vault struct {
	Currency            string      `json:"currency"`              // Currency code, e.g. "EUR"
	TVL                 sdkmath.Int `json:"tvl"`                   // Total value locked (sum of LP deposits)
	AccruedLPFees       sdkmath.Int `json:"accrued_lp_fees"`       // Fee bucket for liquidity providers (70%)
	AccruedTreasuryFees sdkmath.Int `json:"accrued_treasury_fees"` // Fee bucket funding automatic rebalancing
	AccruedProtocolFees sdkmath.Int `json:"accrued_protocol_fees"` // Fee bucket for the protocol
	FeeBasisPoints      uint64      `json:"fee_basis_points"`      // Configured swap fee, capped at 500 bps
	LastFeeUpdate       int64       `json:"last_fee_update"`       // Unix time fees last accrued
	LastPrice           sdkmath.Int `json:"last_price"`            // Last accepted oracle price, scaled by 10^9
	LastPriceUpdate     int64       `json:"last_price_update"`     // Unix time of the last accepted price
}

// NewVault returns a zero-balance vault for the given currency.
func NewVault(currency string, feeBasisPoints uint64, now int64) Vault {
	return Vault{
		Currency:            currency,
		TVL:                 sdkmath.ZeroInt(),
		AccruedLPFees:       sdkmath.ZeroInt(),
		AccruedTreasuryFees: sdkmath.ZeroInt(),
		AccruedProtocolFees: sdkmath.ZeroInt(),
		FeeBasisPoints:      feeBasisPoints,
		LastFeeUpdate:       now,
		LastPrice:           sdkmath.ZeroInt(),
		LastPriceUpdate:     now,
	}
}
