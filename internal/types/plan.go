package types

import (
	sdkmath "cosmossdk.io/math"
)

// RebalancePlan is the ephemeral result of a rebalance decision. It is
// consumed immediately by the transfer primitive and never persisted.
// SourceCurrency identifies the richer vault of the pair; TargetCurrency
// the poorer one receiving the injection.
type RebalancePlan struct {
	SourceCurrency      string            `json:"source_currency"`
	TargetCurrency      string            `json:"target_currency"`
	Injection           sdkmath.Int       `json:"injection"`
	PreInjectionHealth  sdkmath.LegacyDec `json:"pre_injection_health"`
	PostInjectionHealth sdkmath.LegacyDec `json:"post_injection_health"`
	InjectionRate       sdkmath.LegacyDec `json:"injection_rate"`
}
