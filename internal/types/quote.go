package types

import (
	sdkmath "cosmossdk.io/math"
)

// PriceQuote is an untrusted reading from the external rate feed. Price is
// the base-to-quote rate scaled to 10^9; AgeSeconds is how old the reading was
// when fetched. The core rejects non-positive or stale quotes before use.
type PriceQuote struct {
	Price      sdkmath.Int `json:"price"`
	AgeSeconds uint64      `json:"age_seconds"`
}

// FeeSplit is the allocation of one swap fee across the three buckets.
// LP + Treasury + Protocol never exceeds the total fee charged; any
// truncation remainder stays in the vault.
type FeeSplit struct {
	LP       sdkmath.Int `json:"lp"`
	Treasury sdkmath.Int `json:"treasury"`
	Protocol sdkmath.Int `json:"protocol"`
}

// Total returns the sum of the three shares.
func (f FeeSplit) Total() sdkmath.Int {
	return f.LP.Add(f.Treasury).Add(f.Protocol)
}
