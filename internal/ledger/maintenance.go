/*

Maintenance operations: automatic rebalancing funded out of the poorer
vault's treasury bucket, and draining the treasury/protocol buckets to
their external recipients.

*/

package ledger

import (
	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	"github.com/openfx/fxvault/internal/fxerrors"
	"github.com/openfx/fxvault/internal/rebalance"
	"github.com/openfx/fxvault/internal/types"
)

// Rebalance evaluates the pair and, when a plan applies, moves the
// injection from the poorer vault's treasury bucket into its TVL. The
// injection never crosses currencies: the bucket and the TVL it tops up
// belong to the same vault.
func (l *Ledger) Rebalance(a, b string, now int64) (types.RebalancePlan, error) {
	ea, eb, unlock, err := l.entryPair(a, b)
	if err != nil {
		return types.RebalancePlan{}, err
	}
	defer unlock()

	poorer, richer := ea, eb
	if poorer.vault.TVL.GT(richer.vault.TVL) {
		poorer, richer = richer, poorer
	}

	out, err := rebalance.Plan(richer.vault.TVL, poorer.vault.TVL, poorer.vault.AccruedTreasuryFees)
	if err != nil {
		return types.RebalancePlan{}, err
	}

	if out.Injection.IsPositive() {
		poorer.vault.AccruedTreasuryFees = poorer.vault.AccruedTreasuryFees.Sub(out.Injection)
		poorer.vault.TVL = poorer.vault.TVL.Add(out.Injection)
		poorer.vault.LastFeeUpdate = now
	}

	return types.RebalancePlan{
		SourceCurrency:      richer.vault.Currency,
		TargetCurrency:      poorer.vault.Currency,
		Injection:           out.Injection,
		PreInjectionHealth:  out.PreHealth,
		PostInjectionHealth: out.PostHealth,
		InjectionRate:       out.Rate,
	}, nil
}

// DistributeFees drains a vault's treasury and protocol buckets through
// the pay callback. The callback runs under the vault lock; if it fails
// the buckets are untouched.
func (l *Ledger) DistributeFees(currency string, pay func(treasury, protocol sdkmath.Int) error, now int64) (types.FeeSplit, error) {
	e, err := l.entry(currency)
	if err != nil {
		return types.FeeSplit{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	treasury := e.vault.AccruedTreasuryFees
	protocol := e.vault.AccruedProtocolFees
	if !treasury.IsPositive() && !protocol.IsPositive() {
		return types.FeeSplit{}, errorsmod.Wrap(fxerrors.ErrNoFeesToClaim, currency)
	}

	if err := pay(treasury, protocol); err != nil {
		return types.FeeSplit{}, err
	}

	e.vault.AccruedTreasuryFees = sdkmath.ZeroInt()
	e.vault.AccruedProtocolFees = sdkmath.ZeroInt()
	e.vault.LastFeeUpdate = now

	return types.FeeSplit{
		LP:       sdkmath.ZeroInt(),
		Treasury: treasury,
		Protocol: protocol,
	}, nil
}
