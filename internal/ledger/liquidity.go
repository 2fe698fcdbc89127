/*

Provider-facing ledger operations: deposits, partial or full withdrawals
with the time-tiered early-exit penalty, and reward claims against the
vault's LP fee bucket.

*/

package ledger

import (
	"time"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	"github.com/openfx/fxvault/internal/fees"
	"github.com/openfx/fxvault/internal/fxerrors"
	"github.com/openfx/fxvault/internal/rewards"
	"github.com/openfx/fxvault/internal/types"
)

// WithdrawalResult reports the accounting of one withdrawal. Remaining is
// what is left in the position afterwards; zero means the position closed.
type WithdrawalResult struct {
	Gross      sdkmath.Int `json:"gross"`
	Penalty    sdkmath.Int `json:"penalty"`
	Net        sdkmath.Int `json:"net"`
	PenaltyBps uint64      `json:"penalty_bps"`
	Remaining  sdkmath.Int `json:"remaining"`
}

// Deposit adds amount to the provider's position and the vault's TVL. Any
// deposit resets the position's deposit timestamp, restarting the penalty
// clock for the whole position.
func (l *Ledger) Deposit(currency, provider string, amount sdkmath.Int, now int64) (types.LiquidityPosition, error) {
	if !amount.IsPositive() {
		return types.LiquidityPosition{}, errorsmod.Wrap(fxerrors.ErrInvalidAmount, "deposit must be positive")
	}
	e, err := l.entry(currency)
	if err != nil {
		return types.LiquidityPosition{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	p, ok := e.positions[provider]
	if !ok {
		np := types.NewLiquidityPosition(currency, provider)
		p = &np
		e.positions[provider] = p
	}

	p.Amount = p.Amount.Add(amount)
	p.LastDepositTime = now
	e.vault.TVL = e.vault.TVL.Add(amount)
	return *p, nil
}

// Withdraw removes amount from the provider's position. The early-exit
// penalty is carved out of the withdrawn amount and accrues to the
// treasury bucket; the vault's TVL drops by the full amount. Partial
// withdrawals leave the deposit-time clock untouched; a drained position
// is removed.
func (l *Ledger) Withdraw(currency, provider string, amount sdkmath.Int, now int64) (WithdrawalResult, error) {
	if !amount.IsPositive() {
		return WithdrawalResult{}, errorsmod.Wrap(fxerrors.ErrInvalidAmount, "withdrawal must be positive")
	}
	e, err := l.entry(currency)
	if err != nil {
		return WithdrawalResult{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	p, ok := e.positions[provider]
	if !ok {
		return WithdrawalResult{}, errorsmod.Wrapf(fxerrors.ErrPositionNotFound, "%s/%s", currency, provider)
	}
	if p.Amount.LT(amount) {
		return WithdrawalResult{}, errorsmod.Wrapf(fxerrors.ErrInsufficientFunds,
			"position %s below requested %s", p.Amount, amount)
	}
	if e.vault.TVL.LT(amount) {
		return WithdrawalResult{}, errorsmod.Wrapf(fxerrors.ErrInsufficientVaultFunds,
			"tvl %s below requested %s", e.vault.TVL, amount)
	}

	elapsed := time.Duration(now-p.LastDepositTime) * time.Second
	penalty := fees.Penalty(amount, elapsed)

	e.vault.TVL = e.vault.TVL.Sub(amount)
	e.vault.AccruedTreasuryFees = e.vault.AccruedTreasuryFees.Add(penalty)
	p.Amount = p.Amount.Sub(amount)
	remaining := p.Amount
	if remaining.IsZero() {
		delete(e.positions, provider)
	}

	return WithdrawalResult{
		Gross:      amount,
		Penalty:    penalty,
		Net:        amount.Sub(penalty),
		PenaltyBps: fees.PenaltyBps(elapsed),
		Remaining:  remaining,
	}, nil
}

// ClaimRewards pays the provider their proportional share of the vault's
// LP fee bucket. The bucket is depleted by each claim in turn; claims are
// serialized by the vault lock.
func (l *Ledger) ClaimRewards(currency, provider string, now int64) (sdkmath.Int, error) {
	e, err := l.entry(currency)
	if err != nil {
		return sdkmath.ZeroInt(), err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	p, ok := e.positions[provider]
	if !ok {
		return sdkmath.ZeroInt(), errorsmod.Wrapf(fxerrors.ErrPositionNotFound, "%s/%s", currency, provider)
	}

	reward, err := rewards.Claimable(p.Amount, e.vault.AccruedLPFees, e.vault.TVL)
	if err != nil {
		return sdkmath.ZeroInt(), err
	}
	if e.vault.AccruedLPFees.LT(reward) {
		return sdkmath.ZeroInt(), errorsmod.Wrapf(fxerrors.ErrInsufficientVaultFunds,
			"lp bucket %s below reward %s", e.vault.AccruedLPFees, reward)
	}

	e.vault.AccruedLPFees = e.vault.AccruedLPFees.Sub(reward)
	p.RewardsClaimed = p.RewardsClaimed.Add(reward)
	p.LastClaimTime = now
	return reward, nil
}
