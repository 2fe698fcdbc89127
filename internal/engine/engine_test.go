package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/openfx/fxvault/internal/fxerrors"
	"github.com/openfx/fxvault/internal/ledger"
	"github.com/openfx/fxvault/internal/oracle"
)

type transferCall struct {
	kind     string // "collect" or "payout"
	currency string
	account  string
	amount   sdkmath.Int
}

// fakeRail records external transfers instead of moving money.
type fakeRail struct {
	mu          sync.Mutex
	calls       []transferCall
	failCollect bool
	failPayout  bool
}

func (f *fakeRail) Collect(_ context.Context, currency, from string, amount sdkmath.Int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCollect {
		return errors.New("collect refused")
	}
	f.calls = append(f.calls, transferCall{kind: "collect", currency: currency, account: from, amount: amount})
	return nil
}

func (f *fakeRail) Payout(_ context.Context, currency, to string, amount sdkmath.Int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPayout {
		return errors.New("payout refused")
	}
	f.calls = append(f.calls, transferCall{kind: "payout", currency: currency, account: to, amount: amount})
	return nil
}

func (f *fakeRail) lastCall() transferCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func newTestEngine(t *testing.T) (*Engine, *fakeRail, *oracle.Static) {
	t.Helper()
	l := ledger.New()
	_, err := l.CreateVault("EUR", 30, 0)
	require.NoError(t, err)
	_, err = l.CreateVault("USD", 30, 0)
	require.NoError(t, err)

	rates := oracle.NewStatic()
	rail := &fakeRail{}

	e, err := NewEngine(Config{
		Ledger:             l,
		Oracle:             rates,
		Transferor:         rail,
		MaxPriceAgeSeconds: 60,
		TreasuryAccount:    "treasury-ops",
		ProtocolAccount:    "protocol-ops",
	})
	require.NoError(t, err)
	e.nowFn = func() time.Time { return time.Unix(1_000, 0) }
	return e, rail, rates
}

func TestNewEngineValidation(t *testing.T) {
	_, err := NewEngine(Config{})
	require.Error(t, err)

	_, err = NewEngine(Config{
		Ledger:             ledger.New(),
		Oracle:             oracle.NewStatic(),
		Transferor:         &fakeRail{},
		MaxPriceAgeSeconds: 60,
		TreasuryAccount:    "t",
	})
	require.Error(t, err) // missing protocol account
}

func TestDepositCollectsAndBooks(t *testing.T) {
	e, rail, _ := newTestEngine(t)

	position, err := e.Deposit(context.Background(), "EUR", "alice", sdkmath.NewInt(10_000))
	require.NoError(t, err)
	require.Equal(t, int64(10_000), position.Amount.Int64())

	call := rail.lastCall()
	require.Equal(t, "collect", call.kind)
	require.Equal(t, "EUR", call.currency)
	require.Equal(t, "alice", call.account)
	require.Equal(t, int64(10_000), call.amount.Int64())
}

func TestDepositRefundsOnLedgerRejection(t *testing.T) {
	e, rail, _ := newTestEngine(t)

	_, err := e.Deposit(context.Background(), "JPY", "alice", sdkmath.NewInt(10_000))
	require.ErrorIs(t, err, fxerrors.ErrVaultNotFound)

	// Collected funds went straight back.
	call := rail.lastCall()
	require.Equal(t, "payout", call.kind)
	require.Equal(t, "alice", call.account)
	require.Equal(t, int64(10_000), call.amount.Int64())
}

func TestWithdrawPaysNetOfPenalty(t *testing.T) {
	e, rail, _ := newTestEngine(t)
	_, err := e.Deposit(context.Background(), "EUR", "alice", sdkmath.NewInt(10_000))
	require.NoError(t, err)

	result, err := e.Withdraw(context.Background(), "EUR", "alice", sdkmath.NewInt(10_000))
	require.NoError(t, err)
	require.Equal(t, int64(9_800), result.Net.Int64())

	call := rail.lastCall()
	require.Equal(t, "payout", call.kind)
	require.Equal(t, int64(9_800), call.amount.Int64())
}

func TestWithdrawPartialKeepsPosition(t *testing.T) {
	e, rail, _ := newTestEngine(t)
	ctx := context.Background()
	_, err := e.Deposit(ctx, "EUR", "alice", sdkmath.NewInt(10_000))
	require.NoError(t, err)

	result, err := e.Withdraw(ctx, "EUR", "alice", sdkmath.NewInt(1_000))
	require.NoError(t, err)
	require.Equal(t, int64(980), result.Net.Int64())
	require.Equal(t, int64(9_000), result.Remaining.Int64())

	call := rail.lastCall()
	require.Equal(t, "payout", call.kind)
	require.Equal(t, int64(980), call.amount.Int64())

	position, err := e.Ledger().Position("EUR", "alice")
	require.NoError(t, err)
	require.Equal(t, int64(9_000), position.Amount.Int64())

	// Asking for more than the rest of the position is rejected whole.
	_, err = e.Withdraw(ctx, "EUR", "alice", sdkmath.NewInt(9_001))
	require.ErrorIs(t, err, fxerrors.ErrInsufficientFunds)
}

func TestSwapEndToEnd(t *testing.T) {
	e, rail, rates := newTestEngine(t)
	ctx := context.Background()

	_, err := e.Deposit(ctx, "EUR", "seed", sdkmath.NewInt(10_000_000))
	require.NoError(t, err)
	_, err = e.Deposit(ctx, "USD", "alice", sdkmath.NewInt(5_000_000))
	require.NoError(t, err)
	_, err = e.Deposit(ctx, "USD", "bob", sdkmath.NewInt(5_000_000))
	require.NoError(t, err)

	rates.Set("EUR", "USD", sdkmath.NewInt(1_000_000_000))

	// Balanced pair: minimum spread, no drift. 1_000_000 in, 300 fee.
	result, err := e.Swap(ctx, "EUR", "USD", "trader", sdkmath.NewInt(1_000_000), sdkmath.ZeroInt())
	require.NoError(t, err)
	require.Equal(t, int64(999_700), result.AmountOut.Int64())
	require.Equal(t, int64(300), result.Fee.Int64())

	call := rail.lastCall()
	require.Equal(t, "payout", call.kind)
	require.Equal(t, "USD", call.currency)
	require.Equal(t, "trader", call.account)
	require.Equal(t, int64(999_700), call.amount.Int64())

	// LP share of the fee accrued on the target vault.
	v, err := e.Ledger().Vault("USD")
	require.NoError(t, err)
	require.Equal(t, int64(210), v.AccruedLPFees.Int64())
}

func TestSwapRefundsOnSlippage(t *testing.T) {
	e, rail, rates := newTestEngine(t)
	ctx := context.Background()

	_, err := e.Deposit(ctx, "EUR", "seed", sdkmath.NewInt(1_000_000))
	require.NoError(t, err)
	_, err = e.Deposit(ctx, "USD", "seed", sdkmath.NewInt(1_000_000))
	require.NoError(t, err)
	rates.Set("EUR", "USD", sdkmath.NewInt(1_000_000_000))

	_, err = e.Swap(ctx, "EUR", "USD", "trader", sdkmath.NewInt(100_000), sdkmath.NewInt(200_000))
	require.ErrorIs(t, err, fxerrors.ErrSlippageExceeded)

	call := rail.lastCall()
	require.Equal(t, "payout", call.kind)
	require.Equal(t, "EUR", call.currency)
	require.Equal(t, "trader", call.account)
	require.Equal(t, int64(100_000), call.amount.Int64())
}

func TestSwapWithoutRate(t *testing.T) {
	e, _, _ := newTestEngine(t)

	_, err := e.Swap(context.Background(), "EUR", "USD", "trader", sdkmath.NewInt(100), sdkmath.ZeroInt())
	require.ErrorIs(t, err, fxerrors.ErrInvalidOracleAccount)
}

func TestClaimRewardsAfterSwap(t *testing.T) {
	e, rail, rates := newTestEngine(t)
	ctx := context.Background()

	_, err := e.Deposit(ctx, "EUR", "seed", sdkmath.NewInt(10_000_000))
	require.NoError(t, err)
	_, err = e.Deposit(ctx, "USD", "alice", sdkmath.NewInt(5_000_000))
	require.NoError(t, err)
	_, err = e.Deposit(ctx, "USD", "bob", sdkmath.NewInt(5_000_000))
	require.NoError(t, err)
	rates.Set("EUR", "USD", sdkmath.NewInt(1_000_000_000))

	_, err = e.Swap(ctx, "EUR", "USD", "trader", sdkmath.NewInt(1_000_000), sdkmath.ZeroInt())
	require.NoError(t, err)

	// Bucket is 210 against a post-swap TVL of 9_000_300:
	// 5_000_000 * 210 / 9_000_300 = 116.
	reward, err := e.ClaimRewards(ctx, "USD", "alice")
	require.NoError(t, err)
	require.Equal(t, int64(116), reward.Int64())

	call := rail.lastCall()
	require.Equal(t, "payout", call.kind)
	require.Equal(t, "alice", call.account)
	require.Equal(t, int64(116), call.amount.Int64())
}

func TestDistributeFeesPaysConfiguredAccounts(t *testing.T) {
	e, rail, rates := newTestEngine(t)
	ctx := context.Background()

	_, err := e.Deposit(ctx, "EUR", "seed", sdkmath.NewInt(10_000_000))
	require.NoError(t, err)
	_, err = e.Deposit(ctx, "USD", "seed", sdkmath.NewInt(10_000_000))
	require.NoError(t, err)
	rates.Set("EUR", "USD", sdkmath.NewInt(1_000_000_000))

	_, err = e.Swap(ctx, "EUR", "USD", "trader", sdkmath.NewInt(1_000_000), sdkmath.ZeroInt())
	require.NoError(t, err)

	// 300 fee at full health splits 70/15/15.
	split, err := e.DistributeFees(ctx, "USD")
	require.NoError(t, err)
	require.Equal(t, int64(45), split.Treasury.Int64())
	require.Equal(t, int64(45), split.Protocol.Int64())

	rail.mu.Lock()
	last2 := rail.calls[len(rail.calls)-2:]
	rail.mu.Unlock()
	require.Equal(t, "treasury-ops", last2[0].account)
	require.Equal(t, "protocol-ops", last2[1].account)
}

func TestQuoteIsReadOnly(t *testing.T) {
	e, _, rates := newTestEngine(t)
	ctx := context.Background()

	_, err := e.Deposit(ctx, "EUR", "seed", sdkmath.NewInt(1_000_000))
	require.NoError(t, err)
	_, err = e.Deposit(ctx, "USD", "seed", sdkmath.NewInt(1_000_000))
	require.NoError(t, err)
	rates.Set("EUR", "USD", sdkmath.NewInt(1_000_000_000))

	before, err := e.Ledger().Vault("USD")
	require.NoError(t, err)

	quote, err := e.Quote(ctx, "EUR", "USD", sdkmath.NewInt(100_000))
	require.NoError(t, err)
	require.Equal(t, int64(99_970), quote.AmountOut.Int64())

	after, err := e.Ledger().Vault("USD")
	require.NoError(t, err)
	require.True(t, before.TVL.Equal(after.TVL))
}

func TestRunRebalancePassSmoke(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := e.Deposit(ctx, "EUR", "seed", sdkmath.NewInt(4_000))
	require.NoError(t, err)
	_, err = e.Deposit(ctx, "USD", "seed", sdkmath.NewInt(1_000))
	require.NoError(t, err)

	// Must not panic or mutate balances outside the plan.
	e.RunRebalancePass(ctx)

	eur, err := e.Ledger().Vault("EUR")
	require.NoError(t, err)
	require.Equal(t, int64(4_000), eur.TVL.Int64())
}
