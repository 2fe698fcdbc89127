/*

In-memory ledger for vaults and liquidity positions. The ledger is the
single writer for vault balances, fee buckets, and provider positions;
every operation takes its locks, validates, and only then mutates, so a
failed operation leaves the ledger exactly as it found it.

Each vault carries its own mutex guarding the vault record and its
positions. Operations spanning two vaults acquire both mutexes in
lexicographic currency order.

*/

package ledger

import (
	"sort"
	"sync"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	"github.com/openfx/fxvault/internal/fxerrors"
	"github.com/openfx/fxvault/internal/pricing"
	"github.com/openfx/fxvault/internal/types"
)

// vaultEntry bundles a vault with its provider positions under one lock.
type vaultEntry struct {
	mu        sync.Mutex
	vault     types.Vault
	positions map[string]*types.LiquidityPosition
}

// Ledger holds every vault and position. The outer mutex guards the vault
// map only; per-vault state is guarded by the entry mutex.
type Ledger struct {
	mu     sync.RWMutex
	vaults map[string]*vaultEntry
}

func New() *Ledger {
	return &Ledger{vaults: make(map[string]*vaultEntry)}
}

// CreateVault registers a new currency vault. The configured fee is
// validated against the protocol-wide cap before anything is written.
func (l *Ledger) CreateVault(currency string, feeBasisPoints uint64, now int64) (types.Vault, error) {
	if currency == "" {
		return types.Vault{}, errorsmod.Wrap(fxerrors.ErrInvalidAmount, "empty currency")
	}
	if feeBasisPoints > pricing.MaxFeeBps {
		return types.Vault{}, errorsmod.Wrapf(fxerrors.ErrFeeTooHigh, "%d bps exceeds cap of %d", feeBasisPoints, pricing.MaxFeeBps)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.vaults[currency]; ok {
		return types.Vault{}, errorsmod.Wrap(fxerrors.ErrVaultAlreadyExists, currency)
	}

	v := types.NewVault(currency, feeBasisPoints, now)
	l.vaults[currency] = &vaultEntry{
		vault:     v,
		positions: make(map[string]*types.LiquidityPosition),
	}
	return v, nil
}

// Restore loads a persisted vault and its positions, replacing any
// in-memory entry for the same currency. Used at startup only.
func (l *Ledger) Restore(v types.Vault, positions []types.LiquidityPosition) {
	entry := &vaultEntry{
		vault:     v,
		positions: make(map[string]*types.LiquidityPosition, len(positions)),
	}
	for i := range positions {
		p := positions[i]
		entry.positions[p.Provider] = &p
	}

	l.mu.Lock()
	l.vaults[v.Currency] = entry
	l.mu.Unlock()
}

func (l *Ledger) entry(currency string) (*vaultEntry, error) {
	l.mu.RLock()
	e, ok := l.vaults[currency]
	l.mu.RUnlock()
	if !ok {
		return nil, errorsmod.Wrap(fxerrors.ErrVaultNotFound, currency)
	}
	return e, nil
}

// entryPair fetches two vault entries and locks both in lexicographic
// currency order. The caller must invoke the returned unlock func.
func (l *Ledger) entryPair(a, b string) (*vaultEntry, *vaultEntry, func(), error) {
	if a == b {
		return nil, nil, nil, errorsmod.Wrap(fxerrors.ErrInvalidAmount, "identical currencies")
	}
	ea, err := l.entry(a)
	if err != nil {
		return nil, nil, nil, err
	}
	eb, err := l.entry(b)
	if err != nil {
		return nil, nil, nil, err
	}

	first, second := ea, eb
	if b < a {
		first, second = eb, ea
	}
	first.mu.Lock()
	second.mu.Lock()
	unlock := func() {
		second.mu.Unlock()
		first.mu.Unlock()
	}
	return ea, eb, unlock, nil
}

// Vault returns a copy of the vault record for a currency.
func (l *Ledger) Vault(currency string) (types.Vault, error) {
	e, err := l.entry(currency)
	if err != nil {
		return types.Vault{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.vault, nil
}

// Vaults returns copies of every vault, sorted by currency.
func (l *Ledger) Vaults() []types.Vault {
	l.mu.RLock()
	entries := make([]*vaultEntry, 0, len(l.vaults))
	for _, e := range l.vaults {
		entries = append(entries, e)
	}
	l.mu.RUnlock()

	out := make([]types.Vault, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		out = append(out, e.vault)
		e.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Currency < out[j].Currency })
	return out
}

// Position returns a copy of one provider's position in a vault.
func (l *Ledger) Position(currency, provider string) (types.LiquidityPosition, error) {
	e, err := l.entry(currency)
	if err != nil {
		return types.LiquidityPosition{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	p, ok := e.positions[provider]
	if !ok {
		return types.LiquidityPosition{}, errorsmod.Wrapf(fxerrors.ErrPositionNotFound, "%s/%s", currency, provider)
	}
	return *p, nil
}

// Positions returns copies of every position in a vault, sorted by provider.
func (l *Ledger) Positions(currency string) ([]types.LiquidityPosition, error) {
	e, err := l.entry(currency)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	out := make([]types.LiquidityPosition, 0, len(e.positions))
	for _, p := range e.positions {
		out = append(out, *p)
	}
	e.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Provider < out[j].Provider })
	return out, nil
}

// PairHealth reports the health ratio between two vault balances.
func (l *Ledger) PairHealth(a, b string) (sdkmath.LegacyDec, error) {
	ea, eb, unlock, err := l.entryPair(a, b)
	if err != nil {
		return sdkmath.LegacyDec{}, err
	}
	defer unlock()
	return pricing.Health(ea.vault.TVL, eb.vault.TVL), nil
}
