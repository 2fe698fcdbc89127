// ./internal/state/vault_store.go
package state

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
	"github.com/rs/zerolog/log"

	"github.com/openfx/fxvault/internal/types"
)

// SaveVault upserts a vault's full accounting state.
func SaveVault(v types.Vault) error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	stmt := `
		INSERT INTO vaults (
			currency, tvl, accrued_lp_fees, accrued_treasury_fees, accrued_protocol_fees,
			fee_basis_points, last_fee_update, last_price, last_price_update, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, CURRENT_TIMESTAMP)
		ON CONFLICT (currency) DO UPDATE SET
			tvl = EXCLUDED.tvl,
			accrued_lp_fees = EXCLUDED.accrued_lp_fees,
			accrued_treasury_fees = EXCLUDED.accrued_treasury_fees,
			accrued_protocol_fees = EXCLUDED.accrued_protocol_fees,
			fee_basis_points = EXCLUDED.fee_basis_points,
			last_fee_update = EXCLUDED.last_fee_update,
			last_price = EXCLUDED.last_price,
			last_price_update = EXCLUDED.last_price_update,
			updated_at = CURRENT_TIMESTAMP;`

	_, err := DB.Exec(stmt,
		v.Currency, v.TVL.String(), v.AccruedLPFees.String(), v.AccruedTreasuryFees.String(), v.AccruedProtocolFees.String(),
		v.FeeBasisPoints, v.LastFeeUpdate, v.LastPrice.String(), v.LastPriceUpdate,
	)
	if err != nil {
		return fmt.Errorf("failed to save vault %s: %w", v.Currency, err)
	}

	log.Debug().Str("currency", v.Currency).Str("tvl", v.TVL.String()).Msg("Saved vault")
	return nil
}

// LoadVaults loads every persisted vault.
func LoadVaults() ([]types.Vault, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	query := `
		SELECT currency, tvl, accrued_lp_fees, accrued_treasury_fees, accrued_protocol_fees,
		       fee_basis_points, last_fee_update, last_price, last_price_update
		FROM vaults
		ORDER BY currency;`

	rows, err := DB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query vaults: %w", err)
	}
	defer rows.Close()

	var vaults []types.Vault
	for rows.Next() {
		var v types.Vault
		var tvl, lpFees, treasuryFees, protocolFees, lastPrice string
		if err := rows.Scan(&v.Currency, &tvl, &lpFees, &treasuryFees, &protocolFees,
			&v.FeeBasisPoints, &v.LastFeeUpdate, &lastPrice, &v.LastPriceUpdate); err != nil {
			return nil, fmt.Errorf("failed to scan vault row: %w", err)
		}
		if v.TVL, err = parseAmount(tvl, "tvl", v.Currency); err != nil {
			return nil, err
		}
		if v.AccruedLPFees, err = parseAmount(lpFees, "accrued_lp_fees", v.Currency); err != nil {
			return nil, err
		}
		if v.AccruedTreasuryFees, err = parseAmount(treasuryFees, "accrued_treasury_fees", v.Currency); err != nil {
			return nil, err
		}
		if v.AccruedProtocolFees, err = parseAmount(protocolFees, "accrued_protocol_fees", v.Currency); err != nil {
			return nil, err
		}
		if v.LastPrice, err = parseAmount(lastPrice, "last_price", v.Currency); err != nil {
			return nil, err
		}
		vaults = append(vaults, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate vault rows: %w", err)
	}

	log.Info().Int("count", len(vaults)).Msg("Loaded vaults from database")
	return vaults, nil
}

// SavePosition upserts one provider's position.
func SavePosition(p types.LiquidityPosition) error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	stmt := `
		INSERT INTO lp_positions (
			currency, provider, amount, last_deposit_time, rewards_claimed, last_claim_time, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, CURRENT_TIMESTAMP)
		ON CONFLICT (currency, provider) DO UPDATE SET
			amount = EXCLUDED.amount,
			last_deposit_time = EXCLUDED.last_deposit_time,
			rewards_claimed = EXCLUDED.rewards_claimed,
			last_claim_time = EXCLUDED.last_claim_time,
			updated_at = CURRENT_TIMESTAMP;`

	_, err := DB.Exec(stmt,
		p.Currency, p.Provider, p.Amount.String(), p.LastDepositTime, p.RewardsClaimed.String(), p.LastClaimTime,
	)
	if err != nil {
		return fmt.Errorf("failed to save position %s/%s: %w", p.Currency, p.Provider, err)
	}
	return nil
}

// DeletePosition removes a closed position.
func DeletePosition(currency, provider string) error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	_, err := DB.Exec(`DELETE FROM lp_positions WHERE currency = $1 AND provider = $2;`, currency, provider)
	if err != nil {
		return fmt.Errorf("failed to delete position %s/%s: %w", currency, provider, err)
	}
	return nil
}

// LoadPositions loads every persisted position for one vault.
func LoadPositions(currency string) ([]types.LiquidityPosition, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	query := `
		SELECT currency, provider, amount, last_deposit_time, rewards_claimed, last_claim_time
		FROM lp_positions
		WHERE currency = $1
		ORDER BY provider;`

	rows, err := DB.Query(query, currency)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions for %s: %w", currency, err)
	}
	defer rows.Close()

	var positions []types.LiquidityPosition
	for rows.Next() {
		var p types.LiquidityPosition
		var amount, claimed string
		if err := rows.Scan(&p.Currency, &p.Provider, &amount, &p.LastDepositTime, &claimed, &p.LastClaimTime); err != nil {
			return nil, fmt.Errorf("failed to scan position row: %w", err)
		}
		if p.Amount, err = parseAmount(amount, "amount", p.Currency+"/"+p.Provider); err != nil {
			return nil, err
		}
		if p.RewardsClaimed, err = parseAmount(claimed, "rewards_claimed", p.Currency+"/"+p.Provider); err != nil {
			return nil, err
		}
		positions = append(positions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate position rows: %w", err)
	}
	return positions, nil
}

// parseAmount converts a NUMERIC(40, 0) column back into an integer amount.
func parseAmount(raw, column, key string) (sdkmath.Int, error) {
	v, ok := sdkmath.NewIntFromString(raw)
	if !ok {
		return sdkmath.Int{}, fmt.Errorf("corrupt %s value %q for %s", column, raw, key)
	}
	return v, nil
}
