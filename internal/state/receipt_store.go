// ./internal/state/receipt_store.go
package state

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/openfx/fxvault/internal/types"
)

// SaveOperationReceipt persists the audit record of one operation and
// returns its receipt ID.
func SaveOperationReceipt(r types.OperationReceipt) (int64, error) {
	if DB == nil {
		return 0, fmt.Errorf("database not initialized")
	}

	stmt := `
		INSERT INTO operation_receipts (
			operation_id, operation_timestamp, operation_kind,
			source_currency, target_currency, provider,
			amount_in, amount_out, fee, success, message
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING receipt_id;`

	var receiptID int64
	err := DB.QueryRow(stmt,
		r.OperationID, r.Timestamp, string(r.Kind),
		nullIfEmpty(r.SourceCurrency), nullIfEmpty(r.TargetCurrency), nullIfEmpty(r.Provider),
		r.AmountIn.String(), r.AmountOut.String(), r.Fee.String(),
		r.Success, r.Message,
	).Scan(&receiptID)
	if err != nil {
		return 0, fmt.Errorf("failed to save operation receipt: %w", err)
	}

	log.Debug().
		Int64("receipt_id", receiptID).
		Str("operation_id", r.OperationID).
		Str("kind", string(r.Kind)).
		Bool("success", r.Success).
		Msg("Saved operation receipt")
	return receiptID, nil
}

// LoadRecentReceipts returns the newest receipts, newest first.
func LoadRecentReceipts(limit int) ([]types.OperationReceipt, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT receipt_id, operation_id, operation_timestamp, operation_kind,
		       COALESCE(source_currency, ''), COALESCE(target_currency, ''), COALESCE(provider, ''),
		       amount_in, amount_out, fee, success, message
		FROM operation_receipts
		ORDER BY operation_timestamp DESC
		LIMIT $1;`

	rows, err := DB.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query operation receipts: %w", err)
	}
	defer rows.Close()

	var receipts []types.OperationReceipt
	for rows.Next() {
		var r types.OperationReceipt
		var kind string
		var amountIn, amountOut, fee string
		if err := rows.Scan(&r.ReceiptID, &r.OperationID, &r.Timestamp, &kind,
			&r.SourceCurrency, &r.TargetCurrency, &r.Provider,
			&amountIn, &amountOut, &fee, &r.Success, &r.Message); err != nil {
			return nil, fmt.Errorf("failed to scan receipt row: %w", err)
		}
		r.Kind = types.OperationKind(kind)
		if r.AmountIn, err = parseAmount(amountIn, "amount_in", r.OperationID); err != nil {
			return nil, err
		}
		if r.AmountOut, err = parseAmount(amountOut, "amount_out", r.OperationID); err != nil {
			return nil, err
		}
		if r.Fee, err = parseAmount(fee, "fee", r.OperationID); err != nil {
			return nil, err
		}
		receipts = append(receipts, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate receipt rows: %w", err)
	}
	return receipts, nil
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
