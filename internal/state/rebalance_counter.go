/*

This file manages the persistent global rebalance run counter. The run
counter is stored in the database to ensure continuity across restarts.

*/

package state

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"
)

// ensureRebalanceCounterTable creates the rebalance_counter table if it doesn't exist
func ensureRebalanceCounterTable() error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	createTableSQL := `
		CREATE TABLE IF NOT EXISTS rebalance_counter (
			id INTEGER PRIMARY KEY DEFAULT 1,
			current_run INTEGER NOT NULL DEFAULT 0,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT single_row_check CHECK (id = 1)
		);

		-- Insert initial row if it doesn't exist
		INSERT INTO rebalance_counter (id, current_run)
		VALUES (1, 0)
		ON CONFLICT (id) DO NOTHING;
	`

	_, err := DB.Exec(createTableSQL)
	if err != nil {
		return fmt.Errorf("failed to create rebalance_counter table: %w", err)
	}

	log.Debug().Msg("Ensured rebalance_counter table exists")
	return nil
}

// GetCurrentRunNumber retrieves the current rebalance run number from the database
func GetCurrentRunNumber() (int, error) {
	if DB == nil {
		return 0, fmt.Errorf("database not initialized")
	}

	if err := ensureRebalanceCounterTable(); err != nil {
		return 0, err
	}

	query := `SELECT current_run FROM rebalance_counter WHERE id = 1;`

	var currentRun int
	row := DB.QueryRow(query)
	err := row.Scan(&currentRun)

	if err != nil {
		if err == sql.ErrNoRows {
			log.Warn().Msg("No rebalance counter row found, initializing to 0")
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get current run number: %w", err)
	}

	log.Debug().Int("currentRun", currentRun).Msg("Retrieved current run number")
	return currentRun, nil
}

// IncrementRunNumber increments the run counter and returns the new value
func IncrementRunNumber() (int, error) {
	if DB == nil {
		return 0, fmt.Errorf("database not initialized")
	}

	if err := ensureRebalanceCounterTable(); err != nil {
		return 0, err
	}

	updateQuery := `
		UPDATE rebalance_counter
		SET current_run = current_run + 1,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = 1
		RETURNING current_run;`

	var newRun int
	row := DB.QueryRow(updateQuery)
	err := row.Scan(&newRun)

	if err != nil {
		return 0, fmt.Errorf("failed to increment run number: %w", err)
	}

	log.Info().Int("newRun", newRun).Msg("Incremented rebalance run counter")
	return newRun, nil
}
