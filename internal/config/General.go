package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// AppConfig holds all application configuration loaded from environment variables.
// These are populated at startup by the LoadConfig function.
var (
	// VaultCurrencies is the list of currency vaults this instance manages.
	VaultCurrencies []string
	// DefaultFeeBps is the configured swap fee for newly created vaults.
	DefaultFeeBps uint64

	// OracleURL is the base URL of the FX rate service.
	OracleURL string
	// OracleMaxAgeSeconds is the maximum accepted age of a published rate.
	OracleMaxAgeSeconds uint64

	// RebalanceIntervalMinutes is the period of the automatic rebalance loop.
	RebalanceIntervalMinutes uint64

	// TreasuryAccount receives distributed treasury fees.
	TreasuryAccount string
	// ProtocolAccount receives distributed protocol fees.
	ProtocolAccount string

	// WebPort is the port the HTTP API listens on.
	WebPort string
)

// LoadConfig loads configuration from environment variables and sets the global config vars.
// All environment variables are required and must be set.
func LoadConfig() error {
	log.Info().Msg("Loading application configuration from environment variables...")

	var err error

	currencies, err := getEnv("VAULT_CURRENCIES")
	if err != nil {
		return err
	}
	VaultCurrencies = nil
	for _, c := range strings.Split(currencies, ",") {
		c = strings.TrimSpace(strings.ToUpper(c))
		if c != "" {
			VaultCurrencies = append(VaultCurrencies, c)
		}
	}
	if len(VaultCurrencies) < 2 {
		return errors.New("VAULT_CURRENCIES must name at least two currencies")
	}

	DefaultFeeBps, err = getEnvAsUint64("DEFAULT_FEE_BPS")
	if err != nil {
		return err
	}

	OracleURL, err = getEnv("ORACLE_URL")
	if err != nil {
		return err
	}

	OracleMaxAgeSeconds, err = getEnvAsUint64("ORACLE_MAX_AGE_SECONDS")
	if err != nil {
		return err
	}

	RebalanceIntervalMinutes, err = getEnvAsUint64("REBALANCE_INTERVAL_MINUTES")
	if err != nil {
		return err
	}
	if RebalanceIntervalMinutes == 0 {
		return errors.New("REBALANCE_INTERVAL_MINUTES must be positive")
	}

	TreasuryAccount, err = getEnv("TREASURY_ACCOUNT")
	if err != nil {
		return err
	}

	ProtocolAccount, err = getEnv("PROTOCOL_ACCOUNT")
	if err != nil {
		return err
	}

	WebPort, err = getEnv("WEB_PORT")
	if err != nil {
		return err
	}

	log.Debug().
		Strs("VaultCurrencies", VaultCurrencies).
		Uint64("DefaultFeeBps", DefaultFeeBps).
		Str("OracleURL", OracleURL).
		Uint64("RebalanceIntervalMinutes", RebalanceIntervalMinutes).
		Msg("Configuration loaded successfully.")

	return nil
}

// getEnv retrieves a string environment variable. Returns error if not set.
func getEnv(key string) (string, error) {
	if value, exists := os.LookupEnv(key); exists {
		return value, nil
	}
	return "", errors.New("environment variable " + key + " is required but not set")
}

// getEnvAsUint64 retrieves an environment variable as a uint64. Returns error if not set or invalid.
func getEnvAsUint64(key string) (uint64, error) {
	valueStr, err := getEnv(key)
	if err != nil {
		return 0, err
	}
	value, err := strconv.ParseUint(valueStr, 10, 64)
	if err != nil {
		return 0, errors.New("environment variable " + key + " must be a valid uint64, got: " + valueStr)
	}
	return value, nil
}
