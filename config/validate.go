package config

import (
	"encoding/hex"
	"strings"
)

// validLogLevels lists the accepted log level strings.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validNetworks lists the recognized network names.
var validNetworks = map[string]bool{
	"local":   true,
	"sepolia": true,
	"mainnet": true,
}

// ValidateConfig checks that all configuration values are within acceptable
// ranges and returns the first error encountered, or nil if valid.
func ValidateConfig(cfg Config) error {
	if cfg.DataDir == "" {
		return ErrEmptyDataDir
	}

	if !validNetworks[cfg.Network] {
		return ErrInvalidNetwork
	}

	if !validLogLevels[strings.ToLower(cfg.LogLevel)] {
		return ErrInvalidLogLevel
	}

	if cfg.MintFee == 0 {
		return ErrZeroMintFee
	}

	if cfg.OracleNumWords == 0 {
		return ErrZeroNumWords
	}

	if err := validateKeyHash(cfg.OracleKeyHash); err != nil {
		return err
	}

	return nil
}

// validateKeyHash checks that the gas lane is a 32-byte hex string.
func validateKeyHash(keyHash string) error {
	s := strings.TrimPrefix(keyHash, "0x")
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != 32 {
		return ErrInvalidKeyHash
	}
	return nil
}
