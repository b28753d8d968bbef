// Package config holds the construction-time configuration for the
// marketplace and mint subsystems. None of the values are runtime-mutable:
// a Config is loaded or built once and handed to the platform constructor.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Config is the full node configuration.
type Config struct {
	DataDir  string // base directory for databases
	Network  string // "local", "sepolia", or "mainnet"
	LogLevel string // "debug", "info", "warn", or "error"
	LogFile  string // optional JSON log file, empty = console only

	MintFee   uint64 // value units required per mint request
	ShapesDir string // optional directory of .svg shape payloads

	OracleSubID            uint64 // randomness oracle subscription
	OracleKeyHash          string // gas lane, hex
	OracleCallbackGasLimit uint32
	OracleNumWords         uint32
}

// Defaults matching the local development network.
const (
	DefaultMintFee          = 10000000000000000 // 0.01 in 18-decimal units
	DefaultCallbackGasLimit = 2000000
	DefaultNumWords         = 1
	DefaultKeyHash          = "0x474e34a077df58807dbe9c96d3c009b23b3c6d0cce433e59bbf5b34f823bc56c"
)

// DefaultConfig returns the configuration for a local network node.
func DefaultConfig() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	return Config{
		DataDir:                filepath.Join(home, ".nftmarket"),
		Network:                "local",
		LogLevel:               "info",
		LogFile:                "",
		MintFee:                DefaultMintFee,
		OracleKeyHash:          DefaultKeyHash,
		OracleCallbackGasLimit: DefaultCallbackGasLimit,
		OracleNumWords:         DefaultNumWords,
	}
}

// ConfigPath returns the config file path inside a data directory.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, "config")
}

// LoadConfig reads a config file of "key = value" lines. Blank lines and
// lines starting with '#' are skipped; unknown keys are ignored so newer
// files load under older code. Unset keys keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}

	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return cfg, fmt.Errorf("%w: line %d: %q", ErrInvalidConfigLine, i+1, line)
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		if err := cfg.set(key, value); err != nil {
			return cfg, fmt.Errorf("%w: line %d: %w", ErrInvalidConfigLine, i+1, err)
		}
	}
	return cfg, nil
}

// set applies one key/value pair. Unknown keys are ignored.
func (c *Config) set(key, value string) error {
	switch key {
	case "datadir":
		c.DataDir = value
	case "network":
		c.Network = value
	case "loglevel":
		c.LogLevel = value
	case "logfile":
		c.LogFile = value
	case "shapesdir":
		c.ShapesDir = value
	case "mintfee":
		v, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return fmt.Errorf("mintfee: %w", err)
		}
		c.MintFee = v
	case "oraclesubid":
		v, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return fmt.Errorf("oraclesubid: %w", err)
		}
		c.OracleSubID = v
	case "oraclekeyhash":
		c.OracleKeyHash = value
	case "oraclecallbackgaslimit":
		v, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return fmt.Errorf("oraclecallbackgaslimit: %w", err)
		}
		c.OracleCallbackGasLimit = uint32(v)
	case "oraclenumwords":
		v, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return fmt.Errorf("oraclenumwords: %w", err)
		}
		c.OracleNumWords = uint32(v)
	}
	return nil
}

// SaveConfig writes the config as "key = value" lines, creating parent
// directories as needed.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	entries := map[string]string{
		"datadir":                cfg.DataDir,
		"network":                cfg.Network,
		"loglevel":               cfg.LogLevel,
		"logfile":                cfg.LogFile,
		"shapesdir":              cfg.ShapesDir,
		"mintfee":                strconv.FormatUint(cfg.MintFee, 10),
		"oraclesubid":            strconv.FormatUint(cfg.OracleSubID, 10),
		"oraclekeyhash":          cfg.OracleKeyHash,
		"oraclecallbackgaslimit": strconv.FormatUint(uint64(cfg.OracleCallbackGasLimit), 10),
		"oraclenumwords":         strconv.FormatUint(uint64(cfg.OracleNumWords), 10),
	}

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s = %s\n", k, entries[k])
	}

	if err := os.WriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
