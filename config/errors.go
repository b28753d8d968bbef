package config

import "errors"

var (
	// ErrInvalidNetwork indicates the network name is not recognized.
	ErrInvalidNetwork = errors.New("config: invalid network (must be \"local\", \"sepolia\", or \"mainnet\")")

	// ErrInvalidLogLevel indicates the log level is not recognized.
	ErrInvalidLogLevel = errors.New("config: invalid log level (must be \"debug\", \"info\", \"warn\", or \"error\")")

	// ErrEmptyDataDir indicates the data directory path is empty.
	ErrEmptyDataDir = errors.New("config: data directory must not be empty")

	// ErrZeroMintFee indicates the mint fee is zero.
	ErrZeroMintFee = errors.New("config: mint fee must be above zero")

	// ErrZeroNumWords indicates no random words were requested.
	ErrZeroNumWords = errors.New("config: oracle num words must be at least 1")

	// ErrInvalidKeyHash indicates a malformed oracle key hash.
	ErrInvalidKeyHash = errors.New("config: invalid oracle key hash")

	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = errors.New("config: configuration file not found")

	// ErrInvalidConfigLine indicates a line in the config file is malformed.
	ErrInvalidConfigLine = errors.New("config: invalid configuration line")
)
