package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and File.Validate() so
// callers can use errors.Is() while still printing a readable message.
var (
	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrNoDatabaseDir is returned when saving is enabled without a
	// database directory.
	ErrNoDatabaseDir = errors.New("no database directory: set --db-dir or use --no-save")

	// ErrInvalidThreshold is returned when a classifier threshold or
	// pattern bonus in the rules file is negative.
	ErrInvalidThreshold = errors.New("invalid classifier rule: thresholds and bonuses must be non-negative")

	// ErrInvalidKeywordWeight is returned when a keyword weight in the
	// rules file is negative.
	ErrInvalidKeywordWeight = errors.New("invalid classifier rule: keyword weights must be non-negative")

	// ErrInvalidPositionalLines is returned when positionalLines is negative.
	ErrInvalidPositionalLines = errors.New("invalid positionalLines: must be non-negative")
)
