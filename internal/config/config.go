package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/nao1215/idscan/internal/pipeline"
)

// Default configuration values.
const (
	// DefaultBatchSize is the number of OCR passes extracted concurrently.
	// Extraction is CPU bound and short, so a small pool is enough.
	DefaultBatchSize = pipeline.DefaultConcurrency

	// AppName is the application name used for XDG directory paths.
	AppName = "idscan"
)

// Config holds all configuration options for an idscan run.
// It is populated from CLI flags and passed through the application
// rather than kept in global state.
type Config struct {
	// Inputs are the OCR text files to read. An empty list or "-" means
	// standard input.
	Inputs []string

	// SessionID continues a stored session instead of starting a new one.
	// A unique prefix of the ID is accepted.
	SessionID string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// BatchSize is the number of inputs extracted concurrently.
	BatchSize int

	// ConfigFilePath is the path to the rules file.
	// If empty, the tool searches for .idscan in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// Rules holds the overrides loaded from the rules file. Nil means
	// built-in defaults.
	Rules *File

	// JSONReport enables JSON report output instead of human-readable format.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output with tables, alerts
	// and a confidence pie chart.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string

	// ValidateFields adds per-field validation results to the report.
	ValidateFields bool

	// DBDir is the directory path for storing the SQLite database.
	// Defaults to XDG data directory (~/.local/share/idscan on Linux).
	DBDir string

	// SaveToDB indicates whether the session is written to the database
	// after extraction.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		BatchSize: DefaultBatchSize,
		DBDir:     XDGDataDir(),
		SaveToDB:  true,
	}
}

// XDGDataDir returns the XDG data directory for idscan.
// On Linux: ~/.local/share/idscan
// On macOS: ~/Library/Application Support/idscan
// On Windows: %LOCALAPPDATA%\idscan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for idscan.
// On Linux: ~/.config/idscan
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.SaveToDB && c.DBDir == "" {
		return ErrNoDatabaseDir
	}

	if c.Rules != nil {
		if err := c.Rules.Validate(); err != nil {
			return err
		}
	}

	return nil
}
