package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/idscan/internal/classify"
	"github.com/nao1215/idscan/internal/extract"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected default values.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default BatchSize is 4", func(t *testing.T) {
		t.Parallel()
		if cfg.BatchSize != 4 {
			t.Errorf("expected BatchSize to be 4, got %d", cfg.BatchSize)
		}
	})

	t.Run("saves to the XDG data dir by default", func(t *testing.T) {
		t.Parallel()
		if !cfg.SaveToDB {
			t.Error("expected SaveToDB to be true")
		}
		if cfg.DBDir != XDGDataDir() {
			t.Errorf("expected DBDir %q, got %q", XDGDataDir(), cfg.DBDir)
		}
	})

	t.Run("no report format selected", func(t *testing.T) {
		t.Parallel()
		if cfg.JSONReport || cfg.MarkdownReport {
			t.Error("expected the simple report by default")
		}
	})

	t.Run("default config is valid", func(t *testing.T) {
		t.Parallel()
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})
}

// TestConfigValidate tests the Validate method with various configurations.
// Each test case is designed to test one specific validation rule.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{
			name:    "valid config",
			modify:  func(*Config) {},
			wantErr: nil,
		},
		{
			name:    "zero batch size",
			modify:  func(c *Config) { c.BatchSize = 0 },
			wantErr: ErrInvalidBatchSize,
		},
		{
			name:    "negative batch size",
			modify:  func(c *Config) { c.BatchSize = -1 },
			wantErr: ErrInvalidBatchSize,
		},
		{
			name: "json and markdown",
			modify: func(c *Config) {
				c.JSONReport = true
				c.MarkdownReport = true
			},
			wantErr: ErrConflictingReportFormats,
		},
		{
			name:    "save without database dir",
			modify:  func(c *Config) { c.DBDir = "" },
			wantErr: ErrNoDatabaseDir,
		},
		{
			name: "no save without database dir",
			modify: func(c *Config) {
				c.DBDir = ""
				c.SaveToDB = false
			},
			wantErr: nil,
		},
		{
			name:    "invalid rules",
			modify:  func(c *Config) { c.Rules = &File{PositionalLines: -1} },
			wantErr: ErrInvalidPositionalLines,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := &Config{
				BatchSize: 4,
				DBDir:     t.TempDir(),
				SaveToDB:  true,
			}
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestFileValidate tests rules file validation.
func TestFileValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		file    File
		wantErr error
	}{
		{name: "empty file", file: File{}},
		{name: "negative threshold", file: File{Classifier: ClassifierFile{PANThreshold: -1}}, wantErr: ErrInvalidThreshold},
		{name: "negative bonus", file: File{Classifier: ClassifierFile{AadhaarPatternBonus: -3}}, wantErr: ErrInvalidThreshold},
		{
			name:    "negative keyword weight",
			file:    File{Classifier: ClassifierFile{PANKeywords: map[string]int{"tax": -2}}},
			wantErr: ErrInvalidKeywordWeight,
		},
		{
			name: "zero keyword weight removes",
			file: File{Classifier: ClassifierFile{AadhaarKeywords: map[string]int{"dob": 0}}},
		},
		{name: "negative positional lines", file: File{PositionalLines: -5}, wantErr: ErrInvalidPositionalLines},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.file.Validate()
			if tt.wantErr == nil && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestFileClassifierRules tests merging classifier overrides over defaults.
func TestFileClassifierRules(t *testing.T) {
	t.Parallel()

	t.Run("nil file returns defaults", func(t *testing.T) {
		t.Parallel()

		var cf *File
		rules := cf.ClassifierRules(classify.DefaultRules())
		if rules.AadhaarThreshold != classify.DefaultAadhaarThreshold {
			t.Errorf("expected default threshold, got %d", rules.AadhaarThreshold)
		}
		if len(rules.AadhaarKeywords) != len(classify.DefaultRules().AadhaarKeywords) {
			t.Error("expected default keyword table")
		}
	})

	t.Run("overrides are applied", func(t *testing.T) {
		t.Parallel()

		cf := &File{Classifier: ClassifierFile{
			AadhaarThreshold: 8,
			PANPatternBonus:  2,
			AadhaarKeywords:  map[string]int{"E-Aadhaar": 4, "dob": 0},
			PANKeywords:      map[string]int{"income tax": 5},
		}}
		defaults := classify.DefaultRules()
		rules := cf.ClassifierRules(defaults)

		if rules.AadhaarThreshold != 8 {
			t.Errorf("expected threshold 8, got %d", rules.AadhaarThreshold)
		}
		if rules.PANThreshold != classify.DefaultPANThreshold {
			t.Errorf("expected default PAN threshold, got %d", rules.PANThreshold)
		}
		if rules.PANPatternBonus != 2 {
			t.Errorf("expected PAN bonus 2, got %d", rules.PANPatternBonus)
		}
		if rules.AadhaarKeywords["e-aadhaar"] != 4 {
			t.Error("expected lower-cased keyword to be added")
		}
		if _, ok := rules.AadhaarKeywords["dob"]; ok {
			t.Error("expected zero weight to remove the keyword")
		}
		if rules.PANKeywords["income tax"] != 5 {
			t.Errorf("expected weight 5, got %d", rules.PANKeywords["income tax"])
		}
		if _, ok := defaults.AadhaarKeywords["e-aadhaar"]; ok {
			t.Error("defaults must not be modified")
		}
		if _, ok := defaults.AadhaarKeywords["dob"]; !ok {
			t.Error("defaults must not be modified")
		}
	})

	t.Run("overrides change classification", func(t *testing.T) {
		t.Parallel()

		cf := &File{Classifier: ClassifierFile{PANKeywords: map[string]int{"tax payer card": 7}}}
		c := classify.New(cf.ClassifierRules(classify.DefaultRules()))
		if got := c.Classify("TAX PAYER CARD\nRAHUL KUMAR"); got.String() != "pan" {
			t.Errorf("expected pan, got %s", got)
		}
	})
}

// TestFileExtractOptions tests blacklist and positional overrides.
func TestFileExtractOptions(t *testing.T) {
	t.Parallel()

	t.Run("nil file returns defaults", func(t *testing.T) {
		t.Parallel()

		var cf *File
		opts := cf.ExtractOptions()
		if opts.PositionalLines != extract.DefaultPositionalLines {
			t.Errorf("expected %d, got %d", extract.DefaultPositionalLines, opts.PositionalLines)
		}
	})

	t.Run("blacklist phrases are added", func(t *testing.T) {
		t.Parallel()

		cf := &File{
			Blacklist:       BlacklistFile{Aadhaar: []string{"Sample Card"}, PAN: []string{"specimen"}},
			PositionalLines: 4,
		}
		opts := cf.ExtractOptions()
		if !opts.AadhaarBlacklist.Matches("SAMPLE CARD HOLDER") {
			t.Error("expected Aadhaar blacklist to contain the phrase")
		}
		if !opts.PANBlacklist.Matches("Specimen Copy") {
			t.Error("expected PAN blacklist to contain the word")
		}
		if opts.AadhaarBlacklist.Matches("Specimen Copy") {
			t.Error("PAN phrases must not reach the Aadhaar blacklist")
		}
		if opts.PositionalLines != 4 {
			t.Errorf("expected 4, got %d", opts.PositionalLines)
		}
	})
}

// TestLoadConfigFile tests the LoadConfigFile function.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadConfigFile("/nonexistent/path/.idscan")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if cfg != nil {
			t.Error("expected nil config when file not found")
		}
	})

	t.Run("loads valid YAML config", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".idscan")
		content := `classifier:
  aadhaarThreshold: 7
  panThreshold: 9
  aadhaarKeywords:
    "e-aadhaar": 4
  panKeywords:
    "nsdl": 3
blacklist:
  aadhaar:
    - "sample card"
  pan:
    - "specimen"
positionalLines: 6
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cfg, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Classifier.AadhaarThreshold != 7 || cfg.Classifier.PANThreshold != 9 {
			t.Errorf("unexpected thresholds %+v", cfg.Classifier)
		}
		if cfg.Classifier.PANKeywords["nsdl"] != 3 {
			t.Error("expected nsdl keyword")
		}
		if len(cfg.Blacklist.Aadhaar) != 1 || cfg.Blacklist.PAN[0] != "specimen" {
			t.Errorf("unexpected blacklist %+v", cfg.Blacklist)
		}
		if cfg.PositionalLines != 6 {
			t.Errorf("expected 6, got %d", cfg.PositionalLines)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".idscan")
		if err := os.WriteFile(configPath, []byte(`invalid: yaml: content: [}`), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfigFile(configPath); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})

	t.Run("returns validation error", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".idscan")
		if err := os.WriteFile(configPath, []byte("positionalLines: -1\n"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfigFile(configPath); !errors.Is(err, ErrInvalidPositionalLines) {
			t.Errorf("expected ErrInvalidPositionalLines, got %v", err)
		}
	})

	t.Run("empty file is valid", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".idscan")
		if err := os.WriteFile(configPath, nil, 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cfg, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.PositionalLines != 0 {
			t.Error("expected zero values")
		}
	})
}

// TestFindConfigFile tests the FindConfigFile function.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns explicit path if exists", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(configPath, []byte("positionalLines: 5\n"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if result := FindConfigFile(configPath); result != configPath {
			t.Errorf("expected %q, got %q", configPath, result)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		t.Parallel()

		if result := FindConfigFile("/nonexistent/path/config.yaml"); result != "" {
			t.Errorf("expected empty string, got %q", result)
		}
	})
}

// TestXDGDirs tests XDG directory functions.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	for name, dir := range map[string]string{
		"data":   XDGDataDir(),
		"config": XDGConfigDir(),
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if !strings.HasSuffix(dir, AppName) {
				t.Errorf("expected %q to end with %q", dir, AppName)
			}
		})
	}
}
