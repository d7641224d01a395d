package config

import (
	"strings"

	"github.com/nao1215/idscan/internal/classify"
	"github.com/nao1215/idscan/internal/extract"
)

// ClassifierFile holds classifier overrides.
// Zero values keep the defaults.
type ClassifierFile struct {
	AadhaarThreshold    int `yaml:"aadhaarThreshold,omitempty"`
	PANThreshold        int `yaml:"panThreshold,omitempty"`
	AadhaarPatternBonus int `yaml:"aadhaarPatternBonus,omitempty"`
	PANPatternBonus     int `yaml:"panPatternBonus,omitempty"`

	// AadhaarKeywords are merged key by key into the default table.
	// A weight of 0 removes the keyword.
	AadhaarKeywords map[string]int `yaml:"aadhaarKeywords,omitempty"`

	// PANKeywords are merged like AadhaarKeywords.
	PANKeywords map[string]int `yaml:"panKeywords,omitempty"`
}

// BlacklistFile holds extra phrases rejected as names, per document type.
type BlacklistFile struct {
	Aadhaar []string `yaml:"aadhaar,omitempty"`
	PAN     []string `yaml:"pan,omitempty"`
}

// File represents the structure of the .idscan rules file.
type File struct {
	Classifier ClassifierFile `yaml:"classifier,omitempty"`
	Blacklist  BlacklistFile  `yaml:"blacklist,omitempty"`

	// PositionalLines limits positional name search to the first lines
	// of a text. Zero keeps the default.
	PositionalLines int `yaml:"positionalLines,omitempty"`
}

// Validate checks the file for values that cannot be applied.
func (cf *File) Validate() error {
	c := cf.Classifier
	if c.AadhaarThreshold < 0 || c.PANThreshold < 0 || c.AadhaarPatternBonus < 0 || c.PANPatternBonus < 0 {
		return ErrInvalidThreshold
	}
	for _, table := range []map[string]int{c.AadhaarKeywords, c.PANKeywords} {
		for _, w := range table {
			if w < 0 {
				return ErrInvalidKeywordWeight
			}
		}
	}
	if cf.PositionalLines < 0 {
		return ErrInvalidPositionalLines
	}
	return nil
}

// ClassifierRules returns defaults with the file's overrides applied.
// A nil File returns a copy of defaults.
func (cf *File) ClassifierRules(defaults classify.Rules) classify.Rules {
	rules := defaults.Clone()
	if cf == nil {
		return rules
	}

	c := cf.Classifier
	if c.AadhaarThreshold > 0 {
		rules.AadhaarThreshold = c.AadhaarThreshold
	}
	if c.PANThreshold > 0 {
		rules.PANThreshold = c.PANThreshold
	}
	if c.AadhaarPatternBonus > 0 {
		rules.AadhaarPatternBonus = c.AadhaarPatternBonus
	}
	if c.PANPatternBonus > 0 {
		rules.PANPatternBonus = c.PANPatternBonus
	}
	rules.AadhaarKeywords = mergeKeywords(rules.AadhaarKeywords, c.AadhaarKeywords)
	rules.PANKeywords = mergeKeywords(rules.PANKeywords, c.PANKeywords)
	return rules
}

// ExtractOptions returns the extractor tables with the file's blacklist
// phrases and positional window applied. A nil File returns the defaults.
func (cf *File) ExtractOptions() extract.Options {
	if cf == nil {
		return extract.NewOptions()
	}
	return extract.NewOptions(
		extract.WithAadhaarBlacklist(cf.Blacklist.Aadhaar...),
		extract.WithPANBlacklist(cf.Blacklist.PAN...),
		extract.WithPositionalLines(cf.PositionalLines),
	)
}

// mergeKeywords applies overrides to base. Keys are lower-cased because
// the classifier matches against lower-cased text.
func mergeKeywords(base, overrides map[string]int) map[string]int {
	if base == nil {
		base = make(map[string]int, len(overrides))
	}
	for k, w := range overrides {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		if w == 0 {
			delete(base, k)
			continue
		}
		base[k] = w
	}
	return base
}
