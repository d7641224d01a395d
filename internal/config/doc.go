// Package config provides configuration structures and utilities for idscan.
// It defines the command-line options for extraction runs and the YAML
// rules file that tunes classification and name filtering.
package config
