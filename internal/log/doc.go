// Package log provides secure logging functionality with automatic redaction
// of personal data, built on top of the standard slog package.
//
// idscan reads identity documents, so almost every value it handles is
// personal data. This package extends slog to provide:
//   - Automatic redaction of identity fields (Aadhaar number, PAN, names,
//     birth dates, contact details) by attribute key
//   - Redaction of values that look like an Aadhaar number, a PAN, an
//     Indian mobile number or an email address, whatever their key
//   - Configurable log levels with verbose mode support
//
// Even in verbose mode, personal values are masked so that logs can be
// shared when reporting a bug.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, true) // verbose=true
//
//	logger.Debug("field found",
//	    "field", "panNumber",
//	    "value", "ABCPE1234F", // Will be masked
//	)
//
//	slog.SetDefault(logger)
package log
