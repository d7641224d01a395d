package database

import "errors"

var (
	// ErrSessionNotFound is returned when no session matches an ID.
	ErrSessionNotFound = errors.New("session not found")

	// ErrAmbiguousSessionID is returned when an ID prefix matches more
	// than one session.
	ErrAmbiguousSessionID = errors.New("session ID prefix is ambiguous")

	// ErrDatabaseNotFound is returned by Open when the database file does
	// not exist and creation was not requested.
	ErrDatabaseNotFound = errors.New("database not found")
)
