package extract

import "errors"

// Strategy failures. A coordinator treats any of them as a signal to try
// the next strategy in its chain.
var (
	// ErrNoFields is returned when a strategy found nothing at all.
	ErrNoFields = errors.New("no fields extracted")

	// ErrInsufficientText is returned when the input has too few lines
	// for the strategy's layout assumptions.
	ErrInsufficientText = errors.New("insufficient text for layout analysis")

	// ErrNoAnchor is returned by the advanced Aadhaar strategy when neither
	// an Aadhaar number nor a date of birth line could be located.
	ErrNoAnchor = errors.New("no anchor line found")

	// ErrNoIDNumber is returned by the improved PAN strategy when no PAN
	// with a valid category code was found.
	ErrNoIDNumber = errors.New("no valid document number found")
)
