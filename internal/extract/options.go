package extract

// DefaultPositionalLines is how many leading lines positional name
// extraction looks at.
const DefaultPositionalLines = 10

// Options holds the tables extractors are configured with.
type Options struct {
	// AadhaarBlacklist rejects boilerplate on Aadhaar cards.
	AadhaarBlacklist *Blacklist

	// PANBlacklist rejects boilerplate on PAN cards.
	PANBlacklist *Blacklist

	// GenericBlacklist rejects boilerplate in unrecognised documents.
	GenericBlacklist *Blacklist

	// PositionalLines limits positional name extraction to the first
	// lines of the text.
	PositionalLines int
}

// Option configures Options.
type Option func(*Options)

// WithAadhaarBlacklist adds entries to the Aadhaar blacklist.
func WithAadhaarBlacklist(entries ...string) Option {
	return func(o *Options) {
		o.AadhaarBlacklist.Add(entries...)
	}
}

// WithPANBlacklist adds entries to the PAN blacklist.
func WithPANBlacklist(entries ...string) Option {
	return func(o *Options) {
		o.PANBlacklist.Add(entries...)
	}
}

// WithPositionalLines sets the positional window. Non-positive values
// keep the default.
func WithPositionalLines(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.PositionalLines = n
		}
	}
}

// NewOptions returns the default tables with opts applied.
func NewOptions(opts ...Option) Options {
	o := Options{
		AadhaarBlacklist: NewBlacklist(DefaultAadhaarBlacklist()...),
		PANBlacklist:     NewBlacklist(DefaultPANBlacklist()...),
		GenericBlacklist: NewBlacklist(append(DefaultAadhaarBlacklist(), DefaultPANBlacklist()...)...),
		PositionalLines:  DefaultPositionalLines,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o Options) positionalLines() int {
	if o.PositionalLines <= 0 {
		return DefaultPositionalLines
	}
	return o.PositionalLines
}
