package pipeline

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/nao1215/idscan/internal/classify"
	"github.com/nao1215/idscan/internal/extract"
	"github.com/nao1215/idscan/internal/model"
	"github.com/nao1215/idscan/internal/ocrtext"
)

// ErrStrategyPanic wraps a panic recovered from a strategy.
var ErrStrategyPanic = errors.New("strategy panicked")

// Strategy is one way of reading fields from text. Strategies hold no
// mutable state and may be shared between goroutines.
type Strategy interface {
	// Name returns the strategy name used in logs and results.
	Name() string

	// Extract returns the fields found in text. lines is text split into
	// trimmed, non-empty lines. An error means the strategy failed and
	// the next one in the chain should run.
	Extract(text string, lines []string) ([]model.ExtractedField, error)
}

// Attempt records one strategy run.
type Attempt struct {
	// Strategy is the strategy name.
	Strategy string `json:"strategy"`

	// Fields is the number of fields the strategy returned.
	Fields int `json:"fields"`

	// Error is the failure message, empty on success.
	Error string `json:"error,omitempty"`
}

// Succeeded reports whether the attempt produced the result.
func (a Attempt) Succeeded() bool {
	return a.Error == "" && a.Fields > 0
}

// Result is the outcome of one OCR pass.
type Result struct {
	// DocumentType is the classification of the text.
	DocumentType model.DocumentType `json:"documentType"`

	// Scores are the classifier evidence totals.
	Scores classify.Scores `json:"scores"`

	// Strategy names the strategy that produced Fields, empty when every
	// strategy failed.
	Strategy string `json:"strategy,omitempty"`

	// Fields holds the extracted fields in discovery order.
	Fields []model.ExtractedField `json:"fields"`

	// Attempts lists every strategy that ran, in order.
	Attempts []Attempt `json:"attempts"`
}

// Coordinator classifies text and runs the matching strategy chain.
type Coordinator struct {
	classifier *classify.Classifier
	options    extract.Options
	chains     map[model.DocumentType][]Strategy
	logger     *slog.Logger
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger strategy failures are reported to.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// WithClassifier replaces the default classifier.
func WithClassifier(classifier *classify.Classifier) Option {
	return func(c *Coordinator) {
		c.classifier = classifier
	}
}

// WithExtractOptions sets the blacklists and limits the built-in
// strategies are created with.
func WithExtractOptions(opts extract.Options) Option {
	return func(c *Coordinator) {
		c.options = opts
	}
}

// WithChain replaces the strategy chain for one document type.
func WithChain(docType model.DocumentType, strategies ...Strategy) Option {
	return func(c *Coordinator) {
		if c.chains == nil {
			c.chains = make(map[model.DocumentType][]Strategy)
		}
		c.chains[docType] = strategies
	}
}

// NewCoordinator creates a Coordinator with the default classifier and
// strategy chains, then applies opts.
func NewCoordinator(opts ...Option) *Coordinator {
	c := &Coordinator{options: extract.NewOptions()}
	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.classifier == nil {
		c.classifier = classify.NewDefault()
	}

	defaults := DefaultChains(c.options)
	if c.chains == nil {
		c.chains = defaults
	} else {
		for docType, chain := range defaults {
			if _, ok := c.chains[docType]; !ok {
				c.chains[docType] = chain
			}
		}
	}
	return c
}

// DefaultChains returns the built-in strategy chains.
func DefaultChains(opts extract.Options) map[model.DocumentType][]Strategy {
	return map[model.DocumentType][]Strategy{
		model.DocumentAadhaar: {
			extract.NewAadhaarExtractor(extract.ModeAdvanced, opts),
			extract.NewAadhaarExtractor(extract.ModeImproved, opts),
			extract.NewAadhaarExtractor(extract.ModeBasic, opts),
		},
		model.DocumentPAN: {
			extract.NewPANExtractor(extract.ModeImproved, opts),
			extract.NewPANExtractor(extract.ModeBasic, opts),
		},
		model.DocumentUnknown: {
			extract.NewGenericExtractor(opts),
		},
	}
}

// Classifier returns the classifier in use.
func (c *Coordinator) Classifier() *classify.Classifier {
	return c.classifier
}

// Chain returns the strategy names tried for docType, in order.
func (c *Coordinator) Chain(docType model.DocumentType) []string {
	chain := c.chains[docType]
	names := make([]string, len(chain))
	for i, s := range chain {
		names[i] = s.Name()
	}
	return names
}

// Extract classifies text and returns the fields of the first strategy
// that succeeds. It never fails: when nothing can be read the result has
// no fields.
func (c *Coordinator) Extract(text string) Result {
	normalized := ocrtext.Normalize(text)
	scores := c.classifier.Score(normalized)
	result := c.run(c.classifier.Decide(scores), normalized)
	result.Scores = scores
	return result
}

// ExtractAs skips classification and runs the chain for docType.
func (c *Coordinator) ExtractAs(docType model.DocumentType, text string) Result {
	normalized := ocrtext.Normalize(text)
	result := c.run(docType, normalized)
	result.Scores = c.classifier.Score(normalized)
	return result
}

func (c *Coordinator) run(docType model.DocumentType, text string) Result {
	result := Result{DocumentType: docType}
	lines := ocrtext.Lines(text)

	for _, strategy := range c.chains[docType] {
		fields, err := c.attempt(strategy, text, lines)
		if err == nil && len(fields) == 0 {
			err = extract.ErrNoFields
		}

		attempt := Attempt{Strategy: strategy.Name(), Fields: len(fields)}
		if err != nil {
			attempt.Error = err.Error()
			result.Attempts = append(result.Attempts, attempt)
			c.logger.Debug("strategy failed",
				"document", docType.String(),
				"strategy", strategy.Name(),
				"error", err,
			)
			continue
		}

		result.Attempts = append(result.Attempts, attempt)
		result.Strategy = strategy.Name()
		result.Fields = fields
		c.logger.Debug("strategy succeeded",
			"document", docType.String(),
			"strategy", strategy.Name(),
			"fields", len(fields),
		)
		return result
	}

	c.logger.Debug("no strategy produced fields",
		"document", docType.String(),
		"attempts", len(result.Attempts),
	)
	return result
}

// attempt runs one strategy, converting a panic into an error.
func (c *Coordinator) attempt(s Strategy, text string, lines []string) (fields []model.ExtractedField, err error) {
	defer func() {
		if r := recover(); r != nil {
			fields = nil
			err = fmt.Errorf("%w: %v", ErrStrategyPanic, r)
		}
	}()

	// Strategies get their own copy so one cannot disturb the next.
	linesCopy := make([]string, len(lines))
	copy(linesCopy, lines)
	return s.Extract(text, linesCopy)
}
