package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/idscan/internal/ocrtext"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of passes a BatchProcessor runs at once
// unless configured otherwise.
const DefaultConcurrency = 4

// Input is one OCR pass waiting to be processed.
type Input struct {
	// Source names where the text came from (a file path or "stdin").
	Source string

	// Text is the raw OCR output.
	Text string
}

// Pass is a processed Input.
type Pass struct {
	// Source is copied from the Input.
	Source string `json:"source"`

	// Fingerprint identifies the normalised text (see ocrtext.Fingerprint).
	Fingerprint string `json:"fingerprint"`

	// Result is the Coordinator output.
	Result Result `json:"result"`
}

// BatchProcessor runs a Coordinator over many inputs concurrently.
// The Coordinator is shared between goroutines.
type BatchProcessor struct {
	coordinator *Coordinator
	concurrency int
	logger      *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent passes.
// Non-positive values keep the default.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a BatchProcessor around coordinator.
func NewBatchProcessor(coordinator *Coordinator, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		coordinator: coordinator,
		concurrency: DefaultConcurrency,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}
	return bp
}

// Concurrency returns the configured concurrency limit.
func (bp *BatchProcessor) Concurrency() int {
	return bp.concurrency
}

// ProcessBatch processes inputs and returns the passes in input order.
// Extraction itself never fails, so the only error is cancellation of
// ctx; passes finished before cancellation are still returned and the
// rest are nil.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, inputs []Input) ([]*Pass, error) {
	bp.logger.Debug("starting batch",
		"inputs", len(inputs),
		"concurrency", bp.concurrency,
	)
	startTime := time.Now()

	// Each goroutine writes only its own index.
	passes := make([]*Pass, len(inputs))
	err := bp.ProcessBatchWithCallback(ctx, inputs, func(pass *Pass, index int) {
		passes[index] = pass
	})

	bp.logger.Debug("batch complete",
		"inputs", len(inputs),
		"elapsed", time.Since(startTime),
	)
	return passes, err
}

// ProcessBatchWithCallback processes inputs and calls callback for every
// finished pass with the input's index. callback is called from worker
// goroutines and must be safe for concurrent use.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	inputs []Input,
	callback func(pass *Pass, index int),
) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, input := range inputs {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			result := bp.coordinator.Extract(input.Text)
			bp.logger.Debug("pass processed",
				"source", input.Source,
				"document", result.DocumentType.String(),
				"strategy", result.Strategy,
				"fields", len(result.Fields),
			)

			callback(&Pass{
				Source:      input.Source,
				Fingerprint: ocrtext.Fingerprint(input.Text),
				Result:      result,
			}, i)
			return nil
		})
	}

	return g.Wait()
}
