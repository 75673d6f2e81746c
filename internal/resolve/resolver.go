// internal/resolve/resolver.go
//
// The resolution orchestrator. One Resolve call is a single pass over the
// strategy set against one document snapshot; the retry controller in
// retry.go loops whole passes against fresh snapshots.
package resolve

import (
	"context"

	"go.uber.org/zap"

	"github.com/xkilldash9x/lancet-cli/internal/browser/dom"
)

// Resolver runs the strategy cascade and applies the ranking protocol.
type Resolver struct {
	logger *zap.Logger
	clock  Clock
}

// NewResolver creates a resolver. A nil logger is replaced with a no-op one.
func NewResolver(logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{logger: logger, clock: realClock{}}
}

// WithClock swaps the time source, for deterministic retry/wait tests.
func (r *Resolver) WithClock(clock Clock) *Resolver {
	r.clock = clock
	return r
}

// Resolve locates the single best matching element for the description in
// one pass over the given snapshot. Returns (nil, nil) when nothing exceeds
// the acceptance threshold; that is not an error at this level.
//
// Role-syntax descriptions try the native ARIA role strategy and then the
// implicit-role strategy first. If both miss, the generic strategies still
// run against the raw description text; the two paths are not mutually
// exclusive.
func (r *Resolver) Resolve(ctx context.Context, doc *dom.Document, description string, opts Options) (*Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	if query, ok := ParseRoleQuery(description); ok {
		for _, s := range []Strategy{ariaRoleStrategy{query: query}, implicitRoleStrategy{query: query}} {
			if m := r.tryStrategy(ctx, s, doc, description, opts); m != nil {
				r.logger.Debug("Resolved via role-syntax strategy.",
					zap.String("strategy", m.Strategy),
					zap.Float64("confidence", m.Confidence),
					zap.String("description", description))
				return m, nil
			}
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		// Both role strategies missed; fall through to the generic cascade.
	}

	strategies := generalOrder(opts)
	if opts.PreferInputs {
		strategies = inputOrder(opts)
	}

	var best *Match
	for _, s := range strategies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m := r.tryStrategy(ctx, s, doc, description, opts)
		if m == nil {
			continue
		}
		if m.Confidence >= earlyExitConfidence {
			// Good enough; later strategies cannot be meaningfully better.
			r.logger.Debug("Early exit on high-confidence match.",
				zap.String("strategy", m.Strategy),
				zap.Float64("confidence", m.Confidence))
			return m, nil
		}
		// Strict greater-than: on a confidence tie the earlier (higher
		// priority) strategy keeps the win.
		if best == nil || m.Confidence > best.Confidence {
			best = m
		}
	}

	if best != nil && best.Confidence > acceptanceThreshold {
		r.logger.Debug("Resolved best-of after full cascade.",
			zap.String("strategy", best.Strategy),
			zap.Float64("confidence", best.Confidence),
			zap.String("description", description))
		return best, nil
	}
	return nil, nil
}

// tryStrategy invokes one strategy inside an error boundary: a strategy
// error (malformed selector, detached node, transient query failure) is
// logged and treated as "found nothing". Context cancellation is the one
// exception the caller re-checks.
func (r *Resolver) tryStrategy(ctx context.Context, s Strategy, doc *dom.Document, description string, opts Options) *Match {
	m, err := s.Find(ctx, doc, description, opts)
	if err != nil {
		if ctx.Err() == nil {
			r.logger.Debug("Strategy failed; continuing cascade.",
				zap.String("strategy", s.Name()), zap.Error(err))
		}
		return nil
	}
	return m
}
