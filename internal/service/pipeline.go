package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/safar/labecommerce/internal/store"
)

// Step is one stage of a mutation. It reads and writes through q, which is
// bound to the transaction of the current run.
type Step func(ctx context.Context, q store.Querier) error

// Mutation describes one request as pipeline stages. Nil steps are skipped.
type Mutation struct {
	// Name identifies the operation in logs.
	Name string

	Validate func() error
	Resolve  Step
	Check    Step
	Commit   Step

	// ReadOnly marks a read: it goes from Validating straight to one read
	// against the store, outside any atomic unit. The read is Resolve, so a
	// failed read is reported at StageResolving. Check and Commit must be nil.
	ReadOnly bool
}

// Pipeline runs mutations against a store. Validate runs before the store
// is touched; Resolve, Check and Commit run inside one Store.Atomic call, so
// a failure in any of them leaves the store unchanged.
type Pipeline struct {
	store  store.Store
	logger *slog.Logger
}

func NewPipeline(s store.Store, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{store: s, logger: logger}
}

// Run drives m to StageCommitted or StageAborted. The returned error is
// always a *Error recording the stage where the run aborted.
func (p *Pipeline) Run(ctx context.Context, m Mutation) error {
	if m.Validate != nil {
		if err := m.Validate(); err != nil {
			return p.abort(m, asError(err, StageValidating))
		}
	}

	var err error
	if m.ReadOnly {
		err = runSteps(ctx, p.store, m)
	} else {
		err = p.store.Atomic(ctx, func(q store.Querier) error {
			return runSteps(ctx, q, m)
		})
	}
	if err != nil {
		var serr *Error
		if !errors.As(err, &serr) {
			serr = asError(err, StageCommitted)
		}
		return p.abort(m, serr)
	}

	p.logger.Debug("mutation committed", "operation", m.Name, "state", StageCommitted)
	return nil
}

// runSteps returns a *Error whose Stage is the stage that failed.
func runSteps(ctx context.Context, q store.Querier, m Mutation) error {
	steps := []struct {
		stage Stage
		fn    Step
	}{
		{StageResolving, m.Resolve},
		{StageChecking, m.Check},
		{StageCommitted, m.Commit},
	}

	for _, s := range steps {
		if s.fn == nil {
			continue
		}
		if err := s.fn(ctx, q); err != nil {
			return asError(err, s.stage)
		}
	}
	return nil
}

func (p *Pipeline) abort(m Mutation, err *Error) *Error {
	attrs := []any{"operation", m.Name, "state", StageAborted, "stage", err.Stage, "kind", err.Kind, "error", err.Message}
	if err.Err != nil {
		attrs = append(attrs, "cause", err.Err)
	}

	if errors.Is(err, ErrUnexpected) {
		p.logger.Error("mutation aborted", attrs...)
	} else {
		p.logger.Warn("mutation aborted", attrs...)
	}
	return err
}
