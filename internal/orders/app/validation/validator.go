// Package validation decides whether an order creation request may be
// accepted. Rules are evaluated in a fixed order and every failure is
// collected; checks that consult the repository or the daily counter run
// concurrently before the rules are evaluated.
package validation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dejobratic/catalog/internal/orders/domain"
	"github.com/dejobratic/catalog/internal/orders/ports"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of validating one request.
type Result struct {
	Failures []domain.Failure
}

// Valid reports whether no rule failed.
func (r Result) Valid() bool {
	return len(r.Failures) == 0
}

// Err returns the failures as a *domain.ValidationError, or nil when valid.
func (r Result) Err() error {
	if r.Valid() {
		return nil
	}
	return &domain.ValidationError{Failures: r.Failures}
}

type Validator struct {
	repo    ports.OrderRepository
	counter ports.DailyCounter
	rules   Rules
	now     func() time.Time
	logger  *slog.Logger
	table   []rule
}

type Option func(*Validator)

// WithRules overrides the default word lists and daily limit.
func WithRules(r Rules) Option {
	return func(v *Validator) { v.rules = r }
}

// WithClock sets the time source used for date rules and the daily counter.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) { v.now = now }
}

func NewValidator(repo ports.OrderRepository, counter ports.DailyCounter, logger *slog.Logger, opts ...Option) *Validator {
	v := &Validator{
		repo:    repo,
		counter: counter,
		rules:   DefaultRules(),
		now:     time.Now,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(v)
	}
	v.table = v.buildRules()
	return v
}

// Validate evaluates every rule against req. The returned error is reserved
// for infrastructure failures; rule violations are reported in the Result.
func (v *Validator) Validate(ctx context.Context, req domain.CreateOrderRequest) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	in := input{
		req:    req,
		title:  strings.TrimSpace(req.Title),
		author: strings.TrimSpace(req.Author),
		now:    v.now().UTC(),
	}

	if err := v.runChecks(ctx, &in); err != nil {
		return Result{}, err
	}

	var failures []domain.Failure
	for _, r := range v.table {
		if r.when != nil && !r.when(in) {
			continue
		}
		if r.broken(in) {
			failures = append(failures, domain.Failure{Field: r.field, Message: r.message, Err: r.err})
		}
	}

	return Result{Failures: failures}, nil
}

// runChecks performs the lookups against shared state concurrently and
// stores their outcome on in.
func (v *Validator) runChecks(ctx context.Context, in *input) error {
	g, gctx := errgroup.WithContext(ctx)

	if in.title != "" && in.author != "" {
		g.Go(func() error {
			v.logger.InfoContext(gctx, "checking title uniqueness", "title", in.title, "author", in.author)
			taken, err := v.repo.ExistsByTitleAndAuthor(gctx, in.title, in.author)
			if err != nil {
				return fmt.Errorf("check title uniqueness: %w", err)
			}
			if taken {
				v.logger.WarnContext(gctx, "title already exists for author", "title", in.title, "author", in.author)
			}
			in.titleTaken = taken
			return nil
		})
	}

	if isbn := strings.TrimSpace(in.req.ISBN); isbn != "" {
		g.Go(func() error {
			v.logger.InfoContext(gctx, "checking isbn uniqueness", "isbn", isbn)
			taken, err := v.repo.ExistsByISBN(gctx, isbn)
			if err != nil {
				return fmt.Errorf("check isbn uniqueness: %w", err)
			}
			if taken {
				v.logger.WarnContext(gctx, "isbn already exists", "isbn", isbn)
			}
			in.isbnTaken = taken
			return nil
		})
	}

	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		count := v.counter.Count(in.now)
		reason := businessRuleViolation(in.req, count, v.rules)
		if reason != "" {
			v.logger.WarnContext(gctx, "business rule violated",
				"reason", reason,
				"daily_count", count,
				"daily_limit", v.rules.DailyLimit,
			)
		}
		in.businessErr = reason
		return nil
	})

	return g.Wait()
}
