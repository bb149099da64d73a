// Package service composes the natural-language query pipeline and the
// bearer-token auth used in front of it.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/askdb/askdb/internal/completion"
	"github.com/askdb/askdb/internal/model"
	"github.com/askdb/askdb/internal/observability"
	"github.com/askdb/askdb/internal/prompt"
	"github.com/askdb/askdb/internal/query"
	"github.com/askdb/askdb/internal/schema"
)

// Options tune the query service.
type Options struct {
	Table            string
	MaxRequestLength int
}

// Translation is the output of the first three stages.
type Translation struct {
	Request    string           `json:"request"`
	Messages   []prompt.Message `json:"messages"`
	Completion string           `json:"completion"`
	Model      string           `json:"model"`
	SQL        string           `json:"sql"`
}

// QueryService runs introspect → prompt → complete → extract → execute.
// It keeps no state between calls.
type QueryService struct {
	introspector *schema.Introspector
	completer    completion.Client
	runner       query.Runner
	opts         Options
	logger       *slog.Logger
}

func NewQueryService(src schema.Source, completer completion.Client, runner query.Runner, opts Options, logger *slog.Logger) *QueryService {
	if opts.Table == "" {
		opts.Table = "Person"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &QueryService{
		introspector: schema.NewIntrospector(src),
		completer:    completer,
		runner:       runner,
		opts:         opts,
		logger:       logger,
	}
}

// Table returns the table whose schema is offered to the model.
func (s *QueryService) Table() string { return s.opts.Table }

// Describe returns the grouped schema for the configured table. A failure
// is logged and counted before it is returned.
func (s *QueryService) Describe(ctx context.Context) ([]schema.TableGroup, error) {
	groups, err := s.describe(ctx)
	if err != nil {
		s.report(ctx, "describe", nil, err)
		return nil, err
	}
	return groups, nil
}

// Translate turns request into SQL without executing it. On a no-SQL
// failure the partial translation is returned along with the error.
func (s *QueryService) Translate(ctx context.Context, request string) (*Translation, error) {
	t, err := s.translate(ctx, request)
	if err != nil {
		s.report(ctx, "translate", t, err)
	}
	return t, err
}

// Run executes the whole pipeline.
func (s *QueryService) Run(ctx context.Context, request string) ([]model.Person, error) {
	people, t, err := s.run(ctx, request)
	if err != nil {
		s.report(ctx, "run", t, err)
		return nil, err
	}

	observability.ObserveOutcome("ok", len(people))
	s.logger.InfoContext(ctx, "query succeeded",
		"request_id", observability.RequestIDFromContext(ctx),
		"subject", subjectFromContext(ctx),
		"model", t.Model, "sql", t.SQL, "rows", len(people))
	return people, nil
}

// report is the single place a failure is logged and counted. Every exported
// entry point goes through it exactly once.
func (s *QueryService) report(ctx context.Context, op string, t *Translation, err error) {
	kind := KindOf(err)
	observability.ObserveOutcome(string(kind), 0)
	attrs := []any{
		"op", op,
		"request_id", observability.RequestIDFromContext(ctx),
		"subject", subjectFromContext(ctx),
		"kind", kind,
		"error", err,
	}
	var e *Error
	if errors.As(err, &e) {
		attrs = append(attrs, "stage", e.Stage)
	}
	if t != nil {
		attrs = append(attrs, "model", t.Model, "completion", t.Completion)
	}
	if kind == KindInvalidRequest {
		s.logger.WarnContext(ctx, "query rejected", attrs...)
	} else {
		s.logger.ErrorContext(ctx, "query failed", attrs...)
	}
}

func (s *QueryService) describe(ctx context.Context) ([]schema.TableGroup, error) {
	start := time.Now()
	groups, err := s.introspector.Describe(ctx, s.opts.Table)
	observability.ObserveStage(string(StageIntrospect), time.Since(start))
	if err != nil {
		return nil, fail(KindUpstreamFailure, StageIntrospect, err)
	}
	return groups, nil
}

// translate validates a normalized copy of request but sends the request to
// the model as given.
func (s *QueryService) translate(ctx context.Context, request string) (*Translation, error) {
	if _, err := query.NormalizeRequest(request, s.opts.MaxRequestLength); err != nil {
		return nil, fail(KindInvalidRequest, StageValidate, err)
	}

	groups, err := s.describe(ctx)
	if err != nil {
		return nil, err
	}

	msgs := prompt.Build(groups, request)

	start := time.Now()
	res, err := s.completer.Complete(ctx, msgs)
	observability.ObserveStage(string(StageComplete), time.Since(start))
	if err != nil {
		return nil, fail(KindUpstreamFailure, StageComplete, err)
	}

	t := &Translation{Request: request, Messages: msgs, Completion: res.Text, Model: res.Model}
	sql, ok := query.ExtractSQL(res.Text)
	if !ok {
		return t, fail(KindNoSQLGenerated, StageExtract, ErrNoSQL)
	}
	t.SQL = sql
	return t, nil
}

func (s *QueryService) run(ctx context.Context, request string) ([]model.Person, *Translation, error) {
	t, err := s.translate(ctx, request)
	if err != nil {
		return nil, t, err
	}

	start := time.Now()
	people, err := s.runner.Run(ctx, t.SQL)
	observability.ObserveStage(string(StageExecute), time.Since(start))
	if err != nil {
		return nil, t, fail(KindExecutionFailure, StageExecute, err)
	}
	return people, t, nil
}
