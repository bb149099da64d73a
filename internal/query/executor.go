package query

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/askdb/askdb/internal/model"
)

// Runner executes a raw SQL string and maps the rows onto Person.
type Runner interface {
	Run(ctx context.Context, sql string) ([]model.Person, error)
}

// Executor runs generated SQL verbatim: no parameters, no statement
// whitelist, no row or time limit beyond ctx.
type Executor struct {
	db *sqlx.DB
}

// NewExecutor creates an Executor on db.
func NewExecutor(db *sqlx.DB) *Executor {
	return &Executor{db: db}
}

// Run executes sql and returns the mapped rows. Columns without a matching
// Person field or with incompatible types fail the whole call. Zero rows
// yield an empty, non-nil slice.
func (e *Executor) Run(ctx context.Context, sql string) ([]model.Person, error) {
	people := []model.Person{}
	if err := e.db.SelectContext(ctx, &people, sql); err != nil {
		return nil, fmt.Errorf("execute generated sql: %w", err)
	}
	return people, nil
}
