// Package schema turns catalog metadata into per-table column groups.
package schema

import (
	"context"
	"errors"
	"fmt"

	"github.com/askdb/askdb/internal/model"
)

// ErrNoColumns is returned when the catalog has no columns for the table.
var ErrNoColumns = errors.New("no columns found in catalog")

// Source lists catalog columns for tables matching a LIKE pattern.
type Source interface {
	IntrospectColumns(ctx context.Context, tablePattern string) ([]model.SchemaColumn, error)
}

// TableGroup is one table and its columns in catalog order.
type TableGroup struct {
	Name    string               `json:"name"`
	Columns []model.SchemaColumn `json:"columns"`
}

// GroupByTable groups columns by table name. Tables appear in the order they
// are first seen and each table's columns keep their input order.
func GroupByTable(cols []model.SchemaColumn) []TableGroup {
	var groups []TableGroup
	index := make(map[string]int)
	for _, c := range cols {
		i, ok := index[c.TableName]
		if !ok {
			i = len(groups)
			index[c.TableName] = i
			groups = append(groups, TableGroup{Name: c.TableName})
		}
		groups[i].Columns = append(groups[i].Columns, c)
	}
	return groups
}

// Introspector fetches and groups catalog metadata. Nothing is cached; every
// call hits the catalog.
type Introspector struct {
	source Source
}

// NewIntrospector creates an Introspector backed by src.
func NewIntrospector(src Source) *Introspector {
	return &Introspector{source: src}
}

// Describe returns the column groups for tables matching table.
func (i *Introspector) Describe(ctx context.Context, table string) ([]TableGroup, error) {
	cols, err := i.source.IntrospectColumns(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("introspect %q: %w", table, err)
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("table %q: %w", table, ErrNoColumns)
	}
	return GroupByTable(cols), nil
}
