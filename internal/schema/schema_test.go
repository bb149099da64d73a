package schema

import (
	"context"
	"errors"
	"testing"

	"github.com/askdb/askdb/internal/model"
)

type fakeSource struct {
	cols    []model.SchemaColumn
	err     error
	pattern string
}

func (f *fakeSource) IntrospectColumns(_ context.Context, tablePattern string) ([]model.SchemaColumn, error) {
	f.pattern = tablePattern
	return f.cols, f.err
}

func col(table, name, typ string) model.SchemaColumn {
	return model.SchemaColumn{TableName: table, ColumnName: name, DataType: typ, SchemaName: "dbo"}
}

func TestGroupByTable(t *testing.T) {
	cols := []model.SchemaColumn{
		col("Person", "FirstName", "nvarchar"),
		col("Address", "City", "nvarchar"),
		col("Person", "LastName", "nvarchar"),
		col("Address", "PostalCode", "nvarchar"),
	}

	groups := GroupByTable(cols)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Name != "Person" || groups[1].Name != "Address" {
		t.Errorf("unexpected group order: %q, %q", groups[0].Name, groups[1].Name)
	}
	if got := groups[0].Columns[1].ColumnName; got != "LastName" {
		t.Errorf("expected LastName second, got %q", got)
	}
	if got := groups[1].Columns[0].ColumnName; got != "City" {
		t.Errorf("expected City first, got %q", got)
	}
}

func TestGroupByTable_Empty(t *testing.T) {
	if groups := GroupByTable(nil); len(groups) != 0 {
		t.Errorf("expected no groups, got %d", len(groups))
	}
}

func TestDescribe(t *testing.T) {
	src := &fakeSource{cols: []model.SchemaColumn{
		col("Person", "FirstName", "nvarchar"),
		col("Person", "LastName", "nvarchar"),
	}}

	groups, err := NewIntrospector(src).Describe(context.Background(), "Person")
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if src.pattern != "Person" {
		t.Errorf("expected pattern Person, got %q", src.pattern)
	}
	if len(groups) != 1 || len(groups[0].Columns) != 2 {
		t.Errorf("unexpected groups: %+v", groups)
	}
}

func TestDescribe_NoColumns(t *testing.T) {
	_, err := NewIntrospector(&fakeSource{}).Describe(context.Background(), "Person")
	if !errors.Is(err, ErrNoColumns) {
		t.Fatalf("expected ErrNoColumns, got %v", err)
	}
}

func TestDescribe_SourceError(t *testing.T) {
	boom := errors.New("connection refused")
	_, err := NewIntrospector(&fakeSource{err: boom}).Describe(context.Background(), "Person")
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped source error, got %v", err)
	}
}
