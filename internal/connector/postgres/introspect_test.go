package postgres

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func newMockConnector(t *testing.T, schemaName string) (*PostgresConnector, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PostgresConnector{db: sqlx.NewDb(db, "pgx"), schemaName: schemaName}, mock
}

func TestIntrospectColumns(t *testing.T) {
	conn, mock := newMockConnector(t, "person")

	mock.ExpectQuery(regexp.QuoteMeta(columnsQuery)).
		WithArgs("Person", "person").
		WillReturnRows(sqlmock.NewRows([]string{"TableName", "ColumnName", "DataType", "SchemaName"}).
			AddRow("Person", "BusinessEntityID", "integer", "person").
			AddRow("Person", "FirstName", "character varying", "person").
			AddRow("Person", "LastName", "character varying", "person"))

	cols, err := conn.IntrospectColumns(context.Background(), "Person")
	if err != nil {
		t.Fatalf("IntrospectColumns() error = %v", err)
	}
	if len(cols) != 3 {
		t.Fatalf("expected 3 columns, got %d", len(cols))
	}
	if cols[0].ColumnName != "BusinessEntityID" || cols[2].ColumnName != "LastName" {
		t.Errorf("columns out of order: %+v", cols)
	}
	if cols[1].DataType != "character varying" || cols[1].SchemaName != "person" {
		t.Errorf("unexpected column: %+v", cols[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sql expectations: %v", err)
	}
}

func TestDefaultSchema(t *testing.T) {
	if got := New().SchemaName(); got != "public" {
		t.Errorf("default schema = %q, want public", got)
	}
}

func TestIntrospectColumnsPropagatesError(t *testing.T) {
	conn, mock := newMockConnector(t, "public")

	mock.ExpectQuery(regexp.QuoteMeta(columnsQuery)).
		WithArgs("Person", "public").
		WillReturnError(errors.New("password authentication failed"))

	_, err := conn.IntrospectColumns(context.Background(), "Person")
	if err == nil || !strings.Contains(err.Error(), "password authentication failed") {
		t.Errorf("expected wrapped driver error, got %v", err)
	}
}

func TestCatalogQueryShape(t *testing.T) {
	for _, want := range []string{"information_schema.columns", "LIKE $1", "ORDER BY c.table_name, c.ordinal_position"} {
		if !strings.Contains(columnsQuery, want) {
			t.Errorf("catalog query should contain %q", want)
		}
	}
}
