package mysql

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func newMockConnector(t *testing.T, schemaName string) (*MySQLConnector, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &MySQLConnector{db: sqlx.NewDb(db, "mysql"), schemaName: schemaName}, mock
}

func TestIntrospectColumns(t *testing.T) {
	conn, mock := newMockConnector(t, "adventureworks")

	mock.ExpectQuery(regexp.QuoteMeta(columnsQuery)).
		WithArgs("Person", "adventureworks").
		WillReturnRows(sqlmock.NewRows([]string{"TableName", "ColumnName", "DataType", "SchemaName"}).
			AddRow("Person", "BusinessEntityID", "int", "adventureworks").
			AddRow("Person", "FirstName", "varchar", "adventureworks").
			AddRow("Person", "LastName", "varchar", "adventureworks"))

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
	if cols[1].DataType != "varchar" || cols[1].SchemaName != "adventureworks" {
		t.Errorf("unexpected column: %+v", cols[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sql expectations: %v", err)
	}
}

func TestIntrospectColumnsCurrentDatabase(t *testing.T) {
	conn, mock := newMockConnector(t, "")

	mock.ExpectQuery(regexp.QuoteMeta(columnsQuery)).
		WithArgs("Person", "").
		WillReturnRows(sqlmock.NewRows([]string{"TableName", "ColumnName", "DataType", "SchemaName"}))

	cols, err := conn.IntrospectColumns(context.Background(), "Person")
	if err != nil {
		t.Fatalf("IntrospectColumns() error = %v", err)
	}
	if len(cols) != 0 {
		t.Errorf("expected no columns, got %d", len(cols))
	}
	if !strings.Contains(columnsQuery, "DATABASE()") {
		t.Error("an empty schema should fall back to DATABASE()")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sql expectations: %v", err)
	}
}

func TestIntrospectColumnsPropagatesError(t *testing.T) {
	conn, mock := newMockConnector(t, "")

	mock.ExpectQuery(regexp.QuoteMeta(columnsQuery)).
		WithArgs("Person", "").
		WillReturnError(errors.New("Access denied for user 'askdb'"))

	_, err := conn.IntrospectColumns(context.Background(), "Person")
	if err == nil || !strings.Contains(err.Error(), "Access denied") {
		t.Errorf("expected wrapped driver error, got %v", err)
	}
}
