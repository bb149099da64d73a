package query

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateTableName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		errMsg  string
	}{
		{"valid", "Person", false, ""},
		{"underscore prefix", "_people", false, ""},
		{"with numbers", "Person2", false, ""},
		{"empty", "", true, "cannot be empty"},
		{"wildcard", "Person%", true, "must match"},
		{"schema qualified", "dbo.Person", true, "must match"},
		{"injection", "Person'; DROP TABLE x--", true, "must match"},
		{"reserved word", "select", true, "reserved word"},
		{"too long", strings.Repeat("a", 129), true, "too long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTableName(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q, got nil", tt.input)
				} else if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("expected error containing %q, got %q", tt.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error for %q: %v", tt.input, err)
			}
		})
	}
}

func TestNormalizeRequest(t *testing.T) {
	got, err := NormalizeRequest("  all people named Ken\x00 ", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "all people named Ken" {
		t.Errorf("got %q", got)
	}

	if _, err := NormalizeRequest(" \t\n", 10); !errors.Is(err, ErrEmptyRequest) {
		t.Errorf("expected ErrEmptyRequest, got %v", err)
	}

	if _, err := NormalizeRequest(strings.Repeat("x", 11), 10); !errors.Is(err, ErrRequestTooLong) {
		t.Errorf("expected ErrRequestTooLong, got %v", err)
	}

	// Length is counted in characters, not bytes.
	if _, err := NormalizeRequest(strings.Repeat("é", 10), 10); err != nil {
		t.Errorf("unexpected error for 10 runes: %v", err)
	}
}
