package openapi

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/askdb/askdb/internal/model"
	"github.com/askdb/askdb/internal/schema"
)

func TestGenerateRoundTripsThroughLoader(t *testing.T) {
	doc := Generate(Options{Version: "v1.0.0", ServerURL: "http://localhost:8080", AuthEnabled: true})

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	loaded, err := openapi3.NewLoader().LoadFromData(data)
	if err != nil {
		t.Fatalf("load generated document: %v", err)
	}
	if err := loaded.Validate(context.Background()); err != nil {
		t.Fatalf("generated document is invalid: %v", err)
	}
}

func TestGeneratePaths(t *testing.T) {
	doc := Generate(Options{})

	if doc.Info.Version != "dev" {
		t.Errorf("version = %q, want dev", doc.Info.Version)
	}
	if !strings.Contains(doc.Info.Description, "Person") {
		t.Errorf("description should name the default table: %q", doc.Info.Description)
	}
	for _, path := range []string{"/person", "/healthz", "/readyz"} {
		if doc.Paths.Find(path) == nil {
			t.Errorf("missing path %s", path)
		}
	}

	op := doc.Paths.Find("/person").Get
	if len(op.Parameters) != 1 || op.Parameters[0].Value.Name != "q" || !op.Parameters[0].Value.Required {
		t.Errorf("expected required q parameter, got %+v", op.Parameters)
	}
	for _, code := range []string{"200", "400", "500"} {
		if op.Responses.Value(code) == nil {
			t.Errorf("missing %s response", code)
		}
	}
	if op.Responses.Value("401") != nil || op.Security != nil {
		t.Error("auth disabled should not document 401 or security")
	}
}

func TestGenerateAuthEnabled(t *testing.T) {
	doc := Generate(Options{AuthEnabled: true})

	if _, ok := doc.Components.SecuritySchemes["bearerAuth"]; !ok {
		t.Fatal("expected bearerAuth security scheme")
	}
	op := doc.Paths.Find("/person").Get
	if op.Security == nil || op.Responses.Value("401") == nil {
		t.Error("expected security requirement and 401 response")
	}
}

func TestPersonSchemaFromModel(t *testing.T) {
	doc := Generate(Options{})
	person := doc.Components.Schemas["Person"].Value

	tests := []struct {
		prop     string
		typ      string
		format   string
		nullable bool
	}{
		{"businessEntityId", "integer", "int32", false},
		{"firstName", "string", "", false},
		{"nameStyle", "boolean", "", false},
		{"title", "string", "", true},
		{"rowguid", "string", "uuid", true},
		{"modifiedDate", "string", "date-time", false},
	}
	for _, tt := range tests {
		t.Run(tt.prop, func(t *testing.T) {
			ref, ok := person.Properties[tt.prop]
			if !ok {
				t.Fatalf("missing property %s", tt.prop)
			}
			if !ref.Value.Type.Is(tt.typ) {
				t.Errorf("type = %v, want %s", ref.Value.Type, tt.typ)
			}
			if ref.Value.Format != tt.format {
				t.Errorf("format = %q, want %q", ref.Value.Format, tt.format)
			}
			if ref.Value.Nullable != tt.nullable {
				t.Errorf("nullable = %v, want %v", ref.Value.Nullable, tt.nullable)
			}
		})
	}

	required := strings.Join(person.Required, ",")
	if !strings.Contains(required, "lastName") || strings.Contains(required, "middleName") {
		t.Errorf("required = %v", person.Required)
	}
}

func TestPersonSchemaCatalogAnnotations(t *testing.T) {
	groups := []schema.TableGroup{{
		Name: "Person",
		Columns: []model.SchemaColumn{
			{TableName: "Person", ColumnName: "FirstName", DataType: "nvarchar", SchemaName: "Person"},
			{TableName: "Person", ColumnName: "ModifiedDate", DataType: "datetime", SchemaName: "Person"},
		},
	}}
	person := Generate(Options{Groups: groups}).Components.Schemas["Person"].Value

	if got := person.Properties["firstName"].Value.Description; got != "Person.Person.FirstName (nvarchar)" {
		t.Errorf("firstName description = %q", got)
	}
	if got := person.Properties["lastName"].Value.Description; got != "Column LastName" {
		t.Errorf("lastName description = %q", got)
	}
}

func TestMapDBType(t *testing.T) {
	tests := []struct {
		in   string
		want TypeMapping
	}{
		{"int", TypeMapping{"integer", "int32"}},
		{"BIGINT", TypeMapping{"integer", "int64"}},
		{"bit", TypeMapping{"boolean", ""}},
		{"geography", TypeMapping{"string", ""}},
	}
	for _, tt := range tests {
		if got := MapDBType(tt.in); got != tt.want {
			t.Errorf("MapDBType(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}
