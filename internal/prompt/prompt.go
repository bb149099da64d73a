// Package prompt builds the two-message prompt sent to the completion service.
package prompt

import (
	"strings"

	"github.com/askdb/askdb/internal/schema"
)

// Role identifies the author of a prompt message.
type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

const (
	systemPreamble = "Given the following SQL tables, your job is to write queries given a user’s request. "
	userPreamble   = "Translate the following request into a SQL query: "
)

// Message is one role-tagged entry of a prompt.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// DescribeTables renders groups as
// "Entity name: T has the following properties: C as TYPE.C2 as TYPE." with
// no separator between columns or tables.
func DescribeTables(groups []schema.TableGroup) string {
	var b strings.Builder
	for _, g := range groups {
		b.WriteString("Entity name: ")
		b.WriteString(g.Name)
		b.WriteString(" has the following properties: ")
		for _, c := range g.Columns {
			b.WriteString(c.ColumnName)
			b.WriteString(" as ")
			b.WriteString(c.DataType)
			b.WriteByte('.')
		}
	}
	return b.String()
}

// Build returns the system message describing the schema followed by the
// user message carrying request. Content is not escaped.
func Build(groups []schema.TableGroup, request string) []Message {
	return []Message{
		{Role: RoleSystem, Content: systemPreamble + DescribeTables(groups)},
		{Role: RoleUser, Content: userPreamble + request},
	}
}
