package model

import (
	"time"

	mssql "github.com/microsoft/go-mssqldb"
)

// Person is the row type that generated queries are mapped onto. It mirrors
// the AdventureWorks Person.Person table. Columns are matched by exact name,
// so a query may select any subset of them; a selected column with no field
// here fails the scan.
type Person struct {
	BusinessEntityID      int                     `json:"businessEntityId" db:"BusinessEntityID"`
	PersonType            string                  `json:"personType" db:"PersonType"`
	NameStyle             bool                    `json:"nameStyle" db:"NameStyle"`
	Title                 *string                 `json:"title,omitempty" db:"Title"`
	FirstName             string                  `json:"firstName" db:"FirstName"`
	MiddleName            *string                 `json:"middleName,omitempty" db:"MiddleName"`
	LastName              string                  `json:"lastName" db:"LastName"`
	Suffix                *string                 `json:"suffix,omitempty" db:"Suffix"`
	EmailPromotion        int                     `json:"emailPromotion" db:"EmailPromotion"`
	AdditionalContactInfo *string                 `json:"additionalContactInfo,omitempty" db:"AdditionalContactInfo"`
	Demographics          *string                 `json:"demographics,omitempty" db:"Demographics"`
	RowGUID               *mssql.UniqueIdentifier `json:"rowguid,omitempty" db:"rowguid"`
	ModifiedDate          time.Time               `json:"modifiedDate" db:"ModifiedDate"`
}
