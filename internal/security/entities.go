// Package security implements the customers API of the identity sample on a
// pgx connection pool.
package security

import (
	"embed"
	"strings"

	"github.com/google/uuid"

	"github.com/matheusmosca/layered-crud-samples/internal/notification"
)

// Migrations contém o schema do cenário
//
//go:embed migrations/*.sql
var Migrations embed.FS

// Códigos de notificação do cenário
const (
	CustomerNameMustHaveValue = "CustomerNameMustHaveValue"
	CouldNotFindCustomer      = "CouldNotFindCustomer"
)

// Customer representa um cliente
type Customer struct {
	ID   uuid.UUID
	Name string
}

// Validate aplica as regras obrigatórias de escrita
func (c Customer) Validate() notification.Set {
	var errs notification.Set
	errs.AddIf(strings.TrimSpace(c.Name) == "", CustomerNameMustHaveValue, "Customer name must have value")
	return errs
}
