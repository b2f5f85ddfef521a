// Package whitehouse implements the presidents CRUD API backed by a document
// store (in memory or Redis).
package whitehouse

import (
	"strings"

	"github.com/matheusmosca/layered-crud-samples/internal/notification"
)

// Códigos de notificação do cenário
const (
	PresidentNameMustHaveValue    = "PresidentNameMustHaveValue"
	PresidentZipCodeMustHaveValue = "PresidentZipCodeMustHaveValue"
	CouldNotFindPresident         = "CouldNotFindPresident"
)

// Address representa o endereço de um presidente
type Address struct {
	Street     string `json:"street" yaml:"street"`
	Number     string `json:"number" yaml:"number"`
	Complement string `json:"complement" yaml:"complement"`
	ZipCode    string `json:"zipCode" yaml:"zipCode"`
}

// President representa um presidente armazenado
type President struct {
	ID      string  `json:"id" yaml:"id"`
	Name    string  `json:"name" yaml:"name"`
	Address Address `json:"address" yaml:"address"`
}

// Validate aplica as regras obrigatórias de escrita
func (p President) Validate() notification.Set {
	var errs notification.Set
	errs.AddIf(strings.TrimSpace(p.Name) == "", PresidentNameMustHaveValue, PresidentNameMustHaveValue)
	errs.AddIf(strings.TrimSpace(p.Address.ZipCode) == "", PresidentZipCodeMustHaveValue, PresidentZipCodeMustHaveValue)
	return errs
}

func presidentKey(p President) string { return p.ID }

func assignPresidentID(p President, id string) President {
	p.ID = id
	return p
}
