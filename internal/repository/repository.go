// Package repository defines the data-access contract shared by every
// scenario. Each store technology provides its own implementation; use cases
// depend only on the interface.
package repository

import (
	"context"
	"errors"
)

// ErrNotFound é retornado quando nenhuma linha corresponde à identidade
var ErrNotFound = errors.New("not found")

// DefaultPageSize é usado quando a página não informa tamanho
const DefaultPageSize = 10

// Repository define as operações de CRUD de um agregado T com identidade K
type Repository[T any, K comparable] interface {
	// Get busca o agregado pela identidade
	Get(ctx context.Context, id K) (T, error)

	// List retorna uma página de agregados e se existe próxima página
	List(ctx context.Context, page Page) ([]T, bool, error)

	// Insert atribui uma nova identidade e persiste o agregado
	Insert(ctx context.Context, entity T) (T, error)

	// Update persiste um agregado já existente
	Update(ctx context.Context, entity T) (T, error)

	// Delete remove o agregado e seus dependentes
	Delete(ctx context.Context, id K) error
}

// Page representa uma página de consulta (Number começa em 1)
type Page struct {
	Number int
	Size   int
}

// NewPage cria uma página normalizada
func NewPage(number, size int) Page {
	p := Page{Number: number, Size: size}
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	return p
}

// Offset retorna a quantidade de registros a pular
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// Limit retorna quantos registros buscar: um a mais que o tamanho da página
// para descobrir se existe próxima página
func (p Page) Limit() int {
	return p.Size + 1
}

// Trim corta o registro extra buscado por Limit e informa se há próxima página
func Trim[T any](items []T, p Page) ([]T, bool) {
	if len(items) > p.Size {
		return items[:p.Size], true
	}
	return items, false
}
