package repository

import (
	"context"
	"slices"
	"sync"
)

// Identity descreve como ler, atribuir e gerar a identidade de T
type Identity[T any, K comparable] struct {
	Key    func(T) K
	Assign func(T, K) T
	// Next recebe a última identidade emitida (ou semeada) e gera a próxima
	Next func(last K) K
}

// Memory é uma implementação em memória de Repository, segura para uso
// concorrente. Usada em testes e desenvolvimento local. A listagem segue a
// ordem de inserção.
type Memory[T any, K comparable] struct {
	mu    sync.RWMutex
	rows  map[K]T
	order []K
	last  K
	id    Identity[T, K]
	clone func(T) T
}

var _ Repository[struct{}, int] = (*Memory[struct{}, int])(nil)

// NewMemory cria um repositório em memória vazio. clone pode ser nil quando T
// não possui coleções compartilháveis.
func NewMemory[T any, K comparable](id Identity[T, K], clone func(T) T) *Memory[T, K] {
	if clone == nil {
		clone = func(t T) T { return t }
	}
	return &Memory[T, K]{
		rows:  make(map[K]T),
		id:    id,
		clone: clone,
	}
}

// Seed carrega registros mantendo suas identidades
func (m *Memory[T, K]) Seed(entities ...T) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range entities {
		k := m.id.Key(e)
		if _, exists := m.rows[k]; !exists {
			m.order = append(m.order, k)
		}
		m.rows[k] = m.clone(e)
		m.last = k
	}
}

// Get busca o registro pela identidade
func (m *Memory[T, K]) Get(_ context.Context, id K) (T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	row, ok := m.rows[id]
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	return m.clone(row), nil
}

// List retorna uma página de registros
func (m *Memory[T, K]) List(_ context.Context, page Page) ([]T, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if page.Offset() >= len(m.order) {
		return []T{}, false, nil
	}
	keys := m.order[page.Offset():min(len(m.order), page.Offset()+page.Limit())]

	out := make([]T, 0, len(keys))
	for _, k := range keys {
		out = append(out, m.clone(m.rows[k]))
	}
	out, hasNext := Trim(out, page)
	return out, hasNext, nil
}

// Insert gera uma nova identidade e armazena o registro
func (m *Memory[T, K]) Insert(_ context.Context, entity T) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := m.id.Next(m.last)
	for {
		if _, taken := m.rows[k]; !taken {
			break
		}
		k = m.id.Next(k)
	}
	m.last = k

	entity = m.id.Assign(entity, k)
	m.rows[k] = m.clone(entity)
	m.order = append(m.order, k)
	return m.clone(entity), nil
}

// Update substitui o registro existente
func (m *Memory[T, K]) Update(_ context.Context, entity T) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := m.id.Key(entity)
	if _, ok := m.rows[k]; !ok {
		var zero T
		return zero, ErrNotFound
	}
	m.rows[k] = m.clone(entity)
	return m.clone(entity), nil
}

// Delete remove o registro
func (m *Memory[T, K]) Delete(_ context.Context, id K) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rows[id]; !ok {
		return ErrNotFound
	}
	delete(m.rows, id)
	m.order = slices.DeleteFunc(m.order, func(k K) bool { return k == id })
	return nil
}

// Len retorna a quantidade de registros armazenados
func (m *Memory[T, K]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rows)
}
