// Package redisdoc implements repository.Repository as JSON documents in Redis.
//
// Keys, all under the configured namespace:
//
//	<ns>:seq        INCR counter that issues identities
//	<ns>:index      sorted set of identities, scored by issue order
//	<ns>:doc:<id>   JSON document
package redisdoc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-redis/redis/v8"

	"github.com/matheusmosca/layered-crud-samples/internal/repository"
)

// Store guarda agregados T como documentos JSON identificados por string
type Store[T any] struct {
	client    redis.Cmdable
	namespace string
	key       func(T) string
	assign    func(T, string) T
}

var _ repository.Repository[struct{}, string] = (*Store[struct{}])(nil)

// New cria uma nova instância de Store
func New[T any](client redis.Cmdable, namespace string, key func(T) string, assign func(T, string) T) *Store[T] {
	return &Store[T]{
		client:    client,
		namespace: namespace,
		key:       key,
		assign:    assign,
	}
}

func (s *Store[T]) seqKey() string          { return s.namespace + ":seq" }
func (s *Store[T]) indexKey() string        { return s.namespace + ":index" }
func (s *Store[T]) docKey(id string) string { return s.namespace + ":doc:" + id }

// Seed grava documentos com identidades numéricas conhecidas e avança a
// sequência para não reemiti-las. Um namespace que já tem sequência não é
// semeado de novo, preservando alterações feitas antes de um restart.
func (s *Store[T]) Seed(ctx context.Context, entities ...T) error {
	seeded, err := s.client.Exists(ctx, s.seqKey()).Result()
	if err != nil {
		return fmt.Errorf("failed to check sequence: %w", err)
	}
	if seeded > 0 {
		return nil
	}

	var highest int64
	for _, e := range entities {
		id := s.key(e)
		score, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return fmt.Errorf("seed identity %q is not numeric: %w", id, err)
		}
		if err := s.write(ctx, id, float64(score), e); err != nil {
			return err
		}
		highest = max(highest, score)
	}

	current, err := s.client.Get(ctx, s.seqKey()).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to read sequence: %w", err)
	}
	if current < highest {
		if err := s.client.Set(ctx, s.seqKey(), highest, 0).Err(); err != nil {
			return fmt.Errorf("failed to advance sequence: %w", err)
		}
	}
	return nil
}

// Get busca o documento pela identidade
func (s *Store[T]) Get(ctx context.Context, id string) (T, error) {
	var entity T

	raw, err := s.client.Get(ctx, s.docKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return entity, repository.ErrNotFound
	}
	if err != nil {
		return entity, fmt.Errorf("failed to get document %s: %w", id, err)
	}

	if err := json.Unmarshal(raw, &entity); err != nil {
		return entity, fmt.Errorf("failed to decode document %s: %w", id, err)
	}
	return entity, nil
}

// List retorna uma página de documentos na ordem de emissão das identidades
func (s *Store[T]) List(ctx context.Context, page repository.Page) ([]T, bool, error) {
	start := int64(page.Offset())
	stop := start + int64(page.Limit()) - 1

	ids, err := s.client.ZRange(ctx, s.indexKey(), start, stop).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to read index: %w", err)
	}
	if len(ids) == 0 {
		return []T{}, false, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, s.docKey(id))
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to read documents: %w", err)
	}

	out := make([]T, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// removido entre o ZRANGE e o MGET
			continue
		}
		var entity T
		if err := json.Unmarshal([]byte(raw), &entity); err != nil {
			return nil, false, fmt.Errorf("failed to decode document %s: %w", ids[i], err)
		}
		out = append(out, entity)
	}

	out, hasNext := repository.Trim(out, page)
	return out, hasNext, nil
}

// Insert emite uma nova identidade e grava o documento
func (s *Store[T]) Insert(ctx context.Context, entity T) (T, error) {
	seq, err := s.client.Incr(ctx, s.seqKey()).Result()
	if err != nil {
		return entity, fmt.Errorf("failed to issue identity: %w", err)
	}

	id := strconv.FormatInt(seq, 10)
	entity = s.assign(entity, id)
	if err := s.write(ctx, id, float64(seq), entity); err != nil {
		return entity, err
	}
	return entity, nil
}

// Update regrava um documento existente
func (s *Store[T]) Update(ctx context.Context, entity T) (T, error) {
	id := s.key(entity)
	raw, err := json.Marshal(entity)
	if err != nil {
		return entity, fmt.Errorf("failed to encode document %s: %w", id, err)
	}

	updated, err := s.client.SetXX(ctx, s.docKey(id), raw, 0).Result()
	if err != nil {
		return entity, fmt.Errorf("failed to update document %s: %w", id, err)
	}
	if !updated {
		return entity, repository.ErrNotFound
	}
	return entity, nil
}

// Delete remove o documento e sua entrada no índice
func (s *Store[T]) Delete(ctx context.Context, id string) error {
	var deleted *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		deleted = pipe.Del(ctx, s.docKey(id))
		pipe.ZRem(ctx, s.indexKey(), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete document %s: %w", id, err)
	}
	if deleted.Val() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (s *Store[T]) write(ctx context.Context, id string, score float64, entity T) error {
	raw, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to encode document %s: %w", id, err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.docKey(id), raw, 0)
		pipe.ZAdd(ctx, s.indexKey(), &redis.Z{Score: score, Member: id})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write document %s: %w", id, err)
	}
	return nil
}
