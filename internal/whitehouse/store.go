package whitehouse

import (
	"context"
	_ "embed"
	"fmt"
	"strconv"

	"github.com/go-redis/redis/v8"
	"gopkg.in/yaml.v3"

	"github.com/matheusmosca/layered-crud-samples/internal/repository"
	"github.com/matheusmosca/layered-crud-samples/internal/repository/redisdoc"
)

// Drivers de armazenamento suportados
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// Store é o repositório de presidentes
type Store = repository.Repository[President, string]

//go:embed seed.yaml
var seedFile []byte

// SeedPresidents decodifica os presidentes iniciais embutidos no binário
func SeedPresidents() ([]President, error) {
	var presidents []President
	if err := yaml.Unmarshal(seedFile, &presidents); err != nil {
		return nil, fmt.Errorf("failed to decode seed: %w", err)
	}
	return presidents, nil
}

// NewMemoryStore cria o repositório em memória já semeado
func NewMemoryStore() (*repository.Memory[President, string], error) {
	presidents, err := SeedPresidents()
	if err != nil {
		return nil, err
	}

	store := repository.NewMemory(repository.Identity[President, string]{
		Key:    presidentKey,
		Assign: assignPresidentID,
		Next:   nextPresidentID,
	}, nil)
	store.Seed(presidents...)
	return store, nil
}

// NewRedisStore cria o repositório em Redis e grava o seed
func NewRedisStore(ctx context.Context, client redis.Cmdable) (*redisdoc.Store[President], error) {
	presidents, err := SeedPresidents()
	if err != nil {
		return nil, err
	}

	store := redisdoc.New(client, "whitehouse:presidents", presidentKey, assignPresidentID)
	if err := store.Seed(ctx, presidents...); err != nil {
		return nil, fmt.Errorf("failed to seed presidents: %w", err)
	}
	return store, nil
}

// NewStore escolhe o driver configurado
func NewStore(ctx context.Context, driver string, client redis.Cmdable) (Store, error) {
	switch driver {
	case DriverMemory, "":
		store, err := NewMemoryStore()
		if err != nil {
			return nil, err
		}
		return store, nil
	case DriverRedis:
		if client == nil {
			return nil, fmt.Errorf("redis driver requires a client")
		}
		store, err := NewRedisStore(ctx, client)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

func nextPresidentID(last string) string {
	n, err := strconv.ParseInt(last, 10, 64)
	if err != nil {
		n = 0
	}
	return strconv.FormatInt(n+1, 10)
}
