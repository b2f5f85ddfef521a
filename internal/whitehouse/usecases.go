package whitehouse

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/matheusmosca/layered-crud-samples/internal/notification"
	"github.com/matheusmosca/layered-crud-samples/internal/repository"
)

// PresidentUseCase contém a lógica de negócio dos presidentes
type PresidentUseCase struct {
	store Store
	log   logrus.FieldLogger
}

// NewPresidentUseCase cria uma nova instância de PresidentUseCase
func NewPresidentUseCase(store Store, log logrus.FieldLogger) *PresidentUseCase {
	return &PresidentUseCase{
		store: store,
		log:   log,
	}
}

// GetAll lista uma página de presidentes
func (uc *PresidentUseCase) GetAll(ctx context.Context, page repository.Page) (notification.Result[[]PresidentDto], bool, error) {
	presidents, hasNext, err := uc.store.List(ctx, page)
	if err != nil {
		return notification.Result[[]PresidentDto]{}, false, fmt.Errorf("failed to list presidents: %w", err)
	}
	return notification.Ok(toPresidentDtos(presidents)), hasNext, nil
}

// Get busca um presidente pela identidade
func (uc *PresidentUseCase) Get(ctx context.Context, id string) (notification.Result[PresidentDto], error) {
	president, err := uc.store.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return notification.NotFound[PresidentDto](CouldNotFindPresident, CouldNotFindPresident), nil
	}
	if err != nil {
		return notification.Result[PresidentDto]{}, fmt.Errorf("failed to get president: %w", err)
	}
	return notification.Ok(toPresidentDto(president)), nil
}

// InsertAll valida todos os presidentes e só então persiste cada um.
// A identidade enviada pelo cliente é ignorada.
func (uc *PresidentUseCase) InsertAll(ctx context.Context, dtos []PresidentDto) (notification.Result[[]PresidentDto], error) {
	var errs notification.Set
	presidents := make([]President, 0, len(dtos))
	for _, dto := range dtos {
		president := fromPresidentDto(dto)
		president.ID = ""
		errs = append(errs, president.Validate()...)
		presidents = append(presidents, president)
	}
	if !errs.Empty() {
		uc.log.WithField("count", len(dtos)).Info("ℹ️ Presidents rejected by validation")
		return notification.Fail[[]PresidentDto](errs...), nil
	}

	created := make([]PresidentDto, 0, len(presidents))
	for _, president := range presidents {
		inserted, err := uc.store.Insert(ctx, president)
		if err != nil {
			uc.log.WithError(err).Error("❌ Failed to insert president")
			return notification.Result[[]PresidentDto]{}, fmt.Errorf("failed to insert president: %w", err)
		}
		uc.log.WithField("president_id", inserted.ID).Info("✅ President created")
		created = append(created, toPresidentDto(inserted))
	}
	return notification.Ok(created), nil
}

// Update valida e substitui um presidente existente
func (uc *PresidentUseCase) Update(ctx context.Context, id string, dto PresidentDto) (notification.Result[PresidentDto], error) {
	president := fromPresidentDto(dto)
	president.ID = id

	if errs := president.Validate(); !errs.Empty() {
		return notification.Fail[PresidentDto](errs...), nil
	}

	updated, err := uc.store.Update(ctx, president)
	if errors.Is(err, repository.ErrNotFound) {
		return notification.NotFound[PresidentDto](CouldNotFindPresident, CouldNotFindPresident), nil
	}
	if err != nil {
		return notification.Result[PresidentDto]{}, fmt.Errorf("failed to update president: %w", err)
	}

	uc.log.WithField("president_id", id).Info("✅ President updated")
	return notification.Ok(toPresidentDto(updated)), nil
}

// Delete remove um presidente
func (uc *PresidentUseCase) Delete(ctx context.Context, id string) (notification.Result[struct{}], error) {
	err := uc.store.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return notification.NotFound[struct{}](CouldNotFindPresident, CouldNotFindPresident), nil
	}
	if err != nil {
		return notification.Result[struct{}]{}, fmt.Errorf("failed to delete president: %w", err)
	}

	uc.log.WithField("president_id", id).Info("🗑️ President deleted")
	return notification.Ok(struct{}{}), nil
}
