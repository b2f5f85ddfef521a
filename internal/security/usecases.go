package security

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/matheusmosca/layered-crud-samples/internal/notification"
	"github.com/matheusmosca/layered-crud-samples/internal/repository"
)

// CustomerUseCase contém a lógica de negócio dos clientes
type CustomerUseCase struct {
	repository CustomerRepository
	log        logrus.FieldLogger
}

// NewCustomerUseCase cria uma nova instância de CustomerUseCase
func NewCustomerUseCase(repository CustomerRepository, log logrus.FieldLogger) *CustomerUseCase {
	return &CustomerUseCase{
		repository: repository,
		log:        log,
	}
}

// GetAll lista clientes paginados, com filtro opcional por nome
func (uc *CustomerUseCase) GetAll(ctx context.Context, req CustomerRequestAllDto) (notification.Result[[]CustomerDto], bool, error) {
	customers, hasNext, err := uc.repository.Search(ctx, req.Name, req.Page)
	if err != nil {
		return notification.Result[[]CustomerDto]{}, false, fmt.Errorf("failed to list customers: %w", err)
	}

	dtos := make([]CustomerDto, 0, len(customers))
	for _, c := range customers {
		dtos = append(dtos, toCustomerDto(c))
	}
	return notification.Ok(dtos), hasNext, nil
}

// Get busca um cliente
func (uc *CustomerUseCase) Get(ctx context.Context, id uuid.UUID) (notification.Result[CustomerDto], error) {
	customer, err := uc.repository.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound[CustomerDto](), nil
	}
	if err != nil {
		return notification.Result[CustomerDto]{}, err
	}
	return notification.Ok(toCustomerDto(customer)), nil
}

// Create valida e cria um cliente
func (uc *CustomerUseCase) Create(ctx context.Context, dto CustomerDto) (notification.Result[CustomerDto], error) {
	customer := fromCustomerDto(dto)
	if errs := customer.Validate(); !errs.Empty() {
		return notification.Fail[CustomerDto](errs...), nil
	}

	created, err := uc.repository.Insert(ctx, customer)
	if err != nil {
		uc.log.WithError(err).Error("❌ Failed to create customer")
		return notification.Result[CustomerDto]{}, err
	}

	uc.log.WithField("customer_id", created.ID).Info("✅ Customer created")
	return notification.Ok(toCustomerDto(created)), nil
}

// Update valida e altera um cliente existente
func (uc *CustomerUseCase) Update(ctx context.Context, id uuid.UUID, dto CustomerDto) (notification.Result[CustomerDto], error) {
	customer := fromCustomerDto(dto)
	customer.ID = id
	if errs := customer.Validate(); !errs.Empty() {
		return notification.Fail[CustomerDto](errs...), nil
	}

	updated, err := uc.repository.Update(ctx, customer)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound[CustomerDto](), nil
	}
	if err != nil {
		uc.log.WithError(err).Error("❌ Failed to update customer")
		return notification.Result[CustomerDto]{}, err
	}

	uc.log.WithField("customer_id", id).Info("✅ Customer updated")
	return notification.Ok(toCustomerDto(updated)), nil
}

// Delete remove um cliente
func (uc *CustomerUseCase) Delete(ctx context.Context, id uuid.UUID) (notification.Result[struct{}], error) {
	err := uc.repository.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound[struct{}](), nil
	}
	if err != nil {
		return notification.Result[struct{}]{}, err
	}

	uc.log.WithField("customer_id", id).Info("🗑️ Customer deleted")
	return notification.Ok(struct{}{}), nil
}

func notFound[T any]() notification.Result[T] {
	return notification.NotFound[T](CouldNotFindCustomer, "Could not find customer")
}
