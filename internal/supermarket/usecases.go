package supermarket

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/matheusmosca/layered-crud-samples/internal/notification"
	"github.com/matheusmosca/layered-crud-samples/internal/repository"
)

// Repository é o contrato de persistência dos pedidos
type Repository = repository.Repository[PurchaseOrder, uuid.UUID]

// PurchaseOrderUseCase contém a lógica de negócio dos pedidos de compra
type PurchaseOrderUseCase struct {
	repository Repository
	log        logrus.FieldLogger
}

// NewPurchaseOrderUseCase cria uma nova instância de PurchaseOrderUseCase
func NewPurchaseOrderUseCase(repository Repository, log logrus.FieldLogger) *PurchaseOrderUseCase {
	return &PurchaseOrderUseCase{
		repository: repository,
		log:        log,
	}
}

// NewMemoryRepository cria um repositório em memória para desenvolvimento e testes
func NewMemoryRepository() *repository.Memory[PurchaseOrder, uuid.UUID] {
	return repository.NewMemory(repository.Identity[PurchaseOrder, uuid.UUID]{
		Key: func(po PurchaseOrder) uuid.UUID { return po.ID },
		Assign: func(po PurchaseOrder, id uuid.UUID) PurchaseOrder {
			po.ID = id
			return po
		},
		Next: func(uuid.UUID) uuid.UUID { return uuid.New() },
	}, clonePurchaseOrder)
}

// GetAll lista uma página de pedidos
func (uc *PurchaseOrderUseCase) GetAll(ctx context.Context, page repository.Page) (notification.Result[[]PurchaseOrderDto], bool, error) {
	orders, hasNext, err := uc.repository.List(ctx, page)
	if err != nil {
		return notification.Result[[]PurchaseOrderDto]{}, false, fmt.Errorf("failed to list purchase orders: %w", err)
	}

	dtos := make([]PurchaseOrderDto, 0, len(orders))
	for _, po := range orders {
		dtos = append(dtos, toPurchaseOrderDto(po))
	}
	return notification.Ok(dtos), hasNext, nil
}

// Get busca um pedido com suas linhas
func (uc *PurchaseOrderUseCase) Get(ctx context.Context, id uuid.UUID) (notification.Result[PurchaseOrderDto], error) {
	po, err := uc.repository.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound[PurchaseOrderDto](), nil
	}
	if err != nil {
		return notification.Result[PurchaseOrderDto]{}, fmt.Errorf("failed to get purchase order: %w", err)
	}
	return notification.Ok(toPurchaseOrderDto(po)), nil
}

// Create valida, mescla linhas repetidas e cria o pedido
func (uc *PurchaseOrderUseCase) Create(ctx context.Context, dto PurchaseOrderDto) (notification.Result[PurchaseOrderDto], error) {
	po := fromPurchaseOrderDto(dto)
	if errs := po.Validate(); !errs.Empty() {
		return notification.Fail[PurchaseOrderDto](errs...), nil
	}
	po.Lines = MergeLines(po.Lines)
	po.Discount = po.Discount.Round(moneyScale)

	created, err := uc.repository.Insert(ctx, po)
	if err != nil {
		uc.log.WithError(err).Error("❌ Failed to create purchase order")
		return notification.Result[PurchaseOrderDto]{}, fmt.Errorf("failed to create purchase order: %w", err)
	}

	uc.log.WithFields(logrus.Fields{
		"purchase_order_id": created.ID,
		"lines":             len(created.Lines),
	}).Info("✅ Purchase order created")
	return notification.Ok(toPurchaseOrderDto(created)), nil
}

// Update valida e substitui o pedido e todas as suas linhas
func (uc *PurchaseOrderUseCase) Update(ctx context.Context, id uuid.UUID, dto PurchaseOrderDto) (notification.Result[PurchaseOrderDto], error) {
	po := fromPurchaseOrderDto(dto)
	po.ID = id
	if errs := po.Validate(); !errs.Empty() {
		return notification.Fail[PurchaseOrderDto](errs...), nil
	}
	po.Lines = MergeLines(po.Lines)
	po.Discount = po.Discount.Round(moneyScale)

	updated, err := uc.repository.Update(ctx, po)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound[PurchaseOrderDto](), nil
	}
	if err != nil {
		uc.log.WithError(err).Error("❌ Failed to update purchase order")
		return notification.Result[PurchaseOrderDto]{}, fmt.Errorf("failed to update purchase order: %w", err)
	}

	uc.log.WithField("purchase_order_id", id).Info("✅ Purchase order updated")
	return notification.Ok(toPurchaseOrderDto(updated)), nil
}

// Delete remove o pedido e suas linhas
func (uc *PurchaseOrderUseCase) Delete(ctx context.Context, id uuid.UUID) (notification.Result[struct{}], error) {
	err := uc.repository.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound[struct{}](), nil
	}
	if err != nil {
		return notification.Result[struct{}]{}, fmt.Errorf("failed to delete purchase order: %w", err)
	}

	uc.log.WithField("purchase_order_id", id).Info("🗑️ Purchase order deleted")
	return notification.Ok(struct{}{}), nil
}

func notFound[T any]() notification.Result[T] {
	return notification.NotFound[T](CouldNotFindPurchaseOrder, "Could not find purchase order")
}
