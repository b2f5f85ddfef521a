package supermarket

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matheusmosca/layered-crud-samples/internal/logging"
	"github.com/matheusmosca/layered-crud-samples/internal/repository"
)

func newOrderDto(lines ...ProductDto) PurchaseOrderDto {
	return PurchaseOrderDto{
		CustomerID: uuid.New(),
		Discount:   decimal.RequireFromString("2.50"),
		Products:   lines,
	}
}

func TestPurchaseOrderUseCase_Create_MergesDuplicates(t *testing.T) {
	// Arrange
	repo := NewMemoryRepository()
	uc := NewPurchaseOrderUseCase(repo, logging.Discard())
	product := uuid.New()

	// Act
	result, err := uc.Create(context.Background(), newOrderDto(
		ProductDto{ProductID: product, Quantity: 2},
		ProductDto{ProductID: product, Quantity: 3},
	))

	// Assert
	require.NoError(t, err)
	require.True(t, result.Success())
	assert.NotEqual(t, uuid.Nil, result.Data.ID)
	assert.Equal(t, []ProductDto{{ProductID: product, Quantity: 5}}, result.Data.Products)

	stored, err := repo.Get(context.Background(), result.Data.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Lines, 1)
}

func TestPurchaseOrderUseCase_Create_RoundsDiscount(t *testing.T) {
	repo := NewMemoryRepository()
	uc := NewPurchaseOrderUseCase(repo, logging.Discard())
	dto := newOrderDto(ProductDto{ProductID: uuid.New(), Quantity: 1})
	dto.Discount = decimal.RequireFromString("0.125")

	result, err := uc.Create(context.Background(), dto)

	require.NoError(t, err)
	require.True(t, result.Success())
	assert.True(t, decimal.RequireFromString("0.13").Equal(result.Data.Discount))

	stored, err := repo.Get(context.Background(), result.Data.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("0.13").Equal(stored.Discount))
}

func TestPurchaseOrderUseCase_Create_Invalid(t *testing.T) {
	repo := NewMemoryRepository()
	uc := NewPurchaseOrderUseCase(repo, logging.Discard())

	result, err := uc.Create(context.Background(), PurchaseOrderDto{})

	require.NoError(t, err)
	assert.False(t, result.Success())
	assert.True(t, result.Has(PurchaseOrderCustomerMustHaveValue))
	assert.Equal(t, 0, repo.Len())
}

func TestPurchaseOrderUseCase_Update_ReplacesLines(t *testing.T) {
	// Arrange
	repo := NewMemoryRepository()
	uc := NewPurchaseOrderUseCase(repo, logging.Discard())
	ctx := context.Background()
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	created, err := uc.Create(ctx, newOrderDto(
		ProductDto{ProductID: a, Quantity: 1},
		ProductDto{ProductID: b, Quantity: 1},
	))
	require.NoError(t, err)
	id := created.Data.ID

	// Act
	update := created.Data
	update.Products = []ProductDto{{ProductID: b, Quantity: 4}, {ProductID: c, Quantity: 1}}
	result, err := uc.Update(ctx, id, update)
	require.NoError(t, err)

	// Assert
	require.True(t, result.Success())
	got, err := uc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []ProductDto{{ProductID: b, Quantity: 4}, {ProductID: c, Quantity: 1}}, got.Data.Products)
}

func TestPurchaseOrderUseCase_Update_NotFound(t *testing.T) {
	repo := NewMemoryRepository()
	uc := NewPurchaseOrderUseCase(repo, logging.Discard())

	result, err := uc.Update(context.Background(), uuid.New(), newOrderDto(ProductDto{ProductID: uuid.New(), Quantity: 1}))

	require.NoError(t, err)
	assert.True(t, result.NotFound())
	assert.True(t, result.Has(CouldNotFindPurchaseOrder))
	assert.Equal(t, 0, repo.Len())
}

func TestPurchaseOrderUseCase_GetAll_And_Delete(t *testing.T) {
	repo := NewMemoryRepository()
	uc := NewPurchaseOrderUseCase(repo, logging.Discard())
	ctx := context.Background()

	first, err := uc.Create(ctx, newOrderDto(ProductDto{ProductID: uuid.New(), Quantity: 1}))
	require.NoError(t, err)
	_, err = uc.Create(ctx, newOrderDto(ProductDto{ProductID: uuid.New(), Quantity: 1}))
	require.NoError(t, err)

	page, hasNext, err := uc.GetAll(ctx, repository.NewPage(1, 1))
	require.NoError(t, err)
	assert.True(t, hasNext)
	assert.Equal(t, first.Data.ID, page.Data[0].ID)

	deleted, err := uc.Delete(ctx, first.Data.ID)
	require.NoError(t, err)
	assert.True(t, deleted.Success())

	missing, err := uc.Get(ctx, first.Data.ID)
	require.NoError(t, err)
	assert.True(t, missing.NotFound())
}
