package cataloging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	eventmocks "github.com/vfg2006/business-manager-api/infrastructure/events/mocks"
	"github.com/vfg2006/business-manager-api/infrastructure/repository"
	"github.com/vfg2006/business-manager-api/infrastructure/repository/mocks"
	"github.com/vfg2006/business-manager-api/internal/domain"
	"go.uber.org/mock/gomock"
)

type testDeps struct {
	categories *mocks.MockCategoryRepository
	products   *mocks.MockProductRepository
	publisher  *eventmocks.MockPublisher
}

func newTestService(t *testing.T) (Cataloger, testDeps) {
	ctrl := gomock.NewController(t)
	deps := testDeps{
		categories: mocks.NewMockCategoryRepository(ctrl),
		products:   mocks.NewMockProductRepository(ctrl),
		publisher:  eventmocks.NewMockPublisher(ctrl),
	}
	return NewService(deps.categories, deps.products, deps.publisher), deps
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func TestCreateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("gera SKU e aplica limite padrão", func(t *testing.T) {
		service, deps := newTestService(t)

		deps.categories.EXPECT().GetByID(ctx, 1, 4).Return(&domain.Category{ID: 4, BusinessID: 1}, nil)
		deps.products.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, p *domain.Product) (*domain.Product, error) {
			p.ID = 20
			return p, nil
		})

		product, err := service.CreateProduct(ctx, &domain.Product{
			BusinessID: 1,
			CategoryID: intPtr(4),
			Name:       " Café Torrado ",
			Price:      19.999,
			Stock:      10,
		})
		require.NoError(t, err)
		assert.Equal(t, 20, product.ID)
		assert.Equal(t, "Café Torrado", product.Name)
		assert.Regexp(t, `^CAF-[A-Z2-9]{6}$`, product.SKU)
		assert.Equal(t, 20.0, product.Price)
		assert.Equal(t, domain.DefaultLowStockThreshold, product.LowStockThreshold)
	})

	t.Run("categoria de outro negócio", func(t *testing.T) {
		service, deps := newTestService(t)

		deps.categories.EXPECT().GetByID(ctx, 1, 99).Return(nil, nil)

		_, err := service.CreateProduct(ctx, &domain.Product{BusinessID: 1, CategoryID: intPtr(99), Name: "Chá"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("SKU duplicado", func(t *testing.T) {
		service, deps := newTestService(t)

		deps.products.EXPECT().Create(ctx, gomock.Any()).Return(nil, repository.ErrConflict)

		_, err := service.CreateProduct(ctx, &domain.Product{BusinessID: 1, Name: "Chá", SKU: "CHA-1"})
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	tests := []struct {
		name    string
		product domain.Product
	}{
		{"sem nome", domain.Product{Price: 1}},
		{"preço negativo", domain.Product{Name: "Chá", Price: -1}},
		{"custo negativo", domain.Product{Name: "Chá", Cost: -1}},
		{"estoque negativo", domain.Product{Name: "Chá", Stock: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _ := newTestService(t)

			_, err := service.CreateProduct(ctx, &tt.product)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestUpdateProduct(t *testing.T) {
	ctx := context.Background()
	service, deps := newTestService(t)

	deps.products.EXPECT().GetByID(ctx, 1, 20).Return(&domain.Product{
		ID: 20, BusinessID: 1, CategoryID: intPtr(4), Name: "Café", SKU: "CAF-1", Price: 10, Stock: 3, LowStockThreshold: 2,
	}, nil)
	deps.products.EXPECT().Update(ctx, gomock.Any()).Return(nil)

	price := 12.5
	product, err := service.UpdateProduct(ctx, &domain.UpdateProductRequest{
		ID:         20,
		BusinessID: 1,
		Price:      &price,
		CategoryID: intPtr(0),
	})
	require.NoError(t, err)
	assert.Equal(t, 12.5, product.Price)
	assert.Nil(t, product.CategoryID)
	assert.Equal(t, "CAF-1", product.SKU)
	assert.Equal(t, 3, product.Stock)
}

func TestListProducts_LowStock(t *testing.T) {
	ctx := context.Background()
	service, deps := newTestService(t)

	deps.products.EXPECT().List(ctx, domain.ProductFilters{BusinessID: 1, Search: "café", LowStock: true}).
		Return([]domain.Product{{ID: 20, BusinessID: 1, Name: "Café", Stock: 1, LowStockThreshold: 5}}, nil)

	products, err := service.ListProducts(ctx, domain.ProductFilters{BusinessID: 1, Search: " café ", LowStock: true})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 20, products[0].ID)
}

func TestExportProducts(t *testing.T) {
	ctx := context.Background()
	service, deps := newTestService(t)

	deps.products.EXPECT().List(ctx, domain.ProductFilters{BusinessID: 1}).Return([]domain.Product{
		{Name: "Café", SKU: "CAF-1", Price: 10, Cost: 4.5, Stock: 3, LowStockThreshold: 5, CategoryID: intPtr(4)},
		{Name: "Pão, francês", SKU: "PAO-1", Price: 0.8, Stock: 100, LowStockThreshold: 10},
	}, nil)
	deps.categories.EXPECT().List(ctx, 1).Return([]domain.Category{{ID: 4, Name: "Bebidas"}}, nil)

	text, err := service.ExportProducts(ctx, 1)
	require.NoError(t, err)

	expected := "name,sku,description,price,cost,stock,low_stock_threshold,category\n" +
		"Café,CAF-1,,10.00,4.50,3,5,Bebidas\n" +
		`"Pão, francês",PAO-1,,0.80,0.00,100,10,`
	assert.Equal(t, expected, text)
}

func TestExportProducts_Empty(t *testing.T) {
	ctx := context.Background()
	service, deps := newTestService(t)

	deps.products.EXPECT().List(ctx, gomock.Any()).Return([]domain.Product{}, nil)
	deps.categories.EXPECT().List(ctx, 1).Return([]domain.Category{}, nil)

	text, err := service.ExportProducts(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "name,sku,description,price,cost,stock,low_stock_threshold,category", text)
}

func TestImportProducts(t *testing.T) {
	ctx := context.Background()
	service, deps := newTestService(t)

	text := "name,sku,price,stock,category\n" +
		"Café,CAF-1,12.5,8,Bebidas\n" +
		"Chá,,7,,bebidas\n" +
		",SEM-NOME,1,1,\n" +
		"Bolo,BOL-1,doze,1,\n"

	// linha 1: SKU existente é atualizado e a categoria nova é criada
	deps.products.EXPECT().GetBySKU(ctx, 1, "CAF-1").Return(&domain.Product{ID: 20, BusinessID: 1, Name: "Café", SKU: "CAF-1", Stock: 2, LowStockThreshold: 5}, nil)
	deps.categories.EXPECT().GetByName(ctx, 1, "Bebidas").Return(nil, nil)
	deps.categories.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, c *domain.Category) (*domain.Category, error) {
		c.ID = 4
		return c, nil
	})
	deps.categories.EXPECT().GetByID(ctx, 1, 4).Return(&domain.Category{ID: 4, BusinessID: 1}, nil).Times(2)
	deps.products.EXPECT().Update(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, p *domain.Product) error {
		assert.Equal(t, 20, p.ID)
		assert.Equal(t, 12.5, p.Price)
		assert.Equal(t, 8, p.Stock)
		return nil
	})

	// linha 2: sem SKU, a categoria vem do cache (comparação sem caixa)
	deps.products.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, p *domain.Product) (*domain.Product, error) {
		assert.Equal(t, "Chá", p.Name)
		assert.NotEmpty(t, p.SKU)
		assert.Equal(t, 0, p.Stock)
		assert.Equal(t, intPtr(4), p.CategoryID)
		p.ID = 21
		return p, nil
	})

	deps.publisher.EXPECT().Publish(ctx, gomock.Any()).Return(nil)

	result, err := service.ImportProducts(ctx, 1, text)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	require.Len(t, result.Failed, 2)
	assert.Equal(t, 3, result.Failed[0].Row)
	assert.Contains(t, result.Failed[0].Message, "name")
	assert.Equal(t, 4, result.Failed[1].Row)
	assert.Contains(t, result.Failed[1].Message, domain.ErrInvalidRow.Error())
}

func TestCategories(t *testing.T) {
	ctx := context.Background()
	service, deps := newTestService(t)

	_, err := service.CreateCategory(ctx, &domain.Category{BusinessID: 1, Name: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	deps.categories.EXPECT().GetByID(ctx, 1, 4).Return(&domain.Category{ID: 4, BusinessID: 1, Name: "Bebidas"}, nil)
	deps.categories.EXPECT().Update(ctx, gomock.Any()).Return(nil)

	updated, err := service.UpdateCategory(ctx, &domain.Category{ID: 4, BusinessID: 1, Description: strPtr("Quentes e frias")})
	require.NoError(t, err)
	assert.Equal(t, "Bebidas", updated.Name)
	assert.Equal(t, "Quentes e frias", *updated.Description)

	deps.categories.EXPECT().Delete(ctx, 1, 5).Return(repository.ErrNotFound)
	assert.ErrorIs(t, service.DeleteCategory(ctx, 1, 5), domain.ErrNotFound)
}
