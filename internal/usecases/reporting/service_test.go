package reporting

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/business-manager-api/infrastructure/repository/mocks"
	"github.com/vfg2006/business-manager-api/internal/domain"
	"github.com/vfg2006/business-manager-api/pkg/apiErrors"
	"go.uber.org/mock/gomock"
)

type testDeps struct {
	sales      *mocks.MockSaleRepository
	products   *mocks.MockProductRepository
	categories *mocks.MockCategoryRepository
	customers  *mocks.MockCustomerRepository
	stats      *mocks.MockStatsRepository
}

func newTestService(t *testing.T) (Reporter, testDeps) {
	ctrl := gomock.NewController(t)
	deps := testDeps{
		sales:      mocks.NewMockSaleRepository(ctrl),
		products:   mocks.NewMockProductRepository(ctrl),
		categories: mocks.NewMockCategoryRepository(ctrl),
		customers:  mocks.NewMockCustomerRepository(ctrl),
		stats:      mocks.NewMockStatsRepository(ctrl),
	}

	return NewService(deps.sales, deps.products, deps.categories, deps.customers, deps.stats), deps
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func sampleSales() []domain.Sale {
	return []domain.Sale{
		{ID: 1, ProductID: 10, CategoryID: intPtr(4), ProductName: strPtr("Café"), Quantity: 2, UnitPrice: 10, TotalAmount: 20,
			SaleDate: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)},
		{ID: 2, ProductID: 11, Quantity: 1, UnitPrice: 15.5, TotalAmount: 15.5,
			SaleDate: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
	}
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()

	t.Run("combina as consultas", func(t *testing.T) {
		service, deps := newTestService(t)

		deps.sales.EXPECT().List(gomock.Any(), domain.SaleFilters{BusinessID: 1}).Return(sampleSales(), nil)
		deps.products.EXPECT().List(gomock.Any(), domain.ProductFilters{BusinessID: 1}).
			Return([]domain.Product{{ID: 10, Name: "Café"}, {ID: 11, Name: "Chá"}}, nil)
		deps.categories.EXPECT().List(gomock.Any(), 1).Return([]domain.Category{{ID: 4, Name: "Bebidas"}}, nil)
		deps.products.EXPECT().CountLowStock(gomock.Any(), 1).Return(3, nil)
		deps.customers.EXPECT().Count(gomock.Any(), 1).Return(8, nil)

		dashboard, err := service.Dashboard(ctx, 1, 2024)
		require.NoError(t, err)

		assert.Equal(t, 1, dashboard.BusinessID)
		assert.Equal(t, 2024, dashboard.Year)
		assert.Equal(t, 2, dashboard.Stats.TotalSales)
		assert.Equal(t, 35.5, dashboard.Stats.TotalRevenue)
		assert.Len(t, dashboard.SalesByMonth, 12)
		assert.Equal(t, 20.0, dashboard.SalesByMonth[0].Value)
		assert.Equal(t, 15.5, dashboard.SalesByMonth[2].Value)
		assert.Equal(t, []domain.ChartPoint{{Label: "Bebidas", Value: 20}, {Label: "Unknown", Value: 15.5}}, dashboard.SalesByCategory)
		assert.Equal(t, "Café", dashboard.TopProducts[0].Label)
		assert.Equal(t, 3, dashboard.LowStockCount)
		assert.Equal(t, 8, dashboard.CustomerCount)
	})

	t.Run("falha em uma consulta", func(t *testing.T) {
		service, deps := newTestService(t)

		deps.sales.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, errors.New("conexão perdida"))
		deps.products.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
		deps.categories.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
		deps.products.EXPECT().CountLowStock(gomock.Any(), gomock.Any()).Return(0, nil).AnyTimes()
		deps.customers.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, nil).AnyTimes()

		dashboard, err := service.Dashboard(ctx, 1, 2024)
		assert.Nil(t, dashboard)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrDatabaseOperation)
	})
}

func TestSalesByMonth_FiltersYear(t *testing.T) {
	service, deps := newTestService(t)
	ctx := context.Background()

	deps.sales.EXPECT().List(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, f domain.SaleFilters) ([]domain.Sale, error) {
		require.NotNil(t, f.StartDate)
		require.NotNil(t, f.EndDate)
		assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *f.StartDate)
		assert.Equal(t, 2024, f.EndDate.Year())
		assert.Equal(t, time.December, f.EndDate.Month())
		assert.Equal(t, 31, f.EndDate.Day())
		return sampleSales(), nil
	})

	points, err := service.SalesByMonth(ctx, 1, 2024)
	require.NoError(t, err)
	assert.Len(t, points, 12)
	assert.Equal(t, "Jan", points[0].Label)
}

func TestStats(t *testing.T) {
	service, deps := newTestService(t)
	ctx := context.Background()

	deps.sales.EXPECT().List(ctx, domain.SaleFilters{BusinessID: 2}).Return(sampleSales(), nil)

	stats, err := service.Stats(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalSales)
	assert.Equal(t, 17.75, stats.AverageOrderValue)
}

func TestSalesByProduct(t *testing.T) {
	service, deps := newTestService(t)
	ctx := context.Background()

	deps.sales.EXPECT().List(ctx, gomock.Any()).Return(sampleSales(), nil)
	deps.products.EXPECT().List(ctx, domain.ProductFilters{BusinessID: 1}).Return(nil, errors.New("timeout"))

	points, err := service.SalesByProduct(ctx, 1)
	assert.Nil(t, points)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, apiErrors.ErrDatabaseOperation, domainErr.Code)
}

func TestAdminStats_RoundsValues(t *testing.T) {
	service, deps := newTestService(t)
	ctx := context.Background()

	deps.stats.EXPECT().GetPlatformStats(ctx).Return(&domain.AdminStats{TotalUsers: 4, TotalRevenue: 10.005, AverageRating: 4.3333}, nil)

	stats, err := service.AdminStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalUsers)
	assert.Equal(t, 4.33, stats.AverageRating)
}

func TestSalesReportPDF(t *testing.T) {
	ctx := context.Background()
	business := &domain.Business{ID: 1, Name: "Padaria São João", Currency: "BRL"}
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	t.Run("gera um PDF", func(t *testing.T) {
		service, deps := newTestService(t)

		deps.sales.EXPECT().List(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, f domain.SaleFilters) ([]domain.Sale, error) {
			assert.Equal(t, 1, f.BusinessID)
			assert.Equal(t, start, *f.StartDate)
			assert.True(t, f.EndDate.After(end))
			return sampleSales(), nil
		})

		content, err := service.SalesReportPDF(ctx, business, start, end)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(content, []byte("%PDF-")))
	})

	t.Run("período invertido", func(t *testing.T) {
		service, _ := newTestService(t)

		content, err := service.SalesReportPDF(ctx, business, end, start)
		assert.Nil(t, content)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}
