package aggregation

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/business-manager-api/internal/domain"
)

func intPtr(i int) *int {
	return &i
}

func saleAt(date time.Time, productID int, categoryID *int, amount float64) domain.Sale {
	return domain.Sale{
		ProductID:   productID,
		CategoryID:  categoryID,
		Quantity:    1,
		UnitPrice:   amount,
		TotalAmount: amount,
		SaleDate:    date,
	}
}

func TestGroupByMonth(t *testing.T) {
	sales := []domain.Sale{
		saleAt(time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), 1, nil, 100),
		saleAt(time.Date(2025, 1, 31, 23, 0, 0, 0, time.UTC), 1, nil, 50.5),
		saleAt(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), 2, nil, 20),
		saleAt(time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), 2, nil, 9.99),
		// outros anos são descartados
		saleAt(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), 1, nil, 1000),
		saleAt(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), 1, nil, 1000),
	}

	result := GroupByMonth(sales, 2025)

	require.Len(t, result, 12)
	assert.Equal(t, "Jan", result[0].Label)
	assert.Equal(t, "Dec", result[11].Label)
	assert.Equal(t, 150.5, result[0].Value)
	assert.Equal(t, 20.0, result[5].Value)
	assert.Equal(t, 9.99, result[11].Value)
	assert.Equal(t, 0.0, result[2].Value)

	var sum float64
	for _, point := range result {
		sum += point.Value
	}
	assert.InDelta(t, 180.49, sum, 0.001)
}

func TestGroupByMonth_Empty(t *testing.T) {
	result := GroupByMonth(nil, 2025)

	require.Len(t, result, 12)
	for _, point := range result {
		assert.Zero(t, point.Value)
	}
}

func TestGroupByCategory(t *testing.T) {
	categories := []domain.Category{
		{ID: 1, Name: "Bebidas"},
		{ID: 2, Name: "Padaria"},
	}
	now := time.Now()

	sales := []domain.Sale{
		saleAt(now, 1, intPtr(1), 10),
		saleAt(now, 2, intPtr(2), 40),
		saleAt(now, 3, intPtr(1), 15),
		saleAt(now, 4, nil, 5),
		saleAt(now, 5, intPtr(99), 7),
	}

	result := GroupByCategory(sales, categories)

	assert.Equal(t, []domain.ChartPoint{
		{Label: "Padaria", Value: 40},
		{Label: "Bebidas", Value: 25},
		{Label: UnknownLabel, Value: 12},
	}, result)
}

func TestGroupByProduct(t *testing.T) {
	now := time.Now()

	t.Run("ordena e agrupa desconhecidos", func(t *testing.T) {
		products := []domain.Product{{ID: 1, Name: "Café"}, {ID: 2, Name: "Pão"}}
		sales := []domain.Sale{
			saleAt(now, 1, nil, 3),
			saleAt(now, 2, nil, 8),
			saleAt(now, 1, nil, 3),
			saleAt(now, 42, nil, 1),
		}

		result := GroupByProduct(sales, products)

		assert.Equal(t, []domain.ChartPoint{
			{Label: "Pão", Value: 8},
			{Label: "Café", Value: 6},
			{Label: UnknownLabel, Value: 1},
		}, result)
	})

	t.Run("nunca retorna mais que o limite", func(t *testing.T) {
		products := make([]domain.Product, 0, 20)
		sales := make([]domain.Sale, 0, 20)
		for i := 1; i <= 20; i++ {
			products = append(products, domain.Product{ID: i, Name: fmt.Sprintf("Produto %02d", i)})
			sales = append(sales, saleAt(now, i, nil, float64(i)))
		}

		result := GroupByProduct(sales, products)

		require.Len(t, result, TopProductsLimit)
		assert.Equal(t, "Produto 20", result[0].Label)
		assert.Equal(t, "Produto 16", result[4].Label)
	})
}

func TestComputeStats(t *testing.T) {
	t.Run("sem vendas", func(t *testing.T) {
		stats := ComputeStats([]domain.Sale{})

		assert.Equal(t, 0, stats.TotalSales)
		assert.Equal(t, 0.0, stats.TotalRevenue)
		assert.Equal(t, 0.0, stats.AverageOrderValue)
		assert.Equal(t, PlaceholderConversionRate, stats.ConversionRate)
	})

	t.Run("com vendas", func(t *testing.T) {
		now := time.Now()
		stats := ComputeStats([]domain.Sale{
			saleAt(now, 1, nil, 10),
			saleAt(now, 1, nil, 20),
			saleAt(now, 1, nil, 30.01),
		})

		assert.Equal(t, 3, stats.TotalSales)
		assert.Equal(t, 60.01, stats.TotalRevenue)
		assert.Equal(t, 20.0, stats.AverageOrderValue)
		assert.Equal(t, PlaceholderConversionRate, stats.ConversionRate)
	})
}
