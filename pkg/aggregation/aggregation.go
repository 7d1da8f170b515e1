// Package aggregation transforma listas de vendas já carregadas em memória
// em pares rótulo/valor para os gráficos do dashboard.
package aggregation

import (
	"sort"

	"github.com/vfg2006/business-manager-api/internal/domain"
	"github.com/vfg2006/business-manager-api/pkg/utils"
)

const (
	UnknownLabel     = "Unknown"
	TopProductsLimit = 5

	// PlaceholderConversionRate não é calculada: não existe dado de visitas
	// para servir de denominador. Mantida fixa até existir essa fonte.
	PlaceholderConversionRate = 3.2
)

var monthLabels = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// GroupByMonth distribui o valor das vendas de year em 12 posições fixas.
// Vendas de outros anos são descartadas.
func GroupByMonth(sales []domain.Sale, year int) []domain.ChartPoint {
	var totals [12]float64
	for _, sale := range sales {
		if sale.SaleDate.Year() != year {
			continue
		}
		totals[sale.SaleDate.Month()-1] += sale.TotalAmount
	}

	points := make([]domain.ChartPoint, 0, len(monthLabels))
	for i, label := range monthLabels {
		points = append(points, domain.ChartPoint{
			Label: label,
			Value: utils.RoundWithTwoDecimalPlace(totals[i]),
		})
	}

	return points
}

// GroupByCategory soma as vendas pelo nome da categoria do produto vendido
func GroupByCategory(sales []domain.Sale, categories []domain.Category) []domain.ChartPoint {
	names := make(map[int]string, len(categories))
	for _, category := range categories {
		names[category.ID] = category.Name
	}

	totals := make(map[string]float64)
	for _, sale := range sales {
		label := UnknownLabel
		if sale.CategoryID != nil {
			if name, ok := names[*sale.CategoryID]; ok {
				label = name
			}
		}
		totals[label] += sale.TotalAmount
	}

	return sortedPoints(totals, 0)
}

// GroupByProduct soma as vendas por produto e devolve no máximo TopProductsLimit itens
func GroupByProduct(sales []domain.Sale, products []domain.Product) []domain.ChartPoint {
	names := make(map[int]string, len(products))
	for _, product := range products {
		names[product.ID] = product.Name
	}

	totals := make(map[string]float64)
	for _, sale := range sales {
		label, ok := names[sale.ProductID]
		if !ok {
			label = UnknownLabel
		}
		totals[label] += sale.TotalAmount
	}

	return sortedPoints(totals, TopProductsLimit)
}

// ComputeStats calcula quantidade, receita e ticket médio das vendas
func ComputeStats(sales []domain.Sale) domain.SalesStats {
	stats := domain.SalesStats{
		TotalSales:     len(sales),
		ConversionRate: PlaceholderConversionRate,
	}

	for _, sale := range sales {
		stats.TotalRevenue += sale.TotalAmount
	}

	if stats.TotalSales > 0 {
		stats.AverageOrderValue = utils.RoundWithTwoDecimalPlace(stats.TotalRevenue / float64(stats.TotalSales))
	}
	stats.TotalRevenue = utils.RoundWithTwoDecimalPlace(stats.TotalRevenue)

	return stats
}

// sortedPoints ordena por valor decrescente (empate pelo rótulo) e corta em limit quando limit > 0
func sortedPoints(totals map[string]float64, limit int) []domain.ChartPoint {
	points := make([]domain.ChartPoint, 0, len(totals))
	for label, value := range totals {
		points = append(points, domain.ChartPoint{Label: label, Value: utils.RoundWithTwoDecimalPlace(value)})
	}

	sort.Slice(points, func(i, j int) bool {
		if points[i].Value == points[j].Value {
			return points[i].Label < points[j].Label
		}
		return points[i].Value > points[j].Value
	})

	if limit > 0 && len(points) > limit {
		points = points[:limit]
	}

	return points
}
