package reporting

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/vfg2006/business-manager-api/infrastructure/repository"
	"github.com/vfg2006/business-manager-api/internal/domain"
	"github.com/vfg2006/business-manager-api/pkg/aggregation"
	"github.com/vfg2006/business-manager-api/pkg/log"
	"github.com/vfg2006/business-manager-api/pkg/utils"
	"golang.org/x/sync/errgroup"
)

//go:generate mockgen -source=service.go -destination=mocks/reporter.go -package=mocks

type Reporter interface {
	Dashboard(ctx context.Context, businessID, year int) (*domain.Dashboard, error)
	Stats(ctx context.Context, businessID int) (*domain.SalesStats, error)
	SalesByMonth(ctx context.Context, businessID, year int) ([]domain.ChartPoint, error)
	SalesByCategory(ctx context.Context, businessID int) ([]domain.ChartPoint, error)
	SalesByProduct(ctx context.Context, businessID int) ([]domain.ChartPoint, error)
	AdminStats(ctx context.Context) (*domain.AdminStats, error)
	SalesReportPDF(ctx context.Context, business *domain.Business, start, end time.Time) ([]byte, error)
}

type Service struct {
	saleRepo     repository.SaleRepository
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	customerRepo repository.CustomerRepository
	statsRepo    repository.StatsRepository
}

func NewService(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	customerRepo repository.CustomerRepository,
	statsRepo repository.StatsRepository,
) Reporter {
	return &Service{
		saleRepo:     saleRepo,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		customerRepo: customerRepo,
		statsRepo:    statsRepo,
	}
}

// Dashboard carrega em paralelo tudo o que o painel do negócio precisa.
// A primeira falha cancela as demais consultas.
func (s *Service) Dashboard(ctx context.Context, businessID, year int) (*domain.Dashboard, error) {
	var (
		sales         []domain.Sale
		products      []domain.Product
		categories    []domain.Category
		lowStockCount int
		customerCount int
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		sales, err = s.saleRepo.List(gctx, domain.SaleFilters{BusinessID: businessID})
		return err
	})

	g.Go(func() error {
		var err error
		products, err = s.productRepo.List(gctx, domain.ProductFilters{BusinessID: businessID})
		return err
	})

	g.Go(func() error {
		var err error
		categories, err = s.categoryRepo.List(gctx, businessID)
		return err
	})

	g.Go(func() error {
		var err error
		lowStockCount, err = s.productRepo.CountLowStock(gctx, businessID)
		return err
	})

	g.Go(func() error {
		var err error
		customerCount, err = s.customerRepo.Count(gctx, businessID)
		return err
	})

	if err := g.Wait(); err != nil {
		log.ForContext(ctx).WithError(err).Error("Erro ao carregar painel")
		return nil, domain.WrapRepositoryError(err, "Erro ao carregar painel")
	}

	return &domain.Dashboard{
		BusinessID:      businessID,
		Year:            year,
		Stats:           aggregation.ComputeStats(sales),
		SalesByMonth:    aggregation.GroupByMonth(sales, year),
		SalesByCategory: aggregation.GroupByCategory(sales, categories),
		TopProducts:     aggregation.GroupByProduct(sales, products),
		LowStockCount:   lowStockCount,
		CustomerCount:   customerCount,
	}, nil
}

func (s *Service) listSales(ctx context.Context, filters domain.SaleFilters) ([]domain.Sale, error) {
	sales, err := s.saleRepo.List(ctx, filters)
	if err != nil {
		return nil, domain.WrapRepositoryError(err, "Erro ao listar vendas")
	}
	return sales, nil
}

func (s *Service) Stats(ctx context.Context, businessID int) (*domain.SalesStats, error) {
	sales, err := s.listSales(ctx, domain.SaleFilters{BusinessID: businessID})
	if err != nil {
		return nil, err
	}

	stats := aggregation.ComputeStats(sales)
	return &stats, nil
}

// SalesByMonth considera apenas as vendas do ano informado
func (s *Service) SalesByMonth(ctx context.Context, businessID, year int) ([]domain.ChartPoint, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := utils.EndOfDay(time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC))

	sales, err := s.listSales(ctx, domain.SaleFilters{BusinessID: businessID, StartDate: &start, EndDate: &end})
	if err != nil {
		return nil, err
	}

	return aggregation.GroupByMonth(sales, year), nil
}

func (s *Service) SalesByCategory(ctx context.Context, businessID int) ([]domain.ChartPoint, error) {
	sales, err := s.listSales(ctx, domain.SaleFilters{BusinessID: businessID})
	if err != nil {
		return nil, err
	}

	categories, err := s.categoryRepo.List(ctx, businessID)
	if err != nil {
		return nil, domain.WrapRepositoryError(err, "Erro ao listar categorias")
	}

	return aggregation.GroupByCategory(sales, categories), nil
}

func (s *Service) SalesByProduct(ctx context.Context, businessID int) ([]domain.ChartPoint, error) {
	sales, err := s.listSales(ctx, domain.SaleFilters{BusinessID: businessID})
	if err != nil {
		return nil, err
	}

	products, err := s.productRepo.List(ctx, domain.ProductFilters{BusinessID: businessID})
	if err != nil {
		return nil, domain.WrapRepositoryError(err, "Erro ao listar produtos")
	}

	return aggregation.GroupByProduct(sales, products), nil
}

func (s *Service) AdminStats(ctx context.Context) (*domain.AdminStats, error) {
	stats, err := s.statsRepo.GetPlatformStats(ctx)
	if err != nil {
		return nil, domain.WrapRepositoryError(err, "Erro ao buscar estatísticas")
	}

	stats.TotalRevenue = utils.RoundWithTwoDecimalPlace(stats.TotalRevenue)
	stats.AverageRating = utils.RoundWithTwoDecimalPlace(stats.AverageRating)

	return stats, nil
}

// SalesReportPDF gera o relatório de vendas do período, com uma linha por venda e os totais
func (s *Service) SalesReportPDF(ctx context.Context, business *domain.Business, start, end time.Time) ([]byte, error) {
	if end.Before(start) {
		return nil, domain.InvalidInput("Data final anterior à data inicial")
	}

	endOfDay := utils.EndOfDay(end)
	sales, err := s.listSales(ctx, domain.SaleFilters{BusinessID: business.ID, StartDate: &start, EndDate: &endOfDay})
	if err != nil {
		return nil, err
	}

	return renderSalesReport(business, sales, start, end)
}

func renderSalesReport(business *domain.Business, sales []domain.Sale, start, end time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, tr(fmt.Sprintf("Relatório de vendas - %s", business.Name)), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	stats := aggregation.ComputeStats(sales)

	var totalItems int
	for _, sale := range sales {
		totalItems += sale.Quantity
	}

	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("Período: %s a %s", start.Format(time.DateOnly), end.Format(time.DateOnly))), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("Vendas: %d  Itens: %d", stats.TotalSales, totalItems)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("Receita: %s %.2f  Ticket médio: %s %.2f",
		business.Currency, stats.TotalRevenue, business.Currency, stats.AverageOrderValue)), "", 1, "L", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(30, 8, "Data", "1", 0, "C", false, 0, "")
	pdf.CellFormat(70, 8, "Produto", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 8, "Qtd", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, tr("Preço"), "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 8, "Total", "1", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, sale := range sales {
		product := aggregation.UnknownLabel
		if sale.ProductName != nil {
			product = *sale.ProductName
		}

		pdf.CellFormat(30, 8, sale.SaleDate.Format(time.DateOnly), "1", 0, "C", false, 0, "")
		pdf.CellFormat(70, 8, tr(product), "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprintf("%d", sale.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", sale.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, fmt.Sprintf("%.2f", sale.TotalAmount), "1", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("erro ao gerar PDF: %w", err)
	}

	return buf.Bytes(), nil
}
