package cataloging

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/vfg2006/business-manager-api/infrastructure/events"
	"github.com/vfg2006/business-manager-api/infrastructure/repository"
	"github.com/vfg2006/business-manager-api/internal/domain"
	"github.com/vfg2006/business-manager-api/pkg/csvio"
	"github.com/vfg2006/business-manager-api/pkg/log"
	"github.com/vfg2006/business-manager-api/pkg/utils"
)

//go:generate mockgen -source=service.go -destination=mocks/cataloger.go -package=mocks

// ProductColumns é a ordem das colunas na exportação de produtos
var ProductColumns = []string{"name", "sku", "description", "price", "cost", "stock", "low_stock_threshold", "category"}

type Cataloger interface {
	ListCategories(ctx context.Context, businessID int) ([]domain.Category, error)
	GetCategory(ctx context.Context, businessID, categoryID int) (*domain.Category, error)
	CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error)
	UpdateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error)
	DeleteCategory(ctx context.Context, businessID, categoryID int) error

	ListProducts(ctx context.Context, filters domain.ProductFilters) ([]domain.Product, error)
	GetProduct(ctx context.Context, businessID, productID int) (*domain.Product, error)
	CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, req *domain.UpdateProductRequest) (*domain.Product, error)
	DeleteProduct(ctx context.Context, businessID, productID int) error

	ExportProducts(ctx context.Context, businessID int) (string, error)
	ImportProducts(ctx context.Context, businessID int, text string) (*domain.ImportResult, error)
}

type Service struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	publisher    events.Publisher
}

func NewService(
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
	publisher events.Publisher,
) Cataloger {
	return &Service{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		publisher:    publisher,
	}
}

func (s *Service) ListCategories(ctx context.Context, businessID int) ([]domain.Category, error) {
	categories, err := s.categoryRepo.List(ctx, businessID)
	if err != nil {
		return nil, domain.WrapRepositoryError(err, "Erro ao listar categorias")
	}

	return categories, nil
}

func (s *Service) GetCategory(ctx context.Context, businessID, categoryID int) (*domain.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, businessID, categoryID)
	if err != nil {
		return nil, domain.WrapRepositoryError(err, "Erro ao buscar categoria")
	}

	if category == nil {
		return nil, domain.NotFound(fmt.Sprintf("categoria %d", categoryID))
	}

	return category, nil
}

func (s *Service) CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	category.Name = strings.TrimSpace(category.Name)
	if category.Name == "" {
		return nil, domain.InvalidInput("Nome da categoria é obrigatório")
	}

	created, err := s.categoryRepo.Create(ctx, category)
	if err != nil {
		return nil, domain.WrapRepositoryError(err, "Categoria já cadastrada")
	}

	return created, nil
}

func (s *Service) UpdateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	current, err := s.GetCategory(ctx, category.BusinessID, category.ID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(category.Name); name != "" {
		current.Name = name
	}

	if category.Description != nil {
		current.Description = category.Description
	}

	if err := s.categoryRepo.Update(ctx, current); err != nil {
		return nil, domain.WrapRepositoryError(err, "Erro ao atualizar categoria")
	}

	return current, nil
}

func (s *Service) DeleteCategory(ctx context.Context, businessID, categoryID int) error {
	if err := s.categoryRepo.Delete(ctx, businessID, categoryID); err != nil {
		return domain.WrapRepositoryError(err, fmt.Sprintf("categoria %d", categoryID))
	}

	return nil
}

func (s *Service) ListProducts(ctx context.Context, filters domain.ProductFilters) ([]domain.Product, error) {
	filters.Search = strings.TrimSpace(filters.Search)

	products, err := s.productRepo.List(ctx, filters)
	if err != nil {
		return nil, domain.WrapRepositoryError(err, "Erro ao listar produtos")
	}

	return products, nil
}

func (s *Service) GetProduct(ctx context.Context, businessID, productID int) (*domain.Product, error) {
	product, err := s.productRepo.GetByID(ctx, businessID, productID)
	if err != nil {
		return nil, domain.WrapRepositoryError(err, "Erro ao buscar produto")
	}

	if product == nil {
		return nil, domain.NotFound(fmt.Sprintf("produto %d", productID))
	}

	return product, nil
}

// CreateProduct valida o produto, gera o SKU quando ausente e confere se a categoria é do mesmo negócio
func (s *Service) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := s.prepareProduct(ctx, product); err != nil {
		return nil, err
	}

	created, err := s.productRepo.Create(ctx, product)
	if err != nil {
		return nil, domain.WrapRepositoryError(err, fmt.Sprintf("SKU %s já cadastrado", product.SKU))
	}

	return created, nil
}

func (s *Service) prepareProduct(ctx context.Context, product *domain.Product) error {
	product.Name = strings.TrimSpace(product.Name)
	product.SKU = strings.TrimSpace(product.SKU)

	if err := validateProduct(product); err != nil {
		return err
	}

	if product.CategoryID != nil {
		if _, err := s.GetCategory(ctx, product.BusinessID, *product.CategoryID); err != nil {
			return err
		}
	}

	if product.SKU == "" {
		sku, err := utils.GenerateSKU(product.Name)
		if err != nil {
			return fmt.Errorf("erro ao gerar SKU: %w", err)
		}
		product.SKU = sku
	}

	if product.LowStockThreshold <= 0 {
		product.LowStockThreshold = domain.DefaultLowStockThreshold
	}

	product.Price = utils.RoundWithTwoDecimalPlace(product.Price)
	product.Cost = utils.RoundWithTwoDecimalPlace(product.Cost)

	return nil
}

func validateProduct(product *domain.Product) error {
	switch {
	case product.Name == "":
		return domain.InvalidInput("Nome do produto é obrigatório")
	case product.Price < 0:
		return domain.InvalidInput("Preço não pode ser negativo")
	case product.Cost < 0:
		return domain.InvalidInput("Custo não pode ser negativo")
	case product.Stock < 0:
		return domain.InvalidInput("Estoque não pode ser negativo")
	}
	return nil
}

func (s *Service) UpdateProduct(ctx context.Context, req *domain.UpdateProductRequest) (*domain.Product, error) {
	product, err := s.GetProduct(ctx, req.BusinessID, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}

	if req.SKU != nil {
		product.SKU = *req.SKU
	}

	if req.Description != nil {
		product.Description = req.Description
	}

	if req.CategoryID != nil {
		// category_id 0 remove a categoria
		if *req.CategoryID == 0 {
			product.CategoryID = nil
		} else {
			product.CategoryID = req.CategoryID
		}
	}

	if req.Price != nil {
		product.Price = *req.Price
	}

	if req.Cost != nil {
		product.Cost = *req.Cost
	}

	if req.Stock != nil {
		product.Stock = *req.Stock
	}

	if req.LowStockThreshold != nil {
		product.LowStockThreshold = *req.LowStockThreshold
	}

	if err := s.prepareProduct(ctx, product); err != nil {
		return nil, err
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, domain.WrapRepositoryError(err, fmt.Sprintf("SKU %s já cadastrado", product.SKU))
	}

	return product, nil
}

func (s *Service) DeleteProduct(ctx context.Context, businessID, productID int) error {
	if err := s.productRepo.Delete(ctx, businessID, productID); err != nil {
		return domain.WrapRepositoryError(err, fmt.Sprintf("produto %d", productID))
	}

	return nil
}

// ExportProducts gera o CSV dos produtos do negócio com o nome da categoria
func (s *Service) ExportProducts(ctx context.Context, businessID int) (string, error) {
	products, err := s.ListProducts(ctx, domain.ProductFilters{BusinessID: businessID})
	if err != nil {
		return "", err
	}

	categories, err := s.ListCategories(ctx, businessID)
	if err != nil {
		return "", err
	}

	categoryNames := make(map[int]string, len(categories))
	for _, category := range categories {
		categoryNames[category.ID] = category.Name
	}

	records := make([]csvio.Record, 0, len(products))
	for _, product := range products {
		category := ""
		if product.CategoryID != nil {
			category = categoryNames[*product.CategoryID]
		}

		records = append(records, csvio.Record{
			{Key: "name", Value: product.Name},
			{Key: "sku", Value: product.SKU},
			{Key: "description", Value: deref(product.Description)},
			{Key: "price", Value: formatMoney(product.Price)},
			{Key: "cost", Value: formatMoney(product.Cost)},
			{Key: "stock", Value: strconv.Itoa(product.Stock)},
			{Key: "low_stock_threshold", Value: strconv.Itoa(product.LowStockThreshold)},
			{Key: "category", Value: category},
		})
	}

	if len(records) == 0 {
		return strings.Join(ProductColumns, ","), nil
	}

	return csvio.ToCSV(records), nil
}

// ImportProducts cria ou atualiza (pelo SKU) os produtos do CSV. Categorias desconhecidas são criadas.
// Cada linha é independente: uma linha inválida não impede as demais.
func (s *Service) ImportProducts(ctx context.Context, businessID int, text string) (*domain.ImportResult, error) {
	records := csvio.FromCSV(text)
	result := &domain.ImportResult{Failed: []domain.RowError{}}
	categoryIDs := map[string]int{}

	for i, record := range records {
		row := i + 1

		var productRow domain.ProductRow
		if err := csvio.Decode(record, &productRow); err != nil {
			result.Fail(row, fmt.Errorf("%w: %v", domain.ErrInvalidRow, err))
			continue
		}

		if err := productRow.Validate(); err != nil {
			result.Fail(row, err)
			continue
		}

		if err := s.importProduct(ctx, businessID, &productRow, categoryIDs); err != nil {
			result.Fail(row, err)
			continue
		}

		result.Imported++
	}

	log.ForContext(ctx).WithFields(log.Fields{
		"business_id": businessID,
		"imported":    result.Imported,
		"failed":      len(result.Failed),
	}).Info("Importação de produtos concluída")

	s.publishImport(ctx, businessID, "products", result)

	return result, nil
}

func (s *Service) importProduct(ctx context.Context, businessID int, row *domain.ProductRow, categoryIDs map[string]int) error {
	product := &domain.Product{BusinessID: businessID}

	if row.SKU != nil {
		existing, err := s.productRepo.GetBySKU(ctx, businessID, strings.TrimSpace(*row.SKU))
		if err != nil {
			return domain.WrapRepositoryError(err, "Erro ao buscar produto")
		}

		if existing != nil {
			product = existing
		} else {
			product.SKU = *row.SKU
		}
	}

	product.Name = row.Name
	product.Price = row.Price

	if row.Description != nil {
		product.Description = row.Description
	}
	if row.Cost != nil {
		product.Cost = *row.Cost
	}
	if row.Stock != nil {
		product.Stock = *row.Stock
	}
	if row.LowStockThreshold != nil {
		product.LowStockThreshold = *row.LowStockThreshold
	}

	if row.Category != nil {
		categoryID, err := s.resolveCategory(ctx, businessID, *row.Category, categoryIDs)
		if err != nil {
			return err
		}
		product.CategoryID = &categoryID
	}

	if product.ID == 0 {
		_, err := s.CreateProduct(ctx, product)
		return err
	}

	if err := s.prepareProduct(ctx, product); err != nil {
		return err
	}

	return domain.WrapRepositoryError(s.productRepo.Update(ctx, product), "Erro ao atualizar produto")
}

func (s *Service) resolveCategory(ctx context.Context, businessID int, name string, cache map[string]int) (int, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if id, ok := cache[key]; ok {
		return id, nil
	}

	category, err := s.categoryRepo.GetByName(ctx, businessID, strings.TrimSpace(name))
	if err != nil {
		return 0, domain.WrapRepositoryError(err, "Erro ao buscar categoria")
	}

	if category == nil {
		category, err = s.CreateCategory(ctx, &domain.Category{BusinessID: businessID, Name: name})
		if err != nil {
			return 0, err
		}
	}

	cache[key] = category.ID
	return category.ID, nil
}

func (s *Service) publishImport(ctx context.Context, businessID int, entity string, result *domain.ImportResult) {
	event := events.NewEvent(events.ImportCompleted, businessID, 0, 0).
		WithAttribute("entity", entity).
		WithAttribute("imported", strconv.Itoa(result.Imported)).
		WithAttribute("failed", strconv.Itoa(len(result.Failed)))

	if err := s.publisher.Publish(ctx, event); err != nil {
		log.ForContext(ctx).WithError(err).Warn("Erro ao publicar evento de importação")
	}
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func formatMoney(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64)
}
