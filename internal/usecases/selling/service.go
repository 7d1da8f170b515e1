package selling

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vfg2006/business-manager-api/infrastructure/events"
	"github.com/vfg2006/business-manager-api/infrastructure/repository"
	"github.com/vfg2006/business-manager-api/internal/domain"
	"github.com/vfg2006/business-manager-api/pkg/csvio"
	"github.com/vfg2006/business-manager-api/pkg/log"
	"github.com/vfg2006/business-manager-api/pkg/utils"
)

//go:generate mockgen -source=service.go -destination=mocks/seller.go -package=mocks

// Columns é a ordem das colunas na exportação; a importação aceita o mesmo cabeçalho
var Columns = []string{"sale_date", "product_sku", "product", "quantity", "unit_price", "total_amount", "customer_email", "notes"}

type Seller interface {
	List(ctx context.Context, filters domain.SaleFilters) ([]domain.Sale, error)
	Get(ctx context.Context, businessID, saleID int) (*domain.Sale, error)
	Create(ctx context.Context, req *domain.CreateSaleRequest) (*domain.Sale, error)
	Update(ctx context.Context, req *domain.UpdateSaleRequest) (*domain.Sale, error)
	Delete(ctx context.Context, businessID, saleID int) error
	Export(ctx context.Context, businessID int) (string, error)
	Import(ctx context.Context, businessID, userID int, text string) (*domain.ImportResult, error)
}

type Service struct {
	saleRepo     repository.SaleRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	publisher    events.Publisher
	now          func() time.Time
}

func NewService(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	publisher events.Publisher,
) Seller {
	return &Service{
		saleRepo:     saleRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		publisher:    publisher,
		now:          time.Now,
	}
}

func (s *Service) List(ctx context.Context, filters domain.SaleFilters) ([]domain.Sale, error) {
	if filters.StartDate != nil && filters.EndDate != nil && filters.EndDate.Before(*filters.StartDate) {
		return nil, domain.InvalidInput("Data final anterior à data inicial")
	}

	sales, err := s.saleRepo.List(ctx, filters)
	if err != nil {
		return nil, domain.WrapRepositoryError(err, "Erro ao listar vendas")
	}

	return sales, nil
}

func (s *Service) Get(ctx context.Context, businessID, saleID int) (*domain.Sale, error) {
	sale, err := s.saleRepo.GetByID(ctx, businessID, saleID)
	if err != nil {
		return nil, domain.WrapRepositoryError(err, "Erro ao buscar venda")
	}

	if sale == nil {
		return nil, domain.NotFound(fmt.Sprintf("venda %d", saleID))
	}

	return sale, nil
}

// Create registra a venda e baixa o estoque. O preço unitário padrão é o preço atual do produto.
func (s *Service) Create(ctx context.Context, req *domain.CreateSaleRequest) (*domain.Sale, error) {
	if req.Quantity <= 0 {
		return nil, domain.InvalidInput("Quantidade deve ser maior que zero")
	}

	product, err := s.getProduct(ctx, req.BusinessID, req.ProductID)
	if err != nil {
		return nil, err
	}

	if err := s.checkCustomer(ctx, req.BusinessID, req.CustomerID); err != nil {
		return nil, err
	}

	unitPrice := product.Price
	if req.UnitPrice != nil {
		unitPrice = *req.UnitPrice
	}

	if unitPrice < 0 {
		return nil, domain.InvalidInput("Preço unitário não pode ser negativo")
	}
	unitPrice = utils.RoundWithTwoDecimalPlace(unitPrice)

	saleDate := s.now()
	if req.SaleDate != nil && !req.SaleDate.IsZero() {
		saleDate = *req.SaleDate
	}

	sale := &domain.Sale{
		BusinessID:  req.BusinessID,
		UserID:      req.UserID,
		ProductID:   product.ID,
		CustomerID:  req.CustomerID,
		Quantity:    req.Quantity,
		UnitPrice:   unitPrice,
		TotalAmount: total(req.Quantity, unitPrice),
		SaleDate:    saleDate,
		Notes:       req.Notes,
	}

	created, err := s.saleRepo.Create(ctx, sale)
	if err != nil {
		return nil, domain.WrapRepositoryError(err, fmt.Sprintf("produto %s", product.Name))
	}

	created.ProductName = &product.Name
	created.CategoryID = product.CategoryID

	s.publish(ctx, events.NewEvent(events.SaleCreated, created.BusinessID, created.UserID, created.ID).
		WithAttribute("product_id", strconv.Itoa(created.ProductID)).
		WithAttribute("quantity", strconv.Itoa(created.Quantity)))

	return created, nil
}

func total(quantity int, unitPrice float64) float64 {
	return utils.RoundWithTwoDecimalPlace(float64(quantity) * unitPrice)
}

func (s *Service) getProduct(ctx context.Context, businessID, productID int) (*domain.Product, error) {
	product, err := s.productRepo.GetByID(ctx, businessID, productID)
	if err != nil {
		return nil, domain.WrapRepositoryError(err, "Erro ao buscar produto")
	}

	if product == nil {
		return nil, domain.NotFound(fmt.Sprintf("produto %d", productID))
	}

	return product, nil
}

func (s *Service) checkCustomer(ctx context.Context, businessID int, customerID *int) error {
	if customerID == nil {
		return nil
	}

	customer, err := s.customerRepo.GetByID(ctx, businessID, *customerID)
	if err != nil {
		return domain.WrapRepositoryError(err, "Erro ao buscar cliente")
	}

	if customer == nil {
		return domain.NotFound(fmt.Sprintf("cliente %d", *customerID))
	}

	return nil
}

// Update recalcula o total e ajusta o estoque pela diferença de quantidade
func (s *Service) Update(ctx context.Context, req *domain.UpdateSaleRequest) (*domain.Sale, error) {
	sale, err := s.Get(ctx, req.BusinessID, req.ID)
	if err != nil {
		return nil, err
	}

	previousQuantity := sale.Quantity

	if req.Quantity != nil {
		if *req.Quantity <= 0 {
			return nil, domain.InvalidInput("Quantidade deve ser maior que zero")
		}
		sale.Quantity = *req.Quantity
	}

	if req.UnitPrice != nil {
		if *req.UnitPrice < 0 {
			return nil, domain.InvalidInput("Preço unitário não pode ser negativo")
		}
		sale.UnitPrice = utils.RoundWithTwoDecimalPlace(*req.UnitPrice)
	}

	if req.CustomerID != nil {
		// customer_id 0 desvincula o cliente
		if *req.CustomerID == 0 {
			sale.CustomerID = nil
		} else {
			if err := s.checkCustomer(ctx, req.BusinessID, req.CustomerID); err != nil {
				return nil, err
			}
			sale.CustomerID = req.CustomerID
		}
	}

	if req.SaleDate != nil && !req.SaleDate.IsZero() {
		sale.SaleDate = *req.SaleDate
	}

	if req.Notes != nil {
		sale.Notes = req.Notes
	}

	sale.TotalAmount = total(sale.Quantity, sale.UnitPrice)

	if err := s.saleRepo.Update(ctx, sale, previousQuantity); err != nil {
		return nil, domain.WrapRepositoryError(err, fmt.Sprintf("venda %d", sale.ID))
	}

	return sale, nil
}

// Delete remove a venda e devolve a quantidade ao estoque
func (s *Service) Delete(ctx context.Context, businessID, saleID int) error {
	sale, err := s.saleRepo.Delete(ctx, businessID, saleID)
	if err != nil {
		return domain.WrapRepositoryError(err, fmt.Sprintf("venda %d", saleID))
	}

	s.publish(ctx, events.NewEvent(events.SaleDeleted, sale.BusinessID, sale.UserID, sale.ID).
		WithAttribute("product_id", strconv.Itoa(sale.ProductID)).
		WithAttribute("quantity", strconv.Itoa(sale.Quantity)))

	return nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.ForContext(ctx).WithError(err).WithField("event_type", event.Type).Warn("Erro ao publicar evento")
	}
}

func (s *Service) Export(ctx context.Context, businessID int) (string, error) {
	sales, err := s.List(ctx, domain.SaleFilters{BusinessID: businessID})
	if err != nil {
		return "", err
	}

	if len(sales) == 0 {
		return strings.Join(Columns, ","), nil
	}

	products, err := s.productRepo.List(ctx, domain.ProductFilters{BusinessID: businessID})
	if err != nil {
		return "", domain.WrapRepositoryError(err, "Erro ao listar produtos")
	}

	customers, err := s.customerRepo.List(ctx, businessID, "")
	if err != nil {
		return "", domain.WrapRepositoryError(err, "Erro ao listar clientes")
	}

	skus := make(map[int]string, len(products))
	for _, product := range products {
		skus[product.ID] = product.SKU
	}

	emails := make(map[int]string, len(customers))
	for _, customer := range customers {
		if customer.Email != nil {
			emails[customer.ID] = *customer.Email
		}
	}

	records := make([]csvio.Record, 0, len(sales))
	for _, sale := range sales {
		productName := ""
		if sale.ProductName != nil {
			productName = *sale.ProductName
		}

		customerEmail := ""
		if sale.CustomerID != nil {
			customerEmail = emails[*sale.CustomerID]
		}

		notes := ""
		if sale.Notes != nil {
			notes = *sale.Notes
		}

		records = append(records, csvio.Record{
			{Key: "sale_date", Value: sale.SaleDate.Format(time.DateOnly)},
			{Key: "product_sku", Value: skus[sale.ProductID]},
			{Key: "product", Value: productName},
			{Key: "quantity", Value: strconv.Itoa(sale.Quantity)},
			{Key: "unit_price", Value: strconv.FormatFloat(sale.UnitPrice, 'f', 2, 64)},
			{Key: "total_amount", Value: strconv.FormatFloat(sale.TotalAmount, 'f', 2, 64)},
			{Key: "customer_email", Value: customerEmail},
			{Key: "notes", Value: notes},
		})
	}

	return csvio.ToCSV(records), nil
}

// Import registra as vendas do CSV pelo SKU (ou nome) do produto. Cada venda baixa o estoque,
// então uma linha sem estoque suficiente falha sozinha.
func (s *Service) Import(ctx context.Context, businessID, userID int, text string) (*domain.ImportResult, error) {
	records := csvio.FromCSV(text)
	result := &domain.ImportResult{Failed: []domain.RowError{}}

	for i, record := range records {
		row := i + 1

		var saleRow domain.SaleRow
		if err := csvio.Decode(record, &saleRow); err != nil {
			result.Fail(row, fmt.Errorf("%w: %v", domain.ErrInvalidRow, err))
			continue
		}

		if err := saleRow.Validate(); err != nil {
			result.Fail(row, err)
			continue
		}

		req, err := s.buildImportRequest(ctx, businessID, userID, &saleRow)
		if err != nil {
			result.Fail(row, err)
			continue
		}

		if _, err := s.Create(ctx, req); err != nil {
			result.Fail(row, err)
			continue
		}

		result.Imported++
	}

	log.ForContext(ctx).WithFields(log.Fields{
		"business_id": businessID,
		"imported":    result.Imported,
		"failed":      len(result.Failed),
	}).Info("Importação de vendas concluída")

	s.publish(ctx, events.NewEvent(events.ImportCompleted, businessID, userID, 0).
		WithAttribute("entity", "sales").
		WithAttribute("imported", strconv.Itoa(result.Imported)))

	return result, nil
}

func (s *Service) buildImportRequest(ctx context.Context, businessID, userID int, row *domain.SaleRow) (*domain.CreateSaleRequest, error) {
	var (
		product *domain.Product
		err     error
	)

	if row.ProductSKU != nil {
		product, err = s.productRepo.GetBySKU(ctx, businessID, strings.TrimSpace(*row.ProductSKU))
	} else {
		product, err = s.productRepo.GetByName(ctx, businessID, strings.TrimSpace(*row.ProductName))
	}
	if err != nil {
		return nil, domain.WrapRepositoryError(err, "Erro ao buscar produto")
	}

	if product == nil {
		return nil, domain.NotFound("produto da linha")
	}

	req := &domain.CreateSaleRequest{
		BusinessID: businessID,
		UserID:     userID,
		ProductID:  product.ID,
		Quantity:   row.Quantity,
		UnitPrice:  row.UnitPrice,
		SaleDate:   row.SaleDate,
		Notes:      row.Notes,
	}

	if row.CustomerEmail != nil {
		customer, err := s.customerRepo.GetByEmail(ctx, businessID, strings.TrimSpace(*row.CustomerEmail))
		if err != nil {
			return nil, domain.WrapRepositoryError(err, "Erro ao buscar cliente")
		}

		if customer == nil {
			return nil, domain.NotFound(fmt.Sprintf("cliente %s", *row.CustomerEmail))
		}

		req.CustomerID = &customer.ID
	}

	return req, nil
}
