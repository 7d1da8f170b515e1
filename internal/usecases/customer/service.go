package customer

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/vfg2006/business-manager-api/infrastructure/events"
	"github.com/vfg2006/business-manager-api/infrastructure/repository"
	"github.com/vfg2006/business-manager-api/internal/domain"
	"github.com/vfg2006/business-manager-api/pkg/csvio"
	"github.com/vfg2006/business-manager-api/pkg/log"
)

//go:generate mockgen -source=service.go -destination=mocks/manager.go -package=mocks

var Columns = []string{"name", "email", "phone", "address", "notes"}

type Manager interface {
	List(ctx context.Context, businessID int, search string) ([]domain.Customer, error)
	Get(ctx context.Context, businessID, customerID int) (*domain.Customer, error)
	Create(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	Update(ctx context.Context, req *domain.UpdateCustomerRequest) (*domain.Customer, error)
	Delete(ctx context.Context, businessID, customerID int) error
	Export(ctx context.Context, businessID int) (string, error)
	Import(ctx context.Context, businessID int, text string) (*domain.ImportResult, error)
}

type Service struct {
	customerRepo repository.CustomerRepository
	publisher    events.Publisher
}

func NewService(customerRepo repository.CustomerRepository, publisher events.Publisher) Manager {
	return &Service{
		customerRepo: customerRepo,
		publisher:    publisher,
	}
}

func (s *Service) List(ctx context.Context, businessID int, search string) ([]domain.Customer, error) {
	customers, err := s.customerRepo.List(ctx, businessID, strings.TrimSpace(search))
	if err != nil {
		return nil, domain.WrapRepositoryError(err, "Erro ao listar clientes")
	}

	return customers, nil
}

func (s *Service) Get(ctx context.Context, businessID, customerID int) (*domain.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, businessID, customerID)
	if err != nil {
		return nil, domain.WrapRepositoryError(err, "Erro ao buscar cliente")
	}

	if customer == nil {
		return nil, domain.NotFound(fmt.Sprintf("cliente %d", customerID))
	}

	return customer, nil
}

func (s *Service) Create(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	if err := normalize(customer); err != nil {
		return nil, err
	}

	created, err := s.customerRepo.Create(ctx, customer)
	if err != nil {
		return nil, domain.WrapRepositoryError(err, "Cliente já cadastrado")
	}

	return created, nil
}

func normalize(customer *domain.Customer) error {
	customer.Name = strings.TrimSpace(customer.Name)
	if customer.Name == "" {
		return domain.InvalidInput("Nome do cliente é obrigatório")
	}

	if customer.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*customer.Email))
		if email == "" {
			customer.Email = nil
			return nil
		}

		if _, err := mail.ParseAddress(email); err != nil {
			return domain.InvalidInput("Email inválido")
		}
		customer.Email = &email
	}

	return nil
}

func (s *Service) Update(ctx context.Context, req *domain.UpdateCustomerRequest) (*domain.Customer, error) {
	customer, err := s.Get(ctx, req.BusinessID, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		customer.Name = *req.Name
	}

	if req.Email != nil {
		customer.Email = req.Email
	}

	if req.Phone != nil {
		customer.Phone = req.Phone
	}

	if req.Address != nil {
		customer.Address = req.Address
	}

	if req.Notes != nil {
		customer.Notes = req.Notes
	}

	if err := normalize(customer); err != nil {
		return nil, err
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, domain.WrapRepositoryError(err, "Erro ao atualizar cliente")
	}

	return customer, nil
}

func (s *Service) Delete(ctx context.Context, businessID, customerID int) error {
	if err := s.customerRepo.Delete(ctx, businessID, customerID); err != nil {
		return domain.WrapRepositoryError(err, fmt.Sprintf("cliente %d", customerID))
	}

	return nil
}

func (s *Service) Export(ctx context.Context, businessID int) (string, error) {
	customers, err := s.List(ctx, businessID, "")
	if err != nil {
		return "", err
	}

	if len(customers) == 0 {
		return strings.Join(Columns, ","), nil
	}

	records := make([]csvio.Record, 0, len(customers))
	for _, customer := range customers {
		records = append(records, csvio.Record{
			{Key: "name", Value: customer.Name},
			{Key: "email", Value: deref(customer.Email)},
			{Key: "phone", Value: deref(customer.Phone)},
			{Key: "address", Value: deref(customer.Address)},
			{Key: "notes", Value: deref(customer.Notes)},
		})
	}

	return csvio.ToCSV(records), nil
}

// Import cria os clientes do CSV; quem já existe com o mesmo email é atualizado
func (s *Service) Import(ctx context.Context, businessID int, text string) (*domain.ImportResult, error) {
	records := csvio.FromCSV(text)
	result := &domain.ImportResult{Failed: []domain.RowError{}}

	for i, record := range records {
		row := i + 1

		var customerRow domain.CustomerRow
		if err := csvio.Decode(record, &customerRow); err != nil {
			result.Fail(row, fmt.Errorf("%w: %v", domain.ErrInvalidRow, err))
			continue
		}

		if err := customerRow.Validate(); err != nil {
			result.Fail(row, err)
			continue
		}

		if err := s.importCustomer(ctx, businessID, &customerRow); err != nil {
			result.Fail(row, err)
			continue
		}

		result.Imported++
	}

	log.ForContext(ctx).WithFields(log.Fields{
		"business_id": businessID,
		"imported":    result.Imported,
		"failed":      len(result.Failed),
	}).Info("Importação de clientes concluída")

	event := events.NewEvent(events.ImportCompleted, businessID, 0, 0).
		WithAttribute("entity", "customers").
		WithAttribute("imported", fmt.Sprint(result.Imported))
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.ForContext(ctx).WithError(err).Warn("Erro ao publicar evento de importação")
	}

	return result, nil
}

func (s *Service) importCustomer(ctx context.Context, businessID int, row *domain.CustomerRow) error {
	customer := &domain.Customer{BusinessID: businessID}

	if row.Email != nil {
		existing, err := s.customerRepo.GetByEmail(ctx, businessID, strings.TrimSpace(*row.Email))
		if err != nil {
			return domain.WrapRepositoryError(err, "Erro ao buscar cliente")
		}
		if existing != nil {
			customer = existing
		}
		customer.Email = row.Email
	}

	customer.Name = row.Name

	if row.Phone != nil {
		customer.Phone = row.Phone
	}
	if row.Address != nil {
		customer.Address = row.Address
	}
	if row.Notes != nil {
		customer.Notes = row.Notes
	}

	if customer.ID == 0 {
		_, err := s.Create(ctx, customer)
		return err
	}

	if err := normalize(customer); err != nil {
		return err
	}

	return domain.WrapRepositoryError(s.customerRepo.Update(ctx, customer), "Erro ao atualizar cliente")
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
