package business

import (
	"context"
	"fmt"
	"strings"

	"github.com/vfg2006/business-manager-api/infrastructure/repository"
	"github.com/vfg2006/business-manager-api/internal/domain"
	"github.com/vfg2006/business-manager-api/pkg/log"
)

//go:generate mockgen -source=service.go -destination=mocks/manager.go -package=mocks

const DefaultCurrency = "BRL"

type Manager interface {
	List(ctx context.Context, userID int) ([]domain.Business, error)
	Get(ctx context.Context, userID, businessID int) (*domain.Business, error)
	Create(ctx context.Context, userID int, business *domain.Business) (*domain.Business, error)
	Update(ctx context.Context, userID int, req *domain.UpdateBusinessRequest) (*domain.Business, error)
	Delete(ctx context.Context, userID, businessID int) error
	Switch(ctx context.Context, userID, businessID int) (*domain.Business, error)
	Resolve(ctx context.Context, userID int, requestedID *int) (*domain.Business, error)
}

type Service struct {
	businessRepo repository.BusinessRepository
}

func NewService(businessRepo repository.BusinessRepository) Manager {
	return &Service{
		businessRepo: businessRepo,
	}
}

func (s *Service) List(ctx context.Context, userID int) ([]domain.Business, error) {
	businesses, err := s.businessRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, domain.WrapRepositoryError(err, "Erro ao listar negócios")
	}

	return businesses, nil
}

// Get devolve o negócio apenas se ele pertence ao usuário
func (s *Service) Get(ctx context.Context, userID, businessID int) (*domain.Business, error) {
	business, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		return nil, domain.WrapRepositoryError(err, "Erro ao buscar negócio")
	}

	if business == nil {
		return nil, domain.NotFound(fmt.Sprintf("negócio %d", businessID))
	}

	if business.UserID != userID {
		return nil, domain.Forbidden(fmt.Sprintf("negócio %d", businessID))
	}

	return business, nil
}

// Create grava o negócio; o primeiro negócio do usuário vira o padrão
func (s *Service) Create(ctx context.Context, userID int, business *domain.Business) (*domain.Business, error) {
	if business == nil || strings.TrimSpace(business.Name) == "" {
		return nil, domain.InvalidInput("Nome do negócio é obrigatório")
	}

	existing, err := s.businessRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, domain.WrapRepositoryError(err, "Erro ao listar negócios")
	}

	business.UserID = userID
	business.Name = strings.TrimSpace(business.Name)
	business.IsDefault = len(existing) == 0
	business.Currency = normalizeCurrency(business.Currency)

	created, err := s.businessRepo.Create(ctx, business)
	if err != nil {
		return nil, domain.WrapRepositoryError(err, "Erro ao criar negócio")
	}

	log.ForContext(ctx).WithField("business_id", created.ID).Info("Negócio criado")

	return created, nil
}

func normalizeCurrency(currency string) string {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return DefaultCurrency
	}
	return currency
}

func (s *Service) Update(ctx context.Context, userID int, req *domain.UpdateBusinessRequest) (*domain.Business, error) {
	business, err := s.Get(ctx, userID, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.InvalidInput("Nome do negócio é obrigatório")
		}
		business.Name = name
	}

	if req.Description != nil {
		business.Description = req.Description
	}

	if req.Address != nil {
		business.Address = req.Address
	}

	if req.Phone != nil {
		business.Phone = req.Phone
	}

	if req.Email != nil {
		business.Email = req.Email
	}

	if req.Currency != nil {
		business.Currency = normalizeCurrency(*req.Currency)
	}

	if err := s.businessRepo.Update(ctx, business); err != nil {
		return nil, domain.WrapRepositoryError(err, "Erro ao atualizar negócio")
	}

	return business, nil
}

// Delete remove o negócio. Se era o padrão, o próximo da lista assume.
func (s *Service) Delete(ctx context.Context, userID, businessID int) error {
	business, err := s.Get(ctx, userID, businessID)
	if err != nil {
		return err
	}

	if err := s.businessRepo.Delete(ctx, userID, businessID); err != nil {
		return domain.WrapRepositoryError(err, "Erro ao remover negócio")
	}

	if !business.IsDefault {
		return nil
	}

	remaining, err := s.businessRepo.ListByUser(ctx, userID)
	if err != nil {
		return domain.WrapRepositoryError(err, "Erro ao listar negócios")
	}

	if len(remaining) == 0 {
		return nil
	}

	if err := s.businessRepo.SetDefault(ctx, userID, remaining[0].ID); err != nil {
		return domain.WrapRepositoryError(err, "Erro ao definir negócio padrão")
	}

	return nil
}

// Switch torna o negócio o padrão do usuário
func (s *Service) Switch(ctx context.Context, userID, businessID int) (*domain.Business, error) {
	business, err := s.Get(ctx, userID, businessID)
	if err != nil {
		return nil, err
	}

	if err := s.businessRepo.SetDefault(ctx, userID, businessID); err != nil {
		return nil, domain.WrapRepositoryError(err, "Erro ao definir negócio padrão")
	}

	business.IsDefault = true

	log.ForContext(ctx).WithField("business_id", businessID).Info("Negócio padrão alterado")

	return business, nil
}

// Resolve escolhe o negócio da requisição: o informado pelo cliente ou o padrão do usuário
func (s *Service) Resolve(ctx context.Context, userID int, requestedID *int) (*domain.Business, error) {
	if requestedID != nil {
		return s.Get(ctx, userID, *requestedID)
	}

	business, err := s.businessRepo.GetDefault(ctx, userID)
	if err != nil {
		return nil, domain.WrapRepositoryError(err, "Erro ao buscar negócio padrão")
	}

	if business != nil {
		return business, nil
	}

	businesses, err := s.businessRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, domain.WrapRepositoryError(err, "Erro ao listar negócios")
	}

	if len(businesses) == 0 {
		return nil, noBusinessError()
	}

	return &businesses[0], nil
}
