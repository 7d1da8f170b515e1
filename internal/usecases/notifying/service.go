package notifying

import (
	"context"
	"fmt"
	"strings"

	"github.com/vfg2006/business-manager-api/infrastructure/repository"
	"github.com/vfg2006/business-manager-api/internal/domain"
	"github.com/vfg2006/business-manager-api/pkg/log"
)

//go:generate mockgen -source=service.go -destination=mocks/notifier.go -package=mocks

const (
	MinRating        = 1
	MaxRating        = 5
	MaxMessageLength = 2000
)

type Notifier interface {
	SubmitFeedback(ctx context.Context, feedback *domain.Feedback) (*domain.Feedback, error)
	ListFeedback(ctx context.Context) ([]domain.Feedback, error)
	List(ctx context.Context, userID int, unreadOnly bool) ([]domain.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID int) error
	MarkAllRead(ctx context.Context, userID int) (int64, error)
	NotifyImport(ctx context.Context, userID, businessID int, entity string, result *domain.ImportResult) error
	CreateLowStockAlerts(ctx context.Context) (int, error)
}

type Service struct {
	feedbackRepo     repository.FeedbackRepository
	notificationRepo repository.NotificationRepository
	productRepo      repository.ProductRepository
	businessRepo     repository.BusinessRepository
}

func NewService(
	feedbackRepo repository.FeedbackRepository,
	notificationRepo repository.NotificationRepository,
	productRepo repository.ProductRepository,
	businessRepo repository.BusinessRepository,
) Notifier {
	return &Service{
		feedbackRepo:     feedbackRepo,
		notificationRepo: notificationRepo,
		productRepo:      productRepo,
		businessRepo:     businessRepo,
	}
}

func (s *Service) SubmitFeedback(ctx context.Context, feedback *domain.Feedback) (*domain.Feedback, error) {
	feedback.Message = strings.TrimSpace(feedback.Message)

	if feedback.Rating < MinRating || feedback.Rating > MaxRating {
		return nil, domain.InvalidInput(fmt.Sprintf("A nota deve estar entre %d e %d", MinRating, MaxRating))
	}

	if feedback.Message == "" {
		return nil, domain.InvalidInput("A mensagem é obrigatória")
	}

	if len(feedback.Message) > MaxMessageLength {
		return nil, domain.InvalidInput("Mensagem muito longa")
	}

	created, err := s.feedbackRepo.Create(ctx, feedback)
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("Erro ao registrar feedback")
		return nil, domain.WrapRepositoryError(err, "Erro ao registrar feedback")
	}

	return created, nil
}

func (s *Service) ListFeedback(ctx context.Context) ([]domain.Feedback, error) {
	feedback, err := s.feedbackRepo.List(ctx)
	if err != nil {
		return nil, domain.WrapRepositoryError(err, "Erro ao listar feedbacks")
	}
	return feedback, nil
}

func (s *Service) List(ctx context.Context, userID int, unreadOnly bool) ([]domain.Notification, error) {
	notifications, err := s.notificationRepo.ListByUser(ctx, userID, unreadOnly)
	if err != nil {
		return nil, domain.WrapRepositoryError(err, "Erro ao listar notificações")
	}
	return notifications, nil
}

func (s *Service) MarkRead(ctx context.Context, userID, notificationID int) error {
	if err := s.notificationRepo.MarkRead(ctx, userID, notificationID); err != nil {
		return domain.WrapRepositoryError(err, "Notificação não encontrada")
	}
	return nil
}

func (s *Service) MarkAllRead(ctx context.Context, userID int) (int64, error) {
	count, err := s.notificationRepo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, domain.WrapRepositoryError(err, "Erro ao marcar notificações")
	}
	return count, nil
}

// NotifyImport avisa o usuário do resultado de uma importação CSV
func (s *Service) NotifyImport(ctx context.Context, userID, businessID int, entity string, result *domain.ImportResult) error {
	message := fmt.Sprintf("%d registro(s) importado(s)", result.Imported)
	if len(result.Failed) > 0 {
		message = fmt.Sprintf("%s, %d linha(s) com erro", message, len(result.Failed))
	}

	notification := &domain.Notification{
		UserID:     userID,
		BusinessID: &businessID,
		Type:       domain.NotificationTypeImport,
		Title:      fmt.Sprintf("Importação de %s concluída", entity),
		Message:    message,
	}

	if _, err := s.notificationRepo.Create(ctx, notification); err != nil {
		log.ForContext(ctx).WithError(err).Error("Erro ao criar notificação de importação")
		return domain.WrapRepositoryError(err, "Erro ao criar notificação")
	}

	return nil
}

// CreateLowStockAlerts cria uma notificação para o dono de cada produto com estoque baixo.
// Produtos que já têm um alerta não lido não geram outro.
func (s *Service) CreateLowStockAlerts(ctx context.Context) (int, error) {
	logger := log.ForContext(ctx)

	products, err := s.productRepo.ListLowStock(ctx)
	if err != nil {
		return 0, domain.WrapRepositoryError(err, "Erro ao listar produtos com estoque baixo")
	}

	owners := make(map[int]int)
	created := 0

	for _, product := range products {
		ownerID, ok := owners[product.BusinessID]
		if !ok {
			business, err := s.businessRepo.GetByID(ctx, product.BusinessID)
			if err != nil {
				return created, domain.WrapRepositoryError(err, "Erro ao buscar negócio")
			}
			if business == nil {
				logger.Warnf("Negócio %d não encontrado para o produto %d", product.BusinessID, product.ID)
				continue
			}
			ownerID = business.UserID
			owners[product.BusinessID] = ownerID
		}

		exists, err := s.notificationRepo.HasUnread(ctx, ownerID, domain.NotificationTypeLowStock, product.ID)
		if err != nil {
			return created, domain.WrapRepositoryError(err, "Erro ao verificar notificações")
		}
		if exists {
			continue
		}

		businessID := product.BusinessID
		productID := product.ID
		notification := &domain.Notification{
			UserID:      ownerID,
			BusinessID:  &businessID,
			Type:        domain.NotificationTypeLowStock,
			Title:       "Estoque baixo",
			Message:     fmt.Sprintf("%s (%s) tem %d unidade(s) em estoque", product.Name, product.SKU, product.Stock),
			ReferenceID: &productID,
		}

		if _, err := s.notificationRepo.Create(ctx, notification); err != nil {
			return created, domain.WrapRepositoryError(err, "Erro ao criar notificação")
		}
		created++
	}

	logger.Infof("Alertas de estoque baixo criados: %d de %d produtos", created, len(products))

	return created, nil
}
