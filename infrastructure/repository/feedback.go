package repository

import (
	"context"
	"fmt"

	"github.com/vfg2006/business-manager-api/infrastructure/database/postgres"
	"github.com/vfg2006/business-manager-api/internal/domain"
)

const feedbackTable = "feedback"

type FeedbackRepository interface {
	Create(ctx context.Context, feedback *domain.Feedback) (*domain.Feedback, error)
	List(ctx context.Context) ([]domain.Feedback, error)
}

type feedbackRepository struct {
	conn *postgres.Connection
}

func NewFeedbackRepository(conn *postgres.Connection) FeedbackRepository {
	return &feedbackRepository{
		conn: conn,
	}
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *domain.Feedback) (*domain.Feedback, error) {
	query, args, err := psql.
		Insert(feedbackTable).
		Columns("user_id", "business_id", "rating", "message").
		Values(feedback.UserID, feedback.BusinessID, feedback.Rating, feedback.Message).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	if err := r.conn.GetContext(ctx, feedback, query, args...); err != nil {
		return nil, fmt.Errorf("erro ao registrar feedback: %w", err)
	}

	return feedback, nil
}

func (r *feedbackRepository) List(ctx context.Context) ([]domain.Feedback, error) {
	query, args, err := psql.
		Select("id", "user_id", "business_id", "rating", "message", "created_at").
		From(feedbackTable).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	items := make([]domain.Feedback, 0)
	if err := r.conn.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("erro ao listar feedback: %w", err)
	}

	return items, nil
}
