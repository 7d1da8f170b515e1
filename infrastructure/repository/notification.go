package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/business-manager-api/infrastructure/database/postgres"
	"github.com/vfg2006/business-manager-api/internal/domain"
)

const notificationsTable = "notifications"

type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) (*domain.Notification, error)
	ListByUser(ctx context.Context, userID int, unreadOnly bool) ([]domain.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID int) error
	MarkAllRead(ctx context.Context, userID int) (int64, error)
	HasUnread(ctx context.Context, userID int, notificationType string, referenceID int) (bool, error)
}

type notificationRepository struct {
	conn *postgres.Connection
}

func NewNotificationRepository(conn *postgres.Connection) NotificationRepository {
	return &notificationRepository{
		conn: conn,
	}
}

func (r *notificationRepository) Create(ctx context.Context, notification *domain.Notification) (*domain.Notification, error) {
	query, args, err := psql.
		Insert(notificationsTable).
		Columns("user_id", "business_id", "type", "title", "message", "reference_id").
		Values(
			notification.UserID,
			notification.BusinessID,
			notification.Type,
			notification.Title,
			notification.Message,
			notification.ReferenceID,
		).
		Suffix("RETURNING id, read, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	if err := r.conn.GetContext(ctx, notification, query, args...); err != nil {
		return nil, fmt.Errorf("erro ao criar notificação: %w", err)
	}

	return notification, nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID int, unreadOnly bool) ([]domain.Notification, error) {
	builder := psql.
		Select("id", "user_id", "business_id", "type", "title", "message", "reference_id", "read", "created_at").
		From(notificationsTable).
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		Limit(100)

	if unreadOnly {
		builder = builder.Where(squirrel.Eq{"read": false})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	notifications := make([]domain.Notification, 0)
	if err := r.conn.SelectContext(ctx, &notifications, query, args...); err != nil {
		return nil, fmt.Errorf("erro ao listar notificações: %w", err)
	}

	return notifications, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, userID, notificationID int) error {
	query, args, err := psql.
		Update(notificationsTable).
		Set("read", true).
		Where(squirrel.Eq{"id": notificationID, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	return execAffectingOne(ctx, r.conn, query, args, "erro ao marcar notificação como lida")
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID int) (int64, error) {
	query, args, err := psql.
		Update(notificationsTable).
		Set("read", true).
		Where(squirrel.Eq{"user_id": userID, "read": false}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := r.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("erro ao marcar notificações como lidas: %w", err)
	}

	return result.RowsAffected()
}

// HasUnread evita alertas repetidos para o mesmo produto enquanto o anterior não foi lido
func (r *notificationRepository) HasUnread(ctx context.Context, userID int, notificationType string, referenceID int) (bool, error) {
	query, args, err := psql.
		Select("1").
		Prefix("SELECT EXISTS (").
		From(notificationsTable).
		Where(squirrel.Eq{
			"user_id":      userID,
			"type":         notificationType,
			"reference_id": referenceID,
			"read":         false,
		}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var exists bool
	if err := r.conn.GetContext(ctx, &exists, query, args...); err != nil {
		return false, fmt.Errorf("erro ao verificar notificações: %w", err)
	}

	return exists, nil
}
