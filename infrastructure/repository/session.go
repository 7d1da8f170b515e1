package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/business-manager-api/infrastructure/database/postgres"
	"github.com/vfg2006/business-manager-api/internal/domain"
)

const sessionsTable = "sessions"

type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID int) (int64, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type sessionRepository struct {
	conn *postgres.Connection
}

func NewSessionRepository(conn *postgres.Connection) SessionRepository {
	return &sessionRepository{
		conn: conn,
	}
}

func (r *sessionRepository) Create(ctx context.Context, session *domain.Session) error {
	query, args, err := psql.
		Insert(sessionsTable).
		Columns("id", "user_id", "user_agent", "expires_at").
		Values(session.ID, session.UserID, session.UserAgent, session.ExpiresAt).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	if err := r.conn.GetContext(ctx, session, query, args...); err != nil {
		return fmt.Errorf("erro ao criar sessão: %w", err)
	}

	return nil
}

func (r *sessionRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	query, args, err := psql.
		Select("id", "user_id", "user_agent", "expires_at", "created_at").
		From(sessionsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var session domain.Session
	if err := r.conn.GetContext(ctx, &session, query, args...); err != nil {
		if postgres.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao buscar sessão: %w", err)
	}

	return &session, nil
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.delete(ctx, squirrel.Eq{"id": id})
	return err
}

func (r *sessionRepository) DeleteByUser(ctx context.Context, userID int) (int64, error) {
	return r.delete(ctx, squirrel.Eq{"user_id": userID})
}

func (r *sessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return r.delete(ctx, squirrel.LtOrEq{"expires_at": now})
}

func (r *sessionRepository) delete(ctx context.Context, where squirrel.Sqlizer) (int64, error) {
	query, args, err := psql.
		Delete(sessionsTable).
		Where(where).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := r.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("erro ao remover sessões: %w", err)
	}

	return result.RowsAffected()
}
