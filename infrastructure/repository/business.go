package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/vfg2006/business-manager-api/infrastructure/database/postgres"
	"github.com/vfg2006/business-manager-api/internal/domain"
)

const businessesTable = "businesses"

var businessColumns = []string{
	"id", "user_id", "name", "description", "address", "phone", "email",
	"currency", "is_default", "created_at", "updated_at",
}

type BusinessRepository interface {
	Create(ctx context.Context, business *domain.Business) (*domain.Business, error)
	Update(ctx context.Context, business *domain.Business) error
	Delete(ctx context.Context, userID, businessID int) error
	GetByID(ctx context.Context, businessID int) (*domain.Business, error)
	GetDefault(ctx context.Context, userID int) (*domain.Business, error)
	ListByUser(ctx context.Context, userID int) ([]domain.Business, error)
	SetDefault(ctx context.Context, userID, businessID int) error
}

type businessRepository struct {
	conn *postgres.Connection
}

func NewBusinessRepository(conn *postgres.Connection) BusinessRepository {
	return &businessRepository{
		conn: conn,
	}
}

func (r *businessRepository) Create(ctx context.Context, business *domain.Business) (*domain.Business, error) {
	query, args, err := psql.
		Insert(businessesTable).
		Columns("user_id", "name", "description", "address", "phone", "email", "currency", "is_default").
		Values(
			business.UserID,
			business.Name,
			business.Description,
			business.Address,
			business.Phone,
			business.Email,
			business.Currency,
			business.IsDefault,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	if err := r.conn.GetContext(ctx, business, query, args...); err != nil {
		return nil, fmt.Errorf("erro ao criar negócio: %w", err)
	}

	return business, nil
}

func (r *businessRepository) Update(ctx context.Context, business *domain.Business) error {
	query, args, err := psql.
		Update(businessesTable).
		SetMap(map[string]interface{}{
			"name":        business.Name,
			"description": business.Description,
			"address":     business.Address,
			"phone":       business.Phone,
			"email":       business.Email,
			"currency":    business.Currency,
			"updated_at":  squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": business.ID, "user_id": business.UserID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	return execAffectingOne(ctx, r.conn, query, args, "erro ao atualizar negócio")
}

func (r *businessRepository) Delete(ctx context.Context, userID, businessID int) error {
	query, args, err := psql.
		Delete(businessesTable).
		Where(squirrel.Eq{"id": businessID, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	return execAffectingOne(ctx, r.conn, query, args, "erro ao remover negócio")
}

func (r *businessRepository) GetByID(ctx context.Context, businessID int) (*domain.Business, error) {
	return r.getOne(ctx, squirrel.Eq{"id": businessID})
}

func (r *businessRepository) GetDefault(ctx context.Context, userID int) (*domain.Business, error) {
	return r.getOne(ctx, squirrel.Eq{"user_id": userID, "is_default": true})
}

func (r *businessRepository) getOne(ctx context.Context, where squirrel.Eq) (*domain.Business, error) {
	query, args, err := psql.
		Select(businessColumns...).
		From(businessesTable).
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var business domain.Business
	if err := r.conn.GetContext(ctx, &business, query, args...); err != nil {
		if postgres.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao buscar negócio: %w", err)
	}

	return &business, nil
}

func (r *businessRepository) ListByUser(ctx context.Context, userID int) ([]domain.Business, error) {
	query, args, err := psql.
		Select(businessColumns...).
		From(businessesTable).
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("is_default DESC", "name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	businesses := make([]domain.Business, 0)
	if err := r.conn.SelectContext(ctx, &businesses, query, args...); err != nil {
		return nil, fmt.Errorf("erro ao listar negócios: %w", err)
	}

	return businesses, nil
}

// SetDefault desmarca todos os negócios do usuário e marca o escolhido na mesma transação
func (r *businessRepository) SetDefault(ctx context.Context, userID, businessID int) error {
	return r.conn.RunInTransaction(ctx, func(tx *sqlx.Tx) error {
		unset, args, err := psql.
			Update(businessesTable).
			Set("is_default", false).
			Where(squirrel.Eq{"user_id": userID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("erro ao construir a query: %w", err)
		}

		if _, err := tx.ExecContext(ctx, unset, args...); err != nil {
			return fmt.Errorf("erro ao desmarcar negócio padrão: %w", err)
		}

		set, args, err := psql.
			Update(businessesTable).
			Set("is_default", true).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{"id": businessID, "user_id": userID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("erro ao construir a query: %w", err)
		}

		return execAffectingOne(ctx, tx, set, args, "erro ao marcar negócio padrão")
	})
}

// execAffectingOne executa o comando e devolve ErrNotFound quando nenhuma linha foi afetada
func execAffectingOne(ctx context.Context, q postgres.Queryer, query string, args []interface{}, msg string) error {
	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("%s: %w", msg, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", msg, err)
	}

	if affected == 0 {
		return ErrNotFound
	}

	return nil
}
