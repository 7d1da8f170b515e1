package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/business-manager-api/infrastructure/database/postgres"
	"github.com/vfg2006/business-manager-api/internal/domain"
)

const categoriesTable = "categories"

var categoryColumns = []string{"id", "business_id", "name", "description", "created_at", "updated_at"}

type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) (*domain.Category, error)
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, businessID, categoryID int) error
	GetByID(ctx context.Context, businessID, categoryID int) (*domain.Category, error)
	GetByName(ctx context.Context, businessID int, name string) (*domain.Category, error)
	List(ctx context.Context, businessID int) ([]domain.Category, error)
}

type categoryRepository struct {
	conn *postgres.Connection
}

func NewCategoryRepository(conn *postgres.Connection) CategoryRepository {
	return &categoryRepository{
		conn: conn,
	}
}

func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	query, args, err := psql.
		Insert(categoriesTable).
		Columns("business_id", "name", "description").
		Values(category.BusinessID, category.Name, category.Description).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	if err := r.conn.GetContext(ctx, category, query, args...); err != nil {
		if postgres.IsUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("erro ao criar categoria: %w", err)
	}

	return category, nil
}

func (r *categoryRepository) Update(ctx context.Context, category *domain.Category) error {
	query, args, err := psql.
		Update(categoriesTable).
		Set("name", category.Name).
		Set("description", category.Description).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": category.ID, "business_id": category.BusinessID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	return execAffectingOne(ctx, r.conn, query, args, "erro ao atualizar categoria")
}

func (r *categoryRepository) Delete(ctx context.Context, businessID, categoryID int) error {
	query, args, err := psql.
		Delete(categoriesTable).
		Where(squirrel.Eq{"id": categoryID, "business_id": businessID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	return execAffectingOne(ctx, r.conn, query, args, "erro ao remover categoria")
}

func (r *categoryRepository) GetByID(ctx context.Context, businessID, categoryID int) (*domain.Category, error) {
	return r.getOne(ctx, squirrel.Eq{"id": categoryID, "business_id": businessID})
}

func (r *categoryRepository) GetByName(ctx context.Context, businessID int, name string) (*domain.Category, error) {
	return r.getOne(ctx, squirrel.And{
		squirrel.Eq{"business_id": businessID},
		squirrel.Expr("LOWER(name) = LOWER(?)", name),
	})
}

func (r *categoryRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*domain.Category, error) {
	query, args, err := psql.
		Select(categoryColumns...).
		From(categoriesTable).
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var category domain.Category
	if err := r.conn.GetContext(ctx, &category, query, args...); err != nil {
		if postgres.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao buscar categoria: %w", err)
	}

	return &category, nil
}

func (r *categoryRepository) List(ctx context.Context, businessID int) ([]domain.Category, error) {
	query, args, err := psql.
		Select(categoryColumns...).
		From(categoriesTable).
		Where(squirrel.Eq{"business_id": businessID}).
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	categories := make([]domain.Category, 0)
	if err := r.conn.SelectContext(ctx, &categories, query, args...); err != nil {
		return nil, fmt.Errorf("erro ao listar categorias: %w", err)
	}

	return categories, nil
}
