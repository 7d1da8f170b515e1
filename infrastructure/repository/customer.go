package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/business-manager-api/infrastructure/database/postgres"
	"github.com/vfg2006/business-manager-api/internal/domain"
)

const customersTable = "customers"

var customerColumns = []string{"id", "business_id", "name", "email", "phone", "address", "notes", "created_at", "updated_at"}

type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	Update(ctx context.Context, customer *domain.Customer) error
	Delete(ctx context.Context, businessID, customerID int) error
	GetByID(ctx context.Context, businessID, customerID int) (*domain.Customer, error)
	GetByEmail(ctx context.Context, businessID int, email string) (*domain.Customer, error)
	List(ctx context.Context, businessID int, search string) ([]domain.Customer, error)
	Count(ctx context.Context, businessID int) (int, error)
}

type customerRepository struct {
	conn *postgres.Connection
}

func NewCustomerRepository(conn *postgres.Connection) CustomerRepository {
	return &customerRepository{
		conn: conn,
	}
}

func (r *customerRepository) Create(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	query, args, err := psql.
		Insert(customersTable).
		Columns("business_id", "name", "email", "phone", "address", "notes").
		Values(customer.BusinessID, customer.Name, customer.Email, customer.Phone, customer.Address, customer.Notes).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	if err := r.conn.GetContext(ctx, customer, query, args...); err != nil {
		if postgres.IsUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("erro ao criar cliente: %w", err)
	}

	return customer, nil
}

func (r *customerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	query, args, err := psql.
		Update(customersTable).
		SetMap(map[string]interface{}{
			"name":       customer.Name,
			"email":      customer.Email,
			"phone":      customer.Phone,
			"address":    customer.Address,
			"notes":      customer.Notes,
			"updated_at": squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": customer.ID, "business_id": customer.BusinessID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	return execAffectingOne(ctx, r.conn, query, args, "erro ao atualizar cliente")
}

func (r *customerRepository) Delete(ctx context.Context, businessID, customerID int) error {
	query, args, err := psql.
		Delete(customersTable).
		Where(squirrel.Eq{"id": customerID, "business_id": businessID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	return execAffectingOne(ctx, r.conn, query, args, "erro ao remover cliente")
}

func (r *customerRepository) GetByID(ctx context.Context, businessID, customerID int) (*domain.Customer, error) {
	return r.getOne(ctx, squirrel.Eq{"id": customerID, "business_id": businessID})
}

func (r *customerRepository) GetByEmail(ctx context.Context, businessID int, email string) (*domain.Customer, error) {
	return r.getOne(ctx, squirrel.And{
		squirrel.Eq{"business_id": businessID},
		squirrel.Expr("LOWER(email) = LOWER(?)", email),
	})
}

func (r *customerRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*domain.Customer, error) {
	query, args, err := psql.
		Select(customerColumns...).
		From(customersTable).
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var customer domain.Customer
	if err := r.conn.GetContext(ctx, &customer, query, args...); err != nil {
		if postgres.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao buscar cliente: %w", err)
	}

	return &customer, nil
}

func (r *customerRepository) List(ctx context.Context, businessID int, search string) ([]domain.Customer, error) {
	builder := psql.
		Select(customerColumns...).
		From(customersTable).
		Where(squirrel.Eq{"business_id": businessID}).
		OrderBy("name ASC")

	if search != "" {
		term := "%" + search + "%"
		builder = builder.Where(squirrel.Or{
			squirrel.ILike{"name": term},
			squirrel.ILike{"email": term},
		})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	customers := make([]domain.Customer, 0)
	if err := r.conn.SelectContext(ctx, &customers, query, args...); err != nil {
		return nil, fmt.Errorf("erro ao listar clientes: %w", err)
	}

	return customers, nil
}

func (r *customerRepository) Count(ctx context.Context, businessID int) (int, error) {
	query, args, err := psql.
		Select("COUNT(*)").
		From(customersTable).
		Where(squirrel.Eq{"business_id": businessID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var count int
	if err := r.conn.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("erro ao contar clientes: %w", err)
	}

	return count, nil
}
