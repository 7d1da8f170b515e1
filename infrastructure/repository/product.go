package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/business-manager-api/infrastructure/database/postgres"
	"github.com/vfg2006/business-manager-api/internal/domain"
)

const productsTable = "products"

var productColumns = []string{
	"id", "business_id", "category_id", "name", "sku", "description", "price",
	"cost", "stock", "low_stock_threshold", "created_at", "updated_at",
}

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, businessID, productID int) error
	GetByID(ctx context.Context, businessID, productID int) (*domain.Product, error)
	GetBySKU(ctx context.Context, businessID int, sku string) (*domain.Product, error)
	GetByName(ctx context.Context, businessID int, name string) (*domain.Product, error)
	List(ctx context.Context, filters domain.ProductFilters) ([]domain.Product, error)
	ListLowStock(ctx context.Context) ([]domain.Product, error)
	CountLowStock(ctx context.Context, businessID int) (int, error)
}

type productRepository struct {
	conn *postgres.Connection
}

func NewProductRepository(conn *postgres.Connection) ProductRepository {
	return &productRepository{
		conn: conn,
	}
}

func (r *productRepository) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	query, args, err := psql.
		Insert(productsTable).
		Columns("business_id", "category_id", "name", "sku", "description", "price", "cost", "stock", "low_stock_threshold").
		Values(
			product.BusinessID,
			product.CategoryID,
			product.Name,
			product.SKU,
			product.Description,
			product.Price,
			product.Cost,
			product.Stock,
			product.LowStockThreshold,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	if err := r.conn.GetContext(ctx, product, query, args...); err != nil {
		if postgres.IsUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("erro ao criar produto: %w", err)
	}

	return product, nil
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query, args, err := psql.
		Update(productsTable).
		SetMap(map[string]interface{}{
			"category_id":         product.CategoryID,
			"name":                product.Name,
			"sku":                 product.SKU,
			"description":         product.Description,
			"price":               product.Price,
			"cost":                product.Cost,
			"stock":               product.Stock,
			"low_stock_threshold": product.LowStockThreshold,
			"updated_at":          squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": product.ID, "business_id": product.BusinessID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	return execAffectingOne(ctx, r.conn, query, args, "erro ao atualizar produto")
}

func (r *productRepository) Delete(ctx context.Context, businessID, productID int) error {
	query, args, err := psql.
		Delete(productsTable).
		Where(squirrel.Eq{"id": productID, "business_id": businessID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	return execAffectingOne(ctx, r.conn, query, args, "erro ao remover produto")
}

func (r *productRepository) GetByID(ctx context.Context, businessID, productID int) (*domain.Product, error) {
	return r.getOne(ctx, squirrel.Eq{"id": productID, "business_id": businessID})
}

func (r *productRepository) GetBySKU(ctx context.Context, businessID int, sku string) (*domain.Product, error) {
	return r.getOne(ctx, squirrel.Eq{"sku": sku, "business_id": businessID})
}

func (r *productRepository) GetByName(ctx context.Context, businessID int, name string) (*domain.Product, error) {
	return r.getOne(ctx, squirrel.And{
		squirrel.Eq{"business_id": businessID},
		squirrel.Expr("LOWER(name) = LOWER(?)", name),
	})
}

func (r *productRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*domain.Product, error) {
	query, args, err := psql.
		Select(productColumns...).
		From(productsTable).
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var product domain.Product
	if err := r.conn.GetContext(ctx, &product, query, args...); err != nil {
		if postgres.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao buscar produto: %w", err)
	}

	return &product, nil
}

func (r *productRepository) List(ctx context.Context, filters domain.ProductFilters) ([]domain.Product, error) {
	builder := psql.
		Select(productColumns...).
		From(productsTable).
		Where(squirrel.Eq{"business_id": filters.BusinessID}).
		OrderBy("name ASC")

	if filters.CategoryID != nil {
		builder = builder.Where(squirrel.Eq{"category_id": *filters.CategoryID})
	}

	if filters.Search != "" {
		term := "%" + filters.Search + "%"
		builder = builder.Where(squirrel.Or{
			squirrel.ILike{"name": term},
			squirrel.ILike{"sku": term},
		})
	}

	if filters.LowStock {
		builder = builder.Where("stock <= low_stock_threshold")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	products := make([]domain.Product, 0)
	if err := r.conn.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, fmt.Errorf("erro ao listar produtos: %w", err)
	}

	return products, nil
}

// ListLowStock devolve os produtos abaixo do limite de todos os negócios
func (r *productRepository) ListLowStock(ctx context.Context) ([]domain.Product, error) {
	query, args, err := psql.
		Select(productColumns...).
		From(productsTable).
		Where("stock <= low_stock_threshold").
		OrderBy("business_id ASC", "stock ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	products := make([]domain.Product, 0)
	if err := r.conn.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, fmt.Errorf("erro ao listar produtos com estoque baixo: %w", err)
	}

	return products, nil
}

func (r *productRepository) CountLowStock(ctx context.Context, businessID int) (int, error) {
	query, args, err := psql.
		Select("COUNT(*)").
		From(productsTable).
		Where(squirrel.Eq{"business_id": businessID}).
		Where("stock <= low_stock_threshold").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var count int
	if err := r.conn.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("erro ao contar produtos com estoque baixo: %w", err)
	}

	return count, nil
}
