package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/vfg2006/business-manager-api/infrastructure/database/postgres"
	"github.com/vfg2006/business-manager-api/internal/domain"
)

const salesTable = "sales"

var saleColumns = []string{
	"s.id", "s.business_id", "s.user_id", "s.product_id", "s.customer_id", "s.quantity",
	"s.unit_price", "s.total_amount", "s.sale_date", "s.notes", "s.created_at",
	"p.name AS product_name", "p.category_id AS category_id",
}

// SaleRepository mantém o estoque do produto consistente com as vendas:
// criar, alterar a quantidade e remover uma venda ajustam products.stock na mesma transação
type SaleRepository interface {
	Create(ctx context.Context, sale *domain.Sale) (*domain.Sale, error)
	Update(ctx context.Context, sale *domain.Sale, previousQuantity int) error
	Delete(ctx context.Context, businessID, saleID int) (*domain.Sale, error)
	GetByID(ctx context.Context, businessID, saleID int) (*domain.Sale, error)
	List(ctx context.Context, filters domain.SaleFilters) ([]domain.Sale, error)
}

type saleRepository struct {
	conn *postgres.Connection
}

func NewSaleRepository(conn *postgres.Connection) SaleRepository {
	return &saleRepository{
		conn: conn,
	}
}

func (r *saleRepository) Create(ctx context.Context, sale *domain.Sale) (*domain.Sale, error) {
	err := r.conn.RunInTransaction(ctx, func(tx *sqlx.Tx) error {
		if err := adjustStock(ctx, tx, sale.BusinessID, sale.ProductID, -sale.Quantity); err != nil {
			return err
		}

		query, args, err := psql.
			Insert(salesTable).
			Columns("business_id", "user_id", "product_id", "customer_id", "quantity", "unit_price", "total_amount", "sale_date", "notes").
			Values(
				sale.BusinessID,
				sale.UserID,
				sale.ProductID,
				sale.CustomerID,
				sale.Quantity,
				sale.UnitPrice,
				sale.TotalAmount,
				sale.SaleDate,
				sale.Notes,
			).
			Suffix("RETURNING id, created_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("erro ao construir a query: %w", err)
		}

		if err := tx.GetContext(ctx, sale, query, args...); err != nil {
			return fmt.Errorf("erro ao criar venda: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return sale, nil
}

func (r *saleRepository) Update(ctx context.Context, sale *domain.Sale, previousQuantity int) error {
	return r.conn.RunInTransaction(ctx, func(tx *sqlx.Tx) error {
		if delta := sale.Quantity - previousQuantity; delta != 0 {
			if err := adjustStock(ctx, tx, sale.BusinessID, sale.ProductID, -delta); err != nil {
				return err
			}
		}

		query, args, err := psql.
			Update(salesTable).
			SetMap(map[string]interface{}{
				"customer_id":  sale.CustomerID,
				"quantity":     sale.Quantity,
				"unit_price":   sale.UnitPrice,
				"total_amount": sale.TotalAmount,
				"sale_date":    sale.SaleDate,
				"notes":        sale.Notes,
			}).
			Where(squirrel.Eq{"id": sale.ID, "business_id": sale.BusinessID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("erro ao construir a query: %w", err)
		}

		return execAffectingOne(ctx, tx, query, args, "erro ao atualizar venda")
	})
}

// Delete remove a venda e devolve a quantidade ao estoque do produto
func (r *saleRepository) Delete(ctx context.Context, businessID, saleID int) (*domain.Sale, error) {
	var sale domain.Sale

	err := r.conn.RunInTransaction(ctx, func(tx *sqlx.Tx) error {
		query, args, err := psql.
			Delete(salesTable).
			Where(squirrel.Eq{"id": saleID, "business_id": businessID}).
			Suffix("RETURNING id, business_id, user_id, product_id, customer_id, quantity, unit_price, total_amount, sale_date, notes, created_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("erro ao construir a query: %w", err)
		}

		if err := tx.GetContext(ctx, &sale, query, args...); err != nil {
			if postgres.IsNoRows(err) {
				return ErrNotFound
			}
			return fmt.Errorf("erro ao remover venda: %w", err)
		}

		err = adjustStock(ctx, tx, sale.BusinessID, sale.ProductID, sale.Quantity)
		if err == ErrNotFound {
			// produto já removido, nada a devolver
			return nil
		}

		return err
	})
	if err != nil {
		return nil, err
	}

	return &sale, nil
}

func (r *saleRepository) GetByID(ctx context.Context, businessID, saleID int) (*domain.Sale, error) {
	query, args, err := r.selectSales().
		Where(squirrel.Eq{"s.id": saleID, "s.business_id": businessID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var sale domain.Sale
	if err := r.conn.GetContext(ctx, &sale, query, args...); err != nil {
		if postgres.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao buscar venda: %w", err)
	}

	return &sale, nil
}

func (r *saleRepository) List(ctx context.Context, filters domain.SaleFilters) ([]domain.Sale, error) {
	builder := r.selectSales().
		Where(squirrel.Eq{"s.business_id": filters.BusinessID}).
		OrderBy("s.sale_date DESC", "s.id DESC")

	if filters.StartDate != nil {
		builder = builder.Where(squirrel.GtOrEq{"s.sale_date": *filters.StartDate})
	}

	if filters.EndDate != nil {
		builder = builder.Where(squirrel.LtOrEq{"s.sale_date": *filters.EndDate})
	}

	if filters.ProductID != nil {
		builder = builder.Where(squirrel.Eq{"s.product_id": *filters.ProductID})
	}

	if filters.CustomerID != nil {
		builder = builder.Where(squirrel.Eq{"s.customer_id": *filters.CustomerID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	sales := make([]domain.Sale, 0)
	if err := r.conn.SelectContext(ctx, &sales, query, args...); err != nil {
		return nil, fmt.Errorf("erro ao listar vendas: %w", err)
	}

	return sales, nil
}

func (r *saleRepository) selectSales() squirrel.SelectBuilder {
	return psql.
		Select(saleColumns...).
		From(salesTable + " s").
		LeftJoin(productsTable + " p ON p.id = s.product_id")
}

// adjustStock soma delta ao estoque. Um delta negativo só é aplicado se houver estoque suficiente.
func adjustStock(ctx context.Context, tx *sqlx.Tx, businessID, productID, delta int) error {
	builder := psql.
		Update(productsTable).
		Set("stock", squirrel.Expr("stock + ?", delta)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": productID, "business_id": businessID})

	if delta < 0 {
		builder = builder.Where(squirrel.GtOrEq{"stock": -delta})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	err = execAffectingOne(ctx, tx, query, args, "erro ao atualizar estoque")
	if err == ErrNotFound && delta < 0 {
		return ErrInsufficientStock
	}

	return err
}
