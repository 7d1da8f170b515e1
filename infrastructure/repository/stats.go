package repository

import (
	"context"
	"fmt"

	"github.com/vfg2006/business-manager-api/infrastructure/database/postgres"
	"github.com/vfg2006/business-manager-api/internal/domain"
)

type StatsRepository interface {
	GetPlatformStats(ctx context.Context) (*domain.AdminStats, error)
}

type statsRepository struct {
	conn *postgres.Connection
}

func NewStatsRepository(conn *postgres.Connection) StatsRepository {
	return &statsRepository{
		conn: conn,
	}
}

type platformStatsRow struct {
	TotalUsers      int     `db:"total_users"`
	ActiveUsers     int     `db:"active_users"`
	TotalBusinesses int     `db:"total_businesses"`
	TotalProducts   int     `db:"total_products"`
	TotalCustomers  int     `db:"total_customers"`
	TotalSales      int     `db:"total_sales"`
	TotalRevenue    float64 `db:"total_revenue"`
	FeedbackCount   int     `db:"feedback_count"`
	AverageRating   float64 `db:"average_rating"`
}

// GetPlatformStats consolida os contadores de todas as tabelas em uma única consulta
func (r *statsRepository) GetPlatformStats(ctx context.Context) (*domain.AdminStats, error) {
	query, args, err := psql.
		Select(
			"(SELECT COUNT(*) FROM users) AS total_users",
			"(SELECT COUNT(*) FROM users WHERE active) AS active_users",
			"(SELECT COUNT(*) FROM businesses) AS total_businesses",
			"(SELECT COUNT(*) FROM products) AS total_products",
			"(SELECT COUNT(*) FROM customers) AS total_customers",
			"(SELECT COUNT(*) FROM sales) AS total_sales",
			"(SELECT COALESCE(SUM(total_amount), 0) FROM sales) AS total_revenue",
			"(SELECT COUNT(*) FROM feedback) AS feedback_count",
			"(SELECT COALESCE(AVG(rating), 0) FROM feedback) AS average_rating",
		).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var row platformStatsRow
	if err := r.conn.GetContext(ctx, &row, query, args...); err != nil {
		return nil, fmt.Errorf("erro ao buscar estatísticas da plataforma: %w", err)
	}

	stats := domain.AdminStats(row)

	return &stats, nil
}
