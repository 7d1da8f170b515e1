package domain

// ChartPoint é um par rótulo/valor pronto para gráfico
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type SalesStats struct {
	TotalSales        int     `json:"total_sales"`
	TotalRevenue      float64 `json:"total_revenue"`
	AverageOrderValue float64 `json:"average_order_value"`
	ConversionRate    float64 `json:"conversion_rate"`
}

type Dashboard struct {
	BusinessID      int          `json:"business_id"`
	Year            int          `json:"year"`
	Stats           SalesStats   `json:"stats"`
	SalesByMonth    []ChartPoint `json:"sales_by_month"`
	SalesByCategory []ChartPoint `json:"sales_by_category"`
	TopProducts     []ChartPoint `json:"top_products"`
	LowStockCount   int          `json:"low_stock_count"`
	CustomerCount   int          `json:"customer_count"`
}

// AdminStats são os números agregados de toda a plataforma
type AdminStats struct {
	TotalUsers      int     `json:"total_users"`
	ActiveUsers     int     `json:"active_users"`
	TotalBusinesses int     `json:"total_businesses"`
	TotalProducts   int     `json:"total_products"`
	TotalCustomers  int     `json:"total_customers"`
	TotalSales      int     `json:"total_sales"`
	TotalRevenue    float64 `json:"total_revenue"`
	FeedbackCount   int     `json:"feedback_count"`
	AverageRating   float64 `json:"average_rating"`
}
