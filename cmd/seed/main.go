// Seed cria um administrador de demonstração com um negócio, categorias, produtos,
// clientes e vendas. Pode ser executado mais de uma vez: o usuário existente é reaproveitado.
package main

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/business-manager-api/infrastructure/database/postgres"
	"github.com/vfg2006/business-manager-api/infrastructure/events"
	"github.com/vfg2006/business-manager-api/infrastructure/repository"
	"github.com/vfg2006/business-manager-api/internal/config"
	"github.com/vfg2006/business-manager-api/internal/domain"
	"github.com/vfg2006/business-manager-api/internal/usecases/authenticating"
	"github.com/vfg2006/business-manager-api/internal/usecases/business"
	"github.com/vfg2006/business-manager-api/internal/usecases/cataloging"
	"github.com/vfg2006/business-manager-api/internal/usecases/customer"
	"github.com/vfg2006/business-manager-api/internal/usecases/selling"
)

const (
	adminName     = "Administrador Demo"
	adminEmail    = "admin@demo.com"
	adminPassword = "Admin12345"
	businessName  = "Loja Demo"
)

type seedProduct struct {
	Name     string
	Category string
	Price    float64
	Cost     float64
	Stock    int
}

var categories = []string{"Bebidas", "Padaria", "Mercearia"}

var products = []seedProduct{
	{Name: "Café torrado 500g", Category: "Mercearia", Price: 24.9, Cost: 15, Stock: 40},
	{Name: "Pão francês", Category: "Padaria", Price: 0.8, Cost: 0.3, Stock: 300},
	{Name: "Bolo de fubá", Category: "Padaria", Price: 18, Cost: 7.5, Stock: 6},
	{Name: "Suco de laranja 1L", Category: "Bebidas", Price: 9.5, Cost: 5.2, Stock: 25},
	{Name: "Água mineral 500ml", Category: "Bebidas", Price: 3, Cost: 1.1, Stock: 120},
	{Name: "Açúcar cristal 1kg", Category: "Mercearia", Price: 5.49, Cost: 3.8, Stock: 3},
}

var customers = []domain.Customer{
	{Name: "Maria Souza", Email: strPtr("maria@exemplo.com"), Phone: strPtr("(11) 98888-0001")},
	{Name: "João Lima", Email: strPtr("joao@exemplo.com")},
	{Name: "Cliente balcão"},
}

func strPtr(v string) *string { return &v }

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339})
	logrus.Info("Iniciando script de carga inicial...")

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	ctx := context.Background()

	conn, err := postgres.NewConnection(ctx, cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}
	defer conn.Close()

	userRepo := repository.NewUserRepository(conn)
	productRepo := repository.NewProductRepository(conn)
	customerRepo := repository.NewCustomerRepository(conn)
	publisher := events.NoopPublisher{}

	authenticator := authenticating.NewService(userRepo, repository.NewSessionRepository(conn), cfg)
	businesses := business.NewService(repository.NewBusinessRepository(conn))
	catalog := cataloging.NewService(repository.NewCategoryRepository(conn), productRepo, publisher)
	customerService := customer.NewService(customerRepo, publisher)
	sales := selling.NewService(repository.NewSaleRepository(conn), productRepo, customerRepo, publisher)

	startTime := time.Now()

	admin := ensureAdmin(ctx, authenticator, userRepo)

	store, err := businesses.Create(ctx, admin.ID, &domain.Business{Name: businessName})
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao criar negócio")
	}
	logrus.Infof("Negócio %q criado com id %d", store.Name, store.ID)

	categoryIDs := insertCategories(ctx, catalog, store.ID)
	productIDs := insertProducts(ctx, catalog, store.ID, categoryIDs)
	customerIDs := insertCustomers(ctx, customerService, store.ID)
	insertSales(ctx, sales, store.ID, admin.ID, productIDs, customerIDs)

	logrus.Infof("Carga inicial concluída em %v. Login: %s / %s", time.Since(startTime), adminEmail, adminPassword)
}

// ensureAdmin cadastra o usuário de demonstração, ou reaproveita o existente, e o promove a admin
func ensureAdmin(ctx context.Context, authenticator authenticating.Authenticator, userRepo repository.UserRepository) *domain.User {
	user, err := authenticator.Register(ctx, &domain.RegisterRequest{Name: adminName, Email: adminEmail, Password: adminPassword})
	if err != nil {
		if !errors.Is(err, authenticating.ErrUserAlreadyExists) {
			logrus.WithError(err).Fatal("Erro ao cadastrar administrador")
		}

		user, err = userRepo.GetUserByEmail(ctx, adminEmail)
		if err != nil || user == nil {
			logrus.WithError(err).Fatal("Erro ao buscar administrador existente")
		}
		logrus.Infof("Administrador %s já existe, reaproveitando", adminEmail)
	}

	if err := userRepo.UpdateUser(ctx, &domain.User{ID: user.ID, RoleID: domain.RoleAdmin, Active: true}); err != nil {
		logrus.WithError(err).Fatal("Erro ao promover administrador")
	}

	return user
}

func insertCategories(ctx context.Context, catalog cataloging.Cataloger, businessID int) map[string]int {
	ids := make(map[string]int, len(categories))
	errorCount := 0

	for _, name := range categories {
		created, err := catalog.CreateCategory(ctx, &domain.Category{BusinessID: businessID, Name: name})
		if err != nil {
			logrus.Errorf("ERRO ao inserir categoria %s: %v", name, err)
			errorCount++
			continue
		}
		ids[name] = created.ID
	}

	logrus.Infof("Inserção de categorias concluída. Sucesso: %d, Erros: %d", len(ids), errorCount)
	return ids
}

func insertProducts(ctx context.Context, catalog cataloging.Cataloger, businessID int, categoryIDs map[string]int) []int {
	ids := make([]int, 0, len(products))
	errorCount := 0

	for i, p := range products {
		product := &domain.Product{
			BusinessID:        businessID,
			Name:              p.Name,
			Price:             p.Price,
			Cost:              p.Cost,
			Stock:             p.Stock,
			LowStockThreshold: 10,
		}
		if categoryID, ok := categoryIDs[p.Category]; ok {
			product.CategoryID = &categoryID
		}

		created, err := catalog.CreateProduct(ctx, product)
		if err != nil {
			logrus.Errorf("ERRO ao inserir produto [%d/%d] %s: %v", i+1, len(products), p.Name, err)
			errorCount++
			continue
		}
		ids = append(ids, created.ID)
		logrus.Debugf("Produto %s criado com SKU %s", created.Name, created.SKU)
	}

	logrus.Infof("Inserção de produtos concluída. Sucesso: %d, Erros: %d", len(ids), errorCount)
	return ids
}

func insertCustomers(ctx context.Context, service customer.Manager, businessID int) []int {
	ids := make([]int, 0, len(customers))
	errorCount := 0

	for _, c := range customers {
		c.BusinessID = businessID
		created, err := service.Create(ctx, &c)
		if err != nil {
			logrus.Errorf("ERRO ao inserir cliente %s: %v", c.Name, err)
			errorCount++
			continue
		}
		ids = append(ids, created.ID)
	}

	logrus.Infof("Inserção de clientes concluída. Sucesso: %d, Erros: %d", len(ids), errorCount)
	return ids
}

// insertSales distribui vendas pelos últimos meses para os gráficos terem dados
func insertSales(ctx context.Context, sales selling.Seller, businessID, userID int, productIDs, customerIDs []int) {
	if len(productIDs) == 0 {
		logrus.Warn("Nenhum produto criado, vendas ignoradas")
		return
	}

	successCount := 0
	errorCount := 0
	now := time.Now()

	for i := 0; i < 12; i++ {
		saleDate := now.AddDate(0, -i%6, -i)
		req := &domain.CreateSaleRequest{
			BusinessID: businessID,
			UserID:     userID,
			ProductID:  productIDs[i%len(productIDs)],
			Quantity:   1 + i%3,
			SaleDate:   &saleDate,
		}
		if len(customerIDs) > 0 && i%2 == 0 {
			customerID := customerIDs[i%len(customerIDs)]
			req.CustomerID = &customerID
		}

		if _, err := sales.Create(ctx, req); err != nil {
			logrus.Errorf("ERRO ao inserir venda %d: %v", i+1, err)
			errorCount++
			continue
		}
		successCount++
	}

	logrus.Infof("Inserção de vendas concluída. Sucesso: %d, Erros: %d", successCount, errorCount)
}
