package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/business-manager-api/infrastructure/database/postgres"
	"github.com/vfg2006/business-manager-api/infrastructure/events"
	"github.com/vfg2006/business-manager-api/infrastructure/repository"
	"github.com/vfg2006/business-manager-api/internal/api"
	"github.com/vfg2006/business-manager-api/internal/api/handler"
	"github.com/vfg2006/business-manager-api/internal/config"
	"github.com/vfg2006/business-manager-api/internal/scheduler"
	"github.com/vfg2006/business-manager-api/internal/usecases/authenticating"
	"github.com/vfg2006/business-manager-api/internal/usecases/business"
	"github.com/vfg2006/business-manager-api/internal/usecases/cataloging"
	"github.com/vfg2006/business-manager-api/internal/usecases/customer"
	"github.com/vfg2006/business-manager-api/internal/usecases/notifying"
	"github.com/vfg2006/business-manager-api/internal/usecases/reporting"
	"github.com/vfg2006/business-manager-api/internal/usecases/selling"
)

func main() {
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	publisher, err := events.NewPublisher(cfg.Events.AMQPURL, cfg.Events.Exchange)
	if err != nil {
		// Sem broker a API continua funcionando, apenas sem eventos
		logrus.WithError(err).Error("Erro ao conectar ao broker de eventos, publicação desabilitada")
		publisher = events.NoopPublisher{}
	}
	defer publisher.Close()

	userRepo := repository.NewUserRepository(pgConn)
	sessionRepo := repository.NewSessionRepository(pgConn)
	businessRepo := repository.NewBusinessRepository(pgConn)
	categoryRepo := repository.NewCategoryRepository(pgConn)
	productRepo := repository.NewProductRepository(pgConn)
	customerRepo := repository.NewCustomerRepository(pgConn)
	saleRepo := repository.NewSaleRepository(pgConn)
	feedbackRepo := repository.NewFeedbackRepository(pgConn)
	notificationRepo := repository.NewNotificationRepository(pgConn)
	statsRepo := repository.NewStatsRepository(pgConn)

	authenticator := authenticating.NewService(userRepo, sessionRepo, cfg)
	businessService := business.NewService(businessRepo)
	catalogService := cataloging.NewService(categoryRepo, productRepo, publisher)
	customerService := customer.NewService(customerRepo, publisher)
	salesService := selling.NewService(saleRepo, productRepo, customerRepo, publisher)
	reporter := reporting.NewService(saleRepo, productRepo, categoryRepo, customerRepo, statsRepo)
	notifier := notifying.NewService(feedbackRepo, notificationRepo, productRepo, businessRepo)

	lowStockAlerts := scheduler.NewLowStockAlertsService(notifier, cfg)
	sessionCleanup := scheduler.NewSessionCleanupService(authenticator, cfg)

	if err := lowStockAlerts.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de alertas de estoque baixo")
	}

	if err := sessionCleanup.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de limpeza de sessões")
	}

	server, err := api.New(cfg, api.Services{
		Authenticator: authenticator,
		Businesses:    businessService,
		Catalog:       catalogService,
		Customers:     customerService,
		Sales:         salesService,
		Reporter:      reporter,
		Notifier:      notifier,
		Jobs: handler.Jobs{
			scheduler.JobLowStockAlerts: lowStockAlerts,
			scheduler.JobSessionCleanup: sessionCleanup,
		},
	})
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
