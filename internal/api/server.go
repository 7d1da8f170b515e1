package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/business-manager-api/internal/api/handler"
	"github.com/vfg2006/business-manager-api/internal/api/handler/router"
	"github.com/vfg2006/business-manager-api/internal/config"
	"github.com/vfg2006/business-manager-api/internal/usecases/authenticating"
	"github.com/vfg2006/business-manager-api/internal/usecases/business"
	"github.com/vfg2006/business-manager-api/internal/usecases/cataloging"
	"github.com/vfg2006/business-manager-api/internal/usecases/customer"
	"github.com/vfg2006/business-manager-api/internal/usecases/notifying"
	"github.com/vfg2006/business-manager-api/internal/usecases/reporting"
	"github.com/vfg2006/business-manager-api/internal/usecases/selling"
	"github.com/vfg2006/business-manager-api/pkg/middleware"
)

const shutdownTimeout = 15 * time.Second

// Services agrupa os casos de uso expostos pela API
type Services struct {
	Authenticator authenticating.Authenticator
	Businesses    business.Manager
	Catalog       cataloging.Cataloger
	Customers     customer.Manager
	Sales         selling.Seller
	Reporter      reporting.Reporter
	Notifier      notifying.Notifier
	Jobs          handler.Jobs
}

type Server struct {
	httpServer *http.Server
}

func New(cfg *config.Config, services Services) (*Server, error) {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
			Handler:           NewHandler(cfg, services),
			ReadHeaderTimeout: 2 * time.Second,
		},
	}, nil
}

// NewHandler monta o router com a cadeia global de middlewares
func NewHandler(cfg *config.Config, services Services) http.Handler {
	cookie := handler.SessionCookie{
		Name:   cfg.Session.CookieName,
		Secure: cfg.Session.CookieSecure,
	}

	transfer := handler.TransferServices{
		Catalog:   services.Catalog,
		Customers: services.Customers,
		Sales:     services.Sales,
		Notifier:  services.Notifier,
	}

	admin := handler.AdminServices{
		Authenticator: services.Authenticator,
		Reporter:      services.Reporter,
		Notifier:      services.Notifier,
		Jobs:          services.Jobs,
	}

	rt := router.New(
		router.WithRoutes(handler.Healthcheck()...),
		router.WithRoutes(handler.Authentication(services.Authenticator, cookie)...),
		router.WithRoutes(handler.Businesses(services.Businesses)...),
		router.WithRoutes(handler.Catalog(services.Catalog, services.Businesses)...),
		router.WithRoutes(handler.Customers(services.Customers, services.Businesses)...),
		router.WithRoutes(handler.Sales(services.Sales, services.Businesses)...),
		router.WithRoutes(handler.Transfer(transfer, services.Businesses)...),
		router.WithRoutes(handler.Reports(services.Reporter, services.Businesses)...),
		router.WithRoutes(handler.Notifications(services.Notifier, services.Businesses)...),
		router.WithRoutes(handler.Admin(admin)...),
	)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(cfg.Server.AllowedOrigins),
		middleware.AuthMiddleware(services.Authenticator, cfg.Session.CookieName),
	}

	return alice.New(middlewares...).Then(rt)
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("Servidor iniciando")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("Erro durante a execução do servidor")
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		logrus.Info("Sinal de interrupção recebido")
	case <-ctx.Done():
		logrus.Info("Contexto de aplicação cancelado")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logrus.WithFields(logrus.Fields{
		"timeout": shutdownTimeout.String(),
	}).Info("Iniciando desligamento gracioso do servidor")

	if err := s.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Erro durante o desligamento do servidor")
		return err
	}

	logrus.Info("Servidor desligado com sucesso")
	return nil
}

func (s Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}

	logrus.Info("Servidor HTTP desligado com sucesso")
	return nil
}
