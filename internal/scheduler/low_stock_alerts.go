package scheduler

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/business-manager-api/internal/config"
	"github.com/vfg2006/business-manager-api/internal/usecases/notifying"
)

const JobLowStockAlerts = "low-stock-alerts"

// LowStockAlertsService gera periodicamente as notificações de estoque baixo
type LowStockAlertsService struct {
	*runner
	notifier notifying.Notifier
}

func NewLowStockAlertsService(notifier notifying.Notifier, cfg *config.Config) *LowStockAlertsService {
	return &LowStockAlertsService{
		runner: newRunner(JobLowStockAlerts, JobConfig{
			CronSchedule: cfg.LowStockAlerts.CronSchedule, // Default: 7h todos os dias
			SyncEnabled:  cfg.LowStockAlerts.Enabled,
		}),
		notifier: notifier,
	}
}

func (s *LowStockAlertsService) Start(ctx context.Context) error {
	return s.start(ctx, s.CreateAlerts)
}

func (s *LowStockAlertsService) CreateAlerts(ctx context.Context) error {
	_, err := s.execute(ctx, func(ctx context.Context) (string, error) {
		logrus.Info("Iniciando criação de alertas de estoque baixo")

		created, err := s.notifier.CreateLowStockAlerts(ctx)
		if err != nil {
			return "", err
		}

		logrus.WithField("created", created).Info("Alertas de estoque baixo concluídos")
		return fmt.Sprintf("%d alerta(s) criado(s)", created), nil
	})
	return err
}

// TriggerManualSync executa a rotina fora do agendamento
func (s *LowStockAlertsService) TriggerManualSync() bool {
	return s.trigger(s.CreateAlerts)
}

func (s *LowStockAlertsService) GetStatus() map[string]any {
	return s.status()
}
