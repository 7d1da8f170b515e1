package scheduler

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/business-manager-api/internal/config"
	"github.com/vfg2006/business-manager-api/internal/usecases/authenticating"
)

const JobSessionCleanup = "session-cleanup"

// SessionCleanupService remove as sessões expiradas do banco
type SessionCleanupService struct {
	*runner
	authenticator authenticating.Authenticator
}

func NewSessionCleanupService(authenticator authenticating.Authenticator, cfg *config.Config) *SessionCleanupService {
	return &SessionCleanupService{
		runner: newRunner(JobSessionCleanup, JobConfig{
			CronSchedule: cfg.SessionCleanup.CronSchedule,
			SyncEnabled:  cfg.SessionCleanup.Enabled,
		}),
		authenticator: authenticator,
	}
}

func (s *SessionCleanupService) Start(ctx context.Context) error {
	return s.start(ctx, s.Cleanup)
}

func (s *SessionCleanupService) Cleanup(ctx context.Context) error {
	_, err := s.execute(ctx, func(ctx context.Context) (string, error) {
		removed, err := s.authenticator.CleanupExpiredSessions(ctx)
		if err != nil {
			return "", err
		}

		logrus.WithField("removed", removed).Info("Sessões expiradas removidas")
		return fmt.Sprintf("%d sessão(ões) removida(s)", removed), nil
	})
	return err
}

func (s *SessionCleanupService) TriggerManualSync() bool {
	return s.trigger(s.Cleanup)
}

func (s *SessionCleanupService) GetStatus() map[string]any {
	return s.status()
}
