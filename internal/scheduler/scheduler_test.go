package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/business-manager-api/internal/config"
	authmocks "github.com/vfg2006/business-manager-api/internal/usecases/authenticating/mocks"
	notifymocks "github.com/vfg2006/business-manager-api/internal/usecases/notifying/mocks"
	"go.uber.org/mock/gomock"
)

func testConfig() *config.Config {
	return &config.Config{
		LowStockAlerts: config.LowStockAlerts{CronSchedule: "0 7 * * *", Enabled: false},
		SessionCleanup: config.SessionCleanup{CronSchedule: "0 * * * *", Enabled: true},
	}
}

func TestLowStockAlertsService_CreateAlerts(t *testing.T) {
	ctx := context.Background()

	t.Run("registra o resultado", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		notifier := notifymocks.NewMockNotifier(ctrl)
		notifier.EXPECT().CreateLowStockAlerts(ctx).Return(3, nil)

		service := NewLowStockAlertsService(notifier, testConfig())
		require.NoError(t, service.CreateAlerts(ctx))

		status := service.GetStatus()
		assert.Equal(t, "3 alerta(s) criado(s)", status["last_result"])
		assert.Equal(t, "", status["last_error"])
		assert.Equal(t, false, status["running"])
		assert.Equal(t, false, status["sync_enabled"])
		assert.False(t, status["last_sync_completed_at"].(time.Time).IsZero())
	})

	t.Run("registra o erro", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		notifier := notifymocks.NewMockNotifier(ctrl)
		notifier.EXPECT().CreateLowStockAlerts(ctx).Return(0, errors.New("banco indisponível"))

		service := NewLowStockAlertsService(notifier, testConfig())
		err := service.CreateAlerts(ctx)

		require.Error(t, err)
		assert.Equal(t, "banco indisponível", service.GetStatus()["last_error"])
	})

	t.Run("não executa em paralelo", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		notifier := notifymocks.NewMockNotifier(ctrl)

		service := NewLowStockAlertsService(notifier, testConfig())
		service.syncRunning = true

		require.NoError(t, service.CreateAlerts(ctx))
		assert.False(t, service.TriggerManualSync())
	})
}

func TestLowStockAlertsService_StartDisabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := NewLowStockAlertsService(notifymocks.NewMockNotifier(ctrl), testConfig())

	require.NoError(t, service.Start(context.Background()))
	assert.Empty(t, service.scheduler.Jobs())
}

func TestSessionCleanupService(t *testing.T) {
	ctrl := gomock.NewController(t)
	auth := authmocks.NewMockAuthenticator(ctrl)

	done := make(chan struct{})
	auth.EXPECT().CleanupExpiredSessions(gomock.Any()).DoAndReturn(func(context.Context) (int64, error) {
		defer close(done)
		return 5, nil
	})

	service := NewSessionCleanupService(auth, testConfig())
	assert.True(t, service.TriggerManualSync())

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("limpeza manual não executou")
	}

	assert.Eventually(t, func() bool {
		return service.GetStatus()["last_result"] == "5 sessão(ões) removida(s)"
	}, time.Second, 10*time.Millisecond)
}

func TestSessionCleanupService_Start(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := NewSessionCleanupService(authmocks.NewMockAuthenticator(ctrl), testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, service.Start(ctx))
	assert.Len(t, service.scheduler.Jobs(), 1)
}
