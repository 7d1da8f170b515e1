// Package scheduler contém as rotinas agendadas da API (alertas de estoque e limpeza de sessões)
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
)

// Job é o que o endpoint administrativo enxerga de cada rotina
type Job interface {
	TriggerManualSync() bool
	GetStatus() map[string]any
}

type JobConfig struct {
	CronSchedule string
	SyncEnabled  bool
}

// runner guarda o estado de execução de uma rotina e impede execuções simultâneas
type runner struct {
	name      string
	config    JobConfig
	scheduler *gocron.Scheduler

	syncMutex           sync.Mutex
	syncRunning         bool
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastResult          string
	lastError           string
}

func newRunner(name string, config JobConfig) *runner {
	logrus.WithFields(logrus.Fields{
		"job":           name,
		"cron_schedule": config.CronSchedule,
		"enabled":       config.SyncEnabled,
	}).Info("Configuração do agendador carregada")

	return &runner{
		name:      name,
		config:    config,
		scheduler: gocron.NewScheduler(time.Local),
	}
}

// start agenda run no cron configurado e para o agendador quando ctx for cancelado
func (r *runner) start(ctx context.Context, run func(context.Context) error) error {
	if !r.config.SyncEnabled {
		logrus.WithField("job", r.name).Info("Rotina desabilitada por configuração")
		return nil
	}

	logrus.WithFields(logrus.Fields{"job": r.name, "cron": r.config.CronSchedule}).Info("Iniciando agendador")

	_, err := r.scheduler.Cron(r.config.CronSchedule).Do(func() {
		if err := run(ctx); err != nil {
			logrus.WithError(err).WithField("job", r.name).Error("Erro na execução agendada")
		}
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar %s: %w", r.name, err)
	}

	r.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.WithField("job", r.name).Info("Parando agendador")
		r.scheduler.Stop()
	}()

	return nil
}

// execute roda fn se não houver outra execução em andamento. Devolve false quando pulou.
func (r *runner) execute(ctx context.Context, fn func(context.Context) (string, error)) (bool, error) {
	r.syncMutex.Lock()
	if r.syncRunning {
		r.syncMutex.Unlock()
		logrus.WithField("job", r.name).Warn("Rotina já está em execução")
		return false, nil
	}
	r.syncRunning = true
	r.lastSyncStartedAt = time.Now()
	r.syncMutex.Unlock()

	result, err := fn(ctx)

	r.syncMutex.Lock()
	defer r.syncMutex.Unlock()

	r.syncRunning = false
	r.lastSyncCompletedAt = time.Now()
	r.lastResult = result
	r.lastError = ""
	if err != nil {
		r.lastError = err.Error()
	}

	return true, err
}

func (r *runner) isRunning() bool {
	r.syncMutex.Lock()
	defer r.syncMutex.Unlock()
	return r.syncRunning
}

// trigger dispara run em background, sem esperar o término
func (r *runner) trigger(run func(context.Context) error) bool {
	if r.isRunning() {
		logrus.WithField("job", r.name).Info("Rotina já em andamento, ignorando solicitação manual")
		return false
	}

	logrus.WithField("job", r.name).Info("Iniciando execução manual")
	go func() {
		if err := run(context.Background()); err != nil {
			logrus.WithError(err).WithField("job", r.name).Error("Erro na execução manual")
		}
	}()
	return true
}

func (r *runner) status() map[string]any {
	r.syncMutex.Lock()
	defer r.syncMutex.Unlock()

	return map[string]any{
		"sync_enabled":           r.config.SyncEnabled,
		"sync_cron":              r.config.CronSchedule,
		"running":                r.syncRunning,
		"last_sync_started_at":   r.lastSyncStartedAt,
		"last_sync_completed_at": r.lastSyncCompletedAt,
		"last_result":            r.lastResult,
		"last_error":             r.lastError,
	}
}
