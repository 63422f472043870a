package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/clinicare-bj/maternity-reminder-engine/internal/config"
	"github.com/clinicare-bj/maternity-reminder-engine/internal/core/ports/in"
	"github.com/clinicare-bj/maternity-reminder-engine/internal/core/ports/out"
)

// Handle possède les trois tâches récurrentes du moteur, déclenchées dans
// la timezone de la clinique. Construit une fois au démarrage et injecté,
// jamais de singleton global. Sans état persistant entre deux exécutions:
// seuls le drapeau de marche et les identifiants d'entrées cron vivent ici.
type Handle struct {
	cron    *cron.Cron
	useCase in.ReminderUseCase
	cfg     *config.Config
	logger  out.LoggerPort

	mu      sync.Mutex
	running bool
	entries []cron.EntryID
}

func NewHandle(useCase in.ReminderUseCase, cfg *config.Config, location *time.Location, logger out.LoggerPort) *Handle {
	return &Handle{
		cron:    cron.New(cron.WithLocation(location)),
		useCase: useCase,
		cfg:     cfg,
		logger:  logger.WithModule("Scheduler"),
	}
}

// Start enregistre les trois tâches et démarre le cron. Idempotent: un
// second appel ne fait rien, hormis un avertissement.
func (h *Handle) Start() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.running {
		h.logger.Warn("scheduler.already_started", out.LogFields{})
		return nil
	}

	jobs := []struct {
		name string
		spec string
		run  func(context.Context) error
	}{
		{"reminder_pass", h.cfg.Scheduler.ReminderCron, h.runReminderPass},
		{"daily_summary", h.cfg.Scheduler.DailySummaryCron, h.useCase.RunDailySummary},
		{"weekly_summary", h.cfg.Scheduler.WeeklySummaryCron, h.useCase.RunWeeklySummary},
	}

	for _, job := range jobs {
		job := job
		entryID, err := h.cron.AddFunc(job.spec, func() {
			h.logger.Info("scheduler.job_fired", out.LogFields{
				"job": job.name,
			})
			if err := job.run(context.Background()); err != nil {
				h.logger.Error("scheduler.job_failed", out.LogFields{
					"job":   job.name,
					"error": err.Error(),
				})
			}
		})
		if err != nil {
			h.logger.Error("scheduler.register_failed", out.LogFields{
				"job":   job.name,
				"spec":  job.spec,
				"error": err.Error(),
			})
			return err
		}
		h.entries = append(h.entries, entryID)

		h.logger.Info("scheduler.job_registered", out.LogFields{
			"job":  job.name,
			"spec": job.spec,
		})
	}

	h.cron.Start()
	h.running = true

	return nil
}

// Stop annule toutes les tâches enregistrées. Idempotent.
func (h *Handle) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.running {
		h.logger.Warn("scheduler.already_stopped", out.LogFields{})
		return
	}

	for _, entryID := range h.entries {
		h.cron.Remove(entryID)
	}
	h.entries = nil
	h.cron.Stop()
	h.running = false

	h.logger.Info("scheduler.stopped", out.LogFields{})
}

func (h *Handle) runReminderPass(ctx context.Context) error {
	_, err := h.useCase.RunReminderPass(ctx)
	return err
}

// Déclencheurs manuels: exécutent le corps de la tâche immédiatement, de
// façon synchrone, hors planification.

func (h *Handle) RunRemindersNow(ctx context.Context) error {
	_, err := h.useCase.RunReminderPass(ctx)
	return err
}

func (h *Handle) RunDailySummaryNow(ctx context.Context) error {
	return h.useCase.RunDailySummary(ctx)
}

func (h *Handle) RunWeeklySummaryNow(ctx context.Context) error {
	return h.useCase.RunWeeklySummary(ctx)
}
