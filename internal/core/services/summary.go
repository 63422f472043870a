package services

import (
	"context"
	"fmt"

	"github.com/clinicare-bj/maternity-reminder-engine/internal/core/domain"
	"github.com/clinicare-bj/maternity-reminder-engine/internal/core/ports/out"
)

// RunDailySummary recompte les CPN du jour à partir d'une collecte fraîche
// et envoie le récapitulatif par SMS à chaque membre du personnel ayant un
// numéro enregistré.
func (s *ReminderService) RunDailySummary(ctx context.Context) error {
	candidates, err := s.CollectPrenatalCandidates(ctx)
	if err != nil {
		return fmt.Errorf("daily summary: %w", err)
	}

	var summary domain.DailySummary
	for _, candidate := range candidates {
		switch {
		case candidate.DayOffset == 0:
			summary.TodayCount++
		case candidate.DayOffset < 0:
			summary.LateCount++
		case candidate.DayOffset <= 7:
			summary.UpcomingWithin7Days++
		}
	}

	if !s.sms.IsAvailable() {
		s.logger.Warn("summary.daily.sms_unavailable", out.LogFields{
			"today":    summary.TodayCount,
			"late":     summary.LateCount,
			"upcoming": summary.UpcomingWithin7Days,
		})
		return nil
	}

	staff, err := s.store.GetStaffUsers(ctx)
	if err != nil {
		return fmt.Errorf("daily summary: staff fetch: %w", err)
	}

	delivered := 0
	for _, user := range staff {
		if user.Phone == "" {
			continue
		}

		result := s.sms.SendDailySummary(ctx, user, summary)
		if result.Success {
			delivered++
			continue
		}
		s.logger.Warn("summary.daily.delivery_failed", out.LogFields{
			"userId":  user.ID,
			"error":   result.Error,
			"skipped": result.Skipped,
		})
	}

	s.logger.Info("summary.daily.done", out.LogFields{
		"today":     summary.TodayCount,
		"late":      summary.LateCount,
		"upcoming":  summary.UpcomingWithin7Days,
		"delivered": delivered,
	})

	return nil
}

// RunWeeklySummary agrège l'activité des 7 derniers jours (consultations
// réalisées, nouvelles patientes, accouchements) plus l'état courant des
// rendez-vous, et l'envoie par email au personnel. Un compteur en échec est
// journalisé et laissé à zéro, le récapitulatif part quand même.
func (s *ReminderService) RunWeeklySummary(ctx context.Context) error {
	now := s.localNow()
	since := now.AddDate(0, 0, -7)

	var report domain.WeeklyReport

	if count, err := s.store.CountConsultationsSince(ctx, since); err != nil {
		s.logger.Warn("summary.weekly.consultations_count_failed", out.LogFields{"error": err.Error()})
	} else {
		report.ConsultationsDone = count
	}

	if count, err := s.store.CountPatientsSince(ctx, since); err != nil {
		s.logger.Warn("summary.weekly.patients_count_failed", out.LogFields{"error": err.Error()})
	} else {
		report.NewPatients = count
	}

	if count, err := s.store.CountBirthsSince(ctx, since); err != nil {
		s.logger.Warn("summary.weekly.births_count_failed", out.LogFields{"error": err.Error()})
	} else {
		report.Births = count
	}

	candidates, err := s.CollectPrenatalCandidates(ctx)
	if err != nil {
		return fmt.Errorf("weekly summary: %w", err)
	}
	for _, candidate := range candidates {
		if candidate.DayOffset < 0 {
			report.Late++
		} else {
			report.Upcoming++
		}
	}

	if !s.email.IsAvailable() {
		s.logger.Warn("summary.weekly.email_unavailable", out.LogFields{})
		return nil
	}

	staff, err := s.store.GetStaffUsers(ctx)
	if err != nil {
		return fmt.Errorf("weekly summary: staff fetch: %w", err)
	}

	delivered := 0
	for _, user := range staff {
		if user.Email == "" {
			continue
		}

		result := s.email.SendWeeklySummary(ctx, user, report)
		if result.Success {
			delivered++
			continue
		}
		s.logger.Warn("summary.weekly.delivery_failed", out.LogFields{
			"userId": user.ID,
			"error":  result.Error,
		})
	}

	s.logger.Info("summary.weekly.done", out.LogFields{
		"consultations": report.ConsultationsDone,
		"newPatients":   report.NewPatients,
		"births":        report.Births,
		"upcoming":      report.Upcoming,
		"late":          report.Late,
		"delivered":     delivered,
	})

	return nil
}
