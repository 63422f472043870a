package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinicare-bj/maternity-reminder-engine/internal/core/domain"
	"github.com/clinicare-bj/maternity-reminder-engine/internal/core/ports/in"
	"github.com/clinicare-bj/maternity-reminder-engine/internal/core/ports/out"
)

// shouldRemind applique la politique d'offset, en valeurs exactes:
// CPN à J-3, J-1, jour J et tout retard; planning familial à J-3, J-1 et
// jour J seulement (les retards ont déjà été exclus à la collecte).
func shouldRemind(candidate domain.ReminderCandidate) bool {
	switch candidate.Kind {
	case domain.AppointmentKindPrenatal:
		return candidate.DayOffset < 0 ||
			candidate.DayOffset == 0 ||
			candidate.DayOffset == 1 ||
			candidate.DayOffset == 3
	case domain.AppointmentKindPlanning:
		return candidate.DayOffset == 0 ||
			candidate.DayOffset == 1 ||
			candidate.DayOffset == 3
	}
	return false
}

// RunReminderPass exécute une passe complète. Une seule passe à la fois:
// un déclenchement concurrent est rejeté avec ErrPassInProgress. La passe
// court jusqu'au bout une fois lancée, aucun échec individuel ne l'arrête.
func (s *ReminderService) RunReminderPass(ctx context.Context) (domain.PassReport, error) {
	if !s.passMu.TryLock() {
		s.logger.Warn("pass.already_running", out.LogFields{})
		return domain.PassReport{}, in.ErrPassInProgress
	}
	defer s.passMu.Unlock()

	report := domain.PassReport{
		RunID:     uuid.NewString(),
		StartedAt: s.localNow(),
	}

	s.logger.Info("pass.started", out.LogFields{
		"runId": report.RunID,
	})

	var candidates []domain.ReminderCandidate

	prenatal, err := s.CollectPrenatalCandidates(ctx)
	if err != nil {
		s.logger.Error("pass.prenatal_collection_failed", out.LogFields{
			"runId": report.RunID,
			"error": err.Error(),
		})
	} else {
		candidates = append(candidates, prenatal...)
	}

	planning, err := s.CollectFamilyPlanningCandidates(ctx)
	if err != nil {
		s.logger.Error("pass.planning_collection_failed", out.LogFields{
			"runId": report.RunID,
			"error": err.Error(),
		})
	} else {
		candidates = append(candidates, planning...)
	}

	report.CandidateCount = len(candidates)

	// Candidats traités un par un, séquentiellement
	for _, candidate := range candidates {
		if !shouldRemind(candidate) {
			continue
		}
		if s.dispatchCandidate(ctx, report.RunID, candidate) {
			report.SentCount++
		}
	}

	report.FinishedAt = s.localNow()

	s.logger.Info("pass.finished", out.LogFields{
		"runId":      report.RunID,
		"candidates": report.CandidateCount,
		"sent":       report.SentCount,
	})

	return report, nil
}

// dispatchCandidate envoie un candidat sur les trois canaux: in-app toujours,
// SMS et email selon disponibilité du canal et coordonnées de la patiente.
// Le candidat compte comme envoyé dès que la tentative in-app a eu lieu.
// Toute panique pendant le traitement est absorbée ici, la passe continue.
func (s *ReminderService) dispatchCandidate(ctx context.Context, runID string, candidate domain.ReminderCandidate) (sent bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("pass.candidate_failed", out.LogFields{
				"runId":       runID,
				"referenceId": candidate.ReferenceID,
				"kind":        candidate.Kind,
				"panic":       r,
			})
			sent = false
		}
	}()

	inAppResult := s.inApp.SendAppointmentReminder(ctx, candidate)
	sent = true

	smsResult := domain.DeliveryResult{Skipped: true}
	if s.sms.IsAvailable() && candidate.Patient.Phone != "" {
		smsResult = s.sms.SendAppointmentReminder(ctx, candidate)
	}

	emailResult := domain.DeliveryResult{Skipped: true}
	if s.email.IsAvailable() && candidate.Patient.Email != "" {
		emailResult = s.email.SendAppointmentReminder(ctx, candidate)
	}

	s.logger.Info("pass.candidate_dispatched", out.LogFields{
		"runId":       runID,
		"referenceId": candidate.ReferenceID,
		"kind":        candidate.Kind,
		"dayOffset":   candidate.DayOffset,
		"inApp":       inAppResult,
		"sms":         smsResult,
		"email":       emailResult,
	})

	return sent
}
