package services

import (
	"context"
	"fmt"
	"time"

	"github.com/clinicare-bj/maternity-reminder-engine/internal/core/domain"
	"github.com/clinicare-bj/maternity-reminder-engine/internal/core/json_types"
	"github.com/clinicare-bj/maternity-reminder-engine/internal/core/ports/out"
	"github.com/clinicare-bj/maternity-reminder-engine/internal/utils"
)

// CollectPrenatalCandidates parcourt les grossesses actives et émet au plus
// un candidat par grossesse: la CPN dont la consultation a été créée le plus
// récemment parmi celles qui portent une date de rendez-vous. Les rendez-vous
// dépassés restent inclus (relance des retardataires).
func (s *ReminderService) CollectPrenatalCandidates(ctx context.Context) ([]domain.ReminderCandidate, error) {
	now := s.localNow()

	pregnancies, err := s.store.GetActivePregnancies(ctx)
	if err != nil {
		return nil, fmt.Errorf("collect.prenatal: pregnancies fetch: %w", err)
	}

	candidates := make([]domain.ReminderCandidate, 0, len(pregnancies))
	for _, pregnancy := range pregnancies {
		candidate, ok := s.buildPrenatalCandidate(ctx, pregnancy, now)
		if !ok {
			continue
		}
		candidates = append(candidates, candidate)
	}

	s.logger.Info("collect.prenatal.done", out.LogFields{
		"pregnancies": len(pregnancies),
		"candidates":  len(candidates),
	})

	return candidates, nil
}

type eligibleVisit struct {
	visit        domain.PrenatalVisit
	consultation *domain.Consultation
	rdv          time.Time
	createdAt    time.Time
}

// moreRecentThan départage deux consultations éligibles d'une même grossesse.
// Les horodatages de création identiques sont départagés par identifiant de
// consultation décroissant, ordre arbitraire mais déterministe.
func (e eligibleVisit) moreRecentThan(other *eligibleVisit) bool {
	if other == nil {
		return true
	}
	if !e.createdAt.Equal(other.createdAt) {
		return e.createdAt.After(other.createdAt)
	}
	return e.consultation.ID > other.consultation.ID
}

func (s *ReminderService) buildPrenatalCandidate(ctx context.Context, pregnancy domain.Pregnancy, now time.Time) (domain.ReminderCandidate, bool) {
	visits, err := s.store.GetPrenatalVisits(ctx, pregnancy.ID)
	if err != nil {
		s.logger.Warn("collect.prenatal.visits_fetch_failed", out.LogFields{
			"pregnancyId": pregnancy.ID,
			"error":       err.Error(),
		})
		return domain.ReminderCandidate{}, false
	}

	var best *eligibleVisit
	for _, visit := range visits {
		if visit.ConsultationID == "" {
			continue
		}

		consultation, err := s.store.GetConsultation(ctx, visit.ConsultationID)
		if err != nil {
			s.logger.Warn("collect.prenatal.consultation_fetch_failed", out.LogFields{
				"pregnancyId":    pregnancy.ID,
				"consultationId": visit.ConsultationID,
				"error":          err.Error(),
			})
			continue
		}

		rdv, ok := json_types.CoerceInstant(consultation.RDV)
		if !ok {
			continue
		}

		// CreatedAt absent ou illisible vaut zéro: la consultation reste
		// éligible mais perd face à toute consultation datée
		createdAt, _ := json_types.CoerceInstant(consultation.CreatedAt)

		candidate := eligibleVisit{
			visit:        visit,
			consultation: consultation,
			rdv:          rdv,
			createdAt:    createdAt,
		}
		if candidate.moreRecentThan(best) {
			best = &candidate
		}
	}

	if best == nil {
		return domain.ReminderCandidate{}, false
	}

	patient, err := s.resolvePatientIdentity(ctx, pregnancy.DossierID)
	if err != nil {
		s.logger.Warn("collect.prenatal.identity_resolution_failed", out.LogFields{
			"pregnancyId": pregnancy.ID,
			"dossierId":   pregnancy.DossierID,
			"error":       err.Error(),
		})
		return domain.ReminderCandidate{}, false
	}

	return domain.ReminderCandidate{
		Kind:        domain.AppointmentKindPrenatal,
		ReferenceID: best.consultation.ID,
		Label:       best.visit.Label,
		Appointment: best.rdv,
		DayOffset:   utils.DayOffset(best.rdv, now),
		Patient:     *patient,
		OwnerUserID: best.consultation.CreatedBy,
		Metadata: map[string]string{
			"pregnancyId": pregnancy.ID,
			"visitId":     best.visit.ID,
		},
	}, true
}

// CollectFamilyPlanningCandidates émet un candidat par enregistrement de
// planning familial dont le prochain rendez-vous est aujourd'hui ou à venir.
// Contrairement aux CPN, les rendez-vous dépassés sont exclus d'emblée.
func (s *ReminderService) CollectFamilyPlanningCandidates(ctx context.Context) ([]domain.ReminderCandidate, error) {
	now := s.localNow()

	records, err := s.store.GetFamilyPlanningRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("collect.planning: records fetch: %w", err)
	}

	candidates := make([]domain.ReminderCandidate, 0, len(records))
	for _, record := range records {
		rdv, ok := json_types.CoerceInstant(record.RDVProchain)
		if !ok {
			continue
		}

		offset := utils.DayOffset(rdv, now)
		if offset < 0 {
			continue
		}

		patient, err := s.resolvePatientIdentity(ctx, record.DossierID)
		if err != nil {
			s.logger.Warn("collect.planning.identity_resolution_failed", out.LogFields{
				"recordId":  record.ID,
				"dossierId": record.DossierID,
				"error":     err.Error(),
			})
			continue
		}

		candidates = append(candidates, domain.ReminderCandidate{
			Kind:        domain.AppointmentKindPlanning,
			ReferenceID: record.ID,
			Label:       record.Method,
			Appointment: rdv,
			DayOffset:   offset,
			Patient:     *patient,
			OwnerUserID: record.CreatedBy,
			Metadata: map[string]string{
				"method": record.Method,
			},
		})
	}

	s.logger.Info("collect.planning.done", out.LogFields{
		"records":    len(records),
		"candidates": len(candidates),
	})

	return candidates, nil
}
