package in

import (
	"context"
	"errors"

	"github.com/clinicare-bj/maternity-reminder-engine/internal/core/domain"
)

// ErrPassInProgress signale qu'un déclenchement est arrivé pendant qu'une
// passe tournait déjà. Le déclenchement est rejeté, jamais mis en file.
var ErrPassInProgress = errors.New("reminder pass already in progress")

type ReminderUseCase interface {
	// Collecte des candidats, une entrée au plus par grossesse active
	CollectPrenatalCandidates(ctx context.Context) ([]domain.ReminderCandidate, error)

	// Collecte des candidats planning familial, rendez-vous futurs uniquement
	CollectFamilyPlanningCandidates(ctx context.Context) ([]domain.ReminderCandidate, error)

	// Passe complète: collecte, politique d'offset, envoi multi-canal
	RunReminderPass(ctx context.Context) (domain.PassReport, error)

	// Récapitulatif SMS du soir au personnel
	RunDailySummary(ctx context.Context) error

	// Récapitulatif email hebdomadaire au personnel
	RunWeeklySummary(ctx context.Context) error
}
