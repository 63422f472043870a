package out

import (
	"context"

	"github.com/clinicare-bj/maternity-reminder-engine/internal/core/domain"
)

// CachePort mémorise les chaînes d'identité résolues, indexées par dossier.
// Seules les résolutions abouties sont stockées; un échec de résolution
// n'est jamais mis en cache.
type CachePort interface {
	GetPatientView(ctx context.Context, dossierID string) (*domain.PatientView, bool)
	StorePatientView(ctx context.Context, dossierID string, view domain.PatientView)
	InvalidatePatientView(ctx context.Context, dossierID string)
}
