package out

import (
	"context"
	"errors"
	"time"

	"github.com/clinicare-bj/maternity-reminder-engine/internal/core/domain"
)

// ErrNotFound est retourné par les lectures unitaires quand le document
// n'existe pas. La collecte l'interprète comme un maillon manquant.
var ErrNotFound = errors.New("record not found")

// RecordStorePort est la frontière avec la base documentaire du tableau de
// bord. Lecture seule, à l'exception de l'insertion des notifications in-app.
type RecordStorePort interface {
	// Parcours des rappels
	GetActivePregnancies(ctx context.Context) ([]domain.Pregnancy, error)
	GetPrenatalVisits(ctx context.Context, pregnancyID string) ([]domain.PrenatalVisit, error)
	GetConsultation(ctx context.Context, consultationID string) (*domain.Consultation, error)
	GetFamilyPlanningRecords(ctx context.Context) ([]domain.FamilyPlanningRecord, error)

	// Chaîne d'identité
	GetCaseRecord(ctx context.Context, dossierID string) (*domain.CaseRecord, error)
	GetPatientIdentity(ctx context.Context, patientID string) (*domain.PatientIdentity, error)
	GetPersonIdentity(ctx context.Context, personID string) (*domain.PersonIdentity, error)

	// Destinataires des récapitulatifs
	GetStaffUsers(ctx context.Context) ([]domain.StaffUser, error)

	// Agrégats du récapitulatif hebdomadaire
	CountConsultationsSince(ctx context.Context, since time.Time) (int, error)
	CountPatientsSince(ctx context.Context, since time.Time) (int, error)
	CountBirthsSince(ctx context.Context, since time.Time) (int, error)

	// Seule écriture du moteur
	InsertNotification(ctx context.Context, notification domain.Notification) error
}
