package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/clinicare-bj/maternity-reminder-engine/internal/config"
	"github.com/clinicare-bj/maternity-reminder-engine/internal/core/domain"
	"github.com/clinicare-bj/maternity-reminder-engine/internal/core/ports/out"
)

// Collections du tableau de bord consommées par le moteur
const (
	colGrossesses    = "grossesses"
	colCPN           = "cpn"
	colConsultations = "consultations"
	colPlanning      = "planningFamilial"
	colDossiers      = "dossiers"
	colPatientes     = "patientes"
	colPersonnes     = "personnes"
	colUsers         = "users"
	colNotifications = "notifications"
	colAccouchements = "accouchements"
)

// FirestoreAdapter est la seule implémentation du RecordStorePort. Lecture
// seule, à l'exception de l'insertion des notifications in-app.
type FirestoreAdapter struct {
	client *firestore.Client
	logger out.LoggerPort
}

func NewFirestoreAdapter(ctx context.Context, cfg *config.Config, logger out.LoggerPort) (*FirestoreAdapter, error) {
	var opts []option.ClientOption
	if cfg.Firestore.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.Firestore.CredentialsFile))
	}

	client, err := firestore.NewClient(ctx, cfg.Firestore.ProjectID, opts...)
	if err != nil {
		logger.Error("firestore.connect_failed", out.LogFields{
			"projectId": cfg.Firestore.ProjectID,
			"error":     err.Error(),
		})
		return nil, err
	}

	return &FirestoreAdapter{
		client: client,
		logger: logger.WithModule("FirestoreAdapter"),
	}, nil
}

func (a *FirestoreAdapter) Close() error {
	return a.client.Close()
}

func (a *FirestoreAdapter) GetActivePregnancies(ctx context.Context) ([]domain.Pregnancy, error) {
	iter := a.client.Collection(colGrossesses).
		Where("statut", "==", string(domain.PregnancyStatusActive)).
		Documents(ctx)
	defer iter.Stop()

	var pregnancies []domain.Pregnancy
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("pregnancies query: %w", err)
		}

		var pregnancy domain.Pregnancy
		if err := doc.DataTo(&pregnancy); err != nil {
			a.logger.Warn("firestore.pregnancy_decode_failed", out.LogFields{
				"docId": doc.Ref.ID,
				"error": err.Error(),
			})
			continue
		}
		pregnancy.ID = doc.Ref.ID
		pregnancies = append(pregnancies, pregnancy)
	}

	return pregnancies, nil
}

func (a *FirestoreAdapter) GetPrenatalVisits(ctx context.Context, pregnancyID string) ([]domain.PrenatalVisit, error) {
	iter := a.client.Collection(colCPN).
		Where("grossesseId", "==", pregnancyID).
		Documents(ctx)
	defer iter.Stop()

	var visits []domain.PrenatalVisit
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("cpn query for %s: %w", pregnancyID, err)
		}

		var visit domain.PrenatalVisit
		if err := doc.DataTo(&visit); err != nil {
			a.logger.Warn("firestore.visit_decode_failed", out.LogFields{
				"docId": doc.Ref.ID,
				"error": err.Error(),
			})
			continue
		}
		visit.ID = doc.Ref.ID
		visits = append(visits, visit)
	}

	return visits, nil
}

func (a *FirestoreAdapter) GetConsultation(ctx context.Context, consultationID string) (*domain.Consultation, error) {
	doc, err := a.client.Collection(colConsultations).Doc(consultationID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, out.ErrNotFound
		}
		return nil, fmt.Errorf("consultation %s: %w", consultationID, err)
	}

	var consultation domain.Consultation
	if err := doc.DataTo(&consultation); err != nil {
		return nil, fmt.Errorf("consultation %s decode: %w", consultationID, err)
	}
	consultation.ID = doc.Ref.ID

	return &consultation, nil
}

func (a *FirestoreAdapter) GetFamilyPlanningRecords(ctx context.Context) ([]domain.FamilyPlanningRecord, error) {
	// Pas de filtre de statut pour cette entité: parcours complet
	iter := a.client.Collection(colPlanning).Documents(ctx)
	defer iter.Stop()

	var records []domain.FamilyPlanningRecord
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("planning query: %w", err)
		}

		var record domain.FamilyPlanningRecord
		if err := doc.DataTo(&record); err != nil {
			a.logger.Warn("firestore.planning_decode_failed", out.LogFields{
				"docId": doc.Ref.ID,
				"error": err.Error(),
			})
			continue
		}
		record.ID = doc.Ref.ID
		records = append(records, record)
	}

	return records, nil
}

func (a *FirestoreAdapter) GetCaseRecord(ctx context.Context, dossierID string) (*domain.CaseRecord, error) {
	doc, err := a.client.Collection(colDossiers).Doc(dossierID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, out.ErrNotFound
		}
		return nil, fmt.Errorf("dossier %s: %w", dossierID, err)
	}

	var dossier domain.CaseRecord
	if err := doc.DataTo(&dossier); err != nil {
		return nil, fmt.Errorf("dossier %s decode: %w", dossierID, err)
	}
	dossier.ID = doc.Ref.ID

	return &dossier, nil
}

func (a *FirestoreAdapter) GetPatientIdentity(ctx context.Context, patientID string) (*domain.PatientIdentity, error) {
	doc, err := a.client.Collection(colPatientes).Doc(patientID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, out.ErrNotFound
		}
		return nil, fmt.Errorf("patiente %s: %w", patientID, err)
	}

	var patient domain.PatientIdentity
	if err := doc.DataTo(&patient); err != nil {
		return nil, fmt.Errorf("patiente %s decode: %w", patientID, err)
	}
	patient.ID = doc.Ref.ID

	return &patient, nil
}

func (a *FirestoreAdapter) GetPersonIdentity(ctx context.Context, personID string) (*domain.PersonIdentity, error) {
	doc, err := a.client.Collection(colPersonnes).Doc(personID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, out.ErrNotFound
		}
		return nil, fmt.Errorf("personne %s: %w", personID, err)
	}

	var person domain.PersonIdentity
	if err := doc.DataTo(&person); err != nil {
		return nil, fmt.Errorf("personne %s decode: %w", personID, err)
	}
	person.ID = doc.Ref.ID

	return &person, nil
}

func (a *FirestoreAdapter) GetStaffUsers(ctx context.Context) ([]domain.StaffUser, error) {
	// Parcours complet, le filtrage téléphone/email se fait en mémoire
	iter := a.client.Collection(colUsers).Documents(ctx)
	defer iter.Stop()

	var staff []domain.StaffUser
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("users query: %w", err)
		}

		var user domain.StaffUser
		if err := doc.DataTo(&user); err != nil {
			a.logger.Warn("firestore.user_decode_failed", out.LogFields{
				"docId": doc.Ref.ID,
				"error": err.Error(),
			})
			continue
		}
		user.ID = doc.Ref.ID
		staff = append(staff, user)
	}

	return staff, nil
}

func (a *FirestoreAdapter) CountConsultationsSince(ctx context.Context, since time.Time) (int, error) {
	return a.countSince(ctx, colConsultations, since)
}

func (a *FirestoreAdapter) CountPatientsSince(ctx context.Context, since time.Time) (int, error) {
	return a.countSince(ctx, colPatientes, since)
}

func (a *FirestoreAdapter) CountBirthsSince(ctx context.Context, since time.Time) (int, error) {
	return a.countSince(ctx, colAccouchements, since)
}

func (a *FirestoreAdapter) countSince(ctx context.Context, collection string, since time.Time) (int, error) {
	// Select() sans champ: seules les références remontent
	iter := a.client.Collection(collection).
		Where("createdAt", ">=", since).
		Select().
		Documents(ctx)
	defer iter.Stop()

	count := 0
	for {
		_, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("%s count: %w", collection, err)
		}
		count++
	}

	return count, nil
}

func (a *FirestoreAdapter) InsertNotification(ctx context.Context, notification domain.Notification) error {
	ref := a.client.Collection(colNotifications).NewDoc()
	if notification.ID != "" {
		ref = a.client.Collection(colNotifications).Doc(notification.ID)
	}

	if _, err := ref.Set(ctx, notification); err != nil {
		return fmt.Errorf("notification insert: %w", err)
	}

	a.logger.Debug("firestore.notification_inserted", out.LogFields{
		"docId":     ref.ID,
		"userId":    notification.UserID,
		"patientId": notification.PatientID,
	})

	return nil
}
