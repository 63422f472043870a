package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/clinicare-bj/maternity-reminder-engine/internal/core/domain"
	"github.com/clinicare-bj/maternity-reminder-engine/internal/core/ports/out"
)

type ReminderService struct {
	store    out.RecordStorePort
	cache    out.CachePort
	inApp    out.ChannelPort
	sms      out.MessagingChannelPort
	email    out.MessagingChannelPort
	logger   out.LoggerPort
	location *time.Location

	// Horloge injectable pour les tests
	now func() time.Time

	passMu sync.Mutex
}

func NewReminderService(
	store out.RecordStorePort,
	cache out.CachePort,
	inApp out.ChannelPort,
	sms out.MessagingChannelPort,
	email out.MessagingChannelPort,
	location *time.Location,
	logger out.LoggerPort,
) *ReminderService {
	if location == nil {
		location = time.UTC
	}

	return &ReminderService{
		store:    store,
		cache:    cache,
		inApp:    inApp,
		sms:      sms,
		email:    email,
		logger:   logger.WithModule("ReminderService"),
		location: location,
		now:      time.Now,
	}
}

func (s *ReminderService) localNow() time.Time {
	return s.now().In(s.location)
}

// resolvePatientIdentity suit la chaîne Dossier → Patiente → Personne et la
// renvoie aplatie. Un seul appel faillible pour le collecteur: tout maillon
// manquant fait échouer la résolution entière, sans candidat partiel.
func (s *ReminderService) resolvePatientIdentity(ctx context.Context, dossierID string) (*domain.PatientView, error) {
	if dossierID == "" {
		return nil, fmt.Errorf("resolve identity: empty dossier id: %w", out.ErrNotFound)
	}

	if s.cache != nil {
		if view, ok := s.cache.GetPatientView(ctx, dossierID); ok {
			return view, nil
		}
	}

	dossier, err := s.store.GetCaseRecord(ctx, dossierID)
	if err != nil {
		return nil, fmt.Errorf("resolve identity: dossier %s: %w", dossierID, err)
	}

	patiente, err := s.store.GetPatientIdentity(ctx, dossier.PatientID)
	if err != nil {
		return nil, fmt.Errorf("resolve identity: patiente %s: %w", dossier.PatientID, err)
	}

	personne, err := s.store.GetPersonIdentity(ctx, patiente.PersonID)
	if err != nil {
		return nil, fmt.Errorf("resolve identity: personne %s: %w", patiente.PersonID, err)
	}

	view := domain.PatientView{
		ID:        patiente.ID,
		FirstName: personne.FirstName,
		LastName:  personne.LastName,
		Phone:     personne.Phone,
		Email:     personne.Email,
	}

	if s.cache != nil {
		s.cache.StorePatientView(ctx, dossierID, view)
	}

	return &view, nil
}
