package services

import (
	"context"
	"errors"
	"time"

	"github.com/clinicare-bj/maternity-reminder-engine/internal/core/domain"
	"github.com/clinicare-bj/maternity-reminder-engine/internal/core/ports/out"
)

// ── Fakes partagés par les tests du paquet ──

type nopLogger struct{}

func (nopLogger) Debug(string, out.LogFields)               {}
func (nopLogger) Info(string, out.LogFields)                {}
func (nopLogger) Warn(string, out.LogFields)                {}
func (nopLogger) Error(string, out.LogFields)               {}
func (l nopLogger) WithFields(out.LogFields) out.LoggerPort { return l }
func (l nopLogger) WithModule(string) out.LoggerPort        { return l }

type fakeStore struct {
	pregnancies   []domain.Pregnancy
	visits        map[string][]domain.PrenatalVisit
	consultations map[string]*domain.Consultation
	planning      []domain.FamilyPlanningRecord
	dossiers      map[string]*domain.CaseRecord
	patientes     map[string]*domain.PatientIdentity
	personnes     map[string]*domain.PersonIdentity
	staff         []domain.StaffUser

	consultationsSince int
	patientsSince      int
	birthsSince        int

	notifications []domain.Notification

	failActivePregnancies bool
	failPlanning          bool
	failCounts            bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		visits:        make(map[string][]domain.PrenatalVisit),
		consultations: make(map[string]*domain.Consultation),
		dossiers:      make(map[string]*domain.CaseRecord),
		patientes:     make(map[string]*domain.PatientIdentity),
		personnes:     make(map[string]*domain.PersonIdentity),
	}
}

func (s *fakeStore) GetActivePregnancies(ctx context.Context) ([]domain.Pregnancy, error) {
	if s.failActivePregnancies {
		return nil, errors.New("store unavailable")
	}

	var active []domain.Pregnancy
	for _, pregnancy := range s.pregnancies {
		if pregnancy.Status == domain.PregnancyStatusActive {
			active = append(active, pregnancy)
		}
	}
	return active, nil
}

func (s *fakeStore) GetPrenatalVisits(ctx context.Context, pregnancyID string) ([]domain.PrenatalVisit, error) {
	return s.visits[pregnancyID], nil
}

func (s *fakeStore) GetConsultation(ctx context.Context, consultationID string) (*domain.Consultation, error) {
	consultation, exists := s.consultations[consultationID]
	if !exists {
		return nil, out.ErrNotFound
	}
	return consultation, nil
}

func (s *fakeStore) GetFamilyPlanningRecords(ctx context.Context) ([]domain.FamilyPlanningRecord, error) {
	if s.failPlanning {
		return nil, errors.New("store unavailable")
	}
	return s.planning, nil
}

func (s *fakeStore) GetCaseRecord(ctx context.Context, dossierID string) (*domain.CaseRecord, error) {
	dossier, exists := s.dossiers[dossierID]
	if !exists {
		return nil, out.ErrNotFound
	}
	return dossier, nil
}

func (s *fakeStore) GetPatientIdentity(ctx context.Context, patientID string) (*domain.PatientIdentity, error) {
	patient, exists := s.patientes[patientID]
	if !exists {
		return nil, out.ErrNotFound
	}
	return patient, nil
}

func (s *fakeStore) GetPersonIdentity(ctx context.Context, personID string) (*domain.PersonIdentity, error) {
	person, exists := s.personnes[personID]
	if !exists {
		return nil, out.ErrNotFound
	}
	return person, nil
}

func (s *fakeStore) GetStaffUsers(ctx context.Context) ([]domain.StaffUser, error) {
	return s.staff, nil
}

func (s *fakeStore) CountConsultationsSince(ctx context.Context, since time.Time) (int, error) {
	if s.failCounts {
		return 0, errors.New("store unavailable")
	}
	return s.consultationsSince, nil
}

func (s *fakeStore) CountPatientsSince(ctx context.Context, since time.Time) (int, error) {
	if s.failCounts {
		return 0, errors.New("store unavailable")
	}
	return s.patientsSince, nil
}

func (s *fakeStore) CountBirthsSince(ctx context.Context, since time.Time) (int, error) {
	if s.failCounts {
		return 0, errors.New("store unavailable")
	}
	return s.birthsSince, nil
}

func (s *fakeStore) InsertNotification(ctx context.Context, notification domain.Notification) error {
	s.notifications = append(s.notifications, notification)
	return nil
}

// addPatientChain câble Dossier → Patiente → Personne pour un dossier donné.
func (s *fakeStore) addPatientChain(dossierID, patientID, personID string, person domain.PersonIdentity) {
	s.dossiers[dossierID] = &domain.CaseRecord{ID: dossierID, PatientID: patientID}
	s.patientes[patientID] = &domain.PatientIdentity{ID: patientID, PersonID: personID}
	person.ID = personID
	s.personnes[personID] = &person
}

type fakeChannel struct {
	available bool
	result    domain.DeliveryResult

	sent           []domain.ReminderCandidate
	dailySummaries []domain.DailySummary
	weeklyReports  []domain.WeeklyReport
	summaryStaff   []domain.StaffUser

	panicOnReference string
}

func newFakeChannel(available bool) *fakeChannel {
	return &fakeChannel{
		available: available,
		result:    domain.DeliveryResult{Success: true},
	}
}

func (c *fakeChannel) IsAvailable() bool {
	return c.available
}

func (c *fakeChannel) SendAppointmentReminder(ctx context.Context, candidate domain.ReminderCandidate) domain.DeliveryResult {
	if c.panicOnReference != "" && candidate.ReferenceID == c.panicOnReference {
		panic("channel exploded")
	}
	c.sent = append(c.sent, candidate)
	return c.result
}

func (c *fakeChannel) SendDailySummary(ctx context.Context, staff domain.StaffUser, summary domain.DailySummary) domain.DeliveryResult {
	c.dailySummaries = append(c.dailySummaries, summary)
	c.summaryStaff = append(c.summaryStaff, staff)
	return c.result
}

func (c *fakeChannel) SendWeeklySummary(ctx context.Context, staff domain.StaffUser, report domain.WeeklyReport) domain.DeliveryResult {
	c.weeklyReports = append(c.weeklyReports, report)
	c.summaryStaff = append(c.summaryStaff, staff)
	return c.result
}

// ── Horloge et service de test ──

var testLocation = time.FixedZone("WAT", 3600)

// testNow est le 10 mars 2025 à 09h00, heure de la clinique.
var testNow = time.Date(2025, 3, 10, 9, 0, 0, 0, testLocation)

func testDay(offset int) time.Time {
	return testNow.AddDate(0, 0, offset)
}

type testHarness struct {
	svc   *ReminderService
	store *fakeStore
	inApp *fakeChannel
	sms   *fakeChannel
	email *fakeChannel
}

func newTestHarness() *testHarness {
	store := newFakeStore()
	inApp := newFakeChannel(true)
	sms := newFakeChannel(true)
	email := newFakeChannel(true)

	svc := NewReminderService(store, nil, inApp, sms, email, testLocation, nopLogger{})
	svc.now = func() time.Time { return testNow }

	return &testHarness{
		svc:   svc,
		store: store,
		inApp: inApp,
		sms:   sms,
		email: email,
	}
}

// addActivePregnancy ajoute une grossesse active avec sa chaîne d'identité.
func (h *testHarness) addActivePregnancy(pregnancyID, dossierID string, person domain.PersonIdentity) {
	h.store.pregnancies = append(h.store.pregnancies, domain.Pregnancy{
		ID:        pregnancyID,
		Status:    domain.PregnancyStatusActive,
		DossierID: dossierID,
	})
	h.store.addPatientChain(dossierID, "pat-"+dossierID, "per-"+dossierID, person)
}

// addVisit câble une CPN et sa consultation sous une grossesse.
func (h *testHarness) addVisit(pregnancyID, visitID, consultationID, label string, rdv interface{}, createdAt interface{}) {
	h.store.visits[pregnancyID] = append(h.store.visits[pregnancyID], domain.PrenatalVisit{
		ID:             visitID,
		PregnancyID:    pregnancyID,
		Label:          label,
		ConsultationID: consultationID,
	})
	if consultationID != "" {
		h.store.consultations[consultationID] = &domain.Consultation{
			ID:        consultationID,
			RDV:       rdv,
			CreatedAt: createdAt,
		}
	}
}
