package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/clinicare-bj/maternity-reminder-engine/internal/core/domain"
)

func TestCollectPrenatalPicksMostRecentConsultation(t *testing.T) {
	h := newTestHarness()
	h.addActivePregnancy("G1", "D1", domain.PersonIdentity{
		FirstName: "Afiavi",
		LastName:  "HOUNSOU",
		Phone:     "+22960807271",
	})

	// Trois CPN sous la même grossesse, rendez-vous valides, créations
	// étalées: seule la plus récente doit produire un candidat.
	h.addVisit("G1", "V1", "C1", "CPN 1", testDay(0), testDay(-5))
	h.addVisit("G1", "V2", "C2", "CPN 2", testDay(0), testDay(-1))
	h.addVisit("G1", "V3", "C3", "CPN 3", testDay(1), testDay(-3))

	candidates, err := h.svc.CollectPrenatalCandidates(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}

	candidate := candidates[0]
	if candidate.ReferenceID != "C2" {
		t.Errorf("expected most recent consultation C2, got %s", candidate.ReferenceID)
	}
	if candidate.Kind != domain.AppointmentKindPrenatal {
		t.Errorf("expected prenatal kind, got %s", candidate.Kind)
	}
	if candidate.Label != "CPN 2" {
		t.Errorf("expected label CPN 2, got %s", candidate.Label)
	}
	if candidate.DayOffset != 0 {
		t.Errorf("expected day offset 0, got %d", candidate.DayOffset)
	}
	if candidate.Patient.Phone != "+22960807271" {
		t.Errorf("expected resolved patient phone, got %s", candidate.Patient.Phone)
	}
	if candidate.Metadata["pregnancyId"] != "G1" || candidate.Metadata["visitId"] != "V2" {
		t.Errorf("unexpected metadata: %v", candidate.Metadata)
	}
}

func TestCollectPrenatalTieBreaksOnConsultationID(t *testing.T) {
	h := newTestHarness()
	h.addActivePregnancy("G1", "D1", domain.PersonIdentity{FirstName: "Afiavi"})

	created := testDay(-1)
	h.addVisit("G1", "V1", "C10", "CPN 1", testDay(0), created)
	h.addVisit("G1", "V2", "C42", "CPN 2", testDay(0), created)
	h.addVisit("G1", "V3", "C07", "CPN 3", testDay(0), created)

	candidates, err := h.svc.CollectPrenatalCandidates(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	if candidates[0].ReferenceID != "C42" {
		t.Errorf("expected tie broken by greatest id C42, got %s", candidates[0].ReferenceID)
	}
}

func TestCollectPrenatalUndatedCreationLosesToDated(t *testing.T) {
	h := newTestHarness()
	h.addActivePregnancy("G1", "D1", domain.PersonIdentity{FirstName: "Afiavi"})

	// C1 sans horodatage de création reste éligible, mais C2 daté gagne
	// même avec une création ancienne.
	h.addVisit("G1", "V1", "C1", "CPN 1", testDay(0), nil)
	h.addVisit("G1", "V2", "C2", "CPN 2", testDay(0), testDay(-300))

	candidates, err := h.svc.CollectPrenatalCandidates(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	if candidates[0].ReferenceID != "C2" {
		t.Errorf("expected dated consultation C2, got %s", candidates[0].ReferenceID)
	}
}

func TestCollectPrenatalSkipsVisitsWithoutUsableAppointment(t *testing.T) {
	h := newTestHarness()
	h.addActivePregnancy("G1", "D1", domain.PersonIdentity{FirstName: "Afiavi"})

	// CPN sans consultation liée, consultation sans rdv, rdv illisible:
	// aucune n'est éligible.
	h.addVisit("G1", "V1", "", "CPN 1", nil, nil)
	h.addVisit("G1", "V2", "C2", "CPN 2", nil, testDay(-1))
	h.addVisit("G1", "V3", "C3", "CPN 3", "pas une date", testDay(-1))

	candidates, err := h.svc.CollectPrenatalCandidates(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 0 {
		t.Fatalf("expected no candidates, got %d", len(candidates))
	}
}

func TestCollectPrenatalIncludesOverdueAppointments(t *testing.T) {
	h := newTestHarness()
	h.addActivePregnancy("G1", "D1", domain.PersonIdentity{FirstName: "Afiavi"})
	h.addVisit("G1", "V1", "C1", "CPN 4", testDay(-6), testDay(-10))

	candidates, err := h.svc.CollectPrenatalCandidates(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected overdue candidate to be kept, got %d", len(candidates))
	}
	if candidates[0].DayOffset != -6 {
		t.Errorf("expected day offset -6, got %d", candidates[0].DayOffset)
	}
}

func TestCollectPrenatalSkipsPregnancyOnIdentityFailure(t *testing.T) {
	h := newTestHarness()

	for _, id := range []string{"G1", "G2", "G3", "G4", "G5"} {
		h.addActivePregnancy(id, "D-"+id, domain.PersonIdentity{FirstName: id})
		h.addVisit(id, "V-"+id, "C-"+id, "CPN 1", testDay(0), testDay(-1))
	}

	// Chaîne d'identité cassée pour G3: patiente introuvable.
	delete(h.store.patientes, "pat-D-G3")

	candidates, err := h.svc.CollectPrenatalCandidates(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 4 {
		t.Fatalf("expected 4 candidates after one identity failure, got %d", len(candidates))
	}
	for _, candidate := range candidates {
		if candidate.Metadata["pregnancyId"] == "G3" {
			t.Errorf("pregnancy with broken identity chain must not produce a candidate")
		}
	}
}

func TestCollectPrenatalIgnoresCompletedPregnancies(t *testing.T) {
	h := newTestHarness()
	h.addActivePregnancy("G1", "D1", domain.PersonIdentity{FirstName: "Afiavi"})
	h.addVisit("G1", "V1", "C1", "CPN 1", testDay(0), testDay(-1))

	h.store.pregnancies = append(h.store.pregnancies, domain.Pregnancy{
		ID:        "G2",
		Status:    domain.PregnancyStatusCompleted,
		DossierID: "D1",
	})
	h.addVisit("G2", "V2", "C2", "CPN 1", testDay(0), testDay(-1))

	candidates, err := h.svc.CollectPrenatalCandidates(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected only active pregnancy candidate, got %d", len(candidates))
	}
	if candidates[0].ReferenceID != "C1" {
		t.Errorf("expected C1, got %s", candidates[0].ReferenceID)
	}
}

func TestCollectFamilyPlanningExcludesPastAppointments(t *testing.T) {
	h := newTestHarness()
	h.store.addPatientChain("D1", "P1", "PE1", domain.PersonIdentity{FirstName: "Afiavi"})

	for i, offset := range []int{-30, -7, -1, 0, 1, 3, 14} {
		h.store.planning = append(h.store.planning, domain.FamilyPlanningRecord{
			ID:          fmt.Sprintf("PF%d", i+1),
			Method:      "Implant",
			RDVProchain: testDay(offset),
			DossierID:   "D1",
		})
	}

	candidates, err := h.svc.CollectFamilyPlanningCandidates(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 4 {
		t.Fatalf("expected only today and future appointments, got %d", len(candidates))
	}
	for _, candidate := range candidates {
		if candidate.DayOffset < 0 {
			t.Errorf("past appointment leaked into candidates: offset %d", candidate.DayOffset)
		}
		if candidate.Kind != domain.AppointmentKindPlanning {
			t.Errorf("expected planning kind, got %s", candidate.Kind)
		}
	}
}

func TestCollectFamilyPlanningSkipsRecordsWithoutAppointment(t *testing.T) {
	h := newTestHarness()
	h.store.addPatientChain("D1", "P1", "PE1", domain.PersonIdentity{FirstName: "Afiavi"})

	h.store.planning = []domain.FamilyPlanningRecord{
		{ID: "PF1", Method: "Pilule", RDVProchain: nil, DossierID: "D1"},
		{ID: "PF2", Method: "Pilule", RDVProchain: "", DossierID: "D1"},
		{ID: "PF3", Method: "Implant", RDVProchain: testDay(1), DossierID: "D1"},
	}

	candidates, err := h.svc.CollectFamilyPlanningCandidates(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	if candidates[0].ReferenceID != "PF3" || candidates[0].Label != "Implant" {
		t.Errorf("unexpected candidate: %+v", candidates[0])
	}
}

func TestCollectFamilyPlanningSkipsRecordOnIdentityFailure(t *testing.T) {
	h := newTestHarness()
	h.store.addPatientChain("D1", "P1", "PE1", domain.PersonIdentity{FirstName: "Afiavi"})

	h.store.planning = []domain.FamilyPlanningRecord{
		{ID: "PF1", Method: "Implant", RDVProchain: testDay(1), DossierID: "D-inconnu"},
		{ID: "PF2", Method: "Implant", RDVProchain: testDay(1), DossierID: "D1"},
	}

	candidates, err := h.svc.CollectFamilyPlanningCandidates(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	if candidates[0].ReferenceID != "PF2" {
		t.Errorf("expected PF2, got %s", candidates[0].ReferenceID)
	}
}
