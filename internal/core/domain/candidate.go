package domain

import "time"

type AppointmentKind string

const (
	AppointmentKindPrenatal AppointmentKind = "prenatal"
	AppointmentKindPlanning AppointmentKind = "planning"
)

// ReminderCandidate est un rendez-vous éligible au rappel, reconstruit à
// chaque passe de collecte. Jamais persisté, jamais mis en cache.
type ReminderCandidate struct {
	Kind        AppointmentKind   `json:"appointmentKind"`
	ReferenceID string            `json:"referenceId"`
	Label       string            `json:"label"`
	Appointment time.Time         `json:"appointmentDateTime"`
	DayOffset   int               `json:"dayOffset"`
	Patient     PatientView       `json:"patient"`
	OwnerUserID string            `json:"ownerUserId"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}
