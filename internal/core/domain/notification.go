package domain

import "time"

type NotificationType string

const (
	NotificationTypeAppointmentReminder NotificationType = "appointment_reminder"
)

type NotificationPriority string

const (
	NotificationPriorityUrgent NotificationPriority = "urgent"
	NotificationPriorityHigh   NotificationPriority = "high"
	NotificationPriorityMedium NotificationPriority = "medium"
	NotificationPriorityNormal NotificationPriority = "normal"
)

// Notification est le seul document écrit par ce moteur. Le champ read est
// muté ensuite par l'interface du tableau de bord, jamais ici.
type Notification struct {
	ID          string               `firestore:"-"`
	Type        NotificationType     `firestore:"type"`
	Title       string               `firestore:"title"`
	Message     string               `firestore:"message"`
	Priority    NotificationPriority `firestore:"priority"`
	UserID      string               `firestore:"userId"`
	PatientID   string               `firestore:"patientId"`
	PatientName string               `firestore:"patientName"`
	Appointment time.Time            `firestore:"appointmentDateTime"`
	DayOffset   int                  `firestore:"dayOffset"`
	Read        bool                 `firestore:"read"`
	CreatedAt   time.Time            `firestore:"createdAt"`
	ReadAt      *time.Time           `firestore:"readAt,omitempty"`
}
