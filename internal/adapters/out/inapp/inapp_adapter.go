package inapp

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicare-bj/maternity-reminder-engine/internal/core/domain"
	"github.com/clinicare-bj/maternity-reminder-engine/internal/core/ports/out"
)

// InAppAdapter écrit des documents Notification lus ensuite par le tableau
// de bord. Toujours disponible: aucune configuration externe requise.
type InAppAdapter struct {
	store  out.RecordStorePort
	logger out.LoggerPort
	now    func() time.Time
}

func NewInAppAdapter(store out.RecordStorePort, logger out.LoggerPort) *InAppAdapter {
	return &InAppAdapter{
		store:  store,
		logger: logger.WithModule("InAppAdapter"),
		now:    time.Now,
	}
}

func (a *InAppAdapter) IsAvailable() bool {
	return true
}

func (a *InAppAdapter) SendAppointmentReminder(ctx context.Context, candidate domain.ReminderCandidate) domain.DeliveryResult {
	title, message, priority, ok := composeNotification(candidate)
	if !ok {
		// Offset hors politique: aucune notification à créer
		return domain.DeliveryResult{Skipped: true}
	}

	notification := domain.Notification{
		ID:          uuid.NewString(),
		Type:        domain.NotificationTypeAppointmentReminder,
		Title:       title,
		Message:     message,
		Priority:    priority,
		UserID:      candidate.OwnerUserID,
		PatientID:   candidate.Patient.ID,
		PatientName: candidate.Patient.FullName(),
		Appointment: candidate.Appointment,
		DayOffset:   candidate.DayOffset,
		Read:        false,
		CreatedAt:   a.now(),
	}

	if err := a.store.InsertNotification(ctx, notification); err != nil {
		a.logger.Error("inapp.insert_failed", out.LogFields{
			"referenceId": candidate.ReferenceID,
			"error":       err.Error(),
		})
		return domain.DeliveryResult{Success: false, Error: err.Error()}
	}

	return domain.DeliveryResult{Success: true, ProviderMessageID: notification.ID}
}

func appointmentLabel(candidate domain.ReminderCandidate) string {
	if candidate.Kind == domain.AppointmentKindPlanning {
		return "rendez-vous de planning familial"
	}
	if candidate.Label != "" {
		return "consultation prénatale " + candidate.Label
	}
	return "consultation prénatale"
}

func composeNotification(candidate domain.ReminderCandidate) (title, message string, priority domain.NotificationPriority, ok bool) {
	name := candidate.Patient.FullName()
	label := appointmentLabel(candidate)
	date := candidate.Appointment.Format("02/01/2006")

	switch {
	case candidate.DayOffset == 0:
		return "Rendez-vous aujourd'hui",
			fmt.Sprintf("La %s de %s est prévue aujourd'hui.", label, name),
			domain.NotificationPriorityHigh, true
	case candidate.DayOffset == 1:
		return "Rendez-vous demain",
			fmt.Sprintf("La %s de %s est prévue demain.", label, name),
			domain.NotificationPriorityMedium, true
	case candidate.DayOffset == 3:
		return "Rendez-vous dans 3 jours",
			fmt.Sprintf("La %s de %s est prévue dans 3 jours, le %s.", label, name, date),
			domain.NotificationPriorityNormal, true
	case candidate.DayOffset < 0:
		return "Rendez-vous dépassé",
			fmt.Sprintf("La %s de %s était prévue le %s et n'a pas été honorée.", label, name, date),
			domain.NotificationPriorityUrgent, true
	}

	return "", "", "", false
}
