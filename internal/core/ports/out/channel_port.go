package out

import (
	"context"

	"github.com/clinicare-bj/maternity-reminder-engine/internal/core/domain"
)

// ChannelPort est un canal de livraison indépendant (in-app, SMS, email).
// SendAppointmentReminder ne retourne jamais d'erreur: tout échec est
// converti en DeliveryResult, la passe continue sur les autres canaux.
type ChannelPort interface {
	IsAvailable() bool
	SendAppointmentReminder(ctx context.Context, candidate domain.ReminderCandidate) domain.DeliveryResult
}

// MessagingChannelPort regroupe les deux rôles des canaux SMS et email:
// rappels aux patientes et récapitulatifs au personnel.
type MessagingChannelPort interface {
	ChannelPort
	SummarySenderPort
}

// SummarySenderPort est porté par les canaux SMS et email uniquement:
// les récapitulatifs au personnel ne passent jamais par l'in-app.
type SummarySenderPort interface {
	IsAvailable() bool
	SendDailySummary(ctx context.Context, staff domain.StaffUser, summary domain.DailySummary) domain.DeliveryResult
	SendWeeklySummary(ctx context.Context, staff domain.StaffUser, report domain.WeeklyReport) domain.DeliveryResult
}
