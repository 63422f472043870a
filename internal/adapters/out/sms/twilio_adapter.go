package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/clinicare-bj/maternity-reminder-engine/internal/config"
	"github.com/clinicare-bj/maternity-reminder-engine/internal/core/domain"
	"github.com/clinicare-bj/maternity-reminder-engine/internal/core/ports/out"
	"github.com/clinicare-bj/maternity-reminder-engine/internal/utils"
)

const twilioBaseURL = "https://api.twilio.com/2010-04-01"

// TwilioAdapter envoie les SMS via l'API Messages de Twilio. Indisponible
// si les identifiants manquent au démarrage: le canal est alors simplement
// ignoré par la passe, sans erreur.
type TwilioAdapter struct {
	client     *http.Client
	accountSID string
	authToken  string
	from       string
	available  bool
	logger     out.LoggerPort
}

func NewTwilioAdapter(cfg *config.Config, logger out.LoggerPort) *TwilioAdapter {
	adapter := &TwilioAdapter{
		client:     &http.Client{Timeout: 10 * time.Second},
		accountSID: cfg.Twilio.AccountSID,
		authToken:  cfg.Twilio.AuthToken,
		available:  cfg.SmsConfigured(),
		logger:     logger.WithModule("TwilioAdapter"),
	}

	if normalized, ok := utils.NormalizePhone(cfg.Twilio.FromNumber); ok {
		adapter.from = normalized
	} else {
		adapter.from = cfg.Twilio.FromNumber
	}

	if !adapter.available {
		adapter.logger.Info("sms.disabled", out.LogFields{
			"message": "Twilio credentials missing, SMS channel unavailable",
		})
	}

	return adapter
}

func (a *TwilioAdapter) IsAvailable() bool {
	return a.available
}

func (a *TwilioAdapter) SendAppointmentReminder(ctx context.Context, candidate domain.ReminderCandidate) domain.DeliveryResult {
	to, ok := utils.NormalizePhone(candidate.Patient.Phone)
	if !ok {
		a.logger.Warn("sms.invalid_phone", out.LogFields{
			"referenceId": candidate.ReferenceID,
			"patientId":   candidate.Patient.ID,
		})
		return domain.DeliveryResult{Skipped: true}
	}

	// Garde anti-boucle: jamais de SMS vers notre propre numéro d'émission
	if to == a.from {
		a.logger.Warn("sms.self_loop_guard", out.LogFields{
			"referenceId": candidate.ReferenceID,
		})
		return domain.DeliveryResult{Skipped: true}
	}

	return a.send(ctx, to, reminderBody(candidate))
}

func (a *TwilioAdapter) SendDailySummary(ctx context.Context, staff domain.StaffUser, summary domain.DailySummary) domain.DeliveryResult {
	to, ok := utils.NormalizePhone(staff.Phone)
	if !ok {
		a.logger.Warn("sms.invalid_staff_phone", out.LogFields{
			"userId": staff.ID,
		})
		return domain.DeliveryResult{Skipped: true}
	}

	body := fmt.Sprintf(
		"Récapitulatif CPN du jour: %d aujourd'hui, %d en retard, %d dans les 7 prochains jours.",
		summary.TodayCount, summary.LateCount, summary.UpcomingWithin7Days,
	)

	return a.send(ctx, to, body)
}

func (a *TwilioAdapter) SendWeeklySummary(ctx context.Context, staff domain.StaffUser, report domain.WeeklyReport) domain.DeliveryResult {
	to, ok := utils.NormalizePhone(staff.Phone)
	if !ok {
		return domain.DeliveryResult{Skipped: true}
	}

	body := fmt.Sprintf(
		"Bilan hebdomadaire: %d consultations, %d nouvelles patientes, %d accouchements, %d RDV à venir, %d en retard.",
		report.ConsultationsDone, report.NewPatients, report.Births, report.Upcoming, report.Late,
	)

	return a.send(ctx, to, body)
}

type twilioMessageResponse struct {
	SID     string `json:"sid"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (a *TwilioAdapter) send(ctx context.Context, to, body string) domain.DeliveryResult {
	form := url.Values{}
	form.Set("To", to)
	form.Set("From", a.from)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", twilioBaseURL, a.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return domain.DeliveryResult{Success: false, Error: err.Error()}
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(a.accountSID, a.authToken)

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error("sms.send_failed", out.LogFields{
			"to":    to,
			"error": err.Error(),
		})
		return domain.DeliveryResult{Success: false, Error: err.Error()}
	}
	defer resp.Body.Close()

	var message twilioMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&message); err != nil {
		a.logger.Error("sms.decode_failed", out.LogFields{
			"to":    to,
			"error": err.Error(),
		})
		return domain.DeliveryResult{Success: false, Error: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		a.logger.Error("sms.provider_error", out.LogFields{
			"to":     to,
			"status": resp.StatusCode,
			"error":  message.Message,
		})
		return domain.DeliveryResult{
			Success: false,
			Error:   fmt.Sprintf("twilio status %d: %s", resp.StatusCode, message.Message),
		}
	}

	a.logger.Debug("sms.sent", out.LogFields{
		"to":  to,
		"sid": message.SID,
	})

	return domain.DeliveryResult{Success: true, ProviderMessageID: message.SID}
}

// reminderBody choisit le texte du SMS selon la tranche d'offset.
func reminderBody(candidate domain.ReminderCandidate) string {
	label := "votre consultation prénatale"
	if candidate.Kind == domain.AppointmentKindPlanning {
		label = "votre rendez-vous de planning familial"
	}
	date := candidate.Appointment.Format("02/01/2006")

	switch {
	case candidate.DayOffset == 0:
		return fmt.Sprintf("Bonjour %s, %s a lieu aujourd'hui. La clinique vous attend.", candidate.Patient.FirstName, label)
	case candidate.DayOffset == 1:
		return fmt.Sprintf("Bonjour %s, %s a lieu demain (%s). Pensez à vous présenter à la clinique.", candidate.Patient.FirstName, label, date)
	case candidate.DayOffset < 0:
		return fmt.Sprintf("Bonjour %s, %s était prévu le %s. Merci de passer à la clinique dès que possible.", candidate.Patient.FirstName, label, date)
	default:
		return fmt.Sprintf("Bonjour %s, %s est prévu dans 3 jours, le %s.", candidate.Patient.FirstName, label, date)
	}
}
