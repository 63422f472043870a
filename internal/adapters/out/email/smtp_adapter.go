package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/clinicare-bj/maternity-reminder-engine/internal/config"
	"github.com/clinicare-bj/maternity-reminder-engine/internal/core/domain"
	"github.com/clinicare-bj/maternity-reminder-engine/internal/core/ports/out"
)

// SMTPAdapter envoie les emails via le relais SMTP de la clinique.
// Indisponible si hôte ou identifiants manquent au démarrage.
type SMTPAdapter struct {
	dialer    *gomail.Dialer
	fromEmail string
	fromName  string
	available bool
	logger    out.LoggerPort
}

func NewSMTPAdapter(cfg *config.Config, logger out.LoggerPort) *SMTPAdapter {
	adapter := &SMTPAdapter{
		fromEmail: cfg.SMTP.FromEmail,
		fromName:  cfg.SMTP.FromName,
		available: cfg.EmailConfigured(),
		logger:    logger.WithModule("SMTPAdapter"),
	}

	if adapter.available {
		adapter.dialer = gomail.NewDialer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password)
	} else {
		adapter.logger.Info("email.disabled", out.LogFields{
			"message": "SMTP credentials missing, email channel unavailable",
		})
	}

	return adapter
}

func (a *SMTPAdapter) IsAvailable() bool {
	return a.available
}

func (a *SMTPAdapter) SendAppointmentReminder(_ context.Context, candidate domain.ReminderCandidate) domain.DeliveryResult {
	if candidate.Patient.Email == "" {
		return domain.DeliveryResult{Skipped: true}
	}

	subject, text, html := reminderContent(candidate)
	return a.send(candidate.Patient.Email, subject, text, html)
}

func (a *SMTPAdapter) SendDailySummary(_ context.Context, staff domain.StaffUser, summary domain.DailySummary) domain.DeliveryResult {
	if staff.Email == "" {
		return domain.DeliveryResult{Skipped: true}
	}

	text := fmt.Sprintf(
		"Récapitulatif CPN du jour:\n- %d rendez-vous aujourd'hui\n- %d en retard\n- %d dans les 7 prochains jours\n",
		summary.TodayCount, summary.LateCount, summary.UpcomingWithin7Days,
	)

	return a.send(staff.Email, "Récapitulatif CPN du jour", text, "")
}

func (a *SMTPAdapter) SendWeeklySummary(_ context.Context, staff domain.StaffUser, report domain.WeeklyReport) domain.DeliveryResult {
	if staff.Email == "" {
		return domain.DeliveryResult{Skipped: true}
	}

	text := fmt.Sprintf(
		"Bilan de la semaine écoulée:\n"+
			"- %d consultations réalisées\n"+
			"- %d nouvelles patientes enregistrées\n"+
			"- %d accouchements\n\n"+
			"État des rendez-vous: %d à venir, %d en retard.\n",
		report.ConsultationsDone, report.NewPatients, report.Births, report.Upcoming, report.Late,
	)

	html := fmt.Sprintf(
		"<h2>Bilan hebdomadaire</h2>"+
			"<ul><li>%d consultations réalisées</li>"+
			"<li>%d nouvelles patientes enregistrées</li>"+
			"<li>%d accouchements</li></ul>"+
			"<p>État des rendez-vous: <b>%d</b> à venir, <b>%d</b> en retard.</p>",
		report.ConsultationsDone, report.NewPatients, report.Births, report.Upcoming, report.Late,
	)

	return a.send(staff.Email, "Bilan hebdomadaire de la clinique", text, html)
}

func (a *SMTPAdapter) send(to, subject, text, html string) domain.DeliveryResult {
	message := gomail.NewMessage()
	message.SetAddressHeader("From", a.fromEmail, a.fromName)
	message.SetHeader("To", to)
	message.SetHeader("Subject", subject)
	message.SetBody("text/plain", text)
	if html != "" {
		message.AddAlternative("text/html", html)
	}

	if err := a.dialer.DialAndSend(message); err != nil {
		a.logger.Error("email.send_failed", out.LogFields{
			"to":    to,
			"error": err.Error(),
		})
		return domain.DeliveryResult{Success: false, Error: err.Error()}
	}

	a.logger.Debug("email.sent", out.LogFields{
		"to":      to,
		"subject": subject,
	})

	return domain.DeliveryResult{Success: true}
}

func reminderContent(candidate domain.ReminderCandidate) (subject, text, html string) {
	label := "consultation prénatale"
	if candidate.Kind == domain.AppointmentKindPlanning {
		label = "rendez-vous de planning familial"
	}
	date := candidate.Appointment.Format("02/01/2006 à 15h04")

	switch {
	case candidate.DayOffset == 0:
		subject = "Votre rendez-vous a lieu aujourd'hui"
	case candidate.DayOffset == 1:
		subject = "Votre rendez-vous a lieu demain"
	case candidate.DayOffset < 0:
		subject = "Rendez-vous manqué, merci de nous contacter"
	default:
		subject = "Rappel: rendez-vous dans 3 jours"
	}

	text = fmt.Sprintf(
		"Bonjour %s,\n\nVotre %s (%s) est planifiée le %s.\n\nLa clinique reste à votre disposition pour tout changement.\n",
		candidate.Patient.FirstName, label, candidate.Label, date,
	)

	html = fmt.Sprintf(
		"<p>Bonjour %s,</p><p>Votre %s (<b>%s</b>) est planifiée le <b>%s</b>.</p>"+
			"<p>La clinique reste à votre disposition pour tout changement.</p>",
		candidate.Patient.FirstName, label, candidate.Label, date,
	)

	return subject, text, html
}
