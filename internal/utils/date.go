package utils

import "time"

// StartCurrentDay ramène l'instant au minuit local du même jour.
func StartCurrentDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartNextDay retourne le minuit local du jour suivant.
func StartNextDay(t time.Time) time.Time {
	newDate := t.AddDate(0, 0, 1)
	return time.Date(newDate.Year(), newDate.Month(), newDate.Day(), 0, 0, 0, 0, newDate.Location())
}

// DayOffset compte les jours entiers entre aujourd'hui et le rendez-vous,
// minuit à minuit dans la timezone de now. Négatif = rendez-vous dépassé.
func DayOffset(appointment, now time.Time) int {
	a := StartCurrentDay(appointment.In(now.Location()))
	n := StartCurrentDay(now)
	return int(a.Sub(n).Hours() / 24)
}
