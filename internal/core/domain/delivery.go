package domain

import "time"

// DeliveryResult est la forme uniforme du résultat d'un canal. Un canal en
// échec ou sauté n'est jamais fatal pour la passe.
type DeliveryResult struct {
	Success           bool   `json:"success"`
	Error             string `json:"error,omitempty"`
	Skipped           bool   `json:"skipped,omitempty"`
	Mock              bool   `json:"mock,omitempty"`
	ProviderMessageID string `json:"providerMessageId,omitempty"`
}

// PassReport résume une passe de rappels. SentCount compte une fois par
// candidat sélectionné, quel que soit le nombre de canaux ayant abouti.
type PassReport struct {
	RunID          string    `json:"runId"`
	CandidateCount int       `json:"candidateCount"`
	SentCount      int       `json:"sentCount"`
	StartedAt      time.Time `json:"startedAt"`
	FinishedAt     time.Time `json:"finishedAt"`
}

type DailySummary struct {
	TodayCount          int `json:"todayCount"`
	LateCount           int `json:"lateCount"`
	UpcomingWithin7Days int `json:"upcomingWithin7DaysCount"`
}

type WeeklyReport struct {
	ConsultationsDone int `json:"consultationsDone"`
	NewPatients       int `json:"newPatients"`
	Births            int `json:"births"`
	Upcoming          int `json:"upcoming"`
	Late              int `json:"late"`
}
