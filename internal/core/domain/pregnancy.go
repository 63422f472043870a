package domain

import "time"

type PregnancyStatus string

const (
	PregnancyStatusActive    PregnancyStatus = "active"
	PregnancyStatusCompleted PregnancyStatus = "completed"
)

// Pregnancy (grossesse) est une entité externe, lue seule par ce moteur.
// Seules les grossesses actives sont parcourues pour les rappels CPN.
type Pregnancy struct {
	ID        string          `firestore:"-"`
	Status    PregnancyStatus `firestore:"statut"`
	DossierID string          `firestore:"dossierId"`
	CreatedAt time.Time       `firestore:"createdAt"`
}

// PrenatalVisit (CPN) appartient à exactement une grossesse et référence
// au plus une consultation.
type PrenatalVisit struct {
	ID             string    `firestore:"-"`
	PregnancyID    string    `firestore:"grossesseId"`
	Label          string    `firestore:"label"`
	ConsultationID string    `firestore:"consultationId"`
	CreatedAt      time.Time `firestore:"createdAt"`
}

// Consultation porte la date de rendez-vous (rdv). Les champs horodatés
// arrivent de Firestore sous des formes variées (Timestamp, chaîne, epoch),
// ils sont donc gardés bruts et normalisés via json_types.CoerceInstant.
type Consultation struct {
	ID        string      `firestore:"-"`
	RDV       interface{} `firestore:"rdv"`
	Diagnosis string      `firestore:"diagnostique"`
	CreatedBy string      `firestore:"createdBy"`
	CreatedAt interface{} `firestore:"createdAt"`
}
