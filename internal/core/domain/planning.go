package domain

// FamilyPlanningRecord (planning familial) porte la méthode choisie et la
// date du prochain rendez-vous. Pas de filtre de statut pour cette entité.
type FamilyPlanningRecord struct {
	ID          string      `firestore:"-"`
	Method      string      `firestore:"methodeChoisie"`
	RDVProchain interface{} `firestore:"rdvProchain"`
	DossierID   string      `firestore:"dossierId"`
	CreatedBy   string      `firestore:"createdBy"`
}
