package domain

// Chaîne d'identité: Grossesse → Dossier → Patiente → Personne.
// L'échec d'un maillon fait abandonner le candidat, jamais la collecte.

type CaseRecord struct {
	ID        string `firestore:"-"`
	PatientID string `firestore:"patienteId"`
	CenterID  string `firestore:"centreId"`
}

type PatientIdentity struct {
	ID       string `firestore:"-"`
	PersonID string `firestore:"personneId"`
}

type PersonIdentity struct {
	ID        string `firestore:"-"`
	FirstName string `firestore:"prenom"`
	LastName  string `firestore:"nom"`
	Phone     string `firestore:"telephone"`
	Email     string `firestore:"email"`
}

// PatientView est le résultat aplati de la résolution de la chaîne d'identité.
type PatientView struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

func (p PatientView) FullName() string {
	if p.FirstName == "" {
		return p.LastName
	}
	return p.FirstName + " " + p.LastName
}

// StaffUser est un utilisateur du tableau de bord, destinataire des récapitulatifs.
type StaffUser struct {
	ID    string `firestore:"-"`
	Name  string `firestore:"nom"`
	Phone string `firestore:"telephone"`
	Email string `firestore:"email"`
	Role  string `firestore:"role"`
}
