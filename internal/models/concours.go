package models

import "time"

// Concours types.
const (
	ConcoursDirect        = "Direct"
	ConcoursProfessionnel = "Professionnel"
)

// Inscription statuses.
const (
	InscriptionEnAttente = "en_attente"
	InscriptionConfirmee = "confirmee"
	InscriptionAnnulee   = "annulee"
)

// Paiement statuses.
const (
	PaiementEnAttente = "en_attente"
	PaiementValide    = "valide"
	PaiementRejete    = "rejete"
)

// Concours is a recruitment exam open for registration.
type Concours struct {
	ID                int64     `json:"id"`
	Nom               string    `json:"nom"`
	Type              string    `json:"type"`
	Description       string    `json:"description"`
	DateInscription   time.Time `json:"date_inscription"`
	DateConcours      time.Time `json:"date_concours"`
	Lieu              string    `json:"lieu"`
	FraisInscription  int       `json:"frais_inscription"`
	PlacesDisponibles int       `json:"places_disponibles"`
	Conditions        []string  `json:"conditions"`
	EstOuvert         bool      `json:"est_ouvert"`
	ImagePath         *string   `json:"image,omitempty"`
	TotalInscrits     int       `json:"total_inscrits"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// PlacesRestantes returns the remaining capacity, floored at zero.
func (c *Concours) PlacesRestantes() int {
	if rest := c.PlacesDisponibles - c.TotalInscrits; rest > 0 {
		return rest
	}
	return 0
}

// EstComplet reports whether the contest is full.
func (c *Concours) EstComplet() bool {
	return c.PlacesRestantes() == 0
}

// Inscription is a candidate's application to a contest. NumeroInscription
// is assigned once, on confirmation, and never changes afterwards.
type Inscription struct {
	ID                int64     `json:"id"`
	UserID            int64     `json:"user_id"`
	ConcoursID        int64     `json:"concours_id"`
	ConcoursNom       string    `json:"concours_nom,omitempty"`
	Nom               string    `json:"nom"`
	Prenom            string    `json:"prenom"`
	DateNaissance     time.Time `json:"date_naissance"`
	Ville             string    `json:"ville"`
	Sexe              string    `json:"sexe"`
	CNIPath           string    `json:"cni"`
	PhotoPath         string    `json:"photo"`
	Telephone         string    `json:"telephone"`
	Statut            string    `json:"statut"`
	NumeroInscription *string   `json:"numero_inscription,omitempty"`
	RaisonRejet       *string   `json:"raison_rejet,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// DummyInscription receives the form fields of a new inscription. The CNI
// and photo files arrive in the same multipart request and are validated
// separately.
type DummyInscription struct {
	ConcoursID    int64  `json:"concours_id" validate:"required"`
	Nom           string `json:"nom" validate:"required"`
	Prenom        string `json:"prenom" validate:"required"`
	DateNaissance string `json:"date_naissance" validate:"required"` // format 2006-01-02
	Ville         string `json:"ville" validate:"required"`
	Sexe          string `json:"sexe" validate:"required,oneof=M F"`
	Telephone     string `json:"telephone" validate:"required"`
}

// Paiement is a proof-of-payment record tied one-to-one to an inscription.
type Paiement struct {
	ID                   int64     `json:"id"`
	InscriptionID        int64     `json:"inscription_id"`
	MethodePaiement      string    `json:"methode_paiement"`
	ReferenceTransaction string    `json:"reference_transaction"`
	Montant              int       `json:"montant"`
	CapturePath          string    `json:"capture_ecran"`
	Statut               string    `json:"statut"`
	RaisonRejet          *string   `json:"raison_rejet,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// DummyPaiement receives the form fields of a payment submission; the
// screenshot file arrives in the same multipart request.
type DummyPaiement struct {
	InscriptionID        int64  `json:"inscription_id" validate:"required"`
	MethodePaiement      string `json:"methode_paiement" validate:"required,oneof=orange_money moov_money"`
	ReferenceTransaction string `json:"reference_transaction" validate:"required"`
	Montant              int    `json:"montant" validate:"required,gt=0"`
}

// DummyValidation receives an admin decision on a pending inscription or
// paiement. RaisonRejet is mandatory when rejecting.
type DummyValidation struct {
	Action      string `json:"action" validate:"required"`
	RaisonRejet string `json:"raison_rejet,omitempty"`
}

// ConcoursFilter narrows the contest listing.
type ConcoursFilter struct {
	Type      *string
	EstOuvert *bool
	Search    string
}

// DashboardStats aggregates the admin dashboard counters.
type DashboardStats struct {
	InscriptionsDuJour        int `json:"inscriptions_du_jour"`
	InscriptionsEnAttente     int `json:"inscriptions_en_attente"`
	InscriptionsConfirmees    int `json:"inscriptions_confirmees"`
	PaiementsEnAttente        int `json:"paiements_en_attente"`
	PaiementsValides          int `json:"paiements_valides"`
	CandidatsActifs           int `json:"candidats_actifs"`
	NouveauxCandidatsSemaine  int `json:"nouveaux_candidats_semaine"`
	ConcoursOuverts           int `json:"concours_ouverts"`
	ConcoursTotal             int `json:"concours_total"`
}
