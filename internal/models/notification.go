package models

// Notification event types published on the "notifications" exchange.
const (
	NotifResetCode            = "reset_code"
	NotifPasswordChanged      = "password_changed"
	NotifInscriptionConfirmee = "inscription_confirmee"
	NotifInscriptionRejetee   = "inscription_rejetee"
	NotifPaiementValide       = "paiement_valide"
	NotifPaiementRejete       = "paiement_rejete"
	NotifAbonnementCree       = "abonnement_cree"
)

// Notification is the message consumed by the notification-sender. Delivery
// is best effort: publishing failures are logged and never surfaced to the
// request that triggered them.
type Notification struct {
	Type              string `json:"type"`
	Email             string `json:"email"`
	NomComplet        string `json:"nom_complet"`
	Code              string `json:"code,omitempty"`
	ConcoursNom       string `json:"concours_nom,omitempty"`
	NumeroInscription string `json:"numero_inscription,omitempty"`
	RaisonRejet       string `json:"raison_rejet,omitempty"`
	DateFin           string `json:"date_fin,omitempty"`
}
