// Package services turns notification events from the bus into outbound
// emails. One handler consumes the whole email queue and dispatches on the
// event type.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Ing-Nahine/concours-backend/internal/lib/sl"
	"github.com/Ing-Nahine/concours-backend/internal/lib/smtp"
	"github.com/Ing-Nahine/concours-backend/internal/models"
)

// SenderService renders and sends the notification emails.
type SenderService struct {
	transport smtp.TransportInterface
	siteURL   string
	log       *slog.Logger
}

// NewSenderService creates a new SenderService. siteURL is the public
// frontend address referenced in the email bodies.
func NewSenderService(log *slog.Logger, transport smtp.TransportInterface, siteURL string) *SenderService {
	return &SenderService{
		transport: transport,
		siteURL:   siteURL,
		log:       log,
	}
}

// SendNotification consumes one event from the email queue. An unknown type
// is an error so the message is redelivered and eventually investigated.
func (s *SenderService) SendNotification(body []byte) error {
	var message models.Notification
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal notification", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	subject, bodyText, err := s.renderEmail(message)
	if err != nil {
		s.log.Error("failed to render notification",
			slog.String("type", message.Type), sl.Err(err))
		return err
	}
	return s.sendEmail([]string{message.Email}, subject, bodyText)
}

func (s *SenderService) renderEmail(n models.Notification) (subject, body string, err error) {
	switch n.Type {
	case models.NotifResetCode:
		subject = "Code de réinitialisation de votre mot de passe"
		body = fmt.Sprintf("Bonjour %s,\n\nVotre code de réinitialisation est : %s\n\nCe code expire dans 10 minutes. Si vous n'êtes pas à l'origine de cette demande, ignorez ce message.",
			n.NomComplet, n.Code)
	case models.NotifPasswordChanged:
		subject = "Votre mot de passe a été modifié"
		body = fmt.Sprintf("Bonjour %s,\n\nVotre mot de passe vient d'être modifié. Si vous n'êtes pas à l'origine de ce changement, contactez-nous immédiatement.\n\nVous pouvez vous connecter sur %s",
			n.NomComplet, s.siteURL)
	case models.NotifInscriptionConfirmee:
		subject = fmt.Sprintf("Inscription confirmée - %s", n.ConcoursNom)
		body = fmt.Sprintf("Bonjour %s,\n\nVotre inscription au concours %s est confirmée.\nVotre numéro d'inscription : %s\n\nConservez précieusement ce numéro, il vous sera demandé le jour du concours.",
			n.NomComplet, n.ConcoursNom, n.NumeroInscription)
	case models.NotifInscriptionRejetee:
		subject = fmt.Sprintf("Inscription rejetée - %s", n.ConcoursNom)
		body = fmt.Sprintf("Bonjour %s,\n\nVotre inscription au concours %s a été rejetée.\nMotif : %s\n\nVous pouvez soumettre une nouvelle demande après correction.",
			n.NomComplet, n.ConcoursNom, n.RaisonRejet)
	case models.NotifPaiementValide:
		subject = fmt.Sprintf("Paiement validé - %s", n.ConcoursNom)
		body = fmt.Sprintf("Bonjour %s,\n\nVotre paiement pour le concours %s a été validé.",
			n.NomComplet, n.ConcoursNom)
	case models.NotifPaiementRejete:
		subject = fmt.Sprintf("Paiement rejeté - %s", n.ConcoursNom)
		body = fmt.Sprintf("Bonjour %s,\n\nVotre paiement pour le concours %s a été rejeté.\nMotif : %s\n\nVeuillez soumettre une nouvelle preuve de paiement.",
			n.NomComplet, n.ConcoursNom, n.RaisonRejet)
	case models.NotifAbonnementCree:
		subject = "Votre abonnement est actif"
		body = fmt.Sprintf("Bonjour %s,\n\nVotre abonnement à la plateforme de formation est actif jusqu'au %s.\n\nBonne préparation !",
			n.NomComplet, n.DateFin)
	default:
		return "", "", fmt.Errorf("unknown notification type %q", n.Type)
	}
	return subject, body, nil
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", sl.Err(err))
		return err
	}
	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}
	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}
	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}
	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent", slog.String("to", strings.Join(to, ";")))
	return nil
}
