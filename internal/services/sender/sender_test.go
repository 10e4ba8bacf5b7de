package services

import (
	"bytes"
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ing-Nahine/concours-backend/internal/lib/sl"
	"github.com/Ing-Nahine/concours-backend/internal/lib/smtp"
	"github.com/Ing-Nahine/concours-backend/internal/models"
)

// fakeClient records the SMTP conversation in memory.
type fakeClient struct {
	from string
	rcpt []string
	body bytes.Buffer
}

func (c *fakeClient) Mail(from string) error { c.from = from; return nil }
func (c *fakeClient) Rcpt(to string) error   { c.rcpt = append(c.rcpt, to); return nil }
func (c *fakeClient) Data() (io.WriteCloser, error) {
	return nopWriteCloser{&c.body}, nil
}
func (c *fakeClient) Quit() error  { return nil }
func (c *fakeClient) Close() error { return nil }

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

type fakeTransport struct {
	client *fakeClient
}

func (t *fakeTransport) Connect() (smtp.Client, error) { return t.client, nil }
func (t *fakeTransport) GetSMTPUser() string           { return "noreply@couldiat.bf" }

func send(t *testing.T, n models.Notification) *fakeClient {
	t.Helper()
	client := &fakeClient{}
	svc := NewSenderService(sl.DiscardLogger(), &fakeTransport{client: client}, "https://couldiat.example")

	body, err := json.Marshal(n)
	require.NoError(t, err)
	require.NoError(t, svc.SendNotification(body))
	return client
}

func TestSenderService_SendNotification(t *testing.T) {
	t.Run("reset code email", func(t *testing.T) {
		client := send(t, models.Notification{
			Type:       models.NotifResetCode,
			Email:      "awa@example.com",
			NomComplet: "Awa Ouedraogo",
			Code:       "123456",
		})

		assert.Equal(t, "noreply@couldiat.bf", client.from)
		assert.Equal(t, []string{"awa@example.com"}, client.rcpt)
		msg := client.body.String()
		assert.Contains(t, msg, "Subject: Code de réinitialisation")
		assert.Contains(t, msg, "123456")
		assert.Contains(t, msg, "Awa Ouedraogo")
	})

	t.Run("inscription confirmation carries the number", func(t *testing.T) {
		client := send(t, models.Notification{
			Type:              models.NotifInscriptionConfirmee,
			Email:             "awa@example.com",
			NomComplet:        "Awa Ouedraogo",
			ConcoursNom:       "ENA Direct 2026",
			NumeroInscription: "INS-2026-000042",
		})

		msg := client.body.String()
		assert.Contains(t, msg, "INS-2026-000042")
		assert.Contains(t, msg, "ENA Direct 2026")
	})

	t.Run("rejection carries the reason", func(t *testing.T) {
		client := send(t, models.Notification{
			Type:        models.NotifInscriptionRejetee,
			Email:       "awa@example.com",
			NomComplet:  "Awa Ouedraogo",
			ConcoursNom: "ENA Direct 2026",
			RaisonRejet: "dossier incomplet",
		})

		assert.Contains(t, client.body.String(), "dossier incomplet")
	})

	t.Run("unknown type is an error", func(t *testing.T) {
		client := &fakeClient{}
		svc := NewSenderService(sl.DiscardLogger(), &fakeTransport{client: client}, "https://couldiat.example")

		body, err := json.Marshal(models.Notification{Type: "mystery"})
		require.NoError(t, err)
		require.Error(t, svc.SendNotification(body))
		assert.Empty(t, client.rcpt)
	})

	t.Run("malformed payload is an error", func(t *testing.T) {
		svc := NewSenderService(sl.DiscardLogger(), &fakeTransport{client: &fakeClient{}}, "https://couldiat.example")
		require.Error(t, svc.SendNotification([]byte("{not json")))
	})
}
