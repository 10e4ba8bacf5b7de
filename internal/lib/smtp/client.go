// Package smtp wraps the net/smtp client behind small interfaces so the
// sender service can be tested without a mail server.
package smtp

import "io"

// Client is the subset of *smtp.Client the sender uses.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// TransportInterface opens authenticated SMTP sessions.
type TransportInterface interface {
	Connect() (Client, error)
	GetSMTPUser() string
}
