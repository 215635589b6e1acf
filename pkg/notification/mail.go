package notification

import (
	"fmt"
	"net/smtp"

	"github.com/raykavin/solscout/pkg/core"
	log "github.com/sirupsen/logrus"
)

// Mail handles email notifications as a secondary alert channel
type Mail struct {
	auth              smtp.Auth
	smtpServerPort    int
	smtpServerAddress string
	to                string
	from              string
}

// MailParams contains all parameters needed to initialize a Mail instance
type MailParams struct {
	SMTPServerPort    int
	SMTPServerAddress string
	To                string
	From              string
	Password          string
}

// NewMail creates a new Mail instance with the provided parameters
func NewMail(params MailParams) Mail {
	return Mail{
		from:              params.From,
		to:                params.To,
		smtpServerPort:    params.SMTPServerPort,
		smtpServerAddress: params.SMTPServerAddress,
		auth: smtp.PlainAuth(
			"",
			params.From,
			params.Password,
			params.SMTPServerAddress,
		),
	}
}

// Notify sends an email notification with the given text
func (m Mail) Notify(text string) {
	if err := m.send("SolScout notification", text); err != nil {
		log.WithError(err).Error("notification/mail: failed to send email")
	}
}

// OnAlert sends the coin alert by email
func (m Mail) OnAlert(alert core.Alert) error {
	subject := fmt.Sprintf("New coin alert: %s", alert.CoinName)
	return m.send(subject, FormatAlertMessage(alert))
}

// OnError reports errors by email
func (m Mail) OnError(err error) {
	m.Notify(fmt.Sprintf("ERROR: %s", err.Error()))
}

func (m Mail) send(subject, text string) error {
	serverAddress := fmt.Sprintf("%s:%d", m.smtpServerAddress, m.smtpServerPort)

	return smtp.SendMail(
		serverAddress,
		m.auth,
		m.from,
		[]string{m.to},
		[]byte(m.buildMessage(subject, text)),
	)
}

// buildMessage assembles the raw RFC 822 message handed to the SMTP server
func (m Mail) buildMessage(subject, text string) string {
	return fmt.Sprintf(
		`To: "User" <%s>
From: "SolScout" <%s>
Subject: %s

%s`,
		m.to,
		m.from,
		subject,
		text,
	)
}
