package email

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

// SMTPSender sends plain-text mail through an unauthenticated SMTP relay. When
// no host is configured it logs the message instead, which keeps development
// environments mail-server free.
type SMTPSender struct {
	addr   string
	from   string
	logger *zap.Logger
}

// NewSMTPSender creates a sender for the given relay. An empty host enables
// log-only mode.
func NewSMTPSender(host, port, from string, logger *zap.Logger) *SMTPSender {
	addr := ""
	if host != "" {
		addr = net.JoinHostPort(host, port)
	}
	return &SMTPSender{addr: addr, from: from, logger: logger}
}

// Send delivers one message. The context is checked before dialing; net/smtp
// itself does not support cancellation mid-send.
func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if s.addr == "" {
		s.logger.Info("mail relay not configured, logging message",
			zap.String("to", to),
			zap.String("subject", subject),
		)
		return nil
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", s.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	if err := smtp.SendMail(s.addr, nil, s.from, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}
