package notify

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

// Email sends HTML mail through an SMTP relay with STARTTLS.
type Email struct {
	host     string
	port     int
	sender   string
	password string
}

func NewEmail(host string, port int, sender, password string) *Email {
	return &Email{
		host:     host,
		port:     port,
		sender:   sender,
		password: password,
	}
}

func (n *Email) Name() string { return "email" }

func (n *Email) Send(rcpt Recipient, title, body string) bool {
	if n.sender == "" || n.password == "" {
		log.Printf("[notify] email credentials not configured, skipping send to %s", rcpt.Email)
		return false
	}

	msg := buildMessage(n.sender, rcpt.Email, title, body)
	addr := fmt.Sprintf("%s:%d", n.host, n.port)
	auth := smtp.PlainAuth("", n.sender, n.password, n.host)

	if err := smtp.SendMail(addr, auth, n.sender, []string{rcpt.Email}, msg); err != nil {
		log.Printf("[notify] failed to send email to %s: %v", rcpt.Email, err)
		return false
	}

	return true
}

// buildMessage assembles an RFC 5322 message with an HTML body.
func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")
	return []byte(b.String())
}
