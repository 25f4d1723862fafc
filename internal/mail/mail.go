// Package mail delivers the account verification message. Sending is always
// scheduled off the request path; a delivery failure is logged by the caller
// and never fails the registration itself.
package mail

import (
	"fmt"
	"html"
	"strings"

	"gopkg.in/gomail.v2"
)

type Sender interface {
	SendVerification(to, username, token string) error
}

type SMTPSender struct {
	Host      string
	Port      int
	From      string
	Password  string
	PublicURL string
}

func NewSMTPSender(host string, port int, from, password, publicURL string) *SMTPSender {
	return &SMTPSender{
		Host:      host,
		Port:      port,
		From:      from,
		Password:  password,
		PublicURL: publicURL,
	}
}

func (s *SMTPSender) SendVerification(to, username, token string) error {
	if to == s.From {
		return fmt.Errorf("invalid recipient address %q", to)
	}

	link := fmt.Sprintf("%s/api/v1/verify/%s", strings.TrimRight(s.PublicURL, "/"), token)

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "BazarGhat account verification")
	m.SetBody("text/html", renderVerification(username, link))

	d := gomail.NewDialer(s.Host, s.Port, s.From, s.Password)
	return d.DialAndSend(m)
}

const verificationTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; background-color: #f5f5f5; margin: 0; padding: 0;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px; background-color: #fff; border-radius: 5px;">
    <h1 style="color: #333;">Account Verification</h1>
    <p style="color: #666;">Hi %s, click the button below to verify your account:</p>
    <a href="%s" style="display: inline-block; padding: 10px 20px; background-color: #007BFF; color: #fff; text-decoration: none; border-radius: 5px;">Verify Account</a>
  </div>
</body>
</html>`

func renderVerification(username, link string) string {
	return fmt.Sprintf(verificationTemplate, html.EscapeString(username), link)
}
