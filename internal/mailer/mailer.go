package mailer

import (
	"fmt"
	"log"

	"gopkg.in/gomail.v2"
)

// Mailer is the notification boundary. Implementations must be safe for
// concurrent use; callers treat every send as best-effort.
type Mailer interface {
	SendPaymentSubmitted(userName, userEmail, courseTitle, utr string, amount int) error
	SendAccessGranted(to, courseTitle string) error
	SendPaymentDeclined(to, courseTitle, reason string) error
}

type SMTPConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	AdminEmail string
	AppURL     string
}

type smtpMailer struct {
	dialer *gomail.Dialer
	cfg    SMTPConfig
}

// New returns an SMTP-backed mailer, or a log-only mailer when
// credentials are absent so local setups keep working without SMTP.
func New(cfg SMTPConfig) Mailer {
	if cfg.Username == "" || cfg.Password == "" {
		log.Println("SMTP credentials missing, notifications will only be logged")
		return &logMailer{}
	}
	return &smtpMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		cfg:    cfg,
	}
}

func (m *smtpMailer) send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)
	return m.dialer.DialAndSend(msg)
}

func (m *smtpMailer) SendPaymentSubmitted(userName, userEmail, courseTitle, utr string, amount int) error {
	body := fmt.Sprintf(`<h2>New Payment Request</h2>
<p><strong>User:</strong> %s (%s)</p>
<p><strong>Course:</strong> %s</p>
<p><strong>Amount:</strong> ₹%d</p>
<p><strong>UTR/Transaction ID:</strong> %s</p>
<p>Please verify this payment in the admin dashboard and grant access.</p>`,
		userName, userEmail, courseTitle, amount/100, utr)
	return m.send(m.cfg.AdminEmail, "New Payment Request: "+courseTitle, body)
}

func (m *smtpMailer) SendAccessGranted(to, courseTitle string) error {
	body := fmt.Sprintf(`<h2>Payment Verified!</h2>
<p>Your payment for <strong>%s</strong> has been verified.</p>
<p>You now have full access to the course content.</p>
<p><a href="%s/learning">Go to My Courses</a></p>
<p>Happy learning!</p>`,
		courseTitle, m.cfg.AppURL)
	return m.send(to, "Course Access Granted: "+courseTitle, body)
}

func (m *smtpMailer) SendPaymentDeclined(to, courseTitle, reason string) error {
	if reason == "" {
		reason = "Your payment could not be verified."
	}
	body := fmt.Sprintf(`<h2>Payment Declined</h2>
<p>Your payment for <strong>%s</strong> was declined.</p>
<p><strong>Reason:</strong> %s</p>
<p>If you believe this is a mistake, please submit the payment details again.</p>`,
		courseTitle, reason)
	return m.send(to, "Payment Declined: "+courseTitle, body)
}

type logMailer struct{}

func (l *logMailer) SendPaymentSubmitted(userName, userEmail, courseTitle, utr string, amount int) error {
	log.Printf("[mail] payment submitted: user=%s <%s> course=%q utr=%s amount=%d", userName, userEmail, courseTitle, utr, amount)
	return nil
}

func (l *logMailer) SendAccessGranted(to, courseTitle string) error {
	log.Printf("[mail] access granted: to=%s course=%q", to, courseTitle)
	return nil
}

func (l *logMailer) SendPaymentDeclined(to, courseTitle, reason string) error {
	log.Printf("[mail] payment declined: to=%s course=%q reason=%q", to, courseTitle, reason)
	return nil
}
