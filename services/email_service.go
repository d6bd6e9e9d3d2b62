package services

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"zetchat-api/config"
)

// EmailService delivers transactional mail. Delivery failures are reported to
// the caller but must never block or roll back the operation that triggered
// them; callers log and continue.
type EmailService struct {
	config *config.Config
	dialer *gomail.Dialer
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		config: cfg,
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
	}
}

// SendVerificationEmail sends the registration confirmation code.
func (es *EmailService) SendVerificationEmail(email, username, code string) error {
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Email Verification</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h1 style="color: #007bff;">ZetChat</h1>
        <h2>Hello %s!</h2>
        <p>Welcome to ZetChat! Use this code to confirm your email address:</p>
        <div style="background: #e9ecef; padding: 20px; text-align: center; border-radius: 8px;">
            <span style="font-size: 32px; font-weight: bold; letter-spacing: 8px;">%s</span>
        </div>
        <p>The code expires in 24 hours. If you didn't create an account, ignore this email.</p>
    </div>
</body>
</html>`, username, code)

	return es.send(email, "ZetChat - Email Verification", htmlBody)
}

// SendWelcomeEmail greets a newly verified user.
func (es *EmailService) SendWelcomeEmail(email, username string) error {
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Welcome</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h1 style="color: #007bff;">ZetChat</h1>
        <h2>Welcome aboard, %s!</h2>
        <p>Your email is confirmed. Find people to follow and start a chat.</p>
    </div>
</body>
</html>`, username)

	return es.send(email, "Welcome to ZetChat!", htmlBody)
}

func (es *EmailService) send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", fmt.Sprintf("%s <%s>", es.config.FromName, es.config.FromEmail))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := es.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
