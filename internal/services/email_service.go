package services

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type EmailService interface {
	SendWelcomeEmail(email, name string) error
	SendTaskAssignedEmail(email, taskTitle, projectName string) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func (s *emailService) SendWelcomeEmail(email, name string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Welcome to ProjectPulse!")

	body := fmt.Sprintf(`
		<h2>Welcome to ProjectPulse, %s!</h2>
		<p>Your account has been created. You can now track projects, tasks and logged time.</p>
		<p>Best regards,<br>The ProjectPulse Team</p>
	`, name)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}

	return nil
}

func (s *emailService) SendTaskAssignedEmail(email, taskTitle, projectName string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "A task was assigned to you")

	body := fmt.Sprintf(`
		<h3>New assignment</h3>
		<p>You were assigned to the task <strong>%s</strong> in project <strong>%s</strong>.</p>
	`, taskTitle, projectName)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send assignment email: %w", err)
	}

	return nil
}
