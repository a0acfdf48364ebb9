package email

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/credit-engine/internal/config"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
	now    func() time.Time
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// SendDocumentsReceived tells the verification desk that income documents
// arrived, optionally linked to an income assessment
func (s *Sender) SendDocumentsReceived(assessmentID string, files []string) error {
	e := s.documentsReceived(assessmentID, files)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", s.cfg.NotifyEmail, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", s.cfg.NotifyEmail, e.Subject)
	return nil
}

func (s *Sender) documentsReceived(assessmentID string, files []string) *email.Email {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{s.cfg.NotifyEmail}
	e.Subject = fmt.Sprintf("Income documents received (%d)", len(files))

	var body strings.Builder
	body.WriteString("Hello,\n\n")
	fmt.Fprintf(&body, "%d income document(s) were uploaded at %s.\n",
		len(files), s.now().Format("2006-01-02 15:04:05"))
	if assessmentID != "" {
		fmt.Fprintf(&body, "Linked assessment: %s\n", assessmentID)
	}
	body.WriteString("\nFiles:\n")
	for _, f := range files {
		fmt.Fprintf(&body, "  - %s\n", f)
	}
	body.WriteString("\nPlease verify them against the declared household income.\n")
	body.WriteString("\nBest regards,\nCredit Engine")
	e.Text = []byte(body.String())
	return e
}
