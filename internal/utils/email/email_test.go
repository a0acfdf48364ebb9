package email

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/Dan9191/credit-engine/internal/config"
)

func testSender() *Sender {
	log := logrus.New()
	log.SetOutput(io.Discard)
	s := NewSender(&config.Config{
		SMTPHost:    "127.0.0.1",
		SMTPPort:    "1",
		SenderEmail: "engine@example.com",
		NotifyEmail: "desk@example.com",
	}, log)
	s.now = func() time.Time { return time.Date(2026, 5, 1, 10, 30, 0, 0, time.UTC) }
	return s
}

func TestDocumentsReceived(t *testing.T) {
	e := testSender().documentsReceived("a-1", []string{"payslip.pdf", "bill.png"})

	assert.Equal(t, "engine@example.com", e.From)
	assert.Equal(t, []string{"desk@example.com"}, e.To)
	assert.Equal(t, "Income documents received (2)", e.Subject)

	body := string(e.Text)
	assert.Contains(t, body, "2026-05-01 10:30:00")
	assert.Contains(t, body, "Linked assessment: a-1")
	assert.Contains(t, body, "  - payslip.pdf\n  - bill.png\n")
}

func TestDocumentsReceived_NoAssessment(t *testing.T) {
	e := testSender().documentsReceived("", []string{"x.pdf"})
	assert.NotContains(t, string(e.Text), "Linked assessment")
}

func TestSendDocumentsReceived_UnreachableServer(t *testing.T) {
	err := testSender().SendDocumentsReceived("", []string{"x.pdf"})
	assert.Error(t, err)
}
