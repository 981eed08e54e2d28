package mailer

import (
	"context"
	"time"

	"github.com/safebite/backend/internal/pkg/logger"
)

// LogMailer writes the code to the log instead of sending mail. It is the
// development fallback when SES is not configured.
type LogMailer struct {
	log *logger.Logger
}

func NewLogMailer(log *logger.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) SendOTP(_ context.Context, to, code string, expiresIn time.Duration) error {
	m.log.Info("otp code (mail delivery disabled)",
		"to", to,
		"code", code,
		"expires_in", expiresIn.String())
	return nil
}
