package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"github.com/safebite/backend/internal/pkg/logger"
)

// SESMailer delivers OTP codes through Amazon SES. Credentials come from the
// default AWS chain (env, shared config, instance role).
type SESMailer struct {
	client *ses.Client
	from   string
	log    *logger.Logger
}

func NewSESMailer(ctx context.Context, region, from string, log *logger.Logger) (*SESMailer, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	return &SESMailer{
		client: ses.NewFromConfig(cfg),
		from:   from,
		log:    log,
	}, nil
}

func (m *SESMailer) SendOTP(ctx context.Context, to, code string, expiresIn time.Duration) error {
	subject := "Your SafeBite admin login code"
	body := fmt.Sprintf(
		"Your one-time login code is %s.\n\nIt expires in %d minutes. If you did not request it, ignore this message.",
		code, int(expiresIn.Minutes()),
	)

	_, err := m.client.SendEmail(ctx, &ses.SendEmailInput{
		Source:      aws.String(m.from),
		Destination: &types.Destination{ToAddresses: []string{to}},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body), Charset: aws.String("UTF-8")},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("sending otp mail: %w", err)
	}

	m.log.Info("otp mail sent", "to", to)
	return nil
}
