package email

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// sesAPI is the subset of the SES v2 client used here; a seam for tests.
type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESSender delivers reset emails through Amazon SES v2.
type SESSender struct {
	client      sesAPI
	sender      string
	frontendURL string
}

// NewSESSender constructs a sender that sends from the given verified SES
// address.
func NewSESSender(client *sesv2.Client, sender, frontendURL string) *SESSender {
	return &SESSender{client: client, sender: sender, frontendURL: frontendURL}
}

func (s *SESSender) SendPasswordReset(ctx context.Context, to, resetToken string) error {
	link := resetLink(s.frontendURL, resetToken)
	body := fmt.Sprintf(
		"A password reset was requested for your account.\n\n"+
			"Follow this link to choose a new password:\n%s\n\n"+
			"The link expires in one hour. If you did not request a reset, ignore this message.",
		link,
	)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.sender),
		Destination:      &types.Destination{ToAddresses: []string{to}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String("Password reset")},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("error sending reset email: %w", err)
	}
	return nil
}
