package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESAPI is the subset of the SES client used here, so it can be mocked.
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

func NewSESClient(ctx context.Context, region string) (*ses.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return ses.NewFromConfig(cfg), nil
}

// SendTextEmail sends a plain text message and returns the SES message id.
func SendTextEmail(ctx context.Context, api SESAPI, from, to, subject, body string) (string, error) {
	out, err := api.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{ToAddresses: []string{to}},
		Message: &types.Message{
			Subject: &types.Content{Data: awssdk.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: awssdk.String(body)},
			},
		},
		Source: awssdk.String(from),
	})
	if err != nil {
		return "", fmt.Errorf("send email to %s: %w", to, err)
	}
	return awssdk.ToString(out.MessageId), nil
}
