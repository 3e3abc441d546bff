package aws

import (
	"context"
	"encoding/json"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// SNSAPI is the subset of the SNS client used here, so it can be mocked.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

func NewSNSClient(ctx context.Context, region string) (*sns.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return sns.NewFromConfig(cfg), nil
}

// PublishJSON publishes v as a JSON message tagged with an event_name attribute
// and returns the SNS message id.
func PublishJSON(ctx context.Context, api SNSAPI, topicARN, eventName string, v interface{}) (string, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal %s: %w", eventName, err)
	}

	out, err := api.Publish(ctx, &sns.PublishInput{
		TopicArn: awssdk.String(topicARN),
		Message:  awssdk.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event_name": {
				DataType:    awssdk.String("String"),
				StringValue: awssdk.String(eventName),
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("publish %s: %w", eventName, err)
	}
	return awssdk.ToString(out.MessageId), nil
}
