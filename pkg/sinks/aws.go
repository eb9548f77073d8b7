package sinks

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"github.com/samvad-hq/skillbank-client/pkg/logging"
)

type sqsClient interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

type snsClient interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// deliverFunc hands one encoded event to an AWS service and returns the
// service-assigned message id.
type deliverFunc func(ctx context.Context, body string, evt Event) (string, error)

// awsSink sends events to an SQS queue or an SNS topic. Both carry the view
// id as a string message attribute so subscribers can filter on it.
type awsSink struct {
	id      string
	typ     string
	target  string
	deliver deliverFunc
	log     Logger
}

// loadAWSConfig resolves the default AWS config for region, pinning static
// credentials when provided.
func loadAWSConfig(ctx context.Context, region string, creds *AWSCredentials) (aws.Config, error) {
	opts := []func(*awscfg.LoadOptions) error{awscfg.WithRegion(region)}
	if creds != nil && creds.AccessKeyID != "" {
		opts = append(opts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(creds.AccessKeyID, creds.SecretAccessKey, creds.SessionToken),
		))
	}
	return awscfg.LoadDefaultConfig(ctx, opts...)
}

func newSQSSink(ctx context.Context, cfg SinkConfig, log Logger) (Sink, error) {
	if cfg.SQS == nil {
		return nil, fmt.Errorf("sink %q missing sqs configuration", cfg.ID)
	}
	awsCfg, err := loadAWSConfig(orBackground(ctx), cfg.SQS.Region, cfg.SQS.Credentials)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return sqsSinkWith(cfg.ID, cfg.SQS.QueueURL, sqs.NewFromConfig(awsCfg), log), nil
}

func newSNSSink(ctx context.Context, cfg SinkConfig, log Logger) (Sink, error) {
	if cfg.SNS == nil {
		return nil, fmt.Errorf("sink %q missing sns configuration", cfg.ID)
	}
	awsCfg, err := loadAWSConfig(orBackground(ctx), cfg.SNS.Region, cfg.SNS.Credentials)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return snsSinkWith(cfg.ID, cfg.SNS.TopicARN, sns.NewFromConfig(awsCfg), log), nil
}

func sqsSinkWith(id, queueURL string, client sqsClient, log Logger) *awsSink {
	return &awsSink{
		id:     id,
		typ:    TypeSQS,
		target: queueURL,
		log:    logging.OrDiscard(log),
		deliver: func(ctx context.Context, body string, evt Event) (string, error) {
			out, err := client.SendMessage(ctx, &sqs.SendMessageInput{
				QueueUrl:    aws.String(queueURL),
				MessageBody: aws.String(body),
				MessageAttributes: map[string]sqstypes.MessageAttributeValue{
					"view_id": {DataType: aws.String("String"), StringValue: aws.String(evt.ViewID)},
				},
			})
			if err != nil {
				return "", fmt.Errorf("send message to sqs: %w", err)
			}
			return aws.ToString(out.MessageId), nil
		},
	}
}

func snsSinkWith(id, topicARN string, client snsClient, log Logger) *awsSink {
	return &awsSink{
		id:     id,
		typ:    TypeSNS,
		target: topicARN,
		log:    logging.OrDiscard(log),
		deliver: func(ctx context.Context, body string, evt Event) (string, error) {
			out, err := client.Publish(ctx, &sns.PublishInput{
				TopicArn: aws.String(topicARN),
				Message:  aws.String(body),
				MessageAttributes: map[string]snstypes.MessageAttributeValue{
					"view_id": {DataType: aws.String("String"), StringValue: aws.String(evt.ViewID)},
				},
			})
			if err != nil {
				return "", fmt.Errorf("publish to sns: %w", err)
			}
			return aws.ToString(out.MessageId), nil
		},
	}
}

func (s *awsSink) ID() string   { return s.id }
func (s *awsSink) Type() string { return s.typ }

// Send encodes evt and delivers it to the queue or topic.
func (s *awsSink) Send(ctx context.Context, evt Event) error {
	payload, err := encodeEvent(evt)
	if err != nil {
		return err
	}

	messageID, err := s.deliver(ctx, string(payload), evt)
	if err != nil {
		s.log.ErrorObj("aws sink delivery failed", "sink_aws_error", map[string]any{
			"sink_id":   s.id,
			"sink_type": s.typ,
			"target":    s.target,
			"error":     err.Error(),
		})
		return err
	}
	s.log.DebugObj("aws sink delivered event", "sink_aws_delivery", map[string]any{
		"sink_id":    s.id,
		"sink_type":  s.typ,
		"message_id": messageID,
	})
	return nil
}

func orBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
