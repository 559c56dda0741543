package notifier

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// snsAPI is the slice of the SNS client the notifier needs; tests stub it.
type snsAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSNotifier sends verification SMS messages through AWS SNS.
type SNSNotifier struct {
	client   snsAPI
	senderID string
}

// NewSNSNotifier builds a notifier using the default AWS credential chain.
func NewSNSNotifier(ctx context.Context, region, senderID string) (*SNSNotifier, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &SNSNotifier{client: sns.NewFromConfig(awsCfg), senderID: senderID}, nil
}

// Send publishes the token as a transactional SMS to the mobile number.
func (n *SNSNotifier) Send(ctx context.Context, mobile, token string) error {
	input := &sns.PublishInput{
		PhoneNumber: aws.String(mobile),
		Message:     aws.String(Message(token)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"AWS.SNS.SMS.SMSType": {
				DataType:    aws.String("String"),
				StringValue: aws.String("Transactional"),
			},
		},
	}
	if n.senderID != "" {
		input.MessageAttributes["AWS.SNS.SMS.SenderID"] = types.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(n.senderID),
		}
	}

	_, err := n.client.Publish(ctx, input)
	return err
}
