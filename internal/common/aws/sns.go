// internal/common/aws/sns.go
package aws

import (
	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// NewSNSClient builds an SNS client from a config produced by LoadConfig.
func NewSNSClient(cfg awssdk.Config) *sns.Client {
	return sns.NewFromConfig(cfg)
}

// EventInput builds an SNS publish request with string message attributes.
func EventInput(topicARN, subject, message string, attributes map[string]string) *sns.PublishInput {
	attrs := make(map[string]types.MessageAttributeValue, len(attributes))
	for k, v := range attributes {
		attrs[k] = types.MessageAttributeValue{
			DataType:    awssdk.String("String"),
			StringValue: awssdk.String(v),
		}
	}
	return &sns.PublishInput{
		TopicArn:          awssdk.String(topicARN),
		Subject:           awssdk.String(subject),
		Message:           awssdk.String(message),
		MessageAttributes: attrs,
	}
}
