// internal/common/aws/ses.go
package aws

import (
	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

const charsetUTF8 = "UTF-8"

// NewSESClient builds an SES client from a config produced by LoadConfig.
func NewSESClient(cfg awssdk.Config) *ses.Client {
	return ses.NewFromConfig(cfg)
}

// EmailInput builds a multipart (HTML and text) SES message.
func EmailInput(from string, to []string, subject, html, text string) *ses.SendEmailInput {
	return &ses.SendEmailInput{
		Source:      awssdk.String(from),
		Destination: &types.Destination{ToAddresses: to},
		Message: &types.Message{
			Subject: &types.Content{Data: awssdk.String(subject), Charset: awssdk.String(charsetUTF8)},
			Body: &types.Body{
				Html: &types.Content{Data: awssdk.String(html), Charset: awssdk.String(charsetUTF8)},
				Text: &types.Content{Data: awssdk.String(text), Charset: awssdk.String(charsetUTF8)},
			},
		},
	}
}
