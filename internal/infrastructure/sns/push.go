package sns

import (
	"context"
	"encoding/json"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/donationswap/api/internal/config"
)

// PushSender delivers push notifications to a device's SNS platform endpoint.
type PushSender interface {
	Push(ctx context.Context, endpointARN, title, body string) error
}

type sender struct {
	client *sns.Client
}

func NewSender(cfg *config.Config) (PushSender, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.SNSRegion),
	)
	if err != nil {
		return nil, err
	}
	return &sender{client: sns.NewFromConfig(awsCfg)}, nil
}

func (s *sender) Push(ctx context.Context, endpointARN, title, body string) error {
	payload, err := json.Marshal(map[string]string{
		"title": title,
		"body":  body,
	})
	if err != nil {
		return fmt.Errorf("marshal push payload: %w", err)
	}
	msg := string(payload)
	_, err = s.client.Publish(ctx, &sns.PublishInput{
		TargetArn: &endpointARN,
		Message:   &msg,
	})
	return err
}
