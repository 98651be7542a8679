package cloud

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/aquaguard-farming-api/internal/domain"
)

// snsAPI is the part of the SNS client we use.
type snsAPI interface {
	Publish(ctx context.Context, in *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSClient publishes farmer risk alerts to a topic.
type SNSClient struct {
	svc      snsAPI
	topicArn string
}

func NewSNSClient(ctx context.Context, region, topicArn string) (*SNSClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return &SNSClient{svc: sns.NewFromConfig(cfg), topicArn: topicArn}, nil
}

func (c *SNSClient) SendAlert(ctx context.Context, subject, message string) error {
	result, err := c.svc.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(c.topicArn),
		Subject:  aws.String(subject),
		Message:  aws.String(message),
	})
	if err != nil {
		return fmt.Errorf("failed to publish to SNS: %w", err)
	}
	log.Info().Str("message_id", aws.ToString(result.MessageId)).Str("subject", subject).Msg("alert published")
	return nil
}

// NotifyAlerts sends one message listing every alert for the farmer. Nothing is sent for an empty list.
func (c *SNSClient) NotifyAlerts(ctx context.Context, farmer domain.Farmer, alerts []domain.Alert) error {
	if len(alerts) == 0 {
		return nil
	}
	return c.SendAlert(ctx, alertSubject(farmer, alerts), alertMessage(farmer, alerts))
}

func alertSubject(farmer domain.Farmer, alerts []domain.Alert) string {
	if len(alerts) == 1 {
		return fmt.Sprintf("AquaGuard: %s %s risk for %s", alerts[0].RiskLevel.Level, alerts[0].AlertType, farmer.CropName)
	}
	return fmt.Sprintf("AquaGuard: %d alerts for %s", len(alerts), farmer.CropName)
}

func alertMessage(farmer domain.Farmer, alerts []domain.Alert) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Farm %s (%.4f, %.4f), crop %s\n\n", farmer.ID, farmer.Latitude, farmer.Longitude, farmer.CropName)
	for i, a := range alerts {
		fmt.Fprintf(&b, "%d. [%s/%s] %s\n", i+1, a.AlertType, a.RiskLevel.Level, a.RiskLevel.Message)
	}
	fmt.Fprintf(&b, "\nTime: %s", alerts[0].CreatedAt.Format(time.RFC3339))
	return b.String()
}
