package cloud

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/aquaguard-farming-api/internal/domain"
)

const (
	batchSize        = 25 // DynamoDB batch write limit
	maxWriteAttempts = 5
)

type dynamoAPI interface {
	BatchWriteItem(ctx context.Context, in *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// DynamoDBClient keeps the alert history per farmer.
// The table is keyed by farmerId (partition) and alertKey (sort), see alertKey.
type DynamoDBClient struct {
	svc     dynamoAPI
	table   string
	backoff time.Duration
}

func NewDynamoDBClient(ctx context.Context, region, table string) (*DynamoDBClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return &DynamoDBClient{svc: dynamodb.NewFromConfig(cfg), table: table, backoff: 100 * time.Millisecond}, nil
}

// AlertRecord is the stored form of a domain.Alert.
type AlertRecord struct {
	FarmerID  string    `dynamodbav:"farmerId"`
	AlertKey  string    `dynamodbav:"alertKey"`
	CreatedAt time.Time `dynamodbav:"createdAt"`
	AlertType string    `dynamodbav:"alertType"`
	Level     string    `dynamodbav:"level"`
	Color     string    `dynamodbav:"color"`
	Message   string    `dynamodbav:"message"`
}

// alertKey is "<zero-padded unix millis>#<uuid>". Keys sort by creation time and
// never collide across evaluations.
func alertKey(t time.Time) string {
	return keyPrefix(t) + "#" + uuid.NewString()
}

func keyPrefix(t time.Time) string { return fmt.Sprintf("%013d", t.UnixMilli()) }

// RecordAlerts stores the alerts of one evaluation. Items DynamoDB leaves unprocessed
// are retried with a linear backoff.
func (c *DynamoDBClient) RecordAlerts(ctx context.Context, farmerID string, alerts []domain.Alert) error {
	for i := 0; i < len(alerts); i += batchSize {
		end := i + batchSize
		if end > len(alerts) {
			end = len(alerts)
		}

		writes := make([]types.WriteRequest, 0, end-i)
		for j, a := range alerts[i:end] {
			rec := AlertRecord{
				FarmerID:  farmerID,
				AlertKey:  alertKey(a.CreatedAt),
				CreatedAt: a.CreatedAt,
				AlertType: string(a.AlertType),
				Level:     string(a.RiskLevel.Level),
				Color:     a.RiskLevel.Color,
				Message:   a.RiskLevel.Message,
			}
			item, err := attributevalue.MarshalMap(rec)
			if err != nil {
				return fmt.Errorf("failed to marshal alert %d: %w", i+j, err)
			}
			writes = append(writes, types.WriteRequest{PutRequest: &types.PutRequest{Item: item}})
		}

		if err := c.writeBatch(ctx, writes); err != nil {
			return err
		}
	}
	return nil
}

func (c *DynamoDBClient) writeBatch(ctx context.Context, writes []types.WriteRequest) error {
	pending := map[string][]types.WriteRequest{c.table: writes}
	for attempt := 1; ; attempt++ {
		out, err := c.svc.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{RequestItems: pending})
		if err != nil {
			return fmt.Errorf("failed to batch write alerts: %w", err)
		}
		pending = out.UnprocessedItems
		left := len(pending[c.table])
		if left == 0 {
			return nil
		}
		if attempt == maxWriteAttempts {
			return fmt.Errorf("%d alerts still unprocessed after %d attempts", left, attempt)
		}
		log.Warn().Int("unprocessed", left).Int("attempt", attempt).Msg("retrying unprocessed alert writes")

		select {
		case <-ctx.Done():
			return fmt.Errorf("alert write retry canceled: %w", ctx.Err())
		case <-time.After(time.Duration(attempt) * c.backoff):
		}
	}
}

// RecentAlerts returns the farmer's alerts newer than since, newest first.
func (c *DynamoDBClient) RecentAlerts(ctx context.Context, farmerID string, since time.Duration) ([]domain.Alert, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(c.table),
		KeyConditionExpression: aws.String("farmerId = :fid AND alertKey > :start"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":fid":   &types.AttributeValueMemberS{Value: farmerID},
			":start": &types.AttributeValueMemberS{Value: keyPrefix(time.Now().Add(-since))},
		},
		ScanIndexForward: aws.Bool(false),
	}

	var out []domain.Alert
	paginator := dynamodb.NewQueryPaginator(c.svc, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to query alerts: %w", err)
		}
		var recs []AlertRecord
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &recs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal alerts: %w", err)
		}
		for _, r := range recs {
			out = append(out, r.toDomain())
		}
	}
	return out, nil
}

func (r AlertRecord) toDomain() domain.Alert {
	return domain.Alert{
		AlertType: domain.AlertType(r.AlertType),
		RiskLevel: domain.AlertLevel{
			Level:   domain.RiskLevel(r.Level),
			Color:   r.Color,
			Message: r.Message,
		},
		CreatedAt: r.CreatedAt,
	}
}
