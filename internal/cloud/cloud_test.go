package cloud

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ANIKETSHETTY47/aquaguard-farming-api/internal/domain"
)

var (
	testFarmer = domain.Farmer{ID: "f-1", Latitude: 12.97, Longitude: 77.59, CropName: "Rice"}
	testTime   = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
)

func dangerAlert(kind domain.AlertType, msg string) domain.Alert {
	return domain.Alert{
		AlertType: kind,
		RiskLevel: domain.AlertLevel{Level: domain.RiskDanger, Color: "red", Message: msg},
		CreatedAt: testTime,
	}
}

type fakeSNS struct {
	inputs []*sns.PublishInput
	err    error
}

func (f *fakeSNS) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.inputs = append(f.inputs, in)
	return &sns.PublishOutput{MessageId: aws.String("msg-1")}, nil
}

func TestNotifyAlerts(t *testing.T) {
	fake := &fakeSNS{}
	c := &SNSClient{svc: fake, topicArn: "arn:topic"}

	err := c.NotifyAlerts(context.Background(), testFarmer, []domain.Alert{
		dangerAlert(domain.AlertDrought, "Severe drought risk: 15.0% moisture with declining trend"),
		dangerAlert(domain.AlertFlood, "High flood risk: 60.0mm rain forecast in 24h"),
	})
	require.NoError(t, err)
	require.Len(t, fake.inputs, 1)

	in := fake.inputs[0]
	assert.Equal(t, "arn:topic", aws.ToString(in.TopicArn))
	assert.Equal(t, "AquaGuard: 2 alerts for Rice", aws.ToString(in.Subject))
	assert.Contains(t, aws.ToString(in.Message), "1. [drought/danger] Severe drought risk")
	assert.Contains(t, aws.ToString(in.Message), "2. [flood/danger] High flood risk")
	assert.Contains(t, aws.ToString(in.Message), "2025-06-01T08:00:00Z")
}

func TestNotifyAlertsSingleAndEmpty(t *testing.T) {
	fake := &fakeSNS{}
	c := &SNSClient{svc: fake, topicArn: "arn:topic"}

	require.NoError(t, c.NotifyAlerts(context.Background(), testFarmer, nil))
	assert.Empty(t, fake.inputs)

	require.NoError(t, c.NotifyAlerts(context.Background(), testFarmer, []domain.Alert{dangerAlert(domain.AlertFlood, "x")}))
	assert.Equal(t, "AquaGuard: danger flood risk for Rice", aws.ToString(fake.inputs[0].Subject))
}

func TestSendAlertError(t *testing.T) {
	c := &SNSClient{svc: &fakeSNS{err: errors.New("throttled")}, topicArn: "arn:topic"}
	err := c.SendAlert(context.Background(), "s", "m")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to publish to SNS")
}

type fakeS3 struct {
	key, contentType string
	body             []byte
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.key = aws.ToString(in.Key)
	f.contentType = aws.ToString(in.ContentType)
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestArchive(t *testing.T) {
	fake := &fakeS3{}
	c := &S3Client{
		svc:    fake,
		bucket: "dash",
		presign: func(_ context.Context, bucket, key string) (string, error) {
			return "https://" + bucket + ".example/" + key + "?sig", nil
		},
	}

	url, err := c.Archive(context.Background(), "dashboards/f-1.json", []byte(`{"a":1}`), "application/json")
	require.NoError(t, err)
	assert.Equal(t, "https://dash.example/dashboards/f-1.json?sig", url)
	assert.Equal(t, "dashboards/f-1.json", fake.key)
	assert.Equal(t, "application/json", fake.contentType)
	assert.JSONEq(t, `{"a":1}`, string(fake.body))
}

func TestArchivePresignError(t *testing.T) {
	c := &S3Client{
		svc:     &fakeS3{},
		bucket:  "dash",
		presign: func(context.Context, string, string) (string, error) { return "", errors.New("no creds") },
	}
	_, err := c.Archive(context.Background(), "k", nil, "application/json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "presigned URL")
}

// fakeDynamo keeps items keyed like the table, so a repeated key overwrites.
type fakeDynamo struct {
	batches    [][]types.WriteRequest
	stored     map[string]AlertRecord
	throttle   int // calls that return their whole request as unprocessed
	writeCalls int
	query      *dynamodb.QueryInput
	items      []map[string]types.AttributeValue
}

func (f *fakeDynamo) BatchWriteItem(_ context.Context, in *dynamodb.BatchWriteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	f.writeCalls++
	if f.writeCalls <= f.throttle {
		return &dynamodb.BatchWriteItemOutput{UnprocessedItems: in.RequestItems}, nil
	}
	if f.stored == nil {
		f.stored = map[string]AlertRecord{}
	}
	for _, w := range in.RequestItems {
		f.batches = append(f.batches, w)
		for _, req := range w {
			var rec AlertRecord
			if err := attributevalue.UnmarshalMap(req.PutRequest.Item, &rec); err != nil {
				return nil, err
			}
			f.stored[rec.FarmerID+"/"+rec.AlertKey] = rec
		}
	}
	return &dynamodb.BatchWriteItemOutput{}, nil
}

func (f *fakeDynamo) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.query = in
	return &dynamodb.QueryOutput{Items: f.items}, nil
}

func TestRecordAlertsBatches(t *testing.T) {
	fake := &fakeDynamo{}
	c := &DynamoDBClient{svc: fake, table: "AquaGuardAlerts"}

	alerts := make([]domain.Alert, 30)
	for i := range alerts {
		alerts[i] = dangerAlert(domain.AlertFlood, "x")
	}
	require.NoError(t, c.RecordAlerts(context.Background(), "f-1", alerts))
	require.Len(t, fake.batches, 2)
	assert.Len(t, fake.batches[0], 25)
	assert.Len(t, fake.batches[1], 5)
	assert.Len(t, fake.stored, 30)

	var first AlertRecord
	require.NoError(t, attributevalue.UnmarshalMap(fake.batches[0][0].PutRequest.Item, &first))
	assert.Equal(t, "f-1", first.FarmerID)
	assert.True(t, strings.HasPrefix(first.AlertKey, fmt.Sprintf("%013d#", testTime.UnixMilli())), first.AlertKey)
	assert.True(t, testTime.Equal(first.CreatedAt))
}

func TestRecordAlertsKeepsOverlappingEvaluations(t *testing.T) {
	fake := &fakeDynamo{}
	c := &DynamoDBClient{svc: fake, table: "AquaGuardAlerts"}

	later := dangerAlert(domain.AlertFlood, "second flood")
	later.CreatedAt = testTime.Add(time.Millisecond)

	require.NoError(t, c.RecordAlerts(context.Background(), "f-1", []domain.Alert{
		dangerAlert(domain.AlertDrought, "first drought"),
		dangerAlert(domain.AlertFlood, "first flood"),
	}))
	require.NoError(t, c.RecordAlerts(context.Background(), "f-1", []domain.Alert{later}))

	require.Len(t, fake.stored, 3)
	var messages []string
	for _, rec := range fake.stored {
		messages = append(messages, rec.Message)
		if rec.Message == "second flood" {
			assert.True(t, later.CreatedAt.Equal(rec.CreatedAt))
		} else {
			assert.True(t, testTime.Equal(rec.CreatedAt))
		}
	}
	assert.ElementsMatch(t, []string{"first drought", "first flood", "second flood"}, messages)
}

func TestRecordAlertsRetriesUnprocessed(t *testing.T) {
	fake := &fakeDynamo{throttle: 2}
	c := &DynamoDBClient{svc: fake, table: "AquaGuardAlerts"}

	require.NoError(t, c.RecordAlerts(context.Background(), "f-1", []domain.Alert{dangerAlert(domain.AlertFlood, "x")}))
	assert.Equal(t, 3, fake.writeCalls)
	assert.Len(t, fake.stored, 1)

	fake = &fakeDynamo{throttle: maxWriteAttempts}
	c = &DynamoDBClient{svc: fake, table: "AquaGuardAlerts"}
	err := c.RecordAlerts(context.Background(), "f-1", []domain.Alert{dangerAlert(domain.AlertFlood, "x")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unprocessed")
	assert.Equal(t, maxWriteAttempts, fake.writeCalls)
	assert.Empty(t, fake.stored)
}

func TestRecentAlerts(t *testing.T) {
	item, err := attributevalue.MarshalMap(AlertRecord{
		FarmerID: "f-1", AlertKey: alertKey(testTime), CreatedAt: testTime,
		AlertType: "drought", Level: "caution", Color: "yellow", Message: "m",
	})
	require.NoError(t, err)
	fake := &fakeDynamo{items: []map[string]types.AttributeValue{item}}
	c := &DynamoDBClient{svc: fake, table: "AquaGuardAlerts"}

	got, err := c.RecentAlerts(context.Background(), "f-1", 24*time.Hour)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.AlertDrought, got[0].AlertType)
	assert.Equal(t, domain.RiskCaution, got[0].RiskLevel.Level)
	assert.True(t, testTime.Equal(got[0].CreatedAt))

	assert.Equal(t, "AquaGuardAlerts", aws.ToString(fake.query.TableName))
	assert.False(t, aws.ToBool(fake.query.ScanIndexForward))
	start := fake.query.ExpressionAttributeValues[":start"].(*types.AttributeValueMemberS).Value
	assert.Len(t, start, 13)
	assert.Less(t, start, alertKey(time.Now()))
	assert.Greater(t, start, alertKey(time.Now().Add(-25*time.Hour)))
}
