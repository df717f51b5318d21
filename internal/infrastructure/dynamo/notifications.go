package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/ro-service/api/internal/domain"
)

// NotificationRepo provides typed DynamoDB operations for the notifications table.
type NotificationRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewNotificationRepo(client *dynamodb.Client, tableName string) *NotificationRepo {
	return &NotificationRepo{client: client, tableName: tableName}
}

// Create inserts a log entry. Entries are immutable: an existing id yields
// domain.ErrConflict.
func (r *NotificationRepo) Create(ctx context.Context, n *domain.NotificationLog) error {
	item, err := attributevalue.MarshalMap(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(notification_id)"),
	})
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return fmt.Errorf("notification %s: %w", n.NotificationID, domain.ErrConflict)
	}
	return err
}

// ExistsBetween reports whether recordID has a log entry with sent_at in [from, to].
func (r *NotificationRepo) ExistsBetween(ctx context.Context, recordID string, from, to time.Time) (bool, error) {
	p := dynamodb.NewQueryPaginator(r.client, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(indexNotificationRecord),
		KeyConditionExpression: aws.String("service_record_id = :r AND sent_at BETWEEN :from AND :to"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":r":    &types.AttributeValueMemberS{Value: recordID},
			":from": unixValue(from),
			":to":   unixValue(to),
		},
		Select: types.SelectCount,
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return false, fmt.Errorf("query notifications for %s: %w", recordID, err)
		}
		if page.Count > 0 {
			return true, nil
		}
	}
	return false, nil
}

// List returns every log entry, unordered.
func (r *NotificationRepo) List(ctx context.Context) ([]domain.NotificationLog, error) {
	items, err := scanAll(ctx, r.client, &dynamodb.ScanInput{TableName: aws.String(r.tableName)})
	if err != nil {
		return nil, fmt.Errorf("scan notifications: %w", err)
	}
	logs := []domain.NotificationLog{}
	if err := attributevalue.UnmarshalListOfMaps(items, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}
