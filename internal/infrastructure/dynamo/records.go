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

// ServiceRecordRepo provides typed DynamoDB operations for the service_records table.
type ServiceRecordRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewServiceRecordRepo(client *dynamodb.Client, tableName string) *ServiceRecordRepo {
	return &ServiceRecordRepo{client: client, tableName: tableName}
}

func (r *ServiceRecordRepo) Put(ctx context.Context, rec *domain.ServiceRecord) error {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal service record: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *ServiceRecordRepo) Get(ctx context.Context, recordID string) (*domain.ServiceRecord, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey(fieldServiceRecordID, recordID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("service record %s: %w", recordID, domain.ErrNotFound)
	}
	var rec domain.ServiceRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetMany loads records by id. Missing ids are absent from the result.
func (r *ServiceRecordRepo) GetMany(ctx context.Context, ids []string) (map[string]domain.ServiceRecord, error) {
	items, err := getKeys(ctx, r.client, r.tableName, fieldServiceRecordID, ids)
	if err != nil {
		return nil, err
	}
	list, err := unmarshalRecords(items)
	if err != nil {
		return nil, err
	}
	out := make(map[string]domain.ServiceRecord, len(list))
	for _, rec := range list {
		out[rec.ServiceRecordID] = rec
	}
	return out, nil
}

// Update applies a partial update. next_service_date values must be passed
// as time.Time; they are stored as Unix seconds.
func (r *ServiceRecordRepo) Update(ctx context.Context, recordID string, updates map[string]interface{}) error {
	if t, ok := updates[fieldNextServiceDate].(time.Time); ok {
		updates[fieldNextServiceDate] = unixTime(t)
	}
	updates[fieldUpdatedAt] = time.Now().UTC()
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(fieldServiceRecordID, recordID),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("attribute_exists(service_record_id)"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return notFoundOnCondition(err, "service record", recordID)
}

func (r *ServiceRecordRepo) Delete(ctx context.Context, recordID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey(fieldServiceRecordID, recordID),
	})
	return err
}

func (r *ServiceRecordRepo) ListByCustomer(ctx context.Context, customerID string) ([]domain.ServiceRecord, error) {
	items, err := queryAll(ctx, r.client, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(indexRecordCustomer),
		KeyConditionExpression: aws.String("customer_id = :c"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":c": &types.AttributeValueMemberS{Value: customerID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("list records for customer %s: %w", customerID, err)
	}
	return unmarshalRecords(items)
}

// DeleteByCustomer removes every record owned by customerID and reports how many.
func (r *ServiceRecordRepo) DeleteByCustomer(ctx context.Context, customerID string) (int, error) {
	recs, err := r.ListByCustomer(ctx, customerID)
	if err != nil {
		return 0, err
	}
	keys := make([]map[string]types.AttributeValue, 0, len(recs))
	for _, rec := range recs {
		keys = append(keys, strKey(fieldServiceRecordID, rec.ServiceRecordID))
	}
	if err := deleteKeys(ctx, r.client, r.tableName, keys); err != nil {
		return 0, err
	}
	return len(keys), nil
}

// ListNextServiceBetween returns records whose next service date lies in
// [from, to], compared at second precision.
func (r *ServiceRecordRepo) ListNextServiceBetween(ctx context.Context, from, to time.Time) ([]domain.ServiceRecord, error) {
	items, err := scanAll(ctx, r.client, &dynamodb.ScanInput{
		TableName:                aws.String(r.tableName),
		FilterExpression:         aws.String("#d BETWEEN :from AND :to"),
		ExpressionAttributeNames: map[string]string{"#d": fieldNextServiceDate},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":from": unixValue(from),
			":to":   unixValue(to),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("scan due records: %w", err)
	}
	return unmarshalRecords(items)
}

// ListNextServiceFrom returns records whose next service date is at or after from.
func (r *ServiceRecordRepo) ListNextServiceFrom(ctx context.Context, from time.Time) ([]domain.ServiceRecord, error) {
	items, err := scanAll(ctx, r.client, &dynamodb.ScanInput{
		TableName:                aws.String(r.tableName),
		FilterExpression:         aws.String("#d >= :from"),
		ExpressionAttributeNames: map[string]string{"#d": fieldNextServiceDate},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":from": unixValue(from),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("scan upcoming records: %w", err)
	}
	return unmarshalRecords(items)
}

// MarkNotified sets notified=true and notified_at=at. The flag only ever
// moves from false to true: a record that is already notified is left
// untouched and no error is returned.
func (r *ServiceRecordRepo) MarkNotified(ctx context.Context, recordID string, at time.Time) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey(fieldServiceRecordID, recordID),
		UpdateExpression:    aws.String("SET #n = :t, #na = :at, #u = :u"),
		ConditionExpression: aws.String("attribute_exists(service_record_id) AND #n <> :t"),
		ExpressionAttributeNames: map[string]string{
			"#n":  fieldNotified,
			"#na": fieldNotifiedAt,
			"#u":  fieldUpdatedAt,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":t":  &types.AttributeValueMemberBOOL{Value: true},
			":at": unixValue(at),
			":u":  &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339Nano)},
		},
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		if len(ccf.Item) == 0 {
			return fmt.Errorf("service record %s: %w", recordID, domain.ErrNotFound)
		}
		return nil
	}
	return err
}

func unmarshalRecords(items []map[string]types.AttributeValue) ([]domain.ServiceRecord, error) {
	recs := []domain.ServiceRecord{}
	if err := attributevalue.UnmarshalListOfMaps(items, &recs); err != nil {
		return nil, fmt.Errorf("unmarshal service records: %w", err)
	}
	return recs, nil
}
