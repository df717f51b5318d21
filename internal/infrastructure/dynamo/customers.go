package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/ro-service/api/internal/domain"
)

// CustomerRepo provides typed DynamoDB operations for the customers table.
type CustomerRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewCustomerRepo(client *dynamodb.Client, tableName string) *CustomerRepo {
	return &CustomerRepo{client: client, tableName: tableName}
}

func (r *CustomerRepo) Put(ctx context.Context, c *domain.Customer) error {
	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return fmt.Errorf("marshal customer: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *CustomerRepo) Get(ctx context.Context, customerID string) (*domain.Customer, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey(fieldCustomerID, customerID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("customer %s: %w", customerID, domain.ErrNotFound)
	}
	var c domain.Customer
	if err := attributevalue.UnmarshalMap(out.Item, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// GetMany loads customers by id. Missing ids are absent from the result.
func (r *CustomerRepo) GetMany(ctx context.Context, ids []string) (map[string]domain.Customer, error) {
	items, err := getKeys(ctx, r.client, r.tableName, fieldCustomerID, ids)
	if err != nil {
		return nil, err
	}
	var list []domain.Customer
	if err := attributevalue.UnmarshalListOfMaps(items, &list); err != nil {
		return nil, err
	}
	out := make(map[string]domain.Customer, len(list))
	for _, c := range list {
		out[c.CustomerID] = c
	}
	return out, nil
}

func (r *CustomerRepo) Update(ctx context.Context, customerID string, updates map[string]interface{}) error {
	updates[fieldUpdatedAt] = time.Now().UTC()
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(fieldCustomerID, customerID),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("attribute_exists(customer_id)"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return notFoundOnCondition(err, "customer", customerID)
}

func (r *CustomerRepo) Delete(ctx context.Context, customerID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey(fieldCustomerID, customerID),
	})
	return err
}

// List returns every customer, or only those owned by technicianID when it
// is non-empty.
func (r *CustomerRepo) List(ctx context.Context, technicianID string) ([]domain.Customer, error) {
	var items []map[string]types.AttributeValue
	var err error
	if technicianID == "" {
		items, err = scanAll(ctx, r.client, &dynamodb.ScanInput{TableName: aws.String(r.tableName)})
	} else {
		items, err = queryAll(ctx, r.client, &dynamodb.QueryInput{
			TableName:              aws.String(r.tableName),
			IndexName:              aws.String(indexCustomerTechnician),
			KeyConditionExpression: aws.String("technician_id = :t"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":t": &types.AttributeValueMemberS{Value: technicianID},
			},
		})
	}
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	customers := []domain.Customer{}
	if err := attributevalue.UnmarshalListOfMaps(items, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}
