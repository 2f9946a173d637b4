package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// Item is a raw table row.
type Item = map[string]types.AttributeValue

// TableStore is the shared access layer for the single physical table. All
// entity repositories go through it; none of them holds a DynamoDB client
// directly.
type TableStore struct {
	client *dynamodb.Client
	table  string
	logger *zap.Logger
}

// NewTableStore creates a store bound to one table.
func NewTableStore(client *dynamodb.Client, table string, logger *zap.Logger) *TableStore {
	return &TableStore{
		client: client,
		table:  table,
		logger: logger,
	}
}

// Put writes one row, overwriting any row with the same (pk, sk).
func (s *TableStore) Put(ctx context.Context, item Item) error {
	_, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put item: %w", err)
	}
	return nil
}

// Delete removes one row by primary key.
func (s *TableStore) Delete(ctx context.Context, pk, sk string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key: Item{
			attrPK: &types.AttributeValueMemberS{Value: pk},
			attrSK: &types.AttributeValueMemberS{Value: sk},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

// QueryPartition returns every row in a partition, newest sort key first.
// Partitions are small (one user's rows, one group's rows), so full
// pagination is acceptable.
func (s *TableStore) QueryPartition(ctx context.Context, pk string) ([]Item, error) {
	var items []Item
	var lastKey Item

	for {
		out, err := s.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(s.table),
			KeyConditionExpression: aws.String("pk = :pk"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":pk": &types.AttributeValueMemberS{Value: pk},
			},
			ScanIndexForward:  aws.Bool(false),
			ExclusiveStartKey: lastKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to query partition %q: %w", pk, err)
		}
		items = append(items, out.Items...)
		if out.LastEvaluatedKey == nil {
			break
		}
		lastKey = out.LastEvaluatedKey
	}
	return items, nil
}

// QueryIndex queries a secondary index by a single key attribute.
func (s *TableStore) QueryIndex(ctx context.Context, indexName, keyAttr, keyValue string) ([]Item, error) {
	var items []Item
	var lastKey Item

	for {
		out, err := s.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(s.table),
			IndexName:              aws.String(indexName),
			KeyConditionExpression: aws.String("#k = :v"),
			ExpressionAttributeNames: map[string]string{
				"#k": keyAttr,
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":v": &types.AttributeValueMemberS{Value: keyValue},
			},
			ExclusiveStartKey: lastKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to query index %q: %w", indexName, err)
		}
		items = append(items, out.Items...)
		if out.LastEvaluatedKey == nil {
			break
		}
		lastKey = out.LastEvaluatedKey
	}
	return items, nil
}

// ScanFilter runs a full-table scan with the given filter condition,
// following pagination to the end. This is the fallback path for queries
// the indexes were not designed for; it trades cost for read-after-write
// consistency on the base table.
func (s *TableStore) ScanFilter(ctx context.Context, cond expression.ConditionBuilder) ([]Item, error) {
	expr, err := expression.NewBuilder().WithFilter(cond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build scan filter: %w", err)
	}

	var items []Item
	var lastKey Item
	pages := 0

	for {
		out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:                 aws.String(s.table),
			FilterExpression:          expr.Filter(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         lastKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan table: %w", err)
		}
		items = append(items, out.Items...)
		pages++
		if out.LastEvaluatedKey == nil {
			break
		}
		lastKey = out.LastEvaluatedKey
	}

	s.logger.Debug("Table scan completed",
		zap.Int("pages", pages),
		zap.Int("items", len(items)),
	)
	return items, nil
}

// LatestPerPartition keeps only the newest row per pk from a mixed result
// set. Index queries return every historical version of an entity; callers
// want the canonical latest one.
func LatestPerPartition(items []Item) []Item {
	best := make(map[string]Item, len(items))
	order := make([]string, 0, len(items))

	for _, item := range items {
		pk := stringAttr(item, attrPK)
		sk := stringAttr(item, attrSK)
		if pk == "" {
			continue
		}
		current, ok := best[pk]
		if !ok {
			best[pk] = item
			order = append(order, pk)
			continue
		}
		if sk > stringAttr(current, attrSK) {
			best[pk] = item
		}
	}

	out := make([]Item, 0, len(best))
	for _, pk := range order {
		out = append(out, best[pk])
	}
	return out
}

// stringAttr reads a string attribute from a raw row.
func stringAttr(item Item, name string) string {
	if v, ok := item[name].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}
