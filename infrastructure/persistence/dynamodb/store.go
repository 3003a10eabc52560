// Package dynamodb implements the single-table store adapter and the entity
// repositories built on top of it. One DynamoDB table holds every entity
// kind, distinguished by composite PK/SK pairs; two global secondary indexes
// (GSI1: quotations by user, GSI2: products by family) provide the alternate
// access paths.
package dynamodb

import (
	"context"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// Item is a raw table item.
type Item = map[string]types.AttributeValue

// Query describes a key-condition read against the primary table or a
// secondary index, with an optional post-fetch equality filter. The filter
// runs after the index lookup, so cost scales with matched index entries;
// callers pick index keys that bound this per tenant.
type Query struct {
	Index       string // secondary index name, empty for the primary table
	KeyAttr     string // partition key attribute: PK, GSI1PK, GSI2PK
	KeyValue    string
	SortAttr    string // sort key attribute, required when SortPrefix is set
	SortPrefix  string // begins_with prefix, empty for full-partition reads
	FilterAttr  string // optional post-index equality filter attribute
	FilterValue string
}

// TransactPut is a conditional put inside an atomic write.
type TransactPut struct {
	Item      Item
	Condition *string // raw condition expression, e.g. attribute_not_exists(PK)
}

// TransactUpdate is a field merge inside an atomic write.
type TransactUpdate struct {
	PK     string
	SK     string
	Set    map[string]any
	Remove []string
}

// TransactOp is one operation of an atomic multi-item write. Exactly one
// field must be set.
type TransactOp struct {
	Put    *TransactPut
	Update *TransactUpdate
}

// Store executes the primitive table operations with retry on transient
// faults and a typed failure taxonomy. It holds no entity knowledge; the
// repositories own key schemes and field whitelists.
type Store struct {
	client DynamoDBAPI
	table  string
	retry  RetryConfig
	logger *zap.Logger
}

// NewStore creates a store adapter over the given client and table.
func NewStore(client DynamoDBAPI, table string, logger *zap.Logger) *Store {
	return &Store{
		client: client,
		table:  table,
		retry:  DefaultRetryConfig(),
		logger: logger,
	}
}

func (s *Store) key(pk, sk string) Item {
	return Item{
		"PK": &types.AttributeValueMemberS{Value: pk},
		"SK": &types.AttributeValueMemberS{Value: sk},
	}
}

// Get performs a point read. A missing item is (nil, nil), not an error.
func (s *Store) Get(ctx context.Context, pk, sk string) (Item, error) {
	var out *dynamodb.GetItemOutput
	err := retryWithBackoff(ctx, s.retry, func() error {
		var err error
		out, err = s.client.GetItem(ctx, &dynamodb.GetItemInput{
			TableName: aws.String(s.table),
			Key:       s.key(pk, sk),
		})
		return err
	})
	if err != nil {
		s.logger.Error("Failed to get item",
			zap.String("pk", pk),
			zap.String("sk", sk),
			zap.Error(err),
		)
		return nil, classify("get", pk, sk, err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	return out.Item, nil
}

// Put upserts an item, optionally guarded by a condition expression. A
// violated condition surfaces as ConditionFailedError.
func (s *Store) Put(ctx context.Context, item Item, condition *string) error {
	pk, sk := keyStrings(item)
	err := retryWithBackoff(ctx, s.retry, func() error {
		_, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
			TableName:           aws.String(s.table),
			Item:                item,
			ConditionExpression: condition,
		})
		return err
	})
	if err != nil {
		classified := classify("put", pk, sk, err)
		if !IsConditionFailed(classified) {
			s.logger.Error("Failed to put item",
				zap.String("pk", pk),
				zap.String("sk", sk),
				zap.Error(err),
			)
		}
		return classified
	}
	return nil
}

// Update merges the named fields into an existing item and strips the
// removed ones, returning the full new image. The item must already exist;
// updating an absent key is NotFoundError, never an implicit create.
func (s *Store) Update(ctx context.Context, pk, sk string, set map[string]any, remove []string) (Item, error) {
	expr, err := buildUpdateExpression(set, remove)
	if err != nil {
		return nil, &StoreError{Op: "update", PK: pk, SK: sk, Err: err}
	}

	var out *dynamodb.UpdateItemOutput
	err = retryWithBackoff(ctx, s.retry, func() error {
		var err error
		out, err = s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
			TableName:                 aws.String(s.table),
			Key:                       s.key(pk, sk),
			UpdateExpression:          expr.Update(),
			ConditionExpression:       expr.Condition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ReturnValues:              types.ReturnValueAllNew,
		})
		return err
	})
	if err != nil {
		classified := classify("update", pk, sk, err)
		if IsConditionFailed(classified) {
			// The existence guard failed: nothing to merge into.
			return nil, &NotFoundError{PK: pk, SK: sk}
		}
		s.logger.Error("Failed to update item",
			zap.String("pk", pk),
			zap.String("sk", sk),
			zap.Error(err),
		)
		return nil, classified
	}
	return out.Attributes, nil
}

// Delete removes an item by exact key. Deleting an absent key succeeds.
func (s *Store) Delete(ctx context.Context, pk, sk string) error {
	err := retryWithBackoff(ctx, s.retry, func() error {
		_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(s.table),
			Key:       s.key(pk, sk),
		})
		return err
	})
	if err != nil {
		s.logger.Error("Failed to delete item",
			zap.String("pk", pk),
			zap.String("sk", sk),
			zap.Error(err),
		)
		return classify("delete", pk, sk, err)
	}
	return nil
}

// Query runs a key-condition read, following pagination until exhaustion.
func (s *Store) Query(ctx context.Context, q Query) ([]Item, error) {
	keyCond := expression.Key(q.KeyAttr).Equal(expression.Value(q.KeyValue))
	if q.SortPrefix != "" {
		keyCond = keyCond.And(expression.Key(q.SortAttr).BeginsWith(q.SortPrefix))
	}

	builder := expression.NewBuilder().WithKeyCondition(keyCond)
	if q.FilterAttr != "" {
		builder = builder.WithFilter(
			expression.Name(q.FilterAttr).Equal(expression.Value(q.FilterValue)),
		)
	}
	expr, err := builder.Build()
	if err != nil {
		return nil, &StoreError{Op: "query", PK: q.KeyValue, Err: err}
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(s.table),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}
	if q.Index != "" {
		input.IndexName = aws.String(q.Index)
	}

	var items []Item
	for {
		var out *dynamodb.QueryOutput
		err := retryWithBackoff(ctx, s.retry, func() error {
			var err error
			out, err = s.client.Query(ctx, input)
			return err
		})
		if err != nil {
			s.logger.Error("Failed to query items",
				zap.String("index", q.Index),
				zap.String("key", q.KeyValue),
				zap.Error(err),
			)
			return nil, classify("query", q.KeyValue, q.SortPrefix, err)
		}

		items = append(items, out.Items...)
		if out.LastEvaluatedKey == nil {
			return items, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

// TransactWrite executes a small list of put/update operations atomically.
// All apply or none do; cancellation surfaces as TransactionCancelledError
// with per-operation reason codes.
func (s *Store) TransactWrite(ctx context.Context, ops []TransactOp) error {
	writeItems := make([]types.TransactWriteItem, 0, len(ops))
	for _, op := range ops {
		switch {
		case op.Put != nil:
			writeItems = append(writeItems, types.TransactWriteItem{
				Put: &types.Put{
					TableName:           aws.String(s.table),
					Item:                op.Put.Item,
					ConditionExpression: op.Put.Condition,
				},
			})
		case op.Update != nil:
			expr, err := buildUpdateExpression(op.Update.Set, op.Update.Remove)
			if err != nil {
				return &StoreError{Op: "transact_write", PK: op.Update.PK, SK: op.Update.SK, Err: err}
			}
			writeItems = append(writeItems, types.TransactWriteItem{
				Update: &types.Update{
					TableName:                 aws.String(s.table),
					Key:                       s.key(op.Update.PK, op.Update.SK),
					UpdateExpression:          expr.Update(),
					ConditionExpression:       expr.Condition(),
					ExpressionAttributeNames:  expr.Names(),
					ExpressionAttributeValues: expr.Values(),
				},
			})
		}
	}

	err := retryWithBackoff(ctx, s.retry, func() error {
		_, err := s.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
			TransactItems: writeItems,
		})
		return err
	})
	if err != nil {
		classified := classify("transact_write", "", "", err)
		if !IsTransactionCancelled(classified) {
			s.logger.Error("Failed to execute transactional write",
				zap.Int("operations", len(writeItems)),
				zap.Error(err),
			)
		}
		return classified
	}
	return nil
}

// buildUpdateExpression turns a set map and a remove list into a SET/REMOVE
// update expression guarded by item existence. Fields are applied in sorted
// order so expressions are deterministic.
func buildUpdateExpression(set map[string]any, remove []string) (expression.Expression, error) {
	var update expression.UpdateBuilder

	fields := make([]string, 0, len(set))
	for k := range set {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	for _, k := range fields {
		update = update.Set(expression.Name(k), expression.Value(set[k]))
	}
	for _, k := range remove {
		update = update.Remove(expression.Name(k))
	}

	return expression.NewBuilder().
		WithUpdate(update).
		WithCondition(expression.AttributeExists(expression.Name("PK"))).
		Build()
}

func keyStrings(item Item) (pk, sk string) {
	if v, ok := item["PK"].(*types.AttributeValueMemberS); ok {
		pk = v.Value
	}
	if v, ok := item["SK"].(*types.AttributeValueMemberS); ok {
		sk = v.Value
	}
	return pk, sk
}
