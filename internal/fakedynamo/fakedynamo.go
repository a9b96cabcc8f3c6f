// Package fakedynamo is an in-memory stand-in for the DynamoDB operations used
// by the store package. It models tables with a simple string partition key,
// paginated and segmented scans, and the service errors the store classifies.
package fakedynamo

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/jacentio/aristotle/internal/shard"
)

// Client implements the DynamoDB client methods used by store.Store.
type Client struct {
	mu     sync.Mutex
	tables map[string]*table
	calls  map[string]int

	// Err, when set, is returned by every operation before it runs.
	Err error
}

type table struct {
	keyAttr string
	items   map[string]map[string]types.AttributeValue
}

// New returns a Client with no tables.
func New() *Client {
	return &Client{
		tables: make(map[string]*table),
		calls:  make(map[string]int),
	}
}

// CreateTable adds an empty table whose partition key is keyAttr.
func (c *Client) CreateTable(name, keyAttr string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tables[name] = &table{
		keyAttr: keyAttr,
		items:   make(map[string]map[string]types.AttributeValue),
	}
}

// Len returns the number of items in a table, or -1 if it does not exist.
func (c *Client) Len(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.tables[name]
	if !ok {
		return -1
	}
	return len(t.items)
}

// Calls returns how many times op (e.g. "Scan") was invoked.
func (c *Client) Calls(op string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[op]
}

// begin records the call and resolves the table.
func (c *Client) begin(op string, name *string) (*table, error) {
	c.calls[op]++
	if c.Err != nil {
		return nil, c.Err
	}
	t, ok := c.tables[aws.ToString(name)]
	if !ok {
		return nil, &types.ResourceNotFoundException{
			Message: aws.String(fmt.Sprintf("Requested resource not found: Table: %s not found", aws.ToString(name))),
		}
	}
	return t, nil
}

func (t *table) keyOf(item map[string]types.AttributeValue) (string, error) {
	if s, ok := item[t.keyAttr].(*types.AttributeValueMemberS); ok && s.Value != "" {
		return s.Value, nil
	}
	return "", &smithy.GenericAPIError{
		Code:    "ValidationException",
		Message: "One or more parameter values were invalid: Missing the key " + t.keyAttr + " in the item",
	}
}

// PutItem implements the DynamoDB PutItem operation (unconditional).
func (c *Client) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, err := c.begin("PutItem", params.TableName)
	if err != nil {
		return nil, err
	}
	key, err := t.keyOf(params.Item)
	if err != nil {
		return nil, err
	}
	t.items[key] = clone(params.Item)
	return &dynamodb.PutItemOutput{}, nil
}

// GetItem implements the DynamoDB GetItem operation.
func (c *Client) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, err := c.begin("GetItem", params.TableName)
	if err != nil {
		return nil, err
	}
	key, err := t.keyOf(params.Key)
	if err != nil {
		return nil, err
	}
	item, ok := t.items[key]
	if !ok {
		return &dynamodb.GetItemOutput{}, nil
	}
	return &dynamodb.GetItemOutput{Item: clone(item)}, nil
}

// DeleteItem implements the DynamoDB DeleteItem operation (unconditional).
func (c *Client) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, err := c.begin("DeleteItem", params.TableName)
	if err != nil {
		return nil, err
	}
	key, err := t.keyOf(params.Key)
	if err != nil {
		return nil, err
	}
	delete(t.items, key)
	return &dynamodb.DeleteItemOutput{}, nil
}

// UpdateItem implements the subset of UpdateItem produced by store.Update:
// a "SET #a = :v, ..." expression and an optional "attribute_exists(#name)" condition.
func (c *Client) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, err := c.begin("UpdateItem", params.TableName)
	if err != nil {
		return nil, err
	}
	key, err := t.keyOf(params.Key)
	if err != nil {
		return nil, err
	}

	current, exists := t.items[key]
	if cond := aws.ToString(params.ConditionExpression); cond != "" {
		if !strings.HasPrefix(cond, "attribute_exists(") {
			return nil, fmt.Errorf("fakedynamo: unsupported condition %q", cond)
		}
		if !exists {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
		}
	}

	updated := clone(current)
	if updated == nil {
		updated = clone(params.Key)
	}

	expr := strings.TrimPrefix(aws.ToString(params.UpdateExpression), "SET ")
	for _, clause := range strings.Split(expr, ", ") {
		parts := strings.SplitN(clause, " = ", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("fakedynamo: unsupported update clause %q", clause)
		}
		name, ok := params.ExpressionAttributeNames[parts[0]]
		if !ok {
			return nil, fmt.Errorf("fakedynamo: undefined name %s", parts[0])
		}
		value, ok := params.ExpressionAttributeValues[parts[1]]
		if !ok {
			return nil, fmt.Errorf("fakedynamo: undefined value %s", parts[1])
		}
		updated[name] = value
	}
	t.items[key] = updated

	out := &dynamodb.UpdateItemOutput{}
	if params.ReturnValues == types.ReturnValueAllNew {
		out.Attributes = clone(updated)
	}
	return out, nil
}

// Scan implements Scan with Limit, ExclusiveStartKey, Segment/TotalSegments and
// a single "#name = :value" filter. Items are returned in key order; the filter
// is applied after Limit, as the service does.
func (c *Client) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, err := c.begin("Scan", params.TableName)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	segment, total := int(aws.ToInt32(params.Segment)), int(aws.ToInt32(params.TotalSegments))
	keys := make([]string, 0, len(t.items))
	for key := range t.items {
		if shard.Segment(key, total) == segment {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	if len(params.ExclusiveStartKey) > 0 {
		start, err := t.keyOf(params.ExclusiveStartKey)
		if err != nil {
			return nil, err
		}
		i := sort.SearchStrings(keys, start)
		if i < len(keys) && keys[i] == start {
			i++
		}
		keys = keys[i:]
	}

	var lastKey map[string]types.AttributeValue
	if limit := int(aws.ToInt32(params.Limit)); limit > 0 && len(keys) > limit {
		keys = keys[:limit]
		lastKey = map[string]types.AttributeValue{
			t.keyAttr: &types.AttributeValueMemberS{Value: keys[len(keys)-1]},
		}
	}

	out := &dynamodb.ScanOutput{ScannedCount: int32(len(keys)), LastEvaluatedKey: lastKey}
	for _, key := range keys {
		item := t.items[key]
		match, err := matches(item, params)
		if err != nil {
			return nil, err
		}
		if match {
			out.Items = append(out.Items, clone(item))
		}
	}
	out.Count = int32(len(out.Items))
	return out, nil
}

// matches evaluates the scan filter against an item.
func matches(item map[string]types.AttributeValue, params *dynamodb.ScanInput) (bool, error) {
	expr := aws.ToString(params.FilterExpression)
	if expr == "" {
		return true, nil
	}
	parts := strings.SplitN(expr, " = ", 2)
	if len(parts) != 2 {
		return false, fmt.Errorf("fakedynamo: unsupported filter %q", expr)
	}
	name := params.ExpressionAttributeNames[parts[0]]
	value := params.ExpressionAttributeValues[parts[1]]
	return reflect.DeepEqual(item[name], value), nil
}

func clone(item map[string]types.AttributeValue) map[string]types.AttributeValue {
	if item == nil {
		return nil
	}
	out := make(map[string]types.AttributeValue, len(item))
	for k, v := range item {
		out[k] = v
	}
	return out
}
