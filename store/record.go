package store

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// PK represents a DynamoDB primary key.
type PK map[string]types.AttributeValue

// Record is a flat map of named scalar fields, one of which is the primary key.
// Values are strings or numbers; numbers read back from the table are float64.
type Record map[string]any

// Item represents a retrieved DynamoDB item.
type Item struct {
	// Raw is the raw DynamoDB item.
	Raw map[string]types.AttributeValue
}

// Record converts the item to a Record.
func (i *Item) Record() (Record, error) {
	rec := Record{}
	if err := attributevalue.UnmarshalMap(i.Raw, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal record: %w", err)
	}
	return rec, nil
}

// Decode unmarshals the item into v, which must be a pointer to a struct or map.
// Struct fields are matched by their dynamodbav tags.
func (i *Item) Decode(v any) error {
	if err := attributevalue.UnmarshalMap(i.Raw, v); err != nil {
		return fmt.Errorf("decode item: %w", err)
	}
	return nil
}

// Key returns the string form of the named key attribute, or "" if it is
// absent or not a string or number.
func (i *Item) Key(attr string) string {
	return keyString(i.Raw[attr])
}

// MarshalRecord converts a Record to a DynamoDB item.
func MarshalRecord(rec Record) (map[string]types.AttributeValue, error) {
	item, err := attributevalue.MarshalMap(map[string]any(rec))
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	return item, nil
}

// keyString extracts the value of a string or number key attribute.
func keyString(av types.AttributeValue) string {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		return v.Value
	case *types.AttributeValueMemberN:
		return v.Value
	}
	return ""
}

// Page is a single scan response.
type Page struct {
	// Items holds the records of this page in scan order.
	Items []*Item

	// LastKey is the continuation key. Nil means the scan is complete.
	LastKey PK
}
