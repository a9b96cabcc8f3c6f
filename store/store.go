package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// API is the subset of the DynamoDB client used by Store.
// *dynamodb.Client satisfies it.
type API interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

var _ API = (*dynamodb.Client)(nil)

// Store provides record operations on a single DynamoDB table.
type Store struct {
	client API
	config Config
	logger *slog.Logger
}

// New creates a new Store instance.
func New(client API, config Config) *Store {
	config.validate()
	return &Store{
		client: client,
		config: config,
		logger: slog.Default(),
	}
}

// Connect resolves the ambient AWS configuration and returns a Store bound to
// the configured table. No request is sent; missing credentials or a missing
// table surface on first use.
func Connect(ctx context.Context, cfg Config) (*Store, error) {
	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, &Error{
			Op:    "connect",
			Table: cfg.TableName,
			Kind:  classify(err),
			Err:   fmt.Errorf("load aws config: %w", err),
		}
	}
	return NewFromAWSConfig(awsCfg, cfg), nil
}

// NewFromAWSConfig creates a Store with a DynamoDB client built from awsCfg.
func NewFromAWSConfig(awsCfg aws.Config, cfg Config) *Store {
	if awsCfg.Region == "" {
		awsCfg.Region = DefaultRegion
	}
	guardCredentials(&awsCfg)

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return New(client, cfg)
}

// SetLogger sets the logger for round-trip diagnostics. Nil restores slog.Default().
func (s *Store) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	s.logger = logger
}

// Config returns the validated configuration.
func (s *Store) Config() Config {
	return s.config
}

// KeyOf returns the primary key for a key value.
func (s *Store) KeyOf(key string) PK {
	return PK{s.config.KeyAttribute: &types.AttributeValueMemberS{Value: key}}
}

// Put stores item, replacing any record with the same key.
func (s *Store) Put(ctx context.Context, item map[string]types.AttributeValue) error {
	key := keyString(item[s.config.KeyAttribute])
	if key == "" {
		return fmt.Errorf("%w: attribute %q", ErrMissingKey, s.config.KeyAttribute)
	}

	_, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.config.TableName),
		Item:      item,
	})
	if err != nil {
		return s.wrapError("put", err)
	}

	s.logger.DebugContext(ctx, "record stored", "table", s.config.TableName, "key", key)
	return nil
}

// PutRecord marshals rec and stores it, replacing any record with the same key.
func (s *Store) PutRecord(ctx context.Context, rec Record) error {
	item, err := MarshalRecord(rec)
	if err != nil {
		return err
	}
	return s.Put(ctx, item)
}

// Get retrieves the record with the given key. A missing record is reported
// with found == false and a nil error.
func (s *Store) Get(ctx context.Context, key string) (item *Item, found bool, err error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.config.TableName),
		Key:       s.KeyOf(key),
	})
	if err != nil {
		return nil, false, s.wrapError("get", err)
	}
	if result.Item == nil {
		s.logger.DebugContext(ctx, "record not found", "table", s.config.TableName, "key", key)
		return nil, false, nil
	}

	s.logger.DebugContext(ctx, "record retrieved", "table", s.config.TableName, "key", key)
	return &Item{Raw: result.Item}, true, nil
}

// Delete removes the record with the given key. Deleting a missing record succeeds.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.config.TableName),
		Key:       s.KeyOf(key),
	})
	if err != nil {
		return s.wrapError("delete", err)
	}

	s.logger.DebugContext(ctx, "record deleted", "table", s.config.TableName, "key", key)
	return nil
}

// Update sets the given attributes on an existing record and returns the new
// image. The key attribute is never updated. Returns ErrNotFound if no record
// has the key.
func (s *Store) Update(ctx context.Context, key string, fields map[string]types.AttributeValue) (*Item, error) {
	// Sort for a stable expression
	names := make([]string, 0, len(fields))
	for name := range fields {
		if name == s.config.KeyAttribute {
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("aristotle: update %s: no attributes to set", key)
	}
	sort.Strings(names)

	var setClauses []string
	exprNames := map[string]string{"#key": s.config.KeyAttribute}
	exprValues := map[string]types.AttributeValue{}
	for i, name := range names {
		nameKey := fmt.Sprintf("#attr%d", i)
		valueKey := fmt.Sprintf(":val%d", i)
		exprNames[nameKey] = name
		exprValues[valueKey] = fields[name]
		setClauses = append(setClauses, fmt.Sprintf("%s = %s", nameKey, valueKey))
	}

	result, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.config.TableName),
		Key:                       s.KeyOf(key),
		UpdateExpression:          aws.String("SET " + strings.Join(setClauses, ", ")),
		ConditionExpression:       aws.String("attribute_exists(#key)"),
		ExpressionAttributeNames:  exprNames,
		ExpressionAttributeValues: exprValues,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return nil, ErrNotFound
		}
		return nil, s.wrapError("update", err)
	}

	s.logger.DebugContext(ctx, "record updated",
		"table", s.config.TableName,
		"key", key,
		"attributes", len(names),
	)
	return &Item{Raw: result.Attributes}, nil
}
