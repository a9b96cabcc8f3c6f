package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// filter is an optional equality condition applied by the service during a scan.
type filter struct {
	attr  string
	value types.AttributeValue
}

// List returns every record in the table. Continuation keys are followed until
// the scan is complete. Order is whatever the scan yields.
func (s *Store) List(ctx context.Context) ([]*Item, error) {
	items, err := s.scanAll(ctx, nil)
	if err != nil {
		return nil, s.wrapError("scan", err)
	}

	s.logger.DebugContext(ctx, "table scanned",
		"table", s.config.TableName,
		"segments", s.config.ScanSegments,
		"count", len(items),
	)
	return items, nil
}

// Find returns every record whose attr equals value.
func (s *Store) Find(ctx context.Context, attr string, value types.AttributeValue) ([]*Item, error) {
	items, err := s.scanAll(ctx, &filter{attr: attr, value: value})
	if err != nil {
		return nil, s.wrapError("scan", err)
	}

	s.logger.DebugContext(ctx, "table filtered",
		"table", s.config.TableName,
		"attribute", attr,
		"count", len(items),
	)
	return items, nil
}

// ScanPage performs exactly one scan request starting after startKey
// (nil starts at the beginning). Page.LastKey is nil once the table is exhausted.
func (s *Store) ScanPage(ctx context.Context, startKey PK) (*Page, error) {
	input := s.scanInput(nil)
	if len(startKey) > 0 {
		input.ExclusiveStartKey = startKey
	}

	result, err := s.client.Scan(ctx, input)
	if err != nil {
		return nil, s.wrapError("scan", err)
	}

	page := &Page{Items: make([]*Item, 0, len(result.Items))}
	for _, raw := range result.Items {
		page.Items = append(page.Items, &Item{Raw: raw})
	}
	if len(result.LastEvaluatedKey) > 0 {
		page.LastKey = result.LastEvaluatedKey
	}

	s.logger.DebugContext(ctx, "scan page read",
		"table", s.config.TableName,
		"count", len(page.Items),
		"more", page.LastKey != nil,
	)
	return page, nil
}

// scanInput builds the base scan request.
func (s *Store) scanInput(f *filter) *dynamodb.ScanInput {
	input := &dynamodb.ScanInput{
		TableName: aws.String(s.config.TableName),
	}
	if s.config.PageSize > 0 {
		input.Limit = aws.Int32(s.config.PageSize)
	}
	if f != nil {
		input.FilterExpression = aws.String("#field = :value")
		input.ExpressionAttributeNames = map[string]string{"#field": f.attr}
		input.ExpressionAttributeValues = map[string]types.AttributeValue{":value": f.value}
	}
	return input
}

// scanAll reads all pages, fanning out across segments when configured.
func (s *Store) scanAll(ctx context.Context, f *filter) ([]*Item, error) {
	numSegments := s.config.ScanSegments

	// Fast path for a sequential scan (default)
	if numSegments <= 1 {
		return s.scanSegment(ctx, s.scanInput(f))
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var mu sync.Mutex
	var all []*Item
	var wg sync.WaitGroup
	errs := make(chan error, numSegments)

	for segment := 0; segment < numSegments; segment++ {
		wg.Add(1)
		go func(segment int) {
			defer wg.Done()

			input := s.scanInput(f)
			input.Segment = aws.Int32(int32(segment))
			input.TotalSegments = aws.Int32(int32(numSegments))

			items, err := s.scanSegment(ctx, input)
			if err != nil {
				errs <- fmt.Errorf("segment %d: %w", segment, err)
				cancel()
				return
			}

			mu.Lock()
			all = append(all, items...)
			mu.Unlock()
		}(segment)
	}

	wg.Wait()
	close(errs)

	// First error wins; the rest are usually cancellations it caused
	if err, ok := <-errs; ok {
		return nil, err
	}
	return all, nil
}

// scanSegment paginates one scan input to completion.
func (s *Store) scanSegment(ctx context.Context, input *dynamodb.ScanInput) ([]*Item, error) {
	var items []*Item
	paginator := dynamodb.NewScanPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, raw := range page.Items {
			items = append(items, &Item{Raw: raw})
		}
	}
	return items, nil
}
