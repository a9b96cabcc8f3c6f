//go:build e2e

// Package e2e contains end-to-end integration tests using real DynamoDB tables.
// Run with: go test -tags=e2e -v ./e2e/...
//
// AWS_PROFILE and AWS_REGION select the account as usual. Set
// ARISTOTLE_E2E_ENDPOINT to run against DynamoDB Local instead.
package e2e

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/jacentio/aristotle/character"
	"github.com/jacentio/aristotle/store"
)

// Table names - unique per test run to avoid conflicts
const tablePrefix = "aristotle-e2e-test"

var (
	testID          string
	charactersTable string
	peopleTable     string
	endpoint        string

	awsCfg    aws.Config
	ddbClient *dynamodb.Client
	testStore *store.Store
	testRepo  *character.Repository
)

// --- Test Setup & Teardown ---

func TestMain(m *testing.M) {
	// Generate unique test ID
	testID = uuid.New().String()[:8]
	charactersTable = fmt.Sprintf("%s-%s-characters", tablePrefix, testID)
	peopleTable = fmt.Sprintf("%s-%s-people", tablePrefix, testID)
	endpoint = os.Getenv("ARISTOTLE_E2E_ENDPOINT")

	fmt.Printf("Test ID: %s\n", testID)
	fmt.Printf("Tables:\n")
	fmt.Printf("  - Characters: %s\n", charactersTable)
	fmt.Printf("  - People: %s\n", peopleTable)

	ctx := context.Background()
	var err error
	awsCfg, err = config.LoadDefaultConfig(ctx)
	if err != nil {
		fmt.Printf("Failed to load AWS config: %v\n", err)
		os.Exit(1)
	}
	if awsCfg.Region == "" {
		awsCfg.Region = store.DefaultRegion
	}

	ddbClient = dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	// Create tables
	if err := createTables(ctx); err != nil {
		fmt.Printf("Failed to create tables: %v\n", err)
		os.Exit(1)
	}

	testStore = store.NewFromAWSConfig(awsCfg, store.Config{
		TableName: charactersTable,
		Endpoint:  endpoint,
	})
	testRepo = character.NewRepository(testStore, nil)

	// Run tests
	code := m.Run()

	// Cleanup tables
	if err := deleteTables(ctx); err != nil {
		fmt.Printf("Failed to delete tables: %v\n", err)
	}

	os.Exit(code)
}

func createTables(ctx context.Context) error {
	fmt.Println("Creating test tables...")

	keys := map[string]string{
		charactersTable: "character_id",
		peopleTable:     "ID",
	}
	for tableName, keyAttr := range keys {
		_, err := ddbClient.CreateTable(ctx, &dynamodb.CreateTableInput{
			TableName: aws.String(tableName),
			KeySchema: []types.KeySchemaElement{
				{AttributeName: aws.String(keyAttr), KeyType: types.KeyTypeHash},
			},
			AttributeDefinitions: []types.AttributeDefinition{
				{AttributeName: aws.String(keyAttr), AttributeType: types.ScalarAttributeTypeS},
			},
			BillingMode: types.BillingModePayPerRequest,
		})
		if err != nil {
			return fmt.Errorf("create table %s: %w", tableName, err)
		}
	}

	// Wait for all tables to be active
	for tableName := range keys {
		waiter := dynamodb.NewTableExistsWaiter(ddbClient)
		if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{
			TableName: aws.String(tableName),
		}, 2*time.Minute); err != nil {
			return fmt.Errorf("wait for table %s: %w", tableName, err)
		}
	}

	fmt.Println("All tables created and active")
	return nil
}

func deleteTables(ctx context.Context) error {
	fmt.Println("Deleting test tables...")

	for _, tableName := range []string{charactersTable, peopleTable} {
		_, err := ddbClient.DeleteTable(ctx, &dynamodb.DeleteTableInput{
			TableName: aws.String(tableName),
		})
		if err != nil {
			fmt.Printf("Warning: failed to delete table %s: %v\n", tableName, err)
		}
	}

	fmt.Println("Tables deleted")
	return nil
}

// --- Record Tests ---

func TestPutGet_RoundTrip(t *testing.T) {
	ctx := context.Background()
	id := uuid.New().String()

	rec := store.Record{
		"character_id": id,
		"name":         "Hamlet",
		"hamartia":     "indecision",
		"tags":         []any{"tragedy", "revenge"},
	}
	if err := testStore.PutRecord(ctx, rec); err != nil {
		t.Fatalf("PutRecord failed: %v", err)
	}

	item, found, err := testStore.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !found {
		t.Fatal("expected record to be found")
	}

	got, err := item.Record()
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if got["name"] != "Hamlet" {
		t.Errorf("expected name 'Hamlet', got %v", got["name"])
	}
	if got["hamartia"] != "indecision" {
		t.Errorf("expected hamartia 'indecision', got %v", got["hamartia"])
	}
}

func TestPut_Upsert(t *testing.T) {
	ctx := context.Background()
	id := uuid.New().String()

	if err := testStore.PutRecord(ctx, store.Record{"character_id": id, "name": "A", "hamartia": "pride"}); err != nil {
		t.Fatalf("first PutRecord failed: %v", err)
	}
	if err := testStore.PutRecord(ctx, store.Record{"character_id": id, "name": "B"}); err != nil {
		t.Fatalf("second PutRecord failed: %v", err)
	}

	item, found, err := testStore.Get(ctx, id)
	if err != nil || !found {
		t.Fatalf("Get failed: found=%v err=%v", found, err)
	}
	got, err := item.Record()
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if got["name"] != "B" {
		t.Errorf("expected name 'B', got %v", got["name"])
	}
	if _, ok := got["hamartia"]; ok {
		t.Error("expected hamartia to be removed by the replacing write")
	}
}

func TestGet_NotFound(t *testing.T) {
	_, found, err := testStore.Get(context.Background(), "nonexistent-"+uuid.New().String())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if found {
		t.Error("expected found to be false")
	}
}

// --- Character Tests ---

func TestExample_Hamlet(t *testing.T) {
	ctx := context.Background()

	for _, c := range character.Samples() {
		if err := testRepo.Put(ctx, c); err != nil {
			t.Fatalf("Put %s failed: %v", c.ID, err)
		}
	}

	hamlet, found, err := testRepo.Get(ctx, "hamlet")
	if err != nil || !found {
		t.Fatalf("Get failed: found=%v err=%v", found, err)
	}
	if hamlet.Hamartia != "indecision" {
		t.Errorf("expected hamartia 'indecision', got %q", hamlet.Hamartia)
	}

	all, err := testRepo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	ids := make(map[string]bool, len(all))
	for _, c := range all {
		ids[c.ID] = true
	}
	if !ids["hamlet"] || !ids["macbeth"] {
		t.Errorf("expected hamlet and macbeth in list, got %v", ids)
	}
}

func TestUpdate_Success(t *testing.T) {
	ctx := context.Background()
	id := uuid.New().String()

	if err := testRepo.Put(ctx, character.Character{ID: id, Name: "Oedipus", Phronesis: character.PhronesisHigh}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	updated, err := testRepo.Update(ctx, id, map[string]any{"phronesis": "low", "hamartia": "hubris"})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Phronesis != character.PhronesisLow || updated.Hamartia != "hubris" {
		t.Errorf("unexpected character after update: %+v", updated)
	}
	if updated.Name != "Oedipus" {
		t.Errorf("expected name preserved, got %q", updated.Name)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	_, err := testRepo.Update(context.Background(), "nonexistent-"+uuid.New().String(), map[string]any{"name": "X"})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected store.ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	id := uuid.New().String()

	if err := testRepo.Put(ctx, character.Character{ID: id}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := testRepo.Delete(ctx, id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, found, err := testRepo.Get(ctx, id); err != nil || found {
		t.Errorf("expected character gone: found=%v err=%v", found, err)
	}
}

func TestFindByHamartia(t *testing.T) {
	ctx := context.Background()
	hamartia := "flaw-" + testID

	var want []string
	for i := 0; i < 3; i++ {
		id := uuid.New().String()
		want = append(want, id)
		if err := testRepo.Put(ctx, character.Character{ID: id, Hamartia: hamartia}); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	found, err := testRepo.FindByHamartia(ctx, hamartia)
	if err != nil {
		t.Fatalf("FindByHamartia failed: %v", err)
	}
	var got []string
	for _, c := range found {
		got = append(got, c.ID)
	}
	sort.Strings(got)
	sort.Strings(want)
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

// --- Scan Tests ---

func TestList_PaginatedAndSegmented(t *testing.T) {
	ctx := context.Background()

	s := store.NewFromAWSConfig(awsCfg, store.Config{
		TableName:    charactersTable,
		Endpoint:     endpoint,
		ScanSegments: 4,
		PageSize:     2,
	})

	written := make(map[string]bool)
	for i := 0; i < 10; i++ {
		id := uuid.New().String()
		written[id] = true
		if err := s.PutRecord(ctx, store.Record{"character_id": id}); err != nil {
			t.Fatalf("PutRecord failed: %v", err)
		}
	}

	items, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	for _, item := range items {
		delete(written, item.Key("character_id"))
	}
	if len(written) != 0 {
		t.Errorf("expected every written record in the scan, missing %d", len(written))
	}
}

func TestScanPage_ReturnsContinuationKey(t *testing.T) {
	ctx := context.Background()

	s := store.NewFromAWSConfig(awsCfg, store.Config{
		TableName: charactersTable,
		Endpoint:  endpoint,
		PageSize:  1,
	})
	for i := 0; i < 2; i++ {
		if err := s.PutRecord(ctx, store.Record{"character_id": uuid.New().String()}); err != nil {
			t.Fatalf("PutRecord failed: %v", err)
		}
	}

	page, err := s.ScanPage(ctx, nil)
	if err != nil {
		t.Fatalf("ScanPage failed: %v", err)
	}
	if len(page.Items) != 1 {
		t.Errorf("expected 1 item, got %d", len(page.Items))
	}
	if page.LastKey == nil {
		t.Error("expected a continuation key")
	}
}

// --- Configuration Tests ---

func TestCustomKeyAttribute(t *testing.T) {
	ctx := context.Background()

	repo := character.NewRepository(store.NewFromAWSConfig(awsCfg, store.Config{
		TableName:    peopleTable,
		KeyAttribute: "ID",
		Endpoint:     endpoint,
	}), nil)

	if err := repo.Put(ctx, character.Character{ID: "001", Name: "Antigone"}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	c, found, err := repo.Get(ctx, "001")
	if err != nil || !found {
		t.Fatalf("Get failed: found=%v err=%v", found, err)
	}
	if c.Name != "Antigone" {
		t.Errorf("expected name 'Antigone', got %q", c.Name)
	}
}

// --- Error Tests ---

func TestTableNotFound(t *testing.T) {
	s := store.NewFromAWSConfig(awsCfg, store.Config{
		TableName: fmt.Sprintf("%s-%s-missing", tablePrefix, testID),
		Endpoint:  endpoint,
	})

	_, _, err := s.Get(context.Background(), "hamlet")
	if store.KindOf(err) != store.KindTableNotFound {
		t.Errorf("expected KindTableNotFound, got %v", err)
	}
	if !errors.Is(err, store.ErrTableNotFound) {
		t.Errorf("expected errors.Is ErrTableNotFound, got %v", err)
	}
}
