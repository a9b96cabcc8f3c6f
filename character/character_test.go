package character_test

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/jacentio/aristotle/character"
	"github.com/jacentio/aristotle/internal/fakedynamo"
	"github.com/jacentio/aristotle/store"
)

func newTestRepository(t *testing.T, cfg store.Config) (*character.Repository, *fakedynamo.Client) {
	t.Helper()
	fake := fakedynamo.New()
	s := store.New(fake, cfg)
	fake.CreateTable(s.Config().TableName, s.Config().KeyAttribute)
	return character.NewRepository(s, nil), fake
}

func ids(characters []character.Character) []string {
	out := make([]string, 0, len(characters))
	for _, c := range characters {
		out = append(out, c.ID)
	}
	sort.Strings(out)
	return out
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		c       character.Character
		wantErr bool
	}{
		{"minimal", character.Character{ID: "hamlet"}, false},
		{"full", character.Samples()[0], false},
		{"missing id", character.Character{Name: "Hamlet"}, true},
		{"bad phronesis", character.Character{ID: "hamlet", Phronesis: "extreme"}, true},
		{"bad trajectory", character.Character{ID: "hamlet", PhronesisTrajectory: "sideways"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.c.Validate()
			if tt.wantErr {
				if !errors.Is(err, character.ErrInvalid) {
					t.Errorf("expected ErrInvalid, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	if got := (character.Character{ID: "hamlet", Name: "Hamlet"}).DisplayName(); got != "Hamlet" {
		t.Errorf("expected 'Hamlet', got %q", got)
	}
	if got := (character.Character{ID: "yorick"}).DisplayName(); got != "yorick" {
		t.Errorf("expected 'yorick', got %q", got)
	}
}

func TestSamples(t *testing.T) {
	samples := character.Samples()
	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(samples))
	}
	for _, c := range samples {
		if err := c.Validate(); err != nil {
			t.Errorf("sample %s invalid: %v", c.ID, err)
		}
	}
}

func TestRepository_PutGet(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository(t, store.DefaultConfig())
	want := character.Samples()[0]

	if err := repo.Put(ctx, want); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, found, err := repo.Get(ctx, "hamlet")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !found {
		t.Fatal("expected character to be found")
	}
	if got.Name != want.Name || got.Hamartia != want.Hamartia || got.Phronesis != want.Phronesis {
		t.Errorf("expected %+v, got %+v", want, got)
	}
	if len(got.Tags) != len(want.Tags) {
		t.Errorf("expected %d tags, got %d", len(want.Tags), len(got.Tags))
	}
}

func TestRepository_PutInvalid(t *testing.T) {
	repo, fake := newTestRepository(t, store.DefaultConfig())

	err := repo.Put(context.Background(), character.Character{ID: "hamlet", Phronesis: "extreme"})
	if !errors.Is(err, character.ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
	if calls := fake.Calls("PutItem"); calls != 0 {
		t.Errorf("expected no PutItem calls, got %d", calls)
	}
}

func TestRepository_GetNotFound(t *testing.T) {
	repo, _ := newTestRepository(t, store.DefaultConfig())

	_, found, err := repo.Get(context.Background(), "yorick")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if found {
		t.Error("expected found to be false")
	}
}

func TestRepository_CustomKeyAttribute(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository(t, store.Config{TableName: "People", KeyAttribute: "ID"})

	if err := repo.Put(ctx, character.Character{ID: "001", Name: "Hamlet", Hamartia: "indecision"}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	item, found, err := repo.Store().Get(ctx, "001")
	if err != nil || !found {
		t.Fatalf("raw Get failed: found=%v err=%v", found, err)
	}
	if _, ok := item.Raw["character_id"]; ok {
		t.Error("expected character_id to be mapped onto the table key")
	}

	c, found, err := repo.Get(ctx, "001")
	if err != nil || !found {
		t.Fatalf("Get failed: found=%v err=%v", found, err)
	}
	if c.ID != "001" || c.Name != "Hamlet" {
		t.Errorf("unexpected character %+v", c)
	}
}

func TestRepository_List(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository(t, store.DefaultConfig())

	for _, c := range character.Samples() {
		if err := repo.Put(ctx, c); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if got := ids(all); len(got) != 2 || got[0] != "hamlet" || got[1] != "macbeth" {
		t.Errorf("expected [hamlet macbeth], got %v", got)
	}
}

func TestRepository_Page(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository(t, store.Config{PageSize: 1})

	for _, c := range character.Samples() {
		if err := repo.Put(ctx, c); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	first, next, err := repo.Page(ctx, nil)
	if err != nil {
		t.Fatalf("Page failed: %v", err)
	}
	if len(first) != 1 || next == nil {
		t.Fatalf("expected one character and a continuation key, got %d and %v", len(first), next)
	}

	second, next, err := repo.Page(ctx, next)
	if err != nil {
		t.Fatalf("second Page failed: %v", err)
	}
	if len(second) != 1 || next != nil {
		t.Errorf("expected final page of one, got %d and %v", len(second), next)
	}
	if first[0].ID == second[0].ID {
		t.Errorf("expected distinct characters, got %q twice", first[0].ID)
	}
}

func TestRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository(t, store.DefaultConfig())

	if err := repo.Put(ctx, character.Samples()[0]); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	updated, err := repo.Update(ctx, "hamlet", map[string]any{
		"phronesis": "high",
		"tags":      []string{"tragedy"},
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Phronesis != character.PhronesisHigh {
		t.Errorf("expected phronesis high, got %q", updated.Phronesis)
	}
	if len(updated.Tags) != 1 || updated.Tags[0] != "tragedy" {
		t.Errorf("expected tags [tragedy], got %v", updated.Tags)
	}
	if updated.Hamartia != "indecision" {
		t.Errorf("expected hamartia preserved, got %q", updated.Hamartia)
	}
}

func TestRepository_UpdateInvalid(t *testing.T) {
	ctx := context.Background()
	repo, fake := newTestRepository(t, store.DefaultConfig())

	_, err := repo.Update(ctx, "hamlet", map[string]any{"phronesis": "extreme"})
	if !errors.Is(err, character.ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
	if calls := fake.Calls("UpdateItem"); calls != 0 {
		t.Errorf("expected no UpdateItem calls, got %d", calls)
	}
}

func TestRepository_UpdateNotFound(t *testing.T) {
	repo, _ := newTestRepository(t, store.DefaultConfig())

	_, err := repo.Update(context.Background(), "yorick", map[string]any{"name": "Yorick"})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected store.ErrNotFound, got %v", err)
	}
}

func TestRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo, fake := newTestRepository(t, store.DefaultConfig())

	if err := repo.Put(ctx, character.Samples()[1]); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := repo.Delete(ctx, "macbeth"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if n := fake.Len("characters"); n != 0 {
		t.Errorf("expected empty table, got %d items", n)
	}
}

func TestRepository_Find(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository(t, store.DefaultConfig())

	characters := append(character.Samples(),
		character.Character{ID: "lady-macbeth", Hamartia: "ambition", Phronesis: character.PhronesisMedium},
	)
	for _, c := range characters {
		if err := repo.Put(ctx, c); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	ambitious, err := repo.FindByHamartia(ctx, "ambition")
	if err != nil {
		t.Fatalf("FindByHamartia failed: %v", err)
	}
	if got := ids(ambitious); len(got) != 2 || got[0] != "lady-macbeth" || got[1] != "macbeth" {
		t.Errorf("expected [lady-macbeth macbeth], got %v", got)
	}

	medium, err := repo.FindByPhronesis(ctx, character.PhronesisMedium)
	if err != nil {
		t.Fatalf("FindByPhronesis failed: %v", err)
	}
	if got := ids(medium); len(got) != 2 || got[0] != "hamlet" || got[1] != "lady-macbeth" {
		t.Errorf("expected [hamlet lady-macbeth], got %v", got)
	}
}

func TestRepository_TableNotFound(t *testing.T) {
	s := store.New(fakedynamo.New(), store.DefaultConfig())
	repo := character.NewRepository(s, nil)

	_, err := repo.List(context.Background())
	if store.KindOf(err) != store.KindTableNotFound {
		t.Errorf("expected KindTableNotFound, got %v", err)
	}
}
