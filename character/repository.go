package character

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/aristotle/store"
)

// idAttr is the attribute Character.ID marshals to.
const idAttr = "character_id"

// Repository stores Characters through a store.Store. When the table's key
// attribute is not "character_id", the ID is mapped onto it.
type Repository struct {
	store  *store.Store
	logger *slog.Logger
}

// NewRepository creates a Repository. A nil logger uses slog.Default().
func NewRepository(s *store.Store, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		store:  s,
		logger: logger,
	}
}

// Store returns the underlying record store.
func (r *Repository) Store() *store.Store {
	return r.store
}

// Put validates c and stores it, replacing any character with the same ID.
func (r *Repository) Put(ctx context.Context, c Character) error {
	if err := c.Validate(); err != nil {
		return err
	}
	item, err := r.toItem(c)
	if err != nil {
		return err
	}
	if err := r.store.Put(ctx, item); err != nil {
		return err
	}

	r.logger.InfoContext(ctx, "character stored", "id", c.ID, "name", c.Name)
	return nil
}

// Get returns the character with the given ID. found is false when none exists.
func (r *Repository) Get(ctx context.Context, id string) (c Character, found bool, err error) {
	item, found, err := r.store.Get(ctx, id)
	if err != nil || !found {
		return Character{}, found, err
	}
	c, err = r.fromItem(item)
	if err != nil {
		return Character{}, false, err
	}
	return c, true, nil
}

// List returns every character in the table, in scan order.
func (r *Repository) List(ctx context.Context) ([]Character, error) {
	items, err := r.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return r.fromItems(items)
}

// Page returns one scan page of characters starting after startKey, and the
// key to continue from (nil when the table is exhausted).
func (r *Repository) Page(ctx context.Context, startKey store.PK) ([]Character, store.PK, error) {
	page, err := r.store.ScanPage(ctx, startKey)
	if err != nil {
		return nil, nil, err
	}
	characters, err := r.fromItems(page.Items)
	if err != nil {
		return nil, nil, err
	}
	return characters, page.LastKey, nil
}

// Delete removes the character with the given ID.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, id); err != nil {
		return err
	}
	r.logger.InfoContext(ctx, "character deleted", "id", id)
	return nil
}

// Update sets the given fields, keyed by attribute name (e.g. "hamartia"),
// on an existing character and returns the result. The ID cannot be changed.
// Returns store.ErrNotFound when no character has the ID.
func (r *Repository) Update(ctx context.Context, id string, fields map[string]any) (Character, error) {
	avs := make(map[string]types.AttributeValue, len(fields))
	for name, value := range fields {
		if name == idAttr {
			continue
		}
		av, err := attributevalue.Marshal(value)
		if err != nil {
			return Character{}, fmt.Errorf("marshal %s: %w", name, err)
		}
		avs[name] = av
	}

	// Validate the enumerated fields before writing them
	var partial Character
	if err := attributevalue.UnmarshalMap(avs, &partial); err != nil {
		return Character{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	partial.ID = id
	if err := partial.Validate(); err != nil {
		return Character{}, err
	}

	item, err := r.store.Update(ctx, id, avs)
	if err != nil {
		return Character{}, err
	}

	r.logger.InfoContext(ctx, "character updated", "id", id, "fields", len(avs))
	return r.fromItem(item)
}

// FindByHamartia returns the characters whose hamartia equals hamartia.
func (r *Repository) FindByHamartia(ctx context.Context, hamartia string) ([]Character, error) {
	return r.find(ctx, "hamartia", hamartia)
}

// FindByPhronesis returns the characters with the given phronesis level.
func (r *Repository) FindByPhronesis(ctx context.Context, level PhronesisLevel) ([]Character, error) {
	return r.find(ctx, "phronesis", string(level))
}

func (r *Repository) find(ctx context.Context, attr, value string) ([]Character, error) {
	items, err := r.store.Find(ctx, attr, &types.AttributeValueMemberS{Value: value})
	if err != nil {
		return nil, err
	}
	return r.fromItems(items)
}

// toItem marshals c, placing the ID under the table's key attribute.
func (r *Repository) toItem(c Character) (map[string]types.AttributeValue, error) {
	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return nil, fmt.Errorf("marshal character: %w", err)
	}
	if keyAttr := r.store.Config().KeyAttribute; keyAttr != idAttr {
		item[keyAttr] = item[idAttr]
		delete(item, idAttr)
	}
	return item, nil
}

// fromItem decodes an item, reading the ID from the table's key attribute.
func (r *Repository) fromItem(item *store.Item) (Character, error) {
	var c Character
	if err := item.Decode(&c); err != nil {
		return Character{}, err
	}
	if keyAttr := r.store.Config().KeyAttribute; keyAttr != idAttr {
		c.ID = item.Key(keyAttr)
	}
	return c, nil
}

func (r *Repository) fromItems(items []*store.Item) ([]Character, error) {
	characters := make([]Character, 0, len(items))
	for _, item := range items {
		c, err := r.fromItem(item)
		if err != nil {
			return nil, err
		}
		characters = append(characters, c)
	}
	return characters, nil
}
