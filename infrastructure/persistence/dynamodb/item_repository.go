package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"quotely-backend/domain/keys"
	"quotely-backend/domain/model"
	apperrors "quotely-backend/pkg/errors"
)

// ItemRepository manages master catalog items. The category lives inside the
// sort key (ITEM#<category>#<item_id>) so one category is a contiguous
// begins_with range on the primary table, no index needed.
type ItemRepository struct {
	store    *Store
	validate *validator.Validate
	logger   *zap.Logger
}

// NewItemRepository creates a new ItemRepository.
func NewItemRepository(store *Store, validate *validator.Validate, logger *zap.Logger) *ItemRepository {
	return &ItemRepository{store: store, validate: validate, logger: logger}
}

// CreateItemInput carries the caller-supplied master item fields.
type CreateItemInput struct {
	Name      string `validate:"required"`
	Category  string `validate:"required"`
	UnitPrice float64
	UnitType  string
}

// UpdateItemInput names the mutable fields. Nil fields are left untouched.
// Category updates change the attribute only; the key segment written at
// creation keeps the item in its original range.
type UpdateItemInput struct {
	Name      *string
	Category  *string
	UnitPrice *float64
	UnitType  *string
}

// Create stores a master item under a generated id and returns the record.
func (r *ItemRepository) Create(ctx context.Context, orgID string, in CreateItemInput) (*model.MasterItem, error) {
	if err := r.validate.Struct(in); err != nil {
		return nil, apperrors.NewValidationError("item name and category are required").WithCause(err)
	}

	rec := model.MasterItem{
		PK:         keys.OrgPK(orgID),
		SK:         keys.ItemSK(in.Category, uuid.NewString()),
		EntityType: model.TypeMasterItem,
		Name:       in.Name,
		Category:   in.Category,
		UnitPrice:  model.MoneyFromFloat(in.UnitPrice),
		UnitType:   in.UnitType,
	}

	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal master item: %w", err)
	}
	if err := r.store.Put(ctx, item, nil); err != nil {
		return nil, fmt.Errorf("failed to create master item: %w", err)
	}

	r.logger.Debug("Master item created",
		zap.String("orgID", orgID),
		zap.String("category", in.Category),
		zap.String("itemID", rec.ID()),
	)
	return &rec, nil
}

// Get returns a master item, or nil when absent.
func (r *ItemRepository) Get(ctx context.Context, orgID, category, itemID string) (*model.MasterItem, error) {
	item, err := r.store.Get(ctx, keys.OrgPK(orgID), keys.ItemSK(category, itemID))
	if err != nil {
		return nil, fmt.Errorf("failed to get master item: %w", err)
	}
	if item == nil {
		return nil, nil
	}
	return unmarshalMasterItem(item)
}

// List returns master items, confined to one category when category is
// non-empty.
func (r *ItemRepository) List(ctx context.Context, orgID, category string) ([]*model.MasterItem, error) {
	prefix := keys.ItemPrefix
	if category != "" {
		prefix = keys.ItemCategoryPrefix(category)
	}

	items, err := r.store.Query(ctx, Query{
		KeyAttr:    "PK",
		KeyValue:   keys.OrgPK(orgID),
		SortAttr:   "SK",
		SortPrefix: prefix,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list master items: %w", err)
	}

	records := make([]*model.MasterItem, 0, len(items))
	for _, item := range items {
		rec, err := unmarshalMasterItem(item)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// Update merges the provided fields. Returns nil when the item is absent.
func (r *ItemRepository) Update(ctx context.Context, orgID, category, itemID string, in UpdateItemInput) (*model.MasterItem, error) {
	set := map[string]any{}
	if in.Name != nil {
		set["name"] = *in.Name
	}
	if in.Category != nil {
		set["category"] = *in.Category
	}
	if in.UnitPrice != nil {
		set["unit_price"] = model.MoneyFromFloat(*in.UnitPrice)
	}
	if in.UnitType != nil {
		set["unit_type"] = *in.UnitType
	}
	if len(set) == 0 {
		return nil, apperrors.NewValidationError("no item fields to update")
	}

	item, err := r.store.Update(ctx, keys.OrgPK(orgID), keys.ItemSK(category, itemID), set, nil)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update master item: %w", err)
	}
	return unmarshalMasterItem(item)
}

// Delete removes a master item. Deleting an absent item succeeds.
func (r *ItemRepository) Delete(ctx context.Context, orgID, category, itemID string) error {
	if err := r.store.Delete(ctx, keys.OrgPK(orgID), keys.ItemSK(category, itemID)); err != nil {
		return fmt.Errorf("failed to delete master item: %w", err)
	}
	return nil
}

func unmarshalMasterItem(item Item) (*model.MasterItem, error) {
	var rec model.MasterItem
	if err := decodeItem(item, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal master item: %w", err)
	}
	return &rec, nil
}
