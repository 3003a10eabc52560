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

// FamilyRepository manages product families, keyed FAMILY#<family_id>.
type FamilyRepository struct {
	store    *Store
	validate *validator.Validate
	logger   *zap.Logger
}

// NewFamilyRepository creates a new FamilyRepository.
func NewFamilyRepository(store *Store, validate *validator.Validate, logger *zap.Logger) *FamilyRepository {
	return &FamilyRepository{store: store, validate: validate, logger: logger}
}

// CreateFamilyInput carries the caller-supplied family fields.
type CreateFamilyInput struct {
	Name         string `validate:"required"`
	DefaultItems []any
	BaseMargin   float64
}

// UpdateFamilyInput names the mutable family fields. Nil fields are left
// untouched.
type UpdateFamilyInput struct {
	Name         *string
	DefaultItems *[]any
	BaseMargin   *float64
}

// Create stores a family under a generated id and returns the record.
func (r *FamilyRepository) Create(ctx context.Context, orgID string, in CreateFamilyInput) (*model.ProductFamily, error) {
	if err := r.validate.Struct(in); err != nil {
		return nil, apperrors.NewValidationError("family name is required").WithCause(err)
	}

	family := model.ProductFamily{
		PK:           keys.OrgPK(orgID),
		SK:           keys.FamilySK(uuid.NewString()),
		EntityType:   model.TypeProductFamily,
		Name:         in.Name,
		DefaultItems: model.SanitizeList(in.DefaultItems),
		BaseMargin:   model.DecimalFromFloat(in.BaseMargin),
	}

	item, err := attributevalue.MarshalMap(family)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal family: %w", err)
	}
	if err := r.store.Put(ctx, item, nil); err != nil {
		return nil, fmt.Errorf("failed to create family: %w", err)
	}

	r.logger.Debug("Product family created",
		zap.String("orgID", orgID),
		zap.String("familyID", family.ID()),
	)
	return &family, nil
}

// Get returns a family, or nil when absent.
func (r *FamilyRepository) Get(ctx context.Context, orgID, familyID string) (*model.ProductFamily, error) {
	item, err := r.store.Get(ctx, keys.OrgPK(orgID), keys.FamilySK(familyID))
	if err != nil {
		return nil, fmt.Errorf("failed to get family: %w", err)
	}
	if item == nil {
		return nil, nil
	}
	return unmarshalFamily(item)
}

// List returns every family of the organization.
func (r *FamilyRepository) List(ctx context.Context, orgID string) ([]*model.ProductFamily, error) {
	items, err := r.store.Query(ctx, Query{
		KeyAttr:    "PK",
		KeyValue:   keys.OrgPK(orgID),
		SortAttr:   "SK",
		SortPrefix: keys.FamilyPrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list families: %w", err)
	}

	families := make([]*model.ProductFamily, 0, len(items))
	for _, item := range items {
		family, err := unmarshalFamily(item)
		if err != nil {
			return nil, err
		}
		families = append(families, family)
	}
	return families, nil
}

// Update merges the provided fields. Returns nil when the family is absent.
func (r *FamilyRepository) Update(ctx context.Context, orgID, familyID string, in UpdateFamilyInput) (*model.ProductFamily, error) {
	set := map[string]any{}
	if in.Name != nil {
		set["name"] = *in.Name
	}
	if in.DefaultItems != nil {
		set["default_items"] = model.SanitizeList(*in.DefaultItems)
	}
	if in.BaseMargin != nil {
		set["base_margin"] = model.DecimalFromFloat(*in.BaseMargin)
	}
	if len(set) == 0 {
		return nil, apperrors.NewValidationError("no family fields to update")
	}

	item, err := r.store.Update(ctx, keys.OrgPK(orgID), keys.FamilySK(familyID), set, nil)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update family: %w", err)
	}
	return unmarshalFamily(item)
}

// Delete removes a family. Deleting an absent family succeeds.
func (r *FamilyRepository) Delete(ctx context.Context, orgID, familyID string) error {
	if err := r.store.Delete(ctx, keys.OrgPK(orgID), keys.FamilySK(familyID)); err != nil {
		return fmt.Errorf("failed to delete family: %w", err)
	}
	return nil
}

func unmarshalFamily(item Item) (*model.ProductFamily, error) {
	var family model.ProductFamily
	if err := decodeItem(item, &family); err != nil {
		return nil, fmt.Errorf("failed to unmarshal family: %w", err)
	}
	family.DefaultItems = model.ReviveList(family.DefaultItems)
	return &family, nil
}
