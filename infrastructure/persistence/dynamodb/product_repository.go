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

// ProductRepository manages sellable products and keeps the family index
// projection (GSI2PK/GSI2SK) in lockstep with the family_id attribute.
type ProductRepository struct {
	store       *Store
	familyIndex string
	validate    *validator.Validate
	logger      *zap.Logger
}

// NewProductRepository creates a new ProductRepository. familyIndex is the
// name of the family-to-product secondary index.
func NewProductRepository(store *Store, familyIndex string, validate *validator.Validate, logger *zap.Logger) *ProductRepository {
	return &ProductRepository{store: store, familyIndex: familyIndex, validate: validate, logger: logger}
}

// CreateProductInput carries the caller-supplied product fields. FamilyID is
// optional; products without a family are simply absent from the family index.
type CreateProductInput struct {
	Name         string `validate:"required"`
	Price        float64
	FamilyID     *string
	CustomFields map[string]any
}

// UpdateProductInput names the mutable fields. Nil fields are left untouched.
// SetFamily distinguishes "leave the family alone" from "assign or clear it":
// when SetFamily is true and FamilyID is nil the product is detached and its
// index projection removed.
type UpdateProductInput struct {
	Name         *string
	Price        *float64
	CustomFields *map[string]any
	SetFamily    bool
	FamilyID     *string
}

// Create stores a product under a generated id and returns the record.
func (r *ProductRepository) Create(ctx context.Context, orgID string, in CreateProductInput) (*model.Product, error) {
	if err := r.validate.Struct(in); err != nil {
		return nil, apperrors.NewValidationError("product name is required").WithCause(err)
	}

	rec := model.Product{
		PK:           keys.OrgPK(orgID),
		SK:           keys.ProductSK(uuid.NewString()),
		EntityType:   model.TypeProduct,
		Name:         in.Name,
		Price:        model.MoneyFromFloat(in.Price),
		FamilyID:     in.FamilyID,
		CustomFields: model.SanitizeDocument(in.CustomFields),
	}
	if in.FamilyID != nil {
		rec.GSI2PK = keys.FamilyGSI2PK(*in.FamilyID)
		rec.GSI2SK = keys.ProductGSI2SK(rec.ID())
	}

	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal product: %w", err)
	}
	if err := r.store.Put(ctx, item, nil); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	r.logger.Debug("Product created",
		zap.String("orgID", orgID),
		zap.String("productID", rec.ID()),
		zap.Bool("inFamily", in.FamilyID != nil),
	)
	return &rec, nil
}

// Get returns a product, or nil when absent.
func (r *ProductRepository) Get(ctx context.Context, orgID, productID string) (*model.Product, error) {
	item, err := r.store.Get(ctx, keys.OrgPK(orgID), keys.ProductSK(productID))
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if item == nil {
		return nil, nil
	}
	return unmarshalProduct(item)
}

// List returns all products of the organization.
func (r *ProductRepository) List(ctx context.Context, orgID string) ([]*model.Product, error) {
	items, err := r.store.Query(ctx, Query{
		KeyAttr:    "PK",
		KeyValue:   keys.OrgPK(orgID),
		SortAttr:   "SK",
		SortPrefix: keys.ProductPrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return unmarshalProducts(items)
}

// ListByFamily returns the products assigned to one family, via the family
// index. The index spans every tenant, so results are filtered back down to
// the caller's partition.
func (r *ProductRepository) ListByFamily(ctx context.Context, orgID, familyID string) ([]*model.Product, error) {
	items, err := r.store.Query(ctx, Query{
		Index:       r.familyIndex,
		KeyAttr:     "GSI2PK",
		KeyValue:    keys.FamilyGSI2PK(familyID),
		FilterAttr:  "PK",
		FilterValue: keys.OrgPK(orgID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list products by family: %w", err)
	}
	return unmarshalProducts(items)
}

// Update merges the provided fields. A family change rewrites or removes the
// index projection in the same update. Returns nil when the product is absent.
func (r *ProductRepository) Update(ctx context.Context, orgID, productID string, in UpdateProductInput) (*model.Product, error) {
	set := map[string]any{}
	var remove []string

	if in.Name != nil {
		set["name"] = *in.Name
	}
	if in.Price != nil {
		set["price"] = model.MoneyFromFloat(*in.Price)
	}
	if in.CustomFields != nil {
		set["custom_fields"] = model.SanitizeDocument(*in.CustomFields)
	}
	if in.SetFamily {
		if in.FamilyID != nil {
			set["family_id"] = *in.FamilyID
			set["GSI2PK"] = keys.FamilyGSI2PK(*in.FamilyID)
			set["GSI2SK"] = keys.ProductGSI2SK(productID)
		} else {
			set["family_id"] = nil
			remove = append(remove, "GSI2PK", "GSI2SK")
		}
	}
	if len(set) == 0 {
		return nil, apperrors.NewValidationError("no product fields to update")
	}

	item, err := r.store.Update(ctx, keys.OrgPK(orgID), keys.ProductSK(productID), set, remove)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return unmarshalProduct(item)
}

// Delete removes a product. Deleting an absent product succeeds.
func (r *ProductRepository) Delete(ctx context.Context, orgID, productID string) error {
	if err := r.store.Delete(ctx, keys.OrgPK(orgID), keys.ProductSK(productID)); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

func unmarshalProduct(item Item) (*model.Product, error) {
	var rec model.Product
	if err := decodeItem(item, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal product: %w", err)
	}
	rec.CustomFields = model.ReviveDocument(rec.CustomFields)
	return &rec, nil
}

func unmarshalProducts(items []Item) ([]*model.Product, error) {
	records := make([]*model.Product, 0, len(items))
	for _, item := range items {
		rec, err := unmarshalProduct(item)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
