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

// TemplateRepository manages named, reusable PDF column layouts.
type TemplateRepository struct {
	store    *Store
	validate *validator.Validate
	logger   *zap.Logger
}

// NewTemplateRepository creates a new TemplateRepository.
func NewTemplateRepository(store *Store, validate *validator.Validate, logger *zap.Logger) *TemplateRepository {
	return &TemplateRepository{store: store, validate: validate, logger: logger}
}

// CreateTemplateInput carries the caller-supplied template fields.
type CreateTemplateInput struct {
	Name    string `validate:"required"`
	Columns []model.Column
}

// UpdateTemplateInput names the mutable fields. Nil fields are left untouched.
type UpdateTemplateInput struct {
	Name    *string
	Columns *[]model.Column
}

// Create stores a template under a generated id and returns the record.
func (r *TemplateRepository) Create(ctx context.Context, orgID string, in CreateTemplateInput) (*model.PDFTemplate, error) {
	if err := r.validate.Struct(in); err != nil {
		return nil, apperrors.NewValidationError("template name is required").WithCause(err)
	}

	rec := model.PDFTemplate{
		PK:         keys.OrgPK(orgID),
		SK:         keys.TemplateSK(uuid.NewString()),
		EntityType: model.TypePDFTemplate,
		Name:       in.Name,
		Columns:    in.Columns,
		CreatedAt:  nowRFC3339(),
	}

	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal template: %w", err)
	}
	if err := r.store.Put(ctx, item, nil); err != nil {
		return nil, fmt.Errorf("failed to create template: %w", err)
	}

	r.logger.Debug("Template created",
		zap.String("orgID", orgID),
		zap.String("templateID", rec.ID()),
	)
	return &rec, nil
}

// Get returns a template, or nil when absent.
func (r *TemplateRepository) Get(ctx context.Context, orgID, templateID string) (*model.PDFTemplate, error) {
	item, err := r.store.Get(ctx, keys.OrgPK(orgID), keys.TemplateSK(templateID))
	if err != nil {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	if item == nil {
		return nil, nil
	}
	return unmarshalTemplate(item)
}

// List returns all templates of the organization.
func (r *TemplateRepository) List(ctx context.Context, orgID string) ([]*model.PDFTemplate, error) {
	items, err := r.store.Query(ctx, Query{
		KeyAttr:    "PK",
		KeyValue:   keys.OrgPK(orgID),
		SortAttr:   "SK",
		SortPrefix: keys.TemplatePrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	records := make([]*model.PDFTemplate, 0, len(items))
	for _, item := range items {
		rec, err := unmarshalTemplate(item)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// Update merges the provided fields and stamps updated_at. Returns nil when
// the template is absent.
func (r *TemplateRepository) Update(ctx context.Context, orgID, templateID string, in UpdateTemplateInput) (*model.PDFTemplate, error) {
	set := map[string]any{}
	if in.Name != nil {
		set["name"] = *in.Name
	}
	if in.Columns != nil {
		set["columns"] = *in.Columns
	}
	if len(set) == 0 {
		return nil, apperrors.NewValidationError("no template fields to update")
	}
	set["updated_at"] = nowRFC3339()

	item, err := r.store.Update(ctx, keys.OrgPK(orgID), keys.TemplateSK(templateID), set, nil)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update template: %w", err)
	}
	return unmarshalTemplate(item)
}

// Delete removes a template. Deleting an absent template succeeds.
func (r *TemplateRepository) Delete(ctx context.Context, orgID, templateID string) error {
	if err := r.store.Delete(ctx, keys.OrgPK(orgID), keys.TemplateSK(templateID)); err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	return nil
}

func unmarshalTemplate(item Item) (*model.PDFTemplate, error) {
	var rec model.PDFTemplate
	if err := decodeItem(item, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal template: %w", err)
	}
	return &rec, nil
}
