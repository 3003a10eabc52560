package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"quotely-backend/domain/keys"
	"quotely-backend/domain/model"
	apperrors "quotely-backend/pkg/errors"
)

// QuotationRepository manages quotation documents: the denormalized customer
// and total fields, the nested line-item snapshot, the per-user index
// projection, and the draft/finalized lifecycle.
type QuotationRepository struct {
	store     *Store
	orgs      *OrganizationRepository
	userIndex string
	validate  *validator.Validate
	logger    *zap.Logger
}

// NewQuotationRepository creates a new QuotationRepository. userIndex is the
// name of the user-to-quotation secondary index.
func NewQuotationRepository(store *Store, orgs *OrganizationRepository, userIndex string, validate *validator.Validate, logger *zap.Logger) *QuotationRepository {
	return &QuotationRepository{store: store, orgs: orgs, userIndex: userIndex, validate: validate, logger: logger}
}

// CreateQuotationInput carries the caller-supplied quotation fields. Snapshot
// is the full line-item document as assembled by the client.
type CreateQuotationInput struct {
	CreatedBy     string `validate:"required"`
	CustomerName  string `validate:"required"`
	CustomerID    string
	CustomerEmail string
	CustomerPhone string
	TotalAmount   float64
	Snapshot      map[string]any
}

// UpdateQuotationInput names the mutable fields. Nil fields are left
// untouched. Any successful update resets the document to draft; the stored
// PDF link, if one exists, describes a stale rendering until the document is
// finalized again.
type UpdateQuotationInput struct {
	CustomerName  *string
	CustomerID    *string
	CustomerEmail *string
	CustomerPhone *string
	TotalAmount   *float64
	Snapshot      *map[string]any
}

// Create stores a new draft quotation and returns the record. The display id
// is derived from the customer name and the creation timestamp.
func (r *QuotationRepository) Create(ctx context.Context, orgID string, in CreateQuotationInput) (*model.Quotation, error) {
	if err := r.validate.Struct(in); err != nil {
		return nil, apperrors.NewValidationError("creator and customer name are required").WithCause(err)
	}

	now := time.Now().UTC()
	quoteID := uuid.NewString()
	rec := model.Quotation{
		PK:            keys.OrgPK(orgID),
		SK:            keys.QuoteSK(quoteID),
		EntityType:    model.TypeQuotation,
		CreatedBy:     in.CreatedBy,
		Status:        model.StatusDraft,
		Snapshot:      model.SanitizeDocument(in.Snapshot),
		DisplayID:     model.QuotationDisplayID(in.CustomerName, now),
		CustomerName:  in.CustomerName,
		CustomerID:    in.CustomerID,
		CustomerEmail: in.CustomerEmail,
		CustomerPhone: in.CustomerPhone,
		TotalAmount:   model.MoneyFromFloat(in.TotalAmount),
		CreatedAt:     now.Format(time.RFC3339),
		S3PDFLink:     nil,
		GSI1PK:        keys.UserGSI1PK(in.CreatedBy),
		GSI1SK:        keys.QuoteGSI1SK(quoteID),
	}

	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal quotation: %w", err)
	}
	if err := r.store.Put(ctx, item, nil); err != nil {
		return nil, fmt.Errorf("failed to create quotation: %w", err)
	}

	r.logger.Debug("Quotation created",
		zap.String("orgID", orgID),
		zap.String("quoteID", quoteID),
		zap.String("createdBy", in.CreatedBy),
	)
	return &rec, nil
}

// Get returns a quotation, or nil when absent.
func (r *QuotationRepository) Get(ctx context.Context, orgID, quoteID string) (*model.Quotation, error) {
	item, err := r.store.Get(ctx, keys.OrgPK(orgID), keys.QuoteSK(quoteID))
	if err != nil {
		return nil, fmt.Errorf("failed to get quotation: %w", err)
	}
	if item == nil {
		return nil, nil
	}
	return unmarshalQuotation(item)
}

// ListByUser returns the quotations one user authored inside one
// organization, via the user index. The index spans every tenant, so results
// are filtered back down to the caller's partition.
func (r *QuotationRepository) ListByUser(ctx context.Context, orgID, userID string) ([]*model.Quotation, error) {
	items, err := r.store.Query(ctx, Query{
		Index:       r.userIndex,
		KeyAttr:     "GSI1PK",
		KeyValue:    keys.UserGSI1PK(userID),
		SortAttr:    "GSI1SK",
		SortPrefix:  keys.QuotePrefix,
		FilterAttr:  "PK",
		FilterValue: keys.OrgPK(orgID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list quotations by user: %w", err)
	}
	return unmarshalQuotations(items)
}

// ListByOrg returns every quotation of the organization regardless of author.
func (r *QuotationRepository) ListByOrg(ctx context.Context, orgID string) ([]*model.Quotation, error) {
	items, err := r.store.Query(ctx, Query{
		KeyAttr:    "PK",
		KeyValue:   keys.OrgPK(orgID),
		SortAttr:   "SK",
		SortPrefix: keys.QuotePrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list quotations: %w", err)
	}
	return unmarshalQuotations(items)
}

// Update merges the provided fields and resets the document to draft.
// Returns nil when the quotation is absent.
func (r *QuotationRepository) Update(ctx context.Context, orgID, quoteID string, in UpdateQuotationInput) (*model.Quotation, error) {
	set := map[string]any{}
	if in.CustomerName != nil {
		set["customer_name"] = *in.CustomerName
	}
	if in.CustomerID != nil {
		set["customer_id"] = *in.CustomerID
	}
	if in.CustomerEmail != nil {
		set["customer_email"] = *in.CustomerEmail
	}
	if in.CustomerPhone != nil {
		set["customer_phone"] = *in.CustomerPhone
	}
	if in.TotalAmount != nil {
		set["total_amount"] = model.MoneyFromFloat(*in.TotalAmount)
	}
	if in.Snapshot != nil {
		set["snapshot"] = model.SanitizeDocument(*in.Snapshot)
	}
	if len(set) == 0 {
		return nil, apperrors.NewValidationError("no quotation fields to update")
	}
	set["status"] = model.StatusDraft

	item, err := r.store.Update(ctx, keys.OrgPK(orgID), keys.QuoteSK(quoteID), set, nil)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update quotation: %w", err)
	}
	return unmarshalQuotation(item)
}

// SetPDFLink records the stored PDF location and finalizes the quotation.
// Returns nil when the quotation is absent.
func (r *QuotationRepository) SetPDFLink(ctx context.Context, orgID, quoteID, link string) (*model.Quotation, error) {
	set := map[string]any{
		"s3_pdf_link": link,
		"status":      model.StatusFinalized,
	}
	item, err := r.store.Update(ctx, keys.OrgPK(orgID), keys.QuoteSK(quoteID), set, nil)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to set quotation pdf link: %w", err)
	}

	r.logger.Info("Quotation finalized",
		zap.String("orgID", orgID),
		zap.String("quoteID", quoteID),
	)
	return unmarshalQuotation(item)
}

// Delete removes a quotation. Deleting an absent quotation succeeds.
func (r *QuotationRepository) Delete(ctx context.Context, orgID, quoteID string) error {
	if err := r.store.Delete(ctx, keys.OrgPK(orgID), keys.QuoteSK(quoteID)); err != nil {
		return fmt.Errorf("failed to delete quotation: %w", err)
	}
	return nil
}

// RenderData assembles what an external PDF renderer needs: the quotation's
// snapshot plus the organization's display name. Returns nil when the
// quotation is absent.
func (r *QuotationRepository) RenderData(ctx context.Context, orgID, quoteID string) (*model.RenderData, error) {
	quote, err := r.Get(ctx, orgID, quoteID)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, nil
	}

	orgName := orgID
	org, err := r.orgs.Get(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if org != nil {
		orgName = org.Name
	}

	return &model.RenderData{
		OrgName:  orgName,
		Quote:    quote,
		Snapshot: quote.Snapshot,
	}, nil
}

func unmarshalQuotation(item Item) (*model.Quotation, error) {
	var rec model.Quotation
	if err := decodeItem(item, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal quotation: %w", err)
	}
	rec.Snapshot = model.ReviveDocument(rec.Snapshot)
	return &rec, nil
}

func unmarshalQuotations(items []Item) ([]*model.Quotation, error) {
	records := make([]*model.Quotation, 0, len(items))
	for _, item := range items {
		rec, err := unmarshalQuotation(item)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
