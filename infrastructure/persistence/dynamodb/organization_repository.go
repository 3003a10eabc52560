package dynamodb

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"quotely-backend/domain/keys"
	"quotely-backend/domain/model"
	apperrors "quotely-backend/pkg/errors"
)

// OrganizationRepository manages tenant records and the name-uniqueness
// protocol. Creation writes the lookup item and the metadata item in one
// transaction; the lookup put is conditional on the slug not existing, so
// concurrent creators of the same name have exactly one winner.
type OrganizationRepository struct {
	store  *Store
	logger *zap.Logger
}

// NewOrganizationRepository creates a new OrganizationRepository.
func NewOrganizationRepository(store *Store, logger *zap.Logger) *OrganizationRepository {
	return &OrganizationRepository{
		store:  store,
		logger: logger,
	}
}

// UpdateOrganizationInput names the mutable metadata fields. Nil fields are
// left untouched.
type UpdateOrganizationInput struct {
	Name          *string
	LogoURL       *string
	ContactNumber *string
	Email         *string
	Address       *string
}

// Create registers an organization and returns its id. Creation is
// idempotent per name: when the name is already taken, the existing
// organization's id is returned instead of an error.
func (r *OrganizationRepository) Create(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperrors.NewValidationError("organization name is required")
	}

	orgID := uuid.NewString()
	slug := keys.Slugify(name)

	lookup := model.OrgLookup{
		PK:    keys.OrgNamePK(slug),
		SK:    keys.OrgLookupSK,
		OrgID: orgID,
		Name:  name,
	}
	org := model.Organization{
		PK:        keys.OrgPK(orgID),
		SK:        keys.OrgMetadataSK,
		Name:      name,
		Slug:      slug,
		CreatedAt: nowRFC3339(),
	}

	lookupItem, err := attributevalue.MarshalMap(lookup)
	if err != nil {
		return "", fmt.Errorf("failed to marshal organization lookup: %w", err)
	}
	orgItem, err := attributevalue.MarshalMap(org)
	if err != nil {
		return "", fmt.Errorf("failed to marshal organization: %w", err)
	}

	err = r.store.TransactWrite(ctx, []TransactOp{
		{Put: &TransactPut{Item: lookupItem, Condition: aws.String("attribute_not_exists(PK)")}},
		{Put: &TransactPut{Item: orgItem}},
	})
	if err == nil {
		r.logger.Info("Organization created",
			zap.String("orgID", orgID),
			zap.String("slug", slug),
		)
		return orgID, nil
	}

	if IsTransactionCancelled(err) {
		// Lost the name race: the lookup item is immutable, so the winner's
		// id is authoritative.
		existingID, resolveErr := r.ResolveIDByName(ctx, name)
		if resolveErr != nil {
			return "", fmt.Errorf("failed to resolve organization after name conflict: %w", resolveErr)
		}
		if existingID == "" {
			return "", apperrors.NewConflictError(
				fmt.Sprintf("organization name %q is taken but its lookup record is missing", name),
			).WithCause(err)
		}
		r.logger.Info("Organization name already registered, returning existing id",
			zap.String("orgID", existingID),
			zap.String("slug", slug),
		)
		return existingID, nil
	}

	return "", fmt.Errorf("failed to create organization: %w", err)
}

// ResolveIDByName returns the org id registered for a name, or "" when the
// name is unclaimed.
func (r *OrganizationRepository) ResolveIDByName(ctx context.Context, name string) (string, error) {
	item, err := r.store.Get(ctx, keys.OrgNamePK(keys.Slugify(name)), keys.OrgLookupSK)
	if err != nil {
		return "", fmt.Errorf("failed to get organization lookup: %w", err)
	}
	if item == nil {
		return "", nil
	}

	var lookup model.OrgLookup
	if err := decodeItem(item, &lookup); err != nil {
		return "", fmt.Errorf("failed to unmarshal organization lookup: %w", err)
	}
	return lookup.OrgID, nil
}

// Get returns the organization metadata, or nil when the id is unknown.
func (r *OrganizationRepository) Get(ctx context.Context, orgID string) (*model.Organization, error) {
	item, err := r.store.Get(ctx, keys.OrgPK(orgID), keys.OrgMetadataSK)
	if err != nil {
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	if item == nil {
		return nil, nil
	}

	var org model.Organization
	if err := decodeItem(item, &org); err != nil {
		return nil, fmt.Errorf("failed to unmarshal organization: %w", err)
	}
	return &org, nil
}

// Update merges the provided metadata fields. The name in the lookup item is
// deliberately untouched: the slug registered at creation stays the
// uniqueness anchor.
func (r *OrganizationRepository) Update(ctx context.Context, orgID string, in UpdateOrganizationInput) (*model.Organization, error) {
	set := map[string]any{}
	if in.Name != nil {
		set["name"] = *in.Name
	}
	if in.LogoURL != nil {
		set["logo_url"] = *in.LogoURL
	}
	if in.ContactNumber != nil {
		set["contact_number"] = *in.ContactNumber
	}
	if in.Email != nil {
		set["email"] = *in.Email
	}
	if in.Address != nil {
		set["address"] = *in.Address
	}
	if len(set) == 0 {
		return nil, apperrors.NewValidationError("no organization fields to update")
	}

	item, err := r.store.Update(ctx, keys.OrgPK(orgID), keys.OrgMetadataSK, set, nil)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update organization: %w", err)
	}

	var org model.Organization
	if err := decodeItem(item, &org); err != nil {
		return nil, fmt.Errorf("failed to unmarshal organization: %w", err)
	}
	return &org, nil
}
