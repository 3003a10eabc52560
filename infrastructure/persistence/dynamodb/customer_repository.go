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

// CustomerRepository manages tenant-scoped customer contact records.
type CustomerRepository struct {
	store    *Store
	validate *validator.Validate
	logger   *zap.Logger
}

// NewCustomerRepository creates a new CustomerRepository.
func NewCustomerRepository(store *Store, validate *validator.Validate, logger *zap.Logger) *CustomerRepository {
	return &CustomerRepository{store: store, validate: validate, logger: logger}
}

// CreateCustomerInput carries the caller-supplied customer fields.
type CreateCustomerInput struct {
	Name    string `validate:"required"`
	Email   string
	Phone   string
	Address string
}

// UpdateCustomerInput names the mutable fields. Nil fields are left
// untouched. The customer identifier is fixed at creation.
type UpdateCustomerInput struct {
	Name    *string
	Email   *string
	Phone   *string
	Address *string
}

// Create stores a customer under a generated id and returns the record.
func (r *CustomerRepository) Create(ctx context.Context, orgID string, in CreateCustomerInput) (*model.Customer, error) {
	if err := r.validate.Struct(in); err != nil {
		return nil, apperrors.NewValidationError("customer name is required").WithCause(err)
	}

	rec := model.Customer{
		PK:                 keys.OrgPK(orgID),
		SK:                 keys.CustomerSK(uuid.NewString()),
		EntityType:         model.TypeCustomer,
		Name:               in.Name,
		Email:              in.Email,
		Phone:              in.Phone,
		Address:            in.Address,
		CustomerIdentifier: model.CustomerIdentifier(in.Name, in.Phone),
		CreatedAt:          nowRFC3339(),
	}

	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal customer: %w", err)
	}
	if err := r.store.Put(ctx, item, nil); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	r.logger.Debug("Customer created",
		zap.String("orgID", orgID),
		zap.String("customerID", rec.ID()),
	)
	return &rec, nil
}

// Get returns a customer, or nil when absent.
func (r *CustomerRepository) Get(ctx context.Context, orgID, customerID string) (*model.Customer, error) {
	item, err := r.store.Get(ctx, keys.OrgPK(orgID), keys.CustomerSK(customerID))
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	if item == nil {
		return nil, nil
	}
	return unmarshalCustomer(item)
}

// List returns all customers of the organization.
func (r *CustomerRepository) List(ctx context.Context, orgID string) ([]*model.Customer, error) {
	items, err := r.store.Query(ctx, Query{
		KeyAttr:    "PK",
		KeyValue:   keys.OrgPK(orgID),
		SortAttr:   "SK",
		SortPrefix: keys.CustomerPrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	records := make([]*model.Customer, 0, len(items))
	for _, item := range items {
		rec, err := unmarshalCustomer(item)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// Update merges the provided fields. Returns nil when the customer is absent.
func (r *CustomerRepository) Update(ctx context.Context, orgID, customerID string, in UpdateCustomerInput) (*model.Customer, error) {
	set := map[string]any{}
	if in.Name != nil {
		set["name"] = *in.Name
	}
	if in.Email != nil {
		set["email"] = *in.Email
	}
	if in.Phone != nil {
		set["phone"] = *in.Phone
	}
	if in.Address != nil {
		set["address"] = *in.Address
	}
	if len(set) == 0 {
		return nil, apperrors.NewValidationError("no customer fields to update")
	}

	item, err := r.store.Update(ctx, keys.OrgPK(orgID), keys.CustomerSK(customerID), set, nil)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	return unmarshalCustomer(item)
}

// Delete removes a customer. Deleting an absent customer succeeds.
func (r *CustomerRepository) Delete(ctx context.Context, orgID, customerID string) error {
	if err := r.store.Delete(ctx, keys.OrgPK(orgID), keys.CustomerSK(customerID)); err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	return nil
}

func unmarshalCustomer(item Item) (*model.Customer, error) {
	var rec model.Customer
	if err := decodeItem(item, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal customer: %w", err)
	}
	return &rec, nil
}
