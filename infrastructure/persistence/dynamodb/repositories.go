package dynamodb

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Repositories bundles the per-entity façades over one shared store adapter.
type Repositories struct {
	Organizations *OrganizationRepository
	Families      *FamilyRepository
	Items         *ItemRepository
	Products      *ProductRepository
	Quotations    *QuotationRepository
	Customers     *CustomerRepository
	Templates     *TemplateRepository
	Settings      *SettingsRepository
}

// RepositoryConfig carries the secondary-index names the repositories query.
type RepositoryConfig struct {
	UserQuoteIndex     string // GSI1
	FamilyProductIndex string // GSI2
}

// NewRepositories wires every repository onto the shared store.
func NewRepositories(store *Store, cfg RepositoryConfig, logger *zap.Logger) *Repositories {
	validate := validator.New()

	orgs := NewOrganizationRepository(store, logger)
	return &Repositories{
		Organizations: orgs,
		Families:      NewFamilyRepository(store, validate, logger),
		Items:         NewItemRepository(store, validate, logger),
		Products:      NewProductRepository(store, cfg.FamilyProductIndex, validate, logger),
		Quotations:    NewQuotationRepository(store, orgs, cfg.UserQuoteIndex, validate, logger),
		Customers:     NewCustomerRepository(store, validate, logger),
		Templates:     NewTemplateRepository(store, validate, logger),
		Settings:      NewSettingsRepository(store, logger),
	}
}

// decodeItem unmarshals a raw item into a typed record. Numbers inside open
// documents decode as exact attributevalue.Number values, never float64.
func decodeItem(item Item, out any) error {
	return attributevalue.UnmarshalMapWithOptions(item, out, func(o *attributevalue.DecoderOptions) {
		o.UseNumber = true
	})
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339)
}
