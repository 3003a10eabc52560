// Package model defines the typed records stored in the quotation table and
// the numeric conversion rules applied at the persistence boundary.
//
// Attribute names follow the table's wire schema: snake_case business
// attributes plus the PK/SK key pair and the GSI1/GSI2 projections.
package model

// Entity type discriminators stored in the "type" attribute.
const (
	TypeQuotation     = "QUOTATION"
	TypeProduct       = "PRODUCT"
	TypeProductFamily = "PRODUCT_FAMILY"
	TypeMasterItem    = "MASTER_ITEM"
	TypeCustomer      = "CUSTOMER"
	TypePDFTemplate   = "PDF_TEMPLATE"
)

// Quotation status lifecycle: DRAFT on create, back to DRAFT on every edit,
// FINALIZED once a PDF artifact is stored and linked.
const (
	StatusDraft     = "DRAFT"
	StatusFinalized = "FINALIZED"
)

// OrgLookup is the name-uniqueness item. It is written conditionally inside
// the organization-creation transaction and never mutated afterwards.
type OrgLookup struct {
	PK    string `dynamodbav:"PK"`
	SK    string `dynamodbav:"SK"`
	OrgID string `dynamodbav:"org_id"`
	Name  string `dynamodbav:"name"`
}

// Organization is the canonical per-tenant metadata record.
type Organization struct {
	PK            string `dynamodbav:"PK"`
	SK            string `dynamodbav:"SK"`
	Name          string `dynamodbav:"name"`
	Slug          string `dynamodbav:"slug"`
	LogoURL       string `dynamodbav:"logo_url,omitempty"`
	ContactNumber string `dynamodbav:"contact_number,omitempty"`
	Email         string `dynamodbav:"email,omitempty"`
	Address       string `dynamodbav:"address,omitempty"`
	CreatedAt     string `dynamodbav:"created_at"`
}

// ProductFamily groups products and carries the default line items and the
// base margin applied to a family subtotal.
type ProductFamily struct {
	PK           string  `dynamodbav:"PK"`
	SK           string  `dynamodbav:"SK"`
	EntityType   string  `dynamodbav:"type"`
	Name         string  `dynamodbav:"name"`
	DefaultItems []any   `dynamodbav:"default_items"`
	BaseMargin   Decimal `dynamodbav:"base_margin"`
}

// MasterItem is a catalog entry priced per unit. Its category is embedded in
// the sort key so one category can be range-scanned without an index.
type MasterItem struct {
	PK         string  `dynamodbav:"PK"`
	SK         string  `dynamodbav:"SK"`
	EntityType string  `dynamodbav:"type"`
	Name       string  `dynamodbav:"name"`
	Category   string  `dynamodbav:"category"`
	UnitPrice  Decimal `dynamodbav:"unit_price"`
	UnitType   string  `dynamodbav:"unit_type"`
}

// Product is a sellable item, optionally linked to a family. The GSI2
// attributes are a derived projection of FamilyID and must always move with
// it.
type Product struct {
	PK           string         `dynamodbav:"PK"`
	SK           string         `dynamodbav:"SK"`
	EntityType   string         `dynamodbav:"type"`
	Name         string         `dynamodbav:"name"`
	Price        Decimal        `dynamodbav:"price"`
	FamilyID     *string        `dynamodbav:"family_id"`
	CustomFields map[string]any `dynamodbav:"custom_fields"`
	GSI2PK       string         `dynamodbav:"GSI2PK,omitempty"`
	GSI2SK       string         `dynamodbav:"GSI2SK,omitempty"`
}

// Quotation stores the full nested line-item snapshot alongside the
// denormalized customer and total fields, plus the GSI1 projection for
// per-user listings.
type Quotation struct {
	PK            string         `dynamodbav:"PK"`
	SK            string         `dynamodbav:"SK"`
	EntityType    string         `dynamodbav:"type"`
	CreatedBy     string         `dynamodbav:"created_by"`
	Status        string         `dynamodbav:"status"`
	Snapshot      map[string]any `dynamodbav:"snapshot"`
	DisplayID     string         `dynamodbav:"display_id"`
	CustomerName  string         `dynamodbav:"customer_name"`
	CustomerID    string         `dynamodbav:"customer_id,omitempty"`
	CustomerEmail string         `dynamodbav:"customer_email,omitempty"`
	CustomerPhone string         `dynamodbav:"customer_phone,omitempty"`
	TotalAmount   Decimal        `dynamodbav:"total_amount"`
	CreatedAt     string         `dynamodbav:"created_at"`
	S3PDFLink     *string        `dynamodbav:"s3_pdf_link"`
	GSI1PK        string         `dynamodbav:"GSI1PK"`
	GSI1SK        string         `dynamodbav:"GSI1SK"`
}

// Customer is a tenant-scoped contact record.
type Customer struct {
	PK                 string `dynamodbav:"PK"`
	SK                 string `dynamodbav:"SK"`
	EntityType         string `dynamodbav:"type"`
	Name               string `dynamodbav:"name"`
	Email              string `dynamodbav:"email,omitempty"`
	Phone              string `dynamodbav:"phone,omitempty"`
	Address            string `dynamodbav:"address,omitempty"`
	CustomerIdentifier string `dynamodbav:"customer_identifier"`
	CreatedAt          string `dynamodbav:"created_at"`
}

// Column is one entry of a PDF column layout: which snapshot field it reads,
// how it is labeled, and optionally a formula for computed columns.
type Column struct {
	Key      string `dynamodbav:"key"`
	Label    string `dynamodbav:"label"`
	Selected bool   `dynamodbav:"selected"`
	IsSystem bool   `dynamodbav:"isSystem"`
	Type     string `dynamodbav:"type,omitempty"`
	Formula  string `dynamodbav:"formula,omitempty"`
}

// PDFTemplate is a named, reusable column layout.
type PDFTemplate struct {
	PK         string   `dynamodbav:"PK"`
	SK         string   `dynamodbav:"SK"`
	EntityType string   `dynamodbav:"type"`
	Name       string   `dynamodbav:"name"`
	Columns    []Column `dynamodbav:"columns"`
	CreatedAt  string   `dynamodbav:"created_at"`
	UpdatedAt  string   `dynamodbav:"updated_at,omitempty"`
}

// ColumnSettings is the per-org singleton column layout, one item for the
// product table and one for the template defaults.
type ColumnSettings struct {
	PK      string   `dynamodbav:"PK"`
	SK      string   `dynamodbav:"SK"`
	Columns []Column `dynamodbav:"columns"`
}

// RenderData is what the external PDF renderer consumes: the organization's
// display name and the stored snapshot document.
type RenderData struct {
	OrgName  string         `json:"org_name"`
	Quote    *Quotation     `json:"-"`
	Snapshot map[string]any `json:"snapshot"`
}
