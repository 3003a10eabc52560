// Package keys builds and parses the composite partition/sort keys of the
// single quotation table. Every tenant-scoped item lives under PK
// "ORG#<org_id>"; the SK prefix before the first delimiter identifies the
// entity kind. IDs are UUIDs and slugs are produced by gosimple/slug, so
// neither can contain the delimiter.
package keys

import (
	"strings"

	"github.com/gosimple/slug"
)

// Delimiter separates segments inside partition and sort keys.
const Delimiter = "#"

// Entity kinds as stored in the sort-key prefix.
type Kind string

const (
	KindOrgLookup Kind = "INFO"
	KindOrg       Kind = "METADATA"
	KindFamily    Kind = "FAMILY"
	KindItem      Kind = "ITEM"
	KindProduct   Kind = "PRODUCT"
	KindQuote     Kind = "QUOTE"
	KindCustomer  Kind = "CUSTOMER"
	KindTemplate  Kind = "TEMPLATE"
	KindSettings  Kind = "SETTINGS"
	KindUnknown   Kind = ""
)

// Fixed sort keys for singleton items.
const (
	OrgLookupSK        = "INFO"
	OrgMetadataSK      = "METADATA"
	SettingsProductSK  = "SETTINGS#PRODUCT"
	SettingsTemplateSK = "SETTINGS#TEMPLATE"
)

// Sort-key prefixes used for begins_with range queries.
const (
	FamilyPrefix   = "FAMILY#"
	ItemPrefix     = "ITEM#"
	ProductPrefix  = "PRODUCT#"
	QuotePrefix    = "QUOTE#"
	CustomerPrefix = "CUSTOMER#"
	TemplatePrefix = "TEMPLATE#"
)

// OrgPK returns the partition key of all items owned by an organization.
func OrgPK(orgID string) string {
	return "ORG#" + orgID
}

// OrgNamePK returns the partition key of the name-uniqueness lookup item.
func OrgNamePK(slug string) string {
	return "ORG_NAME#" + slug
}

// Slugify normalizes an organization name into its lookup slug
// ("Acme Co" -> "acme-co").
func Slugify(name string) string {
	return slug.Make(name)
}

func FamilySK(familyID string) string {
	return FamilyPrefix + familyID
}

// ItemSK embeds the category as a second segment so all master items of one
// category form a contiguous sort-key range.
func ItemSK(category, itemID string) string {
	return ItemPrefix + category + Delimiter + itemID
}

// ItemCategoryPrefix is the begins_with prefix covering every master item of
// one category.
func ItemCategoryPrefix(category string) string {
	return ItemPrefix + category + Delimiter
}

func ProductSK(productID string) string {
	return ProductPrefix + productID
}

func QuoteSK(quoteID string) string {
	return QuotePrefix + quoteID
}

func CustomerSK(customerID string) string {
	return CustomerPrefix + customerID
}

func TemplateSK(templateID string) string {
	return TemplatePrefix + templateID
}

// GSI1 projects quotations by their author for "my quotations" lookups.
func UserGSI1PK(userID string) string {
	return "USER#" + userID
}

func QuoteGSI1SK(quoteID string) string {
	return QuotePrefix + quoteID
}

// GSI2 projects products by their family for "products in family" lookups.
func FamilyGSI2PK(familyID string) string {
	return FamilyPrefix + familyID
}

func ProductGSI2SK(productID string) string {
	return ProductPrefix + productID
}

// KindOf recovers the entity kind from a raw sort key.
func KindOf(sk string) Kind {
	prefix, _, found := strings.Cut(sk, Delimiter)
	if !found {
		switch sk {
		case OrgLookupSK:
			return KindOrgLookup
		case OrgMetadataSK:
			return KindOrg
		}
		return KindUnknown
	}
	switch Kind(prefix) {
	case KindFamily, KindItem, KindProduct, KindQuote, KindCustomer, KindTemplate, KindSettings:
		return Kind(prefix)
	}
	return KindUnknown
}

// IDFromSK extracts the entity id from a sort key: the final segment after
// the last delimiter. Returns "" for singleton sort keys without an id.
func IDFromSK(sk string) string {
	idx := strings.LastIndex(sk, Delimiter)
	if idx < 0 {
		return ""
	}
	return sk[idx+len(Delimiter):]
}

// OrgIDFromPK extracts the organization id from a tenant partition key.
// Returns "" when the key is not tenant-scoped.
func OrgIDFromPK(pk string) string {
	if rest, ok := strings.CutPrefix(pk, "ORG#"); ok {
		return rest
	}
	return ""
}
