package keys

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyConstruction(t *testing.T) {
	assert.Equal(t, "ORG#o-1", OrgPK("o-1"))
	assert.Equal(t, "ORG_NAME#acme-co", OrgNamePK("acme-co"))
	assert.Equal(t, "FAMILY#f-1", FamilySK("f-1"))
	assert.Equal(t, "ITEM#KITCHEN#i-1", ItemSK("KITCHEN", "i-1"))
	assert.Equal(t, "ITEM#KITCHEN#", ItemCategoryPrefix("KITCHEN"))
	assert.Equal(t, "PRODUCT#p-1", ProductSK("p-1"))
	assert.Equal(t, "QUOTE#q-1", QuoteSK("q-1"))
	assert.Equal(t, "CUSTOMER#c-1", CustomerSK("c-1"))
	assert.Equal(t, "TEMPLATE#t-1", TemplateSK("t-1"))
}

func TestGSIProjections(t *testing.T) {
	assert.Equal(t, "USER#u-1", UserGSI1PK("u-1"))
	assert.Equal(t, "QUOTE#q-1", QuoteGSI1SK("q-1"))
	assert.Equal(t, "FAMILY#f-1", FamilyGSI2PK("f-1"))
	assert.Equal(t, "PRODUCT#p-1", ProductGSI2SK("p-1"))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "acme-co", Slugify("Acme Co"))
	assert.Equal(t, "acme-co", Slugify("  Acme   Co  "))
	// The delimiter never survives slugification, so slugs cannot collide
	// with key segments.
	assert.NotContains(t, Slugify("Acme#Co"), Delimiter)
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		sk   string
		want Kind
	}{
		{"INFO", KindOrgLookup},
		{"METADATA", KindOrg},
		{"FAMILY#f-1", KindFamily},
		{"ITEM#KITCHEN#i-1", KindItem},
		{"PRODUCT#p-1", KindProduct},
		{"QUOTE#q-1", KindQuote},
		{"CUSTOMER#c-1", KindCustomer},
		{"TEMPLATE#t-1", KindTemplate},
		{"SETTINGS#PRODUCT", KindSettings},
		{"SETTINGS#TEMPLATE", KindSettings},
		{"GARBAGE#x", KindUnknown},
		{"", KindUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, KindOf(tt.sk), "sk=%q", tt.sk)
	}
}

func TestIDFromSK(t *testing.T) {
	assert.Equal(t, "q-1", IDFromSK("QUOTE#q-1"))
	assert.Equal(t, "i-1", IDFromSK("ITEM#KITCHEN#i-1"))
	assert.Equal(t, "", IDFromSK("METADATA"))
}

func TestRoundTrip(t *testing.T) {
	// Construction and parsing are inverse for every id-bearing kind.
	id := "7f9c24e5-2f1a-4b6e-9d7a-9b1c2d3e4f5a"
	assert.Equal(t, id, IDFromSK(QuoteSK(id)))
	assert.Equal(t, id, IDFromSK(ProductSK(id)))
	assert.Equal(t, id, IDFromSK(ItemSK("BEDROOM", id)))
	assert.Equal(t, "o-1", OrgIDFromPK(OrgPK("o-1")))
	assert.Equal(t, "", OrgIDFromPK(OrgNamePK("acme-co")))
}
