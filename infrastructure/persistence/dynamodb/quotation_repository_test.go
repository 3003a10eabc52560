package dynamodb

import (
	"context"
	"regexp"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"quotely-backend/domain/model"
)

func newQuoteRepo(client DynamoDBAPI) *QuotationRepository {
	store := newTestStore(client)
	orgs := NewOrganizationRepository(store, zap.NewNop())
	return NewQuotationRepository(store, orgs, "User-Date-Index", validator.New(), zap.NewNop())
}

func TestQuotationCreateStoresDraftWithExactNumbers(t *testing.T) {
	var captured Item
	client := &fakeClient{t: t,
		putItem: func(in *awsdynamodb.PutItemInput) (*awsdynamodb.PutItemOutput, error) {
			captured = in.Item
			return &awsdynamodb.PutItemOutput{}, nil
		},
	}

	quote, err := newQuoteRepo(client).Create(context.Background(), "org-1", CreateQuotationInput{
		CreatedBy:    "user-1",
		CustomerName: "John Doe",
		TotalAmount:  19.999999999999998,
		Snapshot: map[string]any{
			"families": []any{
				map[string]any{"name": "Doors", "subtotal": 19.999999999999998},
			},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, model.StatusDraft, quote.Status)
	assert.Nil(t, quote.S3PDFLink)
	assert.Equal(t, "ORG#org-1", stringAttr(captured, "PK"))
	assert.Equal(t, "USER#user-1", stringAttr(captured, "GSI1PK"))
	assert.Equal(t, "QUOTE#"+quote.ID(), stringAttr(captured, "GSI1SK"))

	total, ok := captured["total_amount"].(*types.AttributeValueMemberN)
	require.True(t, ok)
	assert.Equal(t, "20", total.Value)

	snapshot, ok := captured["snapshot"].(*types.AttributeValueMemberM)
	require.True(t, ok)
	families, ok := snapshot.Value["families"].(*types.AttributeValueMemberL)
	require.True(t, ok)
	family, ok := families.Value[0].(*types.AttributeValueMemberM)
	require.True(t, ok)
	subtotal, ok := family.Value["subtotal"].(*types.AttributeValueMemberN)
	require.True(t, ok, "document floats must be stored as number attributes")
	assert.Equal(t, "19.999999999999998", subtotal.Value)
}

func TestQuotationDisplayIDShape(t *testing.T) {
	var captured Item
	client := &fakeClient{t: t,
		putItem: func(in *awsdynamodb.PutItemInput) (*awsdynamodb.PutItemOutput, error) {
			captured = in.Item
			return &awsdynamodb.PutItemOutput{}, nil
		},
	}

	_, err := newQuoteRepo(client).Create(context.Background(), "org-1", CreateQuotationInput{
		CreatedBy:    "user-1",
		CustomerName: "John Doe",
	})
	require.NoError(t, err)

	displayID := stringAttr(captured, "display_id")
	assert.Regexp(t, regexp.MustCompile(`^J[A-Za-z]+#\d{2}-\d{2}-\d{4}-\d{2}-\d{2}-\d{2}$`), displayID)
}

func TestQuotationUpdateResetsStatusToDraft(t *testing.T) {
	var captured *awsdynamodb.UpdateItemInput
	client := &fakeClient{t: t,
		updateItem: func(in *awsdynamodb.UpdateItemInput) (*awsdynamodb.UpdateItemOutput, error) {
			captured = in
			return &awsdynamodb.UpdateItemOutput{Attributes: Item{
				"PK":     &types.AttributeValueMemberS{Value: "ORG#org-1"},
				"SK":     &types.AttributeValueMemberS{Value: "QUOTE#q1"},
				"status": &types.AttributeValueMemberS{Value: "DRAFT"},
			}}, nil
		},
	}

	total := 42.5
	quote, err := newQuoteRepo(client).Update(context.Background(), "org-1", "q1",
		UpdateQuotationInput{TotalAmount: &total})
	require.NoError(t, err)
	require.NotNil(t, quote)
	assert.Equal(t, model.StatusDraft, quote.Status)

	require.NotNil(t, captured)
	drafted := false
	for _, v := range captured.ExpressionAttributeValues {
		if s, ok := v.(*types.AttributeValueMemberS); ok && s.Value == model.StatusDraft {
			drafted = true
		}
	}
	assert.True(t, drafted, "every edit must reset the status to draft")
}

func TestQuotationSetPDFLinkFinalizes(t *testing.T) {
	var captured *awsdynamodb.UpdateItemInput
	client := &fakeClient{t: t,
		updateItem: func(in *awsdynamodb.UpdateItemInput) (*awsdynamodb.UpdateItemOutput, error) {
			captured = in
			return &awsdynamodb.UpdateItemOutput{Attributes: Item{
				"PK":          &types.AttributeValueMemberS{Value: "ORG#org-1"},
				"SK":          &types.AttributeValueMemberS{Value: "QUOTE#q1"},
				"status":      &types.AttributeValueMemberS{Value: "FINALIZED"},
				"s3_pdf_link": &types.AttributeValueMemberS{Value: "https://bucket.s3.ap-south-1.amazonaws.com/quotes/org-1/q1.pdf"},
			}}, nil
		},
	}

	quote, err := newQuoteRepo(client).SetPDFLink(context.Background(), "org-1", "q1",
		"https://bucket.s3.ap-south-1.amazonaws.com/quotes/org-1/q1.pdf")
	require.NoError(t, err)
	require.NotNil(t, quote)
	assert.Equal(t, model.StatusFinalized, quote.Status)
	require.NotNil(t, quote.S3PDFLink)

	require.NotNil(t, captured)
	finalized := false
	for _, v := range captured.ExpressionAttributeValues {
		if s, ok := v.(*types.AttributeValueMemberS); ok && s.Value == model.StatusFinalized {
			finalized = true
		}
	}
	assert.True(t, finalized)
}

func TestQuotationListByUserQueriesIndexWithTenantFilter(t *testing.T) {
	var captured *awsdynamodb.QueryInput
	client := &fakeClient{t: t,
		query: func(in *awsdynamodb.QueryInput) (*awsdynamodb.QueryOutput, error) {
			captured = in
			return &awsdynamodb.QueryOutput{}, nil
		},
	}

	_, err := newQuoteRepo(client).ListByUser(context.Background(), "org-1", "user-1")
	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.Equal(t, "User-Date-Index", aws.ToString(captured.IndexName))
	require.NotNil(t, captured.FilterExpression)
}

func TestQuotationSnapshotRoundTripPreservesNumbers(t *testing.T) {
	client := &fakeClient{t: t,
		getItem: func(in *awsdynamodb.GetItemInput) (*awsdynamodb.GetItemOutput, error) {
			return &awsdynamodb.GetItemOutput{Item: Item{
				"PK":     &types.AttributeValueMemberS{Value: "ORG#org-1"},
				"SK":     &types.AttributeValueMemberS{Value: "QUOTE#q1"},
				"type":   &types.AttributeValueMemberS{Value: "QUOTATION"},
				"status": &types.AttributeValueMemberS{Value: "DRAFT"},
				"snapshot": &types.AttributeValueMemberM{Value: Item{
					"subtotal": &types.AttributeValueMemberN{Value: "19.999999999999998"},
					"note":     &types.AttributeValueMemberS{Value: "ground floor"},
				}},
				"total_amount": &types.AttributeValueMemberN{Value: "20"},
			}}, nil
		},
	}

	quote, err := newQuoteRepo(client).Get(context.Background(), "org-1", "q1")
	require.NoError(t, err)
	require.NotNil(t, quote)

	subtotal, ok := quote.Snapshot["subtotal"].(model.Decimal)
	require.True(t, ok, "document numbers must decode as decimals, not floats")
	assert.Equal(t, "19.999999999999998", subtotal.String())
	assert.Equal(t, "ground floor", quote.Snapshot["note"])
	assert.Equal(t, "20", quote.TotalAmount.String())
}

func TestQuotationRenderDataUsesOrgDisplayName(t *testing.T) {
	client := &fakeClient{t: t,
		getItem: func(in *awsdynamodb.GetItemInput) (*awsdynamodb.GetItemOutput, error) {
			switch stringAttr(in.Key, "SK") {
			case "QUOTE#q1":
				return &awsdynamodb.GetItemOutput{Item: Item{
					"PK":       &types.AttributeValueMemberS{Value: "ORG#org-1"},
					"SK":       &types.AttributeValueMemberS{Value: "QUOTE#q1"},
					"status":   &types.AttributeValueMemberS{Value: "DRAFT"},
					"snapshot": &types.AttributeValueMemberM{Value: Item{}},
				}}, nil
			case "METADATA":
				return &awsdynamodb.GetItemOutput{Item: Item{
					"PK":   &types.AttributeValueMemberS{Value: "ORG#org-1"},
					"SK":   &types.AttributeValueMemberS{Value: "METADATA"},
					"name": &types.AttributeValueMemberS{Value: "Acme Fabrication Co"},
				}}, nil
			default:
				t.Fatalf("unexpected key %q", stringAttr(in.Key, "SK"))
				return nil, nil
			}
		},
	}

	data, err := newQuoteRepo(client).RenderData(context.Background(), "org-1", "q1")
	require.NoError(t, err)
	require.NotNil(t, data)
	assert.Equal(t, "Acme Fabrication Co", data.OrgName)
	require.NotNil(t, data.Quote)
	assert.Equal(t, "q1", data.Quote.ID())
}
