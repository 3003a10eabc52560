package dynamodb

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "quotely-backend/pkg/errors"
)

func newOrgRepo(client DynamoDBAPI) *OrganizationRepository {
	return NewOrganizationRepository(newTestStore(client), zap.NewNop())
}

func TestOrganizationCreateWritesLookupAndMetadata(t *testing.T) {
	var captured *awsdynamodb.TransactWriteItemsInput
	client := &fakeClient{t: t,
		transact: func(in *awsdynamodb.TransactWriteItemsInput) (*awsdynamodb.TransactWriteItemsOutput, error) {
			captured = in
			return &awsdynamodb.TransactWriteItemsOutput{}, nil
		},
	}

	orgID, err := newOrgRepo(client).Create(context.Background(), "Acme Fabrication Co")
	require.NoError(t, err)
	require.NotEmpty(t, orgID)

	require.NotNil(t, captured)
	require.Len(t, captured.TransactItems, 2)

	lookup := captured.TransactItems[0].Put
	require.NotNil(t, lookup)
	assert.Equal(t, "ORG_NAME#acme-fabrication-co", stringAttr(lookup.Item, "PK"))
	assert.Equal(t, "INFO", stringAttr(lookup.Item, "SK"))
	assert.Equal(t, orgID, stringAttr(lookup.Item, "org_id"))
	assert.Equal(t, "attribute_not_exists(PK)", aws.ToString(lookup.ConditionExpression))

	meta := captured.TransactItems[1].Put
	require.NotNil(t, meta)
	assert.Equal(t, "ORG#"+orgID, stringAttr(meta.Item, "PK"))
	assert.Equal(t, "METADATA", stringAttr(meta.Item, "SK"))
	assert.Equal(t, "Acme Fabrication Co", stringAttr(meta.Item, "name"))
	assert.Equal(t, "acme-fabrication-co", stringAttr(meta.Item, "slug"))
	assert.Nil(t, meta.ConditionExpression)
}

func TestOrganizationCreateLostRaceReturnsWinnerID(t *testing.T) {
	client := &fakeClient{t: t,
		transact: func(in *awsdynamodb.TransactWriteItemsInput) (*awsdynamodb.TransactWriteItemsOutput, error) {
			return nil, &types.TransactionCanceledException{
				CancellationReasons: []types.CancellationReason{
					{Code: aws.String("ConditionalCheckFailed")},
					{Code: aws.String("None")},
				},
			}
		},
		getItem: func(in *awsdynamodb.GetItemInput) (*awsdynamodb.GetItemOutput, error) {
			assert.Equal(t, "ORG_NAME#acme", stringAttr(in.Key, "PK"))
			assert.Equal(t, "INFO", stringAttr(in.Key, "SK"))
			return &awsdynamodb.GetItemOutput{Item: Item{
				"PK":     &types.AttributeValueMemberS{Value: "ORG_NAME#acme"},
				"SK":     &types.AttributeValueMemberS{Value: "INFO"},
				"org_id": &types.AttributeValueMemberS{Value: "winner-org"},
				"name":   &types.AttributeValueMemberS{Value: "Acme"},
			}}, nil
		},
	}

	orgID, err := newOrgRepo(client).Create(context.Background(), "Acme")
	require.NoError(t, err)
	assert.Equal(t, "winner-org", orgID)
}

func TestOrganizationCreateLostRaceWithoutLookupIsConflict(t *testing.T) {
	client := &fakeClient{t: t,
		transact: func(in *awsdynamodb.TransactWriteItemsInput) (*awsdynamodb.TransactWriteItemsOutput, error) {
			return nil, &types.TransactionCanceledException{
				CancellationReasons: []types.CancellationReason{
					{Code: aws.String("ConditionalCheckFailed")},
					{Code: aws.String("None")},
				},
			}
		},
		getItem: func(in *awsdynamodb.GetItemInput) (*awsdynamodb.GetItemOutput, error) {
			return &awsdynamodb.GetItemOutput{}, nil
		},
	}

	_, err := newOrgRepo(client).Create(context.Background(), "Acme")
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestOrganizationCreateRejectsBlankName(t *testing.T) {
	repo := newOrgRepo(&fakeClient{t: t})

	_, err := repo.Create(context.Background(), "   ")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestOrganizationGetAbsent(t *testing.T) {
	client := &fakeClient{t: t,
		getItem: func(in *awsdynamodb.GetItemInput) (*awsdynamodb.GetItemOutput, error) {
			return &awsdynamodb.GetItemOutput{}, nil
		},
	}

	org, err := newOrgRepo(client).Get(context.Background(), "no-such-org")
	require.NoError(t, err)
	assert.Nil(t, org)
}

func TestOrganizationUpdateAbsentReturnsNil(t *testing.T) {
	client := &fakeClient{t: t,
		updateItem: func(in *awsdynamodb.UpdateItemInput) (*awsdynamodb.UpdateItemOutput, error) {
			return nil, &types.ConditionalCheckFailedException{}
		},
	}

	name := "Renamed"
	org, err := newOrgRepo(client).Update(context.Background(), "no-such-org",
		UpdateOrganizationInput{Name: &name})
	require.NoError(t, err)
	assert.Nil(t, org)
}

func TestOrganizationUpdateRequiresFields(t *testing.T) {
	repo := newOrgRepo(&fakeClient{t: t})

	_, err := repo.Update(context.Background(), "o1", UpdateOrganizationInput{})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}
