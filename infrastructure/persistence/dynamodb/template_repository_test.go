package dynamodb

import (
	"context"
	"testing"

	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTemplateRepo(client DynamoDBAPI) *TemplateRepository {
	return NewTemplateRepository(newTestStore(client), validator.New(), zap.NewNop())
}

func TestTemplateUpdateStampsUpdatedAt(t *testing.T) {
	var captured *awsdynamodb.UpdateItemInput
	client := &fakeClient{t: t,
		updateItem: func(in *awsdynamodb.UpdateItemInput) (*awsdynamodb.UpdateItemOutput, error) {
			captured = in
			return &awsdynamodb.UpdateItemOutput{Attributes: Item{
				"PK":   &types.AttributeValueMemberS{Value: "ORG#org-1"},
				"SK":   &types.AttributeValueMemberS{Value: "TEMPLATE#t1"},
				"name": &types.AttributeValueMemberS{Value: "Compact"},
			}}, nil
		},
	}

	name := "Compact"
	repo := newTemplateRepo(client)
	_, err := repo.Update(context.Background(), "org-1", "t1", UpdateTemplateInput{Name: &name})
	require.NoError(t, err)

	require.NotNil(t, captured)
	stamped := false
	for _, n := range captured.ExpressionAttributeNames {
		if n == "updated_at" {
			stamped = true
		}
	}
	assert.True(t, stamped)
}

func TestTemplateUpdateRequiresFields(t *testing.T) {
	repo := newTemplateRepo(&fakeClient{t: t})

	_, err := repo.Update(context.Background(), "org-1", "t1", UpdateTemplateInput{})
	require.Error(t, err)
}
