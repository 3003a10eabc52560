package dynamodb

import (
	"context"
	"testing"

	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"quotely-backend/domain/model"
)

func newSettingsRepo(client DynamoDBAPI) *SettingsRepository {
	return NewSettingsRepository(newTestStore(client), zap.NewNop())
}

func TestSettingsPutProductColumnsIsFullReplace(t *testing.T) {
	var captured Item
	client := &fakeClient{t: t,
		putItem: func(in *awsdynamodb.PutItemInput) (*awsdynamodb.PutItemOutput, error) {
			captured = in.Item
			assert.Nil(t, in.ConditionExpression)
			return &awsdynamodb.PutItemOutput{}, nil
		},
	}

	_, err := newSettingsRepo(client).PutProductColumns(context.Background(), "org-1", []model.Column{
		{Key: "name", Label: "Name", Selected: true, IsSystem: true},
		{Key: "margin", Label: "Margin", Selected: false, Type: "formula", Formula: "price*0.15"},
	})
	require.NoError(t, err)

	assert.Equal(t, "ORG#org-1", stringAttr(captured, "PK"))
	assert.Equal(t, "SETTINGS#PRODUCT", stringAttr(captured, "SK"))

	columns, ok := captured["columns"].(*types.AttributeValueMemberL)
	require.True(t, ok)
	require.Len(t, columns.Value, 2)

	first, ok := columns.Value[0].(*types.AttributeValueMemberM)
	require.True(t, ok)
	system, ok := first.Value["isSystem"].(*types.AttributeValueMemberBOOL)
	require.True(t, ok)
	assert.True(t, system.Value)
}

func TestSettingsGetTemplateColumnsAbsent(t *testing.T) {
	client := &fakeClient{t: t,
		getItem: func(in *awsdynamodb.GetItemInput) (*awsdynamodb.GetItemOutput, error) {
			assert.Equal(t, "SETTINGS#TEMPLATE", stringAttr(in.Key, "SK"))
			return &awsdynamodb.GetItemOutput{}, nil
		},
	}

	settings, err := newSettingsRepo(client).GetTemplateColumns(context.Background(), "org-1")
	require.NoError(t, err)
	assert.Nil(t, settings)
}
