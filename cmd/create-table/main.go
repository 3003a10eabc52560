// Command create-table provisions the single quotation table and its two
// secondary indexes. Safe to run repeatedly; an existing table is left alone.
package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"quotely-backend/infrastructure/config"
	"quotely-backend/infrastructure/persistence/dynamodb"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	var logger *zap.Logger
	if cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	client, err := dynamodb.NewClient(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to create DynamoDB client", zap.Error(err))
	}

	if err := ensureTable(ctx, client, cfg, logger); err != nil {
		logger.Fatal("Failed to provision table", zap.Error(err))
	}
}

func ensureTable(ctx context.Context, client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) error {
	attrs := []types.AttributeDefinition{
		{AttributeName: aws.String("PK"), AttributeType: types.ScalarAttributeTypeS},
		{AttributeName: aws.String("SK"), AttributeType: types.ScalarAttributeTypeS},
		{AttributeName: aws.String("GSI1PK"), AttributeType: types.ScalarAttributeTypeS},
		{AttributeName: aws.String("GSI1SK"), AttributeType: types.ScalarAttributeTypeS},
		{AttributeName: aws.String("GSI2PK"), AttributeType: types.ScalarAttributeTypeS},
		{AttributeName: aws.String("GSI2SK"), AttributeType: types.ScalarAttributeTypeS},
	}

	indexes := []types.GlobalSecondaryIndex{
		{
			IndexName: aws.String(cfg.UserQuoteIndex),
			KeySchema: []types.KeySchemaElement{
				{AttributeName: aws.String("GSI1PK"), KeyType: types.KeyTypeHash},
				{AttributeName: aws.String("GSI1SK"), KeyType: types.KeyTypeRange},
			},
			Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
		},
		{
			IndexName: aws.String(cfg.FamilyProductIndex),
			KeySchema: []types.KeySchemaElement{
				{AttributeName: aws.String("GSI2PK"), KeyType: types.KeyTypeHash},
				{AttributeName: aws.String("GSI2SK"), KeyType: types.KeyTypeRange},
			},
			Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
		},
	}

	_, err := client.CreateTable(ctx, &awsdynamodb.CreateTableInput{
		TableName: aws.String(cfg.DynamoDBTable),
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("PK"), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String("SK"), KeyType: types.KeyTypeRange},
		},
		AttributeDefinitions:   attrs,
		GlobalSecondaryIndexes: indexes,
		BillingMode:            types.BillingModePayPerRequest,
	})
	if err != nil {
		var inUse *types.ResourceInUseException
		if errors.As(err, &inUse) {
			logger.Info("Table already exists", zap.String("table", cfg.DynamoDBTable))
			return nil
		}
		return err
	}

	waiter := awsdynamodb.NewTableExistsWaiter(client)
	if err := waiter.Wait(ctx, &awsdynamodb.DescribeTableInput{
		TableName: aws.String(cfg.DynamoDBTable),
	}, 2*time.Minute); err != nil {
		return err
	}

	logger.Info("Table created",
		zap.String("table", cfg.DynamoDBTable),
		zap.String("userQuoteIndex", cfg.UserQuoteIndex),
		zap.String("familyProductIndex", cfg.FamilyProductIndex),
	)
	return nil
}
