package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"go.uber.org/zap"

	"quotely-backend/domain/keys"
	"quotely-backend/domain/model"
)

// SettingsRepository manages the per-org singleton column layouts: one item
// for the product table columns and one for the template default columns.
// Writes replace the whole item; there is no partial update.
type SettingsRepository struct {
	store  *Store
	logger *zap.Logger
}

// NewSettingsRepository creates a new SettingsRepository.
func NewSettingsRepository(store *Store, logger *zap.Logger) *SettingsRepository {
	return &SettingsRepository{store: store, logger: logger}
}

// GetProductColumns returns the product table layout, or nil when the
// organization never saved one.
func (r *SettingsRepository) GetProductColumns(ctx context.Context, orgID string) (*model.ColumnSettings, error) {
	return r.get(ctx, orgID, keys.SettingsProductSK)
}

// GetTemplateColumns returns the template default layout, or nil when the
// organization never saved one.
func (r *SettingsRepository) GetTemplateColumns(ctx context.Context, orgID string) (*model.ColumnSettings, error) {
	return r.get(ctx, orgID, keys.SettingsTemplateSK)
}

// PutProductColumns replaces the product table layout.
func (r *SettingsRepository) PutProductColumns(ctx context.Context, orgID string, columns []model.Column) (*model.ColumnSettings, error) {
	return r.put(ctx, orgID, keys.SettingsProductSK, columns)
}

// PutTemplateColumns replaces the template default layout.
func (r *SettingsRepository) PutTemplateColumns(ctx context.Context, orgID string, columns []model.Column) (*model.ColumnSettings, error) {
	return r.put(ctx, orgID, keys.SettingsTemplateSK, columns)
}

func (r *SettingsRepository) get(ctx context.Context, orgID, sk string) (*model.ColumnSettings, error) {
	item, err := r.store.Get(ctx, keys.OrgPK(orgID), sk)
	if err != nil {
		return nil, fmt.Errorf("failed to get column settings: %w", err)
	}
	if item == nil {
		return nil, nil
	}

	var rec model.ColumnSettings
	if err := decodeItem(item, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal column settings: %w", err)
	}
	return &rec, nil
}

func (r *SettingsRepository) put(ctx context.Context, orgID, sk string, columns []model.Column) (*model.ColumnSettings, error) {
	rec := model.ColumnSettings{
		PK:      keys.OrgPK(orgID),
		SK:      sk,
		Columns: columns,
	}

	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal column settings: %w", err)
	}
	if err := r.store.Put(ctx, item, nil); err != nil {
		return nil, fmt.Errorf("failed to save column settings: %w", err)
	}

	r.logger.Debug("Column settings saved",
		zap.String("orgID", orgID),
		zap.String("kind", sk),
	)
	return &rec, nil
}
