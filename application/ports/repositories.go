// Package ports declares the narrow persistence and storage boundaries the
// application services depend on.
package ports

import (
	"context"
	"time"

	"quotely-backend/domain/model"
)

// QuotationStore is the slice of the quotation repository the PDF workflow
// needs: read the document, stamp the stored artifact link.
type QuotationStore interface {
	Get(ctx context.Context, orgID, quoteID string) (*model.Quotation, error)
	SetPDFLink(ctx context.Context, orgID, quoteID, link string) (*model.Quotation, error)
	RenderData(ctx context.Context, orgID, quoteID string) (*model.RenderData, error)
}

// BlobStore persists rendered PDF artifacts and issues download links.
type BlobStore interface {
	Upload(ctx context.Context, orgID, quoteID string, pdf []byte) (string, error)
	PresignedURL(ctx context.Context, orgID, quoteID string, expiry time.Duration) (string, error)
}
