package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"quotely-backend/application/ports"
	"quotely-backend/domain/model"
	apperrors "quotely-backend/pkg/errors"
)

// DefaultLinkExpiry is how long a download link stays valid when the caller
// does not ask for a specific lifetime.
const DefaultLinkExpiry = time.Hour

// PDFService runs the finalize workflow: store a rendered PDF, then stamp the
// quotation with its location. The quotation only flips to finalized after the
// artifact is durably stored, so a failed upload leaves it a plain draft.
type PDFService struct {
	quotes ports.QuotationStore
	blobs  ports.BlobStore
	logger *zap.Logger
}

// NewPDFService creates a new PDF service.
func NewPDFService(quotes ports.QuotationStore, blobs ports.BlobStore, logger *zap.Logger) *PDFService {
	return &PDFService{quotes: quotes, blobs: blobs, logger: logger}
}

// Attach uploads the rendered PDF and finalizes the quotation, returning the
// updated record.
func (s *PDFService) Attach(ctx context.Context, orgID, quoteID string, pdf []byte) (*model.Quotation, error) {
	if len(pdf) == 0 {
		return nil, apperrors.NewValidationError("pdf content is empty")
	}

	quote, err := s.quotes.Get(ctx, orgID, quoteID)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, apperrors.NewNotFoundError("quotation not found")
	}

	link, err := s.blobs.Upload(ctx, orgID, quoteID, pdf)
	if err != nil {
		return nil, fmt.Errorf("failed to store quotation pdf: %w", err)
	}

	updated, err := s.quotes.SetPDFLink(ctx, orgID, quoteID, link)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		// Deleted between the read and the link write. The orphaned object
		// is overwritten if the quotation id is ever reused.
		return nil, apperrors.NewNotFoundError("quotation not found")
	}

	s.logger.Info("Quotation PDF attached",
		zap.String("orgID", orgID),
		zap.String("quoteID", quoteID),
	)
	return updated, nil
}

// DownloadURL returns a time-limited link to a finalized quotation's PDF.
// expiry <= 0 falls back to DefaultLinkExpiry.
func (s *PDFService) DownloadURL(ctx context.Context, orgID, quoteID string, expiry time.Duration) (string, error) {
	quote, err := s.quotes.Get(ctx, orgID, quoteID)
	if err != nil {
		return "", err
	}
	if quote == nil {
		return "", apperrors.NewNotFoundError("quotation not found")
	}
	if quote.S3PDFLink == nil {
		return "", apperrors.NewValidationError("quotation has no stored pdf")
	}

	if expiry <= 0 {
		expiry = DefaultLinkExpiry
	}
	return s.blobs.PresignedURL(ctx, orgID, quoteID, expiry)
}

// RenderData returns what an external renderer needs to produce the PDF.
func (s *PDFService) RenderData(ctx context.Context, orgID, quoteID string) (*model.RenderData, error) {
	data, err := s.quotes.RenderData(ctx, orgID, quoteID)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, apperrors.NewNotFoundError("quotation not found")
	}
	return data, nil
}
