// Package s3 stores rendered quotation PDFs and hands out time-limited
// download links.
package s3

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

const pdfContentType = "application/pdf"

// S3API is the slice of the S3 client the uploader needs.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Presigner generates pre-signed GET requests.
type S3Presigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

var _ S3API = (*s3.Client)(nil)
var _ S3Presigner = (*s3.PresignClient)(nil)

// Uploader writes quotation PDFs under quotes/<org_id>/<quote_id>.pdf and
// returns either the canonical object URL or a pre-signed one.
type Uploader struct {
	client    S3API
	presigner S3Presigner
	bucket    string
	region    string
	logger    *zap.Logger
}

// NewUploader creates a new Uploader.
func NewUploader(client S3API, presigner S3Presigner, bucket, region string, logger *zap.Logger) *Uploader {
	return &Uploader{client: client, presigner: presigner, bucket: bucket, region: region, logger: logger}
}

// ObjectKey returns the bucket key of one quotation's PDF.
func ObjectKey(orgID, quoteID string) string {
	return fmt.Sprintf("quotes/%s/%s.pdf", orgID, quoteID)
}

// Upload stores the rendered PDF bytes and returns the object's canonical
// URL. An existing PDF for the same quotation is overwritten.
func (u *Uploader) Upload(ctx context.Context, orgID, quoteID string, pdf []byte) (string, error) {
	key := ObjectKey(orgID, quoteID)
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(pdf),
		ContentType: aws.String(pdfContentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload pdf: %w", err)
	}

	u.logger.Info("PDF uploaded",
		zap.String("orgID", orgID),
		zap.String("quoteID", quoteID),
		zap.Int("bytes", len(pdf)),
	)
	return u.ObjectURL(key), nil
}

// ObjectURL returns the canonical https URL of a stored object.
func (u *Uploader) ObjectURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, key)
}

// PresignedURL returns a time-limited download link for one quotation's PDF.
func (u *Uploader) PresignedURL(ctx context.Context, orgID, quoteID string, expiry time.Duration) (string, error) {
	req, err := u.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(ObjectKey(orgID, quoteID)),
	}, func(o *s3.PresignOptions) {
		o.Expires = expiry
	})
	if err != nil {
		return "", fmt.Errorf("failed to presign pdf url: %w", err)
	}
	return req.URL, nil
}
