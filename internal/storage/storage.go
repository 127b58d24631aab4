// Package storage hands out presigned S3 upload URLs for pictures.
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"echoboard/internal/apperr"
	echoconfig "echoboard/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}

	now = time.Now
)

// Upload kinds.
const (
	KindProject = "project"
	KindProfile = "profile"
)

var extensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/webp": "webp",
	"image/gif":  "gif",
}

var (
	ErrNotConfigured   = apperr.E(apperr.Upstream, "File uploads are not configured")
	ErrUnknownKind     = apperr.E(apperr.Validation, "kind must be project or profile")
	ErrUnsupportedType = apperr.E(apperr.Validation, "content_type must be image/png, image/jpeg, image/webp or image/gif")
)

// Upload is a presigned PUT target and the URL the object will be served at.
type Upload struct {
	Key       string `json:"key"`
	UploadURL string `json:"upload_url"`
	PublicURL string `json:"public_url"`
}

type Presigner interface {
	PresignUpload(ctx context.Context, userID uuid.UUID, kind, contentType string) (*Upload, error)
}

type S3Presigner struct {
	cfg    echoconfig.S3Config
	client *s3.PresignClient
}

var _ Presigner = (*S3Presigner)(nil)

// New builds the presign client. When cfg is not enabled it returns a
// presigner whose calls fail with ErrNotConfigured.
func New(ctx context.Context, cfg echoconfig.S3Config) (*S3Presigner, error) {
	p := &S3Presigner{cfg: cfg}
	if !cfg.Enabled() {
		return p, nil
	}

	awsCfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("failed to load S3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})
	p.client = s3.NewPresignClient(client)
	return p, nil
}

func (p *S3Presigner) PresignUpload(ctx context.Context, userID uuid.UUID, kind, contentType string) (*Upload, error) {
	if p.client == nil {
		return nil, ErrNotConfigured
	}
	if kind != KindProject && kind != KindProfile {
		return nil, ErrUnknownKind
	}
	ext, ok := extensions[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return nil, ErrUnsupportedType
	}

	key := StorageKey(kind, userID, ext)
	req, err := presignPutObject(p.client, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.cfg.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(p.cfg.PresignTTL))
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "Could not presign upload", err)
	}

	return &Upload{Key: key, UploadURL: req.URL, PublicURL: p.PublicURL(key)}, nil
}

// PublicURL is where a stored object can be fetched from.
func (p *S3Presigner) PublicURL(key string) string {
	if p.cfg.PublicBaseURL != "" {
		return p.cfg.PublicBaseURL + "/" + key
	}
	return strings.TrimRight(p.cfg.Endpoint, "/") + "/" + p.cfg.Bucket + "/" + key
}

// StorageKey namespaces objects by kind, owner and day.
func StorageKey(kind string, userID uuid.UUID, ext string) string {
	d := now().UTC()
	return fmt.Sprintf("%ss/%s/%d/%02d/%02d/%s.%s", kind, userID, d.Year(), d.Month(), d.Day(), uuid.New(), ext)
}
