package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	pkglogger "github.com/whisperbox/whisperbox-backend/pkg/logger"
)

// ErrObjectExists is returned when a no-overwrite upload hits an existing key
var ErrObjectExists = errors.New("object already exists")

// S3Client wraps the AWS S3 client for S3/R2/MinIO compatible storage
type S3Client struct {
	client        *s3.Client
	region        string
	endpoint      string
	publicBaseURL string // e.g. https://xyz.example.co/storage/v1/object/public
}

// S3Config holds S3-compatible storage configuration
type S3Config struct {
	Endpoint        string // e.g. http://localhost:9000
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	PublicBaseURL   string
	ForcePathStyle  bool // true for MinIO/R2
}

// NewS3Client creates a new S3-compatible storage client
func NewS3Client(cfg S3Config) (*S3Client, error) {
	if cfg.Region == "" {
		return nil, fmt.Errorf("storage region is required")
	}
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, fmt.Errorf("storage credentials are required")
	}

	opts := func(o *s3.Options) {
		o.Region = cfg.Region
		o.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	}

	client := s3.New(s3.Options{}, opts)

	pkglogger.GetLogger().Info().
		Str("endpoint", cfg.Endpoint).
		Str("public_base_url", cfg.PublicBaseURL).
		Msg("S3 storage client initialized")

	return &S3Client{
		client:        client,
		region:        cfg.Region,
		endpoint:      strings.TrimRight(cfg.Endpoint, "/"),
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

// PutOptions controls object metadata and overwrite behavior
type PutOptions struct {
	ContentType  string
	CacheControl string
	NoOverwrite  bool
}

// UploadResult contains the result of a file upload
type UploadResult struct {
	Bucket      string `json:"bucket"`
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// Upload uploads an object to bucket/key
func (c *S3Client) Upload(ctx context.Context, bucket, key string, body io.Reader, size int64, opts PutOptions) (*UploadResult, error) {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(opts.ContentType),
	}
	if opts.CacheControl != "" {
		input.CacheControl = aws.String(opts.CacheControl)
	}
	if opts.NoOverwrite {
		input.IfNoneMatch = aws.String("*")
	}

	if _, err := c.client.PutObject(ctx, input); err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "PreconditionFailed" {
			return nil, ErrObjectExists
		}
		return nil, fmt.Errorf("s3 upload failed: %w", err)
	}

	return &UploadResult{
		Bucket:      bucket,
		Key:         key,
		URL:         c.PublicURL(bucket, key),
		ContentType: opts.ContentType,
		Size:        size,
	}, nil
}

// Delete removes an object from bucket
func (c *S3Client) Delete(ctx context.Context, bucket, key string) error {
	input := &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}

	if _, err := c.client.DeleteObject(ctx, input); err != nil {
		return fmt.Errorf("s3 delete failed: %w", err)
	}
	return nil
}

// PublicURL returns the durable public URL for bucket/key
func (c *S3Client) PublicURL(bucket, key string) string {
	return PublicURL(c.publicBaseURL, c.endpoint, c.region, bucket, key)
}

// PublicURL builds a public object URL. publicBaseURL wins over a custom endpoint,
// which wins over the AWS virtual-hosted form.
func PublicURL(publicBaseURL, endpoint, region, bucket, key string) string {
	escaped := escapeKey(key)
	switch {
	case publicBaseURL != "":
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(publicBaseURL, "/"), bucket, escaped)
	case endpoint != "":
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(endpoint, "/"), bucket, escaped)
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, escaped)
	}
}

// KeyFromURL recovers an object key from a public URL by taking its last
// segments path segments (owner/filename for avatars).
func KeyFromURL(rawURL string, segments int) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if segments <= 0 || len(parts) < segments {
		return "", fmt.Errorf("url %q has fewer than %d path segments", rawURL, segments)
	}

	tail := parts[len(parts)-segments:]
	for i, p := range tail {
		if p == "" {
			return "", fmt.Errorf("url %q has an empty path segment", rawURL)
		}
		unescaped, err := url.PathUnescape(p)
		if err != nil {
			return "", fmt.Errorf("unescape segment: %w", err)
		}
		tail[i] = unescaped
	}
	return strings.Join(tail, "/"), nil
}

func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
