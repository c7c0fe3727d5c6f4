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
	pkglogger "github.com/ideafund/ideafund-backend/pkg/logger"
)

var _ ObjectStorage = (*S3Client)(nil)

// S3Config points at an S3-compatible bucket (AWS, R2, MinIO)
type S3Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	CDNURL          string // campaign images are served from here when set
	BasePath        string // prepended to every key, e.g. "ideafund/"
	ForcePathStyle  bool
}

// S3Client stores campaign and profile images in a bucket
type S3Client struct {
	api      *s3.Client
	bucket   string
	cdnBase  string
	basePath string
	origin   *url.URL
}

// NewS3Client builds the client; no request is made until the first upload
func NewS3Client(cfg S3Config) (*S3Client, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("storage: bucket is required")
	}

	origin, err := bucketOrigin(cfg)
	if err != nil {
		return nil, err
	}

	api := s3.New(s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		UsePathStyle: cfg.ForcePathStyle,
	}, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	pkglogger.GetLogger().Info().
		Str("bucket", cfg.Bucket).
		Str("origin", origin.String()).
		Bool("cdn", cfg.CDNURL != "").
		Msg("object storage ready")

	return &S3Client{
		api:      api,
		bucket:   cfg.Bucket,
		cdnBase:  strings.TrimRight(cfg.CDNURL, "/"),
		basePath: cfg.BasePath,
		origin:   origin,
	}, nil
}

// bucketOrigin is the direct (non-CDN) URL objects are reachable at
func bucketOrigin(cfg S3Config) (*url.URL, error) {
	if cfg.Endpoint == "" {
		return &url.URL{Scheme: "https", Host: cfg.Bucket + ".s3.amazonaws.com", Path: "/"}, nil
	}
	u, err := url.Parse(strings.TrimRight(cfg.Endpoint, "/"))
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("storage: invalid endpoint %q", cfg.Endpoint)
	}
	if cfg.ForcePathStyle {
		u.Path = "/" + cfg.Bucket + "/"
	} else {
		u.Host = cfg.Bucket + "." + u.Host
		u.Path = "/"
	}
	return u, nil
}

// Upload puts body under basePath+key. The returned Key is the full object key,
// which is what Delete expects.
func (c *S3Client) Upload(ctx context.Context, key string, body io.Reader, contentType string, size int64) (*UploadResult, error) {
	objectKey := c.basePath + key

	_, err := c.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(objectKey),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return nil, fmt.Errorf("storage: put %s: %w", objectKey, err)
	}

	res := &UploadResult{
		Key:         objectKey,
		URL:         c.originURL(objectKey),
		ContentType: contentType,
		Size:        size,
	}
	if c.cdnBase != "" {
		res.CDNURL = c.cdnURL(objectKey)
	}
	return res, nil
}

// Delete removes an object by its full key
func (c *S3Client) Delete(ctx context.Context, key string) error {
	_, err := c.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("storage: delete %s: %w", key, err)
	}
	return nil
}

// PublicURL prefers the CDN
func (c *S3Client) PublicURL(key string) string {
	if c.cdnBase != "" {
		return c.cdnURL(key)
	}
	return c.originURL(key)
}

func (c *S3Client) cdnURL(key string) string {
	return c.cdnBase + "/" + escapeKey(key)
}

func (c *S3Client) originURL(key string) string {
	return c.origin.String() + escapeKey(key)
}

// escapeKey escapes each path segment and keeps the separators
func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
