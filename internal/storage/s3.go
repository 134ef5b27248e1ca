package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/pageza/recipeshare/backend/config"
	"github.com/pageza/recipeshare/backend/internal/metrics"
)

// S3Store keeps files as objects in a bucket
type S3Store struct {
	cfg    *config.S3Config
	prefix string
	expiry time.Duration
}

// NewS3Store wraps an initialized S3 client. prefix is prepended to object keys.
func NewS3Store(cfg *config.S3Config, prefix string) *S3Store {
	return &S3Store{cfg: cfg, prefix: prefix, expiry: config.DefaultPresignExpiry}
}

func (s *S3Store) key(name string) string {
	return s.prefix + name
}

// Save uploads the content under a generated key
func (s *S3Store) Save(ctx context.Context, originalName string, r io.Reader) (name string, err error) {
	defer func() { metrics.RecordFileOperation("save", err) }()

	name = GenerateName(originalName)
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.cfg.BucketName),
		Key:    aws.String(s.key(name)),
		Body:   r,
	}
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		input.ContentType = aws.String(ct)
	}

	if _, err = s.cfg.Client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return name, nil
}

// Delete removes the object. S3 does not report missing keys on delete,
// so existence is checked first to honour ErrNotFound.
func (s *S3Store) Delete(ctx context.Context, name string) (err error) {
	defer func() { metrics.RecordFileOperation("delete", err) }()

	if err := ValidateName(name); err != nil {
		return err
	}

	_, err = s.cfg.Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.cfg.BucketName),
		Key:    aws.String(s.key(name)),
	})
	if err != nil {
		var nf *types.NotFound
		var nsk *types.NoSuchKey
		if errors.As(err, &nf) || errors.As(err, &nsk) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to look up S3 object: %w", err)
	}

	if _, err = s.cfg.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.BucketName),
		Key:    aws.String(s.key(name)),
	}); err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	return nil
}

// PresignedURL returns a temporary download link for a stored file
func (s *S3Store) PresignedURL(ctx context.Context, name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	return s.cfg.GeneratePresignedURL(ctx, s.key(name), s.expiry)
}
