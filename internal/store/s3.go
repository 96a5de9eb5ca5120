// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/MKhiriev/decklister/internal/config"
	"github.com/MKhiriev/decklister/internal/logger"
)

// s3ExpiresAtMeta is the object metadata entry holding the expiry in Unix
// milliseconds.
const s3ExpiresAtMeta = "expires-at"

// s3API is the subset of *s3.Client used by S3KV.
type s3API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3KV is a [KV] stored as one object per key in an S3-compatible bucket.
//
// It is not [Transactional]. Create relies on conditional writes
// (If-None-Match: *). Expired objects are deleted lazily when read.
type S3KV struct {
	client s3API
	bucket string
	prefix string
	now    func() time.Time
	logger *logger.Logger
}

// NewS3KV builds an S3 client from cfg. A non-empty Endpoint selects
// path-style addressing for MinIO and similar servers.
func NewS3KV(ctx context.Context, cfg config.S3, log *logger.Logger) (*S3KV, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		log.Err(err).Str("func", "NewS3KV").Msg("error loading aws config")
		return nil, fmt.Errorf("error loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	log.Info().Str("bucket", cfg.Bucket).Str("endpoint", cfg.Endpoint).Msg("s3 key-value store configured")

	return newS3KV(client, cfg.Bucket, cfg.Prefix, log), nil
}

func newS3KV(client s3API, bucket, prefix string, log *logger.Logger) *S3KV {
	return &S3KV{
		client: client,
		bucket: bucket,
		prefix: prefix,
		now:    time.Now,
		logger: log,
	}
}

func (s *S3KV) objectKey(key string) string {
	return s.prefix + key
}

// Get implements [KV].
func (s *S3KV) Get(ctx context.Context, key string) (string, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if isS3NotFound(err) {
		return "", ErrKeyNotFound
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*S3KV.Get").Msg("error getting object")
		return "", fmt.Errorf("error getting object: %w", err)
	}
	defer out.Body.Close()

	if s.expired(out.Metadata) {
		if err = s.Delete(ctx, key); err != nil {
			logger.FromContext(ctx).Warn().Err(err).Str("key", key).Msg("error deleting expired object")
		}
		return "", ErrKeyNotFound
	}

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return "", fmt.Errorf("error reading object: %w", err)
	}
	return string(body), nil
}

// Put implements [KV].
func (s *S3KV) Put(ctx context.Context, key, value string, opts ...PutOption) error {
	_, err := s.client.PutObject(ctx, s.putInput(key, value, opts))
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*S3KV.Put").Msg("error putting object")
		return fmt.Errorf("error putting object: %w", err)
	}
	return nil
}

// Create implements [KV]. When the conditional write loses to an object
// that has already expired, the stale object is removed and the write is
// attempted once more.
func (s *S3KV) Create(ctx context.Context, key, value string, opts ...PutOption) error {
	for attempt := 0; attempt < 2; attempt++ {
		in := s.putInput(key, value, opts)
		in.IfNoneMatch = aws.String("*")

		_, err := s.client.PutObject(ctx, in)
		if err == nil {
			return nil
		}
		if !isS3PreconditionFailed(err) {
			logger.FromContext(ctx).Err(err).Str("func", "*S3KV.Create").Msg("error creating object")
			return fmt.Errorf("error creating object: %w", err)
		}

		// Get deletes the object when it has expired.
		if _, err = s.Get(ctx, key); !errors.Is(err, ErrKeyNotFound) {
			if err != nil {
				return err
			}
			return ErrKeyExists
		}
	}
	return ErrKeyExists
}

// Delete implements [KV].
func (s *S3KV) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil && !isS3NotFound(err) {
		logger.FromContext(ctx).Err(err).Str("func", "*S3KV.Delete").Msg("error deleting object")
		return fmt.Errorf("error deleting object: %w", err)
	}
	return nil
}

// List implements [KV]. Listing does not expose object metadata, so each
// candidate is checked with Get to honour expiry.
func (s *S3KV) List(ctx context.Context, prefix string) ([]string, error) {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.objectKey(prefix)),
	})

	keys := make([]string, 0)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			logger.FromContext(ctx).Err(err).Str("func", "*S3KV.List").Msg("error listing objects")
			return nil, fmt.Errorf("error listing objects: %w", err)
		}

		for _, obj := range page.Contents {
			key := strings.TrimPrefix(aws.ToString(obj.Key), s.prefix)
			if _, err = s.Get(ctx, key); err != nil {
				if errors.Is(err, ErrKeyNotFound) {
					continue
				}
				return nil, err
			}
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// Close implements io.Closer.
func (s *S3KV) Close() error {
	return nil
}

func (s *S3KV) putInput(key, value string, opts []PutOption) *s3.PutObjectInput {
	in := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.objectKey(key)),
		Body:        strings.NewReader(value),
		ContentType: aws.String("application/octet-stream"),
	}
	if at := applyPutOptions(opts).expiresAt(s.now()); !at.IsZero() {
		in.Metadata = map[string]string{
			s3ExpiresAtMeta: strconv.FormatInt(at.UnixMilli(), 10),
		}
	}
	return in
}

func (s *S3KV) expired(metadata map[string]string) bool {
	raw, ok := metadata[s3ExpiresAtMeta]
	if !ok {
		return false
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false
	}
	return !s.now().Before(time.UnixMilli(ms))
}

func isS3NotFound(err error) bool {
	if err == nil {
		return false
	}
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}

func isS3PreconditionFailed(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "PreconditionFailed", "ConditionalRequestConflict":
			return true
		}
	}
	return false
}

var _ KV = (*S3KV)(nil)
