// Package snapshot uploads zstd-compressed catalog CSV snapshots to
// S3-compatible object storage (Cloudflare R2 or anything speaking the
// S3 API).
package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/klauspost/compress/zstd"

	"github.com/CSEN-174-W25/csen-174-thebteam/internal/logger"
)

// keyPrefix groups all catalog snapshots in the bucket.
const keyPrefix = "catalog/"

// Config holds the object storage configuration.
type Config struct {
	Endpoint    string // e.g. https://account-id.r2.cloudflarestorage.com
	AccessKeyID string
	SecretKey   string
	Bucket      string
}

// Uploader writes compressed snapshots to a bucket.
type Uploader struct {
	s3     *s3.Client
	bucket string
	log    *logger.Logger

	// now is replaceable for deterministic key names in tests.
	now func() time.Time
}

// New creates an uploader. All config fields are required.
func New(ctx context.Context, cfg Config, log *logger.Logger) (*Uploader, error) {
	if cfg.Endpoint == "" || cfg.AccessKeyID == "" || cfg.SecretKey == "" || cfg.Bucket == "" {
		return nil, errors.New("snapshot: all config fields are required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretKey,
			"",
		)),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("snapshot: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true // Required for R2
	})

	return &Uploader{
		s3:     client,
		bucket: cfg.Bucket,
		log:    log.WithModule("snapshot"),
		now:    time.Now,
	}, nil
}

// Upload compresses the CSV content and writes it to the bucket. It
// returns the object key.
func (u *Uploader) Upload(ctx context.Context, name string, csv io.Reader) (string, error) {
	var buf bytes.Buffer
	if err := Compress(&buf, csv); err != nil {
		return "", fmt.Errorf("snapshot: compress %q: %w", name, err)
	}

	key := SnapshotKey(name, u.now())
	_, err := u.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("application/zstd"),
	})
	if err != nil {
		return "", fmt.Errorf("snapshot: upload %q: %w", key, err)
	}

	u.log.WithFields(map[string]any{
		"key":   key,
		"bytes": buf.Len(),
	}).Info("catalog snapshot uploaded")
	return key, nil
}

// SnapshotKey builds the object key for a snapshot taken at ts.
func SnapshotKey(name string, ts time.Time) string {
	return fmt.Sprintf("%s%s-%s.csv.zst", keyPrefix, name, ts.UTC().Format("20060102-150405"))
}

// Compress writes the zstd-compressed content of r to w.
func Compress(w io.Writer, r io.Reader) error {
	encoder, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return err
	}
	if _, err := io.Copy(encoder, r); err != nil {
		encoder.Close()
		return err
	}
	return encoder.Close()
}

// Decompress writes the decompressed content of r to w.
func Decompress(w io.Writer, r io.Reader) error {
	decoder, err := zstd.NewReader(r)
	if err != nil {
		return err
	}
	defer decoder.Close()
	_, err = io.Copy(w, decoder)
	return err
}
