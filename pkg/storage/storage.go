package storage

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/blogspace/server/pkg/config"
)

// uploadURLExpiry matches the lifetime the web editor expects for a banner
// upload
const uploadURLExpiry = 1000 * time.Second

// Uploader signs direct-to-bucket upload URLs against an S3-compatible store
type Uploader struct {
	client *minio.Client
	bucket string
}

// NewUploader creates the S3 client used for presigned upload URLs
func NewUploader(cfg *config.Config) (*Uploader, error) {
	if cfg.S3AccessKey == "" || cfg.S3SecretKey == "" {
		return nil, fmt.Errorf("S3 credentials not provided")
	}

	client, err := minio.New(cfg.S3Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		Secure: true,
		Region: cfg.S3Region,
	})
	if err != nil {
		return nil, fmt.Errorf("error initializing S3 client: %w", err)
	}

	log.Println("S3 upload client initialized successfully!")
	return &Uploader{client: client, bucket: cfg.S3Bucket}, nil
}

// GenerateUploadURL returns a presigned PUT URL for a fresh jpeg object name
func (u *Uploader) GenerateUploadURL(ctx context.Context) (string, error) {
	suffix, err := gonanoid.New(5)
	if err != nil {
		return "", err
	}
	objectName := suffix + "-" + strconv.FormatInt(time.Now().UnixMilli(), 10) + ".jpeg"

	url, err := u.client.PresignedPutObject(ctx, u.bucket, objectName, uploadURLExpiry)
	if err != nil {
		return "", fmt.Errorf("error signing upload URL: %w", err)
	}
	return url.String(), nil
}
