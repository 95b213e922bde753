// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tran.anhvu.dev@gmail.com

/*
Package media brokers blob uploads to S3-compatible object storage.

Video files, thumbnails, avatars, and covers never pass through the API
server. The client asks for a presigned PUT URL, uploads the blob directly
to the bucket, and then submits the returned storage key to the endpoint
that owns the blob (video publish, avatar update, and so on).

# Storage Layout

Keys are sharded by kind and date: "<kind>/<yyyy>/<mm>/<dd>/<uuid><ext>".
The bucket fronts a public CDN; PublicURL maps a key to its CDN address.
*/
package media

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/trananhvu/vidora/internal/platform/apperr"
	"github.com/trananhvu/vidora/internal/platform/config"
)

// presignTTL bounds how long an upload URL stays valid.
const presignTTL = 15 * time.Minute

// uploadKinds maps the allowed upload kinds to their key prefixes.
var uploadKinds = map[string]string{
	"video":     "videos",
	"thumbnail": "thumbnails",
	"avatar":    "avatars",
	"cover":     "covers",
}

// Upload is a granted upload slot.
type Upload struct {
	// StorageKey is what the client submits back after uploading.
	StorageKey string `json:"storage_key"`
	// UploadURL is the presigned PUT target.
	UploadURL string `json:"upload_url"`
	// ExpiresAt is when the grant stops working.
	ExpiresAt time.Time `json:"expires_at"`
}

// Service issues presigned URLs against the configured bucket.
type Service struct {
	bucket        string
	region        string
	endpoint      string
	accessKeyID   string
	secretKey     string
	publicBaseURL string
}

// NewService constructs a media [Service] from the application config.
func NewService(cfg *config.Config) *Service {
	return &Service{
		bucket:        cfg.S3Bucket,
		region:        cfg.S3Region,
		endpoint:      cfg.S3Endpoint,
		accessKeyID:   cfg.S3AccessKeyID,
		secretKey:     cfg.S3SecretKey,
		publicBaseURL: strings.TrimSuffix(cfg.S3PublicBaseURL, "/"),
	}
}

// presignClient builds a presigner against the S3-compatible endpoint.
func (service *Service) presignClient(context context.Context) (*s3.PresignClient, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context,
		awsconfig.WithRegion(service.region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			service.accessKeyID,
			service.secretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("media_service_aws_config_failed: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(options *s3.Options) {
		if service.endpoint != "" {
			options.BaseEndpoint = aws.String(service.endpoint)
		}
	})

	return s3.NewPresignClient(client), nil
}

/*
GrantUpload issues a presigned PUT slot for one blob.

Description: Validates the upload kind, mints a date-sharded storage key
preserving the original file extension, and signs a PUT URL for it.

Parameters:
  - context: context.Context
  - kind: string (video|thumbnail|avatar|cover)
  - filename: string (Only the extension is kept)

Returns:
  - *Upload: Key, URL, and expiry
  - error: apperr.BadRequest for an unknown kind, or signing failures
*/
func (service *Service) GrantUpload(context context.Context, kind, filename string) (*Upload, error) {
	prefix, ok := uploadKinds[kind]
	if !ok {
		return nil, apperr.BadRequest("Unknown upload kind: " + kind)
	}

	presigner, err := service.presignClient(context)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	key := fmt.Sprintf("%s/%d/%02d/%02d/%s%s",
		prefix, now.Year(), now.Month(), now.Day(),
		uuid.NewString(), strings.ToLower(path.Ext(filename)),
	)

	request, err := presigner.PresignPutObject(context, &s3.PutObjectInput{
		Bucket: aws.String(service.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(presignTTL))
	if err != nil {
		return nil, fmt.Errorf("media_service_presign_put_failed: %w", err)
	}

	return &Upload{
		StorageKey: key,
		UploadURL:  request.URL,
		ExpiresAt:  now.Add(presignTTL),
	}, nil
}

/*
SignedDownloadURL issues a presigned GET URL for a private object.

Parameters:
  - context: context.Context
  - storageKey: string

Returns:
  - string: Time-limited download URL
  - error: Signing failures
*/
func (service *Service) SignedDownloadURL(context context.Context, storageKey string) (string, error) {
	presigner, err := service.presignClient(context)
	if err != nil {
		return "", err
	}

	request, err := presigner.PresignGetObject(context, &s3.GetObjectInput{
		Bucket: aws.String(service.bucket),
		Key:    aws.String(storageKey),
	}, s3.WithPresignExpires(presignTTL))
	if err != nil {
		return "", fmt.Errorf("media_service_presign_get_failed: %w", err)
	}

	return request.URL, nil
}

// PublicURL maps a storage key to its address behind the public CDN.
func (service *Service) PublicURL(storageKey string) string {
	return service.publicBaseURL + "/" + strings.TrimPrefix(storageKey, "/")
}
