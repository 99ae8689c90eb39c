package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	appconfig "github.com/sujallchaudhary/drive/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// StorageError wraps a blob provider failure. Write paths treat it as
// fatal; delete paths log and continue.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("blob storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// BlobStore is the object-store surface the rest of the application uses.
type BlobStore interface {
	// Upload stores content under blobName and returns its public URL.
	Upload(ctx context.Context, content []byte, blobName string, mimeType string) (string, error)
	// Delete removes a blob. Returns false (and no error) when the blob
	// was already absent.
	Delete(ctx context.Context, blobName string) (bool, error)
	// Exists reports whether a blob is present, used to verify that a
	// direct client upload actually landed.
	Exists(ctx context.Context, blobName string) (bool, error)
	// PresignUpload returns a time-boxed PUT URL the client can upload
	// bytes to directly.
	PresignUpload(ctx context.Context, blobName string, ttl time.Duration) (string, error)
	// EnsureContainer creates the bucket if it does not exist yet.
	EnsureContainer(ctx context.Context) error
	// ContainerURL is the public root all blob URLs hang off.
	ContainerURL() string
}

type S3BlobStore struct {
	client        *s3.Client
	presignClient *s3.PresignClient
	bucket        string
	publicBaseURL string
}

func NewS3BlobStore(cfg *appconfig.BlobConfig) (*S3BlobStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load blob storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	})

	return &S3BlobStore{
		client:        client,
		presignClient: s3.NewPresignClient(client),
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

func (s *S3BlobStore) Upload(ctx context.Context, content []byte, blobName string, mimeType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(blobName),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(mimeType),
	})
	if err != nil {
		return "", &StorageError{Op: "upload", Err: err}
	}
	return s.publicBaseURL + "/" + blobName, nil
}

func (s *S3BlobStore) Delete(ctx context.Context, blobName string) (bool, error) {
	exists, err := s.Exists(ctx, blobName)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(blobName),
	}); err != nil {
		return false, &StorageError{Op: "delete", Err: err}
	}
	return true, nil
}

func (s *S3BlobStore) Exists(ctx context.Context, blobName string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(blobName),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NotFound" {
			return false, nil
		}
		return false, &StorageError{Op: "head", Err: err}
	}
	return true, nil
}

func (s *S3BlobStore) PresignUpload(ctx context.Context, blobName string, ttl time.Duration) (string, error) {
	req, err := s.presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(blobName),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", &StorageError{Op: "presign", Err: err}
	}
	return req.URL, nil
}

func (s *S3BlobStore) EnsureContainer(ctx context.Context) error {
	_, err := s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		var owned *types.BucketAlreadyOwnedByYou
		var exists *types.BucketAlreadyExists
		if errors.As(err, &owned) || errors.As(err, &exists) {
			return nil
		}
		return &StorageError{Op: "create bucket", Err: err}
	}
	return nil
}

func (s *S3BlobStore) ContainerURL() string {
	return s.publicBaseURL
}
