package storage

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// S3Config holds the S3 picture store configuration
type S3Config struct {
	// Endpoint is the S3-compatible endpoint URL (e.g., "http://minio:9000")
	Endpoint string

	// Region is the S3 region (e.g., "us-east-1")
	Region string

	// Bucket is the bucket name for storing pictures
	Bucket string

	// AccessKeyID is the S3 access key
	AccessKeyID string

	// SecretAccessKey is the S3 secret key
	SecretAccessKey string

	// UsePathStyle enables path-style addressing (required for most
	// S3-compatible storage)
	UsePathStyle bool

	// PublicBaseURL is the base URL pictures are served from
	PublicBaseURL string
}

// S3Store keeps pictures in S3-compatible object storage under one prefix
// per owner.
type S3Store struct {
	client *s3.Client
	config S3Config
}

var _ PictureStore = (*S3Store)(nil)

// NewS3 creates an S3 picture store
func NewS3(cfg S3Config) (*S3Store, error) {
	customResolver := aws.EndpointResolverWithOptionsFunc(
		func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			return aws.Endpoint{
				URL:               cfg.Endpoint,
				SigningRegion:     cfg.Region,
				HostnameImmutable: true,
			}, nil
		},
	)

	awsCfg := aws.Config{
		Region:                      cfg.Region,
		Credentials:                 credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		EndpointResolverWithOptions: customResolver,
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
	})

	return &S3Store{
		client: client,
		config: cfg,
	}, nil
}

// Save uploads the picture under the owner's prefix, removing any previous
// one, and returns its public URL.
func (s *S3Store) Save(ctx context.Context, ownerID uuid.UUID, filename string, contents []byte) (string, error) {
	name := sanitizeFilename(filename)
	if name == "" {
		return "", goerrors.New("invalid picture filename", goerrors.CategoryBadInput)
	}

	if err := s.Delete(ctx, ownerID); err != nil && !IsNotFound(err) {
		return "", err
	}

	key := s.ownerPrefix(ownerID) + name

	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.config.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(contents),
		ContentLength: aws.Int64(int64(len(contents))),
	}

	if contentType := mime.TypeByExtension(filepath.Ext(name)); contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to upload user picture")
	}

	return fmt.Sprintf("%s/%s", strings.TrimSuffix(s.config.PublicBaseURL, "/"), key), nil
}

// Delete removes every object under the owner's prefix. Returns
// ErrPictureNotFound when the prefix is empty.
func (s *S3Store) Delete(ctx context.Context, ownerID uuid.UUID) error {
	keys, err := s.listKeys(ctx, s.ownerPrefix(ownerID))
	if err != nil {
		return err
	}

	if len(keys) == 0 {
		return ErrPictureNotFound
	}

	objects := make([]types.ObjectIdentifier, 0, len(keys))
	for _, key := range keys {
		objects = append(objects, types.ObjectIdentifier{Key: aws.String(key)})
	}

	_, err = s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(s.config.Bucket),
		Delete: &types.Delete{Objects: objects},
	})
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to delete user picture")
	}

	return nil
}

func (s *S3Store) listKeys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.config.Bucket),
		Prefix: aws.String(prefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to list user pictures")
		}

		for _, obj := range page.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
	}

	return keys, nil
}

func (s *S3Store) ownerPrefix(ownerID uuid.UUID) string {
	return fmt.Sprintf("users/pictures/%s/", ownerID)
}
