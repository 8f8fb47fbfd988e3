package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/geo-diary/api-go/config"
)

// BlobStore is the external object-store collaborator. Put returns the
// public URL of the stored object; Delete reports whether the object
// existed remotely.
type BlobStore interface {
	Put(ctx context.Context, objectName string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, objectName string) (bool, error)
}

// BucketService implements BlobStore against an S3-compatible bucket.
type BucketService struct {
	Client *s3.Client
	Config *config.BucketConfig
}

func NewBucketService(cfg *config.BucketConfig) *BucketService {
	return &BucketService{
		Client: config.NewStorageClient(cfg),
		Config: cfg,
	}
}

func (bs *BucketService) Put(ctx context.Context, objectName string, data []byte, contentType string) (string, error) {
	_, err := bs.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bs.Config.BucketName),
		Key:         aws.String(objectName),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object %s: %w", objectName, err)
	}

	url := fmt.Sprintf("%s/%s", bs.Config.PublicURL, objectName)
	log.Printf("Uploaded object %s to bucket %s", objectName, bs.Config.BucketName)
	return url, nil
}

func (bs *BucketService) Delete(ctx context.Context, objectName string) (bool, error) {
	_, err := bs.Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bs.Config.BucketName),
		Key:    aws.String(objectName),
	})
	if err != nil {
		var notFound *s3types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat object %s: %w", objectName, err)
	}

	_, err = bs.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bs.Config.BucketName),
		Key:    aws.String(objectName),
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete object %s: %w", objectName, err)
	}

	log.Printf("Deleted object %s from bucket %s", objectName, bs.Config.BucketName)
	return true, nil
}
