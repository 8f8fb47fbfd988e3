package config

import (
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// BucketConfig describes the S3-compatible bucket holding marker images.
type BucketConfig struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicURL       string
	Region          string
}

func GetBucketConfig() *BucketConfig {
	bucketName := os.Getenv("STORAGE_BUCKET_NAME")
	if bucketName == "" {
		bucketName = "geo-diary-images"
	}

	return &BucketConfig{
		AccountID:       os.Getenv("STORAGE_ACCOUNT_ID"),
		AccessKeyID:     os.Getenv("STORAGE_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("STORAGE_SECRET_ACCESS_KEY"),
		BucketName:      bucketName,
		PublicURL:       os.Getenv("STORAGE_PUBLIC_URL"),
		Region:          "auto",
	}
}

// NewStorageClient builds an S3 client against the configured
// R2-compatible endpoint.
func NewStorageClient(cfg *BucketConfig) *s3.Client {
	return s3.New(s3.Options{
		BaseEndpoint: aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)),
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		),
		Region: cfg.Region,
	})
}
