package common

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// Archive copies rendered videos to an S3 bucket for long-term
// storage. It is strictly optional: without S3_BUCKET in the
// environment the archive reports disabled and every call is a no-op,
// so local-only deployments run without AWS credentials.
type Archive struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewArchive builds the archive from the environment (S3_BUCKET,
// S3_PREFIX, AWS_REGION plus the standard AWS credential chain).
// A missing bucket is not an error.
func NewArchive(ctx context.Context) (*Archive, error) {
	bucket := os.Getenv("S3_BUCKET")
	if bucket == "" {
		log.Println("S3_BUCKET not set, video archiving disabled")
		return &Archive{}, nil
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if region := os.Getenv("AWS_REGION"); region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Archive{
		client: s3.NewFromConfig(awsCfg),
		bucket: bucket,
		prefix: os.Getenv("S3_PREFIX"),
	}, nil
}

// Enabled reports whether uploads will actually happen
func (a *Archive) Enabled() bool {
	return a != nil && a.client != nil
}

// UploadFile pushes one local file to the bucket under key. Existing
// objects are not overwritten; a rendered video never changes after
// the fact.
func (a *Archive) UploadFile(localPath, key string) error {
	if !a.Enabled() {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	fullKey := a.prefix + key

	exists, err := a.exists(ctx, fullKey)
	if err != nil {
		return err
	}
	if exists {
		log.Printf("Archive object %s already present, skipping upload", fullKey)
		return nil
	}

	f, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(fullKey),
		Body:        f,
		ContentType: aws.String("video/mp4"),
	})
	if err != nil {
		return fmt.Errorf("failed to archive %s: %w", key, err)
	}
	log.Printf("📦 Archived %s to s3://%s/%s", localPath, a.bucket, fullKey)
	return nil
}

func (a *Archive) exists(ctx context.Context, key string) (bool, error) {
	_, err := a.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return true, nil
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == 404 {
		return false, nil
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NotFound" {
		return false, nil
	}
	return false, err
}
