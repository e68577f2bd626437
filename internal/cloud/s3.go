package cloud

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Uploader is satisfied by *manager.Uploader.
type Uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// Publisher stores generated manifests in an S3 bucket.
type Publisher struct {
	uploader Uploader
	bucket   string
}

// NewPublisher returns a publisher writing into bucket with an S3 client
// built from cfg.
func NewPublisher(cfg aws.Config, bucket string) *Publisher {
	return NewPublisherWithUploader(manager.NewUploader(s3.NewFromConfig(cfg)), bucket)
}

// NewPublisherWithUploader returns a publisher that sends uploads through u.
func NewPublisherWithUploader(u Uploader, bucket string) *Publisher {
	return &Publisher{uploader: u, bucket: bucket}
}

// Publish uploads body under key and returns the object location.
func (p *Publisher) Publish(ctx context.Context, key string, body io.Reader) (string, error) {
	out, err := p.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String("application/yaml"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload s3://%s/%s: %w", p.bucket, key, err)
	}
	return out.Location, nil
}
