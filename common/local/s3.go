package local

import (
	"context"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/explore-flights/farefinder/common/adapt"
	"io"
	"os"
	"path/filepath"
)

// S3Client serves buckets as directories below basePath.
type S3Client struct {
	basePath string
}

func NewS3Client(basePath string) *S3Client {
	return &S3Client{basePath}
}

func (s3c *S3Client) path(bucket, key *string) string {
	return filepath.Join(s3c.basePath, *bucket, filepath.FromSlash(*key))
}

func (s3c *S3Client) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f, err := os.Open(s3c.path(params.Bucket, params.Key))
	if err != nil {
		return nil, err
	}

	return &s3.GetObjectOutput{Body: f}, nil
}

func (s3c *S3Client) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	fpath := s3c.path(params.Bucket, params.Key)

	if err := os.MkdirAll(filepath.Dir(fpath), 0750); err != nil {
		return nil, err
	}

	f, err := os.Create(fpath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if _, err = io.Copy(f, params.Body); err != nil {
		return nil, err
	}

	return &s3.PutObjectOutput{}, nil
}

var _ interface {
	adapt.S3Getter
	adapt.S3Putter
} = (*S3Client)(nil)
