package adapt

import (
	"bytes"
	"context"
	"encoding/json"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"io"
)

type S3Getter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type S3Putter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

func S3GetJson(ctx context.Context, s3c S3Getter, bucket, key string, v any) error {
	resp, err := s3c.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})

	if err != nil {
		return err
	}

	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(v)
}

// S3GetJsonOr decodes the object at key, returning def when the object does not exist.
func S3GetJsonOr[T any](ctx context.Context, s3c S3Getter, bucket, key string, def T) (T, bool, error) {
	var v T
	if err := S3GetJson(ctx, s3c, bucket, key, &v); err != nil {
		if IsS3NotFound(err) {
			return def, false, nil
		}

		return def, false, err
	}

	return v, true, nil
}

func S3PutJson(ctx context.Context, s3c S3Putter, bucket, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return S3PutRaw(ctx, s3c, bucket, key, bytes.NewReader(b))
}

func S3PutRaw(ctx context.Context, s3c S3Putter, bucket, key string, r io.Reader) error {
	_, err := s3c.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String("application/json"),
	})

	return err
}
