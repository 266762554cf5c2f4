package sources

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/seqtab/seqtab/pkg/errors"
)

// S3Source streams an object from S3 using the default credential
// chain.
type S3Source struct {
	bucket string
	key    string
	client *s3.Client
	size   int64
}

// NewS3 wraps an existing client.
func NewS3(client *s3.Client, bucket, key string) *S3Source {
	return &S3Source{bucket: bucket, key: key, client: client, size: -1}
}

// NewS3FromURL parses an s3://bucket/key URL and builds a client from
// the ambient AWS configuration.
func NewS3FromURL(ctx context.Context, rawURL string) (*S3Source, error) {
	rest := strings.TrimPrefix(rawURL, "s3://")
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return nil, errors.Newf("invalid S3 URL %q, want s3://bucket/key", rawURL)
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "loading AWS configuration")
	}
	return NewS3(s3.NewFromConfig(cfg), bucket, key), nil
}

func (s *S3Source) ID() string       { return path.Base(s.key) }
func (s *S3Source) Location() string { return "s3://" + s.bucket + "/" + s.key }
func (s *S3Source) Size() int64      { return s.size }

func (s *S3Source) Open(ctx context.Context) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "fetching %s", s.Location())
	}
	if out.ContentLength != nil {
		s.size = *out.ContentLength
	}
	return out.Body, nil
}
