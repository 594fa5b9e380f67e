package rosbag

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Sink buffers a bag in memory exactly like MemorySink, then uploads
// the finished bytes as a single object on Close. write/patch never touch
// the network; only Close does.
type S3Sink struct {
	ctx    context.Context
	client *s3.Client
	bucket string
	key    string

	buf    []byte
	closed bool
}

// NewS3Sink returns a sink that uploads to bucket/key via client when
// closed.
func NewS3Sink(ctx context.Context, client *s3.Client, bucket, key string) *S3Sink {
	return &S3Sink{ctx: ctx, client: client, bucket: bucket, key: key}
}

func (s *S3Sink) Write(p []byte) (int, error) {
	s.buf = append(s.buf, p...)
	return len(p), nil
}

func (s *S3Sink) Position() uint64 {
	return uint64(len(s.buf))
}

func (s *S3Sink) Patch(offset uint64, p []byte) error {
	copy(s.buf[offset:], p)
	return nil
}

func (s *S3Sink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	_, err := s.client.PutObject(s.ctx, &s3.PutObjectInput{
		Bucket: &s.bucket,
		Key:    &s.key,
		Body:   bytes.NewReader(s.buf),
	})
	if err != nil {
		return ioErr(fmt.Errorf("upload %s/%s: %w", s.bucket, s.key, err))
	}
	return nil
}
