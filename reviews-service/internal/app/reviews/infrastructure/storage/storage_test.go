package storage

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorage_UploadOpenDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage("http://localhost:8083/", 0)

	res, err := s.Upload(ctx, &UploadInput{Key: "audio/a.wav", ContentType: "audio/wav", Data: bytes.NewReader([]byte("RIFF"))})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8083/media/audio/a.wav", res.URL)

	obj, err := s.Open(ctx, "audio/a.wav")
	require.NoError(t, err)
	assert.Equal(t, "audio/wav", obj.ContentType)
	assert.Equal(t, []byte("RIFF"), obj.Data)

	require.NoError(t, s.Delete(ctx, "audio/a.wav"))
	_, err = s.Open(ctx, "audio/a.wav")
	assert.ErrorIs(t, err, ErrObjectNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "audio/a.wav"), ErrObjectNotFound)
}

func TestMemoryStorage_SizeLimit(t *testing.T) {
	s := NewMemoryStorage("", 4)

	_, err := s.Upload(context.Background(), &UploadInput{Key: "k", Data: bytes.NewReader([]byte("12345"))})
	assert.Error(t, err)

	_, err = s.Open(context.Background(), "k")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestMemoryStorage_EmptyKey(t *testing.T) {
	s := NewMemoryStorage("", 0)
	_, err := s.Upload(context.Background(), &UploadInput{Data: bytes.NewReader(nil)})
	assert.Error(t, err)
}

func TestS3Storage_PublicURL(t *testing.T) {
	ctx := context.Background()

	s, err := NewS3Storage(ctx, S3Config{Region: "eu-central-1", Bucket: "reviews", AccessKeyID: "k", SecretAccessKey: "s"})
	require.NoError(t, err)
	assert.Equal(t, "https://reviews.s3.eu-central-1.amazonaws.com/image/x.png", s.url("image/x.png"))

	s, err = NewS3Storage(ctx, S3Config{Region: "us-east-1", Bucket: "reviews", AccessKeyID: "k", SecretAccessKey: "s", Endpoint: "http://minio:9000/"})
	require.NoError(t, err)
	assert.Equal(t, "http://minio:9000/reviews/audio/y.wav", s.url("audio/y.wav"))

	s, err = NewS3Storage(ctx, S3Config{Region: "us-east-1", Bucket: "reviews", AccessKeyID: "k", SecretAccessKey: "s", PublicBaseURL: "https://cdn.example.com/"})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/audio/y.wav", s.url("audio/y.wav"))
}
