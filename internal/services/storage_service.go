package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// StoredObject is a listing entry from the bucket
type StoredObject struct {
	Key          string
	Size         int64
	LastModified time.Time
}

type StorageService interface {
	// Upload stores the object and returns its public URL
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error)
	Remove(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]StoredObject, error)
	PublicURL(key string) string
	// EnsureBucket creates the bucket when missing and makes listing
	// images publicly readable.
	EnsureBucket(ctx context.Context) error
	Ping(ctx context.Context) error
}

type minioStorage struct {
	client     *minio.Client
	bucket     string
	publicBase string
}

func NewMinioStorage(endpoint, accessKey, secretKey string, useSSL bool, bucket, publicURL string) (StorageService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &minioStorage{
		client:     client,
		bucket:     bucket,
		publicBase: strings.TrimRight(publicURL, "/"),
	}, nil
}

func (m *minioStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := m.client.PutObject(ctx, m.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return m.PublicURL(key), nil
}

func (m *minioStorage) Remove(ctx context.Context, key string) error {
	return m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{})
}

func (m *minioStorage) List(ctx context.Context, prefix string) ([]StoredObject, error) {
	var objects []StoredObject
	for obj := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		objects = append(objects, StoredObject{Key: obj.Key, Size: obj.Size, LastModified: obj.LastModified})
	}
	return objects, nil
}

func (m *minioStorage) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", m.publicBase, m.bucket, key)
}

func (m *minioStorage) EnsureBucket(ctx context.Context) error {
	found, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}
	if !found {
		if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
			return err
		}
	}
	return m.client.SetBucketPolicy(ctx, m.bucket, publicReadPolicy(m.bucket))
}

func (m *minioStorage) Ping(ctx context.Context) error {
	found, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("bucket %s does not exist", m.bucket)
	}
	return nil
}

func publicReadPolicy(bucket string) string {
	return fmt.Sprintf(`{
  "Version": "2012-10-17",
  "Statement": [
    {
      "Effect": "Allow",
      "Principal": {"AWS": ["*"]},
      "Action": ["s3:GetObject"],
      "Resource": ["arn:aws:s3:::%s/listings/*"]
    }
  ]
}`, bucket)
}
