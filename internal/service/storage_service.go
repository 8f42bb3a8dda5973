package service

import (
	"context"
	"digital_literacy_backend/internal/config"
	"digital_literacy_backend/internal/util"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// StorageProvider abstracts where uploaded media ends up.
type StorageProvider interface {
	Upload(ctx context.Context, objectName string, file multipart.File, size int64, contentType string) (string, error)
	Remove(ctx context.Context, objectName string) error
}

func NewStorageProvider(cfg *config.StorageConfig) (StorageProvider, error) {
	switch cfg.Type {
	case util.StorageMinio:
		return newMinioProvider(cfg)
	default:
		return &localProvider{basePath: cfg.LocalPath}, nil
	}
}

type localProvider struct {
	basePath string
}

func (p *localProvider) Upload(_ context.Context, objectName string, file multipart.File, _ int64, _ string) (string, error) {
	path := filepath.Join(p.basePath, objectName)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}

	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", err
	}
	return "/uploads/" + objectName, nil
}

func (p *localProvider) Remove(_ context.Context, objectName string) error {
	return os.Remove(filepath.Join(p.basePath, objectName))
}

type minioProvider struct {
	client *minio.Client
	bucket string
}

func newMinioProvider(cfg *config.StorageConfig) (*minioProvider, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds: credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
	})
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}

	return &minioProvider{client: client, bucket: cfg.MinioBucket}, nil
}

func (p *minioProvider) Upload(ctx context.Context, objectName string, file multipart.File, size int64, contentType string) (string, error) {
	_, err := p.client.PutObject(ctx, p.bucket, objectName, file, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("/%s/%s", p.bucket, objectName), nil
}

func (p *minioProvider) Remove(ctx context.Context, objectName string) error {
	return p.client.RemoveObject(ctx, p.bucket, objectName, minio.RemoveObjectOptions{})
}
