package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/aliyun/alibabacloud-oss-go-sdk-v2/oss"
	"github.com/aliyun/alibabacloud-oss-go-sdk-v2/oss/credentials"
	"go.uber.org/zap"
)

// OSSStore keeps files in an Aliyun OSS bucket.
type OSSStore struct {
	client *oss.Client
	bucket string
	logger *zap.Logger
}

func NewOSSStore(cfg Config, logger *zap.Logger) *OSSStore {
	ossCfg := oss.LoadDefaultConfig().
		WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessID, cfg.AccessKey)).
		WithRegion(cfg.Region)
	return &OSSStore{
		client: oss.NewClient(ossCfg),
		bucket: cfg.Bucket,
		logger: logger.With(zap.String("service", "oss_store")),
	}
}

func (s *OSSStore) Save(ctx context.Context, r io.Reader, suggestedName string) (string, error) {
	key, err := NewKey(suggestedName)
	if err != nil {
		return "", err
	}
	_, err = s.client.PutObject(ctx, &oss.PutObjectRequest{
		Bucket:       oss.Ptr(s.bucket),
		Key:          oss.Ptr(key),
		ContentType:  oss.Ptr(ContentType(key)),
		StorageClass: oss.StorageClassStandard,
		Body:         r,
	})
	if err != nil {
		s.logger.Error("upload failed", zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("failed to upload file: %w", err)
	}
	return key, nil
}

func (s *OSSStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}
	result, err := s.client.GetObject(ctx, &oss.GetObjectRequest{
		Bucket: oss.Ptr(s.bucket),
		Key:    oss.Ptr(key),
	})
	if isOSSNotFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	return result.Body, nil
}

func (s *OSSStore) Delete(ctx context.Context, key string) error {
	if err := validKey(key); err != nil {
		return err
	}
	_, err := s.client.DeleteObject(ctx, &oss.DeleteObjectRequest{
		Bucket: oss.Ptr(s.bucket),
		Key:    oss.Ptr(key),
	})
	if err != nil && !isOSSNotFound(err) {
		s.logger.Error("delete failed", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func isOSSNotFound(err error) bool {
	var serviceErr *oss.ServiceError
	return errors.As(err, &serviceErr) && serviceErr.StatusCode == http.StatusNotFound
}
