package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tencentyun/cos-go-sdk-v5"
	"go.uber.org/zap"
)

// COSStore keeps files in a Tencent Cloud COS bucket.
type COSStore struct {
	client *cos.Client
	logger *zap.Logger
}

func NewCOSStore(cfg Config, logger *zap.Logger) (*COSStore, error) {
	region := strings.ToLower(cfg.Region)
	bucketURL, err := url.Parse(fmt.Sprintf("https://%s.cos.%s.myqcloud.com", cfg.Bucket, region))
	if err != nil {
		return nil, fmt.Errorf("invalid cos bucket url: %w", err)
	}
	serviceURL, err := url.Parse(fmt.Sprintf("https://cos.%s.myqcloud.com", region))
	if err != nil {
		return nil, fmt.Errorf("invalid cos service url: %w", err)
	}

	client := cos.NewClient(&cos.BaseURL{BucketURL: bucketURL, ServiceURL: serviceURL}, &http.Client{
		Transport: &cos.AuthorizationTransport{
			SecretID:  cfg.AccessID,
			SecretKey: cfg.AccessKey,
		},
	})
	return &COSStore{
		client: client,
		logger: logger.With(zap.String("service", "cos_store")),
	}, nil
}

func (s *COSStore) Save(ctx context.Context, r io.Reader, suggestedName string) (string, error) {
	key, err := NewKey(suggestedName)
	if err != nil {
		return "", err
	}
	opt := &cos.ObjectPutOptions{
		ObjectPutHeaderOptions: &cos.ObjectPutHeaderOptions{ContentType: ContentType(key)},
	}
	if _, err := s.client.Object.Put(ctx, key, r, opt); err != nil {
		s.logger.Error("upload failed", zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("failed to upload file: %w", err)
	}
	return key, nil
}

func (s *COSStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}
	resp, err := s.client.Object.Get(ctx, key, nil)
	if cos.IsNotFoundError(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	return resp.Body, nil
}

func (s *COSStore) Delete(ctx context.Context, key string) error {
	if err := validKey(key); err != nil {
		return err
	}
	if _, err := s.client.Object.Delete(ctx, key); err != nil && !cos.IsNotFoundError(err) {
		s.logger.Error("delete failed", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
