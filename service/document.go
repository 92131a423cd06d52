package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dizegn/Prevtech-sub001/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// DocumentService stores process attachments (petitions, rulings, CNIS
// extracts) in object storage, keyed under the owning process id.
type DocumentService struct {
	client *minio.Client
	bucket string
	config *config.StorageConfig
}

// DocumentInfo describes one stored attachment.
type DocumentInfo struct {
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	URL      string    `json:"url"`
	Modified time.Time `json:"modified"`
}

func NewDocumentService(cfg *config.StorageConfig) (*DocumentService, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &DocumentService{
		client: client,
		bucket: cfg.Bucket,
		config: cfg,
	}, nil
}

// EnsureBucket creates the bucket if it doesn't exist
func (s *DocumentService) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

// Upload stores an attachment under the process and returns its object name.
func (s *DocumentService) Upload(ctx context.Context, processID, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	objectName := fmt.Sprintf("%s/%s", processID, filename)
	_, err := s.client.PutObject(ctx, s.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload document: %w", err)
	}

	return objectName, nil
}

// List returns the attachments of a process with presigned download URLs.
func (s *DocumentService) List(ctx context.Context, processID string) ([]DocumentInfo, error) {
	expiry := time.Duration(s.config.ExpireDays) * 24 * time.Hour

	var docs []DocumentInfo
	for object := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    processID + "/",
		Recursive: true,
	}) {
		if object.Err != nil {
			return nil, fmt.Errorf("failed to list documents: %w", object.Err)
		}

		url, err := s.client.PresignedGetObject(ctx, s.bucket, object.Key, expiry, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
		}

		docs = append(docs, DocumentInfo{
			Name:     object.Key,
			Size:     object.Size,
			URL:      url.String(),
			Modified: object.LastModified,
		})
	}

	return docs, nil
}

// Delete removes an attachment.
func (s *DocumentService) Delete(ctx context.Context, objectName string) error {
	err := s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	return nil
}

// PublicURL returns a public URL for the object (if bucket policy allows)
func (s *DocumentService) PublicURL(objectName string) string {
	protocol := "http"
	if s.config.UseSSL {
		protocol = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", protocol, s.config.Endpoint, s.bucket, objectName)
}
