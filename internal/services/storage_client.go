package services

import (
	"fmt"
	"os"
	"path"
	"strings"

	"account-service/pkg/common"
)

// Storage buckets, one per document domain.
const (
	BucketVerification = "verification-documents"
	BucketCompany      = "overseas-company-documents"
	BucketRequest      = "request-documents"
)

// StorageClient uploads user documents to the object store and returns
// the path persisted on the owning record.
type StorageClient struct {
	BaseURL string
	Token   string
}

func NewStorageClient() *StorageClient {
	baseURL := os.Getenv("STORAGE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8000/storage/v1"
	}
	return &StorageClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   os.Getenv("STORAGE_TOKEN"),
	}
}

// ObjectKey builds the per-owner object name: userID/recordID/ref.ext.
func ObjectKey(userID, recordID, filename string) string {
	ext := path.Ext(filename)
	return fmt.Sprintf("%s/%s/%s%s", userID, recordID, common.GenerateReference(), ext)
}

// Upload stores one file and returns its bucket-relative path.
func (c *StorageClient) Upload(bucket, key string, content []byte, contentType string) (string, error) {
	endpoint := fmt.Sprintf("%s/object/%s/%s", c.BaseURL, bucket, key)

	headers := map[string]string{}
	if c.Token != "" {
		headers["Authorization"] = "Bearer " + c.Token
	}

	if _, err := common.Put(endpoint, content, contentType, headers); err != nil {
		return "", fmt.Errorf("storage upload failed: %w", err)
	}
	return bucket + "/" + key, nil
}
