package helpers

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

// NewGCSClient creates a Google Cloud Storage client. If credsPath is empty, ADC is used.
func NewGCSClient(ctx context.Context, credsPath string) (*storage.Client, error) {
	if credsPath == "" {
		return storage.NewClient(ctx)
	}
	return storage.NewClient(ctx, option.WithCredentialsFile(credsPath))
}

// Uploader stores an object and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

// GCSUploader uploads into a single bucket.
type GCSUploader struct {
	Client *storage.Client
	Bucket string
}

func NewGCSUploader(client *storage.Client, bucket string) *GCSUploader {
	if client == nil || bucket == "" {
		return nil
	}
	return &GCSUploader{Client: client, Bucket: bucket}
}

func (u *GCSUploader) Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	return UploadObject(ctx, u.Client, u.Bucket, objectPath, contentType, r)
}

// UploadObject uploads bytes from r into bucket/objectPath with the provided contentType
func UploadObject(ctx context.Context, client *storage.Client, bucket, objectPath, contentType string, r io.Reader) (string, error) {
	wc := client.Bucket(bucket).Object(objectPath).NewWriter(ctx)
	wc.ContentType = contentType
	wc.ChunkSize = 0 // disable chunking for small files
	if _, err := io.Copy(wc, r); err != nil {
		_ = wc.Close()
		return "", err
	}
	if err := wc.Close(); err != nil {
		return "", err
	}
	return PublicURL(bucket, objectPath), nil
}

// ObjectPath builds "<prefix>/<owner>/<random><ext>" keeping the original extension.
func ObjectPath(prefix, ownerID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return path.Join(prefix, ownerID, uuid.NewString()+ext)
}

// PublicURL builds a public URL for an object (assuming public read access or signed URLs)
func PublicURL(bucket, objectPath string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, objectPath)
}
