// Package archive persists original receipt images in Google Cloud
// Storage. Stored expense records keep only the gs:// URI; archival
// runs off the request path and a failed upload never blocks a record.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"cloud.google.com/go/storage"
)

// Store archives receipt images into a single GCS bucket. A Store with
// an empty bucket name is disabled: the naming helpers still work but
// SaveImage refuses to upload.
type Store struct {
	bucket string
}

// NewStore creates a Store writing into bucket. An empty bucket name
// yields a disabled Store.
func NewStore(bucket string) *Store {
	return &Store{bucket: bucket}
}

// Enabled reports whether archival is configured.
func (s *Store) Enabled() bool {
	return s.bucket != ""
}

// ObjectName builds the bucket path for one receipt image:
// receipts/<owner id>/<receipt id>/<original filename>.
func (s *Store) ObjectName(ownerID, receiptID, filename string) string {
	name := path.Base(filename)
	if name == "" || name == "." || name == "/" {
		name = "receipt"
	}
	return fmt.Sprintf("receipts/%s/%s/%s", ownerID, receiptID, name)
}

// URI returns the gs:// location an object lives at.
func (s *Store) URI(objectName string) string {
	return fmt.Sprintf("gs://%s/%s", s.bucket, objectName)
}

// SaveImage uploads one image under objectName and returns its gs://
// URI. It assumes Application Default Credentials are configured
// (gcloud auth application-default login).
func (s *Store) SaveImage(ctx context.Context, objectName, contentType string, data []byte) (string, error) {
	if !s.Enabled() {
		return "", fmt.Errorf("SaveImage: no archive bucket configured")
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("SaveImage: create storage client: %w", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := client.Bucket(s.bucket).Object(objectName).NewWriter(ctx)
	w.ContentType = contentType
	defer func() {
		// Ensure the writer is closed even on early returns
		_ = w.Close()
	}()

	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("SaveImage: copy image to GCS writer: %w", err)
	}

	if err := w.Close(); err != nil {
		return "", fmt.Errorf("SaveImage: finalize upload: %w", err)
	}

	return s.URI(objectName), nil
}
