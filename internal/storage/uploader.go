// Package storage implements the poster upload collaborator. The
// catalog service only depends on the Uploader interface; the bundled
// implementation writes to a local directory and builds public URLs
// from a configured base, which is enough for single-node deployments
// and keeps the contract swappable for an object store client.
package storage

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotImage is returned when the uploaded file is not an image.
// Handlers should translate this into an HTTP 400 response.
var ErrNotImage = errors.New("only image uploads are allowed")

// File is an uploaded file as received from the multipart form.
type File struct {
	Name     string
	MimeType string
	Bytes    []byte
}

// Stored describes a persisted upload: the storage key and the public
// URL clients use to fetch it.
type Stored struct {
	Key string
	URL string
}

// Uploader stores poster images.
type Uploader interface {
	Upload(ctx context.Context, f File) (Stored, error)
}

// DiskUploader writes uploads under Dir and serves them from BaseURL.
type DiskUploader struct {
	Dir     string
	BaseURL string
}

func NewDiskUploader(dir, baseURL string) *DiskUploader {
	return &DiskUploader{Dir: dir, BaseURL: strings.TrimSuffix(baseURL, "/")}
}

// Upload rejects non-images, then writes the bytes under a random
// movies/<hex>.<ext> key. Any filesystem failure is a storage error the
// caller treats as fatal to the whole create operation.
func (u *DiskUploader) Upload(ctx context.Context, f File) (Stored, error) {
	if !strings.HasPrefix(f.MimeType, "image/") {
		return Stored{}, ErrNotImage
	}

	name, err := randomHex(16)
	if err != nil {
		return Stored{}, err
	}
	key := fmt.Sprintf("movies/%s.%s", name, extensionFor(f))

	path := filepath.Join(u.Dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Stored{}, fmt.Errorf("storage: mkdir: %w", err)
	}
	if err := os.WriteFile(path, f.Bytes, 0o644); err != nil {
		return Stored{}, fmt.Errorf("storage: write: %w", err)
	}

	return Stored{Key: key, URL: u.BaseURL + "/" + key}, nil
}

// extensionFor picks a file extension from the original name, falling
// back to the mime type, then to png.
func extensionFor(f File) string {
	if i := strings.LastIndex(f.Name, "."); i >= 0 && i < len(f.Name)-1 {
		ext := f.Name[i+1:]
		clean := true
		for _, r := range ext {
			if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
				clean = false
				break
			}
		}
		if clean {
			return strings.ToLower(ext)
		}
	}
	switch f.MimeType {
	case "image/jpeg":
		return "jpg"
	case "image/webp":
		return "webp"
	case "image/gif":
		return "gif"
	}
	return "png"
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
