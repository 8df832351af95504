package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	FolderMenuItems = "menu-items"
	FolderPosters   = "posters"
)

var (
	ErrUnsupportedImage = errors.New("only jpg, jpeg, png, gif and webp images are allowed")
	ErrInvalidKey       = errors.New("invalid object key")
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Bucket is a folder-scoped image store on the local filesystem whose
// objects are served under a public URL prefix.
type Bucket struct {
	Name      string
	root      string
	publicURL string
}

// NewBucket stores objects in dir/name and serves them at publicURL/name.
func NewBucket(dir, publicURL, name string) (*Bucket, error) {
	root := filepath.Join(dir, name)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create bucket directory: %w", err)
	}
	return &Bucket{
		Name:      name,
		root:      root,
		publicURL: strings.TrimRight(publicURL, "/") + "/" + name,
	}, nil
}

// Root is the directory holding the bucket's objects.
func (b *Bucket) Root() string { return b.root }

// AllowedImage reports whether filename has an accepted image extension.
func AllowedImage(filename string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// Upload writes r under folder with a fresh unique name and returns its key.
func (b *Bucket) Upload(folder, filename string, r io.Reader) (string, error) {
	if !AllowedImage(filename) {
		return "", ErrUnsupportedImage
	}
	ext := strings.ToLower(filepath.Ext(filename))
	key := path.Join(folder, uuid.NewString()+ext)

	full, err := b.localPath(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create folder %s: %w", folder, err)
	}

	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("create object: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(full)
		return "", fmt.Errorf("write object: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(full)
		return "", fmt.Errorf("close object: %w", err)
	}
	return key, nil
}

// PublicURL is the address the site uses to fetch the object.
func (b *Bucket) PublicURL(key string) string {
	return b.publicURL + "/" + key
}

// KeyFromURL maps a public URL produced by this bucket back to its key.
func (b *Bucket) KeyFromURL(url string) (string, bool) {
	prefix := b.publicURL + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(url, prefix)
	if _, err := b.localPath(key); err != nil {
		return "", false
	}
	return key, true
}

// Delete removes the object. Deleting a missing object is not an error.
func (b *Bucket) Delete(key string) error {
	full, err := b.localPath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// DeleteURL removes the object behind url if it belongs to this bucket.
func (b *Bucket) DeleteURL(url string) error {
	key, ok := b.KeyFromURL(url)
	if !ok {
		return nil
	}
	return b.Delete(key)
}

func (b *Bucket) localPath(key string) (string, error) {
	clean := path.Clean("/" + key)
	if key == "" || clean == "/" || strings.Contains(key, "..") {
		return "", ErrInvalidKey
	}
	return filepath.Join(b.root, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}
