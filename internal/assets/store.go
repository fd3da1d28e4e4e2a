// Package assets is the storage collaborator behind avatar uploads. It hands
// out short-lived signed upload URLs, resolves stored keys to public URLs
// and deletes replaced assets. The backing store is a local directory; the
// signing scheme keeps the upload endpoint from being an open file drop.
package assets

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
)

var ErrExpiredUploadURL = errors.New("upload url expired")
var ErrBadSignature = errors.New("invalid upload signature")

// Store is the narrow surface the user directory consumes.
type Store interface {
	// GenerateUploadURL returns a signed URL the client PUTs the asset to,
	// plus the key the asset will be stored under.
	GenerateUploadURL(ctx context.Context) (url string, key string, err error)
	// Resolve maps a stored key to a public URL. Returns "" when the key
	// does not resolve to anything.
	Resolve(ctx context.Context, key string) (string, error)
	// Delete removes a stored asset. Missing assets are not an error.
	Delete(ctx context.Context, key string) error
}

// DiskStore keeps assets under a base directory and serves them from a
// public URL prefix.
type DiskStore struct {
	baseDir   string
	publicURL string // e.g. http://localhost:8080/assets
	uploadURL string // e.g. http://localhost:8080/uploads
	secret    []byte
	ttl       time.Duration
}

func NewDiskStore(baseDir, publicURL, uploadURL, secret string, ttl time.Duration) *DiskStore {
	return &DiskStore{
		baseDir:   baseDir,
		publicURL: publicURL,
		uploadURL: uploadURL,
		secret:    []byte(secret),
		ttl:       ttl,
	}
}

func (s *DiskStore) GenerateUploadURL(ctx context.Context) (string, string, error) {
	key := uuid.New().String()
	exp := time.Now().Add(s.ttl).Unix()
	sig := s.sign(key, exp)
	url := fmt.Sprintf("%s/%s?exp=%d&sig=%s", s.uploadURL, key, exp, sig)
	return url, key, nil
}

// VerifyUpload checks the signature and expiry the upload handler received.
func (s *DiskStore) VerifyUpload(key string, exp int64, sig string) error {
	if time.Now().Unix() > exp {
		return ErrExpiredUploadURL
	}
	expected := s.sign(key, exp)
	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return ErrBadSignature
	}
	return nil
}

// Put writes uploaded bytes under the key. Called by the upload handler
// after VerifyUpload passes.
func (s *DiskStore) Put(key string, data []byte) error {
	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return fmt.Errorf("create asset dir: %w", err)
	}
	path := filepath.Join(s.baseDir, filepath.Base(key))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write asset: %w", err)
	}
	return nil
}

func (s *DiskStore) Resolve(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}
	path := filepath.Join(s.baseDir, filepath.Base(key))
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("stat asset: %w", err)
	}
	return s.publicURL + "/" + key, nil
}

func (s *DiskStore) Delete(ctx context.Context, key string) error {
	path := filepath.Join(s.baseDir, filepath.Base(key))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete asset: %w", err)
	}
	return nil
}

// BaseDir exposes the serving directory for static route registration.
func (s *DiskStore) BaseDir() string {
	return s.baseDir
}

func (s *DiskStore) sign(key string, exp int64) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(key))
	mac.Write([]byte(strconv.FormatInt(exp, 10)))
	return hex.EncodeToString(mac.Sum(nil))
}
