package storage

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// LocalStorage filesystem backend for development and tests.
// Objects live under root/bucket/key; downloads go through signed URLs served by the API.
type LocalStorage struct {
	root    string
	bucket  string
	baseURL string
	secret  []byte
	now     func() time.Time
}

// LocalDownloadPath route prefix serving signed local downloads
const LocalDownloadPath = "/api/v1/media/local/"

// NewLocalStorage creates the bucket directory when missing
func NewLocalStorage(root, bucket, baseURL, signingSecret string) (*LocalStorage, error) {
	dir := filepath.Join(root, bucket)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create directory %s: %w", dir, err)
	}
	return &LocalStorage{
		root:    root,
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
		secret:  []byte(signingSecret),
		now:     time.Now,
	}, nil
}

func (s *LocalStorage) Bucket() string { return s.bucket }

func (s *LocalStorage) path(key string) (string, error) {
	base := filepath.Join(s.root, s.bucket)
	full := filepath.Join(base, filepath.FromSlash(key))
	if full == base || !strings.HasPrefix(full, base+string(os.PathSeparator)) {
		return "", fmt.Errorf("storage: invalid key %q", key)
	}
	return full, nil
}

func (s *LocalStorage) Upload(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	full, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("storage: create directories: %w", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return fmt.Errorf("storage: create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("storage: write file: %w", err)
	}
	return nil
}

func (s *LocalStorage) Download(ctx context.Context, key string) (io.ReadCloser, *ObjectInfo, error) {
	info, err := s.Stat(ctx, key)
	if err != nil {
		return nil, nil, err
	}
	full, _ := s.path(key)
	f, err := os.Open(full)
	if err != nil {
		return nil, nil, fmt.Errorf("storage: open file: %w", err)
	}
	return f, info, nil
}

func (s *LocalStorage) PresignedDownloadURL(_ context.Context, key, fileName string, expires time.Duration) (string, error) {
	if _, err := s.path(key); err != nil {
		return "", err
	}
	exp := s.now().Add(expires).Unix()

	q := url.Values{}
	q.Set("expires", strconv.FormatInt(exp, 10))
	q.Set("name", fileName)
	q.Set("signature", s.sign(key, exp))
	return s.baseURL + LocalDownloadPath + key + "?" + q.Encode(), nil
}

// VerifySignature checks a URL produced by PresignedDownloadURL
func (s *LocalStorage) VerifySignature(key, expires, signature string) bool {
	exp, err := strconv.ParseInt(expires, 10, 64)
	if err != nil || s.now().Unix() > exp {
		return false
	}
	return hmac.Equal([]byte(s.sign(key, exp)), []byte(signature))
}

func (s *LocalStorage) sign(key string, exp int64) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(s.bucket + "/" + key + ":" + strconv.FormatInt(exp, 10)))
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *LocalStorage) Delete(_ context.Context, key string) error {
	full, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: delete file: %w", err)
	}
	return nil
}

func (s *LocalStorage) Rename(_ context.Context, oldKey, newKey string) error {
	if oldKey == newKey {
		return nil
	}
	from, err := s.path(oldKey)
	if err != nil {
		return err
	}
	to, err := s.path(newKey)
	if err != nil {
		return err
	}
	if _, err := os.Stat(from); errors.Is(err, os.ErrNotExist) {
		return ErrObjectNotFound
	}
	if err := os.MkdirAll(filepath.Dir(to), 0o755); err != nil {
		return fmt.Errorf("storage: create directories: %w", err)
	}
	if err := os.Rename(from, to); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	return nil
}

func (s *LocalStorage) Stat(_ context.Context, key string) (*ObjectInfo, error) {
	full, err := s.path(key)
	if err != nil {
		return nil, err
	}
	fi, err := os.Stat(full)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("storage: stat: %w", err)
	}
	return &ObjectInfo{
		Key:          key,
		Size:         fi.Size(),
		ContentType:  mime.TypeByExtension(filepath.Ext(full)),
		LastModified: fi.ModTime(),
	}, nil
}
