package poster

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const (
	cacheEnvVar        = "POSTR_CACHE_DIR"
	cacheSubdir        = "postr/posters"
	cacheTTL           = 24 * time.Hour
	metaSuffix         = ".meta"
	defaultHTTPTimeout = 90 * time.Second
)

// fileCache keeps downloaded poster PDFs on disk so re-opening a poster does
// not re-render or re-transfer it. Entries fresher than the TTL are served
// as-is; stale entries are revalidated with conditional requests.
type fileCache struct {
	dir    string
	client *http.Client
}

type cacheMeta struct {
	URL          string    `json:"url"`
	ETag         string    `json:"etag"`
	LastModified string    `json:"lastModified"`
	CachedAt     time.Time `json:"cachedAt"`
}

func newFileCache(client *http.Client) (*fileCache, error) {
	dir := os.Getenv(cacheEnvVar)
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			base = filepath.Join(os.TempDir(), "postr-cache")
		}
		dir = filepath.Join(base, cacheSubdir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &fileCache{dir: dir, client: client}, nil
}

// Fetch returns a local path to the PDF at url, downloading only when the
// cached copy is missing or stale.
func (c *fileCache) Fetch(ctx context.Context, url string) (string, error) {
	pdfPath, metaPath := c.pathsFor(url)

	if info, err := os.Stat(pdfPath); err == nil && info.Size() > 0 && time.Since(info.ModTime()) < cacheTTL {
		return pdfPath, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	meta, metaErr := readMeta(metaPath)
	current, statErr := os.Stat(pdfPath)
	haveCopy := metaErr == nil && statErr == nil && current.Size() > 0
	if haveCopy {
		if meta.ETag != "" {
			req.Header.Set("If-None-Match", meta.ETag)
		}
		if meta.LastModified != "" {
			req.Header.Set("If-Modified-Since", meta.LastModified)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if haveCopy {
			// Offline with a stale copy beats no poster at all.
			return pdfPath, nil
		}
		return "", err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotModified && haveCopy:
		meta.CachedAt = time.Now().UTC()
		_ = writeMeta(metaPath, meta)
		_ = os.Chtimes(pdfPath, time.Now(), time.Now())
		return pdfPath, nil
	case resp.StatusCode >= 400:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("poster download failed: %s (%s)", resp.Status, string(body))
	}

	tmp, err := os.CreateTemp(c.dir, "poster-*.part")
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	if err := os.Rename(tmp.Name(), pdfPath); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}

	newMeta := cacheMeta{
		URL:          url,
		ETag:         resp.Header.Get("Etag"),
		LastModified: resp.Header.Get("Last-Modified"),
		CachedAt:     time.Now().UTC(),
	}
	if err := writeMeta(metaPath, newMeta); err != nil {
		return "", err
	}
	return pdfPath, nil
}

func (c *fileCache) pathsFor(url string) (string, string) {
	sum := sha1.Sum([]byte(url))
	key := hex.EncodeToString(sum[:])
	return filepath.Join(c.dir, key+".pdf"), filepath.Join(c.dir, key+metaSuffix)
}

func readMeta(path string) (cacheMeta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cacheMeta{}, err
	}
	var meta cacheMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return cacheMeta{}, err
	}
	return meta, nil
}

func writeMeta(path string, meta cacheMeta) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
