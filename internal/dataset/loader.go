package dataset

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/KaramelBytes/housing-eda/internal/utils"
	"github.com/apex/log"
)

// DefaultURL is the public copy of the Boston housing dataset.
const DefaultURL = "https://cf-courses-data.s3.us.cloud-object-storage.appdomain.cloud/IBMDeveloperSkillsNetwork-ST0151EN-SkillsNetwork/labs/boston_housing.csv"

// maxDownload caps the response body; the dataset is ~40KB. Larger bodies
// are rejected rather than truncated.
const maxDownload = 32 << 20

// Loader fetches the dataset over HTTP and keeps a local copy.
type Loader struct {
	httpClient *http.Client
	cacheDir   string
	maxBytes   int
}

// NewLoader returns a loader with the given HTTP timeout. An empty cacheDir
// disables caching.
func NewLoader(timeout time.Duration, cacheDir string) *Loader {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Loader{
		httpClient: &http.Client{Timeout: timeout},
		cacheDir:   cacheDir,
		maxBytes:   maxDownload,
	}
}

// Source selects where the table comes from. File takes precedence over URL.
type Source struct {
	File    string
	URL     string
	Refresh bool // ignore the cached copy
}

// Load resolves src into a validated Table.
func (l *Loader) Load(ctx context.Context, src Source) (*Table, error) {
	if src.File != "" {
		return ReadFile(src.File)
	}
	u := src.URL
	if u == "" {
		u = DefaultURL
	}
	if cached := l.cachePath(u); cached != "" && !src.Refresh {
		if data, err := os.ReadFile(cached); err == nil {
			log.WithFields(log.Fields{"url": u, "path": cached}).Debug("using cached dataset")
			return Read(bytes.NewReader(data), u)
		}
	}
	data, err := l.download(ctx, u)
	if err != nil {
		return nil, err
	}
	if cached := l.cachePath(u); cached != "" {
		if err := l.store(cached, data); err != nil {
			log.WithError(err).Warn("could not cache dataset")
		}
	}
	return Read(bytes.NewReader(data), u)
}

// Fetch downloads u into the cache and returns the cached path.
func (l *Loader) Fetch(ctx context.Context, u string) (string, error) {
	if u == "" {
		u = DefaultURL
	}
	cached := l.cachePath(u)
	if cached == "" {
		return "", errors.New("no cache directory configured")
	}
	data, err := l.download(ctx, u)
	if err != nil {
		return "", err
	}
	if _, err := Read(bytes.NewReader(data), u); err != nil {
		return "", err
	}
	if err := l.store(cached, data); err != nil {
		return "", err
	}
	return cached, nil
}

// ReadFile loads a Table from a local CSV file.
func ReadFile(p string) (*Table, error) {
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &DataLoadError{Source: p, Err: fmt.Errorf("file not found: %w", err)}
		}
		return nil, &DataLoadError{Source: p, Err: err}
	}
	defer f.Close()
	return Read(f, p)
}

func (l *Loader) download(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &DataLoadError{Source: u, Err: fmt.Errorf("build request: %w", err)}
	}
	start := time.Now()
	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, &DataLoadError{Source: u, Err: fmt.Errorf("fetch: %w", err)}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, &DataLoadError{Source: u, Err: fmt.Errorf("unexpected status %s: %s", resp.Status, string(b))}
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, int64(l.maxBytes)+1))
	if err != nil {
		return nil, &DataLoadError{Source: u, Err: fmt.Errorf("read body: %w", err)}
	}
	if len(data) > l.maxBytes {
		return nil, &DataLoadError{Source: u, Err: fmt.Errorf("response exceeds %d bytes", l.maxBytes)}
	}
	log.WithFields(log.Fields{
		"url":     u,
		"bytes":   len(data),
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Debug("dataset downloaded")
	return data, nil
}

// cachePath keys the cached copy on the full URL so that two sources sharing
// a file name never collide.
func (l *Loader) cachePath(u string) string {
	if l.cacheDir == "" {
		return ""
	}
	name := "dataset.csv"
	if pu, err := url.Parse(u); err == nil {
		if base := path.Base(pu.Path); base != "" && base != "/" && base != "." {
			name = base
		}
	}
	sum := sha256.Sum256([]byte(u))
	return filepath.Join(l.cacheDir, hex.EncodeToString(sum[:8])+"-"+name)
}

func (l *Loader) store(p string, data []byte) error {
	if err := utils.EnsureDir(filepath.Dir(p)); err != nil {
		return fmt.Errorf("ensure cache dir: %w", err)
	}
	return utils.SafeWriteFile(p, data)
}
