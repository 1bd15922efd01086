package internal

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// SourceClient opens the source image a job refers to.
type SourceClient interface {
	Open(source string) (io.ReadCloser, error)
}

// SourceManager fetches http(s) sources and reads anything else from disk,
// relative to baseDir.
type SourceManager struct {
	baseDir string
	client  HTTPClient
}

func NewSourceClient(baseDir string) SourceClient {
	return &SourceManager{
		baseDir: baseDir,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (mgr *SourceManager) Open(source string) (io.ReadCloser, error) {
	if isURL(source) {
		return mgr.get(source, "image/png, image/jpeg, image/*;q=0.8")
	}
	path := source
	if !filepath.IsAbs(path) {
		path = filepath.Join(mgr.baseDir, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open source %s: %w", path, err)
	}
	return f, nil
}

func (mgr *SourceManager) get(url string, acceptHeader string) (io.ReadCloser, error) {
	log.Printf("Retrieving: %s", url)
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", acceptHeader)

	res, err := mgr.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch from %s: %w", url, err)
	}

	if res.StatusCode > 299 {
		_ = res.Body.Close()
		return nil, fmt.Errorf("http status response from %s: %s", url, res.Status)
	}

	return res.Body, nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
