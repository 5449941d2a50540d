// Package fetch downloads the release candidate artifacts and the
// published KEYS file from a distribution mirror.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/ZebulonRouseFrantzich/relvet/internal/state"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 5 * time.Minute
	// DefaultRetries is the default number of download retries.
	DefaultRetries = 3
	// DefaultUserAgent is the User-Agent header sent with requests.
	DefaultUserAgent = "relvet/1.0 (release candidate verification)"
)

// Downloader fetches URLs over HTTP(S) with retry and atomic writes.
type Downloader struct {
	client    *http.Client
	userAgent string
	retries   int
	log       *zap.SugaredLogger
}

// NewDownloader creates a downloader with the default timeout, retry
// count, and User-Agent.
func NewDownloader(log *zap.SugaredLogger) *Downloader {
	return &Downloader{
		client: &http.Client{
			Timeout: DefaultTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		userAgent: DefaultUserAgent,
		retries:   DefaultRetries,
		log:       log,
	}
}

// BaseURL builds the distribution-mirror URL of the project's release
// area for the given repository tier (dev, release, or test).
func BaseURL(tier, project string, incubating bool) string {
	url := "https://dist.apache.org/repos/dist/" + tier + "/"
	if incubating {
		url += "incubator/"
	}
	return url + project
}

// FetchRelease downloads the source archive, its SHA512 checksum, and
// its detached signature into the release directory derived from the
// State. Missing optional artifacts are not an error here: their absence
// is what the existence checks verify.
func (d *Downloader) FetchRelease(ctx context.Context, baseURL string, st *state.State) error {
	versionRoot := baseURL + "/"
	if st.Module != "" {
		versionRoot += st.Module + "/"
	}
	versionRoot += st.Version

	artifacts := []struct {
		url  string
		dest string
	}{
		{versionRoot + "/" + filepath.Base(st.ArchivePath()), st.ArchivePath()},
		{versionRoot + "/" + filepath.Base(st.ChecksumPath()), st.ChecksumPath()},
		{versionRoot + "/" + filepath.Base(st.SignaturePath()), st.SignaturePath()},
	}
	for _, artifact := range artifacts {
		if err := d.DownloadToFile(ctx, artifact.url, artifact.dest); err != nil {
			d.log.Debugw("artifact not fetched", "url", artifact.url, "error", err)
		}
	}
	return nil
}

// FetchKeys downloads the project's KEYS file. A release cannot be
// verified without it, so failure is returned to the caller.
func (d *Downloader) FetchKeys(ctx context.Context, baseURL string, st *state.State) error {
	if err := d.DownloadToFile(ctx, baseURL+"/KEYS", st.KeysPath()); err != nil {
		return fmt.Errorf("download KEYS file: %w", err)
	}
	return nil
}

// DownloadToFile downloads url to destPath, retrying with exponential
// backoff and renaming a temp file into place on success.
func (d *Downloader) DownloadToFile(ctx context.Context, url, destPath string) error {
	var lastErr error

	for attempt := 0; attempt <= d.retries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if attempt > 0 {
			// Exponential backoff: 1s, 2s, 4s
			backoff := time.Duration(1<<uint(attempt-1)) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		err := d.downloadOnce(ctx, url, destPath)
		if err == nil {
			return nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return ctx.Err()
		}
		// A definitive 404 will not improve with retries.
		var statusErr *statusError
		if errors.As(err, &statusErr) && statusErr.code == http.StatusNotFound {
			return err
		}
	}

	return fmt.Errorf("download failed after %d retries: %w", d.retries, lastErr)
}

type statusError struct{ code int }

func (e *statusError) Error() string { return fmt.Sprintf("unexpected status code: %d", e.code) }

func (d *Downloader) downloadOnce(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &statusError{code: resp.StatusCode}
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("create dest dir: %w", err)
	}

	tmpPath := destPath + ".tmp"
	tmpFile, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	cleanupNeeded := true
	defer func() {
		tmpFile.Close()
		if cleanupNeeded {
			os.Remove(tmpPath)
		}
	}()

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		return fmt.Errorf("copy response body: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	cleanupNeeded = false
	d.log.Debugw("downloaded", "url", url, "dest", destPath)
	return nil
}
