package fileutil

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/imroc/req/v3"
)

type DownloadOptions struct {
	// SHA256 is the expected hex digest. Empty skips verification.
	SHA256 string
	// Progress receives "\r  NN% (x / y KB)" updates when the server sends a
	// Content-Length.
	Progress io.Writer
	Timeout  time.Duration
}

// Download fetches url into dst. The body lands in a temp file beside dst and
// is renamed into place only after the status and checksum check out.
func Download(ctx context.Context, url, dst string, opts DownloadOptions) error {
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".keytick-download-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // cleanup on any error path

	hasher := sha256.New()
	client := req.C()
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	r := client.R().
		SetContext(ctx).
		SetOutput(io.MultiWriter(tmp, hasher))
	if opts.Progress != nil {
		r.SetDownloadCallback(func(info req.DownloadInfo) {
			total := info.Response.ContentLength
			if total <= 0 {
				return
			}
			pct := float64(info.DownloadedSize) / float64(total) * 100
			fmt.Fprintf(opts.Progress, "\r  %.0f%% (%d / %d KB)", pct, info.DownloadedSize/1024, total/1024)
		})
	}

	resp, err := r.Get(url)
	if err != nil {
		tmp.Close()
		return fmt.Errorf("download %s: %w", url, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", tmpPath, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("download %s: %s", url, resp.Status)
	}

	if opts.SHA256 != "" {
		actual := hex.EncodeToString(hasher.Sum(nil))
		if !strings.EqualFold(actual, opts.SHA256) {
			return fmt.Errorf("download %s: %w: got %s, want %s", url, ErrChecksum, short(actual), short(opts.SHA256))
		}
	}

	// CreateTemp makes the file owner-only
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		return fmt.Errorf("install %s: %w", dst, err)
	}
	return nil
}

func short(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
