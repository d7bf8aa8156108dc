// pkg/wchisp/download.go

package wchisp

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/codeGROOVE-dev/retry"
	cerr "github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

const (
	downloadAttempts = 3
	downloadBackoff  = 2 * time.Second
	downloadMaxWait  = 10 * time.Second
	downloadTimeout  = 5 * time.Minute
)

// DownloadArchive fetches the plan's archive into destDir, returning the
// archive path. An archive already present is reused without a network
// round trip. The body streams to a .partial file that is renamed only
// after a complete read, so an interrupted download never leaves a
// plausible-looking archive behind.
func DownloadArchive(ctx context.Context, log *zap.Logger, plan DownloadPlan, destDir string) (string, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", cerr.Wrapf(err, "creating download directory %s", destDir)
	}

	archivePath := filepath.Join(destDir, plan.AssetName)
	if _, err := os.Stat(archivePath); err == nil {
		log.Debug("Archive already cached", zap.String("path", archivePath))
		return archivePath, nil
	}

	log.Info("Downloading wchisp archive",
		zap.String("asset", plan.AssetName),
		zap.String("url", plan.URL))

	err := retry.Do(func() error {
		return fetchOnce(ctx, plan.URL, archivePath)
	},
		retry.Attempts(downloadAttempts),
		retry.Delay(downloadBackoff),
		retry.MaxDelay(downloadMaxWait),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			log.Warn("Download attempt failed, retrying",
				zap.Uint("attempt", n+1),
				zap.Error(err))
		}))
	if err != nil {
		return "", cerr.Wrapf(err, "downloading %s", plan.URL)
	}
	return archivePath, nil
}

func fetchOnce(ctx context.Context, url, archivePath string) error {
	reqCtx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	partial := archivePath + ".partial"
	f, err := os.OpenFile(partial, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(partial)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(partial)
		return err
	}
	return os.Rename(partial, archivePath)
}
