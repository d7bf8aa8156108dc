// pkg/firmware/artifact.go

// Package firmware locates the firmware image to flash and describes it
// as an immutable artifact.
package firmware

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"sync"
	"time"

	cerr "github.com/cockroachdb/errors"
)

// Artifact is a firmware file snapshot taken at selection time. The
// checksum is computed lazily on first request and cached; the artifact
// never re-reads the file after that.
type Artifact struct {
	Path    string
	Size    int64
	ModTime time.Time

	shaOnce sync.Once
	sha     string
	shaErr  error
}

// NewArtifact stats the file and captures its size and mtime.
func NewArtifact(path string) (*Artifact, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, cerr.Wrapf(err, "stat firmware %s", path)
	}
	if info.IsDir() {
		return nil, cerr.Newf("firmware path %s is a directory", path)
	}
	return &Artifact{Path: path, Size: info.Size(), ModTime: info.ModTime()}, nil
}

// SHA256 returns the hex digest of the firmware contents, computing it
// at most once.
func (a *Artifact) SHA256() (string, error) {
	a.shaOnce.Do(func() {
		f, err := os.Open(a.Path)
		if err != nil {
			a.shaErr = cerr.Wrapf(err, "open firmware %s", a.Path)
			return
		}
		defer f.Close()
		h := sha256.New()
		if _, err := io.Copy(h, f); err != nil {
			a.shaErr = cerr.Wrapf(err, "hashing firmware %s", a.Path)
			return
		}
		a.sha = hex.EncodeToString(h.Sum(nil))
	})
	return a.sha, a.shaErr
}
