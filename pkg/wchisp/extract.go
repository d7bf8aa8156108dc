// pkg/wchisp/extract.go

package wchisp

import (
	"archive/tar"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"

	cerr "github.com/cockroachdb/errors"

	"github.com/GaspardD78/bmcuflash/pkg/execute"
	"github.com/GaspardD78/bmcuflash/pkg/flash_err"
	"github.com/GaspardD78/bmcuflash/pkg/flash_io"
)

// scanArchiveMembers reads the tarball's member list and rejects
// anything that could escape the install dir: absolute paths, parent
// traversal, links of either kind.
func scanArchiveMembers(archivePath string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return cerr.Wrapf(err, "open archive %s", archivePath)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return cerr.Wrapf(err, "archive %s is not gzip", archivePath)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return cerr.Wrapf(err, "reading archive %s", archivePath)
		}
		name := hdr.Name
		switch {
		case filepath.IsAbs(name):
			return cerr.Newf("archive member has absolute path: %s", name)
		case strings.Contains(name, ".."):
			return cerr.Newf("archive member escapes install dir: %s", name)
		case hdr.Typeflag == tar.TypeLink || hdr.Typeflag == tar.TypeSymlink:
			return cerr.Newf("archive member is a link: %s", name)
		}
	}
}

// extractArchive unpacks the verified archive into installDir, clearing
// any previous contents first.
func extractArchive(rc *flash_io.RuntimeContext, archivePath, installDir string) error {
	if err := scanArchiveMembers(archivePath); err != nil {
		return flash_err.Wrap(err, flash_err.CategoryInternal,
			"refusing to extract suspicious archive "+filepath.Base(archivePath),
			"Delete the archive and re-download from the official release page")
	}

	if err := os.RemoveAll(installDir); err != nil {
		return cerr.Wrapf(err, "clearing install dir %s", installDir)
	}
	if err := os.MkdirAll(installDir, 0o755); err != nil {
		return cerr.Wrapf(err, "creating install dir %s", installDir)
	}

	_, err := execute.Run(rc.Ctx, execute.Options{
		Logger:  rc.Log,
		Command: "tar",
		Args:    []string{"-xzf", archivePath, "-C", installDir},
		Capture: true,
		Quiet:   true,
	})
	if err != nil {
		return cerr.Wrapf(err, "extracting %s", archivePath)
	}
	return nil
}

// locateBinary walks the install dir for the wchisp executable.
func locateBinary(installDir, command string) (string, error) {
	var found string
	err := filepath.Walk(installDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if found == "" && !info.IsDir() && info.Name() == command {
			found = path
		}
		return nil
	})
	if err != nil {
		return "", cerr.Wrapf(err, "scanning install dir %s", installDir)
	}
	if found == "" {
		return "", cerr.Newf("no %s binary found under %s", command, installDir)
	}
	return found, nil
}
