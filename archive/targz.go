package archive

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/grovetools/handoff/errors"
)

// Archiver abstracts session-log packaging for testing
type Archiver interface {
	// Pack compresses the single file at srcPath into archivePath.
	Pack(srcPath, archivePath string) error

	// Unpack extracts every regular file in archivePath into destDir and
	// returns the extracted file names.
	Unpack(archivePath, destDir string) ([]string, error)
}

// TarGz is the production Archiver producing gzip-compressed tarballs.
type TarGz struct{}

// Ensure it implements the interface
var _ Archiver = (*TarGz)(nil)

// NewTarGz creates a tar.gz archiver
func NewTarGz() *TarGz {
	return &TarGz{}
}

// Pack writes a tar.gz archive containing exactly one entry: the source
// file, stored under its base name so extraction lands flat in the
// destination directory.
func (a *TarGz) Pack(srcPath, archivePath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeArchiveFailed, "failed to open file for archiving").
			WithDetail("path", srcPath)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeArchiveFailed, "failed to stat file for archiving").
			WithDetail("path", srcPath)
	}

	out, err := os.Create(archivePath)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeArchiveFailed, "failed to create archive").
			WithDetail("path", archivePath)
	}
	defer out.Close()

	gzw := gzip.NewWriter(out)
	tw := tar.NewWriter(gzw)

	header, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeArchiveFailed, "failed to build tar header")
	}
	header.Name = filepath.Base(srcPath)

	if err := tw.WriteHeader(header); err != nil {
		return errors.Wrap(err, errors.ErrCodeArchiveFailed, "failed to write tar header")
	}
	if _, err := io.Copy(tw, src); err != nil {
		return errors.Wrap(err, errors.ErrCodeArchiveFailed, "failed to write archive content")
	}

	// Close in order so trailers land before the file closes
	if err := tw.Close(); err != nil {
		return errors.Wrap(err, errors.ErrCodeArchiveFailed, "failed to finalize tar stream")
	}
	if err := gzw.Close(); err != nil {
		return errors.Wrap(err, errors.ErrCodeArchiveFailed, "failed to finalize gzip stream")
	}
	return out.Close()
}

// Unpack extracts regular files from the archive into destDir. Entry names
// are flattened to their base name; anything trying to escape the
// destination is rejected.
func (a *TarGz) Unpack(archivePath, destDir string) ([]string, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeArchiveFailed, "failed to open archive").
			WithDetail("path", archivePath)
	}
	defer f.Close()

	gzr, err := gzip.NewReader(f)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeArchiveFailed, "archive is not gzip data").
			WithDetail("path", archivePath)
	}
	defer gzr.Close()

	var extracted []string
	tr := tar.NewReader(gzr)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			return extracted, nil
		}
		if err != nil {
			return extracted, errors.Wrap(err, errors.ErrCodeArchiveFailed, "failed to read archive entry")
		}

		if header.Typeflag != tar.TypeReg {
			continue
		}

		name := filepath.Base(header.Name)
		if name == "." || name == ".." || strings.ContainsRune(name, os.PathSeparator) {
			return extracted, errors.New(errors.ErrCodeArchiveFailed,
				fmt.Sprintf("archive entry has unsafe name: %s", header.Name))
		}

		destPath := filepath.Join(destDir, name)
		out, err := os.OpenFile(destPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(header.Mode).Perm())
		if err != nil {
			return extracted, errors.Wrap(err, errors.ErrCodeArchiveFailed, "failed to create extracted file").
				WithDetail("path", destPath)
		}
		if _, err := io.Copy(out, tr); err != nil { //nolint:gosec // single-file session archives
			out.Close()
			return extracted, errors.Wrap(err, errors.ErrCodeArchiveFailed, "failed to extract archive entry").
				WithDetail("path", destPath)
		}
		if err := out.Close(); err != nil {
			return extracted, errors.Wrap(err, errors.ErrCodeArchiveFailed, "failed to close extracted file").
				WithDetail("path", destPath)
		}
		extracted = append(extracted, name)
	}
}
