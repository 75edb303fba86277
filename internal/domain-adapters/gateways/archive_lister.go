// Package gateways provides adapter implementations for archives, files and remote storage.
package gateways

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/spf13/afero"

	"github.com/ochairo/pagedoctor/internal/domain/entities"
	"github.com/ochairo/pagedoctor/internal/domain/services"
)

// ErrEntryNotFound is returned when an archive has no entry with the requested name
var ErrEntryNotFound = errors.New("archive entry not found")

// archiveLister reads zip-based packages (APK, AAB, AAR, JAR, zip)
// Deflate entries are decoded with klauspost/compress instead of compress/flate
type archiveLister struct {
	fs afero.Fs
}

// NewArchiveLister creates a new archive lister over the given filesystem
//
//nolint:revive // unexported-return: Intentionally returns concrete type for testability
func NewArchiveLister(fs afero.Fs) *archiveLister {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &archiveLister{fs: fs}
}

// ListNativeLibraryEntries returns the names of all .so entries in archive order
func (l *archiveLister) ListNativeLibraryEntries(archivePath string) ([]string, error) {
	entries, err := l.ListNativeLibraries(archivePath)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return names, nil
}

// ListNativeLibraries returns all .so entries with their storage details
func (l *archiveLister) ListNativeLibraries(archivePath string) ([]entities.NativeEntry, error) {
	var entries []entities.NativeEntry

	err := l.withReader(archivePath, func(zr *zip.Reader) error {
		for _, f := range zr.File {
			if f.FileInfo().IsDir() || !services.IsNativeLibrary(f.Name) {
				continue
			}
			entries = append(entries, entities.NativeEntry{
				Name:             f.Name,
				Compressed:       f.Method != zip.Store,
				UncompressedSize: f.UncompressedSize64,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// ReadEntry reads the whole content of one entry
func (l *archiveLister) ReadEntry(archivePath, entryName string) ([]byte, error) {
	var data []byte

	err := l.withReader(archivePath, func(zr *zip.Reader) error {
		for _, f := range zr.File {
			if f.Name != entryName {
				continue
			}
			rc, err := f.Open()
			if err != nil {
				return fmt.Errorf("failed to open entry %s: %w", entryName, err)
			}
			//nolint:errcheck // Defer close on read-only entry
			defer rc.Close()

			data, err = io.ReadAll(rc)
			if err != nil {
				return fmt.Errorf("failed to read entry %s: %w", entryName, err)
			}
			return nil
		}
		return fmt.Errorf("%w: %s in %s", ErrEntryNotFound, entryName, archivePath)
	})
	if err != nil {
		return nil, err
	}

	return data, nil
}

// withReader opens the archive, registers the deflate decoder and hands the reader to fn
func (l *archiveLister) withReader(archivePath string, fn func(*zip.Reader) error) error {
	f, err := l.fs.Open(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat archive: %w", err)
	}

	zr, err := zip.NewReader(f, info.Size())
	if err != nil {
		return fmt.Errorf("failed to read archive %s: %w", archivePath, err)
	}
	zr.RegisterDecompressor(zip.Deflate, func(r io.Reader) io.ReadCloser {
		return flate.NewReader(r)
	})

	return fn(zr)
}

// hasExtension reports whether name ends with one of the given extensions (case-insensitive)
func hasExtension(name string, extensions []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range extensions {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}
