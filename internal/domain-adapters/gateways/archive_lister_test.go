package gateways

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/ochairo/pagedoctor/internal/domain/entities"
	"github.com/ochairo/pagedoctor/internal/testkit"
)

func newTestArchive(t *testing.T) (afero.Fs, string) {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/out", 0o755))

	path := "/out/app-debug.apk"
	require.NoError(t, testkit.WriteZip(fs, path,
		testkit.Entry{Name: "AndroidManifest.xml", Data: []byte("<manifest/>")},
		testkit.Entry{Name: "lib/arm64-v8a/libok.so", Data: testkit.ELF64(4096, 16384)},
		testkit.Entry{Name: "lib/armeabi-v7a/libbad.so", Data: testkit.ELF64(4096), Store: true},
		testkit.Entry{Name: "lib/x86/libnotes.so.txt", Data: []byte("not a library")},
	))
	return fs, path
}

// TestArchiveLister_ListNativeLibraryEntries tests .so filtering and archive order
func TestArchiveLister_ListNativeLibraryEntries(t *testing.T) {
	fs, path := newTestArchive(t)
	lister := NewArchiveLister(fs)

	names, err := lister.ListNativeLibraryEntries(path)
	require.NoError(t, err)
	require.Equal(t, []string{"lib/arm64-v8a/libok.so", "lib/armeabi-v7a/libbad.so"}, names)
}

// TestArchiveLister_ListNativeLibraries tests the compressed flag
func TestArchiveLister_ListNativeLibraries(t *testing.T) {
	fs, path := newTestArchive(t)
	lister := NewArchiveLister(fs)

	entries, err := lister.ListNativeLibraries(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	require.True(t, entries[0].Compressed)
	require.False(t, entries[1].Compressed)
	require.Equal(t, uint64(len(testkit.ELF64(4096))), entries[1].UncompressedSize)
}

// TestArchiveLister_ReadEntry tests reading deflated and stored entries
func TestArchiveLister_ReadEntry(t *testing.T) {
	fs, path := newTestArchive(t)
	lister := NewArchiveLister(fs)

	data, err := lister.ReadEntry(path, "lib/arm64-v8a/libok.so")
	require.NoError(t, err)
	require.Equal(t, testkit.ELF64(4096, 16384), data)

	data, err = lister.ReadEntry(path, "lib/armeabi-v7a/libbad.so")
	require.NoError(t, err)
	require.Equal(t, testkit.ELF64(4096), data)
}

// TestArchiveLister_ReadEntry_NotFound tests the missing entry sentinel
func TestArchiveLister_ReadEntry_NotFound(t *testing.T) {
	fs, path := newTestArchive(t)
	lister := NewArchiveLister(fs)

	_, err := lister.ReadEntry(path, "lib/x86/libghost.so")
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrEntryNotFound))
}

// TestArchiveLister_InvalidArchive tests errors on missing and corrupt archives
func TestArchiveLister_InvalidArchive(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/broken.apk", []byte("not a zip"), 0o644))
	lister := NewArchiveLister(fs)

	tests := []struct {
		name string
		path string
	}{
		{"missing file", "/missing.apk"},
		{"not a zip", "/broken.apk"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := lister.ListNativeLibraryEntries(tt.path)
			require.Error(t, err)
			require.False(t, errors.Is(err, ErrEntryNotFound))
		})
	}
}

// TestArchiveLister_EmptyArchive tests an archive without native libraries
func TestArchiveLister_EmptyArchive(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, testkit.WriteZip(fs, "/empty.aab", testkit.Entry{Name: "base/manifest/AndroidManifest.xml", Data: []byte("x")}))

	entries, err := NewArchiveLister(fs).ListNativeLibraries("/empty.aab")
	require.NoError(t, err)
	require.Empty(t, entries)
	require.IsType(t, []entities.NativeEntry(nil), entries)
}
