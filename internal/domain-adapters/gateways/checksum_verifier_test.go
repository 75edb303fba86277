package gateways

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

// TestCalculateChecksum tests SHA256 checksum calculation
func TestCalculateChecksum(t *testing.T) {
	tests := []struct {
		name         string
		content      []byte
		wantChecksum string
	}{
		{
			name:         "empty file",
			content:      []byte(""),
			wantChecksum: "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
		{
			name:         "simple content",
			content:      []byte("Hello, World!"),
			wantChecksum: "dffd6021bb2bd5b0af676290809ec3a53191dd81c7f70a4b28688a362182986f",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			if err := afero.WriteFile(fs, "/app.apk", tt.content, 0o600); err != nil {
				t.Fatalf("Failed to create test file: %v", err)
			}

			checksum, err := NewChecksumVerifier(fs).CalculateChecksum("/app.apk")
			if err != nil {
				t.Fatalf("CalculateChecksum() error = %v", err)
			}
			if checksum != tt.wantChecksum {
				t.Errorf("CalculateChecksum() = %v, want %v", checksum, tt.wantChecksum)
			}
		})
	}
}

// TestCalculateChecksum_OsFs tests hashing through the default filesystem
func TestCalculateChecksum_OsFs(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "app.apk")
	if err := os.WriteFile(testFile, []byte("Hello, World!"), 0o600); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	verifier := NewChecksumVerifier(nil)

	sum, err := verifier.CalculateChecksum(testFile)
	if err != nil {
		t.Fatalf("CalculateChecksum() error = %v", err)
	}
	if sum != "dffd6021bb2bd5b0af676290809ec3a53191dd81c7f70a4b28688a362182986f" {
		t.Errorf("CalculateChecksum() = %v", sum)
	}

	if _, err := verifier.CalculateChecksum(filepath.Join(t.TempDir(), "missing.apk")); err == nil {
		t.Error("CalculateChecksum() with non-existent file should return error")
	}
}
