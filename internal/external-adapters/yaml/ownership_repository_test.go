package yaml

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"

	"github.com/ochairo/pagedoctor/internal/domain/entities"
)

func TestOwnershipRepository_LoadOwnershipData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "owners.yml")
	data := `owners:
  - filePath: arm64-v8a/libfoo.so
    owner: ":feature-camera"
    kind: module
  - filePath: jni/x86/libplayer.so
    owner: com.example:player:1.2.0
    kind: dependency
    moduleOrDependency: player
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	records, err := NewOwnershipRepository(nil).LoadOwnershipData(context.Background(), path)
	if err != nil {
		t.Fatalf("LoadOwnershipData() error = %v", err)
	}

	want := []entities.OwnershipRecord{
		{SourceKind: entities.SourceKindModule, ModuleOrDependency: ":feature-camera", OwnerCoordinate: ":feature-camera", FilePath: "arm64-v8a/libfoo.so"},
		{SourceKind: entities.SourceKindDependency, ModuleOrDependency: "player", OwnerCoordinate: "com.example:player:1.2.0", FilePath: "jni/x86/libplayer.so"},
	}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Errorf("LoadOwnershipData() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseOwnershipData_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{"malformed", "owners: [", "failed to parse YAML"},
		{"missing owner", "owners:\n  - filePath: x86/liba.so\n    kind: module\n", "needs both filePath and owner"},
		{"bad kind", "owners:\n  - filePath: x86/liba.so\n    owner: a\n    kind: vendor\n", "kind must be"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOwnershipData([]byte(tt.data))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ParseOwnershipData() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestOwnershipRepository_MissingFile(t *testing.T) {
	_, err := NewOwnershipRepository(afero.NewMemMapFs()).LoadOwnershipData(context.Background(), "/nonexistent/owners.yml")
	if err == nil {
		t.Error("LoadOwnershipData() should fail for a missing file")
	}
}

func TestOwnershipRepository_InjectedFs(t *testing.T) {
	fs := afero.NewMemMapFs()
	data := "owners:\n  - filePath: x86_64/libcodec.so\n    owner: \":codec\"\n    kind: module\n"
	if err := afero.WriteFile(fs, "/project/owners.yml", []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	records, err := NewOwnershipRepository(fs).LoadOwnershipData(context.Background(), "/project/owners.yml")
	if err != nil {
		t.Fatalf("LoadOwnershipData() error = %v", err)
	}
	if len(records) != 1 || records[0].OwnerCoordinate != ":codec" || records[0].FilePath != "x86_64/libcodec.so" {
		t.Errorf("LoadOwnershipData() = %+v", records)
	}
}
