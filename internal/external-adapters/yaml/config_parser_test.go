package yaml

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ochairo/pagedoctor/internal/domain/entities"
)

func TestConfigParser_Parse_Valid(t *testing.T) {
	parser := NewConfigParser()
	yamlData := []byte(`variant: release
scanBundles: true
maxAlignThreshold: 65536
failOnViolation: true
abiExclusions: [armeabi-v7a, x86]
parallelism: 8
assembleCommand: ./gradlew assembleRelease
assembleTimeout: 10m
ownershipDataFile: owners.yml
modules:
  - name: ":app"
    dir: app/src/main/jniLibs
dependencies:
  - coordinate: com.example:player:1.2.0
    path: libs/player.aar
targetLibraries: [libplayer.so]
upload:
  endpoint: localhost:9000
  bucket: reports
  useSSL: false
`)

	cfg, err := parser.Parse(yamlData, entities.DefaultDoctorConfig())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := entities.DefaultDoctorConfig()
	want.Variant = "release"
	want.ScanBundles = true
	want.MaxAlignThreshold = 65536
	want.FailOnViolation = true
	want.ABIExclusions = []string{"armeabi-v7a", "x86"}
	want.Parallelism = 8
	want.AssembleCommand = "./gradlew assembleRelease"
	want.AssembleTimeout = 10 * time.Minute
	want.OwnershipDataFile = "owners.yml"
	want.Modules = []entities.ModuleLibraryDir{{Name: ":app", Dir: "app/src/main/jniLibs"}}
	want.Dependencies = []entities.DependencyArtifact{{Coordinate: "com.example:player:1.2.0", Path: "libs/player.aar"}}
	want.TargetLibraries = []string{"libplayer.so"}
	want.Upload = entities.UploadConfig{Endpoint: "localhost:9000", Bucket: "reports"}

	if diff := cmp.Diff(want, *cfg); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigParser_Parse_KeepsDefaults(t *testing.T) {
	parser := NewConfigParser()

	cfg, err := parser.Parse([]byte("scanPackages: false\n"), entities.DefaultDoctorConfig())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.ScanPackages {
		t.Error("ScanPackages should be overridden to false")
	}
	if cfg.Variant != "debug" {
		t.Errorf("Variant = %q, want debug", cfg.Variant)
	}
	if cfg.MaxAlignThreshold != entities.DefaultMaxAlign {
		t.Errorf("MaxAlignThreshold = %d, want %d", cfg.MaxAlignThreshold, entities.DefaultMaxAlign)
	}
}

func TestConfigParser_Parse_Invalid(t *testing.T) {
	parser := NewConfigParser()

	tests := []struct {
		name string
		data string
	}{
		{"malformed yaml", "variant: [unterminated"},
		{"bad duration", "assembleTimeout: soon"},
		{"zero threshold", "maxAlignThreshold: 0"},
		{"module without dir", "modules:\n  - name: \":app\"\n"},
		{"dependency without path", "dependencies:\n  - coordinate: a:b:1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parser.Parse([]byte(tt.data), entities.DefaultDoctorConfig()); err == nil {
				t.Error("Parse() should return error")
			}
		})
	}
}

func TestConfigParser_ParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pagedoctor.yml")
	if err := os.WriteFile(path, []byte("variant: staging\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewConfigParser().ParseFile(path, entities.DefaultDoctorConfig())
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if cfg.Variant != "staging" {
		t.Errorf("Variant = %q, want staging", cfg.Variant)
	}

	if _, err := NewConfigParser().ParseFile(filepath.Join(t.TempDir(), "missing.yml"), entities.DefaultDoctorConfig()); err == nil {
		t.Error("ParseFile() should fail for a missing file")
	}
}

// FuzzConfigParser checks the parser never panics on arbitrary input
//
// Run with: go test -fuzz=FuzzConfigParser -fuzztime=30s
func FuzzConfigParser(f *testing.F) {
	f.Add([]byte("variant: debug\nscanBundles: true\n"))
	f.Add([]byte("modules:\n  - name: \":app\"\n    dir: jniLibs\n"))
	f.Add([]byte("upload: {endpoint: x, bucket: y}\n"))
	f.Add([]byte(``))
	f.Add([]byte(`[]`))
	f.Add([]byte("parallelism: -1\n"))

	parser := NewConfigParser()

	f.Fuzz(func(_ *testing.T, data []byte) {
		_, _ = parser.Parse(data, entities.DefaultDoctorConfig())
	})
}
