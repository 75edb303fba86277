package entities

import (
	"path/filepath"
	"runtime"
	"testing"
)

func TestDoctorConfig_ApplyDefaults(t *testing.T) {
	cfg := DoctorConfig{ProjectDir: "/project", Variant: "release", Parallelism: -1}
	cfg.ApplyDefaults()

	if want := filepath.Join("/project", "build", "outputs", "apk", "release"); cfg.PackagesDir != want {
		t.Errorf("PackagesDir = %s, want %s", cfg.PackagesDir, want)
	}
	if want := filepath.Join("/project", "build", "outputs", "bundle", "release"); cfg.BundleDir != want {
		t.Errorf("BundleDir = %s, want %s", cfg.BundleDir, want)
	}
	if cfg.MaxAlignThreshold != DefaultMaxAlign {
		t.Errorf("MaxAlignThreshold = %d", cfg.MaxAlignThreshold)
	}
	if cfg.Parallelism != runtime.GOMAXPROCS(0) {
		t.Errorf("Parallelism = %d", cfg.Parallelism)
	}
	if want := filepath.Join("/project", "build", "pagedoctor", "reports", "final"); cfg.FinalDir() != want {
		t.Errorf("FinalDir() = %s, want %s", cfg.FinalDir(), want)
	}
}

func TestDoctorConfig_ResolvePaths(t *testing.T) {
	cfg := DoctorConfig{
		ProjectDir:        "/project",
		OwnershipDataFile: "owners.yml",
		ReportDir:         "/abs/reports",
		Modules:           []ModuleLibraryDir{{Name: ":app", Dir: "app/src/main/jniLibs"}},
		Dependencies:      []DependencyArtifact{{Coordinate: "g:a:1", Path: "libs/a.aar"}},
	}
	cfg.ResolvePaths()

	if cfg.OwnershipDataFile != filepath.Join("/project", "owners.yml") {
		t.Errorf("OwnershipDataFile = %s", cfg.OwnershipDataFile)
	}
	if cfg.ReportDir != "/abs/reports" {
		t.Errorf("absolute ReportDir changed to %s", cfg.ReportDir)
	}
	if cfg.Modules[0].Dir != filepath.Join("/project", "app", "src", "main", "jniLibs") {
		t.Errorf("module dir = %s", cfg.Modules[0].Dir)
	}
	if cfg.Dependencies[0].Path != filepath.Join("/project", "libs", "a.aar") {
		t.Errorf("dependency path = %s", cfg.Dependencies[0].Path)
	}
	if cfg.PackagesDir != "" {
		t.Errorf("empty PackagesDir should stay empty, got %s", cfg.PackagesDir)
	}
}

func TestDoctorConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     DoctorConfig
		wantErr bool
	}{
		{"defaults", DefaultDoctorConfig(), false},
		{"assemble without command", DoctorConfig{Assemble: true}, true},
		{"assemble with command", DoctorConfig{Assemble: true, AssembleCommand: "./gradlew assembleDebug"}, false},
		{"signature without keyring", DoctorConfig{OwnershipSignatureFile: "owners.yml.asc"}, true},
		{"endpoint without bucket", DoctorConfig{Upload: UploadConfig{Endpoint: "localhost:9000"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDoctorConfig_PolicyCopiesExclusions(t *testing.T) {
	cfg := DoctorConfig{MaxAlignThreshold: 16384, FailOnViolation: true, ABIExclusions: []string{"x86"}}
	policy := cfg.Policy()
	policy.ABIExclusions[0] = "mips"

	if cfg.ABIExclusions[0] != "x86" {
		t.Error("Policy() should not share the exclusion slice")
	}
	if !policy.FailOnViolation || policy.Threshold != 16384 {
		t.Errorf("unexpected policy: %+v", policy)
	}
}

func TestPolicyViolationError(t *testing.T) {
	err := &PolicyViolationError{Count: 3, ReportPath: "final.csv"}
	if got := err.Error(); got != "found 3 non-compliant native libraries (failOnViolation=true), see final.csv" {
		t.Errorf("Error() = %q", got)
	}
}
