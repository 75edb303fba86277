package services

import "testing"

func TestDetectABI(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"lib/arm64-v8a/libfoo.so", "arm64-v8a"},
		{"lib/armeabi-v7a/libbar.so", "armeabi-v7a"},
		{"base/lib/x86_64/libbaz.so", "x86_64"},
		{"jni/x86/libqux.so", "x86"},
		{"arm64-v8a/libfoo.so", "arm64-v8a"},
		{`arm64-v8a\libwin.so`, "arm64-v8a"},
		{"lib/x86_64-extra/libfoo.so", "unknown"},
		{"libfoo.so", "unknown"},
		{"", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := DetectABI(tt.path); got != tt.want {
				t.Errorf("DetectABI(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestLibraryFileName(t *testing.T) {
	tests := map[string]string{
		"lib/arm64-v8a/libfoo.so": "libfoo.so",
		"libfoo.so":               "libfoo.so",
		`x86\libbar.so`:           "libbar.so",
	}
	for in, want := range tests {
		if got := LibraryFileName(in); got != want {
			t.Errorf("LibraryFileName(%q) = %q, want %q", in, got, want)
		}
	}
}
