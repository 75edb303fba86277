package services

import (
	"strings"

	"github.com/samber/lo"

	"github.com/ochairo/pagedoctor/internal/domain/entities"
)

// DetectABI returns the first path segment naming a known ABI, or "unknown"
func DetectABI(path string) string {
	for _, segment := range pathSegments(path) {
		if lo.Contains(entities.KnownABIs, segment) {
			return segment
		}
	}
	return entities.UnknownABI
}

// LibraryFileName returns the last segment of an archive or relative path
func LibraryFileName(path string) string {
	segments := pathSegments(path)
	return segments[len(segments)-1]
}

// IsNativeLibrary reports whether a path names a shared object
func IsNativeLibrary(path string) bool {
	return strings.HasSuffix(path, ".so")
}

func pathSegments(path string) []string {
	return strings.Split(strings.ReplaceAll(path, "\\", "/"), "/")
}
