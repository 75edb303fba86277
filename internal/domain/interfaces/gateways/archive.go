// Package gateways defines the ports the domain uses to reach files, archives and remote storage.
package gateways

import (
	"context"

	"github.com/ochairo/pagedoctor/internal/domain/entities"
)

// ArchiveLister enumerates and reads native library entries of zip-based archives.
// Every call re-opens the archive; nothing is cached between calls.
type ArchiveLister interface {
	ListNativeLibraryEntries(archivePath string) ([]string, error)
	ListNativeLibraries(archivePath string) ([]entities.NativeEntry, error)
	ReadEntry(archivePath, entryName string) ([]byte, error)
}

// CandidateFinder locates packaged artifacts in an output directory
type CandidateFinder interface {
	FindCandidates(dir string, kind entities.CandidateKind, extensions []string) ([]entities.Candidate, error)
}

// ArtifactDigester computes the content digest of an artifact file
type ArtifactDigester interface {
	CalculateChecksum(path string) (string, error)
}

// AssembleRunner triggers the host build so that fresh artifacts exist before scanning
type AssembleRunner interface {
	Assemble(ctx context.Context, cfg entities.DoctorConfig) error
}
