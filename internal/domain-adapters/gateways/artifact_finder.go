package gateways

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/ochairo/pagedoctor/internal/domain/entities"
)

// ArtifactFinder provides utilities for locating build artifacts
type ArtifactFinder struct {
	fs afero.Fs
}

// NewArtifactFinder creates a new artifact finder
func NewArtifactFinder(fs afero.Fs) *ArtifactFinder {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &ArtifactFinder{fs: fs}
}

// FindCandidates lists the files directly inside dir whose extension matches,
// in directory order. Only directory metadata is read; a missing directory
// yields no candidates.
func (f *ArtifactFinder) FindCandidates(dir string, kind entities.CandidateKind, extensions []string) ([]entities.Candidate, error) {
	infos, err := afero.ReadDir(f.fs, dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var candidates []entities.Candidate
	for _, info := range infos {
		if info.IsDir() || !hasExtension(info.Name(), extensions) {
			continue
		}

		candidates = append(candidates, entities.Candidate{
			Name:    info.Name(),
			Path:    filepath.Join(dir, info.Name()),
			Kind:    kind,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	return candidates, nil
}
