// Package entities defines core domain models and data structures.
package entities

import "time"

// CandidateKind distinguishes installable packages from bundles
type CandidateKind string

const (
	// CandidateKindPackage is an installable package (.apk)
	CandidateKindPackage CandidateKind = "package"
	// CandidateKindBundle is a publishing bundle (.aab or .zip)
	CandidateKindBundle CandidateKind = "bundle"
)

// Candidate represents a packaged application discovered for scanning
type Candidate struct {
	Name    string
	Path    string
	Kind    CandidateKind
	Size    int64
	ModTime time.Time
}

// PackageExtensions are the file extensions of installable packages
var PackageExtensions = []string{".apk"}

// BundleExtensions are the file extensions of app bundles
var BundleExtensions = []string{".aab", ".zip"}

// DependencyExtensions are the dependency file types that can bundle native libraries
var DependencyExtensions = []string{".aar", ".zip", ".jar"}
