package entities

// SourceKind tags who supplies a native library
type SourceKind string

const (
	// SourceKindModule is a library checked into a local module
	SourceKindModule SourceKind = "module"
	// SourceKindDependency is a library shipped inside a resolved dependency archive
	SourceKindDependency SourceKind = "dependency"
	// SourceKindUnknown means no ownership information matched
	SourceKindUnknown SourceKind = "unknown"
)

// UnknownOwner is the owner coordinate used when no record matches a finding
const UnknownOwner = "unknown"

// OwnershipRecord attributes a native library file to the module or dependency supplying it
type OwnershipRecord struct {
	SourceKind         SourceKind
	ModuleOrDependency string
	OwnerCoordinate    string
	FilePath           string // relative path, ABI expected as a leading segment
}

// ModuleLibraryDir is a local directory of prebuilt native libraries owned by a module
type ModuleLibraryDir struct {
	Name string // logical module identity, e.g. ":app"
	Dir  string
}

// DependencyArtifact is a resolved dependency file that may bundle native libraries
type DependencyArtifact struct {
	Coordinate string // group:artifact:version
	Path       string
}

// ParseSourceKind maps a stored source type to its kind; anything unrecognized is unknown
func ParseSourceKind(s string) SourceKind {
	switch SourceKind(s) {
	case SourceKindModule, SourceKindDependency:
		return SourceKind(s)
	default:
		return SourceKindUnknown
	}
}
