package entities

// DefaultMaxAlign is the page size a library must be aligned to by default (16KB)
const DefaultMaxAlign uint64 = 16384

// UnknownABI is reported when no path segment names a known ABI
const UnknownABI = "unknown"

// KnownABIs lists the Android ABI directory names recognized in library paths
var KnownABIs = []string{
	"arm64-v8a",
	"armeabi-v7a",
	"armeabi",
	"x86",
	"x86_64",
	"mips",
	"mips64",
	"riscv64",
}

// Finding is the alignment measurement of one native library inside one artifact
type Finding struct {
	ArtifactName string
	EntryPath    string
	ABI          string
	MaxAlign     uint64
	Compatible   bool
	Compressed   bool // stored deflated inside the archive

	ArtifactSHA256 string // digest of the artifact the entry was read from
}

// NativeEntry describes a native library entry inside a zip-based archive
type NativeEntry struct {
	Name             string
	Compressed       bool
	UncompressedSize uint64
}
