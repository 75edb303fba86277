package entities

import "encoding/binary"

// ElfHeaderInfo holds the ELF header fields needed to walk the program header table
type ElfHeaderInfo struct {
	Is64                   bool
	ByteOrder              binary.ByteOrder
	ProgramHeaderOffset    uint64
	ProgramHeaderEntrySize uint16
	ProgramHeaderCount     uint16
}
