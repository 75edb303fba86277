// Package services implements domain business logic and use cases.
package services

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ochairo/pagedoctor/internal/domain/entities"
)

// ELF identification and header layout (System V gABI)
const (
	elfIdentSize   = 16
	elfClassOffset = 4
	elfDataOffset  = 5

	elfClass32 = 1
	elfClass64 = 2
	elfDataLSB = 1
	elfDataMSB = 2

	elf32HeaderSize      = 52
	elf32PhoffOffset     = 28
	elf32PhentsizeOffset = 42
	elf32PhnumOffset     = 44
	elf32PalignOffset    = 28

	elf64HeaderSize      = 64
	elf64PhoffOffset     = 32
	elf64PhentsizeOffset = 54
	elf64PhnumOffset     = 56
	elf64PalignOffset    = 48
)

var elfMagic = []byte{0x7f, 'E', 'L', 'F'}

// ErrMalformedElf is wrapped by every ParseElfHeader failure
var ErrMalformedElf = errors.New("malformed ELF")

// ParseElfHeader reads the fields needed to walk the program header table
func ParseElfHeader(data []byte) (*entities.ElfHeaderInfo, error) {
	if len(data) < elfIdentSize {
		return nil, fmt.Errorf("%w: %d bytes, need at least %d", ErrMalformedElf, len(data), elfIdentSize)
	}
	if !bytes.Equal(data[:len(elfMagic)], elfMagic) {
		return nil, fmt.Errorf("%w: bad magic % x", ErrMalformedElf, data[:len(elfMagic)])
	}

	info := &entities.ElfHeaderInfo{}
	switch data[elfDataOffset] {
	case elfDataLSB:
		info.ByteOrder = binary.LittleEndian
	case elfDataMSB:
		info.ByteOrder = binary.BigEndian
	default:
		return nil, fmt.Errorf("%w: unsupported data encoding %d", ErrMalformedElf, data[elfDataOffset])
	}

	order := info.ByteOrder
	switch data[elfClassOffset] {
	case elfClass32:
		if len(data) < elf32HeaderSize {
			return nil, fmt.Errorf("%w: truncated ELF32 header (%d bytes)", ErrMalformedElf, len(data))
		}
		info.ProgramHeaderOffset = uint64(order.Uint32(data[elf32PhoffOffset:]))
		info.ProgramHeaderEntrySize = order.Uint16(data[elf32PhentsizeOffset:])
		info.ProgramHeaderCount = order.Uint16(data[elf32PhnumOffset:])
	case elfClass64:
		if len(data) < elf64HeaderSize {
			return nil, fmt.Errorf("%w: truncated ELF64 header (%d bytes)", ErrMalformedElf, len(data))
		}
		info.Is64 = true
		info.ProgramHeaderOffset = order.Uint64(data[elf64PhoffOffset:])
		info.ProgramHeaderEntrySize = order.Uint16(data[elf64PhentsizeOffset:])
		info.ProgramHeaderCount = order.Uint16(data[elf64PhnumOffset:])
	default:
		return nil, fmt.Errorf("%w: unsupported class %d", ErrMalformedElf, data[elfClassOffset])
	}

	return info, nil
}

// MaxAlignment returns the largest p_align across all program headers.
// Malformed input yields 0. A program header table running past the end of
// data yields the maximum of the headers that fit.
func MaxAlignment(data []byte) uint64 {
	info, err := ParseElfHeader(data)
	if err != nil {
		return 0
	}
	return maxProgramHeaderAlign(data, info)
}

func maxProgramHeaderAlign(data []byte, info *entities.ElfHeaderInfo) uint64 {
	fieldOffset, fieldSize := uint64(elf32PalignOffset), uint64(4)
	if info.Is64 {
		fieldOffset, fieldSize = elf64PalignOffset, 8
	}

	size := uint64(len(data))
	entSize := uint64(info.ProgramHeaderEntrySize)
	if entSize < fieldOffset+fieldSize {
		return 0
	}

	var maxAlign uint64
	start := info.ProgramHeaderOffset
	for i := uint16(0); i < info.ProgramHeaderCount; i++ {
		// start <= size keeps size-start from wrapping
		if start > size || entSize > size-start {
			break
		}

		field := data[start+fieldOffset : start+fieldOffset+fieldSize]
		var align uint64
		if info.Is64 {
			align = info.ByteOrder.Uint64(field)
		} else {
			align = uint64(info.ByteOrder.Uint32(field))
		}
		if align > maxAlign {
			maxAlign = align
		}

		start += entSize
	}

	return maxAlign
}

// IsCompatible reports whether an alignment satisfies the threshold
func IsCompatible(maxAlign, threshold uint64) bool {
	return maxAlign >= threshold
}
