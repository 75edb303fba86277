// Package testkit builds synthetic ELF libraries and archives for tests.
package testkit

import (
	"archive/zip"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/spf13/afero"
)

const (
	elf64HeaderSize = 64
	elf64PhentSize  = 56
	elf32HeaderSize = 52
	elf32PhentSize  = 32
)

// ELF64 returns a little-endian 64-bit shared object whose program headers carry aligns
func ELF64(aligns ...uint64) []byte {
	return ELF64Order(binary.LittleEndian, aligns...)
}

// ELF64Order is ELF64 with an explicit byte order
func ELF64Order(order binary.ByteOrder, aligns ...uint64) []byte {
	buf := make([]byte, elf64HeaderSize+len(aligns)*elf64PhentSize)
	writeIdent(buf, 2, order)
	order.PutUint16(buf[16:], 3) // ET_DYN
	order.PutUint64(buf[32:], elf64HeaderSize)
	order.PutUint16(buf[52:], elf64HeaderSize)
	order.PutUint16(buf[54:], elf64PhentSize)
	order.PutUint16(buf[56:], uint16(len(aligns)))
	for i, align := range aligns {
		ph := buf[elf64HeaderSize+i*elf64PhentSize:]
		order.PutUint32(ph[0:], 1) // PT_LOAD
		order.PutUint64(ph[48:], align)
	}
	return buf
}

// ELF32 returns a 32-bit shared object whose program headers carry aligns
func ELF32(order binary.ByteOrder, aligns ...uint32) []byte {
	buf := make([]byte, elf32HeaderSize+len(aligns)*elf32PhentSize)
	writeIdent(buf, 1, order)
	order.PutUint16(buf[16:], 3)
	order.PutUint32(buf[28:], elf32HeaderSize)
	order.PutUint16(buf[40:], elf32HeaderSize)
	order.PutUint16(buf[42:], elf32PhentSize)
	order.PutUint16(buf[44:], uint16(len(aligns)))
	for i, align := range aligns {
		ph := buf[elf32HeaderSize+i*elf32PhentSize:]
		order.PutUint32(ph[0:], 1)
		order.PutUint32(ph[28:], align)
	}
	return buf
}

func writeIdent(buf []byte, class byte, order binary.ByteOrder) {
	copy(buf, []byte{0x7f, 'E', 'L', 'F'})
	buf[4] = class
	buf[5] = 1
	if order == binary.BigEndian {
		buf[5] = 2
	}
	buf[6] = 1
}

// Entry is one file written into a fixture archive
type Entry struct {
	Name  string
	Data  []byte
	Store bool // write uncompressed
}

// WriteZip creates a zip archive at path on fs with the given entries
func WriteZip(fs afero.Fs, path string, entries ...Entry) error {
	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck // best effort in fixtures

	zw := zip.NewWriter(f)
	for _, e := range entries {
		method := zip.Deflate
		if e.Store {
			method = zip.Store
		}
		w, err := zw.CreateHeader(&zip.FileHeader{Name: e.Name, Method: method, Modified: time.Unix(0, 0)})
		if err != nil {
			return fmt.Errorf("create entry %s: %w", e.Name, err)
		}
		if _, err := w.Write(e.Data); err != nil {
			return fmt.Errorf("write entry %s: %w", e.Name, err)
		}
	}
	return zw.Close()
}

// WriteZipAt is WriteZip followed by setting the archive modification time
func WriteZipAt(fs afero.Fs, path string, modTime time.Time, entries ...Entry) error {
	if err := WriteZip(fs, path, entries...); err != nil {
		return err
	}
	return fs.Chtimes(path, modTime, modTime)
}
