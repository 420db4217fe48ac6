// Package fsnode implements the concurrent in-memory filesystem engine:
// the inode table, the path-resolution algorithm, the five filesystem
// operations, and the snapshot coordinator. It has no knowledge of sockets,
// command grammars, or worker pools — those live in internal/wire,
// internal/client, and internal/server.
package fsnode

const (
	// InodeTableSize bounds the number of live inodes, root included.
	InodeTableSize = 50

	// MaxDirEntries bounds how many children a single directory may hold.
	MaxDirEntries = 20

	// MaxName bounds a single path component, excluding the separator.
	MaxName = 100

	// MaxPath bounds a full slash-delimited path as produced by print.
	MaxPath = 1024

	// FreeInode marks a vacant directory-entry slot.
	FreeInode = -1

	// RootInumber is the inumber of the filesystem root, installed at Init.
	RootInumber = 0
)

// Type is the kind of an inode's payload.
type Type int

const (
	// TypeNone marks a table slot that holds no live inode.
	TypeNone Type = iota
	TypeDirectory
	TypeFile
)

func (t Type) String() string {
	switch t {
	case TypeDirectory:
		return "directory"
	case TypeFile:
		return "file"
	default:
		return "none"
	}
}
