package wire

import (
	"os"

	"github.com/tecnicofs/tecnicofs/internal/fsnode"
)

// Apply dispatches a decoded request against fs and returns the status to
// encode into the response datagram. This is the single place request
// opcodes are mapped onto fsnode operations, shared by internal/server (for
// socket requests) and internal/offline (for file-driven commands), so the
// two front ends can never drift in how they interpret the same grammar.
func Apply(fs *fsnode.FS, req Request) fsnode.Status {
	switch req.Op {
	case OpCreate:
		_, status := fs.Create(req.Path, req.Type)
		return status
	case OpDelete:
		return fs.Delete(req.Path)
	case OpLookup:
		return fsnode.Status(fs.Lookup(req.Path))
	case OpMove:
		return fs.Move(req.Path, req.NewPath)
	case OpPrint:
		return applyPrint(fs, req.Path)
	}
	panic("wire: Apply called with undecoded request")
}

// applyPrint opens path on the server's local filesystem and snapshots fs
// into it, grounded in operations.c's print_tecnicofs_tree (fopen, take the
// snapshot role, write, fclose).
func applyPrint(fs *fsnode.FS, path string) fsnode.Status {
	f, err := os.Create(path)
	if err != nil {
		return fsnode.IOFailure
	}
	defer f.Close()
	return fs.Print(f)
}
