// Package wire implements the textual command grammar spoken over the
// TecnicoFS datagram socket: one request per datagram (an opcode letter plus
// space-separated arguments), one response per datagram (a decimal status).
// Grounded in tecnicofs-client-api.c's string building on the client side
// and operations.c's apply_command parsing on the server side, collapsed
// here into a single decode/encode pair shared by both internal/client and
// internal/server.
package wire

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tecnicofs/tecnicofs/internal/fsnode"
)

// Op identifies a parsed request's opcode.
type Op byte

const (
	OpCreate Op = 'c'
	OpDelete Op = 'd'
	OpLookup Op = 'l'
	OpMove   Op = 'm'
	OpPrint  Op = 'p'
)

// Request is a decoded datagram. Only the fields relevant to Op are
// populated; zero values elsewhere.
type Request struct {
	Op      Op
	Path    string      // create, delete, lookup, print (as the output file path)
	Type    fsnode.Type // create only
	NewPath string      // move only
}

// MaxDatagram bounds a single request or response payload, matching
// spec.md §6's "bounded in length" path requirement plus room for the
// opcode and a second path. Receivers read into a MaxDatagram-sized buffer,
// so a longer datagram reaches Decode truncated to MaxDatagram bytes.
const MaxDatagram = 2*fsnode.MaxPath + 16

// Decode parses a request datagram's textual command. line must already
// have its trailing newline (if any) stripped. A `#`-prefixed or blank line
// is not a Request at all — callers (internal/offline) filter those out
// before reaching Decode, mirroring ex2/main.c's producer skipping comments
// before ever enqueueing them.
func Decode(line string) (Request, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Request{}, fmt.Errorf("wire: empty command")
	}

	switch Op(fields[0][0]) {
	case OpCreate:
		if len(fields) != 3 {
			return Request{}, fmt.Errorf("wire: create wants 2 arguments, got %d", len(fields)-1)
		}
		kind, err := decodeType(fields[2])
		if err != nil {
			return Request{}, err
		}
		return Request{Op: OpCreate, Path: fields[1], Type: kind}, nil

	case OpDelete:
		if len(fields) != 2 {
			return Request{}, fmt.Errorf("wire: delete wants 1 argument, got %d", len(fields)-1)
		}
		return Request{Op: OpDelete, Path: fields[1]}, nil

	case OpLookup:
		if len(fields) != 2 {
			return Request{}, fmt.Errorf("wire: lookup wants 1 argument, got %d", len(fields)-1)
		}
		return Request{Op: OpLookup, Path: fields[1]}, nil

	case OpMove:
		if len(fields) != 3 {
			return Request{}, fmt.Errorf("wire: move wants 2 arguments, got %d", len(fields)-1)
		}
		return Request{Op: OpMove, Path: fields[1], NewPath: fields[2]}, nil

	case OpPrint:
		if len(fields) != 2 {
			return Request{}, fmt.Errorf("wire: print wants 1 argument, got %d", len(fields)-1)
		}
		return Request{Op: OpPrint, Path: fields[1]}, nil
	}

	return Request{}, fmt.Errorf("wire: unknown opcode %q", fields[0])
}

func decodeType(s string) (fsnode.Type, error) {
	switch s {
	case "f":
		return fsnode.TypeFile, nil
	case "d":
		return fsnode.TypeDirectory, nil
	}
	return fsnode.TypeNone, fmt.Errorf("wire: unknown type %q, want f or d", s)
}

// Encode renders req back into the wire form, the inverse of Decode. Used
// by internal/client to build the datagram it sends.
func Encode(req Request) string {
	switch req.Op {
	case OpCreate:
		t := "f"
		if req.Type == fsnode.TypeDirectory {
			t = "d"
		}
		return fmt.Sprintf("%c %s %s", req.Op, req.Path, t)
	case OpMove:
		return fmt.Sprintf("%c %s %s", req.Op, req.Path, req.NewPath)
	default:
		return fmt.Sprintf("%c %s", req.Op, req.Path)
	}
}

// EncodeStatus renders a response datagram's payload: a bare decimal
// integer, success (inumber or 0) non-negative, failure negative.
func EncodeStatus(s fsnode.Status) string {
	return strconv.Itoa(int(s))
}

// DecodeStatus parses a response datagram's payload, the inverse of
// EncodeStatus.
func DecodeStatus(payload string) (fsnode.Status, error) {
	n, err := strconv.Atoi(strings.TrimSpace(payload))
	if err != nil {
		return 0, fmt.Errorf("wire: malformed status %q: %w", payload, err)
	}
	return fsnode.Status(n), nil
}

// IsComment reports whether line is a comment or blank line under offline
// mode's grammar (spec.md §6: "#…: comment, ignored (only in offline
// mode)"). Grounded in ex2/main.c's producer, which skips both before
// enqueueing.
func IsComment(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "" || strings.HasPrefix(trimmed, "#")
}
