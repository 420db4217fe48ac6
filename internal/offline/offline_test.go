package offline

import (
	"context"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/tecnicofs/tecnicofs/internal/fsnode"
)

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestRunSkipsBlankAndCommentLines(t *testing.T) {
	fs := fsnode.New()
	input := strings.NewReader(strings.Join([]string{
		"# this file creates one directory",
		"",
		"c /a d",
		"   # indented comment",
		"l /a",
	}, "\n"))

	if err := Run(context.Background(), fs, input, 2, discardLogger()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if inumber := fs.Lookup("/a"); inumber == fsnode.FreeInode {
		t.Fatal("/a should have been created")
	}
}

func TestRunAppliesCommandsInFileOrderPerDependency(t *testing.T) {
	fs := fsnode.New()
	input := strings.NewReader(strings.Join([]string{
		"c /a d",
		"c /a/x f",
		"m /a/x /a/y",
		"d /a/y",
	}, "\n"))

	// A single worker is required here: with several workers draining the
	// same channel, commands dequeue in file order but apply in whatever
	// order their goroutines get scheduled, and this sequence only makes
	// sense applied in order.
	if err := Run(context.Background(), fs, input, 1, discardLogger()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if inumber := fs.Lookup("/a/y"); inumber != fsnode.FreeInode {
		t.Fatalf("/a/y should have been deleted, got inumber %d", inumber)
	}
}

func TestRunPropagatesDecodeErrors(t *testing.T) {
	fs := fsnode.New()
	input := strings.NewReader("z bogus-opcode")

	if err := Run(context.Background(), fs, input, 1, discardLogger()); err == nil {
		t.Fatal("Run should fail on an undecodable command")
	}
}
