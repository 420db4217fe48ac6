package fsnode

import (
	"bytes"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/kylelemons/godebug/pretty"
)

func TestCreateLookupPrint(t *testing.T) {
	fs := New()
	if _, status := fs.Create("/a", TypeDirectory); !status.Ok() {
		t.Fatalf("Create /a: %v", status)
	}
	if _, status := fs.Create("/a/x", TypeFile); !status.Ok() {
		t.Fatalf("Create /a/x: %v", status)
	}

	if inumber := fs.Lookup("/a/x"); inumber < 0 {
		t.Fatalf("Lookup /a/x = %d, want >= 0", inumber)
	}

	var buf bytes.Buffer
	if status := fs.Print(&buf); !status.Ok() {
		t.Fatalf("Print: %v", status)
	}
	want := "\n/a\n/a/x\n"
	if diff := pretty.Compare(buf.String(), want); diff != "" {
		t.Fatalf("Print output mismatch (-got +want):\n%s", diff)
	}
}

func TestCreateExistingFails(t *testing.T) {
	fs := New()
	fs.Create("/a", TypeDirectory)
	if _, status := fs.Create("/a", TypeDirectory); status != Exists {
		t.Fatalf("Create on existing path = %v, want Exists", status)
	}
}

func TestCreateBadParentFails(t *testing.T) {
	fs := New()
	if _, status := fs.Create("/missing/a", TypeFile); status != BadParent {
		t.Fatalf("Create under missing parent = %v, want BadParent", status)
	}
}

func TestDeleteThenLookupFails(t *testing.T) {
	fs := New()
	fs.Create("/a", TypeDirectory)
	if status := fs.Delete("/a"); !status.Ok() {
		t.Fatalf("Delete: %v", status)
	}
	if inumber := fs.Lookup("/a"); inumber != FreeInode {
		t.Fatalf("Lookup after delete = %d, want FreeInode", inumber)
	}
	if status := fs.Delete("/a"); status != NotFound {
		t.Fatalf("Delete twice = %v, want NotFound", status)
	}
}

func TestDeleteNonEmptyDirFailsAndKeepsChildren(t *testing.T) {
	fs := New()
	fs.Create("/a", TypeDirectory)
	fs.Create("/a/x", TypeFile)

	if status := fs.Delete("/a"); status != NotEmpty {
		t.Fatalf("Delete non-empty dir = %v, want NotEmpty", status)
	}
	if inumber := fs.Lookup("/a/x"); inumber == FreeInode {
		t.Fatal("child should survive a failed delete")
	}

	if status := fs.Delete("/a/x"); !status.Ok() {
		t.Fatalf("Delete /a/x: %v", status)
	}
	if status := fs.Delete("/a"); !status.Ok() {
		t.Fatalf("Delete /a after it's empty: %v", status)
	}
}

func TestMoveRelocatesInumberPreservingIt(t *testing.T) {
	fs := New()
	fs.Create("/a", TypeDirectory)
	fs.Create("/b", TypeDirectory)
	original, _ := fs.Create("/a/x", TypeFile)

	if status := fs.Move("/a/x", "/b/x"); !status.Ok() {
		t.Fatalf("Move: %v", status)
	}
	if inumber := fs.Lookup("/a/x"); inumber != FreeInode {
		t.Fatal("old path should no longer resolve")
	}
	if inumber := fs.Lookup("/b/x"); inumber != original {
		t.Fatalf("new path resolves to %d, want original inumber %d", inumber, original)
	}
}

func TestMoveOntoExistingTargetFails(t *testing.T) {
	fs := New()
	fs.Create("/a", TypeDirectory)
	fs.Create("/b", TypeDirectory)
	fs.Create("/a/x", TypeFile)
	fs.Create("/b/x", TypeFile)

	if status := fs.Move("/a/x", "/b/x"); status != Exists {
		t.Fatalf("Move onto existing = %v, want Exists", status)
	}
	if inumber := fs.Lookup("/a/x"); inumber == FreeInode {
		t.Fatal("source should be untouched by a failed move")
	}
}

func TestMoveDirectoryBeneathItselfIsCycle(t *testing.T) {
	fs := New()
	fs.Create("/a", TypeDirectory)
	fs.Create("/a/b", TypeDirectory)

	if status := fs.Move("/a", "/a/b/a"); status != Cycle {
		t.Fatalf("Move directory under itself = %v, want Cycle", status)
	}
}

func TestMoveSharedAncestorPrefixDoesNotDeadlock(t *testing.T) {
	// Regression test: oldParentPath and newParentPath share a common
	// ancestor ("a"), which previously could self-deadlock when each
	// parent path was resolved as an independent full chain from root.
	fs := New()
	fs.Create("/a", TypeDirectory)
	fs.Create("/a/p", TypeDirectory)
	fs.Create("/a/q", TypeDirectory)
	fs.Create("/a/p/x", TypeFile)

	done := make(chan Status, 1)
	go func() { done <- fs.Move("/a/p/x", "/a/q/x") }()

	select {
	case status := <-done:
		if !status.Ok() {
			t.Fatalf("Move: %v", status)
		}
	case <-time.After(time.Second):
		t.Fatal("Move deadlocked")
	}

	if inumber := fs.Lookup("/a/q/x"); inumber == FreeInode {
		t.Fatal("moved file should resolve at its new path")
	}
}

func TestConcurrentOperationsOnDisjointSubtreesLeaveTreeWellFormed(t *testing.T) {
	fs := New()
	const subtrees = 8
	const opsPerSubtree = 200

	var wg sync.WaitGroup
	for i := 0; i < subtrees; i++ {
		root := "/t" + string(rune('0'+i))
		if _, status := fs.Create(root, TypeDirectory); !status.Ok() {
			t.Fatalf("Create %s: %v", root, status)
		}

		wg.Add(1)
		go func(root string) {
			defer wg.Done()
			for j := 0; j < opsPerSubtree; j++ {
				name := root + "/f" + strconv.Itoa(j)
				fs.Create(name, TypeFile)
				fs.Lookup(name)
				fs.Delete(name)
			}
		}(root)
	}
	wg.Wait()

	for i := 0; i < subtrees; i++ {
		root := "/t" + string(rune('0'+i))
		if inumber := fs.Lookup(root); inumber == FreeInode {
			t.Fatalf("subtree %s vanished", root)
		}
		if status := fs.Delete(root); !status.Ok() {
			t.Fatalf("subtree %s not left empty: %v", root, status)
		}
	}
}
