package blob

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFSPutURLDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFS(dir, "/files")
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	ctx := context.Background()

	ref, err := store.Put(ctx, strings.NewReader("evidence bytes"), "application/pdf")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if !strings.HasSuffix(ref, ".pdf") {
		t.Fatalf("expected .pdf ref, got %q", ref)
	}

	data, err := os.ReadFile(filepath.Join(dir, ref))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(data) != "evidence bytes" {
		t.Fatalf("unexpected content: %q", data)
	}

	if url := store.URL(ref); url != "/files/"+ref {
		t.Fatalf("unexpected url: %q", url)
	}

	if err := store.Delete(ctx, ref); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, ref)); !os.IsNotExist(err) {
		t.Fatalf("expected file gone, got %v", err)
	}
	// Deleting twice is a no-op.
	if err := store.Delete(ctx, ref); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}

func TestFSDeleteRejectsPathTraversal(t *testing.T) {
	store, err := NewFS(t.TempDir(), "/files")
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	for _, ref := range []string{"", "../escape", "a/b"} {
		if err := store.Delete(context.Background(), ref); err == nil {
			t.Fatalf("expected error for ref %q", ref)
		}
	}
}
