package storage

import (
	"io"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalBackendPutGetDelete(t *testing.T) {
	backend, err := NewLocalBackend(t.TempDir())
	if err != nil {
		t.Fatalf("new backend: %v", err)
	}
	ctx := t.Context()

	if err := backend.EnsureBucket(ctx); err != nil {
		t.Fatalf("ensure bucket: %v", err)
	}

	content := "hello files"
	if err := backend.Put(ctx, "key.txt", strings.NewReader(content), int64(len(content)), "text/plain"); err != nil {
		t.Fatalf("put: %v", err)
	}

	reader, err := backend.Get(ctx, "key.txt")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	data, err := io.ReadAll(reader)
	_ = reader.Close()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != content {
		t.Fatalf("content = %q, want %q", data, content)
	}

	if err := backend.Delete(ctx, "key.txt"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := backend.Get(ctx, "key.txt"); err == nil {
		t.Fatalf("get after delete succeeded")
	}
}

func TestLocalBackendRejectsEscapingKeys(t *testing.T) {
	backend, err := NewLocalBackend(t.TempDir())
	if err != nil {
		t.Fatalf("new backend: %v", err)
	}

	for _, key := range []string{"", "../outside.txt", "../../etc/passwd"} {
		if err := backend.Put(t.Context(), key, strings.NewReader("x"), 1, ""); err == nil {
			t.Fatalf("Put(%q) accepted an escaping key", key)
		}
	}
}

func TestNewKeyShape(t *testing.T) {
	key := NewKey("report.final.PDF")
	if filepath.Ext(key) != ".PDF" {
		t.Fatalf("extension not preserved: %q", key)
	}
	if strings.Contains(key, "report") {
		t.Fatalf("original name leaked into key: %q", key)
	}

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		k := NewKey("a.txt")
		if seen[k] {
			t.Fatalf("duplicate key generated: %q", k)
		}
		seen[k] = true
	}
}
