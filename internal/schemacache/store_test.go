package schemacache

import (
	"bytes"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "cache", "schema.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGetMissingVersion(t *testing.T) {
	s := openTestStore(t)
	body, err := s.Get(123)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if body != nil {
		t.Errorf("Get on empty store = %q, want nil", body)
	}
}

func TestPutGetOverwrite(t *testing.T) {
	s := openTestStore(t)
	if err := s.Put(1, "http://example.test/items_game.txt", []byte("v1 body")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	body, err := s.Get(1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(body, []byte("v1 body")) {
		t.Errorf("Get = %q, want %q", body, "v1 body")
	}

	// Refetching the same version replaces the stored document.
	if err := s.Put(1, "http://example.test/items_game.txt", []byte("v1 again")); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	body, err = s.Get(1)
	if err != nil {
		t.Fatalf("Get after overwrite: %v", err)
	}
	if !bytes.Equal(body, []byte("v1 again")) {
		t.Errorf("Get after overwrite = %q, want %q", body, "v1 again")
	}
}

func TestPruneKeepsOnlyCurrentVersion(t *testing.T) {
	s := openTestStore(t)
	for v := uint32(1); v <= 5; v++ {
		if err := s.Put(v, "", []byte{byte(v)}); err != nil {
			t.Fatalf("Put %d: %v", v, err)
		}
	}
	if err := s.Prune(3); err != nil {
		t.Fatalf("Prune: %v", err)
	}
	versions, err := s.Versions()
	if err != nil {
		t.Fatalf("Versions: %v", err)
	}
	if len(versions) != 1 || versions[0] != 3 {
		t.Errorf("Versions after prune = %v, want [3]", versions)
	}
}
