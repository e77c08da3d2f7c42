package store

import (
	"path/filepath"
	"testing"
)

func TestKVRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	s, err := Open(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	if _, ok, err := s.Get("missing"); err != nil || ok {
		t.Errorf("Get(missing) = ok=%v err=%v, want absent", ok, err)
	}

	if err := s.Set(KeySession, `{"accessToken":"tok"}`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	value, ok, err := s.Get(KeySession)
	if err != nil || !ok {
		t.Fatalf("Get failed: ok=%v err=%v", ok, err)
	}
	if value != `{"accessToken":"tok"}` {
		t.Errorf("Get = %q", value)
	}
}

func TestKVLastWriterWins(t *testing.T) {
	tmpDir := t.TempDir()
	s, err := Open(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	if err := s.Set(KeyShoppingList, `[]`); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(KeyShoppingList, `[{"id":"local_1_aa"}]`); err != nil {
		t.Fatal(err)
	}
	value, _, err := s.Get(KeyShoppingList)
	if err != nil {
		t.Fatal(err)
	}
	if value != `[{"id":"local_1_aa"}]` {
		t.Errorf("overwrite not applied, got %q", value)
	}
}

func TestKVDelete(t *testing.T) {
	tmpDir := t.TempDir()
	s, err := Open(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	if err := s.Set("k", "v"); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete("k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok, _ := s.Get("k"); ok {
		t.Errorf("key survived delete")
	}
	if err := s.Delete("k"); err != nil {
		t.Errorf("deleting absent key must not fail: %v", err)
	}
}

func TestKVSurvivesReopen(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Set(KeySession, `{"user":null}`); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s2, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	value, ok, err := s2.Get(KeySession)
	if err != nil || !ok {
		t.Fatalf("value lost across reopen: ok=%v err=%v", ok, err)
	}
	if value != `{"user":null}` {
		t.Errorf("Get after reopen = %q", value)
	}
}
