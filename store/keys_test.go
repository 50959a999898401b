package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"slidecast/types"
)

func TestKeyStoreSetAndGet(t *testing.T) {
	s := NewKeyStore(filepath.Join(t.TempDir(), "api_keys.txt"))

	if err := s.Set("COHERE_API_KEY", "abc123"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set("OTHER_KEY", "xyz"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	v, ok := s.Get("COHERE_API_KEY")
	if !ok || v != "abc123" {
		t.Errorf("Get = %q/%v, want abc123/true", v, ok)
	}

	// overwrite
	if err := s.Set("COHERE_API_KEY", "def456"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if v, _ := s.Get("COHERE_API_KEY"); v != "def456" {
		t.Errorf("Get after overwrite = %q, want def456", v)
	}

	names := s.Names()
	if len(names) != 2 || names[0] != "COHERE_API_KEY" || names[1] != "OTHER_KEY" {
		t.Errorf("Names = %v, want sorted pair", names)
	}
}

func TestKeyStoreRejectsEmpty(t *testing.T) {
	s := NewKeyStore(filepath.Join(t.TempDir(), "api_keys.txt"))

	if err := s.Set("NAME", "  "); !errors.Is(err, types.ErrInvalidInput) {
		t.Errorf("empty value: err = %v, want ErrInvalidInput", err)
	}
	if err := s.Set("", "value"); !errors.Is(err, types.ErrInvalidInput) {
		t.Errorf("empty name: err = %v, want ErrInvalidInput", err)
	}
}

func TestKeyStoreEnvFallback(t *testing.T) {
	s := NewKeyStore(filepath.Join(t.TempDir(), "api_keys.txt"))

	t.Setenv("SLIDECAST_TEST_KEY", "from-env")
	v, ok := s.Get("SLIDECAST_TEST_KEY")
	if !ok || v != "from-env" {
		t.Errorf("Get = %q/%v, want env fallback", v, ok)
	}

	// the file wins over the environment
	if err := s.Set("SLIDECAST_TEST_KEY", "from-file"); err != nil {
		t.Fatal(err)
	}
	if v, _ := s.Get("SLIDECAST_TEST_KEY"); v != "from-file" {
		t.Errorf("Get = %q, want from-file", v)
	}
}

func TestKeyStoreMissing(t *testing.T) {
	s := NewKeyStore(filepath.Join(t.TempDir(), "api_keys.txt"))
	if _, ok := s.Get("NO_SUCH_KEY"); ok {
		t.Error("Get on empty store should report not found")
	}
}

func TestKeyStoreFilePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api_keys.txt")
	s := NewKeyStore(path)
	if err := s.Set("K", "v"); err != nil {
		t.Fatal(err)
	}
	fi, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if fi.Mode().Perm() != 0600 {
		t.Errorf("credential file mode = %o, want 600", fi.Mode().Perm())
	}
}
