package store

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"slidecast/types"
)

// KeyStore keeps API credentials in a KEY=VALUE file so they survive
// restarts without living in the repo. Process environment variables
// act as a read-only fallback.
type KeyStore struct {
	path string
	mu   sync.Mutex
}

func NewKeyStore(path string) *KeyStore {
	return &KeyStore{path: path}
}

// Get looks the key up in the file first and falls back to the
// environment
func (s *KeyStore) Get(name string) (string, bool) {
	s.mu.Lock()
	keys, _ := s.read()
	s.mu.Unlock()

	if v, ok := keys[name]; ok && v != "" {
		return v, true
	}
	if v := os.Getenv(name); v != "" {
		return v, true
	}
	return "", false
}

// Set stores or replaces one credential. Empty names and values are
// rejected so a sloppy request cannot wipe a working key.
func (s *KeyStore) Set(name, value string) error {
	name = strings.TrimSpace(name)
	value = strings.TrimSpace(value)
	if name == "" || value == "" {
		return fmt.Errorf("%w: key name and value must not be empty", types.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	keys, err := s.read()
	if err != nil {
		return err
	}
	keys[name] = value
	return s.write(keys)
}

// Names returns the stored key names without values, for masked
// listings
func (s *KeyStore) Names() []string {
	s.mu.Lock()
	keys, _ := s.read()
	s.mu.Unlock()

	names := make([]string, 0, len(keys))
	for n := range keys {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (s *KeyStore) read() (map[string]string, error) {
	keys := map[string]string{}

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return keys, nil
		}
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		keys[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
	return keys, scanner.Err()
}

func (s *KeyStore) write(keys map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}

	names := make([]string, 0, len(keys))
	for n := range keys {
		names = append(names, n)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, n := range names {
		fmt.Fprintf(&b, "%s=%s\n", n, keys[n])
	}
	return os.WriteFile(s.path, []byte(b.String()), 0600)
}
