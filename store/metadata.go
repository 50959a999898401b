package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"slidecast/types"
)

// MetadataStore maps rendered output filenames to the settings that
// produced them, as one JSON file next to the videos
type MetadataStore struct {
	path string
	mu   sync.Mutex
}

func NewMetadataStore(path string) *MetadataStore {
	return &MetadataStore{path: path}
}

func (s *MetadataStore) Add(filename string, meta types.OutputMetadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.read()
	if err != nil {
		return err
	}
	all[filename] = meta
	return s.write(all)
}

func (s *MetadataStore) Get(filename string) (types.OutputMetadata, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.read()
	if err != nil {
		return types.OutputMetadata{}, false
	}
	meta, ok := all[filename]
	return meta, ok
}

// All returns the full filename to metadata mapping
func (s *MetadataStore) All() (map[string]types.OutputMetadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// Remove drops the record for filename; unknown filenames are a no-op
func (s *MetadataStore) Remove(filename string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := all[filename]; !ok {
		return nil
	}
	delete(all, filename)
	return s.write(all)
}

func (s *MetadataStore) read() (map[string]types.OutputMetadata, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]types.OutputMetadata{}, nil
		}
		return nil, err
	}

	all := map[string]types.OutputMetadata{}
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	return all, nil
}

func (s *MetadataStore) write(all map[string]types.OutputMetadata) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}
