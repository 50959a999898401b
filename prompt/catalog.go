package prompt

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"slidecast/types"
)

// Catalog is a JSON-file store of named style templates. The styles are
// shared read-only across all segments of a run; CRUD happens through
// the API between runs.
type Catalog struct {
	path string
	mu   sync.Mutex
}

// DefaultTemplateID is the style used when a run names an unknown
// template
const DefaultTemplateID = "default-cinematic-1"

var (
	// ErrNotFound reports an unknown template id
	ErrNotFound = errors.New("template not found")

	// ErrNotDeletable protects the seeded default templates from
	// modification and deletion
	ErrNotDeletable = errors.New("default templates cannot be changed")
)

// defaultTemplates seed a fresh catalog. They are not deletable so the
// UI always has something to offer.
func defaultTemplates() []types.StyleTemplate {
	return []types.StyleTemplate{
		{ID: DefaultTemplateID, Name: "Default: Cinematic Shot", Prompt: "cinematic shot, dramatic lighting, high detail, 8k, photorealistic", IsDeletable: false},
		{ID: "default-anime-2", Name: "Default: Anime Style", Prompt: "anime style, vibrant colors, detailed background, key visual, by makoto shinkai", IsDeletable: false},
		{ID: "default-fantasy-3", Name: "Default: Digital Painting (Fantasy)", Prompt: "epic fantasy digital painting, beautiful landscape, detailed, trending on artstation, by greg rutkowski", IsDeletable: false},
	}
}

// NewCatalog opens (or seeds) the catalog at path
func NewCatalog(path string) (*Catalog, error) {
	c := &Catalog{path: path}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, err
		}
		if err := c.write(defaultTemplates()); err != nil {
			return nil, fmt.Errorf("failed to seed prompt catalog: %w", err)
		}
	}

	return c, nil
}

// List returns all templates in stored order
func (c *Catalog) List() ([]types.StyleTemplate, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.read()
}

// Get returns the style string for a template id, or ok=false when the
// id is unknown
func (c *Catalog) Get(id string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	templates, err := c.read()
	if err != nil {
		return "", false
	}
	for _, t := range templates {
		if t.ID == id {
			return t.Prompt, true
		}
	}
	return "", false
}

// Add stores a new deletable template and returns it
func (c *Catalog) Add(name, promptText string) (*types.StyleTemplate, error) {
	if name == "" || promptText == "" {
		return nil, fmt.Errorf("name and prompt must not be empty: %w", types.ErrInvalidInput)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	templates, err := c.read()
	if err != nil {
		return nil, err
	}

	t := types.StyleTemplate{
		ID:          uuid.New().String(),
		Name:        name,
		Prompt:      promptText,
		IsDeletable: true,
	}
	templates = append(templates, t)

	if err := c.write(templates); err != nil {
		return nil, err
	}
	return &t, nil
}

// Update rewrites an existing template. Default templates cannot be
// changed.
func (c *Catalog) Update(id, name, promptText string) error {
	if name == "" || promptText == "" {
		return fmt.Errorf("name and prompt must not be empty: %w", types.ErrInvalidInput)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	templates, err := c.read()
	if err != nil {
		return err
	}

	for i, t := range templates {
		if t.ID != id {
			continue
		}
		if !t.IsDeletable {
			return ErrNotDeletable
		}
		templates[i].Name = name
		templates[i].Prompt = promptText
		return c.write(templates)
	}

	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Delete removes a template. Default templates cannot be deleted.
func (c *Catalog) Delete(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	templates, err := c.read()
	if err != nil {
		return err
	}

	for i, t := range templates {
		if t.ID != id {
			continue
		}
		if !t.IsDeletable {
			return ErrNotDeletable
		}
		return c.write(append(templates[:i], templates[i+1:]...))
	}

	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

func (c *Catalog) read() ([]types.StyleTemplate, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, err
	}
	var templates []types.StyleTemplate
	if err := json.Unmarshal(data, &templates); err != nil {
		return nil, fmt.Errorf("prompt catalog is corrupted: %w", err)
	}
	return templates, nil
}

func (c *Catalog) write(templates []types.StyleTemplate) error {
	data, err := json.MarshalIndent(templates, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, data, 0644)
}
