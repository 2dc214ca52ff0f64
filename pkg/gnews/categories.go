package gnews

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// TopicBreakingNews is the remote topic every unknown category resolves to.
const TopicBreakingNews = "breaking-news"

// Category maps a reader-facing tab to the remote API's topic identifier.
type Category struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
	Topic string `json:"topic" yaml:"topic"`
}

// Registry holds the loaded category set and resolves ids to topics.
type Registry struct {
	categories []Category
	index      map[string]Category
}

type registryFile struct {
	Categories []Category `json:"categories" yaml:"categories"`
}

// DefaultCategories returns the built-in reader tabs.
func DefaultCategories() *Registry {
	reg, err := newRegistry([]Category{
		{ID: "general", Label: "General", Topic: TopicBreakingNews},
		{ID: "business", Label: "Business", Topic: "business"},
		{ID: "sports", Label: "Sports", Topic: "sports"},
		{ID: "technology", Label: "Technology", Topic: "technology"},
	})
	if err != nil {
		panic(err) // built-in set is statically valid
	}
	return reg
}

// All returns a copy of the registered categories in declaration order.
func (r *Registry) All() []Category {
	if r == nil || len(r.categories) == 0 {
		return nil
	}
	out := make([]Category, len(r.categories))
	copy(out, r.categories)
	return out
}

// TopicFor resolves a category id (case-insensitive) to its remote topic.
// Anything not registered falls back to breaking-news, matching the reader's
// behavior of treating unknown tabs as the General feed.
func (r *Registry) TopicFor(id string) string {
	if r == nil {
		return TopicBreakingNews
	}
	c, ok := r.index[normalizeCategoryID(id)]
	if !ok {
		return TopicBreakingNews
	}
	return c.Topic
}

// Has reports whether a category id is registered.
func (r *Registry) Has(id string) bool {
	if r == nil {
		return false
	}
	_, ok := r.index[normalizeCategoryID(id)]
	return ok
}

// LoadCategories loads a category registry from a YAML or JSON file.
func LoadCategories(path string) (*Registry, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("categories file path is empty")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read categories file: %w", err)
	}

	parsed, err := parseRegistryFile(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(parsed.Categories) == 0 {
		return nil, errors.New("categories file contains no categories entries")
	}

	return newRegistry(parsed.Categories)
}

func newRegistry(categories []Category) (*Registry, error) {
	idx := make(map[string]Category, len(categories))
	out := make([]Category, 0, len(categories))
	for i, c := range categories {
		c.ID = normalizeCategoryID(c.ID)
		c.Label = strings.TrimSpace(c.Label)
		c.Topic = strings.TrimSpace(c.Topic)
		if c.ID == "" {
			return nil, fmt.Errorf("category[%d]: id is empty", i)
		}
		if c.Topic == "" {
			return nil, fmt.Errorf("category %q: topic is empty", c.ID)
		}
		if _, exists := idx[c.ID]; exists {
			return nil, fmt.Errorf("duplicate category id %q", c.ID)
		}
		idx[c.ID] = c
		out = append(out, c)
	}
	return &Registry{categories: out, index: idx}, nil
}

type unmarshalFn func([]byte, interface{}) error

func parseRegistryFile(data []byte, ext string) (registryFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   unmarshalFn
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	var lastErr error
	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var parsed registryFile
		if err := d.fn(data, &parsed); err != nil {
			lastErr = fmt.Errorf("parse categories as %s: %w", d.name, err)
			continue
		}
		return parsed, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("unsupported categories file extension %q", ext)
	}
	return registryFile{}, lastErr
}

func normalizeCategoryID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
