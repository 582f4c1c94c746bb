package clips

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry holds clips by name.
type Registry struct {
	mu    sync.RWMutex
	clips map[string]*Clip
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{clips: make(map[string]*Clip)}
}

// LoadBuiltIn loads all embedded clips into the registry.
func (r *Registry) LoadBuiltIn() error {
	names, err := ListEmbedded()
	if err != nil {
		return err
	}
	for _, name := range names {
		clip, err := LoadEmbedded(name)
		if err != nil {
			return fmt.Errorf("load clip %q: %w", name, err)
		}
		r.Register(clip)
	}
	return nil
}

// LoadDir loads clips from a directory. Clips with an existing name
// replace the registered one.
func (r *Registry) LoadDir(dir string) error {
	clips, err := LoadFromDirectory(dir)
	if err != nil {
		return err
	}
	for _, clip := range clips {
		r.Register(clip)
	}
	return nil
}

// Register adds a clip to the registry.
func (r *Registry) Register(clip *Clip) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clips[clip.Name] = clip
}

// Get retrieves a clip by name.
func (r *Registry) Get(name string) (*Clip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clip, ok := r.clips[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return clip, nil
}

// List returns all registered clip names, sorted alphabetically.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.clips))
	for name := range r.clips {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Descriptions returns every clip name with its description.
func (r *Registry) Descriptions() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]string, len(r.clips))
	for name, clip := range r.clips {
		out[name] = clip.Description
	}
	return out
}

// Count returns the number of registered clips.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clips)
}

// Search finds clips whose name or description contains query,
// ignoring case.
func (r *Registry) Search(query string) []string {
	q := strings.ToLower(query)

	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []string
	for name, clip := range r.clips {
		if strings.Contains(strings.ToLower(name), q) || strings.Contains(strings.ToLower(clip.Description), q) {
			matches = append(matches, name)
		}
	}
	sort.Strings(matches)
	return matches
}
