package httpapi

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/dmitrymomot/coerce"
	"github.com/dmitrymomot/coerce/pkg/schema"
)

// Registry holds compiled schemas by name.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]*coerce.SchemaValidator
}

func NewRegistry() *Registry {
	return &Registry{schemas: make(map[string]*coerce.SchemaValidator)}
}

// Add registers v under name.
func (r *Registry) Add(name string, v *coerce.SchemaValidator) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.schemas[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateSchema, name)
	}
	r.schemas[name] = v
	return nil
}

// Get returns the schema registered under name.
func (r *Registry) Get(name string) (*coerce.SchemaValidator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.schemas[name]
	return v, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.schemas)
}

var schemaExts = []string{".yaml", ".yml", ".json"}

// LoadDir compiles every .yaml, .yml and .json file in dir, named after the
// file without its extension. Every broken file is reported.
func LoadDir(dir string, opts ...coerce.Option) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Join(ErrLoadingSchemas, err)
	}
	reg := NewRegistry()
	var errs []error
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.IsDir() || !slices.Contains(schemaExts, ext) {
			continue
		}
		name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		if err := loadFile(reg, name, filepath.Join(dir, e.Name()), opts); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", e.Name(), err))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(append([]error{ErrLoadingSchemas}, errs...)...)
	}
	return reg, nil
}

func loadFile(reg *Registry, name, path string, opts []coerce.Option) error {
	s, err := schema.LoadFile(path)
	if err != nil {
		return err
	}
	v, err := coerce.New(s, opts...)
	if err != nil {
		return err
	}
	return reg.Add(name, v)
}
