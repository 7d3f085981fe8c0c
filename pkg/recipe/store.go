package recipe

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/matzehuels/recipeflow/pkg/errors"
)

// Source provides recipes. Implementations can be in-memory, file-based or
// backed by a document database.
type Source interface {
	// List returns summaries of all recipes, sorted by name.
	List(ctx context.Context) ([]Summary, error)
	// Get returns a recipe by ID, or an ErrCodeRecipeNotFound error.
	Get(ctx context.Context, id string) (*Recipe, error)
}

// Store is a Source that also accepts writes.
type Store interface {
	Source
	Put(ctx context.Context, r *Recipe) error
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeRecipeNotFound, "recipe %q not found", id)
}

func sortSummaries(out []Summary) {
	slices.SortFunc(out, func(a, b Summary) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

// =============================================================================
// MemoryStore
// =============================================================================

// MemoryStore holds recipes in memory. Safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	recipes map[string]*Recipe
}

// NewMemoryStore creates a store preloaded with the given recipes.
func NewMemoryStore(recipes ...*Recipe) *MemoryStore {
	s := &MemoryStore{recipes: make(map[string]*Recipe, len(recipes))}
	for _, r := range recipes {
		s.recipes[r.ID] = r
	}
	return s
}

// List returns summaries of all stored recipes.
func (s *MemoryStore) List(ctx context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Summary, 0, len(s.recipes))
	for _, r := range s.recipes {
		out = append(out, r.Summarize())
	}
	sortSummaries(out)
	return out, nil
}

// Get returns a recipe by ID.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.recipes[id]
	if !ok {
		return nil, notFound(id)
	}
	return r, nil
}

// Put validates and stores r, replacing any recipe with the same ID.
func (s *MemoryStore) Put(ctx context.Context, r *Recipe) error {
	if r.ID == "" {
		r.ID = Slug(r.Name)
	}
	if err := r.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recipes[r.ID] = r
	return nil
}

// =============================================================================
// DirStore
// =============================================================================

// DirStore serves recipe files from a directory. The recipe ID is the file
// basename without extension; files are re-read on every call so edits show
// up without a restart.
type DirStore struct {
	dir string
}

// NewDirStore creates a store over dir. The directory must exist.
func NewDirStore(dir string) (*DirStore, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "recipe directory %s", dir)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidPath, "%s is not a directory", dir)
	}
	return &DirStore{dir: dir}, nil
}

// List decodes every recipe file in the directory. Files that fail to decode
// are skipped.
func (s *DirStore) List(ctx context.Context) ([]Summary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	var out []Summary
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := Extensions[strings.ToLower(filepath.Ext(e.Name()))]; !ok {
			continue
		}
		r, err := s.load(filepath.Join(s.dir, e.Name()))
		if err != nil {
			continue
		}
		out = append(out, r.Summarize())
	}
	sortSummaries(out)
	return out, nil
}

// Get loads the recipe whose file basename matches id.
func (s *DirStore) Get(ctx context.Context, id string) (*Recipe, error) {
	if err := errors.ValidateRecipeID(id); err != nil {
		return nil, err
	}
	for _, ext := range lookupOrder {
		path := filepath.Join(s.dir, id+ext)
		if _, err := os.Stat(path); err == nil {
			return s.load(path)
		}
	}
	return nil, notFound(id)
}

func (s *DirStore) load(path string) (*Recipe, error) {
	r, err := Load(path)
	if err != nil {
		return nil, err
	}
	r.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return r, nil
}

var (
	_ Store  = (*MemoryStore)(nil)
	_ Source = (*DirStore)(nil)
)
