//go:build integration

package recipe

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"

	"github.com/matzehuels/recipeflow/pkg/errors"
)

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("RECIPEFLOW_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("RECIPEFLOW_TEST_MONGO_URI not set")
	}
	ctx := context.Background()

	s, err := NewMongoStore(ctx, MongoConfig{URI: uri, Database: "recipeflow_test", Collection: "recipes_" + uuid.NewString()[:8]})
	if err != nil {
		t.Fatalf("NewMongoStore() error: %v", err)
	}
	defer s.Close()

	r := Sample()
	if err := s.Put(ctx, r); err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	defer s.Delete(ctx, r.ID)

	got, err := s.Get(ctx, r.ID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if len(got.Instructions) != len(r.Instructions) {
		t.Errorf("instructions = %d, want %d", len(got.Instructions), len(r.Instructions))
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("List() = %+v", list)
	}

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, errors.ErrCodeRecipeNotFound) {
		t.Errorf("Get(missing) error = %v", err)
	}
}
