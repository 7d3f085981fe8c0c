package recipe

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"go.yaml.in/yaml/v3"

	"github.com/matzehuels/recipeflow/pkg/errors"
)

// Format is a recipe file encoding.
type Format string

// Supported recipe encodings.
const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Extensions lists the file extensions recognised by [FormatFromPath].
var Extensions = map[string]Format{
	".toml": FormatTOML,
	".yaml": FormatYAML,
	".yml":  FormatYAML,
	".json": FormatJSON,
}

// lookupOrder is the order [DirStore] tries extensions when several files
// share an ID.
var lookupOrder = []string{".toml", ".yaml", ".yml", ".json"}

// FormatFromPath picks the encoding from a file extension.
func FormatFromPath(path string) (Format, error) {
	if f, ok := Extensions[strings.ToLower(filepath.Ext(path))]; ok {
		return f, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported recipe file: %s (want .toml, .yaml, .yml or .json)", filepath.Base(path))
}

// Decode reads a single recipe from r. A missing ID is derived from the name.
// The decoded recipe is validated before it is returned.
func Decode(r io.Reader, f Format) (*Recipe, error) {
	var rec Recipe
	switch f {
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&rec); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidRecipe, err, "decode toml")
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&rec); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidRecipe, err, "decode yaml")
		}
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&rec); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidRecipe, err, "decode json")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown recipe format: %q", f)
	}

	if rec.ID == "" {
		rec.ID = Slug(rec.Name)
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Encode writes r to w in the given format.
func Encode(w io.Writer, r *Recipe, f Format) error {
	switch f {
	case FormatTOML:
		return toml.NewEncoder(w).Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown recipe format: %q", f)
	}
}

// Load reads a recipe file, choosing the decoder from its extension.
func Load(path string) (*Recipe, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "recipe file %s", path)
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Decode(file, f)
}
