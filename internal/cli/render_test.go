package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBasePath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		want   string
	}{
		{"from input", "", "recipes/cookies.toml", "recipes/cookies"},
		{"from id", "", "chocolate-chip-cookies", "chocolate-chip-cookies"},
		{"output with format ext", "out/cookies.svg", "cookies.toml", "out/cookies"},
		{"output without ext", "out/cookies", "cookies.toml", "out/cookies"},
		{"output with other ext", "out/cookies.v2", "cookies.toml", "out/cookies.v2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := basePath(tt.output, tt.input); got != tt.want {
				t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
			}
		})
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name    string
		formats []string
		input   string
		output  string
		want    map[string]string
	}{
		{
			name:    "single format explicit file",
			formats: []string{"png"},
			input:   "cookies.toml",
			output:  "art/cookie-flow.image",
			want:    map[string]string{"png": "art/cookie-flow.image"},
		},
		{
			name:    "single format from input",
			formats: []string{"svg"},
			input:   "cookies.toml",
			want:    map[string]string{"svg": "cookies.svg"},
		},
		{
			name:    "multiple formats share base",
			formats: []string{"svg", "json", "dot"},
			input:   "cookies.toml",
			output:  "out/cookies.svg",
			want:    map[string]string{"svg": "out/cookies.svg", "json": "out/cookies.json", "dot": "out/cookies.dot"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outputPaths(tt.formats, tt.input, tt.output)
			if len(got) != len(tt.want) {
				t.Fatalf("outputPaths() = %v, want %v", got, tt.want)
			}
			for f, p := range tt.want {
				if got[f] != p {
					t.Errorf("outputPaths()[%s] = %q, want %q", f, got[f], p)
				}
			}
		})
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	artifacts := map[string][]byte{
		"svg":  []byte("<svg/>"),
		"json": []byte("{}"),
	}

	paths, err := writeArtifacts(artifacts, []string{"svg", "json"}, "cookies.toml", filepath.Join(dir, "nested", "cookies"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 2 {
		t.Fatalf("wrote %d files, want 2", len(paths))
	}
	for i, f := range []string{"svg", "json"} {
		data, err := os.ReadFile(paths[i])
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != string(artifacts[f]) {
			t.Errorf("%s = %q, want %q", paths[i], data, artifacts[f])
		}
	}
}
