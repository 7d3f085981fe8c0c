package cache

// ArtifactKeyOpts are the render options that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"`
	Type        string  `json:"type"`
	Mode        string  `json:"mode,omitempty"`
	Width       float64 `json:"width,omitempty"`
	ApexLength  float64 `json:"apex,omitempty"`
	Scale       float64 `json:"scale,omitempty"`
	Detailed    bool    `json:"detailed,omitempty"`
	HideUnused  bool    `json:"hide_unused,omitempty"`
	Interactive bool    `json:"interactive,omitempty"`
	NoTitle     bool    `json:"no_title,omitempty"`
	NoDurations bool    `json:"no_durations,omitempty"`
	Compact     bool    `json:"compact,omitempty"`
	Explain     bool    `json:"explain,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// ArtifactKey returns the key for one rendered output of the recipe
	// whose content fingerprint is given.
	ArtifactKey(fingerprint string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes fingerprint and options into an "artifact:" key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(fingerprint string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", fingerprint, opts)
}
