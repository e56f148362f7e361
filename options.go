package mangler

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config controls which parts of a document are mangled and how strongly
// path geometry is perturbed. The zero value is not usable; start from
// DefaultConfig and override.
type Config struct {
	// Mangle toggles the individual mangling passes.
	Mangle Toggles `yaml:"mangle"`

	// Path tunes the geometry perturbation.
	Path PathTuning `yaml:"path"`

	// Clipping selects what happens to path edits preceding a clipping
	// operator.
	Clipping ClippingConfig `yaml:"clipping"`

	// Metadata lists which metadata fields survive stripping.
	Metadata MetadataConfig `yaml:"metadata"`
}

// Toggles enables or disables the mangling passes individually.
type Toggles struct {
	// Content gates page and form content-stream mangling as a whole.
	Content bool `yaml:"content"`

	// Text replaces show-text operands with same-category characters.
	Text bool `yaml:"text"`

	// Paths perturbs vector path coordinates.
	Paths bool `yaml:"paths"`

	// Images replaces image pixel data with flat placeholders.
	Images bool `yaml:"images"`

	// JavaScript replaces embedded scripts with an alert stub.
	JavaScript bool `yaml:"javascript"`

	// Metadata strips document info and XMP fields not on the keep list.
	Metadata bool `yaml:"metadata"`

	// Thumbnails deletes page thumbnail images.
	Thumbnails bool `yaml:"thumbnails"`

	// Annotations replaces annotation text and link targets.
	Annotations bool `yaml:"annotations"`

	// OCGNames replaces optional-content group labels.
	OCGNames bool `yaml:"ocg_names"`

	// Outlines replaces bookmark titles.
	Outlines bool `yaml:"outlines"`
}

// PathTuning holds the numeric knobs of the path mangler.
type PathTuning struct {
	// TweakStart also perturbs move-to start points, not just segment
	// endpoints.
	TweakStart bool `yaml:"tweak_start"`

	// MinTweak is the perturbation floor in user-space units, and the
	// near-zero threshold of the background heuristic.
	MinTweak float64 `yaml:"min_tweak"`

	// PercentTweak scales perturbation with segment magnitude.
	PercentTweak float64 `yaml:"percent_tweak"`

	// PercentPageKeep is the fraction of a page dimension beyond which
	// geometry counts as background and is left alone.
	PercentPageKeep float64 `yaml:"percent_page_keep"`
}

// Clipping policies.
const (
	// ClipRestore rolls path edits back to the nearest path start when a
	// clipping operator follows, so the clip region keeps its original
	// geometry.
	ClipRestore = "restore"

	// ClipIgnore leaves the perturbed path in place.
	ClipIgnore = "ignore"
)

// ClippingConfig selects the clipping policy.
type ClippingConfig struct {
	Policy string `yaml:"policy"`
}

// MetadataConfig lists the metadata keep list. A field survives stripping
// when any entry is a substring of its name.
type MetadataConfig struct {
	Keep []string `yaml:"keep"`
}

// DefaultConfig returns the configuration used when no file is given:
// everything mangled, conservative geometry tweaks, clipping restored, and
// the standard technical keep list.
func DefaultConfig() *Config {
	return &Config{
		Mangle: Toggles{
			Content:     true,
			Text:        true,
			Paths:       true,
			Images:      true,
			JavaScript:  true,
			Metadata:    true,
			Thumbnails:  true,
			Annotations: true,
			OCGNames:    true,
			Outlines:    true,
		},
		Path: PathTuning{
			TweakStart:      false,
			MinTweak:        1.0,
			PercentTweak:    0.05,
			PercentPageKeep: 0.75,
		},
		Clipping: ClippingConfig{
			Policy: ClipRestore,
		},
		Metadata: MetadataConfig{
			Keep: []string{
				"format",
				"CreatorTool",
				"CreateDate",
				"RenditionClass",
				"StartupProfile",
				"PDFVersion",
				"HasVisibleTransparency",
				"HasVisibleOverprint",
				"CreatorSubTool",
				"Producer",
			},
		},
	}
}

// LoadConfig loads configuration from a YAML file. Keys absent from the
// file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() error {
	switch c.Clipping.Policy {
	case ClipRestore, ClipIgnore:
	default:
		return fmt.Errorf("unknown clipping policy %q", c.Clipping.Policy)
	}
	if c.Path.MinTweak < 0 || c.Path.PercentTweak < 0 {
		return fmt.Errorf("path tweak values must be non-negative")
	}
	if c.Path.PercentPageKeep <= 0 || c.Path.PercentPageKeep > 1 {
		return fmt.Errorf("percent_page_keep must be in (0, 1], got %g", c.Path.PercentPageKeep)
	}
	return nil
}
