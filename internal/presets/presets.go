// Package presets holds named screening criteria loaded from YAML.
package presets

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/koboriakira/stock-investment-2025/internal/contracts"
)

// File is the YAML document
type File struct {
	Presets []Preset `yaml:"presets" json:"presets"`
}

// Preset is a named set of screening thresholds
type Preset struct {
	Name        string                      `yaml:"name" json:"name"`
	Description string                      `yaml:"description" json:"description"`
	Criteria    contracts.ScreeningCriteria `yaml:"criteria" json:"criteria"`
}

// ValidationError reports the offending field
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func ptr(v float64) *float64 { return &v }

// Builtin presets are always available; a YAML preset with the same name replaces one
var Builtin = []Preset{
	{
		Name:        "value",
		Description: "Reasonably priced with moderate leverage",
		Criteria: contracts.ScreeningCriteria{
			MaxPERatio:      ptr(15),
			MaxDebtToEquity: ptr(100),
		},
	},
	{
		Name:        "quality",
		Description: "High return on equity and healthy liquidity",
		Criteria: contracts.ScreeningCriteria{
			MinROE:          ptr(0.15),
			MinCurrentRatio: ptr(1.5),
			MaxDebtToEquity: ptr(80),
		},
	},
	{
		Name:        "large_cap",
		Description: "Market capitalization of at least 100 billion",
		Criteria: contracts.ScreeningCriteria{
			MinMarketCap: ptr(100_000_000_000),
		},
	},
}

// Parse decodes and validates a presets document. Unknown fields fail.
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode presets: %w", err)
	}

	if err := Validate(&f); err != nil {
		return nil, err
	}
	return &f, nil
}

// Load reads a presets file
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read presets: %w", err)
	}
	return Parse(data)
}

// Validate checks names are unique and thresholds non-negative
func Validate(f *File) error {
	seen := make(map[string]bool, len(f.Presets))
	for i, p := range f.Presets {
		field := fmt.Sprintf("presets[%d]", i)
		if p.Name == "" {
			return ValidationError{field + ".name", "required"}
		}
		if seen[p.Name] {
			return ValidationError{field + ".name", fmt.Sprintf("duplicate preset %q", p.Name)}
		}
		seen[p.Name] = true

		thresholds := map[string]*float64{
			"min_market_cap":     p.Criteria.MinMarketCap,
			"max_pe_ratio":       p.Criteria.MaxPERatio,
			"min_roe":            p.Criteria.MinROE,
			"max_debt_to_equity": p.Criteria.MaxDebtToEquity,
			"min_current_ratio":  p.Criteria.MinCurrentRatio,
		}
		for name, v := range thresholds {
			if v != nil && *v < 0 {
				return ValidationError{field + ".criteria." + name, "must be >= 0"}
			}
		}
	}
	return nil
}

// Hash fingerprints a preset set (canonical JSON)
func Hash(presets []Preset) (string, error) {
	data, err := json.Marshal(presets)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Registry resolves preset names
type Registry struct {
	presets map[string]Preset
}

// NewRegistry merges the built-ins with extra presets
func NewRegistry(extra ...Preset) *Registry {
	r := &Registry{presets: make(map[string]Preset, len(Builtin)+len(extra))}
	for _, p := range Builtin {
		r.presets[p.Name] = p
	}
	for _, p := range extra {
		r.presets[p.Name] = p
	}
	return r
}

// LoadRegistry builds a registry from path; an empty path yields the built-ins
func LoadRegistry(path string) (*Registry, error) {
	if path == "" {
		return NewRegistry(), nil
	}
	f, err := Load(path)
	if err != nil {
		return nil, err
	}
	return NewRegistry(f.Presets...), nil
}

// Get returns a preset or an InvalidRequest error naming the known presets
func (r *Registry) Get(name string) (Preset, error) {
	p, ok := r.presets[name]
	if !ok {
		return Preset{}, contracts.NewInvalidRequest("unknown preset %q, available: %v", name, r.Names())
	}
	return p, nil
}

// Resolve returns the preset criteria overridden by explicit thresholds.
// An empty name returns explicit unchanged.
func (r *Registry) Resolve(name string, explicit contracts.ScreeningCriteria) (contracts.ScreeningCriteria, error) {
	if name == "" {
		return explicit, nil
	}
	p, err := r.Get(name)
	if err != nil {
		return contracts.ScreeningCriteria{}, err
	}
	return p.Criteria.Override(explicit), nil
}

// Names lists presets alphabetically
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.presets))
	for n := range r.presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// All returns presets alphabetically
func (r *Registry) All() []Preset {
	out := make([]Preset, 0, len(r.presets))
	for _, n := range r.Names() {
		out = append(out, r.presets[n])
	}
	return out
}

// Version fingerprints the registry contents so clients can tell when presets changed
func (r *Registry) Version() string {
	h, err := Hash(r.All())
	if err != nil {
		return ""
	}
	return h[:12]
}
