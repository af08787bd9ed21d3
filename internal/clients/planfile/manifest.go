// Package planfile reads YAML plan manifests naming the starting profile
// and tier tables for a planning run.
package planfile

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/rpg-trainer/internal/clients/tabular"
	"github.com/KirkDiggler/rpg-trainer/internal/errors"
	"github.com/KirkDiggler/rpg-trainer/internal/services/catalogue"
)

// Manifest describes one planning setup. Paths are relative to the
// manifest's directory unless absolute.
//
//	name: youngest_max_stats
//	profile: starting-data.csv
//	tiers:
//	  - name: d
//	    source: D-rank-data.csv
//	upper_bound: 23
type Manifest struct {
	Name string `yaml:"name,omitempty"`

	// Profile is the single starting profile CSV
	Profile string `yaml:"profile,omitempty"`

	// Profiles lists extra named profiles for batch planning
	Profiles []ProfileEntry `yaml:"profiles,omitempty"`

	Tiers []TierEntry `yaml:"tiers"`

	// UpperBound flags longer schedules; 0 disables the check
	UpperBound int `yaml:"upper_bound,omitempty"`

	// RequireUniformTiers defaults to true when absent
	RequireUniformTiers *bool `yaml:"require_uniform_tiers,omitempty"`

	// dir is where relative paths resolve from
	dir string
}

// TierEntry names one tier table
type TierEntry struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source"`
}

// ProfileEntry names one starting profile table
type ProfileEntry struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// Load reads and validates a manifest file
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundf("plan manifest %s not found", path).WithMeta("path", path)
		}
		return nil, errors.Wrapf(err, "failed to read plan manifest %s", path)
	}

	m, err := Parse(bytes.NewReader(data), filepath.Dir(path))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid plan manifest %s", path)
	}
	return m, nil
}

// Parse decodes a manifest whose relative paths resolve against dir.
// Unknown keys are rejected.
func Parse(r io.Reader, dir string) (*Manifest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		if err == io.EOF {
			return nil, errors.InvalidArgument("plan manifest is empty")
		}
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to decode plan manifest")
	}
	m.dir = dir

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the manifest names everything a run needs
func (m *Manifest) Validate() error {
	vb := errors.NewValidationBuilder()

	if m.Profile == "" && len(m.Profiles) == 0 {
		vb.RequiredField("profile")
	}
	for i, p := range m.Profiles {
		if p.Name == "" {
			vb.Fieldf("profiles", "entry %d has no name", i)
		}
		if p.Path == "" {
			vb.Fieldf("profiles", "entry %d has no path", i)
		}
	}

	if len(m.Tiers) == 0 {
		vb.RequiredField("tiers")
	}
	seen := make(map[string]bool, len(m.Tiers))
	for i, t := range m.Tiers {
		if t.Name == "" {
			vb.Fieldf("tiers", "entry %d has no name", i)
		}
		if t.Source == "" {
			vb.Fieldf("tiers", "entry %d has no source", i)
		}
		if seen[t.Name] {
			vb.Fieldf("tiers", "tier %s is listed twice", t.Name)
		}
		seen[t.Name] = true
	}

	errors.ValidateNonNegative("upper_bound", m.UpperBound, vb)

	return vb.Build()
}

// UniformTiersRequired resolves the require_uniform_tiers default
func (m *Manifest) UniformTiersRequired() bool {
	return m.RequireUniformTiers == nil || *m.RequireUniformTiers
}

// Resolve turns a manifest path into one usable from the working directory
func (m *Manifest) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(m.dir, path)
}

// ProfileSource returns the single starting profile table
func (m *Manifest) ProfileSource() tabular.Source {
	if m.Profile == "" {
		return nil
	}
	return tabular.NewCSVFile(m.Resolve(m.Profile))
}

// ProfileEntries returns every named profile. The single profile, when set,
// comes first under the manifest name.
func (m *Manifest) ProfileEntries() []ProfileEntry {
	var out []ProfileEntry
	if m.Profile != "" {
		name := m.Name
		if name == "" {
			name = "profile"
		}
		out = append(out, ProfileEntry{Name: name, Path: m.Resolve(m.Profile)})
	}
	for _, p := range m.Profiles {
		out = append(out, ProfileEntry{Name: p.Name, Path: m.Resolve(p.Path)})
	}
	return out
}

// TierSources returns the tier tables in manifest order
func (m *Manifest) TierSources() []catalogue.TierSource {
	out := make([]catalogue.TierSource, len(m.Tiers))
	for i, t := range m.Tiers {
		out[i] = catalogue.TierSource{
			Name:   t.Name,
			Source: tabular.NewCSVFile(m.Resolve(t.Source)),
		}
	}
	return out
}

// Write encodes the manifest as YAML
func (m *Manifest) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return errors.Wrap(err, "failed to encode plan manifest")
	}
	if err := enc.Close(); err != nil {
		return errors.Wrap(err, "failed to flush plan manifest")
	}
	return nil
}
