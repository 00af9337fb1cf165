package config

import (
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// OptionSetting is one option application inside a preset, in order.
type OptionSetting struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value,omitempty"`
}

// Preset is a named language configuration: file extensions it claims, block
// role remapping, optional block detector tables, and a list of option
// applications on top of the defaults.
type Preset struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	Extensions  []string `yaml:"extensions,omitempty"`

	MeasureBlock *int `yaml:"measure_block,omitempty"`
	MachineBlock *int `yaml:"machine_block,omitempty"`
	ContentBlock *int `yaml:"content_block,omitempty"`

	// Detectors replaces per-block boundary tables when present. The outer
	// index is the block; nulls keep the default table for that block.
	Detectors []*[]DetectorPair `yaml:"detectors,omitempty"`

	Options []OptionSetting `yaml:"options,omitempty"`
}

// Configure applies the preset onto opts. Block roles are remapped before
// detectors and options so that MACHINE_* style options target the right
// slot.
func (p *Preset) Configure(opts *Options) error {
	if p.MeasureBlock != nil {
		opts.MeasureBlock = *p.MeasureBlock
	}
	if p.MachineBlock != nil {
		opts.MachineBlock = *p.MachineBlock
	}
	if p.ContentBlock != nil {
		opts.ContentBlock = *p.ContentBlock
	}
	for i, table := range p.Detectors {
		if table == nil {
			continue
		}
		for len(opts.Detectors) <= i {
			opts.Detectors = append(opts.Detectors, nil)
		}
		pairs := make([]DetectorPair, len(*table))
		copy(pairs, *table)
		for _, pair := range pairs {
			if err := checkRegex(pair.Start, opts); err != nil {
				return fmt.Errorf("preset %s: detector %d: %w", p.Name, i, err)
			}
			if pair.End != "" {
				if err := checkRegex(pair.End, opts); err != nil {
					return fmt.Errorf("preset %s: detector %d: %w", p.Name, i, err)
				}
			}
		}
		opts.Detectors[i] = pairs
	}
	for _, setting := range p.Options {
		if err := opts.Apply(setting.Name, setting.Value); err != nil {
			return fmt.Errorf("preset %s: %w", p.Name, err)
		}
	}
	return nil
}

// Presets is a loaded preset table with extension resolution.
type Presets struct {
	byName map[string]*Preset
	byExt  map[string]*Preset
}

// LoadPresets reads every YAML preset file from an embedded filesystem.
// Files load in sorted order for deterministic extension claims; duplicate
// preset names or extensions are configuration errors.
func LoadPresets(fsys fs.FS, dir string) (*Presets, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read presets dir %q: %w", dir, err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	ps := &Presets{
		byName: make(map[string]*Preset),
		byExt:  make(map[string]*Preset),
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := dir + "/" + entry.Name()
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		var preset Preset
		if err := yaml.Unmarshal(data, &preset); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		if preset.Name == "" {
			return nil, fmt.Errorf("%s: preset has no name", entry.Name())
		}
		if _, dup := ps.byName[preset.Name]; dup {
			return nil, fmt.Errorf("duplicate preset name %q", preset.Name)
		}

		// Validate eagerly: a preset that cannot configure a default
		// Options is rejected at load, not at measurement time.
		if err := preset.Configure(Defaults()); err != nil {
			return nil, err
		}

		ps.byName[preset.Name] = &preset
		for _, ext := range preset.Extensions {
			ext = strings.ToLower(ext)
			if prev, dup := ps.byExt[ext]; dup {
				return nil, fmt.Errorf("extension %q claimed by %q and %q",
					ext, prev.Name, preset.Name)
			}
			ps.byExt[ext] = &preset
		}
	}
	if _, ok := ps.byName["default"]; !ok {
		return nil, fmt.Errorf("no 'default' preset found")
	}
	return ps, nil
}

// ByName returns the named preset, or nil.
func (ps *Presets) ByName(name string) *Preset {
	return ps.byName[name]
}

// ForExtension resolves a file extension (".go") to its preset. Extensions
// not claimed by any preset fall back to the default preset; FallsBack
// reports whether that happened so the scheduler can choose to skip unknown
// file types.
func (ps *Presets) ForExtension(ext string) (preset *Preset, claimed bool) {
	if p, ok := ps.byExt[strings.ToLower(ext)]; ok {
		return p, true
	}
	return ps.byName["default"], false
}

// Names lists preset names sorted.
func (ps *Presets) Names() []string {
	names := make([]string, 0, len(ps.byName))
	for name := range ps.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuildOptions clones the defaults and applies the preset.
func (ps *Presets) BuildOptions(presetName string) (*Options, error) {
	preset := ps.byName[presetName]
	if preset == nil {
		return nil, fmt.Errorf("unknown preset %q", presetName)
	}
	opts := Defaults()
	if err := preset.Configure(opts); err != nil {
		return nil, err
	}
	return opts, nil
}
