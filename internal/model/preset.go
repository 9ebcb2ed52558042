package model

import (
	"time"

	"github.com/google/uuid"
)

// SlicePreset is a named, reusable slice configuration.
type SlicePreset struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	CreatedAt   string          `json:"created_at"`
	Config      PartitionConfig `json:"config"`
	BuiltIn     bool            `json:"-"`
}

// NewSlicePreset creates a preset from a validated configuration.
func NewSlicePreset(name, description string, cfg PartitionConfig) (SlicePreset, error) {
	if err := cfg.Validate(); err != nil {
		return SlicePreset{}, err
	}
	return SlicePreset{
		ID:          uuid.New().String()[:8],
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
		Config:      cfg,
	}, nil
}

// Built-in presets. Paper sizes are at 96 dpi, the CSS pixel density.
var BuiltInPresets = []SlicePreset{
	{ID: "screen", Name: "Screen 1920x1000", Description: "Default screen-sized tiles",
		Config: PartitionConfig{SliceWidth: 1920, SliceHeight: 1000, Orientation: OrientationHorizontal}, BuiltIn: true},
	{ID: "a4", Name: "A4 @ 96 dpi", Description: "794 x 1123 px portrait bands",
		Config: PartitionConfig{SliceWidth: 794, SliceHeight: 1123, Orientation: OrientationVertical}, BuiltIn: true},
	{ID: "letter", Name: "Letter @ 96 dpi", Description: "816 x 1056 px portrait bands",
		Config: PartitionConfig{SliceWidth: 816, SliceHeight: 1056, Orientation: OrientationVertical}, BuiltIn: true},
	{ID: "a4-tiles", Name: "A4 tiles @ 96 dpi", Description: "794 x 1123 px poster tiles",
		Config: PartitionConfig{SliceWidth: 794, SliceHeight: 1123, Orientation: OrientationHorizontal}, BuiltIn: true},
}

// PresetStore holds user-defined presets.
type PresetStore struct {
	Presets []SlicePreset `json:"presets"`
}

// NewPresetStore creates an empty preset store.
func NewPresetStore() PresetStore {
	return PresetStore{
		Presets: []SlicePreset{},
	}
}

// Add adds a preset to the store, replacing any user preset with the same name.
func (ps *PresetStore) Add(p SlicePreset) {
	for i := range ps.Presets {
		if ps.Presets[i].Name == p.Name {
			ps.Presets[i] = p
			return
		}
	}
	ps.Presets = append(ps.Presets, p)
}

// Remove removes a preset by ID. Returns true if found and removed.
func (ps *PresetStore) Remove(id string) bool {
	for i, p := range ps.Presets {
		if p.ID == id {
			ps.Presets = append(ps.Presets[:i], ps.Presets[i+1:]...)
			return true
		}
	}
	return false
}

// All returns built-in presets followed by user presets.
func (ps *PresetStore) All() []SlicePreset {
	all := make([]SlicePreset, 0, len(BuiltInPresets)+len(ps.Presets))
	all = append(all, BuiltInPresets...)
	return append(all, ps.Presets...)
}

// Names returns the names of all presets for UI dropdowns.
func (ps *PresetStore) Names() []string {
	all := ps.All()
	names := make([]string, len(all))
	for i, p := range all {
		names[i] = p.Name
	}
	return names
}

// FindByName returns the first preset with the given name, or nil.
// User presets shadow built-ins.
func (ps *PresetStore) FindByName(name string) *SlicePreset {
	for i := range ps.Presets {
		if ps.Presets[i].Name == name {
			return &ps.Presets[i]
		}
	}
	for i := range BuiltInPresets {
		if BuiltInPresets[i].Name == name || BuiltInPresets[i].ID == name {
			p := BuiltInPresets[i]
			return &p
		}
	}
	return nil
}
