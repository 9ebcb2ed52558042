package project

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/piwi3910/imgslice/internal/model"
)

// DefaultPresetsPath returns the default file path for the presets store.
// This is located at ~/.imgslice/presets.json.
func DefaultPresetsPath() string {
	return filepath.Join(DefaultConfigDir(), "presets.json")
}

// SavePresets writes the preset store to a JSON file.
func SavePresets(path string, store model.PresetStore) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadPresets reads a preset store from a JSON file.
// If the file does not exist, returns an empty store. Presets whose
// configuration is invalid are dropped.
func LoadPresets(path string) (model.PresetStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.NewPresetStore(), nil
		}
		return model.PresetStore{}, err
	}
	var store model.PresetStore
	if err := json.Unmarshal(data, &store); err != nil {
		return model.PresetStore{}, err
	}
	valid := make([]model.SlicePreset, 0, len(store.Presets))
	for _, p := range store.Presets {
		if p.Config.Validate() == nil {
			valid = append(valid, p)
		}
	}
	store.Presets = valid
	return store, nil
}
