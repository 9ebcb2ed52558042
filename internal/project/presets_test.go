package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/imgslice/internal/model"
)

func TestSaveAndLoadPresets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.json")

	store := model.NewPresetStore()
	p, err := model.NewSlicePreset("Poster", "A2 poster tiles", model.PartitionConfig{SliceWidth: 794, SliceHeight: 1123, Orientation: model.OrientationHorizontal})
	if err != nil {
		t.Fatal(err)
	}
	store.Add(p)

	if err := SavePresets(path, store); err != nil {
		t.Fatalf("SavePresets failed: %v", err)
	}
	loaded, err := LoadPresets(path)
	if err != nil {
		t.Fatalf("LoadPresets failed: %v", err)
	}
	if len(loaded.Presets) != 1 {
		t.Fatalf("expected 1 preset, got %d", len(loaded.Presets))
	}
	if loaded.Presets[0].Name != "Poster" || loaded.Presets[0].Config != p.Config {
		t.Errorf("unexpected preset %+v", loaded.Presets[0])
	}
}

func TestLoadPresetsMissingFile(t *testing.T) {
	store, err := LoadPresets(filepath.Join(t.TempDir(), "none.json"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if store.Presets == nil || len(store.Presets) != 0 {
		t.Errorf("expected empty non-nil presets, got %v", store.Presets)
	}
}

func TestLoadPresetsDropsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.json")
	data := []byte(`{"presets":[
		{"id":"a","name":"Good","config":{"slice_width":10,"slice_height":10,"orientation":"vertical"}},
		{"id":"b","name":"Bad","config":{"slice_width":0,"slice_height":10,"orientation":"vertical"}}
	]}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	store, err := LoadPresets(path)
	if err != nil {
		t.Fatalf("LoadPresets failed: %v", err)
	}
	if len(store.Presets) != 1 || store.Presets[0].Name != "Good" {
		t.Errorf("expected only the valid preset, got %+v", store.Presets)
	}
}

func TestLoadPresetsInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.json")
	if err := os.WriteFile(path, []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPresets(path); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}
