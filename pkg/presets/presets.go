package presets

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/mcteamhub/teamhub/pkg/filter"
)

// Preset is a saved view: a named active filter set without ids, exactly what
// Store.Export produces.
type Preset struct {
	Id      string          `json:"id"`
	Name    string          `json:"name"`
	Filters []filter.Filter `json:"filters"`
}

type PresetStorage interface {
	GetPresets() ([]Preset, error)
	AddPreset(preset Preset) (Preset, error)
	RemovePreset(id string) error
}

type DiskPresetStorage struct {
	Path string
}

type presetFile struct {
	Presets []Preset `json:"presets"`
}

func (s *DiskPresetStorage) readFile(path string, dest any) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return json.NewDecoder(file).Decode(dest)
}

func (s *DiskPresetStorage) writeFile(path string, src any) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return json.NewEncoder(file).Encode(src)
}

func (s *DiskPresetStorage) GetPresets() ([]Preset, error) {
	file := presetFile{}
	err := s.readFile(s.Path, &file)
	if err != nil {
		if os.IsNotExist(err) {
			return []Preset{}, nil
		}
		return nil, err
	}
	return file.Presets, nil
}

func (s *DiskPresetStorage) AddPreset(preset Preset) (Preset, error) {
	existing, err := s.GetPresets()
	if err != nil {
		return preset, err
	}
	if preset.Id == "" {
		preset.Id = uuid.New().String()
	}
	// saved filters never carry insertion ids
	for i := range preset.Filters {
		preset.Filters[i].Id = ""
	}
	kept := make([]Preset, 0, len(existing)+1)
	for _, p := range existing {
		if p.Id != preset.Id {
			kept = append(kept, p)
		}
	}
	file := presetFile{
		Presets: append(kept, preset),
	}
	return preset, s.writeFile(s.Path, file)
}

func (s *DiskPresetStorage) RemovePreset(id string) error {
	existing, err := s.GetPresets()
	if err != nil {
		return err
	}
	kept := make([]Preset, 0, len(existing))
	for _, p := range existing {
		if p.Id != id {
			kept = append(kept, p)
		}
	}
	return s.writeFile(s.Path, presetFile{Presets: kept})
}

// Find returns the preset with the given id.
func Find(storage PresetStorage, id string) (*Preset, error) {
	all, err := storage.GetPresets()
	if err != nil {
		return nil, err
	}
	for _, p := range all {
		if p.Id == id {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("preset %s not found", id)
}
