package model

import "time"

// Dataset is an immutable snapshot of the catalog
type Dataset struct {
	Categories []Category `json:"categories" yaml:"categories" validate:"dive"`
	Resources  []Resource `json:"resources" yaml:"resources" validate:"dive"`

	// Set by the repository when the snapshot is published
	Version  int       `json:"version" yaml:"-"`
	LoadedAt time.Time `json:"loaded_at" yaml:"-"`
	Source   string    `json:"source" yaml:"-"`
}

// CategoryByID returns the category with the given id, if any
func (d *Dataset) CategoryByID(id string) (*Category, bool) {
	for i := range d.Categories {
		if d.Categories[i].ID == id {
			return &d.Categories[i], true
		}
	}
	return nil, false
}

// ResourceByID returns the resource with the given id, if any
func (d *Dataset) ResourceByID(id string) (*Resource, bool) {
	for i := range d.Resources {
		if d.Resources[i].ID == id {
			return &d.Resources[i], true
		}
	}
	return nil, false
}

// DatasetInfo describes the currently published snapshot
type DatasetInfo struct {
	Version       int       `json:"version"`
	LoadedAt      time.Time `json:"loaded_at"`
	Source        string    `json:"source"`
	ResourceCount int       `json:"resource_count"`
	CategoryCount int       `json:"category_count"`
}

// Info summarises the dataset
func (d *Dataset) Info() DatasetInfo {
	return DatasetInfo{
		Version:       d.Version,
		LoadedAt:      d.LoadedAt,
		Source:        d.Source,
		ResourceCount: len(d.Resources),
		CategoryCount: len(d.Categories),
	}
}
