package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yourorg/atlas-directory/internal/model"

	"gopkg.in/yaml.v3"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Decode parses a dataset document. An empty format defaults to JSON.
func Decode(raw []byte, format string) (*model.Dataset, error) {
	var ds model.Dataset

	switch strings.ToLower(format) {
	case FormatYAML, "yml":
		if err := yaml.Unmarshal(raw, &ds); err != nil {
			return nil, fmt.Errorf("parse yaml dataset: %w", err)
		}
	case FormatJSON, "":
		dec := json.NewDecoder(bytes.NewReader(raw))
		if err := dec.Decode(&ds); err != nil {
			return nil, fmt.Errorf("parse json dataset: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported dataset format %q", format)
	}

	normalize(&ds)
	return &ds, nil
}

// normalize trims text fields and drops empty or repeated tags
func normalize(ds *model.Dataset) {
	for i := range ds.Categories {
		c := &ds.Categories[i]
		c.ID = strings.TrimSpace(c.ID)
		c.Name = strings.TrimSpace(c.Name)
		c.Tagline = strings.TrimSpace(c.Tagline)
		c.Color = strings.TrimSpace(c.Color)
	}

	for i := range ds.Resources {
		r := &ds.Resources[i]
		r.ID = strings.TrimSpace(r.ID)
		r.Name = strings.TrimSpace(r.Name)
		r.Summary = strings.TrimSpace(r.Summary)
		r.Highlight = strings.TrimSpace(r.Highlight)
		r.URL = strings.TrimSpace(r.URL)
		r.Region = strings.TrimSpace(r.Region)
		r.CategoryID = strings.TrimSpace(r.CategoryID)
		r.Stage = model.Stage(strings.TrimSpace(string(r.Stage)))

		tags := make([]string, 0, len(r.Tags))
		seen := make(map[string]bool, len(r.Tags))
		for _, tag := range r.Tags {
			tag = strings.TrimSpace(tag)
			if tag == "" || seen[tag] {
				continue
			}
			seen[tag] = true
			tags = append(tags, tag)
		}
		r.Tags = tags
	}
}
