// Package registry loads template catalogs: the admin-authored templates
// shipped with a deployment, in JSON or YAML.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"contract-workers/internal/models"

	"gopkg.in/yaml.v3"
)

type Catalog struct {
	Version   string            `json:"version" yaml:"version"`
	Templates []models.Template `json:"templates" yaml:"templates"`
}

// LoadCatalog reads a catalog file. The format follows the extension;
// anything that is not .yaml or .yml is read as JSON.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cat Catalog
	if isYAML(path) {
		err = yaml.Unmarshal(data, &cat)
	} else {
		err = json.Unmarshal(data, &cat)
	}
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return &cat, nil
}

// Template looks up a catalog entry by id.
func (c *Catalog) Template(id string) (*models.Template, bool) {
	for i := range c.Templates {
		if c.Templates[i].ID == id {
			return &c.Templates[i], true
		}
	}
	return nil, false
}

// LoadSamples reads sample answers keyed by template id. Each entry accepts
// the same shapes as FormData in job variables.
func LoadSamples(path string) (map[string]models.FormData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	raw := map[string]interface{}{}
	if isYAML(path) {
		err = yaml.Unmarshal(data, &raw)
	} else {
		err = json.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("parse samples %s: %w", path, err)
	}

	out := make(map[string]models.FormData, len(raw))
	for id, entry := range raw {
		encoded, err := json.Marshal(entry)
		if err != nil {
			return nil, fmt.Errorf("sample %s: %w", id, err)
		}
		var fd models.FormData
		if err := json.Unmarshal(encoded, &fd); err != nil {
			return nil, fmt.Errorf("sample %s: %w", id, err)
		}
		out[id] = fd
	}
	return out, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
