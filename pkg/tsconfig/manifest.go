// CLAUDE:SUMMARY Manifest YAML schema for a text-search configuration: encoding, locale, and ordered dictionary parameters.
package tsconfig

import (
	"fmt"
	"os"

	"github.com/hazyhaar/tagsearch/pkg/tagdict"
	"gopkg.in/yaml.v3"
)

// Manifest describes one text-search configuration.
type Manifest struct {
	ID          string    `yaml:"id" json:"id"`
	Description string    `yaml:"description" json:"description,omitempty"`
	Encoding    string    `yaml:"encoding" json:"encoding,omitempty"`
	Locale      string    `yaml:"locale" json:"locale,omitempty"`
	Dictionary  ParamList `yaml:"dictionary" json:"dictionary,omitempty"`
}

// ParamList is the ordered list of dictionary parameters. In YAML it is
// either a mapping (split_tags: 1) or a sequence of {name, value} pairs.
// Duplicate mapping keys are kept so that validation can reject them.
type ParamList []tagdict.Param

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *ParamList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.MappingNode:
		params := make([]tagdict.Param, 0, len(value.Content)/2)
		for i := 0; i+1 < len(value.Content); i += 2 {
			k, v := value.Content[i], value.Content[i+1]
			if v.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: dictionary parameter %q must be a scalar", v.Line, k.Value)
			}
			params = append(params, tagdict.Param{Name: k.Value, Value: v.Value})
		}
		*p = params
	case yaml.SequenceNode:
		var params []tagdict.Param
		if err := value.Decode(&params); err != nil {
			return err
		}
		*p = params
	default:
		return fmt.Errorf("line %d: dictionary must be a mapping or a list", value.Line)
	}
	return nil
}

// LoadManifest reads and parses a configuration manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return m, nil
}

// ParseManifest parses manifest YAML.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if m.ID == "" {
		return nil, fmt.Errorf("missing id")
	}
	if m.Encoding == "" {
		m.Encoding = "utf-8"
	}
	return &m, nil
}
