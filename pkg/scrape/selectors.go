package scrape

import (
	"os"

	"gopkg.in/yaml.v3"

	serrors "github.com/hyunsoo-k/speculo/pkg/errors"
)

// SelectorSet maps logical section and field names to document
// locators. Loaded once per acquisition run so selector fixes ship
// without a rebuild.
type SelectorSet map[string]map[string]string

// LoadSelectorSet reads a selector file (section -> field -> locator).
func LoadSelectorSet(path string) (SelectorSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, serrors.Wrap(err, serrors.ErrCodeSelectorLoad, "reading selector file").WithContext("path", path)
	}
	var set SelectorSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, serrors.Wrap(err, serrors.ErrCodeSelectorLoad, "parsing selector YAML").WithContext("path", path)
	}
	return set, nil
}

// Lookup returns the locator for section.field, or "" when absent.
func (s SelectorSet) Lookup(section, field string) string {
	fields, ok := s[section]
	if !ok {
		return ""
	}
	return fields[field]
}

// Section returns all locators under a section. Missing sections yield
// an empty map so callers can range without a nil check.
func (s SelectorSet) Section(name string) map[string]string {
	fields, ok := s[name]
	if !ok {
		return map[string]string{}
	}
	return fields
}
