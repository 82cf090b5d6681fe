package mapping

import (
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/openkraft/fqcnkraft/internal/domain"
)

// FlatSection is the top-level key holding a flat short-name to FQCN dict.
const FlatSection = "mappings"

// ReservedSections are recognized top-level keys that never contribute mappings.
var ReservedSections = map[string]bool{
	"collection_dependencies": true,
	"validation_patterns":     true,
	"conversion_rules":        true,
	"backup_config":           true,
	"rollback_config":         true,
}

// Section is one top-level entry of a mapping configuration document.
// Implementations: MappingSection, ReservedSection, UnknownSection.
type Section interface {
	SectionName() string
	isSection()
}

// MappingSection holds short-name to FQCN entries, either the flat
// "mappings" dict or a per-collection dict such as "ansible_builtin". Any
// non-reserved dict of scalars is one, so a bad entry fails validation
// instead of hiding the whole section.
type MappingSection struct {
	Name    string
	Entries map[string]string
	// Order preserves the document order of Entries keys.
	Order []string
	Lines map[string]int
}

// ReservedSection is a recognized non-mapping section kept verbatim.
type ReservedSection struct {
	Name    string
	Payload any
}

// UnknownSection is a top-level key that is neither reserved nor a dict of
// scalars.
type UnknownSection struct {
	Name string
	Line int
}

func (s MappingSection) SectionName() string  { return s.Name }
func (s ReservedSection) SectionName() string { return s.Name }
func (s UnknownSection) SectionName() string  { return s.Name }

func (MappingSection) isSection()  {}
func (ReservedSection) isSection() {}
func (UnknownSection) isSection()  {}

// ParseSections decodes a mapping configuration document into sections.
// An empty document yields no sections.
func ParseSections(data []byte) ([]Section, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return nil, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("top level must be a mapping, got %s", kindName(root.Kind))
	}

	var sections []Section
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		name := key.Value

		if ReservedSections[name] {
			var payload any
			if err := val.Decode(&payload); err != nil {
				return nil, fmt.Errorf("section %s: %w", name, err)
			}
			sections = append(sections, ReservedSection{Name: name, Payload: payload})
			continue
		}

		if ms, ok := mappingSection(name, val); ok {
			sections = append(sections, ms)
			continue
		}

		if name == FlatSection {
			return nil, fmt.Errorf("section %s must be a mapping of module names to strings (line %d)", name, val.Line)
		}
		sections = append(sections, UnknownSection{Name: name, Line: key.Line})
	}
	return sections, nil
}

func mappingSection(name string, val *yaml.Node) (MappingSection, bool) {
	if val.Kind != yaml.MappingNode {
		return MappingSection{}, false
	}
	ms := MappingSection{
		Name:    name,
		Entries: make(map[string]string, len(val.Content)/2),
		Lines:   make(map[string]int, len(val.Content)/2),
	}
	for i := 0; i+1 < len(val.Content); i += 2 {
		k, v := val.Content[i], val.Content[i+1]
		if v.Kind != yaml.ScalarNode {
			return MappingSection{}, false
		}
		if _, dup := ms.Entries[k.Value]; !dup {
			ms.Order = append(ms.Order, k.Value)
		}
		ms.Entries[k.Value] = v.Value
		ms.Lines[k.Value] = k.Line
	}
	return ms, true
}

var moduleNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateConfiguration checks section shapes and entry formats. Unknown
// sections produce warnings; malformed entries produce an error.
func ValidateConfiguration(sections []Section) ([]string, error) {
	var warnings []string
	for _, s := range sections {
		switch sec := s.(type) {
		case MappingSection:
			for _, short := range sec.Order {
				fqcn := sec.Entries[short]
				if !moduleNameRe.MatchString(short) {
					return warnings, fmt.Errorf("%s: invalid module name %q (line %d)", sec.Name, short, sec.Lines[short])
				}
				if !domain.IsValidFQCN(fqcn) {
					return warnings, fmt.Errorf("%s.%s: %q is not a valid FQCN (line %d)", sec.Name, short, fqcn, sec.Lines[short])
				}
			}
		case ReservedSection:
			if err := validateReserved(sec); err != nil {
				return warnings, err
			}
		case UnknownSection:
			warnings = append(warnings, fmt.Sprintf("unknown section %q at line %d ignored", sec.Name, sec.Line))
		}
	}
	return warnings, nil
}

func validateReserved(sec ReservedSection) error {
	if sec.Payload == nil {
		return nil
	}
	switch sec.Payload.(type) {
	case map[string]any:
		return nil
	case []any:
		if sec.Name == "collection_dependencies" || sec.Name == "validation_patterns" {
			return nil
		}
	}
	return fmt.Errorf("section %s has unexpected type %T", sec.Name, sec.Payload)
}

// TableFromSections merges all mapping sections in document order. Entries
// with an invalid FQCN are skipped and reported.
func TableFromSections(sections []Section) (Table, []string) {
	entries := make(map[string]string)
	var skipped []string
	for _, s := range sections {
		ms, ok := s.(MappingSection)
		if !ok {
			continue
		}
		for _, short := range ms.Order {
			fqcn := ms.Entries[short]
			if !domain.IsValidFQCN(fqcn) {
				skipped = append(skipped, fmt.Sprintf("%s.%s", ms.Name, short))
				continue
			}
			entries[short] = fqcn
		}
	}
	return build(entries), skipped
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	case yaml.DocumentNode:
		return "document"
	default:
		return "mapping"
	}
}
