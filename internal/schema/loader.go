package schema

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// classDoc is one class record of the schema-input format. It is
// decoded generically (as a yaml.Node) first so the
// loader can tell an enum block (no "name" key) from a class record
// before committing to this shape.
type classDoc struct {
	Name       string          `yaml:"name"`
	Supertype  string          `yaml:"supertype"`
	Abstract   bool            `yaml:"abstract"`
	Attributes []attributeDoc  `yaml:"attribute"`
	References []referenceDoc `yaml:"reference"`
}

type attributeDoc struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Multiple bool   `yaml:"multiple"`
}

type referenceDoc struct {
	Name      string `yaml:"name"`
	Type      string `yaml:"type"`
	Multiple  bool   `yaml:"multiple"`
	Mandatory bool   `yaml:"mandatory"`
	Opposite  string `yaml:"opposite"`
}

// LoadYAML decodes a schema document — a data-only, language-neutral
// sequence of records — into a fresh *Schema. It is a thin mapping from
// dictionaries to the modeling API: everything non-trivial (type
// resolution, feature function sharing, validation) is delegated to the
// Schema registry itself.
func LoadYAML(data []byte) (*Schema, error) {
	var raw []yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("schema: invalid YAML document: %w", err)
	}

	docs := raw
	s := New()

	if len(docs) > 0 && isEnumBlock(docs[0]) {
		var enums map[string][]string
		if err := docs[0].Decode(&enums); err != nil {
			return nil, fmt.Errorf("schema: invalid enum block: %w", err)
		}
		for name, values := range enums {
			if _, err := s.DefineEnum(name, values); err != nil {
				return nil, err
			}
		}
		docs = docs[1:]
	}

	classDocs := make([]classDoc, len(docs))
	for i, node := range docs {
		if err := node.Decode(&classDocs[i]); err != nil {
			return nil, fmt.Errorf("schema: invalid class record: %w", err)
		}
	}

	// Heads first, then bodies, so a reference may name a class declared
	// later in the document.
	classes := make([]*Class, len(classDocs))
	for i, cd := range classDocs {
		var super *Class
		if cd.Supertype != "" {
			var ok bool
			super, ok = s.Class(cd.Supertype)
			if !ok {
				return nil, &UnknownSupertypeError{Class: cd.Name, Supertype: cd.Supertype}
			}
		}
		c, err := s.DefineClass(cd.Name, super, cd.Abstract)
		if err != nil {
			return nil, err
		}
		classes[i] = c
	}

	for i, cd := range classDocs {
		c := classes[i]
		for _, ad := range cd.Attributes {
			valueSort, _, err := s.ResolveType(ad.Type)
			if err != nil {
				return nil, &UnknownFeatureTypeError{Class: c.Name, Feature: ad.Name, Type: ad.Type}
			}
			c.DefineAttribute(s, ad.Name, valueSort, ad.Multiple)
		}
		for _, rd := range cd.References {
			_, targetClass, err := s.ResolveType(rd.Type)
			if err != nil || targetClass == nil {
				return nil, &UnknownFeatureTypeError{Class: c.Name, Feature: rd.Name, Type: rd.Type}
			}
			c.DefineReference(s, rd.Name, targetClass, rd.Multiple, rd.Mandatory, rd.Opposite)
		}
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// isEnumBlock reports whether a YAML mapping node lacks a "name" key,
// i.e. it is the optional leading enum-name -> values block rather than a
// class record.
func isEnumBlock(node yaml.Node) bool {
	if node.Kind != yaml.MappingNode {
		return false
	}
	for i := 0; i < len(node.Content); i += 2 {
		if node.Content[i].Value == "name" {
			return false
		}
	}
	return true
}
