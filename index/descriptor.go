package index

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Descriptor is a declarative set of index definitions, typically loaded
// from a YAML file and installed into every view of a store:
//
//	indexes:
//	  - name: tokens-by-position
//	    kind: sorted
//	    type: Token
//	    keys:
//	      - feature: begin
//	      - feature: end
//	        descending: true
//	  - name: scratch
//	    kind: bag
//	    type: Top
type Descriptor struct {
	Indexes []*Definition `yaml:"indexes"`
}

// LoadDescriptor reads a YAML descriptor.
func LoadDescriptor(r io.Reader) (*Descriptor, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read index descriptor: %w", err)
	}
	return ParseDescriptor(data)
}

// ParseDescriptor parses a YAML descriptor.
func ParseDescriptor(data []byte) (*Descriptor, error) {
	var d Descriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse index descriptor: %w", err)
	}
	for _, def := range d.Indexes {
		if def == nil {
			return nil, fmt.Errorf("index descriptor contains an empty entry")
		}
		if def.Name == "" {
			return nil, fmt.Errorf("index descriptor entry without a name")
		}
	}
	return &d, nil
}

// UnmarshalYAML decodes a kind from its string form. An absent or empty
// kind defaults to sorted.
func (k *Kind) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	switch s {
	case "", "sorted":
		*k = KindSorted
	case "set":
		*k = KindSet
	case "bag":
		*k = KindBag
	default:
		return fmt.Errorf("unknown index kind %q", s)
	}
	return nil
}

// MarshalYAML encodes a kind as its string form.
func (k Kind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}
