package ontology

import "fmt"

// ObjectProperty relates instances of classes to other instances or individuals.
type ObjectProperty struct {
	Base

	// Inverses is bidirectional once post-processing mirrored it.
	Inverses []string `json:"inverses,omitempty"`
}

// NewObjectProperty creates an object property with the given IRI.
func NewObjectProperty(iri string) *ObjectProperty {
	return &ObjectProperty{Base: Base{IRI: iri}}
}

// EntityKind returns KindObjectProperty.
func (p *ObjectProperty) EntityKind() Kind { return KindObjectProperty }

// AddInverse records an inverse property.
func (p *ObjectProperty) AddInverse(iri string) bool {
	var added bool
	p.Inverses, added = appendUnique(p.Inverses, iri)
	return added
}

// DataFieldType classifies how a data property is generated.
type DataFieldType string

const (
	// FieldSimple is a plain value field.
	FieldSimple DataFieldType = "simple"
	// FieldCommand is a command the device accepts.
	FieldCommand DataFieldType = "command"
	// FieldDeviceAttribute is a value reported by the device.
	FieldDeviceAttribute DataFieldType = "device_attribute"
)

// ParseDataFieldType parses a field type name.
func ParseDataFieldType(s string) (DataFieldType, error) {
	switch DataFieldType(s) {
	case FieldSimple, FieldCommand, FieldDeviceAttribute:
		return DataFieldType(s), nil
	case "", "plain":
		return FieldSimple, nil
	default:
		return "", fmt.Errorf("unknown data field type: %q (valid: simple, command, device_attribute)", s)
	}
}

// IsDeviceField reports whether the field type makes its class an IoT class.
func (t DataFieldType) IsDeviceField() bool {
	return t == FieldCommand || t == FieldDeviceAttribute
}

// DataProperty relates instances to literal values.
type DataProperty struct {
	Base

	FieldType DataFieldType `json:"field_type"`
}

// NewDataProperty creates a data property with the default simple field type.
func NewDataProperty(iri string) *DataProperty {
	return &DataProperty{Base: Base{IRI: iri}, FieldType: FieldSimple}
}

// EntityKind returns KindDataProperty.
func (p *DataProperty) EntityKind() Kind { return KindDataProperty }
