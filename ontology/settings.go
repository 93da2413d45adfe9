package ontology

import (
	"maps"
	"slices"
)

// Settings is the user configuration of a vocabulary: everything that must
// survive a rebuild. Entries are keyed by IRI or combined relation id, so
// entries absent from a rebuilt vocabulary are silently ignored.
type Settings struct {
	Labels         map[string]string        `json:"labels,omitempty" yaml:"labels,omitempty"`
	Devices        []string                 `json:"devices,omitempty" yaml:"devices,omitempty"`
	Agents         []string                 `json:"agents,omitempty" yaml:"agents,omitempty"`
	KeyInformation []string                 `json:"key_information,omitempty" yaml:"key_information,omitempty"`
	Inspect        []string                 `json:"inspect,omitempty" yaml:"inspect,omitempty"`
	FieldTypes     map[string]DataFieldType `json:"field_types,omitempty" yaml:"field_types,omitempty"`
}

// NewSettings returns empty settings.
func NewSettings() *Settings {
	return &Settings{
		Labels:     make(map[string]string),
		FieldTypes: make(map[string]DataFieldType),
	}
}

// ExtractSettings snapshots the user configuration of v.
func ExtractSettings(v *Vocabulary) *Settings {
	s := NewSettings()
	for _, e := range v.Entities() {
		if label := e.base().UserLabel; label != "" {
			s.Labels[e.EntityIRI()] = label
		}
	}
	for _, c := range v.ClassList() {
		if c.IsDevice {
			s.Devices = append(s.Devices, c.IRI)
		}
		if c.IsAgent {
			s.Agents = append(s.Agents, c.IRI)
		}
	}
	for _, id := range slices.Sorted(maps.Keys(v.CombinedObjectRelations)) {
		s.addCombined(&v.CombinedObjectRelations[id].CombinedRelation)
	}
	for _, id := range slices.Sorted(maps.Keys(v.CombinedDataRelations)) {
		s.addCombined(&v.CombinedDataRelations[id].CombinedRelation)
	}
	for _, p := range v.DataPropertyList() {
		if p.FieldType != FieldSimple && p.FieldType != "" {
			s.FieldTypes[p.IRI] = p.FieldType
		}
	}
	return s
}

func (s *Settings) addCombined(c *CombinedRelation) {
	if c.IsKeyInformation {
		s.KeyInformation = append(s.KeyInformation, c.ID)
	}
	if c.Inspect {
		s.Inspect = append(s.Inspect, c.ID)
	}
}

// Apply writes the settings onto matching entities of v and returns the
// number of entries that matched.
func (s *Settings) Apply(v *Vocabulary) int {
	if s == nil {
		return 0
	}
	applied := 0
	for iri, label := range s.Labels {
		if e, ok := v.Entity(iri); ok {
			e.base().SetUserLabel(label)
			applied++
		}
	}
	for _, iri := range s.Devices {
		if c, ok := v.Classes[iri]; ok {
			c.IsDevice = true
			applied++
		}
	}
	for _, iri := range s.Agents {
		if c, ok := v.Classes[iri]; ok {
			c.IsAgent = true
			applied++
		}
	}
	for _, id := range s.KeyInformation {
		if c, ok := v.CombinedRelation(id); ok {
			c.IsKeyInformation = true
			applied++
		}
	}
	for _, id := range s.Inspect {
		if c, ok := v.CombinedRelation(id); ok {
			c.Inspect = true
			applied++
		}
	}
	for iri, ft := range s.FieldTypes {
		if p, ok := v.DataProperties[iri]; ok {
			p.FieldType = ft
			applied++
		}
	}
	return applied
}

// Len returns the number of entries.
func (s *Settings) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Labels) + len(s.Devices) + len(s.Agents) +
		len(s.KeyInformation) + len(s.Inspect) + len(s.FieldTypes)
}

// SetLabel records a label override. An empty label removes it.
func (s *Settings) SetLabel(iri, label string) {
	s.ensureMaps()
	if label == "" {
		delete(s.Labels, iri)
		return
	}
	s.Labels[iri] = label
}

// SetFieldType records the field classification of a data property.
func (s *Settings) SetFieldType(iri string, ft DataFieldType) {
	s.ensureMaps()
	if ft == FieldSimple {
		delete(s.FieldTypes, iri)
		return
	}
	s.FieldTypes[iri] = ft
}

// SetDevice marks or unmarks a class as a device class.
func (s *Settings) SetDevice(iri string, on bool) { s.Devices = toggle(s.Devices, iri, on) }

// SetAgent marks or unmarks a class as an agent class.
func (s *Settings) SetAgent(iri string, on bool) { s.Agents = toggle(s.Agents, iri, on) }

// SetKeyInformation marks or unmarks a combined relation as key information.
func (s *Settings) SetKeyInformation(id string, on bool) {
	s.KeyInformation = toggle(s.KeyInformation, id, on)
}

// SetInspect marks or unmarks a combined relation for inspection.
func (s *Settings) SetInspect(id string, on bool) { s.Inspect = toggle(s.Inspect, id, on) }

func toggle(list []string, value string, on bool) []string {
	if on {
		list, _ = appendUnique(list, value)
		return list
	}
	return slices.DeleteFunc(list, func(x string) bool { return x == value })
}

// Merge overlays other onto s. Entries in other win.
func (s *Settings) Merge(other *Settings) {
	if other == nil {
		return
	}
	s.ensureMaps()
	maps.Copy(s.Labels, other.Labels)
	maps.Copy(s.FieldTypes, other.FieldTypes)
	for _, iri := range other.Devices {
		s.SetDevice(iri, true)
	}
	for _, iri := range other.Agents {
		s.SetAgent(iri, true)
	}
	for _, id := range other.KeyInformation {
		s.SetKeyInformation(id, true)
	}
	for _, id := range other.Inspect {
		s.SetInspect(id, true)
	}
}

func (s *Settings) ensureMaps() {
	if s.Labels == nil {
		s.Labels = make(map[string]string)
	}
	if s.FieldTypes == nil {
		s.FieldTypes = make(map[string]DataFieldType)
	}
}
