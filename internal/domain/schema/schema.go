// Package schema defines the declarative block-type schemas that drive the
// mod library, default instantiation, and the dynamic property form.
package schema

// PropertyKind identifies the editor control for one property.
type PropertyKind string

const (
	KindShortText    PropertyKind = "short-text"
	KindLongText     PropertyKind = "long-text"
	KindNumber       PropertyKind = "number"
	KindBoolean      PropertyKind = "boolean"
	KindURL          PropertyKind = "url"
	KindSingleSelect PropertyKind = "single-select"

	// Composite kinds delegate to specialized sub-record list editors.
	KindTestimonialList PropertyKind = "testimonial-list"
	KindProjectList     PropertyKind = "project-list"
	KindParagraphList   PropertyKind = "paragraph-list"
	KindPillarList      PropertyKind = "pillar-list"
	KindButtonList      PropertyKind = "button-list"
	KindSectionList     PropertyKind = "section-list"
	KindAnimationRef    PropertyKind = "animation-ref"
)

// IsComposite reports whether the kind edits a list of structured sub-records.
func (k PropertyKind) IsComposite() bool {
	switch k {
	case KindTestimonialList, KindProjectList, KindParagraphList,
		KindPillarList, KindButtonList, KindSectionList, KindAnimationRef:
		return true
	}
	return false
}

// SelectOption is one (value, label) pair for a single-select property.
type SelectOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// PropertyDefinition describes one editable field of a block type.
type PropertyDefinition struct {
	Name     string         `json:"name"`
	Kind     PropertyKind   `json:"kind"`
	Label    string         `json:"label"`
	HelpText string         `json:"helpText,omitempty"`
	Required bool           `json:"required"`
	Default  any            `json:"default,omitempty"`
	Options  []SelectOption `json:"options,omitempty"`
}

// BlockTypeSchema is the static, immutable definition of one mod type.
type BlockTypeSchema struct {
	ID          string               `json:"id"`
	DisplayName string               `json:"displayName"`
	Description string               `json:"description"`
	Properties  []PropertyDefinition `json:"properties"`
}

// EmptyValue returns the kind-appropriate zero value used when neither the
// value bag nor the definition supplies one.
func EmptyValue(kind PropertyKind) any {
	switch kind {
	case KindBoolean:
		return false
	case KindNumber:
		return float64(0)
	case KindShortText, KindLongText, KindURL, KindSingleSelect:
		return ""
	default:
		if kind.IsComposite() {
			return []any{}
		}
		return ""
	}
}

// EffectiveDefault returns the definition's default when present, else the
// kind-appropriate empty value.
func (d PropertyDefinition) EffectiveDefault() any {
	if d.Default != nil {
		return d.Default
	}
	return EmptyValue(d.Kind)
}

// DefaultProperties builds the initial value bag for a freshly placed block:
// every definition contributes its default, or an empty value for its kind.
func (s *BlockTypeSchema) DefaultProperties() map[string]any {
	props := make(map[string]any, len(s.Properties))
	for _, def := range s.Properties {
		props[def.Name] = def.EffectiveDefault()
	}
	return props
}

// Property returns the definition for name, if the schema declares it.
func (s *BlockTypeSchema) Property(name string) (PropertyDefinition, bool) {
	for _, def := range s.Properties {
		if def.Name == name {
			return def, true
		}
	}
	return PropertyDefinition{}, false
}
