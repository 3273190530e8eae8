package schema

// Registry is the closed lookup table from block-type id to schema. It is
// populated once at construction and never mutated afterwards.
type Registry struct {
	schemas map[string]*BlockTypeSchema
	order   []string
}

// NewRegistry builds the registry of built-in block types.
func NewRegistry() *Registry {
	r := &Registry{schemas: make(map[string]*BlockTypeSchema)}
	for _, s := range builtinSchemas() {
		r.register(s)
	}
	return r
}

func (r *Registry) register(s *BlockTypeSchema) {
	if _, exists := r.schemas[s.ID]; exists {
		return
	}
	r.schemas[s.ID] = s
	r.order = append(r.order, s.ID)
}

// Lookup returns the schema for typeID. The second return is false when the
// type is unknown; callers must branch on it rather than assume presence.
func (r *Registry) Lookup(typeID string) (*BlockTypeSchema, bool) {
	s, ok := r.schemas[typeID]
	return s, ok
}

// All returns every registered schema in registration order.
func (r *Registry) All() []*BlockTypeSchema {
	out := make([]*BlockTypeSchema, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.schemas[id])
	}
	return out
}

func builtinSchemas() []*BlockTypeSchema {
	return []*BlockTypeSchema{
		{
			ID:          "hero",
			DisplayName: "Hero Banner",
			Description: "Full-width banner with heading, subheading and call to action",
			Properties: []PropertyDefinition{
				{Name: "heading", Kind: KindShortText, Label: "Heading", Required: true, Default: "Welcome"},
				{Name: "subheading", Kind: KindLongText, Label: "Subheading"},
				{Name: "ctaLabel", Kind: KindShortText, Label: "CTA label", Default: "Learn more"},
				{Name: "ctaUrl", Kind: KindURL, Label: "CTA link", HelpText: "Where the call-to-action button points"},
				{Name: "showOverlay", Kind: KindBoolean, Label: "Darken background", Default: true},
				{Name: "alignment", Kind: KindSingleSelect, Label: "Text alignment", Default: "center",
					Options: []SelectOption{{Value: "left", Label: "Left"}, {Value: "center", Label: "Center"}, {Value: "right", Label: "Right"}}},
			},
		},
		{
			ID:          "textSection",
			DisplayName: "Text Section",
			Description: "Heading followed by one or more paragraphs",
			Properties: []PropertyDefinition{
				{Name: "heading", Kind: KindShortText, Label: "Heading"},
				{Name: "paragraphs", Kind: KindParagraphList, Label: "Paragraphs", Required: true},
			},
		},
		{
			ID:          "testimonials",
			DisplayName: "Testimonials",
			Description: "Carousel of member testimonials",
			Properties: []PropertyDefinition{
				{Name: "heading", Kind: KindShortText, Label: "Heading", Default: "What our members say"},
				{Name: "items", Kind: KindTestimonialList, Label: "Testimonials"},
				{Name: "autoRotate", Kind: KindBoolean, Label: "Auto rotate", Default: true},
				{Name: "rotateSeconds", Kind: KindNumber, Label: "Rotation interval (s)", Default: float64(8)},
			},
		},
		{
			ID:          "projects",
			DisplayName: "Project Grid",
			Description: "Grid of community projects with images and links",
			Properties: []PropertyDefinition{
				{Name: "heading", Kind: KindShortText, Label: "Heading", Default: "Our projects"},
				{Name: "items", Kind: KindProjectList, Label: "Projects"},
				{Name: "columns", Kind: KindNumber, Label: "Columns", Default: float64(3)},
			},
		},
		{
			ID:          "pillars",
			DisplayName: "Pillars",
			Description: "Row of value-proposition pillars with icons",
			Properties: []PropertyDefinition{
				{Name: "heading", Kind: KindShortText, Label: "Heading"},
				{Name: "items", Kind: KindPillarList, Label: "Pillars"},
			},
		},
		{
			ID:          "callToAction",
			DisplayName: "Call To Action",
			Description: "Prominent strip with one or more action buttons",
			Properties: []PropertyDefinition{
				{Name: "message", Kind: KindLongText, Label: "Message", Required: true},
				{Name: "buttons", Kind: KindButtonList, Label: "Buttons"},
				{Name: "theme", Kind: KindSingleSelect, Label: "Theme", Default: "dark",
					Options: []SelectOption{{Value: "light", Label: "Light"}, {Value: "dark", Label: "Dark"}}},
			},
		},
		{
			ID:          "imageBanner",
			DisplayName: "Image Banner",
			Description: "Full-width image with optional caption",
			Properties: []PropertyDefinition{
				{Name: "imageUrl", Kind: KindURL, Label: "Image URL", Required: true},
				{Name: "caption", Kind: KindShortText, Label: "Caption"},
				{Name: "fullBleed", Kind: KindBoolean, Label: "Full bleed", Default: false},
			},
		},
		{
			ID:          "quote",
			DisplayName: "Pull Quote",
			Description: "Large standalone quotation",
			Properties: []PropertyDefinition{
				{Name: "text", Kind: KindLongText, Label: "Quote", Required: true},
				{Name: "attribution", Kind: KindShortText, Label: "Attribution"},
			},
		},
		{
			ID:          "spacer",
			DisplayName: "Spacer",
			Description: "Vertical whitespace between blocks",
			Properties: []PropertyDefinition{
				{Name: "height", Kind: KindNumber, Label: "Height (px)", Default: float64(48)},
			},
		},
		{
			ID:          "animationEmbed",
			DisplayName: "Animation",
			Description: "Embedded animation referenced by name",
			Properties: []PropertyDefinition{
				{Name: "animation", Kind: KindAnimationRef, Label: "Animation"},
				{Name: "loop", Kind: KindBoolean, Label: "Loop", Default: true},
			},
		},
		{
			ID:          "sectionGroup",
			DisplayName: "Section Group",
			Description: "Stack of titled sub-sections",
			Properties: []PropertyDefinition{
				{Name: "sections", Kind: KindSectionList, Label: "Sections"},
				{Name: "collapsible", Kind: KindBoolean, Label: "Collapsible", Default: false},
			},
		},
		{
			ID:          "contactPrompt",
			DisplayName: "Contact Prompt",
			Description: "Invitation to get in touch",
			Properties: []PropertyDefinition{
				{Name: "heading", Kind: KindShortText, Label: "Heading", Default: "Get in touch"},
				{Name: "body", Kind: KindLongText, Label: "Body"},
				{Name: "email", Kind: KindShortText, Label: "Contact email"},
				{Name: "buttons", Kind: KindButtonList, Label: "Buttons"},
			},
		},
	}
}
