package content

// StripAbsentValues returns a copy of a property bag with every nil-valued
// key removed, recursing into nested maps and lists. The backing store
// rejects documents holding undefined fields; defined falsy values (0,
// false, "") pass through untouched.
func StripAbsentValues(props map[string]any) map[string]any {
	out := make(map[string]any, len(props))
	for k, v := range props {
		if v == nil {
			continue
		}
		out[k] = stripValue(v)
	}
	return out
}

func stripValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return StripAbsentValues(t)
	case []any:
		out := make([]any, 0, len(t))
		for _, item := range t {
			if item == nil {
				continue
			}
			out = append(out, stripValue(item))
		}
		return out
	}
	return v
}

// Sanitized returns a copy of the page with every block's property bag
// stripped of absent values, ready to persist.
func (p *PageDocument) Sanitized() *PageDocument {
	cp := p.Clone()
	for _, b := range cp.Blocks {
		b.Properties = StripAbsentValues(b.Properties)
	}
	return cp
}
