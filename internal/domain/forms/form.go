// Package forms generates editor field descriptors from a block-type schema
// and a value bag, and applies field changes with kind-appropriate coercion.
// Composite list kinds reuse the same add/remove/reorder pattern as whole
// blocks, applied to sub-records.
package forms

import (
	"fmt"
	"strconv"

	"github.com/commonsforge/pagecraft-go/internal/domain/schema"
)

// Field is one renderable editor control: the property definition joined
// with its effective value.
type Field struct {
	Name     string                `json:"name"`
	Kind     schema.PropertyKind   `json:"kind"`
	Label    string                `json:"label"`
	HelpText string                `json:"helpText,omitempty"`
	Required bool                  `json:"required"`
	Value    any                   `json:"value"`
	Options  []schema.SelectOption `json:"options,omitempty"`
}

// Render produces one field per schema property, in schema order. The
// effective value is currentValues[name], else the definition default, else
// the kind-appropriate empty value. A nil schema (unknown block type)
// renders nothing; the caller shows the unknown-type marker instead.
func Render(s *schema.BlockTypeSchema, currentValues map[string]any) []Field {
	if s == nil {
		return nil
	}
	fields := make([]Field, 0, len(s.Properties))
	for _, def := range s.Properties {
		value, ok := currentValues[def.Name]
		if !ok || value == nil {
			value = def.EffectiveDefault()
		}
		fields = append(fields, Field{
			Name:     def.Name,
			Kind:     def.Kind,
			Label:    def.Label,
			HelpText: def.HelpText,
			Required: def.Required,
			Value:    value,
			Options:  def.Options,
		})
	}
	return fields
}

// ApplyChange merges one field change into a copy of the full value bag,
// coercing the raw value to the property's kind. Changes to names the
// schema does not declare are dropped.
func ApplyChange(s *schema.BlockTypeSchema, currentValues map[string]any, name string, raw any) map[string]any {
	if s == nil {
		return currentValues
	}
	def, ok := s.Property(name)
	if !ok {
		return currentValues
	}
	next := make(map[string]any, len(currentValues)+1)
	for k, v := range currentValues {
		next[k] = v
	}
	next[name] = Coerce(def, raw)
	return next
}

// Coerce converts a raw (typically JSON-decoded) value into the
// representation the property kind stores.
func Coerce(def schema.PropertyDefinition, raw any) any {
	switch def.Kind {
	case schema.KindNumber:
		return coerceNumber(raw)
	case schema.KindBoolean:
		return coerceBool(raw)
	case schema.KindSingleSelect:
		return normalizeOption(raw)
	case schema.KindShortText, schema.KindLongText, schema.KindURL:
		return coerceString(raw)
	default:
		if def.Kind.IsComposite() {
			return coerceList(raw)
		}
		return raw
	}
}

// coerceNumber parses to float64, defaulting to 0 on failure.
func coerceNumber(raw any) float64 {
	switch v := raw.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		return 0
	}
	return 0
}

func coerceBool(raw any) bool {
	switch v := raw.(type) {
	case bool:
		return v
	case string:
		b, err := strconv.ParseBool(v)
		return err == nil && b
	}
	return false
}

// normalizeOption accepts either a bare string or a {value, label} pair and
// always stores the bare value.
func normalizeOption(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case map[string]any:
		if val, ok := v["value"].(string); ok {
			return val
		}
	case schema.SelectOption:
		return v.Value
	}
	return ""
}

func coerceString(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case nil:
		return ""
	}
	return fmt.Sprintf("%v", raw)
}

func coerceList(raw any) []any {
	switch v := raw.(type) {
	case []any:
		return v
	case nil:
		return []any{}
	}
	return []any{}
}

// ListAdd appends one sub-record to a composite list value.
func ListAdd(list []any, item any) []any {
	out := make([]any, 0, len(list)+1)
	out = append(out, list...)
	out = append(out, item)
	return out
}

// ListRemove deletes the sub-record at index; out of range is a no-op.
func ListRemove(list []any, index int) []any {
	if index < 0 || index >= len(list) {
		return list
	}
	out := make([]any, 0, len(list)-1)
	out = append(out, list[:index]...)
	out = append(out, list[index+1:]...)
	return out
}

// ListMove relocates a sub-record using the same remove-then-insert
// convention as whole-block moves.
func ListMove(list []any, fromIndex, toIndex int) []any {
	if fromIndex < 0 || fromIndex >= len(list) || fromIndex == toIndex {
		return list
	}
	moved := list[fromIndex]
	rest := make([]any, 0, len(list)-1)
	rest = append(rest, list[:fromIndex]...)
	rest = append(rest, list[fromIndex+1:]...)

	if fromIndex < toIndex {
		toIndex--
	}
	if toIndex < 0 {
		toIndex = 0
	}
	if toIndex > len(rest) {
		toIndex = len(rest)
	}
	out := make([]any, 0, len(list))
	out = append(out, rest[:toIndex]...)
	out = append(out, moved)
	out = append(out, rest[toIndex:]...)
	return out
}
