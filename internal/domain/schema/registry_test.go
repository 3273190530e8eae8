package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupKnownAndUnknown(t *testing.T) {
	r := NewRegistry()

	s, ok := r.Lookup("hero")
	require.True(t, ok)
	assert.Equal(t, "hero", s.ID)

	_, ok = r.Lookup("doesNotExist")
	assert.False(t, ok)
}

func TestAllReturnsRegistrationOrder(t *testing.T) {
	r := NewRegistry()
	all := r.All()
	require.NotEmpty(t, all)
	assert.Equal(t, "hero", all[0].ID)

	seen := map[string]bool{}
	for _, s := range all {
		require.False(t, seen[s.ID], "duplicate schema id %s", s.ID)
		seen[s.ID] = true
	}
}

func TestPropertyNamesUniqueWithinSchema(t *testing.T) {
	for _, s := range NewRegistry().All() {
		seen := map[string]bool{}
		for _, def := range s.Properties {
			require.False(t, seen[def.Name], "%s declares %s twice", s.ID, def.Name)
			seen[def.Name] = true
		}
	}
}

func TestDefaultsAreAssignableToKind(t *testing.T) {
	for _, s := range NewRegistry().All() {
		for _, def := range s.Properties {
			if def.Default == nil {
				continue
			}
			switch def.Kind {
			case KindBoolean:
				assert.IsType(t, false, def.Default, "%s.%s", s.ID, def.Name)
			case KindNumber:
				assert.IsType(t, float64(0), def.Default, "%s.%s", s.ID, def.Name)
			case KindShortText, KindLongText, KindURL, KindSingleSelect:
				assert.IsType(t, "", def.Default, "%s.%s", s.ID, def.Name)
			default:
				if def.Kind.IsComposite() {
					assert.IsType(t, []any{}, def.Default, "%s.%s", s.ID, def.Name)
				}
			}
		}
	}
}

func TestSelectDefaultsNameARealOption(t *testing.T) {
	for _, s := range NewRegistry().All() {
		for _, def := range s.Properties {
			if def.Kind != KindSingleSelect || def.Default == nil {
				continue
			}
			found := false
			for _, opt := range def.Options {
				if opt.Value == def.Default {
					found = true
				}
			}
			assert.True(t, found, "%s.%s default %v not among options", s.ID, def.Name, def.Default)
		}
	}
}

func TestDefaultPropertiesCoverEveryDefinition(t *testing.T) {
	s, ok := NewRegistry().Lookup("testimonials")
	require.True(t, ok)

	props := s.DefaultProperties()
	require.Len(t, props, len(s.Properties))
	assert.Equal(t, "What our members say", props["heading"])
	assert.Equal(t, true, props["autoRotate"])
	assert.Equal(t, float64(8), props["rotateSeconds"])
	assert.Equal(t, []any{}, props["items"])
}

func TestEmptyValuePerKind(t *testing.T) {
	assert.Equal(t, "", EmptyValue(KindShortText))
	assert.Equal(t, "", EmptyValue(KindURL))
	assert.Equal(t, false, EmptyValue(KindBoolean))
	assert.Equal(t, float64(0), EmptyValue(KindNumber))
	assert.Equal(t, []any{}, EmptyValue(KindButtonList))
	assert.Equal(t, []any{}, EmptyValue(KindAnimationRef))
}
