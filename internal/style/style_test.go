package style

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGravity(t *testing.T) {
	tests := []struct {
		input    string
		expected Gravity
		wantErr  bool
	}{
		{"top-left", GravityTopLeft, false},
		{"BOTTOM-CENTER", GravityBottomCenter, false},
		{" center ", GravityCenter, false},
		{"middle", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			g, err := ParseGravity(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, g)
		})
	}
}

func TestGravity_Anchors(t *testing.T) {
	assert.True(t, GravityBottomLeft.IsBottom())
	assert.False(t, GravityBottomLeft.IsTop())
	assert.True(t, GravityTopRight.IsTop())
	assert.False(t, GravityCenter.IsTop())
	assert.False(t, GravityCenter.IsBottom())

	assert.Equal(t, "left", GravityTopLeft.Horizontal())
	assert.Equal(t, "right", GravityBottomRight.Horizontal())
	assert.Equal(t, "center", GravityTopCenter.Horizontal())
	assert.Equal(t, "center", GravityCenter.Horizontal())
}

func TestWithPlacement_KeepsAppearance(t *testing.T) {
	base := Light()
	located := WithPlacement(base, Placement{Gravity: GravityTopLeft, XOffset: 5, YOffset: 7})

	assert.Equal(t, "light", located.Name())
	assert.Equal(t, base.Appearance(), located.Appearance())
	assert.Equal(t, GravityTopLeft, located.Placement().Gravity)
	assert.Equal(t, 5, located.Placement().XOffset)
	assert.Equal(t, 7, located.Placement().YOffset)
}

func TestWithPlacement_ReplacesPreviousDecorator(t *testing.T) {
	base := Dark()
	first := WithPlacement(base, Placement{Gravity: GravityTopLeft})
	second := WithPlacement(first, Placement{Gravity: GravityCenter, XOffset: 1, YOffset: 2, HorizontalMargin: 0.1})

	assert.Same(t, base, second.Base.(*Preset))
	assert.Equal(t, GravityCenter, second.Placement().Gravity)
	assert.Equal(t, 0.1, second.Placement().HorizontalMargin)
	assert.Equal(t, base.Appearance(), second.Appearance())
}

func TestLocated_NestedDelegation(t *testing.T) {
	base := Dark()
	inner := &Located{Base: base, Place: Placement{Gravity: GravityTopLeft}}
	outer := &Located{Base: inner, Place: Placement{Gravity: GravityBottomRight}}

	assert.Equal(t, GravityBottomRight, outer.Placement().Gravity)
	assert.Equal(t, base.Appearance(), outer.Appearance())
	assert.Same(t, base, Unwrap(outer).(*Preset))
}

func TestNewCustom(t *testing.T) {
	current := WithPlacement(Dark(), Placement{Gravity: GravityTopRight, XOffset: 3, VerticalMargin: 0.2})

	custom := NewCustom("compact", current)
	assert.Equal(t, "custom:compact", custom.Name())
	assert.Equal(t, "compact", custom.Appearance().Layout)
	assert.Empty(t, custom.Appearance().Background)
	assert.Equal(t, current.Placement(), custom.Placement())

	bare := NewCustom("banner", nil)
	assert.Equal(t, Placement{}, bare.Placement())
}

func TestByName(t *testing.T) {
	for _, name := range Names() {
		s, ok := ByName(name)
		require.True(t, ok, name)
		assert.Equal(t, name, s.Name())
	}

	s, ok := ByName("")
	require.True(t, ok)
	assert.Equal(t, "dark", s.Name())

	_, ok = ByName("neon")
	assert.False(t, ok)
}
