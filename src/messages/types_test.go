package messages

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypes(t *testing.T) {
	assert.Equal(t, TypeShowText, Text("x").Type())
	assert.Equal(t, TypeSetIndicator, SetIndicator{Indicator: Loading}.Type())
	assert.Equal(t, TypeToggleVisibility, ToggleVisibility{}.Type())
}

func TestTextHelpers(t *testing.T) {
	m := Text("answer")
	require.NotNil(t, m.Text)
	assert.Equal(t, "answer", *m.Text)

	empty := Text("")
	require.NotNil(t, empty.Text, "empty text is still text")

	assert.Nil(t, ClearText().Text)
}

func TestIndicatorString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "loading", Loading.String())
	assert.Equal(t, "error", Error.String())
	assert.Equal(t, "unknown", Indicator(9).String())
}
