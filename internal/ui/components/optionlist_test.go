package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionListKeysAreSorted(t *testing.T) {
	ol := NewOptionList(map[string]string{"c": "5", "a": "3", "b": "4"})
	assert.Equal(t, []string{"a", "b", "c"}, ol.Keys())
}

func TestOptionListCursorMovementClamps(t *testing.T) {
	ol := NewOptionList(map[string]string{"a": "3", "b": "4"})
	assert.Equal(t, "a", ol.CursorKey())

	ol = ol.MoveUp()
	assert.Equal(t, "a", ol.CursorKey())

	ol = ol.MoveDown()
	assert.Equal(t, "b", ol.CursorKey())

	ol = ol.MoveDown()
	assert.Equal(t, "b", ol.CursorKey())
}

func TestOptionListSelectKeyReplacesSelection(t *testing.T) {
	ol := NewOptionList(map[string]string{"a": "3", "b": "4", "c": "5"})

	ol, ok := ol.SelectKey("b")
	require.True(t, ok)
	assert.Equal(t, "b", ol.Selected())

	ol, ok = ol.SelectKey("c")
	require.True(t, ok)
	assert.Equal(t, "c", ol.Selected())
}

func TestOptionListSelectKeyRejectsAbsentKey(t *testing.T) {
	ol := NewOptionList(map[string]string{"a": "3", "b": "4"})

	updated, ok := ol.SelectKey("d")
	assert.False(t, ok)
	assert.Empty(t, updated.Selected())
}

func TestOptionListSelectUsesCursor(t *testing.T) {
	ol := NewOptionList(map[string]string{"a": "3", "b": "4"})
	ol = ol.MoveDown().Select()
	assert.Equal(t, "b", ol.Selected())
}
