package components

import (
	"fmt"
	"sort"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/ajaykumartn/cognipath-ai-2/internal/ui/theme"
)

// OptionList renders a question's answer options. Options are keyed by
// letter and slots may be absent, so the list is built from whatever keys
// are present, in letter order.
type OptionList struct {
	keys     []string
	options  map[string]string
	cursor   int
	selected string
}

// NewOptionList creates an option list over the given keyed options.
func NewOptionList(options map[string]string) OptionList {
	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return OptionList{keys: keys, options: options}
}

// Keys returns the present option keys in display order.
func (o OptionList) Keys() []string {
	return o.keys
}

// Selected returns the chosen option key, empty when nothing is selected.
func (o OptionList) Selected() string {
	return o.selected
}

// CursorKey returns the key under the navigation cursor.
func (o OptionList) CursorKey() string {
	if o.cursor < 0 || o.cursor >= len(o.keys) {
		return ""
	}
	return o.keys[o.cursor]
}

// MoveUp moves the cursor up one option.
func (o OptionList) MoveUp() OptionList {
	if o.cursor > 0 {
		o.cursor--
	}
	return o
}

// MoveDown moves the cursor down one option.
func (o OptionList) MoveDown() OptionList {
	if o.cursor < len(o.keys)-1 {
		o.cursor++
	}
	return o
}

// Select chooses the option under the cursor, replacing any prior choice.
func (o OptionList) Select() OptionList {
	o.selected = o.CursorKey()
	return o
}

// SelectKey chooses the given option if present, replacing any prior
// choice, and moves the cursor to it.
func (o OptionList) SelectKey(key string) (OptionList, bool) {
	for i, k := range o.keys {
		if k == key {
			o.cursor = i
			o.selected = key
			return o, true
		}
	}
	return o, false
}

// View renders the options in the answering state.
func (o OptionList) View() string {
	var b strings.Builder
	for i, k := range o.keys {
		line := o.line(i, k)
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if k == o.selected {
			style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		} else if i == o.cursor {
			style = lipgloss.NewStyle().Foreground(theme.Secondary)
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

// ViewGraded renders the options after grading: the correct key in the
// success style, an incorrect chosen key in the error style, the rest dim.
// Only the chosen option receives affirmative styling when it is correct.
func (o OptionList) ViewGraded(correctKey string) string {
	var b strings.Builder
	for i, k := range o.keys {
		line := o.line(i, k)
		var style lipgloss.Style
		switch {
		case k == correctKey:
			style = lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
		case k == o.selected:
			style = lipgloss.NewStyle().Foreground(theme.Error).Bold(true)
		default:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func (o OptionList) line(i int, key string) string {
	prefix := "  "
	if i == o.cursor {
		prefix = "> "
	}
	marker := " "
	if key == o.selected {
		marker = "*"
	}
	return fmt.Sprintf("%s%s %s) %s", prefix, marker, strings.ToUpper(key), o.options[key])
}
