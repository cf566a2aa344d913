// Package models defines the tool descriptor document and the option snapshot.
package models

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ControlKind identifies the kind of an option control.
type ControlKind string

const (
	KindCheckbox ControlKind = "checkbox"
	KindRadio    ControlKind = "radio"
	KindText     ControlKind = "text"
)

// Valid reports whether k is a supported control kind.
func (k ControlKind) Valid() bool {
	switch k {
	case KindCheckbox, KindRadio, KindText:
		return true
	}
	return false
}

// Document is the remote configuration document listing every tool.
type Document struct {
	Tools []ToolDescriptor `json:"tools"`
}

// Find returns the descriptor whose identifier matches id.
func (d *Document) Find(id string) (*ToolDescriptor, bool) {
	for i := range d.Tools {
		if d.Tools[i].ID == id {
			return &d.Tools[i], true
		}
	}
	return nil, false
}

// ToolDescriptor describes one tool's UI and behavior.
type ToolDescriptor struct {
	ID          string        `json:"url"`
	Name        string        `json:"name"`
	InputLabel  string        `json:"from"`
	OutputLabel string        `json:"to"`
	Libraries   []string      `json:"libraries"`
	Bridge      string        `json:"bridge"`
	Options     []OptionGroup `json:"options"`
	Examples    []Example     `json:"examples"`
}

// OptionGroup is a display grouping of option controls.
type OptionGroup struct {
	Name     string          `json:"group"`
	Controls []OptionControl `json:"buttons"`
}

// OptionControl is one declared option control.
type OptionControl struct {
	Kind    ControlKind `json:"type"`
	Key     string      `json:"name"`
	Value   any         `json:"value"`
	Label   string      `json:"label,omitempty"`
	Comment string      `json:"comment,omitempty"`
	Checked bool        `json:"checked,omitempty"` // radio: selected at initial render
	Group   string      `json:"group,omitempty"`   // radio: explicit grouping key
}

// DefaultBool returns the checkbox default.
func (c OptionControl) DefaultBool() bool {
	switch v := c.Value.(type) {
	case bool:
		return v
	case string:
		return v == "true" || v == "1" || v == "on"
	case float64:
		return v != 0
	}
	return false
}

// DefaultString returns the radio/text default (for radios, the member value).
func (c OptionControl) DefaultString() string {
	switch v := c.Value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// NormalizeGroupName lower-cases a display name and replaces spaces and
// dashes with underscores.
func NormalizeGroupName(name string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return '_'
		}
		return r
	}, strings.ToLower(name))
}

// RadioScope returns the exclusivity scope of a radio control declared in
// the option group at position groupIndex. Scopes are qualified by the group
// position so that two groups normalizing to the same name stay independent.
func RadioScope(groupIndex int, group OptionGroup, c OptionControl) string {
	key := c.Group
	if key == "" {
		key = NormalizeGroupName(group.Name)
	}
	return fmt.Sprintf("%s-%d", key, groupIndex)
}

// Example is a worked input/output/options triple.
type Example struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Input       string          `json:"input"`
	Output      string          `json:"output"`
	Options     OptionsSnapshot `json:"options,omitempty"`
}

// OptionsSnapshot maps option keys to their current values: bool for
// checkboxes, string for radios and text fields.
type OptionsSnapshot map[string]any

// Bool returns the boolean value stored under key.
func (s OptionsSnapshot) Bool(key string) bool {
	b, _ := s[key].(bool)
	return b
}

// String returns the string value stored under key.
func (s OptionsSnapshot) String(key string) string {
	str, _ := s[key].(string)
	return str
}

// Has reports whether key holds a determinate value.
func (s OptionsSnapshot) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Keys returns the snapshot keys in sorted order.
func (s OptionsSnapshot) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
