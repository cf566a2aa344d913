// Package options renders an option schema into live form controls and
// reads them back as an OptionsSnapshot.
package options

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bobmcallan/toolrt/internal/models"
	"github.com/bobmcallan/toolrt/internal/ui"
)

// Attribute names and values tagging option-bearing controls.
const (
	AttrType   = "data-type"
	AttrIndex  = "data-index"
	AttrAction = "data-action"

	TypeOptions   = "options"
	TypeFacsimile = "facsimile"
)

// binding ties a declared control to its live element.
type binding struct {
	control models.OptionControl
	scope   string // radio exclusivity scope, empty for other kinds
	row     ui.Element
	input   ui.Element
}

// Form is a rendered option schema.
type Form struct {
	root     ui.Element
	bindings []*binding
	byKey    map[string][]*binding
	scopes   map[string][]*binding
}

// Render builds the controls for groups under parent. trigger runs after
// every state-changing interaction; it may be nil.
func Render(doc ui.Document, parent ui.Element, groups []models.OptionGroup, trigger func()) (*Form, error) {
	if trigger == nil {
		trigger = func() {}
	}
	f := &Form{
		root:   parent,
		byKey:  make(map[string][]*binding),
		scopes: make(map[string][]*binding),
	}

	for gi, group := range groups {
		box := ui.Append(doc, parent, ui.Spec{Classes: "option-group"})
		ui.Append(doc, box, ui.Spec{Tag: "h3", Classes: "option-group-name", Value: group.Name})

		for _, c := range group.Controls {
			if !c.Kind.Valid() {
				return nil, fmt.Errorf("option group %q: unknown control kind %q", group.Name, c.Kind)
			}
			b := &binding{control: c}
			if c.Kind == models.KindRadio {
				b.scope = models.RadioScope(gi, group, c)
			}
			f.renderControl(doc, box, b, trigger)

			f.bindings = append(f.bindings, b)
			f.byKey[c.Key] = append(f.byKey[c.Key], b)
			if b.scope != "" {
				f.scopes[b.scope] = append(f.scopes[b.scope], b)
			}
		}
	}

	f.Reset()
	return f, nil
}

func controlID(c models.OptionControl) string {
	if c.Kind == models.KindRadio {
		return "option-" + c.Key + "-" + c.DefaultString()
	}
	return "option-" + c.Key
}

func (f *Form) renderControl(doc ui.Document, parent ui.Element, b *binding, trigger func()) {
	c := b.control
	id := controlID(c)

	b.row = ui.Append(doc, parent, ui.Spec{Classes: "option option-" + string(c.Kind)})

	attrs := map[string]string{
		"type":     string(c.Kind),
		"name":     c.Key,
		AttrType:   TypeOptions,
		AttrIndex:  c.Key,
		AttrAction: string(c.Kind),
	}
	events := map[string]ui.Handler{}
	switch c.Kind {
	case models.KindCheckbox:
		events[ui.EventChange] = func(ui.Element) { trigger() }
	case models.KindRadio:
		attrs["name"] = b.scope
		events[ui.EventChange] = func(ui.Element) {
			if b.input.Checked() {
				f.exclusive(b)
			}
			trigger()
		}
	case models.KindText:
		events[ui.EventInput] = func(ui.Element) { trigger() }
		events[ui.EventBlur] = func(ui.Element) { trigger() }
	}

	b.input = ui.Append(doc, b.row, ui.Spec{Tag: "input", ID: id, Attrs: attrs, Events: events})
	if c.Kind == models.KindRadio {
		b.input.SetValue(c.DefaultString())
	}

	label := c.Label
	if label == "" {
		label = c.Key
		if c.Kind == models.KindRadio {
			label = c.DefaultString()
		}
	}
	ui.Append(doc, b.row, ui.Spec{Tag: "label", Attrs: map[string]string{"for": id}, Value: label})
	if c.Comment != "" {
		ui.Append(doc, b.row, ui.Spec{Tag: "span", Classes: "option-comment", Value: c.Comment})
	}
}

// exclusive unchecks every other member of b's radio scope.
func (f *Form) exclusive(b *binding) {
	for _, other := range f.scopes[b.scope] {
		if other != b {
			other.input.SetChecked(false)
		}
	}
}

// Get walks the option-bearing controls and builds the current snapshot.
func (f *Form) Get() models.OptionsSnapshot {
	snap := models.OptionsSnapshot{}
	for _, el := range ui.FindAll(f.root, AttrType, TypeOptions) {
		key, _ := el.Attr(AttrIndex)
		action, _ := el.Attr(AttrAction)
		switch models.ControlKind(action) {
		case models.KindCheckbox:
			snap[key] = el.Checked()
		case models.KindRadio:
			if el.Checked() {
				snap[key] = el.Value()
			}
		case models.KindText:
			if key == "" {
				continue
			}
			snap[key] = el.Value()
		}
	}
	return snap
}

// Keys returns the distinct declared keys in declaration order.
func (f *Form) Keys() []string {
	var keys []string
	for _, b := range f.bindings {
		if b.control.Key == "" {
			continue
		}
		if contains(keys, b.control.Key) {
			continue
		}
		keys = append(keys, b.control.Key)
	}
	return keys
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Kind reports the control kind bound to key.
func (f *Form) Kind(key string) (models.ControlKind, bool) {
	bs := f.byKey[key]
	if len(bs) == 0 {
		return "", false
	}
	return bs[0].control.Kind, true
}

// Elements returns the live input elements bound to key.
func (f *Form) Elements(key string) []ui.Element {
	bs := f.byKey[key]
	out := make([]ui.Element, len(bs))
	for i, b := range bs {
		out[i] = b.input
	}
	return out
}

// Set writes value into the live control bound to key without firing any
// event. It reports false for keys outside the schema.
func (f *Form) Set(key string, value any) (bool, error) {
	bs := f.byKey[key]
	if len(bs) == 0 {
		return false, nil
	}
	if err := apply(bs, value, func(b *binding) ui.Element { return b.input }); err != nil {
		return true, fmt.Errorf("option %s: %w", key, err)
	}
	if bs[0].control.Kind == models.KindRadio {
		for _, b := range bs {
			if b.input.Checked() {
				f.exclusive(b)
			}
		}
	}
	return true, nil
}

// Check reports whether value could be written into the control bound to
// key, without touching any control.
func (f *Form) Check(key string, value any) error {
	bs := f.byKey[key]
	if len(bs) == 0 {
		return fmt.Errorf("option %s not declared", key)
	}
	if _, err := validate(bs, value); err != nil {
		return fmt.Errorf("option %s: %w", key, err)
	}
	return nil
}

// validate checks value against the kind of bs. For radios it returns the
// member whose value matches.
func validate(bs []*binding, value any) (*binding, error) {
	switch bs[0].control.Kind {
	case models.KindCheckbox:
		if _, err := toBool(value); err != nil {
			return nil, err
		}
	case models.KindRadio:
		want := toString(value)
		var member *binding
		for _, b := range bs {
			if b.control.DefaultString() == want {
				member = b
			}
		}
		if member == nil {
			return nil, fmt.Errorf("no radio member with value %q", want)
		}
		return member, nil
	}
	return nil, nil
}

// apply writes value into the elements picked from bs.
func apply(bs []*binding, value any, pick func(*binding) ui.Element) error {
	member, err := validate(bs, value)
	if err != nil {
		return err
	}
	switch bs[0].control.Kind {
	case models.KindCheckbox:
		v, _ := toBool(value)
		for _, b := range bs {
			pick(b).SetChecked(v)
		}
	case models.KindRadio:
		for _, b := range bs {
			pick(b).SetChecked(b == member)
		}
	case models.KindText:
		for _, b := range bs {
			pick(b).SetValue(toString(value))
		}
	}
	return nil
}

// Reset restores every control to its declared default.
func (f *Form) Reset() {
	for _, b := range f.bindings {
		switch b.control.Kind {
		case models.KindCheckbox:
			b.input.SetChecked(b.control.DefaultBool())
		case models.KindRadio:
			b.input.SetChecked(b.control.Checked)
			if b.control.Checked {
				// last declared default wins
				f.exclusive(b)
			}
		case models.KindText:
			b.input.SetValue(b.control.DefaultString())
		}
	}
}

// Facsimile clones the controls bound to key as disabled, read-only copies
// showing value. Every id, name and for attribute in the clones carries
// suffix.
func (f *Form) Facsimile(key string, value any, suffix string) ([]ui.Element, error) {
	bs := f.byKey[key]
	if len(bs) == 0 {
		return nil, fmt.Errorf("option %s not declared", key)
	}

	rows := make([]ui.Element, len(bs))
	inputs := make(map[*binding]ui.Element, len(bs))
	for i, b := range bs {
		rows[i] = b.row.Clone()
		ui.Walk(rows[i], func(e ui.Element) bool {
			for _, attr := range []string{"id", "name", "for"} {
				if v, ok := e.Attr(attr); ok {
					e.SetAttr(attr, v+"-"+suffix)
				}
			}
			if t, ok := e.Attr(AttrType); ok && t == TypeOptions {
				e.SetAttr(AttrType, TypeFacsimile)
				e.SetAttr("disabled", "")
				e.SetAttr("readonly", "")
				inputs[b] = e
			}
			return true
		})
	}
	if err := apply(bs, value, func(b *binding) ui.Element { return inputs[b] }); err != nil {
		return nil, fmt.Errorf("option %s: %w", key, err)
	}
	return rows, nil
}

func toBool(v any) (bool, error) {
	switch t := v.(type) {
	case bool:
		return t, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		if err != nil {
			return false, fmt.Errorf("expected boolean, got %q", t)
		}
		return b, nil
	case float64:
		return t != 0, nil
	}
	return false, fmt.Errorf("expected boolean, got %T", v)
}

func toString(v any) string {
	return models.OptionControl{Value: v}.DefaultString()
}
