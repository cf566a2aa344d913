// Package memdom is an in-memory implementation of the ui capability. It
// keeps the element tree, event handlers and focus state of one tool page
// and can serialize the tree to HTML.
package memdom

import (
	"github.com/bobmcallan/toolrt/internal/ui"
)

type stylesheet struct {
	name string
	css  string
}

// Document is a headless element tree.
type Document struct {
	root    *Element
	focused *Element
	styles  []stylesheet
}

// New creates an empty document with a body root.
func New() *Document {
	d := &Document{}
	d.root = &Element{doc: d, tag: "body", attrs: map[string]string{}}
	return d
}

// Create builds a detached element from spec.
func (d *Document) Create(spec ui.Spec) ui.Element {
	e := &Element{
		doc:   d,
		tag:   spec.Tag,
		attrs: make(map[string]string, len(spec.Attrs)+2),
		value: spec.Value,
	}
	if e.tag == "" {
		e.tag = "div"
	}
	for k, v := range spec.Attrs {
		e.attrs[k] = v
	}
	if spec.ID != "" {
		e.attrs["id"] = spec.ID
	}
	if spec.Classes != "" {
		e.attrs["class"] = spec.Classes
	}
	for event, h := range spec.Events {
		e.On(event, h)
	}
	return e
}

// Root returns the body element.
func (d *Document) Root() ui.Element {
	return d.root
}

// ByID finds an attached element by its id attribute.
func (d *Document) ByID(id string) (ui.Element, bool) {
	var found ui.Element
	ui.Walk(d.root, func(e ui.Element) bool {
		if found != nil {
			return false
		}
		if e.ID() == id {
			found = e
			return false
		}
		return true
	})
	return found, found != nil
}

// Focused returns the element that last received focus, or nil.
func (d *Document) Focused() ui.Element {
	if d.focused == nil {
		return nil
	}
	return d.focused
}

// AddStylesheet attaches a stylesheet to the document head.
func (d *Document) AddStylesheet(name, css string) {
	d.styles = append(d.styles, stylesheet{name: name, css: css})
}

// Stylesheets returns the names of attached stylesheets.
func (d *Document) Stylesheets() []string {
	names := make([]string, len(d.styles))
	for i, s := range d.styles {
		names[i] = s.name
	}
	return names
}
