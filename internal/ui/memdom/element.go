package memdom

import (
	"fmt"

	"github.com/bobmcallan/toolrt/internal/ui"
)

// Element is a node of a Document.
type Element struct {
	doc      *Document
	parent   *Element
	tag      string
	attrs    map[string]string
	value    string
	checked  bool
	children []*Element
	handlers map[string][]ui.Handler
}

func (e *Element) Tag() string { return e.tag }

func (e *Element) ID() string { return e.attrs["id"] }

// AppendChild attaches child as the last child of e, detaching it from any
// previous parent. child must have been created by the same document.
func (e *Element) AppendChild(child ui.Element) {
	c, ok := child.(*Element)
	if !ok || c.doc != e.doc {
		panic(fmt.Sprintf("memdom: cannot append foreign element %T", child))
	}
	if c.parent != nil {
		c.parent.removeChild(c)
	}
	c.parent = e
	e.children = append(e.children, c)
}

func (e *Element) removeChild(c *Element) {
	for i, existing := range e.children {
		if existing == c {
			e.children = append(e.children[:i], e.children[i+1:]...)
			c.parent = nil
			return
		}
	}
}

func (e *Element) Children() []ui.Element {
	out := make([]ui.Element, len(e.children))
	for i, c := range e.children {
		out[i] = c
	}
	return out
}

func (e *Element) SetValue(v string) { e.value = v }

func (e *Element) Value() string { return e.value }

func (e *Element) SetChecked(checked bool) { e.checked = checked }

func (e *Element) Checked() bool { return e.checked }

func (e *Element) SetAttr(name, value string) { e.attrs[name] = value }

func (e *Element) Attr(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

func (e *Element) RemoveAttr(name string) { delete(e.attrs, name) }

func (e *Element) On(event string, h ui.Handler) {
	if h == nil {
		return
	}
	if e.handlers == nil {
		e.handlers = make(map[string][]ui.Handler)
	}
	e.handlers[event] = append(e.handlers[event], h)
}

// Dispatch runs the handlers registered for event in registration order.
func (e *Element) Dispatch(event string) {
	hs := append([]ui.Handler(nil), e.handlers[event]...)
	for _, h := range hs {
		h(e)
	}
}

func (e *Element) Focus() { e.doc.focused = e }

func (e *Element) Clone() ui.Element {
	return e.clone()
}

func (e *Element) clone() *Element {
	c := &Element{
		doc:     e.doc,
		tag:     e.tag,
		attrs:   make(map[string]string, len(e.attrs)),
		value:   e.value,
		checked: e.checked,
	}
	for k, v := range e.attrs {
		c.attrs[k] = v
	}
	for _, child := range e.children {
		cc := child.clone()
		cc.parent = c
		c.children = append(c.children, cc)
	}
	return c
}
