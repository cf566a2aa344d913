// Package ui defines the element-building capability used by the option
// renderer, the example gallery and the recompute engine. Concrete
// presentation layers implement Document and Element; package memdom
// provides the headless implementation toolrt ships with.
package ui

// Event types dispatched by controls.
const (
	EventInput  = "input"
	EventChange = "change"
	EventBlur   = "blur"
	EventClick  = "click"
)

// Handler reacts to an event dispatched on an element.
type Handler func(e Element)

// Spec describes an element to create.
type Spec struct {
	Tag     string
	ID      string
	Classes string
	Attrs   map[string]string
	Value   string
	Events  map[string]Handler
}

// Element is one node of the presentation tree.
type Element interface {
	Tag() string
	ID() string

	AppendChild(child Element)
	Children() []Element

	SetValue(v string)
	Value() string
	SetChecked(checked bool)
	Checked() bool

	SetAttr(name, value string)
	Attr(name string) (string, bool)
	RemoveAttr(name string)

	// On registers h for event; handlers run synchronously on Dispatch.
	On(event string, h Handler)
	Dispatch(event string)

	Focus()

	// Clone deep-copies the element and its children without event handlers.
	Clone() Element
}

// Document creates elements and tracks document-wide state.
type Document interface {
	Create(spec Spec) Element
	Root() Element
	ByID(id string) (Element, bool)
	Focused() Element
	AddStylesheet(name, css string)
}

// Append creates an element from spec and appends it to parent.
func Append(doc Document, parent Element, spec Spec) Element {
	el := doc.Create(spec)
	parent.AppendChild(el)
	return el
}

// Walk visits e and its descendants depth-first in document order. Returning
// false from fn skips the element's children.
func Walk(e Element, fn func(Element) bool) {
	if !fn(e) {
		return
	}
	for _, c := range e.Children() {
		Walk(c, fn)
	}
}

// FindAll returns every descendant of root (root included) whose attribute
// name equals value.
func FindAll(root Element, name, value string) []Element {
	var out []Element
	Walk(root, func(e Element) bool {
		if v, ok := e.Attr(name); ok && v == value {
			out = append(out, e)
		}
		return true
	})
	return out
}

// Disabled reports whether e carries the disabled attribute.
func Disabled(e Element) bool {
	_, ok := e.Attr("disabled")
	return ok
}

// Type replaces the value of a text control the way a user edit would and
// fires the input event.
func Type(e Element, text string) {
	if Disabled(e) {
		return
	}
	e.SetValue(text)
	e.Dispatch(EventInput)
}

// Blur fires the blur event on e.
func Blur(e Element) {
	e.Dispatch(EventBlur)
}

// Click simulates a user click: checkboxes toggle, radios select, and the
// change event fires for both. Other elements receive a click event.
func Click(e Element) {
	if Disabled(e) {
		return
	}
	typ, _ := e.Attr("type")
	switch typ {
	case "checkbox":
		e.SetChecked(!e.Checked())
		e.Dispatch(EventChange)
	case "radio":
		e.SetChecked(true)
		e.Dispatch(EventChange)
	default:
		e.Dispatch(EventClick)
	}
}
