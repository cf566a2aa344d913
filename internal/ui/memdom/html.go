package memdom

import (
	"bytes"
	"fmt"
	"sort"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTML serializes the document, stylesheets included, as a complete page.
func (d *Document) HTML(title string) (string, error) {
	page := newNode("html")
	head := newNode("head")
	page.AppendChild(head)

	t := newNode("title")
	t.AppendChild(&html.Node{Type: html.TextNode, Data: title})
	head.AppendChild(t)

	for _, s := range d.styles {
		style := newNode("style")
		style.Attr = append(style.Attr, html.Attribute{Key: "data-name", Val: s.name})
		style.AppendChild(&html.Node{Type: html.TextNode, Data: s.css})
		head.AppendChild(style)
	}

	page.AppendChild(d.root.node())

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(page)

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return "", fmt.Errorf("failed to render document: %w", err)
	}
	return buf.String(), nil
}

// Fragment serializes e and its descendants.
func (e *Element) Fragment() (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, e.node()); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", e.tag, err)
	}
	return buf.String(), nil
}

func newNode(tag string) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
}

// node converts e into an html.Node. Values become the value attribute of
// inputs and the text content of every other element.
func (e *Element) node() *html.Node {
	n := newNode(e.tag)

	keys := make([]string, 0, len(e.attrs))
	for k := range e.attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		n.Attr = append(n.Attr, html.Attribute{Key: k, Val: e.attrs[k]})
	}

	if e.tag == "input" {
		if e.value != "" {
			n.Attr = append(n.Attr, html.Attribute{Key: "value", Val: e.value})
		}
		if e.checked {
			n.Attr = append(n.Attr, html.Attribute{Key: "checked"})
		}
		return n
	}

	if e.value != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: e.value})
	}
	for _, c := range e.children {
		n.AppendChild(c.node())
	}
	return n
}
