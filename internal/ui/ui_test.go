package ui_test

import (
	"testing"

	"github.com/bobmcallan/toolrt/internal/ui"
	"github.com/bobmcallan/toolrt/internal/ui/memdom"
)

func TestFindAll_MatchesAttribute(t *testing.T) {
	doc := memdom.New()
	root := doc.Root()
	a := ui.Append(doc, root, ui.Spec{Tag: "input", Attrs: map[string]string{"data-type": "options"}})
	wrapper := ui.Append(doc, root, ui.Spec{Tag: "div"})
	b := ui.Append(doc, wrapper, ui.Spec{Tag: "input", Attrs: map[string]string{"data-type": "options"}})
	ui.Append(doc, wrapper, ui.Spec{Tag: "input"})

	found := ui.FindAll(root, "data-type", "options")
	if len(found) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(found))
	}
	if found[0] != a || found[1] != b {
		t.Error("expected matches in document order")
	}
}

func TestClick_Checkbox(t *testing.T) {
	doc := memdom.New()
	cb := doc.Create(ui.Spec{Tag: "input", Attrs: map[string]string{"type": "checkbox"}})
	changes := 0
	cb.On(ui.EventChange, func(ui.Element) { changes++ })

	ui.Click(cb)
	if !cb.Checked() {
		t.Error("expected checkbox checked after click")
	}
	ui.Click(cb)
	if cb.Checked() {
		t.Error("expected checkbox unchecked after second click")
	}
	if changes != 2 {
		t.Errorf("expected 2 change events, got %d", changes)
	}
}

func TestClick_RadioAlwaysSelects(t *testing.T) {
	doc := memdom.New()
	r := doc.Create(ui.Spec{Tag: "input", Attrs: map[string]string{"type": "radio"}})
	ui.Click(r)
	ui.Click(r)
	if !r.Checked() {
		t.Error("clicking a radio twice must leave it selected")
	}
}

func TestClick_DisabledIgnored(t *testing.T) {
	doc := memdom.New()
	cb := doc.Create(ui.Spec{Tag: "input", Attrs: map[string]string{"type": "checkbox", "disabled": ""}})
	fired := false
	cb.On(ui.EventChange, func(ui.Element) { fired = true })

	ui.Click(cb)
	if cb.Checked() || fired {
		t.Error("disabled controls must not react to clicks")
	}
}

func TestType_FiresInput(t *testing.T) {
	doc := memdom.New()
	ta := doc.Create(ui.Spec{Tag: "textarea"})
	var seen string
	ta.On(ui.EventInput, func(e ui.Element) { seen = e.Value() })

	ui.Type(ta, "hello")
	if seen != "hello" {
		t.Errorf("expected handler to observe typed value, got %q", seen)
	}
}
