package models

import (
	"encoding/json"
	"testing"
)

const sampleDocument = `{
  "tools": [
    {
      "url": "html-escape",
      "name": "HTML Escape",
      "from": "String",
      "to": "Escaped string",
      "libraries": ["he"],
      "bridge": "html-escape",
      "options": [
        {
          "group": "Escape Mode",
          "buttons": [
            {"type": "radio", "name": "mode", "value": "strict", "label": "Strict"},
            {"type": "radio", "name": "mode", "value": "loose", "label": "Loose", "checked": true},
            {"type": "checkbox", "name": "named", "value": true, "label": "Named entities", "comment": "Use &amp;lt;"}
          ]
        }
      ],
      "examples": [
        {"title": "Tags", "description": "d", "input": "<p>", "output": "&lt;p&gt;", "options": {"mode": "strict", "named": true}}
      ]
    }
  ]
}`

func TestDocument_Unmarshal(t *testing.T) {
	var doc Document
	if err := json.Unmarshal([]byte(sampleDocument), &doc); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	d, ok := doc.Find("html-escape")
	if !ok {
		t.Fatal("expected to find html-escape")
	}
	if d.Name != "HTML Escape" || d.InputLabel != "String" || d.OutputLabel != "Escaped string" {
		t.Errorf("unexpected descriptor header: %+v", d)
	}
	if d.Bridge != "html-escape" {
		t.Errorf("expected bridge html-escape, got %s", d.Bridge)
	}
	if len(d.Options) != 1 || len(d.Options[0].Controls) != 3 {
		t.Fatalf("unexpected options: %+v", d.Options)
	}
	named := d.Options[0].Controls[2]
	if named.Kind != KindCheckbox || !named.DefaultBool() {
		t.Errorf("expected checked checkbox default, got %+v", named)
	}
	if !d.Options[0].Controls[1].Checked {
		t.Error("expected loose radio to be checked")
	}
	if d.Examples[0].Options.String("mode") != "strict" {
		t.Errorf("expected example mode strict, got %v", d.Examples[0].Options["mode"])
	}
	if !d.Examples[0].Options.Bool("named") {
		t.Error("expected example named=true")
	}

	if _, ok := doc.Find("missing"); ok {
		t.Error("expected Find to miss unknown id")
	}
}

func TestControlKind_Valid(t *testing.T) {
	tests := []struct {
		kind ControlKind
		want bool
	}{
		{KindCheckbox, true},
		{KindRadio, true},
		{KindText, true},
		{"select", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := tt.kind.Valid(); got != tt.want {
			t.Errorf("Valid(%q) = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestOptionControl_Defaults(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		wantBool bool
		wantStr  string
	}{
		{"nil", nil, false, ""},
		{"bool true", true, true, "true"},
		{"string", "strict", false, "strict"},
		{"string true", "true", true, "true"},
		{"number", float64(4), true, "4"},
		{"zero", float64(0), false, "0"},
		{"million", float64(1000000), true, "1000000"},
		{"large", float64(12345678), true, "12345678"},
		{"fraction", float64(2.5), true, "2.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := OptionControl{Value: tt.value}
			if got := c.DefaultBool(); got != tt.wantBool {
				t.Errorf("DefaultBool() = %v, want %v", got, tt.wantBool)
			}
			if got := c.DefaultString(); got != tt.wantStr {
				t.Errorf("DefaultString() = %q, want %q", got, tt.wantStr)
			}
		})
	}
}

func TestRadioScope(t *testing.T) {
	first := OptionGroup{Name: "Output Mode"}
	second := OptionGroup{Name: "output-mode"}
	c := OptionControl{Kind: KindRadio, Key: "mode"}

	a := RadioScope(0, first, c)
	b := RadioScope(1, second, c)
	if a == b {
		t.Errorf("groups normalizing to the same name must not share a scope: %s", a)
	}
	if a != "output_mode-0" {
		t.Errorf("unexpected scope %s", a)
	}

	explicit := OptionControl{Kind: KindRadio, Key: "mode", Group: "m"}
	if got := RadioScope(2, first, explicit); got != "m-2" {
		t.Errorf("expected explicit group scope m-2, got %s", got)
	}
}

func TestOptionsSnapshot_Accessors(t *testing.T) {
	s := OptionsSnapshot{"b": true, "a": "x"}
	if !s.Bool("b") || s.Bool("a") {
		t.Error("Bool accessor mismatch")
	}
	if s.String("a") != "x" || s.String("b") != "" {
		t.Error("String accessor mismatch")
	}
	if !s.Has("a") || s.Has("c") {
		t.Error("Has accessor mismatch")
	}
	keys := s.Keys()
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Errorf("expected sorted keys [a b], got %v", keys)
	}
}
