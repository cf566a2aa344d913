package client

import (
	"fmt"

	"github.com/bobmcallan/toolrt/internal/models"
)

// Validate checks that a descriptor's schema can be rendered: every control
// has a supported kind, and keys are unique across the schema except for
// radio members sharing one exclusivity scope. Text controls with an empty
// key are tolerated; the renderer skips them.
func Validate(d *models.ToolDescriptor) error {
	if d.ID == "" {
		return &InvalidDescriptorError{Reason: "empty identifier"}
	}
	if d.Bridge == "" {
		return &InvalidDescriptorError{ID: d.ID, Reason: "empty bridge name"}
	}

	// key -> owning scope ("" for checkbox/text)
	owners := make(map[string]string)
	for gi, g := range d.Options {
		for _, c := range g.Controls {
			if !c.Kind.Valid() {
				return &InvalidDescriptorError{ID: d.ID, Reason: fmt.Sprintf("group %q: unsupported control type %q", g.Name, c.Kind)}
			}
			if c.Key == "" {
				if c.Kind == models.KindText {
					continue
				}
				return &InvalidDescriptorError{ID: d.ID, Reason: fmt.Sprintf("group %q: %s control has empty name", g.Name, c.Kind)}
			}

			scope := ""
			if c.Kind == models.KindRadio {
				scope = models.RadioScope(gi, g, c)
			}
			owner, seen := owners[c.Key]
			if seen && (scope == "" || owner != scope) {
				return &InvalidDescriptorError{ID: d.ID, Reason: fmt.Sprintf("duplicate option key %q", c.Key)}
			}
			owners[c.Key] = scope
		}
	}
	return nil
}
