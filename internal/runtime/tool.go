package runtime

import (
	"fmt"
	"sync"

	"github.com/bobmcallan/toolrt/internal/bridge/script"
	"github.com/bobmcallan/toolrt/internal/common"
	"github.com/bobmcallan/toolrt/internal/gallery"
	"github.com/bobmcallan/toolrt/internal/models"
	"github.com/bobmcallan/toolrt/internal/options"
	"github.com/bobmcallan/toolrt/internal/ui"
)

// Tool is a live tool instance. Its methods simulate user interaction and
// are safe for concurrent use.
type Tool struct {
	mu         sync.Mutex
	closed     bool
	descriptor *models.ToolDescriptor
	doc        ui.Document
	container  ui.Element
	input      ui.Element
	output     ui.Element
	form       *options.Form
	gallery    *gallery.Gallery
	engine     *Engine
	env        *script.Environment
	logger     *common.Logger
}

// Descriptor returns the descriptor the tool was built from.
func (t *Tool) Descriptor() *models.ToolDescriptor { return t.descriptor }

// Engine returns the tool's recompute engine.
func (t *Tool) Engine() *Engine { return t.engine }

// Type replaces the input text.
func (t *Tool) Type(text string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	ui.Type(t.input, text)
	return nil
}

// Toggle flips the checkbox bound to key.
func (t *Tool) Toggle(key string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	el, err := t.control(key, models.KindCheckbox, nil)
	if err != nil {
		return err
	}
	ui.Click(el)
	return nil
}

// Select checks the radio member of key whose value is value.
func (t *Tool) Select(key, value string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	el, err := t.control(key, models.KindRadio, func(e ui.Element) bool { return e.Value() == value })
	if err != nil {
		return err
	}
	ui.Click(el)
	return nil
}

// Edit replaces the text of the text control bound to key.
func (t *Tool) Edit(key, text string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	el, err := t.control(key, models.KindText, nil)
	if err != nil {
		return err
	}
	ui.Type(el, text)
	ui.Blur(el)
	return nil
}

// control finds the live element of key, which must be of kind.
func (t *Tool) control(key string, kind models.ControlKind, match func(ui.Element) bool) (ui.Element, error) {
	if t.closed {
		return nil, ErrClosed
	}
	k, ok := t.form.Kind(key)
	if !ok {
		return nil, fmt.Errorf("option %s not declared", key)
	}
	if k != kind {
		return nil, fmt.Errorf("option %s is a %s, not a %s", key, k, kind)
	}
	for _, el := range t.form.Elements(key) {
		if match == nil || match(el) {
			return el, nil
		}
	}
	return nil, fmt.Errorf("option %s has no matching control", key)
}

// ApplyExample applies the example at position i.
func (t *Tool) ApplyExample(i int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	ex, ok := t.gallery.Example(i)
	if !ok {
		return fmt.Errorf("example %d out of range (%d examples)", i, t.gallery.Len())
	}
	return t.gallery.Apply(ex)
}

// Transform checks opts against the schema, resets the options to their
// defaults, applies opts, sets the input and recomputes. Invalid opts leave
// the instance untouched. It returns the resulting output.
func (t *Tool) Transform(input string, opts models.OptionsSnapshot) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return "", ErrClosed
	}

	keys := opts.Keys()
	for _, key := range keys {
		if err := t.form.Check(key, opts[key]); err != nil {
			return "", err
		}
	}

	t.form.Reset()
	for _, key := range keys {
		if _, err := t.form.Set(key, opts[key]); err != nil {
			return "", err
		}
	}
	t.input.SetValue(input)
	if err := t.engine.Recompute(); err != nil {
		return "", err
	}
	return t.output.Value(), nil
}

// Input returns the current input text.
func (t *Tool) Input() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.input.Value()
}

// Output returns the current output text.
func (t *Tool) Output() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.output.Value()
}

// Snapshot returns the current option snapshot.
func (t *Tool) Snapshot() models.OptionsSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.form.Get()
}

// HTML renders the tool's document when the document supports it.
func (t *Tool) HTML() (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	r, ok := t.doc.(interface{ HTML(title string) (string, error) })
	if !ok {
		return "", fmt.Errorf("document %T cannot render HTML", t.doc)
	}
	return r.HTML(t.descriptor.Name)
}

// Close releases the plugin environment. Closed tools reject interaction.
func (t *Tool) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.closed = true
	t.env.Close()
	t.logger.Debug().Str("tool", t.descriptor.ID).Msg("tool closed")
}
