// Package gallery renders worked examples and applies them to a live tool.
package gallery

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/google/uuid"

	"github.com/bobmcallan/toolrt/internal/common"
	"github.com/bobmcallan/toolrt/internal/models"
	"github.com/bobmcallan/toolrt/internal/options"
	"github.com/bobmcallan/toolrt/internal/ui"
)

// Gallery holds the rendered example cards of one tool instance.
type Gallery struct {
	examples []models.Example
	cards    []ui.Element
	form     *options.Form
	input    ui.Element
	output   ui.Element
	logger   *common.Logger
}

// Render draws one card per example under parent. Clicking a card applies
// its example to input, output and form.
func Render(doc ui.Document, parent ui.Element, examples []models.Example, form *options.Form, input, output ui.Element, logger *common.Logger) (*Gallery, error) {
	g := &Gallery{
		examples: examples,
		form:     form,
		input:    input,
		output:   output,
		logger:   logger,
	}

	for i, ex := range examples {
		suffix := uuid.NewString()
		card := ui.Append(doc, parent, ui.Spec{
			ID:      "example-" + suffix,
			Classes: "example",
			Attrs:   map[string]string{"data-example": strconv.Itoa(i)},
			Events: map[string]ui.Handler{
				ui.EventClick: func(ui.Element) {
					if err := g.Apply(ex); err != nil {
						g.logger.Warn().Str("example", ex.Title).Str("error", err.Error()).Msg("example applied with errors")
					}
				},
			},
		})
		ui.Append(doc, card, ui.Spec{Tag: "h4", Classes: "example-title", Value: ex.Title})
		if ex.Description != "" {
			ui.Append(doc, card, ui.Spec{Tag: "p", Classes: "example-description", Value: ex.Description})
		}

		io := ui.Append(doc, card, ui.Spec{Classes: "example-io"})
		ui.Append(doc, io, ui.Spec{Tag: "pre", Classes: "example-input", Value: ex.Input})
		ui.Append(doc, io, ui.Spec{Tag: "span", Classes: "example-arrow", Value: "→"})
		ui.Append(doc, io, ui.Spec{Tag: "pre", Classes: "example-output", Value: ex.Output})

		if len(ex.Options) > 0 {
			box := ui.Append(doc, card, ui.Spec{Classes: "example-options"})
			for _, key := range ex.Options.Keys() {
				rows, err := form.Facsimile(key, ex.Options[key], suffix)
				if err != nil {
					g.logger.Warn().Str("example", ex.Title).Str("option", key).Str("error", err.Error()).Msg("example option not rendered")
					continue
				}
				for _, r := range rows {
					box.AppendChild(r)
				}
			}
		}
		g.cards = append(g.cards, card)
	}
	return g, nil
}

// Len returns the number of examples.
func (g *Gallery) Len() int { return len(g.examples) }

// Example returns the example at position i.
func (g *Gallery) Example(i int) (models.Example, bool) {
	if i < 0 || i >= len(g.examples) {
		return models.Example{}, false
	}
	return g.examples[i], true
}

// Card returns the rendered card of example i.
func (g *Gallery) Card(i int) (ui.Element, bool) {
	if i < 0 || i >= len(g.cards) {
		return nil, false
	}
	return g.cards[i], true
}

// Apply overwrites input and output with the example literals, sets every
// option the example names and focuses the input. The bridge is not
// invoked. Options outside the schema are skipped and reported.
func (g *Gallery) Apply(ex models.Example) error {
	g.input.SetValue(ex.Input)
	g.output.SetValue(ex.Output)

	keys := make([]string, 0, len(ex.Options))
	for k := range ex.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var errs []error
	for _, key := range keys {
		ok, err := g.form.Set(key, ex.Options[key])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !ok {
			errs = append(errs, fmt.Errorf("option %s not declared", key))
		}
	}

	g.input.Focus()
	g.logger.Debug().Str("example", ex.Title).Int("options", len(keys)).Msg("example applied")
	return errors.Join(errs...)
}
