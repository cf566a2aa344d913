// Package runtime bootstraps tool instances: it fetches a descriptor, loads
// libraries and the plugin, resolves the bridge, builds the page and wires
// the recompute engine.
package runtime

import (
	"context"
	"fmt"
	"time"

	"github.com/bobmcallan/toolrt/internal/bridge"
	"github.com/bobmcallan/toolrt/internal/bridge/builtin"
	"github.com/bobmcallan/toolrt/internal/bridge/script"
	"github.com/bobmcallan/toolrt/internal/cache"
	"github.com/bobmcallan/toolrt/internal/client"
	"github.com/bobmcallan/toolrt/internal/common"
	"github.com/bobmcallan/toolrt/internal/config"
	"github.com/bobmcallan/toolrt/internal/gallery"
	"github.com/bobmcallan/toolrt/internal/loader"
	"github.com/bobmcallan/toolrt/internal/models"
	"github.com/bobmcallan/toolrt/internal/options"
	"github.com/bobmcallan/toolrt/internal/ui"
)

// DescriptorSource fetches tool descriptors.
type DescriptorSource interface {
	FetchDescriptor(ctx context.Context, id string) (*models.ToolDescriptor, error)
}

// Options configures a Runtime.
type Options struct {
	LibraryBase      string
	PluginBase       string // empty: only compiled-in bridges are available
	PresentationBase string
	Stylesheet       string // empty: no stylesheet is attached
	Aliases          map[string]string
	OnError          FailurePolicy
}

// Runtime creates tool instances.
type Runtime struct {
	descriptors DescriptorSource
	fetcher     loader.Fetcher
	opts        Options
	logger      *common.Logger
}

// New creates a Runtime.
func New(descriptors DescriptorSource, fetcher loader.Fetcher, opts Options, logger *common.Logger) *Runtime {
	if opts.OnError == "" {
		opts.OnError = FailurePolicyKeep
	}
	return &Runtime{
		descriptors: descriptors,
		fetcher:     fetcher,
		opts:        opts,
		logger:      logger,
	}
}

// NewFromConfig wires the descriptor client and resource fetcher described
// by cfg. c may be nil.
func NewFromConfig(cfg *config.Config, c *cache.ResourceCache, logger *common.Logger) (*Runtime, error) {
	policy, err := ParseFailurePolicy(cfg.Runtime.OnError)
	if err != nil {
		return nil, err
	}
	descriptors := client.NewDescriptorClient(cfg.Descriptors.URL, cfg.Descriptors.GetTimeout(), logger)
	fetcher := loader.NewHTTPFetcher(cfg.Resources.GetTimeout(), c, logger)

	return New(descriptors, fetcher, Options{
		LibraryBase:      cfg.Resources.LibraryBase,
		PluginBase:       cfg.Resources.PluginBase,
		PresentationBase: cfg.Resources.PresentationBase,
		Stylesheet:       cfg.Resources.Stylesheet,
		Aliases:          cfg.Resources.Aliases,
		OnError:          policy,
	}, logger), nil
}

// Descriptors returns the runtime's descriptor source.
func (r *Runtime) Descriptors() DescriptorSource { return r.descriptors }

// Bootstrap fetches the descriptor for toolID and builds a live instance
// under mount (the document root when nil).
func (r *Runtime) Bootstrap(ctx context.Context, toolID string, doc ui.Document, mount ui.Element) (*Tool, error) {
	d, err := r.descriptors.FetchDescriptor(ctx, toolID)
	if err != nil {
		return nil, &BootstrapError{Tool: toolID, Stage: StageDescriptor, Err: err}
	}
	return r.BootstrapDescriptor(ctx, d, doc, mount)
}

// BootstrapDescriptor builds a live instance from an already fetched
// descriptor. Any failure is fatal and leaves nothing attached to mount.
func (r *Runtime) BootstrapDescriptor(ctx context.Context, d *models.ToolDescriptor, doc ui.Document, mount ui.Element) (*Tool, error) {
	start := time.Now()
	logger := r.logger
	fail := func(stage string, err error) (*Tool, error) {
		logger.Error().Str("tool", d.ID).Str("stage", stage).Err(err).Msg("bootstrap failed")
		return nil, &BootstrapError{Tool: d.ID, Stage: stage, Err: err}
	}

	if err := client.Validate(d); err != nil {
		return fail(StageDescriptor, err)
	}
	if mount == nil {
		mount = doc.Root()
	}

	registry := bridge.NewRegistry()
	if err := builtin.Register(registry); err != nil {
		return fail(StagePlugin, err)
	}
	env := script.New(registry, logger)
	ok := false
	defer func() {
		if !ok {
			env.Close()
		}
	}()
	ld := loader.New(r.fetcher, env, logger, loader.WithAliases(r.opts.Aliases))

	if err := ld.LoadAll(ctx, r.opts.LibraryBase, dedupe(d.Libraries)); err != nil {
		return fail(StageLibraries, err)
	}

	if _, compiled := registry.Lookup(d.Bridge); !compiled && r.opts.PluginBase != "" {
		if err := ld.Load(ctx, r.opts.PluginBase, d.Bridge); err != nil {
			return fail(StagePlugin, err)
		}
	}

	b, err := bridge.NewResolver(registry, logger).Resolve(d.Bridge)
	if err != nil {
		return fail(StageResolve, err)
	}

	if r.opts.Stylesheet != "" && r.opts.PresentationBase != "" {
		style, err := ld.FetchStyle(ctx, r.opts.PresentationBase, r.opts.Stylesheet)
		if err != nil {
			return fail(StagePresentation, err)
		}
		doc.AddStylesheet(style.Name, string(style.Body))
	}

	t, err := r.build(d, doc, b, env)
	if err != nil {
		return fail(StageRender, err)
	}
	mount.AppendChild(t.container)

	// initial recompute; a failure here follows the engine policy
	_ = t.engine.Recompute()

	ok = true
	logger.Info().Str("tool", d.ID).Str("bridge", d.Bridge).Int("libraries", len(d.Libraries)).Dur("elapsed", time.Since(start)).Msg("tool ready")
	return t, nil
}

// build creates the detached page of a tool instance.
func (r *Runtime) build(d *models.ToolDescriptor, doc ui.Document, b bridge.Bridge, env *script.Environment) (*Tool, error) {
	t := &Tool{descriptor: d, doc: doc, env: env, logger: r.logger}
	recompute := func() { _ = t.engine.Recompute() }

	t.container = doc.Create(ui.Spec{ID: "tool-" + d.ID, Classes: "tool"})
	ui.Append(doc, t.container, ui.Spec{Tag: "h1", Classes: "tool-name", Value: d.Name})

	labels := ui.Append(doc, t.container, ui.Spec{Classes: "tool-labels"})
	ui.Append(doc, labels, ui.Spec{Tag: "label", Attrs: map[string]string{"for": "input"}, Value: d.InputLabel})
	ui.Append(doc, labels, ui.Spec{Tag: "label", Attrs: map[string]string{"for": "output"}, Value: d.OutputLabel})

	io := ui.Append(doc, t.container, ui.Spec{Classes: "tool-io"})
	t.input = ui.Append(doc, io, ui.Spec{
		Tag: "textarea",
		ID:  "input",
		Events: map[string]ui.Handler{
			ui.EventInput: func(ui.Element) { recompute() },
			ui.EventBlur:  func(ui.Element) { recompute() },
		},
	})
	t.output = ui.Append(doc, io, ui.Spec{Tag: "textarea", ID: "output", Attrs: map[string]string{"readonly": ""}})

	optionsBox := ui.Append(doc, t.container, ui.Spec{ID: "options", Classes: "tool-options"})
	form, err := options.Render(doc, optionsBox, d.Options, recompute)
	if err != nil {
		return nil, fmt.Errorf("options: %w", err)
	}
	t.form = form

	examplesBox := ui.Append(doc, t.container, ui.Spec{ID: "examples", Classes: "tool-examples"})
	g, err := gallery.Render(doc, examplesBox, d.Examples, form, t.input, t.output, r.logger)
	if err != nil {
		return nil, fmt.Errorf("examples: %w", err)
	}
	t.gallery = g

	rc := &bridge.Context{Options: bridge.SnapshotFunc(form.Get)}
	t.engine = NewEngine(b, rc, t.input, t.output, r.opts.OnError, r.logger)
	return t, nil
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
