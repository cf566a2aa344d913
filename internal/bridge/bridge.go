// Package bridge resolves plugin names into callable transformations.
//
// Plugins register zero-argument factories in a Registry. Resolution invokes
// the factory once per tool instance and binds the returned Transformer, so
// every instance owns its own plugin state even when several instances share
// the same loaded code.
package bridge

import (
	"fmt"
	"sort"
	"sync"

	"github.com/bobmcallan/toolrt/internal/common"
	"github.com/bobmcallan/toolrt/internal/models"
)

// SnapshotAccessor yields the current option snapshot.
type SnapshotAccessor interface {
	Get() models.OptionsSnapshot
}

// SnapshotFunc adapts a function to SnapshotAccessor.
type SnapshotFunc func() models.OptionsSnapshot

func (f SnapshotFunc) Get() models.OptionsSnapshot { return f() }

// Context is the runtime context handed to every transformation.
type Context struct {
	Options SnapshotAccessor
}

// Snapshot returns the current options, or an empty snapshot when no
// accessor is wired.
func (c *Context) Snapshot() models.OptionsSnapshot {
	if c == nil || c.Options == nil {
		return models.OptionsSnapshot{}
	}
	return c.Options.Get()
}

// Transformer is the capability every plugin instance must expose.
type Transformer interface {
	Transform(rc *Context, input string) (string, error)
}

// TransformFunc adapts a function to Transformer.
type TransformFunc func(rc *Context, input string) (string, error)

func (f TransformFunc) Transform(rc *Context, input string) (string, error) { return f(rc, input) }

// Factory creates a plugin instance. The returned value must implement
// Transformer; anything else fails resolution with UnsupportedBridgeError.
type Factory func() any

// Bridge is a resolved transformation entry point.
type Bridge func(rc *Context, input string) (string, error)

// Registry maps plugin names to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a named factory. Names are unique within a registry.
func (r *Registry) Register(name string, f Factory) error {
	if name == "" {
		return fmt.Errorf("bridge name is empty")
	}
	if f == nil {
		return fmt.Errorf("bridge %q: nil factory", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("bridge %q already registered", name)
	}
	r.factories[name] = f
	return nil
}

// Lookup returns the factory registered under name.
func (r *Registry) Lookup(name string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[name]
	return f, ok
}

// Names returns the registered plugin names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolver turns plugin names into bridges.
type Resolver struct {
	registry *Registry
	logger   *common.Logger
}

// NewResolver creates a resolver over registry.
func NewResolver(registry *Registry, logger *common.Logger) *Resolver {
	return &Resolver{registry: registry, logger: logger}
}

// Resolve instantiates the plugin registered under name and returns its
// transformation entry point.
func (r *Resolver) Resolve(name string) (Bridge, error) {
	factory, ok := r.registry.Lookup(name)
	if !ok {
		return nil, &PluginNotRegisteredError{Name: name, Registered: r.registry.Names()}
	}

	instance, err := instantiate(factory)
	if err != nil {
		return nil, &UnsupportedBridgeError{Name: name, Reason: err.Error()}
	}
	t, ok := instance.(Transformer)
	if !ok || t == nil {
		return nil, &UnsupportedBridgeError{Name: name, Reason: fmt.Sprintf("factory returned %T", instance)}
	}

	r.logger.Debug().Str("bridge", name).Msg("bridge resolved")

	return func(rc *Context, input string) (out string, err error) {
		defer func() {
			if p := recover(); p != nil {
				err = &TransformError{Bridge: name, Err: fmt.Errorf("panic: %v", p)}
			}
		}()
		out, err = t.Transform(rc, input)
		if err != nil {
			if _, wrapped := err.(*TransformError); !wrapped {
				err = &TransformError{Bridge: name, Err: err}
			}
			return "", err
		}
		return out, nil
	}, nil
}

// instantiate calls factory, converting a panic into an error.
func instantiate(factory Factory) (instance any, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("factory panicked: %v", p)
		}
	}()
	return factory(), nil
}
