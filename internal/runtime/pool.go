package runtime

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/bobmcallan/toolrt/internal/client"
	"github.com/bobmcallan/toolrt/internal/common"
	"github.com/bobmcallan/toolrt/internal/models"
	"github.com/bobmcallan/toolrt/internal/ui/memdom"
)

// Pool keeps one live instance per tool of a descriptor document. Instances
// are bootstrapped on first use, each in its own headless document.
type Pool struct {
	rt     *Runtime
	doc    *models.Document
	mu     sync.Mutex
	tools  map[string]*Tool
	closed bool
	boots  singleflight.Group
	logger *common.Logger
}

// NewPool creates a pool over doc.
func NewPool(rt *Runtime, doc *models.Document, logger *common.Logger) *Pool {
	return &Pool{
		rt:     rt,
		doc:    doc,
		tools:  make(map[string]*Tool),
		logger: logger,
	}
}

// Descriptors returns every descriptor of the document.
func (p *Pool) Descriptors() []models.ToolDescriptor {
	return p.doc.Tools
}

// Descriptor returns the descriptor of id.
func (p *Pool) Descriptor(id string) (*models.ToolDescriptor, bool) {
	return p.doc.Find(id)
}

// Get returns the live instance of id, bootstrapping it when needed. A
// failed bootstrap is not cached. Bootstraps run outside the pool lock;
// concurrent first requests for one id share a single bootstrap.
func (p *Pool) Get(ctx context.Context, id string) (*Tool, error) {
	if t, ok, err := p.lookup(id); ok || err != nil {
		return t, err
	}
	d, ok := p.doc.Find(id)
	if !ok {
		return nil, &BootstrapError{Tool: id, Stage: StageDescriptor, Err: &client.NotFoundError{ID: id}}
	}

	v, err, _ := p.boots.Do(id, func() (any, error) {
		if t, ok, err := p.lookup(id); ok || err != nil {
			return t, err
		}
		t, err := p.rt.BootstrapDescriptor(ctx, d, memdom.New(), nil)
		if err != nil {
			return nil, err
		}

		p.mu.Lock()
		defer p.mu.Unlock()
		if p.closed {
			t.Close()
			return nil, ErrClosed
		}
		if live, ok := p.tools[id]; ok {
			t.Close()
			return live, nil
		}
		p.tools[id] = t
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Tool), nil
}

// lookup returns the live instance of id, or ErrClosed once the pool is
// closed.
func (p *Pool) lookup(id string) (*Tool, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, false, ErrClosed
	}
	t, ok := p.tools[id]
	return t, ok, nil
}

// Len returns the number of live instances.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.tools)
}

// Close closes every live instance. Later calls to Get return ErrClosed.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	for id, t := range p.tools {
		t.Close()
		delete(p.tools, id)
	}
	p.logger.Debug().Msg("tool pool closed")
}
