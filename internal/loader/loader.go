// Package loader fetches named code and style resources and installs them
// into a tool instance's environment.
package loader

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bobmcallan/toolrt/internal/common"
)

// DefaultExtension is appended to code resource names.
const DefaultExtension = ".lua"

// DefaultAliases maps logical resource names to their published names.
var DefaultAliases = map[string]string{
	"grapheme-splitter": "grapheme-splitter.min",
}

// maxParallel bounds concurrent fetches within one stage.
const maxParallel = 8

// Resource is a fetched resource.
type Resource struct {
	Name string // logical name as requested
	URL  string
	Body []byte
}

// Fetcher retrieves the body at url.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Environment receives fetched code resources. Install is called in the
// declared order of a stage, after every resource of that stage was fetched.
type Environment interface {
	Install(res Resource) error
}

// ResourceLoadError reports a resource that could not be fetched or installed.
type ResourceLoadError struct {
	Name string
	URL  string
	Err  error
}

func (e *ResourceLoadError) Error() string {
	return fmt.Sprintf("failed to load %s (%s): %v", e.Name, e.URL, e.Err)
}

func (e *ResourceLoadError) Unwrap() error { return e.Err }

// ErrInvalidName reports a resource name that could address anything other
// than a file directly under its base location.
var ErrInvalidName = errors.New("invalid resource name")

func checkName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return fmt.Errorf("%w %q", ErrInvalidName, name)
	}
	return nil
}

// Loader loads resources for one tool instance.
type Loader struct {
	fetcher   Fetcher
	env       Environment
	aliases   map[string]string
	extension string
	logger    *common.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithAliases adds name translations on top of DefaultAliases.
func WithAliases(aliases map[string]string) Option {
	return func(l *Loader) {
		for k, v := range aliases {
			l.aliases[k] = v
		}
	}
}

// WithExtension overrides the extension appended to code resource names.
func WithExtension(ext string) Option {
	return func(l *Loader) { l.extension = ext }
}

// New creates a Loader installing into env.
func New(fetcher Fetcher, env Environment, logger *common.Logger, opts ...Option) *Loader {
	l := &Loader{
		fetcher:   fetcher,
		env:       env,
		aliases:   make(map[string]string, len(DefaultAliases)),
		extension: DefaultExtension,
		logger:    logger,
	}
	for k, v := range DefaultAliases {
		l.aliases[k] = v
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// URL resolves the location of a code resource.
func (l *Loader) URL(baseURL, name string) string {
	published := name
	if alias, ok := l.aliases[name]; ok {
		published = alias
	}
	return joinURL(baseURL, published+l.extension)
}

// LoadAll rejects names that are not plain file names, then fetches every
// named resource concurrently, waits for all of them, then installs them in
// declared order. If any resource fails the stage
// fails and nothing is installed. Names are not deduplicated.
func (l *Loader) LoadAll(ctx context.Context, baseURL string, names []string) error {
	if len(names) == 0 {
		return nil
	}
	for _, name := range names {
		published := name
		if alias, ok := l.aliases[name]; ok {
			published = alias
		}
		for _, n := range []string{name, published} {
			if err := checkName(n); err != nil {
				return &ResourceLoadError{Name: name, URL: baseURL, Err: err}
			}
		}
	}

	type result struct {
		res Resource
		err error
	}
	results := make([]result, len(names))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)
	for i, name := range names {
		g.Go(func() error {
			url := l.URL(baseURL, name)
			start := time.Now()
			body, err := l.fetcher.Fetch(gCtx, url)
			if err != nil {
				l.logger.Warn().Str("resource", name).Str("url", url).Str("error", err.Error()).Msg("resource load failed")
				results[i] = result{err: &ResourceLoadError{Name: name, URL: url, Err: err}}
				return nil
			}
			l.logger.Debug().Str("resource", name).Str("url", url).Int("bytes", len(body)).Dur("elapsed", time.Since(start)).Msg("resource fetched")
			results[i] = result{res: Resource{Name: name, URL: url, Body: body}}
			return nil
		})
	}
	_ = g.Wait() // goroutines report through results

	var errs []error
	for _, r := range results {
		if r.err != nil {
			errs = append(errs, r.err)
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	for _, r := range results {
		if err := l.env.Install(r.res); err != nil {
			return &ResourceLoadError{Name: r.res.Name, URL: r.res.URL, Err: err}
		}
	}
	return nil
}

// Load fetches and installs a single code resource.
func (l *Loader) Load(ctx context.Context, baseURL, name string) error {
	return l.LoadAll(ctx, baseURL, []string{name})
}

// FetchStyle fetches a style resource by its file name; no extension or
// alias translation applies and nothing is installed.
func (l *Loader) FetchStyle(ctx context.Context, baseURL, file string) (Resource, error) {
	if err := checkName(file); err != nil {
		return Resource{}, &ResourceLoadError{Name: file, URL: baseURL, Err: err}
	}
	url := joinURL(baseURL, file)
	body, err := l.fetcher.Fetch(ctx, url)
	if err != nil {
		return Resource{}, &ResourceLoadError{Name: file, URL: url, Err: err}
	}
	return Resource{Name: file, URL: url, Body: body}, nil
}

func joinURL(base, name string) string {
	if base == "" || strings.HasSuffix(base, "/") {
		return base + name
	}
	return base + "/" + name
}
