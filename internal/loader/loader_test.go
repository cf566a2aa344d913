package loader

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/bobmcallan/toolrt/internal/common"
)

// mapFetcher serves bodies from a map keyed by URL.
type mapFetcher struct {
	mu      sync.Mutex
	bodies  map[string]string
	delay   map[string]time.Duration
	fetched []string
}

func (f *mapFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if d, ok := f.delay[url]; ok {
		time.Sleep(d)
	}
	f.mu.Lock()
	f.fetched = append(f.fetched, url)
	f.mu.Unlock()
	body, ok := f.bodies[url]
	if !ok {
		return nil, fmt.Errorf("server returned 404")
	}
	return []byte(body), nil
}

// recordingEnv records installed resource names.
type recordingEnv struct {
	installed []string
	failOn    string
}

func (e *recordingEnv) Install(res Resource) error {
	if res.Name == e.failOn {
		return errors.New("syntax error")
	}
	e.installed = append(e.installed, res.Name)
	return nil
}

func TestURL_AppliesAliasesAndExtension(t *testing.T) {
	l := New(&mapFetcher{}, &recordingEnv{}, common.NewSilentLogger(), WithAliases(map[string]string{"he": "he.min"}))

	tests := []struct {
		base, name, want string
	}{
		{"https://cdn/libs/", "grapheme-splitter", "https://cdn/libs/grapheme-splitter.min.lua"},
		{"https://cdn/libs/", "he", "https://cdn/libs/he.min.lua"},
		{"https://cdn/libs", "punycode", "https://cdn/libs/punycode.lua"},
	}
	for _, tt := range tests {
		if got := l.URL(tt.base, tt.name); got != tt.want {
			t.Errorf("URL(%q, %q) = %q, want %q", tt.base, tt.name, got, tt.want)
		}
	}
}

func TestURL_CustomExtension(t *testing.T) {
	l := New(&mapFetcher{}, &recordingEnv{}, common.NewSilentLogger(), WithExtension(".js"))
	if got := l.URL("b/", "x"); got != "b/x.js" {
		t.Errorf("expected b/x.js, got %s", got)
	}
}

func TestLoadAll_InstallsInDeclaredOrder(t *testing.T) {
	f := &mapFetcher{
		bodies: map[string]string{"b/a.lua": "a", "b/b.lua": "b", "b/c.lua": "c"},
		// the first resource arrives last
		delay: map[string]time.Duration{"b/a.lua": 30 * time.Millisecond},
	}
	env := &recordingEnv{}
	l := New(f, env, common.NewSilentLogger())

	if err := l.LoadAll(context.Background(), "b/", []string{"a", "b", "c"}); err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	want := []string{"a", "b", "c"}
	if fmt.Sprint(env.installed) != fmt.Sprint(want) {
		t.Errorf("expected install order %v, got %v", want, env.installed)
	}
	if f.fetched[len(f.fetched)-1] != "b/a.lua" {
		t.Errorf("expected fetches to run concurrently, order %v", f.fetched)
	}
}

func TestLoadAll_FailureInstallsNothing(t *testing.T) {
	f := &mapFetcher{bodies: map[string]string{"b/ok.lua": "x"}}
	env := &recordingEnv{}
	l := New(f, env, common.NewSilentLogger())

	err := l.LoadAll(context.Background(), "b/", []string{"ok", "missing"})
	var rle *ResourceLoadError
	if !errors.As(err, &rle) {
		t.Fatalf("expected ResourceLoadError, got %v", err)
	}
	if rle.Name != "missing" {
		t.Errorf("expected failing resource missing, got %s", rle.Name)
	}
	if len(env.installed) != 0 {
		t.Errorf("expected no installs after a failed stage, got %v", env.installed)
	}
}

func TestLoadAll_ReportsEveryFailure(t *testing.T) {
	l := New(&mapFetcher{}, &recordingEnv{}, common.NewSilentLogger())

	err := l.LoadAll(context.Background(), "b/", []string{"x", "y"})
	if err == nil {
		t.Fatal("expected error")
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		t.Fatalf("expected joined error, got %T", err)
	}
	if n := len(joined.Unwrap()); n != 2 {
		t.Errorf("expected 2 failures, got %d", n)
	}
}

func TestLoadAll_InstallFailure(t *testing.T) {
	f := &mapFetcher{bodies: map[string]string{"b/bad.lua": "x"}}
	l := New(f, &recordingEnv{failOn: "bad"}, common.NewSilentLogger())

	err := l.Load(context.Background(), "b/", "bad")
	var rle *ResourceLoadError
	if !errors.As(err, &rle) || rle.Name != "bad" {
		t.Fatalf("expected ResourceLoadError for bad, got %v", err)
	}
}

func TestLoadAll_NoDeduplication(t *testing.T) {
	f := &mapFetcher{bodies: map[string]string{"b/a.lua": "a"}}
	env := &recordingEnv{}
	l := New(f, env, common.NewSilentLogger())

	if err := l.LoadAll(context.Background(), "b/", []string{"a", "a"}); err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(env.installed) != 2 || len(f.fetched) != 2 {
		t.Errorf("expected the same name loaded twice, installed=%v fetched=%v", env.installed, f.fetched)
	}
}

func TestLoadAll_Empty(t *testing.T) {
	l := New(&mapFetcher{}, &recordingEnv{}, common.NewSilentLogger())
	if err := l.LoadAll(context.Background(), "b/", nil); err != nil {
		t.Errorf("empty stage should succeed: %v", err)
	}
}

func TestFetchStyle(t *testing.T) {
	f := &mapFetcher{bodies: map[string]string{"https://p/tool-css.css": "body{}"}}
	env := &recordingEnv{}
	l := New(f, env, common.NewSilentLogger())

	res, err := l.FetchStyle(context.Background(), "https://p/", "tool-css.css")
	if err != nil {
		t.Fatalf("FetchStyle failed: %v", err)
	}
	if string(res.Body) != "body{}" {
		t.Errorf("unexpected body %q", res.Body)
	}
	if len(env.installed) != 0 {
		t.Error("styles must not be installed into the code environment")
	}

	_, err = l.FetchStyle(context.Background(), "https://p/", "missing.css")
	var rle *ResourceLoadError
	if !errors.As(err, &rle) {
		t.Errorf("expected ResourceLoadError, got %v", err)
	}
}

func TestLoadAll_RejectsPathNames(t *testing.T) {
	f := &mapFetcher{bodies: map[string]string{"file:///libs/ok.lua": "ok = true"}}
	l := New(f, &recordingEnv{}, common.NewSilentLogger(), WithAliases(map[string]string{"sneaky": "../sneaky"}))

	for _, name := range []string{"../../etc/passwd", "sub/dir", `..\win`, "..", "", "sneaky"} {
		env := &recordingEnv{}
		l.env = env
		err := l.LoadAll(context.Background(), "file:///libs/", []string{"ok", name})
		if !errors.Is(err, ErrInvalidName) {
			t.Errorf("LoadAll(%q): expected ErrInvalidName, got %v", name, err)
		}
		if len(env.installed) != 0 {
			t.Errorf("LoadAll(%q): nothing may be installed, got %v", name, env.installed)
		}
	}
	if len(f.fetched) != 0 {
		t.Errorf("invalid names must be rejected before any fetch, fetched %v", f.fetched)
	}

	if _, err := l.FetchStyle(context.Background(), "file:///p/", "../secret.css"); !errors.Is(err, ErrInvalidName) {
		t.Errorf("FetchStyle: expected ErrInvalidName, got %v", err)
	}
}
