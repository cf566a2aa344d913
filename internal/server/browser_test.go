package server

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

// newBrowser creates a headless Chrome context with a 30s timeout. The test
// is skipped when no Chrome binary is installed.
func newBrowser(t *testing.T) (context.Context, context.CancelFunc) {
	t.Helper()

	if testing.Short() {
		t.Skip("browser test skipped in short mode")
	}
	found := false
	for _, name := range []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser", "headless-shell"} {
		if _, err := exec.LookPath(name); err == nil {
			found = true
			break
		}
	}
	if !found {
		t.Skip("no Chrome binary found")
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	ctx, ctxCancel := chromedp.NewContext(allocCtx)
	ctx, timeoutCancel := context.WithTimeout(ctx, 30*time.Second)

	cancel := func() {
		timeoutCancel()
		ctxCancel()
		allocCancel()
	}
	return ctx, cancel
}

// jsErrorCollector records exceptions and console.error calls.
// Call before chromedp.Navigate.
type jsErrorCollector struct {
	mu     sync.Mutex
	errors []string
}

func newJSErrorCollector(ctx context.Context) *jsErrorCollector {
	c := &jsErrorCollector{}

	chromedp.ListenTarget(ctx, func(ev interface{}) {
		c.mu.Lock()
		defer c.mu.Unlock()

		switch e := ev.(type) {
		case *runtime.EventExceptionThrown:
			c.errors = append(c.errors, fmt.Sprintf("EXCEPTION: %s", e.ExceptionDetails.Text))
		case *runtime.EventConsoleAPICalled:
			if e.Type == runtime.APITypeError {
				for _, arg := range e.Args {
					if arg.Value != nil && !strings.Contains(string(arg.Value), "favicon") {
						c.errors = append(c.errors, fmt.Sprintf("console.error: %s", arg.Value))
					}
				}
			}
		}
	})

	return c
}

func (c *jsErrorCollector) Errors() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.errors))
	copy(out, c.errors)
	return out
}

func TestBrowser_ToolPage(t *testing.T) {
	ctx, cancel := newBrowser(t)
	defer cancel()

	srv := httptest.NewServer(New(newTestApp(t)).Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/tools/rot13/transform", "application/json", strings.NewReader(`{"input":"Hello"}`))
	if err != nil {
		t.Fatalf("transform request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	errs := newJSErrorCollector(ctx)

	var title, input, output string
	var readonly bool
	err = chromedp.Run(ctx,
		chromedp.Navigate(srv.URL+"/tools/rot13"),
		chromedp.WaitVisible("#tool-rot13", chromedp.ByQuery),
		chromedp.Text("h1.tool-name", &title, chromedp.ByQuery),
		chromedp.Value("#input", &input, chromedp.ByQuery),
		chromedp.Value("#output", &output, chromedp.ByQuery),
		chromedp.Evaluate(`document.querySelector('#output').readOnly`, &readonly),
	)
	if err != nil {
		t.Fatalf("browser run failed: %v", err)
	}

	if title != "ROT13" {
		t.Errorf("expected title ROT13, got %q", title)
	}
	if input != "Hello" {
		t.Errorf("expected input Hello, got %q", input)
	}
	if output != "Uryyb" {
		t.Errorf("expected output Uryyb, got %q", output)
	}
	if !readonly {
		t.Error("expected output to be read-only")
	}
	if jsErrs := errs.Errors(); len(jsErrs) > 0 {
		t.Errorf("JS errors on tool page:\n  %s", strings.Join(jsErrs, "\n  "))
	}
}

func TestBrowser_IndexLinks(t *testing.T) {
	ctx, cancel := newBrowser(t)
	defer cancel()

	srv := httptest.NewServer(New(newTestApp(t)).Handler())
	defer srv.Close()

	var count int
	var href string
	err := chromedp.Run(ctx,
		chromedp.Navigate(srv.URL+"/"),
		chromedp.WaitVisible("ul.tool-list", chromedp.ByQuery),
		chromedp.Evaluate(`document.querySelectorAll('ul.tool-list a').length`, &count),
		chromedp.AttributeValue("ul.tool-list a", "href", &href, nil, chromedp.ByQuery),
	)
	if err != nil {
		t.Fatalf("browser run failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 tool link, got %d", count)
	}
	if href != "/tools/rot13" {
		t.Errorf("expected href /tools/rot13, got %q", href)
	}
}
