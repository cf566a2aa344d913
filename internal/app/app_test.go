package app

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bobmcallan/toolrt/internal/common"
	"github.com/bobmcallan/toolrt/internal/config"
)

func TestNew_LoadsDescriptors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"tools":[{"url":"rot13","name":"ROT13","bridge":"rot13"},{"url":"","bridge":""}]}`)
	}))
	defer srv.Close()

	cfg := config.NewDefaultConfig()
	cfg.Descriptors.URL = srv.URL
	cfg.Resources.CacheTTL = "1m"

	a, err := New(context.Background(), cfg, common.NewSilentLogger())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer a.Close()

	if n := len(a.Pool.Descriptors()); n != 2 {
		t.Errorf("expected 2 descriptors, got %d", n)
	}
	if a.ToolsHandler == nil || a.PageHandler == nil || a.MCPHandler == nil {
		t.Error("expected handlers initialized")
	}
}

func TestNew_DescriptorFetchFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := config.NewDefaultConfig()
	cfg.Descriptors.URL = srv.URL

	if _, err := New(context.Background(), cfg, common.NewSilentLogger()); err == nil {
		t.Error("expected error when descriptors cannot be fetched")
	}

	cfg.Runtime.OnError = "shout"
	if _, err := NewPool(context.Background(), cfg, common.NewSilentLogger()); err == nil {
		t.Error("expected invalid failure policy rejected")
	}
}
