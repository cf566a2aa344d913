package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bobmcallan/toolrt/internal/common"
)

const testDocument = `{"tools":[
  {"url":"rot13","name":"ROT13","from":"Text","to":"ROT13 text","bridge":"rot13","options":[]},
  {"url":"change-case","name":"Change Case","bridge":"change-case","libraries":["grapheme-splitter"],
   "options":[{"group":"Case","buttons":[{"type":"checkbox","name":"uppercase","value":false,"label":"Uppercase"}]}]}
]}`

func newTestClient(url string) *DescriptorClient {
	return NewDescriptorClient(url, 5*time.Second, common.NewSilentLogger())
}

func TestFetchDescriptor_Success(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if !strings.HasPrefix(r.Header.Get("User-Agent"), "toolrt/") {
			t.Errorf("unexpected user agent %q", r.Header.Get("User-Agent"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(testDocument))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL + "/tools.json")
	d, err := c.FetchDescriptor(context.Background(), "change-case")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Name != "Change Case" {
		t.Errorf("expected name Change Case, got %s", d.Name)
	}
	if len(d.Libraries) != 1 || d.Libraries[0] != "grapheme-splitter" {
		t.Errorf("unexpected libraries %v", d.Libraries)
	}
	if atomic.LoadInt32(&hits) != 1 {
		t.Errorf("expected a single round trip, got %d", hits)
	}
}

func TestFetchDescriptor_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(testDocument))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchDescriptor(context.Background(), "nope")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if nf.ID != "nope" {
		t.Errorf("expected id nope, got %s", nf.ID)
	}
}

func TestFetchDescriptor_TransportFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"not json", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>oops</html>"))
		}},
		{"missing document", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := newTestClient(srv.URL).FetchDescriptor(context.Background(), "rot13")
			var te *TransportError
			if !errors.As(err, &te) {
				t.Fatalf("expected TransportError, got %v", err)
			}
		})
	}
}

func TestFetchDocument_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newTestClient(url).FetchDocument(context.Background())
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if te.URL != url {
		t.Errorf("expected url %s in error, got %s", url, te.URL)
	}
}

func TestFetchDocument_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newTestClient(srv.URL).FetchDocument(ctx); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestFetchDocument_ListsAllTools(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(testDocument))
	}))
	defer srv.Close()

	doc, err := newTestClient(srv.URL).FetchDocument(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Tools) != 2 {
		t.Errorf("expected 2 tools, got %d", len(doc.Tools))
	}
}
