package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testDocument = `{"tools":[
 {"url":"rot13","name":"ROT13","from":"Plain","to":"Rotated","bridge":"rot13"},
 {"url":"upper","name":"Change Case","from":"Text","to":"Result","bridge":"change-case",
  "options":[{"group":"Case","buttons":[{"type":"checkbox","name":"uppercase","value":false,"label":"Upper"}]}],
  "examples":[{"title":"Shout","input":"hey","output":"HEY","options":{"uppercase":true}}]}
]}`

func newTestConfig(t *testing.T) string {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(testDocument))
	}))
	t.Cleanup(srv.Close)

	path := filepath.Join(t.TempDir(), "toolrt.toml")
	content := `[descriptors]
url = "` + srv.URL + `"

[resources]
stylesheet = ""

[logging]
level = "error"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestList(t *testing.T) {
	cfg := newTestConfig(t)
	out, err := execute(t, "list", "--config", cfg)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	for _, want := range []string{"ID", "rot13", "ROT13", "upper", "change-case"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got:\n%s", want, out)
		}
	}
}

func TestDescribe(t *testing.T) {
	cfg := newTestConfig(t)
	out, err := execute(t, "describe", "upper", "-c", cfg)
	if err != nil {
		t.Fatalf("describe failed: %v", err)
	}
	if !strings.Contains(out, `"bridge": "change-case"`) {
		t.Errorf("expected descriptor JSON, got:\n%s", out)
	}

	if _, err := execute(t, "describe", "missing", "-c", cfg); err == nil {
		t.Error("expected error for unknown tool")
	}
}

func TestRun(t *testing.T) {
	cfg := newTestConfig(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"rot13", []string{"run", "rot13", "--input", "Hello"}, "Uryyb\n"},
		{"option", []string{"run", "upper", "-i", "hey", "-o", "uppercase=true"}, "HEY\n"},
		{"default option", []string{"run", "upper", "-i", "Hey"}, "Hey\n"},
		{"example", []string{"run", "upper", "--example", "0"}, "HEY\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, append(tt.args, "--config", cfg)...)
			if err != nil {
				t.Fatalf("run failed: %v", err)
			}
			if out != tt.want {
				t.Errorf("expected %q, got %q", tt.want, out)
			}
		})
	}
}

func TestRun_Errors(t *testing.T) {
	cfg := newTestConfig(t)

	for _, args := range [][]string{
		{"run", "missing", "-i", "x"},
		{"run", "upper", "-i", "x", "-o", "nope=1"},
		{"run", "upper", "-i", "x", "-o", "novalue"},
		{"run", "upper", "--example", "5"},
		{"run", "upper", "-i", "x", "--example", "0"},
	} {
		if _, err := execute(t, append(args, "--config", cfg)...); err == nil {
			t.Errorf("expected error for %v", args)
		}
	}
}

func TestRun_Stdin(t *testing.T) {
	cfg := newTestConfig(t)
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader("abc"))
	cmd.SetArgs([]string{"run", "rot13", "--stdin", "--config", cfg})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if out.String() != "nop\n" {
		t.Errorf("expected nop, got %q", out.String())
	}
}

func TestHTML(t *testing.T) {
	cfg := newTestConfig(t)
	out, err := execute(t, "html", "rot13", "--config", cfg)
	if err != nil {
		t.Fatalf("html failed: %v", err)
	}
	if !strings.Contains(out, `id="tool-rot13"`) {
		t.Errorf("expected tool container in page, got:\n%s", out)
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version", "--config", filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out, "toolrt version ") {
		t.Errorf("unexpected version output %q", out)
	}
}

func TestParseOptions(t *testing.T) {
	snap, err := parseOptions([]string{"a=1", " b =x=y", "c="})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap["a"] != "1" || snap["b"] != "x=y" || snap["c"] != "" {
		t.Errorf("unexpected snapshot %v", snap)
	}
	if _, err := parseOptions([]string{"=x"}); err == nil {
		t.Error("expected error for empty key")
	}
}
