package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/bobmcallan/toolrt/internal/config"
)

func TestVersionToolHandler(t *testing.T) {
	result, err := VersionToolHandler(testPool(t))(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %v", result.Content)
	}

	var info versionInfo
	if err := json.Unmarshal([]byte(resultText(t, result)), &info); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if info.Version != config.GetVersion() {
		t.Errorf("expected version %s, got %s", config.GetVersion(), info.Version)
	}
	if info.Tools != 3 {
		t.Errorf("expected 3 tools, got %d", info.Tools)
	}
}

func TestVersionTool_Definition(t *testing.T) {
	if VersionTool().Name != "get_version" {
		t.Error("expected get_version")
	}
	if ListTool().Name != "list_tools" {
		t.Error("expected list_tools")
	}
}
