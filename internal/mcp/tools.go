package mcp

import (
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/toolrt/internal/common"
	"github.com/bobmcallan/toolrt/internal/models"
	"github.com/bobmcallan/toolrt/internal/runtime"
)

// InputParam is the argument carrying the text to transform.
const InputParam = "input"

// ToolName derives an MCP tool name from a tool identifier.
func ToolName(id string) string {
	return "transform_" + strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		}
		return '_'
	}, id)
}

// BuildMCPTool converts a tool descriptor into an mcp.Tool. Checkboxes
// become boolean parameters, radio keys string enums of their member
// values, and text controls string parameters.
func BuildMCPTool(d models.ToolDescriptor) mcp.Tool {
	description := d.Name
	if d.InputLabel != "" && d.OutputLabel != "" {
		description += ": " + d.InputLabel + " to " + d.OutputLabel
	}

	opts := []mcp.ToolOption{
		mcp.WithDescription(description),
		mcp.WithString(InputParam, mcp.Required(), mcp.Description("Text to transform")),
	}

	seen := map[string]bool{InputParam: true}
	for _, g := range d.Options {
		for _, c := range g.Controls {
			if c.Key == "" || seen[c.Key] {
				continue
			}
			seen[c.Key] = true
			opts = append(opts, buildParamOption(d, c))
		}
	}
	return mcp.NewTool(ToolName(d.ID), opts...)
}

// buildParamOption maps a declared control to the matching mcp-go option.
func buildParamOption(d models.ToolDescriptor, c models.OptionControl) mcp.ToolOption {
	var opts []mcp.PropertyOption
	if text := describe(c); text != "" {
		opts = append(opts, mcp.Description(text))
	}

	switch c.Kind {
	case models.KindCheckbox:
		opts = append(opts, mcp.DefaultBool(c.DefaultBool()))
		return mcp.WithBoolean(c.Key, opts...)
	case models.KindRadio:
		var values []string
		for _, g := range d.Options {
			for _, m := range g.Controls {
				if m.Kind == models.KindRadio && m.Key == c.Key {
					values = append(values, m.DefaultString())
					if m.Checked {
						opts = append(opts, mcp.DefaultString(m.DefaultString()))
					}
				}
			}
		}
		opts = append(opts, mcp.Enum(values...))
		return mcp.WithString(c.Key, opts...)
	default:
		opts = append(opts, mcp.DefaultString(c.DefaultString()))
		return mcp.WithString(c.Key, opts...)
	}
}

func describe(c models.OptionControl) string {
	switch {
	case c.Kind == models.KindRadio:
		return c.Comment
	case c.Label != "" && c.Comment != "":
		return c.Label + ". " + c.Comment
	case c.Label != "":
		return c.Label
	}
	return c.Comment
}

// RegisterTools registers one MCP tool per descriptor of the pool. When
// only is non-empty, descriptors outside it are skipped.
func RegisterTools(s *server.MCPServer, pool *runtime.Pool, only []string, logger *common.Logger) int {
	allowed := make(map[string]bool, len(only))
	for _, id := range only {
		allowed[id] = true
	}

	count := 0
	for _, d := range pool.Descriptors() {
		if len(allowed) > 0 && !allowed[d.ID] {
			continue
		}
		s.AddTool(BuildMCPTool(d), TransformHandler(pool, d.ID))
		logger.Debug().Str("tool", d.ID).Str("name", ToolName(d.ID)).Msg("MCP tool registered")
		count++
	}
	s.AddTool(ListTool(), ListToolHandler(pool))
	return count
}
