package bridge

import (
	"fmt"
	"strings"
)

// PluginNotRegisteredError reports a plugin name absent from the registry.
type PluginNotRegisteredError struct {
	Name       string
	Registered []string
}

func (e *PluginNotRegisteredError) Error() string {
	if len(e.Registered) == 0 {
		return fmt.Sprintf("bridge not found: %s", e.Name)
	}
	return fmt.Sprintf("bridge not found: %s (registered: %s)", e.Name, strings.Join(e.Registered, ", "))
}

// UnsupportedBridgeError reports a factory whose instance exposes no
// transformation entry point.
type UnsupportedBridgeError struct {
	Name   string
	Reason string
}

func (e *UnsupportedBridgeError) Error() string {
	return fmt.Sprintf("unsupported bridge format: %s: %s", e.Name, e.Reason)
}

// TransformError reports a failure raised by a bridge during recompute.
type TransformError struct {
	Bridge string
	Err    error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("bridge %s: %v", e.Bridge, e.Err)
}

func (e *TransformError) Unwrap() error { return e.Err }
