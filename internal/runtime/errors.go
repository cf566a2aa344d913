package runtime

import (
	"errors"
	"fmt"
)

// Bootstrap stages, in pipeline order.
const (
	StageDescriptor   = "descriptor"
	StageLibraries    = "libraries"
	StagePlugin       = "plugin"
	StageResolve      = "resolve"
	StagePresentation = "presentation"
	StageRender       = "render"
)

// ErrClosed is returned by operations on a closed tool.
var ErrClosed = errors.New("tool closed")

// BootstrapError reports the stage at which bootstrap failed.
type BootstrapError struct {
	Tool  string
	Stage string
	Err   error
}

func (e *BootstrapError) Error() string {
	return fmt.Sprintf("bootstrap %s failed at %s: %v", e.Tool, e.Stage, e.Err)
}

func (e *BootstrapError) Unwrap() error { return e.Err }
