package runtime

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bobmcallan/toolrt/internal/bridge"
	"github.com/bobmcallan/toolrt/internal/common"
	"github.com/bobmcallan/toolrt/internal/config"
	"github.com/bobmcallan/toolrt/internal/ui"
)

// FailurePolicy decides what a failed recompute does to the output.
type FailurePolicy string

const (
	// FailurePolicyKeep leaves the previous output in place.
	FailurePolicyKeep FailurePolicy = config.OnErrorKeep
	// FailurePolicyInline writes "Error: <detail>" to the output.
	FailurePolicyInline FailurePolicy = config.OnErrorInline
)

// ParseFailurePolicy maps a config value to a policy.
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch FailurePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", FailurePolicyKeep:
		return FailurePolicyKeep, nil
	case FailurePolicyInline:
		return FailurePolicyInline, nil
	}
	return "", fmt.Errorf("unknown failure policy %q", s)
}

// Engine re-runs the bridge against the current input and options and
// publishes the result to the output element.
type Engine struct {
	mu      sync.Mutex
	bridge  bridge.Bridge
	rc      *bridge.Context
	input   ui.Element
	output  ui.Element
	policy  FailurePolicy
	lastErr error
	runs    int
	logger  *common.Logger
}

// NewEngine creates an engine over a resolved bridge.
func NewEngine(b bridge.Bridge, rc *bridge.Context, input, output ui.Element, policy FailurePolicy, logger *common.Logger) *Engine {
	if policy == "" {
		policy = FailurePolicyKeep
	}
	return &Engine{
		bridge: b,
		rc:     rc,
		input:  input,
		output: output,
		policy: policy,
		logger: logger,
	}
}

// Recompute runs the bridge once. On failure the output follows the
// engine's policy and the error is returned and kept as LastError.
func (e *Engine) Recompute() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.runs++
	start := time.Now()
	out, err := e.bridge(e.rc, e.input.Value())
	if err != nil {
		e.lastErr = err
		e.logger.Warn().Str("policy", string(e.policy)).Err(err).Msg("recompute failed")
		if e.policy == FailurePolicyInline {
			e.output.SetValue("Error: " + err.Error())
		}
		return err
	}

	e.lastErr = nil
	e.output.SetValue(out)
	e.logger.Debug().Int("input_len", len(e.input.Value())).Int("output_len", len(out)).Dur("elapsed", time.Since(start)).Msg("recomputed")
	return nil
}

// LastError returns the error of the most recent recompute, or nil.
func (e *Engine) LastError() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// Runs returns how many times the bridge has been invoked.
func (e *Engine) Runs() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.runs
}

// Policy returns the configured failure policy.
func (e *Engine) Policy() FailurePolicy { return e.policy }
