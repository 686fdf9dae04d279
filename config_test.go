package trs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	trs "github.com/njchilds90/gotrs"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestConfig_Defaults(t *testing.T) {
	cfg, err := trs.LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, trs.DefaultConfig(), cfg)
	assert.Equal(t, trs.DefaultMaxSteps, cfg.MaxSteps)

	pc, err := cfg.PriorityConfig()
	require.NoError(t, err)
	assert.Equal(t, trs.DefaultPriorities(), pc)
}

func TestConfig_File(t *testing.T) {
	path := writeConfig(t, `
max_steps: 50
max_depth: 6
log_level: debug
server:
  addr: 127.0.0.1:9000
priorities:
  high: [swap_factors]
  implicit: []
`)
	cfg, err := trs.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.MaxSteps)
	assert.Equal(t, 6, cfg.MaxDepth)
	assert.Equal(t, trs.DefaultMaxNodes, cfg.MaxNodes, "unset keys keep their default")
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, 40, cfg.Server.Burst)

	pc, err := cfg.PriorityConfig()
	require.NoError(t, err)
	assert.Equal(t, []trs.RuleID{trs.RuleSwapFactors}, pc.High)
	assert.Empty(t, pc.Implicit)
	assert.Equal(t, trs.DefaultPriorities().Low, pc.Low)

	engine, err := cfg.Engine(nil)
	require.NoError(t, err)
	p, ok, err := engine.Suggest(trs.MustParse("b a + 2 + 3"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, trs.RuleSwapFactors, p.Rule)
}

func TestConfig_Invalid(t *testing.T) {
	path := writeConfig(t, `
max_depth: 100
log_level: loud
priorities:
  low: [no_such_rule]
`)
	_, err := trs.LoadConfig(path)
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "MaxDepth")
	assert.Contains(t, msg, "LogLevel")
	assert.Contains(t, msg, `unknown rule "no_such_rule"`)
}

func TestConfig_MissingFile(t *testing.T) {
	_, err := trs.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfig_Environment(t *testing.T) {
	path := writeConfig(t, "max_depth: 6\nlog_level: warn\n")
	t.Setenv("TRS_MAX_STEPS", "25")
	t.Setenv("TRS_MAX_DEPTH", "7")
	t.Setenv("TRS_MAX_NODES", "1000")
	t.Setenv("TRS_LOG_LEVEL", "debug")
	t.Setenv("TRS_ADDR", "127.0.0.1:9100")
	t.Setenv("TRS_STRICT", "1")

	cfg, err := trs.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.MaxSteps)
	assert.Equal(t, 7, cfg.MaxDepth, "the environment overrides the file")
	assert.Equal(t, 1000, cfg.MaxNodes)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "127.0.0.1:9100", cfg.Server.Addr)
	assert.True(t, cfg.Strict)

	t.Setenv("TRS_MAX_DEPTH", "100")
	_, err = trs.LoadConfig(path)
	assert.ErrorContains(t, err, "MaxDepth", "later changes to the environment are seen")
}

func TestConfig_StrictEngine(t *testing.T) {
	prev := trs.SetStrictAssertions(false)
	defer trs.SetStrictAssertions(prev)

	cfg := trs.DefaultConfig()
	cfg.Strict = true
	_, err := cfg.Engine(nil)
	require.NoError(t, err)
	assert.True(t, trs.SetStrictAssertions(false), "building the engine applies the setting")
}
