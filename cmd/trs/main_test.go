package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return strings.TrimSpace(out.String()), err
}

func TestAnswerCmd(t *testing.T) {
	out, err := run(t, "answer", "2/15 + 1/4")
	require.NoError(t, err)
	assert.Equal(t, "23 / 60", out)

	out, err = run(t, "answer", "--trace", "3a + a")
	require.NoError(t, err)
	assert.Contains(t, out, "(combine_groups)")
	assert.True(t, strings.HasSuffix(out, "4a"), out)
}

func TestHintCmd(t *testing.T) {
	out, err := run(t, "hint", "x")
	require.NoError(t, err)
	assert.Equal(t, "No further steps.", out)
}

func TestValidateCmd(t *testing.T) {
	out, err := run(t, "validate", "3a + a", "4a")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out, "valid"), out)

	_, err = run(t, "validate", "3a + a", "4a + 1")
	assert.EqualError(t, err, "invalid")

	_, err = run(t, "validate", "3a + a")
	assert.Error(t, err)
}

func TestValidateCmd_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "steps.txt")
	require.NoError(t, os.WriteFile(path, []byte("3a + a\n\n4a\n"), 0o600))
	out, err := run(t, "validate", "--file", path)
	require.NoError(t, err)
	assert.Equal(t, "all 1 steps valid", out)

	require.NoError(t, os.WriteFile(path, []byte("3a + a\n4a\n5a\n"), 0o600))
	_, err = run(t, "validate", "-f", path)
	assert.EqualError(t, err, "line 3 does not follow from the line before")
}

func TestEvalCmd(t *testing.T) {
	out, err := run(t, "eval", "--set", "x=3", "x^2 + 1")
	require.NoError(t, err)
	assert.Equal(t, "10", out)

	_, err = run(t, "eval", "--set", "x", "x")
	assert.Error(t, err)
}

func TestParseAssignments(t *testing.T) {
	env, err := parseAssignments([]string{"x = 2", "y=-0.5"})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"x": 2, "y": -0.5}, env)

	_, err = parseAssignments([]string{"x=two"})
	assert.ErrorContains(t, err, "value of x")
}
