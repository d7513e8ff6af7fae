package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/hstrat"
	"github.com/hupe1980/hstrat/records"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "sim.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestPoliciesCommand(t *testing.T) {
	out, err := run(t, "policies", "--n", "100")
	require.NoError(t, err)

	assert.Contains(t, out, "SPEC")
	assert.Contains(t, out, "nominal")
	assert.Contains(t, out, "fixed_resolution:10")
	assert.Contains(t, out, "stochastic:1")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 11)

	fields := strings.Fields(lines[1])
	assert.Equal(t, []string{"perfect", "-", "100", "0", "true"}, fields)
}

func TestSimulateAndCompare(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir, `
policy: fixed_resolution:4
differentia_bit_width: 32
population: 6
generations: 25
replicates: 2
seed: 9
concurrency: 2
compression: zstd
`)
	outDir := filepath.Join(dir, "out")

	out, err := run(t, "simulate", "--config", cfg, "--out", outDir)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote 12 columns")

	files, err := filepath.Glob(filepath.Join(outDir, "*.json"))
	require.NoError(t, err)
	require.Len(t, files, 12)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.True(t, records.IsEnveloped(data))

	r, err := records.Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, uint64(26), r.NumStrataDeposited)
	assert.Equal(t, 32, r.DifferentiaBitWidth)

	// same replicate: the founder is shared
	out, err = run(t, "compare", files[0], files[1])
	require.NoError(t, err)
	assert.Contains(t, out, "common ancestor:   true")
	assert.Contains(t, out, "mrca bounds:       [")

	// different replicates descend from different founders
	out, err = run(t, "compare", "--json", files[0], files[len(files)-1])
	require.NoError(t, err)
	assert.Contains(t, out, `"has_common_ancestor":false`)
	assert.Contains(t, out, `"mrca_bounds":null`)
}

func TestSimulateDeterministic(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir, "policy: recency_proportional_resolution:2\npopulation: 3\ngenerations: 12\nseed: 5\n")

	for _, sub := range []string{"a", "b"} {
		_, err := run(t, "simulate", "-c", cfg, "-o", filepath.Join(dir, sub))
		require.NoError(t, err)
	}

	for i := range 3 {
		name := fmt.Sprintf("rep000_%04d.json", i)
		a, err := os.ReadFile(filepath.Join(dir, "a", name))
		require.NoError(t, err)
		b, err := os.ReadFile(filepath.Join(dir, "b", name))
		require.NoError(t, err)
		assert.Equal(t, a, b, name)
	}
}

func TestSimulateRejectsBadConfig(t *testing.T) {
	dir := t.TempDir()

	tests := map[string]string{
		"unknown policy": "policy: nope:3\n",
		"zero width":     "differentia_bit_width: 0\n",
		"bad codec":      "codec: xml\n",
		"bad param":      "policy: recency_proportional_resolution_curbed:4\n",
		"not yaml":       "policy: [\n",
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := writeConfig(t, t.TempDir(), body)
			_, err := run(t, "simulate", "-c", cfg, "-o", dir)
			require.Error(t, err)
		})
	}
}

func TestCompareRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"policy_algo":"perfect_resolution","differentia_bit_width":8,"num_strata_deposited":1,"differentiae":"","stratum_ranks":[0]}`), 0o644))

	_, err := run(t, "compare", bad, bad)
	require.ErrorIs(t, err, records.ErrInvalidRecords)

	_, err = run(t, "compare", bad)
	require.Error(t, err)
}

func TestVersionFlag(t *testing.T) {
	out, err := run(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, hstrat.Version)
}
