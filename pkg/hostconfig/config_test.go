package hostconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadControlStatesParsesValidFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "control_states.conf", `# id speedup cost
0     1           1
1     1.206124137 1.084785357
2     1.387207669 1.196666697
`)

	states, err := LoadControlStates(path)
	require.NoError(t, err)
	require.Len(t, states, 3)
	assert.Equal(t, uint32(0), states[0].ID)
	assert.InDelta(t, 1.387207669, states[2].Speedup.ToFloat64(), 1e-9)
}

func TestLoadControlStatesRejectsOutOfOrderIDs(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "control_states.conf", "0 1 1\n2 2 2\n")

	_, err := LoadControlStates(path)
	assert.Error(t, err)
}

func TestLoadControlStatesRejectsEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "control_states.conf", "# just a comment\n")

	_, err := LoadControlStates(path)
	assert.Error(t, err)
}

func TestParserValidateRejectsBadConfig(t *testing.T) {
	p := NewParser()
	p.config.PerfGoal = -1
	assert.Error(t, p.Validate())
}

func TestYAMLRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")

	cfg := Default()
	cfg.PerfGoal = 3.5
	cfg.Scenario = "ramp"

	require.NoError(t, SaveYAML(path, cfg))

	loaded, err := LoadYAML(path)
	require.NoError(t, err)
	assert.Equal(t, 3.5, loaded.PerfGoal)
	assert.Equal(t, "ramp", loaded.Scenario)
}
