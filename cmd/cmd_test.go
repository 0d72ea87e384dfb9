package cmd

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeGrants(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestCatalogCommand(t *testing.T) {
	out, err := execute(t, "catalog")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 14)
	assert.Equal(t, "Non-Grant", lines[len(lines)-1])
}

func TestAllocateCommandCSV(t *testing.T) {
	grants := writeGrants(t, "grants.csv", "Grant Name,Maximum Hours\nAlpha,50\nBeta,30\n")
	missingCfg := filepath.Join(t.TempDir(), "none.yaml")
	out, err := execute(t, "allocate", "-c", missingCfg, "-f", grants, "--seed", "4", "--format", "csv", "--table", "summary")
	require.NoError(t, err)

	recs, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "Grant", recs[0][0])
	assert.Equal(t, []string{"50", "50", "0"}, recs[1][3:])
	assert.Equal(t, []string{"30", "30", "0"}, recs[2][3:])
}

func TestAllocateCommandXLSXFile(t *testing.T) {
	grants := writeGrants(t, "grants.yaml", "grants:\n  - name: Alpha\n    max_hours: 12\n")
	target := filepath.Join(t.TempDir(), "plan.xlsx")
	out, err := execute(t, "allocate", "-c", "absent.yaml", "-f", grants, "--format", "xlsx", "--table", "details", "-o", target)
	require.NoError(t, err)
	assert.Contains(t, out, "written to "+target)
	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.NotZero(t, info.Size())
}

func TestAllocateCommandErrors(t *testing.T) {
	bad := writeGrants(t, "bad.yaml", "grants:\n  - name: Alpha\n    max_hours: -3\n")
	_, err := execute(t, "allocate", "-c", "absent.yaml", "-f", bad, "--format", "table", "--table", "details", "-o", "")
	assert.Error(t, err)

	good := writeGrants(t, "good.yaml", "grants:\n  - name: Alpha\n    max_hours: 3\n")
	_, err = execute(t, "allocate", "-c", "absent.yaml", "-f", good, "--format", "pdf", "--table", "details", "-o", "")
	assert.ErrorContains(t, err, "unknown export format")
}

func TestRunsCommandWithoutRunLog(t *testing.T) {
	_, err := execute(t, "runs", "-c", "absent.yaml")
	assert.ErrorContains(t, err, "no run log configured")
}

func TestRunsCommand(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "config.yaml")
	runsFile := filepath.Join(dir, "runs.jsonl")
	require.NoError(t, os.WriteFile(cfgFile, []byte("runlog:\n  type: jsonl\n  conf:\n    path: "+runsFile+"\n"), 0o644))
	grants := writeGrants(t, "grants.json", `{"grants":[{"name":"Alpha","max_hours":40},{"name":"Beta","max_hours":40}]}`)

	_, err := execute(t, "allocate", "-c", cfgFile, "-f", grants, "--format", "json", "--table", "details", "-o", "")
	require.NoError(t, err)

	out, err := execute(t, "runs", "-c", cfgFile, "--mode", "exact")
	require.NoError(t, err)
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "Alpha, Beta")
	assert.Contains(t, out, "80.00")
}
