package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sigplot/domain/observation"
)

const referenceCSV = `Group,Category,Value
A,0,"[6, 7]"
A,1,"[9, 8, 10]"
A,2,"[55, 10]"
B,0,"[19, 18, 21]"
B,1,"[24, 23]"
B,2,"[29, 28, 30]"
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestMatrixCmd(t *testing.T) {
	path := writeFile(t, "ref.csv", referenceCSV)

	out, err := run(t, "matrix", path)
	require.NoError(t, err)

	var got []fileMatrices
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, path, got[0].File)
	require.Len(t, got[0].Groups, 2)
	assert.Equal(t, observation.Label("A"), got[0].Groups[0].Group)

	b := got[0].Groups[1]
	assert.Equal(t, observation.Label("B"), b.Group)
	assert.Equal(t, []observation.Label{"0", "1", "2"}, b.Categories)
	require.Len(t, b.Matrix, 3)
	assert.Equal(t, 1, b.Matrix[1][0])
	assert.Equal(t, []int{0, 0, 0}, b.Matrix[0])
}

func TestMatrixCmd_KeepsArgumentAndFirstSeenOrder(t *testing.T) {
	late := writeFile(t, "z.csv", "Group,Category,Value\nzeta,late,\"[5, 6, 7]\"\nzeta,early,\"[1, 2, 3]\"\nalpha,early,\"[1, 2, 3]\"\nalpha,late,\"[5, 6, 7]\"\n")
	early := writeFile(t, "a.csv", referenceCSV)

	out, err := run(t, "matrix", late, early, "--strategy", "2way")
	require.NoError(t, err)

	var got []fileMatrices
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	assert.Equal(t, late, got[0].File)
	assert.Equal(t, early, got[1].File)

	require.Len(t, got[0].Groups, 2)
	assert.Equal(t, observation.Label("zeta"), got[0].Groups[0].Group)
	assert.Equal(t, []observation.Label{"late", "early"}, got[0].Groups[0].Categories)
	assert.Equal(t, observation.Label("alpha"), got[0].Groups[1].Group)
	assert.Equal(t, []observation.Label{"early", "late"}, got[0].Groups[1].Categories)
}

func TestMatrixCmd_BadStrategy(t *testing.T) {
	_, err := run(t, "matrix", writeFile(t, "ref.csv", referenceCSV), "--strategy", "3way")
	assert.Error(t, err)
}

func TestPlanCmd(t *testing.T) {
	path := writeFile(t, "ref.csv", referenceCSV)

	out, err := run(t, "plan", "bar", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"bars"`)
	assert.Contains(t, out, `"group_ticks"`)

	out, err = run(t, "plan", "line", path, "--baseline", "0")
	require.NoError(t, err)
	assert.Contains(t, out, `"y_limits"`)

	_, err = run(t, "plan", "pie", path)
	assert.Error(t, err)
}

func TestReportCmd(t *testing.T) {
	path := writeFile(t, "ref.csv", referenceCSV)

	out, err := run(t, "report", path)
	require.NoError(t, err)
	assert.Contains(t, out, "## Group A")

	target := filepath.Join(t.TempDir(), "report.html")
	_, err = run(t, "report", path, "--html", "-o", target)
	require.NoError(t, err)
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<table>")
}
