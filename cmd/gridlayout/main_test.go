package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benoitkugler/gridlayout/version"
)

const gridFixture = `<body style="display: grid; grid-template-columns: 100px 1fr">
	<div id="a"></div>
	<div id="b" style="height: 20px"></div>
</body>`

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(new(bytes.Buffer))
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestVersion(t *testing.T) {
	out, err := executeCommand(t, "version")
	require.NoError(t, err)
	assert.Equal(t, version.VersionString+"\n", out)
}

func TestLayoutJSON(t *testing.T) {
	file := writeFile(t, "grid.html", gridFixture)
	out, err := executeCommand(t, "layout", "--width", "300", file)
	require.NoError(t, err)

	var results []fileResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, file, results[0].File)

	root := results[0].Root
	assert.Equal(t, "body", root.Tag)
	assert.InDelta(t, 300, root.Width, 1e-6)
	assert.InDelta(t, 20, root.Height, 1e-6)
	assert.InDeltaSlice(t, []float64{0, 100, 300}, root.Columns, 1e-6)
	assert.InDeltaSlice(t, []float64{0, 20}, root.Rows, 1e-6)

	require.Len(t, root.Children, 2)
	b := root.Children[1]
	assert.Equal(t, "b", b.ID)
	assert.InDelta(t, 100, b.X, 1e-6)
	assert.InDelta(t, 200, b.Width, 1e-6)
	// stretched to the row height
	assert.InDelta(t, 20, root.Children[0].Height, 1e-6)
}

func TestLayoutText(t *testing.T) {
	file := writeFile(t, "grid.html", gridFixture)
	out, err := executeCommand(t, "layout", "-o", "text", "--width", "300", file)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, file, lines[0])
	assert.Equal(t, "  body (0, 0) 300x20 columns=[0 100 300] rows=[0 20]", lines[1])
	assert.Equal(t, "    div#a (0, 0) 100x20", lines[2])
	assert.Equal(t, "    div#b (100, 0) 200x20", lines[3])
}

func TestLayoutSeveralFiles(t *testing.T) {
	var files []string
	for _, width := range []string{"10px", "20px", "30px"} {
		files = append(files, writeFile(t, width+".html",
			`<body style="display: grid; grid-template-columns: `+width+`"><div></div></body>`))
	}
	out, err := executeCommand(t, append([]string{"layout", "-j", "2"}, files...)...)
	require.NoError(t, err)

	var results []fileResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 3)
	for i, result := range results {
		assert.Equal(t, files[i], result.File)
		assert.InDelta(t, float64(10*(i+1)), result.Root.Children[0].Width, 1e-6)
	}
}

func TestConfigFile(t *testing.T) {
	file := writeFile(t, "grid.html", gridFixture)
	cfg := writeFile(t, "gridlayout.yaml", "viewport:\n  width: 200\noutput: text\nlog:\n  level: error\n")
	out, err := executeCommand(t, "layout", "--config", cfg, file)
	require.NoError(t, err)
	assert.Contains(t, out, "body (0, 0) 200x20")

	// flags have priority over the config file
	out, err = executeCommand(t, "layout", "--config", cfg, "--width", "250", file)
	require.NoError(t, err)
	assert.Contains(t, out, "body (0, 0) 250x20")
}

func TestEnvironment(t *testing.T) {
	t.Setenv("GRIDLAYOUT_VIEWPORT_WIDTH", "150")
	t.Setenv("GRIDLAYOUT_OUTPUT", "text")
	file := writeFile(t, "grid.html", gridFixture)
	out, err := executeCommand(t, "layout", file)
	require.NoError(t, err)
	assert.Contains(t, out, "body (0, 0) 150x20")
}

func TestLayoutErrors(t *testing.T) {
	_, err := executeCommand(t, "layout")
	assert.Error(t, err)

	_, err = executeCommand(t, "layout", filepath.Join(t.TempDir(), "missing.html"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	file := writeFile(t, "grid.html", gridFixture)
	_, err = executeCommand(t, "layout", "-o", "xml", file)
	assert.ErrorContains(t, err, "unknown output format")

	_, err = executeCommand(t, "layout", "--log-level", "verbose", file)
	assert.ErrorContains(t, err, "invalid log configuration")
}
