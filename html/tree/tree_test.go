package tree

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	pr "github.com/benoitkugler/gridlayout/css/properties"
	bo "github.com/benoitkugler/gridlayout/html/boxes"
	"github.com/benoitkugler/gridlayout/html/layout"
	tu "github.com/benoitkugler/gridlayout/utils/testutils"
)

const fixture = `<!DOCTYPE html>
<html>
<head><title>fixture</title><style>div { color: red }</style></head>
<body style="display: grid; grid-template-columns: 100px 1fr">
	<div id="a" style="grid-column: 2">Hello big world</div>
	<img width="50" height="30px">
	<script>var x = 1</script>
	some text
	<!-- comment -->
</body>
</html>`

func TestParse(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	tree, err := ParseString(fixture, DefaultMetrics)
	require.NoError(t, err)

	root := tree.Box(tree.Root())
	require.Equal(t, "body", root.ElementTag)
	require.Equal(t, pr.DisplayGrid, root.Style.Display)
	require.True(t, root.Content.IsEmpty())
	require.Len(t, root.Children, 3)

	a := tree.Box(root.Children[0])
	require.Equal(t, "div", a.ElementTag)
	require.Equal(t, "a", a.ElementID)
	require.Equal(t, pr.GridLine{Tag: pr.LineExplicit, Integer: 2}, a.Style.GridColumnStart)
	require.Equal(t, []bo.Fl{40, 24, 40}, a.Content.Words)
	require.Equal(t, bo.Fl(8), a.Content.Space)
	require.Equal(t, bo.Fl(20), a.Content.LineHeight)

	img := tree.Box(root.Children[1])
	require.Equal(t, "img", img.ElementTag)
	require.Equal(t, bo.Fl(50), img.Content.IntrinsicWidth)
	require.Equal(t, bo.Fl(30), img.Content.IntrinsicHeight)
	require.Empty(t, img.Children)

	text := tree.Box(root.Children[2])
	require.Equal(t, "anonymous", text.ElementTag)
	require.Equal(t, []bo.Fl{32, 32}, text.Content.Words)
	require.Equal(t, pr.InitialStyle(), text.Style)
}

func TestWideCharacters(t *testing.T) {
	tree, err := ParseString("<p>日本 go</p>", Metrics{CharWidth: 10, SpaceWidth: 5, LineHeight: 12})
	require.NoError(t, err)
	p := tree.Box(tree.Box(tree.Root()).Children[0])
	require.Equal(t, []bo.Fl{40, 20}, p.Content.Words)
	require.Equal(t, bo.Fl(65), p.Content.MaxContentWidth())
}

func TestInvalidDeclarationsAreLogged(t *testing.T) {
	logs := tu.CaptureLogs()
	tree, err := ParseString(`<div style="width: -1px; height: 10px; color: red"></div><img width="abc">`, DefaultMetrics)
	messages := logs.Logs()
	require.NoError(t, err)
	require.Len(t, messages, 3)
	require.Contains(t, messages[0], "width")
	require.Contains(t, messages[1], "color")
	require.Contains(t, messages[2], "invalid width attribute")

	div := tree.Box(tree.Box(tree.Root()).Children[0])
	require.Equal(t, pr.Px(10), div.Style.Height)
	require.Equal(t, pr.AutoLength, div.Style.Width)
}

func TestLoadFile(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	path := filepath.Join(t.TempDir(), "grid.html")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o644))
	tree, err := LoadFile(path, DefaultMetrics)
	require.NoError(t, err)

	require.NoError(t, layout.Layout(tree, 300, pr.AutoF))
	a := tree.Box(tree.Box(tree.Root()).Children[0])
	require.InDelta(t, 100, a.PositionX, 1e-6)
	require.InDelta(t, 200, a.Width, 1e-6)
	require.Equal(t, bo.Fl(300), tree.Box(tree.Root()).Width)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.html"), DefaultMetrics)
	require.ErrorIs(t, err, os.ErrNotExist)
}
