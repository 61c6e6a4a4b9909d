package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/nodetree/pkg/config"
	"github.com/matzehuels/nodetree/pkg/selection"
)

const (
	testCols = 120
	testRows = 42
)

// newTestEditor starts a parametric session with one layer of two children,
// no automatic fit and instant camera moves.
func newTestEditor(t *testing.T) editorModel {
	t.Helper()
	cfg := config.Default()
	cfg.Editor.Mode = "parametric"
	cfg.Editor.LayerCount = 1
	cfg.Editor.ChildNodeCount = 2
	cfg.Layout.FitDelay.Duration = 0
	cfg.Layout.FitDuration.Duration = 0

	s, err := newSession(cfg, newLogger(&bytes.Buffer{}, log.WarnLevel), sessionOptions{})
	require.NoError(t, err)
	t.Cleanup(s.close)

	ctx := context.Background()
	require.NoError(t, s.start(ctx))

	m, err := newEditorModel(ctx, s, selection.ModeLasso)
	require.NoError(t, err)
	return update(t, m, tea.WindowSizeMsg{Width: testCols, Height: testRows})
}

func update(t *testing.T, m editorModel, msg tea.Msg) editorModel {
	t.Helper()
	next, _ := m.Update(msg)
	em, ok := next.(editorModel)
	require.True(t, ok)
	return em
}

func keys(t *testing.T, m editorModel, s string) editorModel {
	t.Helper()
	for _, r := range s {
		m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func drag(t *testing.T, m editorModel, ctrl bool, cells ...[2]int) editorModel {
	t.Helper()
	require.GreaterOrEqual(t, len(cells), 2)
	first, last := cells[0], cells[len(cells)-1]
	m = update(t, m, tea.MouseMsg{X: first[0], Y: first[1], Ctrl: ctrl,
		Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	for _, c := range cells[1:] {
		m = update(t, m, tea.MouseMsg{X: c[0], Y: c[1],
			Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	}
	return update(t, m, tea.MouseMsg{X: last[0], Y: last[1],
		Action: tea.MouseActionRelease, Button: tea.MouseButtonNone})
}

func TestEditorWindowSelectsAll(t *testing.T) {
	m := newTestEditor(t)
	m = keys(t, m, "fm")
	assert.Equal(t, selection.ModeWindow, m.mode)

	rows := testRows - toolbarLines
	m = drag(t, m, false, [2]int{0, 0}, [2]int{testCols / 2, rows / 2}, [2]int{testCols - 1, rows - 1})

	assert.Len(t, m.s.sel.Selected(), 3)
	assert.Empty(t, m.s.area.Overlay())
}

func TestEditorLassoAndClear(t *testing.T) {
	m := newTestEditor(t)
	m = keys(t, m, "f")

	rows := testRows - toolbarLines
	m = drag(t, m, false,
		[2]int{0, 0}, [2]int{testCols - 1, 0}, [2]int{testCols - 1, rows - 1}, [2]int{0, rows - 1})
	assert.Len(t, m.s.sel.Selected(), 3)

	m = keys(t, m, "c")
	assert.Zero(t, m.s.sel.Len())
}

func TestEditorShowsGestureWhileDrawing(t *testing.T) {
	m := newTestEditor(t)
	m = update(t, m, tea.MouseMsg{X: 2, Y: 2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = update(t, m, tea.MouseMsg{X: 30, Y: 10, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})

	shapes := m.s.area.Overlay()
	require.Len(t, shapes, 1)
	assert.Equal(t, string(selection.ModeLasso), shapes[0].Kind)
	assert.Equal(t, selection.Drawing, m.strategy.State())

	m = update(t, m, tea.MouseMsg{X: 30, Y: 10, Action: tea.MouseActionRelease})
	assert.Equal(t, selection.Idle, m.strategy.State())
}

func TestEditorIgnoresOtherButtons(t *testing.T) {
	m := newTestEditor(t)
	m = update(t, m, tea.MouseMsg{X: 2, Y: 2, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
	assert.Equal(t, selection.Idle, m.strategy.State())
	assert.Empty(t, m.s.area.Overlay())
}

func TestEditorLayerKeys(t *testing.T) {
	m := newTestEditor(t)

	m = keys(t, m, "+]")
	st := m.s.store.GetState()
	assert.Equal(t, 2, st.LayerCount)
	assert.Equal(t, 3, st.ChildNodeCount)

	// 1 + 3 + 9
	assert.Eventually(t, func() bool { return len(m.s.area.Nodes()) == 13 },
		2*time.Second, 10*time.Millisecond)

	m = keys(t, m, "--[[[[")
	st = m.s.store.GetState()
	assert.Equal(t, 0, st.LayerCount)
	assert.Equal(t, 1, st.ChildNodeCount)

	assert.Eventually(t, func() bool { return len(m.s.area.Nodes()) == 1 },
		2*time.Second, 10*time.Millisecond)
}

func TestEditorStickyAccumulate(t *testing.T) {
	m := newTestEditor(t)
	m = keys(t, m, "fm")
	rows := testRows - toolbarLines

	// Left half, then right half with sticky accumulate on.
	m = drag(t, m, false, [2]int{0, 0}, [2]int{testCols / 2, rows - 1})
	left := m.s.sel.Len()
	require.Positive(t, left)
	require.Less(t, left, 3)

	m = keys(t, m, "a")
	assert.True(t, m.sticky)
	m = drag(t, m, false, [2]int{testCols / 2, 0}, [2]int{testCols - 1, rows - 1})
	assert.Equal(t, 3, m.s.sel.Len())
}

func TestEditorQuit(t *testing.T) {
	for _, k := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
		{Type: tea.KeyCtrlC},
		{Type: tea.KeyEsc},
	} {
		m := newTestEditor(t)
		_, cmd := m.Update(k)
		require.NotNil(t, cmd, k.String())
		assert.IsType(t, tea.QuitMsg{}, cmd(), k.String())
	}
}

func TestEditorView(t *testing.T) {
	m := newTestEditor(t)
	m = keys(t, m, "f")
	m = update(t, m, rebuiltMsg{})

	view := m.View()
	lines := strings.Split(view, "\n")
	assert.Len(t, lines, testRows)
	assert.Contains(t, view, "root")
	assert.Contains(t, view, "parametric")
	assert.Contains(t, view, "0 nodes")

	m = update(t, m, errMsg{assert.AnError})
	assert.Contains(t, m.View(), assert.AnError.Error())
}

func TestEditorViewBeforeResize(t *testing.T) {
	m := newTestEditor(t)
	m.width = 0
	assert.Empty(t, m.View())
}
