package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/nodetree/pkg/config"
	"github.com/matzehuels/nodetree/pkg/geom"
	"github.com/matzehuels/nodetree/pkg/selection"
	"github.com/matzehuels/nodetree/pkg/store"
	"github.com/matzehuels/nodetree/pkg/treesync"
)

const (
	frameInterval = time.Second / 30
	toolbarLines  = 2
)

// editCommand creates the edit command that runs the terminal editor.
func (c *CLI) editCommand() *cobra.Command {
	var (
		flags   layoutFlags
		gesture string
		logFile string
		noWatch bool
	)

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit the graph interactively in the terminal",
		Long: `Edit the graph interactively in the terminal.

Drag with the left mouse button to select nodes with a lasso or a
window. Hold Ctrl while pressing, or toggle sticky mode with 'a', to add
to the current selection. The selected node IDs are printed on exit.

Keys:
  + / -      add or remove a layer
  ] / [      more or fewer children per node (parametric mode)
  m          switch between lasso and window selection
  a          toggle sticky accumulate
  c          clear the selection
  f          fit the view to the graph
  q          quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, &cfg); err != nil {
				return err
			}
			if cmd.Flags().Changed("selection") {
				cfg.Editor.Selection = gesture
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			selected, err := c.runEdit(cmd.Context(), cfg, logFile, !noWatch)
			if err != nil {
				return err
			}
			for _, id := range selected {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&gesture, "selection", "s", "", "initial gesture mode: lasso or window (default from config)")
	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file while the editor runs")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "do not reload the data set when its file changes")

	return cmd
}

// runEdit runs the editor until the user quits and returns the selection.
func (c *CLI) runEdit(ctx context.Context, cfg config.Config, logFile string, watch bool) ([]string, error) {
	w, closeLog, err := openLogFile(logFile)
	if err != nil {
		return nil, err
	}
	defer closeLog()
	logger := newLogger(w, c.Logger.GetLevel())

	var prog atomic.Pointer[tea.Program]
	send := func(msg tea.Msg) {
		if p := prog.Load(); p != nil {
			p.Send(msg)
		}
	}

	s, err := newSession(cfg, logger, sessionOptions{
		OnRebuild: func(res treesync.Result) { send(rebuiltMsg(res)) },
		OnError:   func(err error) { send(errMsg{err}) },
	})
	if err != nil {
		return nil, err
	}
	defer s.close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if err := s.start(ctx); err != nil {
		return nil, err
	}
	if watch {
		go func() {
			if err := s.watch(ctx); err != nil {
				send(errMsg{err})
			}
		}()
	}

	m, err := newEditorModel(ctx, s, cfg.SelectionMode())
	if err != nil {
		return nil, err
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	prog.Store(p)
	if _, err := p.Run(); err != nil {
		return nil, err
	}
	prog.Store(nil)
	return s.sel.Selected(), nil
}

// =============================================================================
// editorModel - Interactive graph editor
// =============================================================================

type (
	tickMsg    time.Time
	rebuiltMsg treesync.Result
	errMsg     struct{ err error }
)

// editorModel is the bubbletea model of the terminal editor. Mouse cells
// map to screen points through cellWidth and cellHeight; the area
// viewport covers the canvas rows above the toolbar.
type editorModel struct {
	ctx      context.Context
	s        *session
	strategy selection.Strategy
	mode     selection.Mode
	sticky   bool

	width, height int
	status        string
	err           error
}

func newEditorModel(ctx context.Context, s *session, mode selection.Mode) (editorModel, error) {
	strategy, err := s.strategy(mode)
	if err != nil {
		return editorModel{}, err
	}
	return editorModel{ctx: ctx, s: s, strategy: strategy, mode: mode}, nil
}

func (m editorModel) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.s.area.SetViewport(geom.R(0, 0, float32(m.width*cellWidth), float32(m.canvasRows()*cellHeight)))
	case tickMsg:
		m.s.area.Animate(frameInterval)
		return m, tick()
	case rebuiltMsg:
		m.err = nil
		m.status = formatStats(len(msg.Nodes), len(msg.Connections))
	case errMsg:
		m.err = msg.err
	case tea.MouseMsg:
		return m.mouse(msg), nil
	case tea.KeyMsg:
		return m.key(msg)
	}
	return m, nil
}

func (m editorModel) mouse(msg tea.MouseMsg) editorModel {
	if msg.Button != tea.MouseButtonLeft && msg.Action != tea.MouseActionRelease {
		return m
	}
	at := pointAt(msg.X, msg.Y)
	var ev selection.Event
	switch msg.Action {
	case tea.MouseActionPress:
		ev = selection.PointerDown{At: at, Accumulate: msg.Ctrl || m.sticky}
	case tea.MouseActionMotion:
		ev = selection.PointerMove{At: at}
	case tea.MouseActionRelease:
		ev = selection.PointerUp{At: at}
	default:
		return m
	}
	if err := m.strategy.Handle(m.ctx, ev); err != nil {
		m.err = err
	}
	return m
}

func (m editorModel) key(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := m.s.store
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "+", "=", "up":
		st.Dispatch(store.IncrementLayer{})
	case "-", "down":
		st.Dispatch(store.DecrementLayer{})
	case "]", "right":
		st.Dispatch(store.SetChildNodeCount{N: st.GetState().ChildNodeCount + 1})
	case "[", "left":
		st.Dispatch(store.SetChildNodeCount{N: st.GetState().ChildNodeCount - 1})
	case "m":
		next := selection.ModeWindow
		if m.mode == selection.ModeWindow {
			next = selection.ModeLasso
		}
		strategy, err := m.s.strategy(next)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.strategy, m.mode = strategy, next
	case "a":
		m.sticky = !m.sticky
	case "c":
		m.s.sel.Clear()
	case "f":
		if err := m.s.area.ZoomAt(m.ctx, m.s.area.Nodes()); err != nil {
			m.err = err
		}
	}
	return m, nil
}

func (m editorModel) canvasRows() int {
	return max(m.height-toolbarLines, 1)
}

func (m editorModel) View() string {
	if m.width == 0 {
		return ""
	}
	return m.render().String() + "\n" + m.toolbar()
}

func (m editorModel) render() *canvas {
	a := m.s.area
	c := newCanvas(m.width, m.canvasRows())
	c.drawGraph(a.Index(), a.Nodes(), a.Connections())
	for _, shape := range a.Overlay() {
		c.drawShape(shape)
	}
	return c
}

func (m editorModel) toolbar() string {
	st := m.s.store.GetState()
	field := func(key, value string) string {
		return styleToolbar.Render(key+" ") + styleToolbarValue.Render(value)
	}
	accumulate := "off"
	if m.sticky {
		accumulate = "on"
	}
	parts := []string{
		field("mode", string(m.s.ctrl.Mode())),
		field("select", string(m.mode)),
		field("layers", strconv.Itoa(st.LayerCount)),
		field("children", strconv.Itoa(st.ChildNodeCount)),
		field("selected", strconv.Itoa(m.s.sel.Len())),
		field("accumulate", accumulate),
	}
	line := strings.Join(parts, styleToolbar.Render("  "))
	switch {
	case m.err != nil:
		line += "  " + styleStatusError.Render(iconError+" "+m.err.Error())
	case m.status != "":
		line += "  " + StyleDim.Render(m.status)
	}
	help := StyleDim.Render("drag select  +/- layers  [/] children  m mode  a accumulate  c clear  f fit  q quit")
	return line + "\n" + help
}
