// Package game is the play screen: a bubbletea program that renders the
// sequencer and forwards player input to it. All timing flows through one
// armed tick derived from the session's next deadline.
package game

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cyue/lantern/internal/client"
	"github.com/cyue/lantern/internal/history"
	"github.com/cyue/lantern/internal/sequence"
	"github.com/cyue/lantern/internal/types"
)

// Options configure a play session.
type Options struct {
	Client  *client.Client
	Store   *history.Store
	Slot    int
	Speeds  sequence.Speeds
	Opening *types.ActionResult
}

// Run starts the play TUI and blocks until exit.
func Run(opts Options) error {
	model := NewModel(opts)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	model.Close()
	return err
}

// Model implements the play screen.
type Model struct {
	client  *client.Client
	store   *history.Store
	slot    int
	session *sequence.Session

	viewport viewport.Model
	spinner  spinner.Model

	actions     []types.ActionOption
	actionIndex int

	width  int
	height int
	ready  bool

	status    string
	tickGen   int
	persisted int
	quitting  bool
}

// NewModel builds the model and feeds the opening result (resume or new
// game) straight into the session.
func NewModel(opts Options) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(spinnerColor)

	m := &Model{
		client:  opts.Client,
		store:   opts.Store,
		slot:    opts.Slot,
		session: sequence.NewSession(opts.Speeds),
		spinner: sp,
	}

	if opts.Store != nil {
		if entries, err := opts.Store.Recent(opts.Slot, 100); err == nil && len(entries) > 0 {
			m.session.Playback().Preload(entries)
		}
	}

	if opts.Opening != nil {
		m.session.HandleResult(opts.Opening, now())
		m.actions = opts.Opening.AvailableActions
	}
	return m
}

// Init arms the first tick and the spinner.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.armTick(), m.spinner.Tick)
}

// Close releases resources after the program exits.
func (m *Model) Close() {
	m.session.Exit()
}

// selectedAction returns the highlighted action, if any.
func (m *Model) selectedAction() *types.ActionOption {
	if len(m.actions) == 0 || m.actionIndex < 0 || m.actionIndex >= len(m.actions) {
		return nil
	}
	return &m.actions[m.actionIndex]
}
