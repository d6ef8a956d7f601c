package game

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSizeMsg(msg)
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case advanceMsg:
		return m.handleAdvanceMsg(msg)
	case actionResultMsg:
		return m.handleActionResultMsg(msg)
	case actionErrMsg:
		return m.handleActionErrMsg(msg)
	case snapshotMsg:
		return m.handleSnapshotMsg(msg)
	case snapshotErrMsg:
		return m.handleSnapshotErrMsg(msg)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	default:
		return m, nil
	}
}

func (m *Model) handleWindowSizeMsg(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	logHeight := m.height - chromeHeight
	if logHeight < 3 {
		logHeight = 3
	}
	if !m.ready {
		m.viewport = newLogViewport(m.width, logHeight)
		m.ready = true
	} else {
		m.viewport.Width = m.width
		m.viewport.Height = logHeight
	}
	m.refreshLog(true)
	return m, nil
}

func (m *Model) handleAdvanceMsg(msg advanceMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.tickGen {
		// A rearm superseded this timer.
		return m, nil
	}
	if m.session.Advance(msg.at) {
		m.refreshLog(true)
		m.persistCompleted()
	}
	return m, m.armTick()
}

func (m *Model) handleActionResultMsg(msg actionResultMsg) (tea.Model, tea.Cmd) {
	if m.session.Exited() {
		return m, nil
	}
	m.status = ""
	m.session.HandleResult(msg.result, now())
	if msg.result != nil && msg.result.AvailableActions != nil {
		m.actions = msg.result.AvailableActions
		m.actionIndex = 0
	}
	m.refreshLog(true)
	m.persistCompleted()

	cmds := []tea.Cmd{m.armTick()}
	if m.session.ConsumeRefetch() {
		cmds = append(cmds, m.refetchCmd())
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleActionErrMsg(msg actionErrMsg) (tea.Model, tea.Cmd) {
	if m.session.Exited() {
		return m, nil
	}
	// Transport failure recovers locally: the gate reopens, nothing else
	// moves. Distinct from game-over, which never shows a retry hint.
	m.session.HandleActionFailed()
	m.status = "行動失敗：" + msg.err.Error()
	return m, nil
}

func (m *Model) handleSnapshotMsg(msg snapshotMsg) (tea.Model, tea.Cmd) {
	if m.session.Exited() {
		return m, nil
	}
	m.session.ApplySnapshot(msg.state, now())
	return m, m.armTick()
}

func (m *Model) handleSnapshotErrMsg(msg snapshotErrMsg) (tea.Model, tea.Cmd) {
	if m.session.Exited() {
		return m, nil
	}
	m.status = "同步失敗：" + msg.err.Error()
	return m, nil
}

// persistCompleted appends entries finalized since the last call to the
// transcript.
func (m *Model) persistCompleted() {
	total := m.session.Playback().TotalCompleted()
	if m.store == nil || total <= m.persisted {
		m.persisted = total
		return
	}
	completed := m.session.Playback().Completed()
	fresh := total - m.persisted
	if fresh > len(completed) {
		fresh = len(completed)
	}
	for _, entry := range completed[len(completed)-fresh:] {
		_ = m.store.Append(m.session.ID, m.slot, entry)
	}
	m.persisted = total
}
