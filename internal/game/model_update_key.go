package game

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cyue/lantern/internal/types"
)

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		m.session.Exit()
		return m, tea.Quit
	}

	if m.session.GameOver() {
		return m.handleGameOverKeys(msg)
	}

	switch msg.String() {
	case " ", "enter":
		return m.handleAdvanceKey(msg)
	case "up", "k":
		if m.session.InputAccepted() && m.actionIndex > 0 {
			m.actionIndex--
		}
		return m, nil
	case "down", "j":
		if m.session.InputAccepted() && m.actionIndex < len(m.actions)-1 {
			m.actionIndex++
		}
		return m, nil
	case "pgup":
		m.viewport.HalfViewUp()
		return m, nil
	case "pgdown":
		m.viewport.HalfViewDown()
		return m, nil
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		index := int(msg.String()[0] - '1')
		if index < len(m.actions) {
			m.actionIndex = index
			return m.dispatchSelected()
		}
		return m, nil
	default:
		return m, nil
	}
}

// handleAdvanceKey is the skip/advance/confirm key. Reveal-in-progress
// takes precedence: first press completes the current unit instantly,
// the next one moves on or confirms the selected action.
func (m *Model) handleAdvanceKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.session.Playback().Typing() != nil {
		m.session.Skip(now())
		m.refreshLog(true)
		m.persistCompleted()
		return m, m.armTick()
	}
	if m.session.Dialogue().Active() {
		if !m.session.Dialogue().LineComplete() {
			m.session.Skip(now())
		} else {
			m.session.AdvanceDialogue(now())
		}
		return m, m.armTick()
	}
	if msg.String() == "enter" {
		return m.dispatchSelected()
	}
	return m, nil
}

func (m *Model) dispatchSelected() (tea.Model, tea.Cmd) {
	if !m.session.InputAccepted() {
		return m, nil
	}
	action := m.selectedAction()
	if action == nil {
		return m, nil
	}

	req := types.ActionRequest{ActionType: action.Type}
	if len(action.Data) > 0 || action.ID != "" {
		req.ActionData = make(map[string]any, len(action.Data)+1)
		for k, v := range action.Data {
			req.ActionData[k] = v
		}
		if action.ID != "" {
			req.ActionData["choice_id"] = action.ID
		}
	}

	m.session.DispatchStarted()
	m.status = ""
	return m, tea.Batch(m.dispatchCmd(req), m.spinner.Tick)
}

func (m *Model) handleGameOverKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "r":
		m.session.Restart()
		m.persisted = 0
		m.actions = nil
		m.actionIndex = 0
		m.refreshLog(true)
		return m, m.restartCmd()
	case "esc":
		m.quitting = true
		m.session.Exit()
		return m, tea.Quit
	default:
		return m, nil
	}
}
