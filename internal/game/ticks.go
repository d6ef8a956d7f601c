package game

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cyue/lantern/internal/types"
)

// now is swappable for tests.
var now = time.Now

// advanceMsg fires when the session's earliest deadline is due. The
// generation lets a rearmed timer invalidate in-flight ticks, so exactly
// one timer drives the whole session.
type advanceMsg struct {
	gen int
	at  time.Time
}

// actionResultMsg delivers a dispatched action's result.
type actionResultMsg struct {
	result *types.ActionResult
}

// actionErrMsg delivers a transport or action failure. It never carries
// partial results.
type actionErrMsg struct {
	err error
}

// snapshotMsg delivers a full-state re-fetch (inventory fallback or
// restart).
type snapshotMsg struct {
	state *types.GameState
}

// snapshotErrMsg reports a failed re-fetch.
type snapshotErrMsg struct {
	err error
}

// armTick schedules one timer for the session's next deadline and bumps
// the generation so earlier timers die on arrival.
func (m *Model) armTick() tea.Cmd {
	due, ok := m.session.NextDue()
	if !ok {
		return nil
	}
	m.tickGen++
	gen := m.tickGen
	wait := time.Until(due)
	if wait < 0 {
		wait = 0
	}
	return tea.Tick(wait, func(t time.Time) tea.Msg {
		return advanceMsg{gen: gen, at: t}
	})
}

// dispatchCmd sends one action. The input gate is already closed by the
// caller; at most one of these runs at a time.
func (m *Model) dispatchCmd(action types.ActionRequest) tea.Cmd {
	c := m.client
	slot := m.slot
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		result, err := c.Dispatch(ctx, slot, action)
		if err != nil {
			return actionErrMsg{err: err}
		}
		return actionResultMsg{result: result}
	}
}

// refetchCmd pulls the authoritative snapshot, the reconciler's fallback
// when flags say a collection changed.
func (m *Model) refetchCmd() tea.Cmd {
	c := m.client
	slot := m.slot
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		state, err := c.State(ctx, slot)
		if err != nil {
			return snapshotErrMsg{err: err}
		}
		return snapshotMsg{state: state}
	}
}

// restartCmd reloads the slot after the game-over latch was cleared: the
// current scene's narrative, actions, and a fresh snapshot.
func (m *Model) restartCmd() tea.Cmd {
	c := m.client
	slot := m.slot
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		result, err := c.Load(ctx, slot)
		if err != nil {
			return actionErrMsg{err: err}
		}
		return actionResultMsg{result: result}
	}
}
