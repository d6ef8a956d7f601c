package game

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cyue/lantern/internal/sequence"
	"github.com/cyue/lantern/internal/types"
)

func intPtr(v int) *int { return &v }

func testOpening() *types.ActionResult {
	return &types.ActionResult{
		Success:   true,
		Narrative: []string{"【戰鬥】影魅現身！"},
		SceneType: types.SceneCombat,
		CombatInfo: &types.CombatInfo{
			EnemyID: "shade", EnemyName: "影魅", EnemyHP: 20, EnemyMaxHP: 20,
		},
		AvailableActions: []types.ActionOption{
			{Type: "attack", Text: "攻擊"},
			{Type: "flee", Text: "逃跑"},
		},
	}
}

func newTestModel(t *testing.T) *Model {
	t.Helper()
	m := NewModel(Options{
		Slot:    1,
		Speeds:  sequence.Speeds{Log: time.Millisecond, Dialogue: time.Millisecond},
		Opening: testOpening(),
	})
	t.Cleanup(m.Close)
	return m
}

func TestMeter(t *testing.T) {
	tests := []struct {
		name  string
		value int
		max   int
		want  string
	}{
		{name: "full", value: 20, max: 20, want: "HP ████████ 20/20"},
		{name: "partial keeps one cell", value: 1, max: 20, want: "HP █░░░░░░░ 1/20"},
		{name: "empty", value: 0, max: 20, want: "HP ░░░░░░░░ 0/20"},
		{name: "no max", value: 7, max: 0, want: "HP 7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := meter("HP", tt.value, tt.max); got != tt.want {
				t.Fatalf("got %q want %q", got, tt.want)
			}
		})
	}
}

func TestTruncateIsCJKAware(t *testing.T) {
	if got := truncate("影魅現身", 20); got != "影魅現身" {
		t.Fatalf("short string altered: %q", got)
	}
	got := truncate("影魅現身在月光下", 7)
	if got != "影魅現…" {
		t.Fatalf("truncated: got %q", got)
	}
}

func TestAdvanceKeySkipsTypingEntry(t *testing.T) {
	m := newTestModel(t)
	if m.session.Playback().Typing() == nil {
		t.Fatal("opening entry not typing")
	}

	m.handleKeyMsg(tea.KeyMsg{Type: tea.KeySpace})

	if m.session.Playback().Typing() != nil {
		t.Fatal("space did not skip the typing entry")
	}
	if got := len(m.session.Playback().Completed()); got != 1 {
		t.Fatalf("completed: got %d want 1", got)
	}
}

func TestNumberKeyDispatchesAction(t *testing.T) {
	m := newTestModel(t)
	m.session.Skip(now())

	_, cmd := m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("2")})
	if cmd == nil {
		t.Fatal("number key produced no dispatch")
	}
	if m.actionIndex != 1 {
		t.Fatalf("action index: got %d want 1", m.actionIndex)
	}
	if !m.session.Outstanding() {
		t.Fatal("gate still open after dispatch")
	}

	// A second dispatch is refused while the first is outstanding.
	_, cmd = m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("1")})
	if m.actionIndex != 0 {
		t.Fatalf("selection should still move: %d", m.actionIndex)
	}
	if m.session.Outstanding() != true {
		t.Fatal("outstanding flag lost")
	}
}

func TestActionResultReopensGateAndSwapsActions(t *testing.T) {
	m := newTestModel(t)
	m.session.Skip(now())
	m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("1")})

	result := &types.ActionResult{
		Success:          true,
		Narrative:        []string{"造成 5 點傷害"},
		SceneType:        types.SceneCombat,
		StateChanges:     &types.StateChanges{EnemyHP: intPtr(15)},
		AvailableActions: []types.ActionOption{{Type: "attack", Text: "再次攻擊"}},
	}
	m.handleActionResultMsg(actionResultMsg{result: result})

	if m.session.Outstanding() {
		t.Fatal("gate still closed after result")
	}
	if len(m.actions) != 1 || m.actions[0].Text != "再次攻擊" {
		t.Fatalf("actions not swapped: %+v", m.actions)
	}
	if got := m.session.State().Combat.EnemyHP; got != 15 {
		t.Fatalf("enemy hp: got %d want 15", got)
	}
}

func TestActionErrReopensGateWithStatus(t *testing.T) {
	m := newTestModel(t)
	m.session.Skip(now())
	m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("1")})

	m.handleActionErrMsg(actionErrMsg{err: errTest})

	if m.session.Outstanding() {
		t.Fatal("gate still closed after failure")
	}
	if m.status == "" {
		t.Fatal("failure produced no status")
	}
	if m.session.GameOver() {
		t.Fatal("transport failure mistaken for game over")
	}
}

func TestStaleAdvanceTickIgnored(t *testing.T) {
	m := newTestModel(t)
	m.tickGen = 5

	before := m.session.Playback().Cursor()
	m.handleAdvanceMsg(advanceMsg{gen: 3, at: now().Add(time.Hour)})
	if got := m.session.Playback().Cursor(); got != before {
		t.Fatalf("stale tick advanced the session: %d -> %d", before, got)
	}
}

func TestGameOverRestartKey(t *testing.T) {
	m := newTestModel(t)
	m.handleActionResultMsg(actionResultMsg{result: &types.ActionResult{
		GameState: &types.GameState{Player: types.Player{Name: "阿岩", HP: 0, MaxHP: 26}},
	}})
	if !m.session.GameOver() {
		t.Fatal("not latched")
	}

	// Action keys are dead while latched.
	_, cmd := m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("1")})
	if cmd != nil {
		t.Fatal("dispatch while latched")
	}

	_, cmd = m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if cmd == nil {
		t.Fatal("restart key produced no reload")
	}
	if m.session.GameOver() {
		t.Fatal("latch survived the restart key")
	}
}

var errTest = &testError{}

type testError struct{}

func (*testError) Error() string { return "連線逾時" }
