package sequence

import (
	"reflect"
	"testing"
	"time"

	"github.com/cyue/lantern/internal/types"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s := NewSession(Speeds{Log: time.Millisecond, Dialogue: time.Millisecond})
	s.ApplySnapshot(snapshot(), t0)
	return s
}

// settle drives Advance until no deadline remains, mimicking the host's
// single tick loop.
func settle(t *testing.T, s *Session) {
	t.Helper()
	for i := 0; i < 100000; i++ {
		due, ok := s.NextDue()
		if !ok {
			return
		}
		s.Advance(due)
	}
	t.Fatalf("session never settled")
}

func TestSessionAttackResult(t *testing.T) {
	s := newTestSession(t)
	s.HandleResult(&types.ActionResult{
		Success:    true,
		Narrative:  nil,
		SceneType:  types.SceneCombat,
		CombatInfo: &types.CombatInfo{EnemyID: "shade", EnemyName: "影魅", EnemyHP: 20, EnemyMaxHP: 20},
	}, t0)

	// The attack itself: both lines, the roll and an absolute enemy hp
	// delta riding on one result.
	lines := []string{"【戰鬥】你揮出一擊", "造成 5 點傷害"}
	roll := &types.DiceOutcome{Roll: 42, Target: 60, Result: "success"}
	s.DispatchStarted()
	if s.InputAccepted() {
		t.Fatal("input accepted while action outstanding")
	}
	s.HandleResult(&types.ActionResult{
		Success:      true,
		Narrative:    lines,
		SceneType:    types.SceneCombat,
		DiceResult:   roll,
		StateChanges: &types.StateChanges{EnemyHP: intPtr(15)},
	}, t0)

	typing := s.Playback().Typing()
	if typing == nil {
		t.Fatal("no entry typing after combat result")
	}
	if typing.Kind != EntryCombat {
		t.Fatalf("kind: got %q want %q", typing.Kind, EntryCombat)
	}
	if !reflect.DeepEqual(typing.Lines, lines) {
		t.Fatalf("lines: got %v", typing.Lines)
	}
	if typing.Roll == nil || typing.Roll.Roll != 42 || typing.Roll.Target != 60 {
		t.Fatalf("roll not attached: %+v", typing.Roll)
	}
	if !s.Effects().Active(CueEnemyHit) {
		t.Fatal("enemy-hit cue not active")
	}
	if got := s.State().Combat.EnemyHP; got != 15 {
		t.Fatalf("enemy hp: got %d want 15", got)
	}

	settle(t, s)

	completed := s.Playback().Completed()
	last := completed[len(completed)-1]
	if !reflect.DeepEqual(last.Lines, lines) {
		t.Fatalf("completed lines not verbatim: %v", last.Lines)
	}
	if s.Effects().Active(CueEnemyHit) {
		t.Fatal("enemy-hit cue did not expire")
	}
}

func TestSessionGameOverLatch(t *testing.T) {
	s := newTestSession(t)
	s.HandleResult(&types.ActionResult{
		Narrative:  []string{"影魅撲向你！"},
		SceneType:  types.SceneCombat,
		CombatInfo: &types.CombatInfo{EnemyID: "shade", EnemyHP: 20, EnemyMaxHP: 20},
	}, t0)
	s.HandleResult(&types.ActionResult{
		Narrative:    []string{"你眼前一黑。"},
		SceneType:    types.SceneCombat,
		StateChanges: &types.StateChanges{PlayerHP: intPtr(0)},
	}, t0)

	if !s.GameOver() {
		t.Fatal("game-over not latched at hp 0")
	}
	if s.InputAccepted() {
		t.Fatal("input gate open during game-over")
	}

	settle(t, s)
	// The entry typing at the latch finishes; the queued one never starts.
	if s.Playback().Backlog() != 1 {
		t.Fatalf("backlog: got %d want 1 (consumption halted)", s.Playback().Backlog())
	}
	if s.Skip(t0.Add(time.Hour)) {
		t.Fatal("skip accepted while latched")
	}
	// Latched is a mode, not an error: another result cannot unlatch it.
	s.HandleResult(&types.ActionResult{StateChanges: &types.StateChanges{PlayerHP: intPtr(5)}}, t0)
	if !s.GameOver() {
		t.Fatal("latch cleared without explicit restart")
	}
}

func TestSessionGameOverRestart(t *testing.T) {
	s := newTestSession(t)
	s.HandleResult(&types.ActionResult{
		Narrative:    []string{"致命一擊！"},
		SceneType:    types.SceneNarrative,
		StateChanges: &types.StateChanges{PlayerHP: intPtr(0)},
	}, t0)
	if !s.GameOver() {
		t.Fatal("not latched")
	}

	s.Restart()
	if s.GameOver() {
		t.Fatal("latch survived restart")
	}
	if len(s.Playback().Completed()) != 0 || s.Playback().Backlog() != 0 {
		t.Fatal("queues survived restart")
	}

	s.ApplySnapshot(snapshot(), t0)
	if got := s.State().HP; got != 26 {
		t.Fatalf("hp after restart snapshot: got %d want 26", got)
	}
	if !s.InputAccepted() {
		t.Fatal("input gate closed after restart")
	}
}

func TestSessionEmptyResultIsNoOp(t *testing.T) {
	s := newTestSession(t)
	before := s.State()

	s.HandleResult(&types.ActionResult{Success: true, Narrative: nil}, t0)

	if s.Playback().Typing() != nil || s.Playback().Backlog() != 0 {
		t.Fatal("empty result created a log entry")
	}
	if s.Dialogue().Active() {
		t.Fatal("empty result activated dialogue")
	}
	if !reflect.DeepEqual(before, s.State()) {
		t.Fatal("empty result mutated state")
	}
	if len(s.Effects().ActiveSet()) != 0 {
		t.Fatalf("empty result fired cues: %v", s.Effects().ActiveSet())
	}
}

func TestSessionActionFailureReopensGate(t *testing.T) {
	s := newTestSession(t)
	before := s.State()

	s.DispatchStarted()
	s.HandleActionFailed()

	if !s.InputAccepted() {
		t.Fatal("gate closed after action failure")
	}
	if !reflect.DeepEqual(before, s.State()) {
		t.Fatal("action failure mutated state")
	}
}

func TestSessionMalformedCombatTagDegrades(t *testing.T) {
	s := newTestSession(t)
	// Combat tag with no combat information anywhere: treated as
	// non-combat flavor text rather than failing the pipeline.
	s.HandleResult(&types.ActionResult{
		Narrative: []string{"風聲呼嘯。"},
		SceneType: types.SceneCombat,
	}, t0)

	if s.Scene() == types.SceneCombat {
		t.Fatal("malformed combat tag accepted")
	}
	if !s.Dialogue().Active() {
		t.Fatal("flavor line not routed to dialogue")
	}
}

func TestSessionDialogueGatesInputOutsideCombat(t *testing.T) {
	s := newTestSession(t)
	s.HandleResult(&types.ActionResult{
		Narrative: []string{"你聽見師父的聲音。"},
		SceneType: types.SceneNarrative,
	}, t0)

	if s.InputAccepted() {
		t.Fatal("input accepted during dialogue reveal")
	}

	s.Skip(t0)
	if done := s.AdvanceDialogue(t0); !done {
		t.Fatal("single-line dialogue did not complete")
	}
	if !s.InputAccepted() {
		t.Fatal("input gate closed after dialogue completed")
	}
}

func TestSessionCombatKeepsInputOpenDuringLog(t *testing.T) {
	s := newTestSession(t)
	s.HandleResult(&types.ActionResult{
		Narrative:  []string{"【戰鬥】影魅現身！"},
		SceneType:  types.SceneCombat,
		CombatInfo: &types.CombatInfo{EnemyID: "shade", EnemyHP: 20, EnemyMaxHP: 20},
	}, t0)

	if s.Playback().Typing() == nil {
		t.Fatal("combat lines not logged")
	}
	if !s.InputAccepted() {
		t.Fatal("choices unavailable while combat log types")
	}
}

func TestSessionRefetchFlag(t *testing.T) {
	s := newTestSession(t)
	s.HandleResult(&types.ActionResult{
		Narrative:    []string{"獲得 50 金幣"},
		StateChanges: &types.StateChanges{GoldGained: true},
	}, t0)

	if !s.ConsumeRefetch() {
		t.Fatal("refetch not requested for gold_gained")
	}
	if s.ConsumeRefetch() {
		t.Fatal("refetch flag not cleared after consumption")
	}
}

func TestSessionExitCancelsEverything(t *testing.T) {
	s := newTestSession(t)
	s.HandleResult(&types.ActionResult{
		Narrative:  []string{"【戰鬥】影魅現身！"},
		SceneType:  types.SceneCombat,
		CombatInfo: &types.CombatInfo{EnemyID: "shade", EnemyHP: 20, EnemyMaxHP: 20, Tutorial: "提示"},
	}, t0)

	s.Exit()
	if _, ok := s.NextDue(); ok {
		t.Fatal("deadline survived exit")
	}
	// Stale callbacks must not mutate state post-disposal.
	if s.Advance(t0.Add(time.Hour)) {
		t.Fatal("advance mutated an exited session")
	}
	s.HandleResult(&types.ActionResult{Narrative: []string{"遲到的結果"}}, t0)
	if s.Playback().Typing() != nil || s.Dialogue().Active() {
		t.Fatal("late result processed after exit")
	}
	s.Exit() // idempotent
}

func TestSessionSceneCarriesOverWithoutTag(t *testing.T) {
	s := newTestSession(t)
	s.HandleResult(&types.ActionResult{
		Narrative:  []string{"【戰鬥】影魅現身！"},
		SceneType:  types.SceneCombat,
		CombatInfo: &types.CombatInfo{EnemyID: "shade", EnemyHP: 20, EnemyMaxHP: 20},
	}, t0)

	// Untagged follow-up keeps the combat classification, so its lines
	// stay in the combat log.
	s.HandleResult(&types.ActionResult{Narrative: []string{"影魅低吼著後退。"}}, t0)
	if s.Scene() != types.SceneCombat {
		t.Fatalf("scene: got %q want combat", s.Scene())
	}
	if s.Playback().Backlog() != 1 {
		t.Fatalf("untagged combat lines not queued: backlog %d", s.Playback().Backlog())
	}
}
