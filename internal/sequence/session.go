package sequence

import (
	"time"

	"github.com/cyue/lantern/internal/core"
	"github.com/cyue/lantern/internal/types"
)

// Speeds configures the two reveal cadences.
type Speeds struct {
	Log      time.Duration
	Dialogue time.Duration
}

// DefaultSpeeds matches the shipped pacing: fast log, slow dialogue.
var DefaultSpeeds = Speeds{Log: 15 * time.Millisecond, Dialogue: 50 * time.Millisecond}

// Session is the per-play-through sequencer. It owns the playback queue,
// the dialogue channel, the canonical state and the effect coordinator,
// and exposes a narrow read/command surface to the host.
//
// The session is single-threaded by contract: the host calls every method
// from one goroutine, delivers at most one action result at a time, and
// delivers results in response-arrival order.
type Session struct {
	ID string

	playback *Playback
	dialogue *Dialogue
	rec      *Reconciler
	effects  *Effects

	scene       types.SceneType
	outstanding bool
	gameOver    bool
	exited      bool
	refetch     bool
}

// NewSession creates an idle session.
func NewSession(speeds Speeds) *Session {
	if speeds.Log <= 0 {
		speeds.Log = DefaultSpeeds.Log
	}
	if speeds.Dialogue <= 0 {
		speeds.Dialogue = DefaultSpeeds.Dialogue
	}
	return &Session{
		ID:       core.MustGUID("ses"),
		playback: NewPlayback(speeds.Log),
		dialogue: NewDialogue(speeds.Dialogue),
		rec:      NewReconciler(),
		effects:  NewEffects(),
		scene:    types.SceneNarrative,
	}
}

// DispatchStarted closes the input gate for an outstanding action. The
// host calls it right before sending the request.
func (s *Session) DispatchStarted() {
	s.outstanding = true
}

// HandleActionFailed re-opens the input gate after a transport or action
// failure. No state is mutated; failure never folds into a result.
func (s *Session) HandleActionFailed() {
	s.outstanding = false
}

// HandleResult processes one action result end to end: classify the
// lines, route them, reconcile state, derive cues, detect terminal hp.
func (s *Session) HandleResult(result *types.ActionResult, now time.Time) {
	if s.exited {
		return
	}
	s.outstanding = false
	if result == nil {
		return
	}

	next := s.nextScene(result)

	channel, kind := Classify(result.Narrative, next)
	switch channel {
	case ChannelLog:
		entry := NewLogEntry(core.MustGUID("ent"), kind, result.Narrative, result.DiceResult)
		s.playback.Enqueue(entry, now)
	case ChannelDialogue:
		s.dialogue.Begin(result.Narrative, now)
	}

	cs := s.rec.Apply(result)
	s.refetch = s.refetch || cs.NeedsRefetch

	prev := s.scene
	s.scene = next
	if prev == types.SceneCombat && next != types.SceneCombat {
		s.rec.ClearCombat()
	}

	tutorial := ""
	if result.CombatInfo != nil {
		tutorial = result.CombatInfo.Tutorial
	}
	s.effects.Observe(cs, prev, next, tutorial, now)

	if s.rec.State().MaxHP > 0 && s.rec.State().HP <= 0 {
		s.latchGameOver()
	}
}

// nextScene resolves the scene tag for a result. A combat tag without any
// combat information anywhere is malformed and degrades to non-combat
// rather than failing the pipeline.
func (s *Session) nextScene(result *types.ActionResult) types.SceneType {
	switch result.SceneType {
	case types.SceneCombat:
		hasInfo := result.CombatInfo != nil ||
			(result.GameState != nil && result.GameState.Combat != nil) ||
			(result.StateChanges != nil && result.StateChanges.EnemyHP != nil) ||
			s.rec.State().Combat != nil
		if !hasInfo {
			return types.SceneNarrative
		}
		return types.SceneCombat
	case types.SceneNarrative:
		return types.SceneNarrative
	default:
		// No classification: the scene carries over.
		return s.scene
	}
}

// ApplySnapshot feeds an authoritative snapshot outside the action flow
// (initial load, the inventory-refetch fallback).
func (s *Session) ApplySnapshot(snapshot *types.GameState, now time.Time) {
	if s.exited || snapshot == nil {
		return
	}
	prevState := s.rec.State()
	s.rec.ApplySnapshot(snapshot)
	state := s.rec.State()

	cs := ChangeSet{
		PlayerHurt: state.HP < prevState.HP,
		EnemyHurt: prevState.Combat != nil && state.Combat != nil &&
			state.Combat.EnemyID == prevState.Combat.EnemyID &&
			state.Combat.EnemyHP < prevState.Combat.EnemyHP,
	}
	prev := s.scene
	if state.Combat != nil {
		s.scene = types.SceneCombat
	} else {
		s.scene = types.SceneNarrative
	}
	s.effects.Observe(cs, prev, s.scene, "", now)

	if state.MaxHP > 0 && state.HP <= 0 {
		s.latchGameOver()
	}
}

func (s *Session) latchGameOver() {
	if s.gameOver {
		return
	}
	s.gameOver = true
	s.playback.Suspend()
}

// Advance runs every timed transition due at now: log reveal, dialogue
// reveal, cue expiries. Returns true when anything changed. While
// game-over is latched the typing entry still finishes and cues still
// expire, but nothing new starts. After Exit everything is a no-op.
func (s *Session) Advance(now time.Time) bool {
	if s.exited {
		return false
	}
	changed := s.effects.Advance(now)
	if s.playback.Advance(now) {
		changed = true
	}
	if !s.gameOver && s.dialogue.Advance(now) {
		changed = true
	}
	return changed
}

// NextDue reports the earliest pending deadline across all components, so
// the host can arm exactly one timer.
func (s *Session) NextDue() (time.Time, bool) {
	if s.exited {
		return time.Time{}, false
	}
	var due time.Time
	ok := false
	consider := func(t time.Time, valid bool) {
		if valid && (!ok || t.Before(due)) {
			due = t
			ok = true
		}
	}
	consider(s.effects.NextDue())
	consider(s.playback.NextDue())
	if !s.gameOver {
		consider(s.dialogue.NextDue())
	}
	return due, ok
}

// Skip completes the current reveal unit instantly: the typing log entry
// if one is active, otherwise the current dialogue line. The backlog is
// never touched.
func (s *Session) Skip(now time.Time) bool {
	if s.exited || s.gameOver {
		return false
	}
	if s.playback.Typing() != nil {
		return s.playback.Skip(now)
	}
	return s.dialogue.Skip()
}

// AdvanceDialogue moves past a fully revealed dialogue line. Returns true
// when the reading completed.
func (s *Session) AdvanceDialogue(now time.Time) bool {
	if s.exited || s.gameOver {
		return false
	}
	return s.dialogue.AdvanceLine(now)
}

// InputAccepted reports whether actions may be dispatched: no outstanding
// action, no game-over latch, and outside combat no dialogue mid-read.
// In combat, choices stay available concurrently with the log.
func (s *Session) InputAccepted() bool {
	if s.exited || s.gameOver || s.outstanding {
		return false
	}
	if s.scene != types.SceneCombat && s.dialogue.Active() {
		return false
	}
	return true
}

// ConsumeRefetch reports and clears the pending full-state re-fetch
// request raised by inventory/drops/gold flags.
func (s *Session) ConsumeRefetch() bool {
	refetch := s.refetch
	s.refetch = false
	return refetch
}

// Restart clears queues, cursors, cues and the game-over latch. The host
// follows up with an authoritative snapshot via ApplySnapshot.
func (s *Session) Restart() {
	if s.exited {
		return
	}
	s.playback.Reset()
	s.dialogue.Reset()
	s.effects.Reset()
	s.rec.Reset()
	s.scene = types.SceneNarrative
	s.outstanding = false
	s.gameOver = false
	s.refetch = false
}

// Exit tears the session down. Every pending deadline dies with it;
// Advance and all commands become no-ops, so a stale timer callback can
// never mutate state post-disposal. Idempotent.
func (s *Session) Exit() {
	if s.exited {
		return
	}
	s.exited = true
	s.playback.Reset()
	s.dialogue.Reset()
	s.effects.Reset()
	s.outstanding = false
}

// Playback exposes the log playback state for rendering.
func (s *Session) Playback() *Playback { return s.playback }

// Dialogue exposes the dialogue channel state for rendering.
func (s *Session) Dialogue() *Dialogue { return s.dialogue }

// State returns the current canonical state.
func (s *Session) State() CanonicalState { return s.rec.State() }

// Effects exposes the active cue set for rendering.
func (s *Session) Effects() *Effects { return s.effects }

// Scene returns the current scene classification.
func (s *Session) Scene() types.SceneType { return s.scene }

// GameOver reports the latched terminal state. Distinct from transport
// failure; no retry applies.
func (s *Session) GameOver() bool { return s.gameOver }

// Outstanding reports whether an action is in flight.
func (s *Session) Outstanding() bool { return s.outstanding }

// Exited reports whether the session has been torn down.
func (s *Session) Exited() bool { return s.exited }
